// Package postgres stores users and posts in PostgreSQL through a pgx pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AI2HU/dbmanager/internal/db"
	"github.com/AI2HU/dbmanager/internal/logger"
	"github.com/AI2HU/dbmanager/internal/models"
)

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// Postgres implements the Database interface for PostgreSQL
type Postgres struct {
	pool   *pgxpool.Pool
	config *models.Config
}

var _ db.Database = (*Postgres)(nil)

// New creates a new Postgres database instance
func New(config *models.Config) (*Postgres, error) {
	if config == nil || config.URI == "" {
		return nil, fmt.Errorf("postgres: connection string is required")
	}
	return &Postgres{config: config}, nil
}

// poolConfig parses the DSN and applies the max_conns option when present
func poolConfig(config *models.Config) (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(config.URI)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	if raw, ok := config.Options["max_conns"]; ok {
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid max_conns option: %q", raw)
		}
		cfg.MaxConns = int32(n)
	}

	cfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheStatement
	return cfg, nil
}

// Connect opens the pool and creates the tables when missing
func (p *Postgres) Connect(ctx context.Context) error {
	cfg, err := poolConfig(p.config)
	if err != nil {
		return err
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to ping postgres: %w", err)
	}

	if err := createTables(ctx, pool); err != nil {
		pool.Close()
		return fmt.Errorf("failed to create tables: %w", err)
	}

	p.pool = pool
	logger.Debug("postgres: connected to %s:%d/%s", cfg.ConnConfig.Host, cfg.ConnConfig.Port, cfg.ConnConfig.Database)
	return nil
}

// createTables creates users and posts. posts.user_id carries no foreign key
// so posts for unknown users are accepted.
func createTables(ctx context.Context, pool *pgxpool.Pool) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			age INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT clock_timestamp()
		)`,
		`CREATE TABLE IF NOT EXISTS posts (
			id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
			user_id BIGINT,
			title TEXT NOT NULL,
			content TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT clock_timestamp()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_user_id_created_at ON posts (user_id, created_at DESC)`,
	}

	for _, query := range queries {
		if _, err := pool.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}

	return nil
}

// Disconnect closes the pool
func (p *Postgres) Disconnect(ctx context.Context) error {
	if p.pool != nil {
		p.pool.Close()
		p.pool = nil
	}
	return nil
}

// Ping checks the database connection
func (p *Postgres) Ping(ctx context.Context) error {
	if p.pool == nil {
		return db.ErrNotConnected
	}
	return p.pool.Ping(ctx)
}

func parseID(id string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", db.ErrInvalidID, id)
	}
	return n, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// CreateUser inserts a user and returns its id
func (p *Postgres) CreateUser(ctx context.Context, name, email string, age int) (string, error) {
	if p.pool == nil {
		return "", db.ErrNotConnected
	}

	var id int64
	err := p.pool.QueryRow(ctx,
		`INSERT INTO users (name, email, age) VALUES ($1, $2, $3) RETURNING id`,
		name, email, age,
	).Scan(&id)
	if isUniqueViolation(err) {
		return "", db.ErrDuplicateEmail
	}
	if err != nil {
		return "", fmt.Errorf("insert user: %w", err)
	}

	return strconv.FormatInt(id, 10), nil
}

// ListUsers lists all users in insertion order
func (p *Postgres) ListUsers(ctx context.Context) ([]*models.User, error) {
	if p.pool == nil {
		return nil, db.ErrNotConnected
	}

	rows, err := p.pool.Query(ctx, `SELECT id, name, email, age, created_at FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var user models.User
		var id int64
		if err := rows.Scan(&id, &user.Name, &user.Email, &user.Age, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		user.ID = strconv.FormatInt(id, 10)
		users = append(users, &user)
	}

	return users, rows.Err()
}

// DeleteUser deletes the user's posts and the user inside one transaction
func (p *Postgres) DeleteUser(ctx context.Context, userID string) (bool, error) {
	if p.pool == nil {
		return false, db.ErrNotConnected
	}

	id, err := parseID(userID)
	if err != nil {
		return false, err
	}

	var deleted bool
	err = pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM posts WHERE user_id = $1`, id); err != nil {
			return fmt.Errorf("delete posts: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		deleted = tag.RowsAffected() > 0
		return nil
	})
	if err != nil {
		return false, err
	}

	return deleted, nil
}

// CreatePost inserts a post without checking that the owner exists
func (p *Postgres) CreatePost(ctx context.Context, userID, title, content string) (string, error) {
	if p.pool == nil {
		return "", db.ErrNotConnected
	}

	uid, err := parseID(userID)
	if err != nil {
		return "", err
	}

	var id int64
	err = p.pool.QueryRow(ctx,
		`INSERT INTO posts (user_id, title, content) VALUES ($1, $2, $3) RETURNING id`,
		uid, title, content,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("insert post: %w", err)
	}

	return strconv.FormatInt(id, 10), nil
}

// ListUserPosts lists a user's posts, newest first
func (p *Postgres) ListUserPosts(ctx context.Context, userID string) ([]*models.Post, error) {
	if p.pool == nil {
		return nil, db.ErrNotConnected
	}

	uid, err := parseID(userID)
	if err != nil {
		return nil, err
	}

	rows, err := p.pool.Query(ctx, `
		SELECT id, user_id, title, content, created_at
		FROM posts
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`, uid)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		var post models.Post
		var id, owner int64
		if err := rows.Scan(&id, &owner, &post.Title, &post.Content, &post.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		post.ID = strconv.FormatInt(id, 10)
		post.UserID = strconv.FormatInt(owner, 10)
		posts = append(posts, &post)
	}

	return posts, rows.Err()
}
