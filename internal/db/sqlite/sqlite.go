package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/AI2HU/dbmanager/internal/db"
	"github.com/AI2HU/dbmanager/internal/logger"
	"github.com/AI2HU/dbmanager/internal/models"
)

//go:embed migrations/*.sql
var migrations embed.FS

const (
	migrationsDir = "migrations"
	memoryURI     = ":memory:"
)

// SQLite implements the Database interface for SQLite
type SQLite struct {
	db     *sql.DB
	config *models.Config
}

var _ db.Database = (*SQLite)(nil)

// New creates a new SQLite database instance
func New(config *models.Config) (*SQLite, error) {
	if config == nil || config.URI == "" {
		return nil, fmt.Errorf("sqlite: database path is required")
	}
	return &SQLite{
		config: config,
	}, nil
}

// resolvePath expands ~ and relative paths and makes sure the parent directory exists
func resolvePath(uri string) (string, error) {
	if uri == memoryURI {
		return uri, nil
	}

	dbPath := uri
	if strings.HasPrefix(dbPath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	} else if !filepath.IsAbs(dbPath) {
		absPath, err := filepath.Abs(dbPath)
		if err != nil {
			return "", fmt.Errorf("failed to resolve absolute path: %w", err)
		}
		dbPath = absPath
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create database directory: %w", err)
	}

	return dbPath, nil
}

// Connect opens the database file and brings the schema up to date
func (s *SQLite) Connect(ctx context.Context) error {
	dbPath, err := resolvePath(s.config.URI)
	if err != nil {
		return err
	}

	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open SQLite database at path '%s': %w", dbPath, err)
	}

	// Every pooled connection to :memory: would get its own empty database.
	if dbPath == memoryURI {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return fmt.Errorf("failed to ping SQLite database at path '%s': %w", dbPath, err)
	}

	if err := db.RunMigrations(conn, migrations, migrationsDir); err != nil {
		conn.Close()
		return err
	}

	s.db = conn
	logger.Debug("sqlite: connected to %s", dbPath)
	return nil
}

// Disconnect closes the SQLite connection
func (s *SQLite) Disconnect(ctx context.Context) error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

// Ping checks the database connection
func (s *SQLite) Ping(ctx context.Context) error {
	if s.db == nil {
		return db.ErrNotConnected
	}
	return s.db.PingContext(ctx)
}

// SchemaVersion returns the applied migration version
func (s *SQLite) SchemaVersion() (uint, bool, error) {
	if s.db == nil {
		return 0, false, db.ErrNotConnected
	}
	return db.MigrationVersion(s.db, migrations, migrationsDir)
}

// parseID converts a textual identifier to a row id
func parseID(id string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", db.ErrInvalidID, id)
	}
	return n, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

// User Operations

// CreateUser inserts a user and returns its row id
func (s *SQLite) CreateUser(ctx context.Context, name, email string, age int) (string, error) {
	if s.db == nil {
		return "", db.ErrNotConnected
	}

	query := `
		INSERT INTO users (name, email, age)
		VALUES (?, ?, ?)`

	result, err := s.db.ExecContext(ctx, query, name, email, age)
	if isUniqueViolation(err) {
		return "", db.ErrDuplicateEmail
	}
	if err != nil {
		return "", fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return "", err
	}

	return strconv.FormatInt(id, 10), nil
}

// ListUsers lists all users in insertion order
func (s *SQLite) ListUsers(ctx context.Context) ([]*models.User, error) {
	if s.db == nil {
		return nil, db.ErrNotConnected
	}

	query := `
		SELECT id, name, email, age, created_at
		FROM users
		ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var user models.User
		var id int64

		err := rows.Scan(
			&id,
			&user.Name,
			&user.Email,
			&user.Age,
			&user.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		user.ID = strconv.FormatInt(id, 10)
		users = append(users, &user)
	}

	return users, rows.Err()
}

// DeleteUser deletes the user's posts and then the user in one transaction
func (s *SQLite) DeleteUser(ctx context.Context, userID string) (bool, error) {
	if s.db == nil {
		return false, db.ErrNotConnected
	}

	id, err := parseID(userID)
	if err != nil {
		return false, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	posts, err := tx.ExecContext(ctx, "DELETE FROM posts WHERE user_id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete posts: %w", err)
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}

	if n, err := posts.RowsAffected(); err == nil {
		logger.Debug("sqlite: deleted user %d with %d posts", id, n)
	}

	return rowsAffected > 0, nil
}

// Post Operations

// CreatePost inserts a post. The owning user is not checked.
func (s *SQLite) CreatePost(ctx context.Context, userID, title, content string) (string, error) {
	if s.db == nil {
		return "", db.ErrNotConnected
	}

	uid, err := parseID(userID)
	if err != nil {
		return "", err
	}

	query := `
		INSERT INTO posts (user_id, title, content)
		VALUES (?, ?, ?)`

	result, err := s.db.ExecContext(ctx, query, uid, title, content)
	if err != nil {
		return "", fmt.Errorf("failed to insert post: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return "", err
	}

	return strconv.FormatInt(id, 10), nil
}

// ListUserPosts lists a user's posts, newest first
func (s *SQLite) ListUserPosts(ctx context.Context, userID string) ([]*models.Post, error) {
	if s.db == nil {
		return nil, db.ErrNotConnected
	}

	uid, err := parseID(userID)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, user_id, title, content, created_at
		FROM posts
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		var post models.Post
		var id, owner int64

		err := rows.Scan(
			&id,
			&owner,
			&post.Title,
			&post.Content,
			&post.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		post.ID = strconv.FormatInt(id, 10)
		post.UserID = strconv.FormatInt(owner, 10)
		posts = append(posts, &post)
	}

	return posts, rows.Err()
}
