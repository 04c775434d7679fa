// Package memory keeps users and posts in process memory. It follows the
// relational providers' identifier scheme (sequential integers) and is used
// for demos and tests; nothing survives Disconnect.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/AI2HU/dbmanager/internal/db"
	"github.com/AI2HU/dbmanager/internal/models"
)

// Memory implements the Database interface in memory
type Memory struct {
	mu         sync.Mutex
	connected  bool
	users      []*models.User
	posts      []*models.Post
	nextUserID int64
	nextPostID int64
	now        func() time.Time
}

var _ db.Database = (*Memory)(nil)

// New creates an empty in-memory store
func New() *Memory {
	return &Memory{now: time.Now}
}

// WithClock replaces the timestamp source
func (m *Memory) WithClock(now func() time.Time) *Memory {
	m.now = now
	return m
}

// Connect marks the store usable and resets its contents
func (m *Memory) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = true
	m.users = nil
	m.posts = nil
	m.nextUserID = 0
	m.nextPostID = 0
	return nil
}

// Disconnect drops everything
func (m *Memory) Disconnect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = false
	m.users = nil
	m.posts = nil
	return nil
}

// Ping reports whether Connect was called
func (m *Memory) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.connected {
		return db.ErrNotConnected
	}
	return nil
}

func parseID(id string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", db.ErrInvalidID, id)
	}
	return n, nil
}

// CreateUser stores a user unless the email is taken
func (m *Memory) CreateUser(ctx context.Context, name, email string, age int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.connected {
		return "", db.ErrNotConnected
	}

	for _, u := range m.users {
		if u.Email == email {
			return "", db.ErrDuplicateEmail
		}
	}

	m.nextUserID++
	user := &models.User{
		ID:        strconv.FormatInt(m.nextUserID, 10),
		Name:      name,
		Email:     email,
		Age:       age,
		CreatedAt: m.now(),
	}
	m.users = append(m.users, user)
	return user.ID, nil
}

// ListUsers returns copies of every user in insertion order
func (m *Memory) ListUsers(ctx context.Context) ([]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.connected {
		return nil, db.ErrNotConnected
	}

	var users []*models.User
	for _, u := range m.users {
		c := *u
		users = append(users, &c)
	}
	return users, nil
}

// DeleteUser removes the user's posts and then the user
func (m *Memory) DeleteUser(ctx context.Context, userID string) (bool, error) {
	uid, err := parseID(userID)
	if err != nil {
		return false, err
	}
	key := strconv.FormatInt(uid, 10)

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.connected {
		return false, db.ErrNotConnected
	}

	posts := m.posts[:0]
	for _, p := range m.posts {
		if p.UserID != key {
			posts = append(posts, p)
		}
	}
	m.posts = posts

	for i, u := range m.users {
		if u.ID == key {
			m.users = append(m.users[:i], m.users[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// CreatePost stores a post without checking the owner
func (m *Memory) CreatePost(ctx context.Context, userID, title, content string) (string, error) {
	uid, err := parseID(userID)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.connected {
		return "", db.ErrNotConnected
	}

	m.nextPostID++
	post := &models.Post{
		ID:        strconv.FormatInt(m.nextPostID, 10),
		UserID:    strconv.FormatInt(uid, 10),
		Title:     title,
		Content:   content,
		CreatedAt: m.now(),
	}
	m.posts = append(m.posts, post)
	return post.ID, nil
}

// ListUserPosts returns the user's posts, newest first
func (m *Memory) ListUserPosts(ctx context.Context, userID string) ([]*models.Post, error) {
	uid, err := parseID(userID)
	if err != nil {
		return nil, err
	}
	owner := strconv.FormatInt(uid, 10)

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.connected {
		return nil, db.ErrNotConnected
	}

	var posts []*models.Post
	for i := len(m.posts) - 1; i >= 0; i-- {
		if m.posts[i].UserID == owner {
			c := *m.posts[i]
			posts = append(posts, &c)
		}
	}

	// posts is in reverse insertion order; the stable sort keeps it for equal timestamps
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}
