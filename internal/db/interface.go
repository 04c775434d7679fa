package db

import (
	"context"

	"github.com/AI2HU/dbmanager/internal/models"
)

// Database defines the store adapter contract shared by the SQL and NoSQL
// providers. Identifiers cross the interface as text and each provider
// normalizes them to its native key type.
type Database interface {
	// Connection management
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Ping(ctx context.Context) error

	// User operations
	CreateUser(ctx context.Context, name, email string, age int) (string, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	// DeleteUser removes the user's posts, then the user. It reports whether
	// the user existed.
	DeleteUser(ctx context.Context, userID string) (bool, error)

	// Post operations
	CreatePost(ctx context.Context, userID, title, content string) (string, error)
	// ListUserPosts returns the user's posts, most recent first.
	ListUserPosts(ctx context.Context, userID string) ([]*models.Post, error)
}
