package models

import (
	"time"
)

// Core domain models

// User represents a registered user. ID holds the store-native key rendered
// as text: a decimal row id for SQL stores, an ObjectID hex for MongoDB.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Age       int       `json:"age"`
	CreatedAt time.Time `json:"created_at"`
}

// Post represents a post owned by a user
type Post struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
