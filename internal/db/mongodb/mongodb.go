package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AI2HU/dbmanager/internal/db"
	"github.com/AI2HU/dbmanager/internal/logger"
	"github.com/AI2HU/dbmanager/internal/models"
)

// MongoDB implements the Database interface for MongoDB
type MongoDB struct {
	client   *mongo.Client
	database *mongo.Database
	config   *models.Config
}

var _ db.Database = (*MongoDB)(nil)

const (
	collUsers = "users"
	collPosts = "posts"
)

// New creates a new MongoDB database instance
func New(config *models.Config) (*MongoDB, error) {
	if config == nil || config.URI == "" {
		return nil, fmt.Errorf("mongodb: connection URI is required")
	}
	if config.Database == "" {
		return nil, fmt.Errorf("mongodb: database name is required")
	}
	return &MongoDB{
		config: config,
	}, nil
}

// Connect establishes connection to MongoDB
func (m *MongoDB) Connect(ctx context.Context) error {
	clientOptions := options.Client().ApplyURI(m.config.URI)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	database := client.Database(m.config.Database)
	if err := createIndexes(ctx, database); err != nil {
		client.Disconnect(ctx)
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	m.client = client
	m.database = database

	logger.Debug("mongodb: connected to database %s", m.config.Database)
	return nil
}

// Disconnect closes the MongoDB connection
func (m *MongoDB) Disconnect(ctx context.Context) error {
	if m.client != nil {
		err := m.client.Disconnect(ctx)
		m.client = nil
		m.database = nil
		return err
	}
	return nil
}

// Ping checks the database connection
func (m *MongoDB) Ping(ctx context.Context) error {
	if m.client == nil {
		return db.ErrNotConnected
	}
	return m.client.Ping(ctx, nil)
}

// createIndexes creates the unique email index and the post lookup indexes
func createIndexes(ctx context.Context, database *mongo.Database) error {
	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	if _, err := database.Collection(collUsers).Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}

	postIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
		},
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
		},
	}

	if _, err := database.Collection(collPosts).Indexes().CreateMany(ctx, postIndexes); err != nil {
		return fmt.Errorf("failed to create post indexes: %w", err)
	}

	return nil
}

// GetDatabase returns the underlying MongoDB database
func (m *MongoDB) GetDatabase() *mongo.Database {
	return m.database
}

// CreateUser inserts a user document and returns its ObjectID hex
func (m *MongoDB) CreateUser(ctx context.Context, name, email string, age int) (string, error) {
	if m.database == nil {
		return "", db.ErrNotConnected
	}

	doc := bson.M{
		"name":       name,
		"email":      email,
		"age":        age,
		"created_at": now(),
	}

	result, err := m.database.Collection(collUsers).InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return "", db.ErrDuplicateEmail
	}
	if err != nil {
		return "", fmt.Errorf("failed to insert user: %w", err)
	}

	return idToString(result.InsertedID), nil
}

// ListUsers lists all users in insertion order
func (m *MongoDB) ListUsers(ctx context.Context) ([]*models.User, error) {
	if m.database == nil {
		return nil, db.ErrNotConnected
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := m.database.Collection(collUsers).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []*models.User
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}

		users = append(users, &models.User{
			ID:        idToString(doc["_id"]),
			Name:      getString(doc, "name"),
			Email:     getString(doc, "email"),
			Age:       getInt(doc, "age"),
			CreatedAt: getTime(doc, "created_at"),
		})
	}

	return users, cursor.Err()
}

// DeleteUser deletes the user's posts and then the user document. MongoDB
// standalone servers have no multi-document transactions, so a failure
// between the two steps leaves the user without posts.
func (m *MongoDB) DeleteUser(ctx context.Context, userID string) (bool, error) {
	if m.database == nil {
		return false, db.ErrNotConnected
	}

	key := toKey(userID)

	posts, err := m.database.Collection(collPosts).DeleteMany(ctx, bson.M{"user_id": key})
	if err != nil {
		return false, fmt.Errorf("failed to delete posts: %w", err)
	}

	result, err := m.database.Collection(collUsers).DeleteOne(ctx, bson.M{"_id": key})
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}

	logger.Debug("mongodb: deleted user %s (%d) with %d posts", userID, result.DeletedCount, posts.DeletedCount)
	return result.DeletedCount > 0, nil
}

// CreatePost inserts a post document. The owning user is not checked.
func (m *MongoDB) CreatePost(ctx context.Context, userID, title, content string) (string, error) {
	if m.database == nil {
		return "", db.ErrNotConnected
	}

	doc := bson.M{
		"user_id":    toKey(userID),
		"title":      title,
		"content":    content,
		"created_at": now(),
	}

	result, err := m.database.Collection(collPosts).InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to insert post: %w", err)
	}

	return idToString(result.InsertedID), nil
}

// ListUserPosts lists a user's posts, newest first
func (m *MongoDB) ListUserPosts(ctx context.Context, userID string) ([]*models.Post, error) {
	if m.database == nil {
		return nil, db.ErrNotConnected
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "created_at", Value: -1},
		{Key: "_id", Value: -1},
	})

	cursor, err := m.database.Collection(collPosts).Find(ctx, bson.M{"user_id": toKey(userID)}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []*models.Post
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}

		posts = append(posts, &models.Post{
			ID:        idToString(doc["_id"]),
			UserID:    idToString(doc["user_id"]),
			Title:     getString(doc, "title"),
			Content:   getString(doc, "content"),
			CreatedAt: getTime(doc, "created_at"),
		})
	}

	return posts, cursor.Err()
}

// now truncates to the millisecond precision BSON dates keep
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
