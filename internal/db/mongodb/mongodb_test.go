package mongodb

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AI2HU/dbmanager/internal/db"
	"github.com/AI2HU/dbmanager/internal/models"
)

func TestNew_Validation(t *testing.T) {
	_, err := New(&models.Config{Database: "example_db"})
	assert.Error(t, err)

	_, err = New(&models.Config{URI: "mongodb://localhost:27017"})
	assert.Error(t, err)

	m, err := New(&models.Config{URI: "mongodb://localhost:27017", Database: "example_db"})
	require.NoError(t, err)
	assert.ErrorIs(t, m.Ping(context.Background()), db.ErrNotConnected)
}

func TestToKey(t *testing.T) {
	objectID := primitive.NewObjectID()

	key := toKey(objectID.Hex())
	assert.Equal(t, objectID, key)

	assert.Equal(t, "not-an-object-id", toKey("not-an-object-id"))
	assert.Equal(t, "42", toKey("42"))
}

func TestIDToString(t *testing.T) {
	objectID := primitive.NewObjectID()

	assert.Equal(t, objectID.Hex(), idToString(objectID))
	assert.Equal(t, "plain", idToString("plain"))
	assert.Equal(t, "", idToString(nil))
	assert.Equal(t, "7", idToString(int32(7)))
}

func TestDocumentGetters(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	doc := bson.M{
		"name":       "Ada",
		"age32":      int32(30),
		"age64":      int64(31),
		"created_at": primitive.NewDateTimeFromTime(created),
	}

	assert.Equal(t, "Ada", getString(doc, "name"))
	assert.Equal(t, "", getString(doc, "missing"))
	assert.Equal(t, 30, getInt(doc, "age32"))
	assert.Equal(t, 31, getInt(doc, "age64"))
	assert.Equal(t, 0, getInt(doc, "name"))
	assert.True(t, created.Equal(getTime(doc, "created_at")))
	assert.True(t, getTime(doc, "missing").IsZero())
	assert.True(t, getTime(doc, "age64").IsZero())
}

// newTestDB connects to the server named by MONGO_TEST_URI using a throwaway database.
func newTestDB(t *testing.T) *MongoDB {
	t.Helper()

	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := New(&models.Config{
		Provider: "mongodb",
		URI:      uri,
		Database: fmt.Sprintf("dbmanager_test_%d", time.Now().UnixNano()),
	})
	require.NoError(t, err)
	require.NoError(t, store.Connect(ctx))
	t.Cleanup(func() {
		ctx := context.Background()
		store.GetDatabase().Drop(ctx)
		store.Disconnect(ctx)
	})

	return store
}

func TestConnect_IndexFailureLeavesStoreDisconnected(t *testing.T) {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	name := fmt.Sprintf("dbmanager_test_%d", time.Now().UnixNano())
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx := context.Background()
		client.Database(name).Drop(ctx)
		client.Disconnect(ctx)
	})

	// duplicate emails make the unique index build fail
	_, err = client.Database(name).Collection(collUsers).InsertMany(ctx, []interface{}{
		bson.M{"name": "Ada", "email": "ada@example.com"},
		bson.M{"name": "Ada", "email": "ada@example.com"},
	})
	require.NoError(t, err)

	store, err := New(&models.Config{Provider: "mongodb", URI: uri, Database: name})
	require.NoError(t, err)

	err = store.Connect(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create indexes")
	assert.Nil(t, store.GetDatabase())
	assert.ErrorIs(t, store.Ping(ctx), db.ErrNotConnected)
	assert.NoError(t, store.Disconnect(ctx))
}

func TestUserLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newTestDB(t)

	userID, err := store.CreateUser(ctx, "Ada", "ada@example.com", 30)
	require.NoError(t, err)
	assert.True(t, primitive.IsValidObjectID(userID))

	_, err = store.CreateUser(ctx, "Ada", "ada@example.com", 30)
	require.ErrorIs(t, err, db.ErrDuplicateEmail)

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, userID, users[0].ID)
	assert.Equal(t, 30, users[0].Age)

	_, err = store.CreatePost(ctx, userID, "Hello", "World")
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	_, err = store.CreatePost(ctx, userID, "Later", "")
	require.NoError(t, err)

	posts, err := store.ListUserPosts(ctx, userID)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "Later", posts[0].Title)
	assert.Equal(t, "Hello", posts[1].Title)
	assert.Equal(t, userID, posts[0].UserID)

	deleted, err := store.DeleteUser(ctx, userID)
	require.NoError(t, err)
	assert.True(t, deleted)

	posts, err = store.ListUserPosts(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, posts)

	deleted, err = store.DeleteUser(ctx, userID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestPostsWithNonObjectIDOwner(t *testing.T) {
	ctx := context.Background()
	store := newTestDB(t)

	_, err := store.CreatePost(ctx, "legacy-user", "Orphan", "")
	require.NoError(t, err)

	posts, err := store.ListUserPosts(ctx, "legacy-user")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "legacy-user", posts[0].UserID)

	deleted, err := store.DeleteUser(ctx, "legacy-user")
	require.NoError(t, err)
	assert.False(t, deleted)

	posts, err = store.ListUserPosts(ctx, "legacy-user")
	require.NoError(t, err)
	assert.Empty(t, posts)
}
