package shell

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AI2HU/dbmanager/internal/db"
	"github.com/AI2HU/dbmanager/internal/db/memory"
	"github.com/AI2HU/dbmanager/internal/models"
)

// script joins input lines, each terminated by a newline
func script(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func run(t *testing.T, database db.Database, opts Options, input string) string {
	t.Helper()

	var out bytes.Buffer
	sh := New(database, strings.NewReader(input), &out, opts)
	require.NoError(t, sh.Run(context.Background()))
	return out.String()
}

func newStore(t *testing.T) *memory.Memory {
	t.Helper()
	store := memory.New()
	require.NoError(t, store.Connect(context.Background()))
	return store
}

func TestRun_ExitImmediately(t *testing.T) {
	out := run(t, newStore(t), Options{}, script("6"))

	assert.Contains(t, out, " DATABASE MANAGER ")
	assert.Contains(t, out, "1. Create User")
	assert.Contains(t, out, "6. Exit")
	assert.Contains(t, out, "Goodbye!")
	assert.NotContains(t, out, "Press Enter to continue")
}

func TestRun_EndOfInputExits(t *testing.T) {
	out := run(t, newStore(t), Options{Title: "MONGODB MANAGER"}, "")

	assert.Contains(t, out, " MONGODB MANAGER ")
	assert.Contains(t, out, "Goodbye!")
}

func TestRun_EndOfInputMidAction(t *testing.T) {
	out := run(t, newStore(t), Options{}, "1\nAda\n")

	assert.Contains(t, out, "Enter email: ")
	assert.Contains(t, out, "Goodbye!")
}

func TestRun_InvalidChoice(t *testing.T) {
	out := run(t, newStore(t), Options{}, script("9", "", "6"))

	assert.Contains(t, out, "Invalid choice. Please enter 1-6")
	assert.Contains(t, out, "Press Enter to continue")
}

func TestRun_CreateAndListUsers(t *testing.T) {
	store := newStore(t)
	out := run(t, store, Options{NumericIDs: true}, script(
		"1", "Ada", "ada@example.com", "30", "",
		"1", "Bob", "bob@example.com", "41", "",
		"2", "",
		"6",
	))

	assert.Contains(t, out, "User created successfully! ID: 1")
	assert.Contains(t, out, "User created successfully! ID: 2")
	assert.Contains(t, out, "ID: 1 | Name: Ada | Email: ada@example.com | Age: 30")
	assert.Contains(t, out, "ID: 2 | Name: Bob | Email: bob@example.com | Age: 41")

	users, err := store.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestRun_ListUsersEmpty(t *testing.T) {
	out := run(t, newStore(t), Options{}, script("2", "", "6"))
	assert.Contains(t, out, "No users found.")
}

func TestRun_DuplicateEmail(t *testing.T) {
	store := newStore(t)
	out := run(t, store, Options{}, script(
		"1", "Ada", "ada@example.com", "30", "",
		"1", "Ada", "ada@example.com", "30", "",
		"6",
	))

	assert.Contains(t, out, "Error: "+db.ErrDuplicateEmail.Error())
	assert.Contains(t, out, "Failed to create user")

	users, err := store.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestRun_InvalidAge(t *testing.T) {
	store := newStore(t)
	out := run(t, store, Options{}, script("1", "Ada", "ada@example.com", "thirty", "", "6"))

	assert.Contains(t, out, "Invalid age. Please enter a number.")

	users, err := store.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestRun_InvalidNumericUserID(t *testing.T) {
	out := run(t, newStore(t), Options{NumericIDs: true}, script(
		"3", "abc", "",
		"4", "1x", "",
		"5", "", "",
		"6",
	))

	assert.Equal(t, 3, strings.Count(out, "Invalid user ID. Please enter a number."))
	assert.NotContains(t, out, "Enter post title: ")
	assert.NotContains(t, out, "Are you sure")
}

func TestRun_PostsLifecycle(t *testing.T) {
	store := newStore(t)
	out := run(t, store, Options{NumericIDs: true}, script(
		"1", "Ada", "ada@example.com", "30", "",
		"3", "1", "Hello", "World", "",
		"4", "1", "",
		"5", "1", "y", "",
		"4", "1", "",
		"6",
	))

	assert.Contains(t, out, "Post created successfully! ID: 1")
	assert.Contains(t, out, "Post ID: 1")
	assert.Contains(t, out, "Title: Hello")
	assert.Contains(t, out, "Content: World")
	assert.Contains(t, out, "Created: ")
	assert.Contains(t, out, strings.Repeat("-", postRuleWidth))
	assert.Contains(t, out, "Are you sure you want to delete user 1? (y/n)")
	assert.Contains(t, out, "User deleted successfully!")
	assert.Contains(t, out, "No posts found for this user.")
}

func TestRun_DeleteCancelled(t *testing.T) {
	store := newStore(t)
	_, err := store.CreateUser(context.Background(), "Ada", "ada@example.com", 30)
	require.NoError(t, err)

	out := run(t, store, Options{}, script("5", "1", "n", "", "6"))
	assert.Contains(t, out, "Deletion cancelled")

	users, err := store.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestRun_DeleteUnknownUser(t *testing.T) {
	out := run(t, newStore(t), Options{}, script("5", "7", "Y", "", "6"))
	assert.Contains(t, out, "User not found or deletion failed.")
}

// failingDB fails every call it overrides
type failingDB struct {
	db.Database
	err error
}

func (f failingDB) CreatePost(ctx context.Context, userID, title, content string) (string, error) {
	return "", f.err
}

func (f failingDB) ListUsers(ctx context.Context) ([]*models.User, error) {
	return nil, f.err
}

func (f failingDB) ListUserPosts(ctx context.Context, userID string) ([]*models.Post, error) {
	return nil, f.err
}

func (f failingDB) DeleteUser(ctx context.Context, userID string) (bool, error) {
	return false, f.err
}

func TestRun_StoreErrorsArePrinted(t *testing.T) {
	store := failingDB{Database: newStore(t), err: errors.New("connection reset")}
	out := run(t, store, Options{}, script(
		"2", "",
		"3", "abc", "t", "c", "",
		"4", "abc", "",
		"5", "abc", "y", "",
		"6",
	))

	assert.Equal(t, 4, strings.Count(out, "Error: connection reset"))
	assert.Contains(t, out, "Failed to create post")
	assert.Contains(t, out, "User not found or deletion failed.")
	assert.Contains(t, out, "Goodbye!")
}

func TestRun_ColorOutput(t *testing.T) {
	out := run(t, newStore(t), Options{Color: true}, script("6"))
	assert.Contains(t, out, SuccessStyle+"Goodbye!"+Reset)
}

func TestRun_TimeoutAppliesToStoreCalls(t *testing.T) {
	var seen bool
	store := deadlineDB{Database: newStore(t), seen: &seen}
	run(t, store, Options{Timeout: time.Second}, script("2", "", "6"))
	assert.True(t, seen)
}

type deadlineDB struct {
	db.Database
	seen *bool
}

func (d deadlineDB) ListUsers(ctx context.Context) ([]*models.User, error) {
	_, *d.seen = ctx.Deadline()
	return nil, nil
}
