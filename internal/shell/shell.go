// Package shell implements the numbered-menu loop shared by both managers.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/AI2HU/dbmanager/internal/db"
	"github.com/AI2HU/dbmanager/internal/logger"
	"github.com/AI2HU/dbmanager/internal/models"
)

const (
	menuWidth      = 40
	postRuleWidth  = 30
	createdAtStyle = "2006-01-02 15:04:05"
)

// Options tunes the shell for a store
type Options struct {
	// Title is printed in the menu banner
	Title string
	// NumericIDs makes user ids go through integer parsing before reaching the store
	NumericIDs bool
	// Color enables ANSI styling
	Color bool
	// Timeout bounds each store call; zero means no deadline
	Timeout time.Duration
}

// Shell is a read-evaluate-print loop over a Database
type Shell struct {
	db    db.Database
	in    *bufio.Reader
	out   io.Writer
	opts  Options
	style styler
}

// New creates a shell reading from in and writing to out
func New(database db.Database, in io.Reader, out io.Writer, opts Options) *Shell {
	if opts.Title == "" {
		opts.Title = "DATABASE MANAGER"
	}
	return &Shell{
		db:    database,
		in:    bufio.NewReader(in),
		out:   out,
		opts:  opts,
		style: styler{enabled: opts.Color},
	}
}

// Run loops until Exit is chosen or input ends. Store failures are printed
// and never end the loop; only input errors are returned.
func (s *Shell) Run(ctx context.Context) error {
	for {
		s.displayMenu()

		choice, err := s.prompt("Enter your choice (1-6): ")
		if err != nil {
			return s.exit(err)
		}

		switch choice {
		case "1":
			err = s.createUser(ctx)
		case "2":
			err = s.listUsers(ctx)
		case "3":
			err = s.createPost(ctx)
		case "4":
			err = s.listUserPosts(ctx)
		case "5":
			err = s.deleteUser(ctx)
		case "6":
			return s.exit(nil)
		default:
			s.println(s.style.warning("Invalid choice. Please enter 1-6"))
		}
		if err != nil {
			return s.exit(err)
		}

		if _, err := s.prompt("\nPress Enter to continue"); err != nil {
			return s.exit(err)
		}
	}
}

// exit prints the farewell; end of input counts as a normal exit
func (s *Shell) exit(err error) error {
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	s.println("\n" + s.style.success("Goodbye!"))
	return nil
}

func (s *Shell) displayMenu() {
	rule := strings.Repeat("=", menuWidth)
	s.println("\n" + s.style.dim(rule))
	s.println(s.style.header(" " + s.opts.Title + " "))
	s.println(s.style.dim(rule))
	s.println("1. Create User")
	s.println("2. View All Users")
	s.println("3. Create Post")
	s.println("4. View User Posts")
	s.println("5. Delete User")
	s.println("6. Exit")
	s.println(s.style.dim(strings.Repeat("-", menuWidth)))
}

func (s *Shell) section(title string) {
	s.println("\n" + s.style.header("--- "+title+" ---"))
}

func (s *Shell) createUser(ctx context.Context) error {
	s.section("Create New User")

	name, err := s.prompt("Enter name: ")
	if err != nil {
		return err
	}
	email, err := s.prompt("Enter email: ")
	if err != nil {
		return err
	}
	rawAge, err := s.prompt("Enter age: ")
	if err != nil {
		return err
	}

	age, err := strconv.Atoi(rawAge)
	if err != nil {
		s.println(s.style.err("Invalid age. Please enter a number."))
		return nil
	}

	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	id, err := s.db.CreateUser(opCtx, name, email, age)
	if err != nil {
		s.reportError(err)
		s.println(s.style.err("Failed to create user"))
		return nil
	}

	s.println(s.style.success("User created successfully! ID: " + id))
	return nil
}

func (s *Shell) listUsers(ctx context.Context) error {
	s.section("All Users")

	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	users, err := s.db.ListUsers(opCtx)
	if err != nil {
		s.reportError(err)
		return nil
	}

	if len(users) == 0 {
		s.println(s.style.warning("No users found."))
		return nil
	}

	for _, user := range users {
		s.println(s.formatUser(user))
	}
	return nil
}

func (s *Shell) formatUser(user *models.User) string {
	sep := s.style.dim(" | ")
	return s.style.labelValue("ID:", user.ID) + sep +
		s.style.labelValue("Name:", user.Name) + sep +
		s.style.labelValue("Email:", user.Email) + sep +
		s.style.labelValue("Age:", strconv.Itoa(user.Age))
}

func (s *Shell) createPost(ctx context.Context) error {
	s.section("Create New Post")

	userID, ok, err := s.promptUserID("Enter user ID: ")
	if err != nil || !ok {
		return err
	}
	title, err := s.prompt("Enter post title: ")
	if err != nil {
		return err
	}
	content, err := s.prompt("Enter post content: ")
	if err != nil {
		return err
	}

	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	id, err := s.db.CreatePost(opCtx, userID, title, content)
	if err != nil {
		s.reportError(err)
		s.println(s.style.err("Failed to create post"))
		return nil
	}

	s.println(s.style.success("Post created successfully! ID: " + id))
	return nil
}

func (s *Shell) listUserPosts(ctx context.Context) error {
	s.section("View User Posts")

	userID, ok, err := s.promptUserID("Enter user ID: ")
	if err != nil || !ok {
		return err
	}

	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	posts, err := s.db.ListUserPosts(opCtx, userID)
	if err != nil {
		s.reportError(err)
		return nil
	}

	if len(posts) == 0 {
		s.println(s.style.warning("No posts found for this user."))
		return nil
	}

	for _, post := range posts {
		s.println("\n" + s.style.labelValue("Post ID:", post.ID))
		s.println(s.style.labelValue("Title:", post.Title))
		s.println(s.style.labelValue("Content:", post.Content))
		s.println(s.style.label("Created:") + " " + s.style.meta(post.CreatedAt.Local().Format(createdAtStyle)))
		s.println(s.style.dim(strings.Repeat("-", postRuleWidth)))
	}
	return nil
}

func (s *Shell) deleteUser(ctx context.Context) error {
	s.section("Delete User")

	userID, ok, err := s.promptUserID("Enter user ID to delete: ")
	if err != nil || !ok {
		return err
	}

	confirm, err := s.prompt(fmt.Sprintf("Are you sure you want to delete user %s? (y/n) ", userID))
	if err != nil {
		return err
	}
	if strings.ToLower(confirm) != "y" {
		s.println(s.style.info("Deletion cancelled"))
		return nil
	}

	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	deleted, err := s.db.DeleteUser(opCtx, userID)
	if err != nil {
		s.reportError(err)
	}
	if err != nil || !deleted {
		s.println(s.style.err("User not found or deletion failed."))
		return nil
	}

	s.println(s.style.success("User deleted successfully!"))
	return nil
}

// promptUserID reads a user id. ok is false when the input was rejected and
// the message has already been printed.
func (s *Shell) promptUserID(prompt string) (string, bool, error) {
	raw, err := s.prompt(prompt)
	if err != nil {
		return "", false, err
	}

	if s.opts.NumericIDs {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			s.println(s.style.err("Invalid user ID. Please enter a number."))
			return "", false, nil
		}
		return strconv.FormatInt(id, 10), true, nil
	}

	return raw, true, nil
}

// prompt prints the question and returns the trimmed answer. A final line
// without a newline is still returned; io.EOF is reported on the next call.
func (s *Shell) prompt(question string) (string, error) {
	fmt.Fprint(s.out, question)

	line, err := s.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (s *Shell) reportError(err error) {
	logger.Debug("shell: store operation failed: %v", err)
	s.println(s.style.err("Error: " + err.Error()))
}

func (s *Shell) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.Timeout > 0 {
		return context.WithTimeout(ctx, s.opts.Timeout)
	}
	return context.WithCancel(ctx)
}

func (s *Shell) println(text string) {
	fmt.Fprintln(s.out, text)
}
