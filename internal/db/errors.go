package db

import "errors"

var (
	// ErrDuplicateEmail is returned by CreateUser when the email is already taken.
	ErrDuplicateEmail = errors.New("a user with this email already exists")

	// ErrInvalidID is returned when an identifier cannot be converted to the store's key type.
	ErrInvalidID = errors.New("invalid identifier")

	// ErrNotConnected is returned when an operation runs before Connect.
	ErrNotConnected = errors.New("not connected to database")
)
