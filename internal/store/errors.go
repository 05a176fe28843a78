package store

import "errors"

var (
	// ErrUserNotFound is returned when a user cannot be found by ID or email.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned when attempting to create a user with an existing ID.
	ErrUserExists = errors.New("user already exists")
	// ErrEmailExists is returned when the email is already registered.
	ErrEmailExists = errors.New("email already in use")
	// ErrUsernameExists is returned when the username is already taken.
	ErrUsernameExists = errors.New("username already in use")
	// ErrToolNotFound is returned when a tool cannot be found by ID.
	ErrToolNotFound = errors.New("tool not found")
	// ErrToolExists is returned when attempting to create a tool with an existing ID.
	ErrToolExists = errors.New("tool already exists")
)
