package domain

import "errors"

// Sentinel errors for the storage boundary. All progression arithmetic is
// pure and cannot fail on valid input; only load/save can.
var (
	// ErrUserNotFound means the user record is missing. Awards fail outright
	// on it: no XP is granted, no partial state is written.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserExists is returned when creating a user that already has a record.
	ErrUserExists = errors.New("user already exists")
)
