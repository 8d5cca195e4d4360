package user

import "errors"

var (
	// ErrUserNotFound is returned when a user cannot be resolved
	ErrUserNotFound = errors.New("user not found")
)
