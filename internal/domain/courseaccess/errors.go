package courseaccess

import "errors"

var (
	// ErrGrantNotFound is returned when a grant does not exist
	ErrGrantNotFound = errors.New("course access grant not found")
)
