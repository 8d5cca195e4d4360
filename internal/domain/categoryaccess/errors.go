package categoryaccess

import "errors"

var (
	ErrCategoryAccessNotFound = errors.New("category access not found")

	// ErrCategoryAccessInactive is returned by UnlockLevel when there is no active record to append to
	ErrCategoryAccessInactive = errors.New("category access is not active")
)
