package catalog

import "errors"

var (
	// ErrPathNotFound is returned when a path does not exist
	ErrPathNotFound = errors.New("path not found")

	// ErrCategoryNotFound is returned when a category does not exist
	ErrCategoryNotFound = errors.New("category not found")

	// ErrLevelNotFound is returned when a level does not exist
	ErrLevelNotFound = errors.New("level not found")
)
