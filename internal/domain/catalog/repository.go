package catalog

import "context"

// Repository defines persistence operations for categories, paths and levels.
// Lookups return (nil, nil) when the record does not exist.
type Repository interface {
	// GetPath loads a path together with all of its levels
	GetPath(ctx context.Context, pathID uint) (*Path, error)

	// GetCategory retrieves a category by ID
	GetCategory(ctx context.Context, categoryID uint) (*Category, error)

	// GetLevel retrieves a single level by ID
	GetLevel(ctx context.Context, levelID uint) (*Level, error)

	// ListPathsByCategory loads every path of a category with their levels
	ListPathsByCategory(ctx context.Context, categoryID uint) ([]*Path, error)

	CreateCategory(ctx context.Context, c *Category) error
	CreatePath(ctx context.Context, p *Path) error
	CreateLevel(ctx context.Context, l *Level) error
}
