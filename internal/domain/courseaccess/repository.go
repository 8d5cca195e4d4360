package courseaccess

import (
	"context"
	"time"
)

// Repository defines persistence for explicit grants
type Repository interface {
	Create(ctx context.Context, g *Grant) error
	Update(ctx context.Context, g *Grant) error

	// GetByID returns (nil, nil) when the grant does not exist.
	GetByID(ctx context.Context, id uint) (*Grant, error)

	// GetByScope returns the grant stored for exactly this scope, active or not.
	GetByScope(ctx context.Context, scope Scope) (*Grant, error)

	// FindMostSpecific returns the most specific grant that matches the query and is
	// effective at now. (nil, nil) when none matches.
	FindMostSpecific(ctx context.Context, userID, pathID, levelID, exerciseID uint, now time.Time) (*Grant, error)

	// DeactivateExpired switches off active grants whose expiration passed and returns
	// the affected user IDs.
	DeactivateExpired(ctx context.Context, now time.Time) ([]uint, error)
}
