package categoryaccess

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, ca *CategoryAccess) error

	// Update persists status, type, expiry and payment reference. It never touches
	// the unlocked set.
	Update(ctx context.Context, ca *CategoryAccess) error

	// GetByUserAndCategory loads the record with its unlocked levels; (nil, nil) if absent.
	GetByUserAndCategory(ctx context.Context, userID, categoryID uint) (*CategoryAccess, error)

	// UnlockLevel appends (pathID, levelID) in a single conditional statement guarded by
	// the record being active at now. It reports whether a new entry was written; an
	// existing entry is not an error. ErrCategoryAccessInactive when no active record exists.
	UnlockLevel(ctx context.Context, userID, categoryID, pathID, levelID uint, now time.Time) (bool, error)

	// DeactivateExpired switches off active records past their expiry and returns the
	// affected user IDs.
	DeactivateExpired(ctx context.Context, now time.Time) ([]uint, error)
}
