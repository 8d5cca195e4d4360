package user

import "context"

// Repository defines user lookups needed by the access core.
type Repository interface {
	Create(ctx context.Context, user *User) error

	// GetByID returns (nil, nil) when the user does not exist.
	GetByID(ctx context.Context, id uint) (*User, error)

	GetByEmail(ctx context.Context, email string) (*User, error)
}

// RoleSource is the roles collection. Implemented by the casbin enforcer.
type RoleSource interface {
	GetRolesForUser(userID uint) ([]string, error)
}
