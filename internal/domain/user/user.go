// Package user models the account the access engine evaluates. Authentication and
// profile management live elsewhere; this package only carries what access rules read.
package user

import (
	"fmt"
	"strings"
	"time"

	"genesiscode/internal/shared/constants"
)

// User is read-only to the access core.
type User struct {
	id         uint
	email      string
	name       string
	roles      []string
	legacyRole string
	createdAt  time.Time
}

func NewUser(email, name string) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("invalid email: %q", email)
	}
	return &User{email: email, name: strings.TrimSpace(name), createdAt: time.Now().UTC()}, nil
}

// ReconstructUser rebuilds a user from persistence. roles comes from the roles
// collection, legacyRole from the old single-role column.
func ReconstructUser(id uint, email, name string, roles []string, legacyRole string, createdAt time.Time) (*User, error) {
	if id == 0 {
		return nil, fmt.Errorf("user ID cannot be zero")
	}
	return &User{
		id:         id,
		email:      email,
		name:       name,
		roles:      roles,
		legacyRole: legacyRole,
		createdAt:  createdAt,
	}, nil
}

func (u *User) ID() uint             { return u.id }
func (u *User) Email() string        { return u.email }
func (u *User) Name() string         { return u.name }
func (u *User) LegacyRole() string   { return u.legacyRole }
func (u *User) CreatedAt() time.Time { return u.createdAt }

// Roles returns a copy of the roles collection
func (u *User) Roles() []string {
	out := make([]string, len(u.roles))
	copy(out, u.roles)
	return out
}

// IsAdmin collapses both role representations into one flag. The access engine
// only ever looks at this.
func (u *User) IsAdmin() bool {
	if strings.EqualFold(strings.TrimSpace(u.legacyRole), constants.RoleAdmin) {
		return true
	}
	for _, r := range u.roles {
		if strings.EqualFold(strings.TrimSpace(r), constants.RoleAdmin) {
			return true
		}
	}
	return false
}

// WithRoles returns a copy of the user carrying the given roles collection.
func (u *User) WithRoles(roles []string) *User {
	cp := *u
	cp.roles = append([]string(nil), roles...)
	return &cp
}

// SetID sets the user ID (only for persistence layer use)
func (u *User) SetID(id uint) error {
	if u.id != 0 {
		return fmt.Errorf("user ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("user ID cannot be zero")
	}
	u.id = id
	return nil
}

// SetLegacyRole sets the single-role column, kept for accounts created before the roles collection.
func (u *User) SetLegacyRole(role string) {
	u.legacyRole = role
}
