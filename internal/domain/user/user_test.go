package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAdmin(t *testing.T) {
	tests := []struct {
		name       string
		roles      []string
		legacyRole string
		want       bool
	}{
		{"no roles", nil, "", false},
		{"roles collection", []string{"student", "admin"}, "", true},
		{"legacy role only", nil, "admin", true},
		{"legacy role case insensitive", nil, " Admin ", true},
		{"non admin roles", []string{"student", "mentor"}, "user", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := ReconstructUser(1, "u@example.com", "", tt.roles, tt.legacyRole, time.Now())
			require.NoError(t, err)
			assert.Equal(t, tt.want, u.IsAdmin())
		})
	}
}

func TestWithRolesDoesNotMutateOriginal(t *testing.T) {
	u, err := ReconstructUser(1, "u@example.com", "", nil, "", time.Now())
	require.NoError(t, err)

	admin := u.WithRoles([]string{"admin"})

	assert.True(t, admin.IsAdmin())
	assert.False(t, u.IsAdmin())
}

func TestNewUserValidatesEmail(t *testing.T) {
	_, err := NewUser("not-an-email", "x")
	assert.Error(t, err)

	u, err := NewUser("  Ada@Example.com ", "Ada")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email())
}
