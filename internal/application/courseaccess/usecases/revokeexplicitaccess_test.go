package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genesiscode/internal/application/testutil"
	"genesiscode/internal/domain/courseaccess"
	"genesiscode/internal/shared/errors"
)

func TestRevokeExplicitAccess(t *testing.T) {
	grants := testutil.NewMockGrantRepository()
	invalidator := testutil.NewMockInvalidator()
	uc := NewRevokeExplicitAccessUseCase(grants, invalidator, testutil.NewMockLogger())

	g, err := courseaccess.NewGrant(courseaccess.Scope{UserID: 3, PathID: 10},
		courseaccess.AccessTypeUnlocked, courseaccess.SourceAdmin, courseaccess.AccessTypeUnlocked.DefaultCapabilities(), nil)
	require.NoError(t, err)
	grants.Put(g)

	require.NoError(t, uc.Execute(context.Background(), g.ID()))

	stored, _ := grants.GetByID(context.Background(), g.ID())
	assert.False(t, stored.IsActive())
	assert.Equal(t, []uint{3}, invalidator.Invalidated())

	t.Run("second revoke is a no-op", func(t *testing.T) {
		require.NoError(t, uc.Execute(context.Background(), g.ID()))
		assert.Equal(t, 1, grants.UpdateCalls)
	})

	t.Run("unknown grant", func(t *testing.T) {
		err := uc.Execute(context.Background(), 404)
		assert.True(t, errors.IsNotFoundError(err))
	})

	t.Run("zero id", func(t *testing.T) {
		err := uc.Execute(context.Background(), 0)
		assert.True(t, errors.IsValidationError(err))
	})
}
