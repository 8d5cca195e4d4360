package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genesiscode/internal/domain/courseaccess"
	"genesiscode/internal/shared/errors"
)

func newGrant(t *testing.T, scope courseaccess.Scope, accessType courseaccess.AccessType, expiresAt *time.Time) *courseaccess.Grant {
	t.Helper()
	g, err := courseaccess.NewGrant(scope, accessType, courseaccess.SourceAdmin, accessType.DefaultCapabilities(), expiresAt)
	require.NoError(t, err)
	return g
}

func TestCourseAccessRepository_FindMostSpecific(t *testing.T) {
	repo := NewCourseAccessRepository(setupTestDB(t), testLogger())
	ctx := context.Background()
	now := time.Now().UTC()

	pathGrant := newGrant(t, courseaccess.Scope{UserID: 1, PathID: 10}, courseaccess.AccessTypePreview, nil)
	levelGrant := newGrant(t, courseaccess.Scope{UserID: 1, PathID: 10, LevelID: 100}, courseaccess.AccessTypeFree, nil)
	exerciseGrant := newGrant(t, courseaccess.Scope{UserID: 1, PathID: 10, LevelID: 100, ExerciseID: 7}, courseaccess.AccessTypeUnlocked, nil)
	otherLevel := newGrant(t, courseaccess.Scope{UserID: 1, PathID: 10, LevelID: 101}, courseaccess.AccessTypeUnlocked, nil)
	looseExercise := newGrant(t, courseaccess.Scope{UserID: 1, PathID: 10, ExerciseID: 9}, courseaccess.AccessTypeFree, nil)
	for _, g := range []*courseaccess.Grant{pathGrant, levelGrant, exerciseGrant, otherLevel, looseExercise} {
		require.NoError(t, repo.Create(ctx, g))
	}

	tests := []struct {
		name       string
		pathID     uint
		levelID    uint
		exerciseID uint
		want       uint
	}{
		{"path query only sees path grant", 10, 0, 0, pathGrant.ID()},
		{"level beats path", 10, 100, 0, levelGrant.ID()},
		{"exercise beats level", 10, 100, 7, exerciseGrant.ID()},
		{"other exercise falls back to level", 10, 100, 8, levelGrant.ID()},
		{"level without own grant falls back to path", 10, 102, 0, pathGrant.ID()},
		{"exercise grant without level matches exercise-only query", 10, 0, 9, looseExercise.ID()},
		{"exercise grant without level matches under any level", 10, 101, 9, looseExercise.ID()},
		{"exercise-only query without exercise grant falls back to path", 10, 0, 7, pathGrant.ID()},
		{"other path", 11, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.FindMostSpecific(ctx, 1, tt.pathID, tt.levelID, tt.exerciseID, now)
			require.NoError(t, err)
			if tt.want == 0 {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.ID())
		})
	}
}

func TestCourseAccessRepository_IgnoresIneffectiveGrants(t *testing.T) {
	repo := NewCourseAccessRepository(setupTestDB(t), testLogger())
	ctx := context.Background()
	now := time.Now().UTC()

	soon := now.Add(time.Minute)
	expiring := newGrant(t, courseaccess.Scope{UserID: 2, PathID: 10, LevelID: 100}, courseaccess.AccessTypeUnlocked, &soon)
	require.NoError(t, repo.Create(ctx, expiring))

	revoked := newGrant(t, courseaccess.Scope{UserID: 2, PathID: 10}, courseaccess.AccessTypeUnlocked, nil)
	require.NoError(t, repo.Create(ctx, revoked))
	revoked.Deactivate()
	require.NoError(t, repo.Update(ctx, revoked))

	got, err := repo.FindMostSpecific(ctx, 2, 10, 100, 0, now)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, expiring.ID(), got.ID())

	got, err = repo.FindMostSpecific(ctx, 2, 10, 100, 0, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCourseAccessRepository_ScopeIsUnique(t *testing.T) {
	repo := NewCourseAccessRepository(setupTestDB(t), testLogger())
	ctx := context.Background()
	scope := courseaccess.Scope{UserID: 3, PathID: 10}

	first := newGrant(t, scope, courseaccess.AccessTypePreview, nil)
	first.SetMetadata("ticket", "T-1")
	require.NoError(t, repo.Create(ctx, first))

	err := repo.Create(ctx, newGrant(t, scope, courseaccess.AccessTypeFree, nil))
	require.Error(t, err)
	assert.True(t, errors.IsDuplicateError(err))

	stored, err := repo.GetByScope(ctx, scope)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, first.ID(), stored.ID())
	assert.Equal(t, "T-1", stored.Metadata()["ticket"])
	assert.Equal(t, courseaccess.AccessTypePreview.DefaultCapabilities(), stored.Capabilities())
}

func TestCourseAccessRepository_DeactivateExpired(t *testing.T) {
	repo := NewCourseAccessRepository(setupTestDB(t), testLogger())
	ctx := context.Background()
	now := time.Now().UTC()

	soon := now.Add(time.Minute)
	expiring := newGrant(t, courseaccess.Scope{UserID: 4, PathID: 10}, courseaccess.AccessTypeFree, &soon)
	lasting := newGrant(t, courseaccess.Scope{UserID: 5, PathID: 10}, courseaccess.AccessTypeFree, nil)
	require.NoError(t, repo.Create(ctx, expiring))
	require.NoError(t, repo.Create(ctx, lasting))

	users, err := repo.DeactivateExpired(ctx, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []uint{4}, users)

	stored, err := repo.GetByID(ctx, expiring.ID())
	require.NoError(t, err)
	assert.False(t, stored.IsActive())

	users, err = repo.DeactivateExpired(ctx, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestCourseAccessRepository_GetByIDMissing(t *testing.T) {
	repo := NewCourseAccessRepository(setupTestDB(t), testLogger())

	got, err := repo.GetByID(context.Background(), 42)

	require.NoError(t, err)
	assert.Nil(t, got)
}
