package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressRepository_MarkCompleted(t *testing.T) {
	repo := NewProgressRepository(setupTestDB(t), testLogger())
	ctx := context.Background()
	first := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	done, err := repo.IsCompleted(ctx, 1, 100)
	require.NoError(t, err)
	assert.False(t, done)

	changed, err := repo.MarkCompleted(ctx, 1, 100, first)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.MarkCompleted(ctx, 1, 100, first.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, changed, "second completion must not rewrite the record")

	done, err = repo.IsCompleted(ctx, 1, 100)
	require.NoError(t, err)
	assert.True(t, done)

	p, err := repo.GetByUserAndLevel(ctx, 1, 100)
	require.NoError(t, err)
	require.NotNil(t, p)
	require.NotNil(t, p.CompletedAt())
	assert.True(t, first.Equal(p.CompletedAt().UTC()))
}

func TestProgressRepository_IsolatedPerUser(t *testing.T) {
	repo := NewProgressRepository(setupTestDB(t), testLogger())
	ctx := context.Background()

	_, err := repo.MarkCompleted(ctx, 1, 100, time.Now().UTC())
	require.NoError(t, err)

	done, err := repo.IsCompleted(ctx, 2, 100)
	require.NoError(t, err)
	assert.False(t, done)

	p, err := repo.GetByUserAndLevel(ctx, 2, 100)
	require.NoError(t, err)
	assert.Nil(t, p)
}
