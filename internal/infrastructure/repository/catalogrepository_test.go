package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genesiscode/internal/domain/catalog"
)

func TestCatalogRepository_PathLevelsAreOrdered(t *testing.T) {
	repo := NewCatalogRepository(setupTestDB(t), testLogger())
	ctx := context.Background()

	cat, err := catalog.NewCategory("Backend", "backend")
	require.NoError(t, err)
	require.NoError(t, repo.CreateCategory(ctx, cat))

	p, err := catalog.NewPath(cat.ID(), "Go services", "# Intro")
	require.NoError(t, err)
	require.NoError(t, repo.CreatePath(ctx, p))

	for _, lv := range []struct {
		order int
		title string
	}{{3, "Third"}, {1, "First"}, {2, "Second"}} {
		l, err := catalog.NewLevel(p.ID(), lv.order, lv.title)
		require.NoError(t, err)
		require.NoError(t, repo.CreateLevel(ctx, l))
	}

	got, err := repo.GetPath(ctx, p.ID())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, cat.ID(), got.CategoryID())

	var titles []string
	for _, l := range got.Levels() {
		titles = append(titles, l.Title())
	}
	assert.Equal(t, []string{"First", "Second", "Third"}, titles)

	first := catalog.FirstLevel(got.Levels())
	require.NotNil(t, first)
	assert.True(t, catalog.IsFirstLevelOf(got, first.ID()))

	paths, err := repo.ListPathsByCategory(ctx, cat.ID())
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Len(t, paths[0].Levels(), 3)
}

func TestCatalogRepository_MissingRecords(t *testing.T) {
	repo := NewCatalogRepository(setupTestDB(t), testLogger())
	ctx := context.Background()

	p, err := repo.GetPath(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, p)

	c, err := repo.GetCategory(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, c)

	l, err := repo.GetLevel(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, l)
}
