package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type ledgerRow struct {
	ID    uint
	Label string
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, gdb.AutoMigrate(&ledgerRow{}))
	return gdb
}

func countRows(t *testing.T, gdb *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, gdb.Model(&ledgerRow{}).Count(&n).Error)
	return n
}

func TestRunInTransaction_Commits(t *testing.T) {
	gdb := newTestDB(t)
	tm := NewTransactionManager(gdb)

	err := tm.RunInTransaction(context.Background(), func(ctx context.Context) error {
		return GetTxFromContext(ctx, gdb).Create(&ledgerRow{Label: "a"}).Error
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, countRows(t, gdb))
}

func TestRunInTransaction_RollsBack(t *testing.T) {
	gdb := newTestDB(t)
	tm := NewTransactionManager(gdb)
	boom := errors.New("boom")

	err := tm.RunInTransaction(context.Background(), func(ctx context.Context) error {
		require.NoError(t, GetTxFromContext(ctx, gdb).Create(&ledgerRow{Label: "a"}).Error)
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.EqualValues(t, 0, countRows(t, gdb))
}

func TestRunInTransaction_JoinsOuterTransaction(t *testing.T) {
	gdb := newTestDB(t)
	tm := NewTransactionManager(gdb)
	boom := errors.New("boom")

	err := tm.RunInTransaction(context.Background(), func(ctx context.Context) error {
		outer := GetTxFromContext(ctx, gdb)
		innerErr := tm.RunInTransaction(ctx, func(inner context.Context) error {
			assert.Same(t, outer, GetTxFromContext(inner, gdb))
			return GetTxFromContext(inner, gdb).Create(&ledgerRow{Label: "inner"}).Error
		})
		require.NoError(t, innerErr)
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.EqualValues(t, 0, countRows(t, gdb), "inner write rolls back with the outer transaction")
}

func TestGetTxFromContext_FallsBackToDefault(t *testing.T) {
	gdb := newTestDB(t)
	got := GetTxFromContext(context.Background(), gdb)
	require.NoError(t, got.Create(&ledgerRow{Label: "plain"}).Error)
	assert.EqualValues(t, 1, countRows(t, gdb))
}
