package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"genesiscode/internal/shared/constants"
	"genesiscode/internal/shared/logger"
)

func newTestEnforcer(t *testing.T) (*Enforcer, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	e, err := NewEnforcer(db, "", logger.NewNopLogger())
	require.NoError(t, err)
	return e, db
}

func TestEnforcer_RolesCollection(t *testing.T) {
	e, db := newTestEnforcer(t)

	roles, err := e.GetRolesForUser(1)
	require.NoError(t, err)
	assert.Empty(t, roles)

	require.NoError(t, e.AddRoleForUser(1, constants.RoleAdmin))
	require.NoError(t, e.AddRoleForUser(1, "editor"))

	roles, err = e.GetRolesForUser(1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{constants.RoleAdmin, "editor"}, roles)

	// Assignments are persisted and survive a fresh enforcer.
	reloaded, err := NewEnforcer(db, "", logger.NewNopLogger())
	require.NoError(t, err)
	roles, err = reloaded.GetRolesForUser(1)
	require.NoError(t, err)
	assert.Len(t, roles, 2)

	require.NoError(t, e.DeleteRoleForUser(1, "editor"))
	roles, err = e.GetRolesForUser(1)
	require.NoError(t, err)
	assert.Equal(t, []string{constants.RoleAdmin}, roles)
}

func TestEnforcer_AdminPolicy(t *testing.T) {
	e, _ := newTestEnforcer(t)
	require.NoError(t, e.EnsureDefaultPolicies())
	require.NoError(t, e.EnsureDefaultPolicies())
	require.NoError(t, e.AddRoleForUser(1, constants.RoleAdmin))

	allowed, err := e.Enforce(1, "/api/admin/course-access", "POST")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = e.Enforce(2, "/api/admin/course-access", "POST")
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = e.Enforce(1, "/api/paths/1/access", "GET")
	require.NoError(t, err)
	assert.False(t, allowed)
}
