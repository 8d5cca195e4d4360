package categoryaccess

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCategoryAccess(t *testing.T) {
	_, err := NewCategoryAccess(1, 2, AccessTypePurchased, nil, "")
	assert.Error(t, err, "purchase needs a payment reference")

	_, err = NewCategoryAccess(0, 2, AccessTypeFree, nil, "")
	assert.Error(t, err)

	ca, err := NewCategoryAccess(1, 2, AccessTypeFree, nil, "")
	require.NoError(t, err)
	assert.True(t, ca.IsActiveAt(time.Now()))
}

func TestIsActiveAt(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)

	expired, err := ReconstructCategoryAccess(1, 1, 2, AccessTypePurchased, StatusActive, &past, "txn", nil, now, now)
	require.NoError(t, err)
	assert.False(t, expired.IsActiveAt(now))

	inactive, err := ReconstructCategoryAccess(2, 1, 2, AccessTypeFree, StatusInactive, nil, "", nil, now, now)
	require.NoError(t, err)
	assert.False(t, inactive.IsActiveAt(now))
}

func TestActivateDoesNotDowngrade(t *testing.T) {
	ca, err := NewCategoryAccess(1, 2, AccessTypePurchased, nil, "txn_1")
	require.NoError(t, err)

	require.NoError(t, ca.Activate(AccessTypeFree, nil, ""))
	assert.Equal(t, AccessTypePurchased, ca.AccessType())

	ca.Deactivate()
	require.NoError(t, ca.Activate(AccessTypeFree, nil, ""))
	assert.Equal(t, AccessTypeFree, ca.AccessType())
	assert.Equal(t, StatusActive, ca.Status())
	assert.Equal(t, "txn_1", ca.PaymentReference())
}

func TestHasUnlocked(t *testing.T) {
	now := time.Now()
	ca, err := ReconstructCategoryAccess(1, 1, 2, AccessTypeFree, StatusActive, nil, "",
		[]UnlockedLevel{{PathID: 10, LevelID: 3, UnlockedAt: now}}, now, now)
	require.NoError(t, err)

	assert.True(t, ca.HasUnlocked(10, 3))
	assert.False(t, ca.HasUnlocked(11, 3))
	assert.False(t, ca.HasUnlocked(10, 4))
}
