package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genesiscode/internal/domain/access"
	"genesiscode/internal/shared/logger"
)

func setupDecisionCache(t *testing.T) (*RedisDecisionCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisDecisionCache(client, logger.NewNopLogger()), mr
}

func TestRedisDecisionCache_GetSet(t *testing.T) {
	c, mr := setupDecisionCache(t)
	ctx := context.Background()
	key := access.CacheKey(access.Query{UserID: 7, PathID: 3, LevelID: 11})

	got, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, got)

	want := access.Grant(access.AccessTypeSubscription, access.SubscriptionSource("global"), true, true, false)
	require.NoError(t, c.Set(ctx, key, want, time.Minute, 0))

	got, err = c.Get(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)

	ttl := mr.TTL(decisionKeyPrefix + key)
	assert.GreaterOrEqual(t, ttl, time.Minute)
	assert.Less(t, ttl, time.Minute+12*time.Second)

	mr.FastForward(2 * time.Minute)
	got, err = c.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisDecisionCache_InvalidateUser(t *testing.T) {
	c, _ := setupDecisionCache(t)
	ctx := context.Background()

	mine := []string{
		access.CacheKey(access.Query{UserID: 7, PathID: 3}),
		access.CacheKey(access.Query{UserID: 7, PathID: 3, LevelID: 11}),
		access.CacheKey(access.Query{UserID: 7, PathID: 3, LevelID: 11, ExerciseID: 2}),
	}
	other := access.CacheKey(access.Query{UserID: 70, PathID: 3})

	for _, k := range append(mine, other) {
		require.NoError(t, c.Set(ctx, k, access.Deny(access.ReasonNoAccess), time.Minute, 0))
	}

	require.NoError(t, c.InvalidateUser(ctx, 7))

	for _, k := range mine {
		got, err := c.Get(ctx, k)
		require.NoError(t, err)
		assert.Nil(t, got, k)
	}
	got, err := c.Get(ctx, other)
	require.NoError(t, err)
	assert.NotNil(t, got, "user 70 shares a prefix with user 7 but must survive")

	require.NoError(t, c.InvalidateUser(ctx, 12345))
}

func TestRedisDecisionCache_IndexOutlivesLongerEntry(t *testing.T) {
	c, mr := setupDecisionCache(t)
	ctx := context.Background()
	long := access.CacheKey(access.Query{UserID: 7, PathID: 3})
	short := access.CacheKey(access.Query{UserID: 7, PathID: 3, LevelID: 11})

	require.NoError(t, c.Set(ctx, long, access.Deny(access.ReasonNoAccess), 10*time.Minute, 0))
	require.NoError(t, c.Set(ctx, short, access.Deny(access.ReasonNoAccess), time.Minute, 0))
	assert.GreaterOrEqual(t, mr.TTL(userIndexKeyPrefix+"7"), 10*time.Minute)

	mr.FastForward(90 * time.Second)
	require.NoError(t, c.InvalidateUser(ctx, 7))

	got, err := c.Get(ctx, long)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisDecisionCache_SetAfterInvalidationIsDropped(t *testing.T) {
	c, _ := setupDecisionCache(t)
	ctx := context.Background()
	key := access.CacheKey(access.Query{UserID: 7, PathID: 3, LevelID: 11})

	gen, err := c.Generation(ctx, 7)
	require.NoError(t, err)
	assert.Zero(t, gen)

	require.NoError(t, c.InvalidateUser(ctx, 7))
	require.NoError(t, c.Set(ctx, key, access.Deny(access.ReasonPreviousLevelNotCompleted), time.Minute, gen))

	got, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, got, "decision computed before the invalidation must not be cached")

	gen, err = c.Generation(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), gen)

	require.NoError(t, c.Set(ctx, key, access.Deny(access.ReasonNoAccess), time.Minute, gen))
	got, err = c.Get(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, access.ReasonNoAccess, got.Reason)

	other, err := c.Generation(ctx, 70)
	require.NoError(t, err)
	assert.Zero(t, other)
}

func TestRedisDecisionCache_CorruptEntryIsMiss(t *testing.T) {
	c, mr := setupDecisionCache(t)
	key := access.CacheKey(access.Query{UserID: 1, PathID: 1})
	require.NoError(t, mr.Set(decisionKeyPrefix+key, "{not json"))

	got, err := c.Get(context.Background(), key)

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisDecisionCache_RejectsKeyWithoutUser(t *testing.T) {
	c, _ := setupDecisionCache(t)

	err := c.Set(context.Background(), ":3::", access.Deny(access.ReasonNoAccess), time.Minute, 0)

	assert.Error(t, err)
}

func TestRedisDecisionCache_UnavailableIsError(t *testing.T) {
	c, mr := setupDecisionCache(t)
	mr.Close()

	_, err := c.Get(context.Background(), "1:1::")

	assert.Error(t, err)
}
