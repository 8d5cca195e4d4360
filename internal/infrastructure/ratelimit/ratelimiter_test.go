package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLimiter(client), mr
}

func TestAllow_PerMinute(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()
	limit := Limit{PerMinute: 3}

	for i := 0; i < 3; i++ {
		allowed, err := limiter.Allow(ctx, "user:1", limit)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d", i+1)
	}

	allowed, err := limiter.Allow(ctx, "user:1", limit)
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = limiter.Allow(ctx, "user:2", limit)
	require.NoError(t, err)
	assert.True(t, allowed, "keys are independent")
}

func TestAllow_WindowSlides(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()
	limit := Limit{PerMinute: 1}

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return base }

	allowed, err := limiter.Allow(ctx, "ip:10.0.0.1", limit)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = limiter.Allow(ctx, "ip:10.0.0.1", limit)
	require.NoError(t, err)
	assert.False(t, allowed)

	limiter.now = func() time.Time { return base.Add(2 * time.Minute) }
	allowed, err = limiter.Allow(ctx, "ip:10.0.0.1", limit)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestAllow_PerHourApplies(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()
	limit := Limit{PerMinute: 10, PerHour: 2}

	for i := 0; i < 2; i++ {
		allowed, err := limiter.Allow(ctx, "user:1", limit)
		require.NoError(t, err)
		assert.True(t, allowed)
	}
	allowed, err := limiter.Allow(ctx, "user:1", limit)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestAllow_DisabledLimit(t *testing.T) {
	limiter, mr := newTestLimiter(t)

	assert.False(t, Limit{}.Enabled())
	for i := 0; i < 5; i++ {
		allowed, err := limiter.Allow(context.Background(), "user:1", Limit{})
		require.NoError(t, err)
		assert.True(t, allowed)
	}
	assert.Empty(t, mr.Keys())
}

func TestReset(t *testing.T) {
	limiter, mr := newTestLimiter(t)
	ctx := context.Background()
	limit := Limit{PerMinute: 1}

	_, err := limiter.Allow(ctx, "user:1", limit)
	require.NoError(t, err)
	require.NoError(t, limiter.Reset(ctx, "user:1"))
	assert.Empty(t, mr.Keys())

	allowed, err := limiter.Allow(ctx, "user:1", limit)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestAllow_RedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	require.NoError(t, client.Close())
	limiter := NewRedisLimiter(client)

	_, err := limiter.Allow(context.Background(), "user:1", Limit{PerMinute: 1})
	assert.Error(t, err)
}
