// Package ratelimit implements sliding-window request limits stored in Redis.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "genesis:ratelimit:"

// Limit caps requests per window. A zero field disables that window.
type Limit struct {
	PerMinute int
	PerHour   int
}

func (l Limit) Enabled() bool {
	return l.PerMinute > 0 || l.PerHour > 0
}

type RedisLimiter struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	return &RedisLimiter{client: client, now: time.Now}
}

// Allow records one request for key and reports whether every window is still under its cap.
func (l *RedisLimiter) Allow(ctx context.Context, key string, limit Limit) (bool, error) {
	windows := []struct {
		duration time.Duration
		limit    int
	}{
		{time.Minute, limit.PerMinute},
		{time.Hour, limit.PerHour},
	}

	for _, w := range windows {
		if w.limit <= 0 {
			continue
		}
		allowed, err := l.checkWindow(ctx, key, w.duration, w.limit)
		if err != nil {
			return false, err
		}
		if !allowed {
			return false, nil
		}
	}
	return true, nil
}

func (l *RedisLimiter) checkWindow(ctx context.Context, key string, window time.Duration, limit int) (bool, error) {
	redisKey := windowKey(key, window)
	now := l.now()
	windowStart := now.Add(-window).UnixNano()

	pipe := l.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", fmt.Sprintf("%d", windowStart))
	zcard := pipe.ZCard(ctx, redisKey)
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixNano()), Member: uuid.NewString()})
	pipe.Expire(ctx, redisKey, window+time.Minute)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to execute rate limit pipeline: %w", err)
	}

	return zcard.Val() < int64(limit), nil
}

// Reset forgets every window recorded for key.
func (l *RedisLimiter) Reset(ctx context.Context, key string) error {
	keys := []string{windowKey(key, time.Minute), windowKey(key, time.Hour)}
	if err := l.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to reset rate limit for %s: %w", key, err)
	}
	return nil
}

func windowKey(key string, window time.Duration) string {
	return keyPrefix + key + ":" + window.String()
}
