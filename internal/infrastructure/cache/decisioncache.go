package cache

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"genesiscode/internal/domain/access"
	"genesiscode/internal/shared/logger"
)

const (
	decisionKeyPrefix   = "access:decision:"
	userIndexKeyPrefix  = "access:decision-keys:user:"
	userGenKeyPrefix    = "access:decision-gen:user:"
	decisionTTLJitterPc = 20 // up to +20% of the TTL
	userGenTTL          = 24 * time.Hour
)

// setDecisionScript stores a decision only if the user's generation is unchanged and
// records the key in the user's index. The index TTL only ever grows.
// KEYS[1] = generation key, KEYS[2] = decision key, KEYS[3] = index key
// ARGV[1] = expected generation, ARGV[2] = payload, ARGV[3] = entry TTL in ms
// ARGV[4] = index member (the cache key), ARGV[5] = minimum index TTL in ms
// Returns 1 if stored, 0 if skipped (invalidated since the generation was read)
var setDecisionScript = redis.NewScript(`
local current = redis.call('GET', KEYS[1]) or '0'
if current ~= ARGV[1] then
    return 0
end

redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
redis.call('SADD', KEYS[3], ARGV[4])
if redis.call('PTTL', KEYS[3]) < tonumber(ARGV[5]) then
    redis.call('PEXPIRE', KEYS[3], ARGV[5])
end
return 1
`)

// invalidateUserScript bumps the user's generation, then deletes every indexed decision
// and the index itself.
// KEYS[1] = generation key, KEYS[2] = index key
// ARGV[1] = decision key prefix, ARGV[2] = generation TTL in seconds
// Returns the number of indexed decisions
var invalidateUserScript = redis.NewScript(`
redis.call('INCR', KEYS[1])
redis.call('EXPIRE', KEYS[1], ARGV[2])

local members = redis.call('SMEMBERS', KEYS[2])
for _, member in ipairs(members) do
    redis.call('DEL', ARGV[1] .. member)
end
redis.call('DEL', KEYS[2])
return #members
`)

// RedisDecisionCache stores access decisions as JSON strings. Every key written for a
// user is also recorded in a per-user set so InvalidateUser does not have to SCAN.
type RedisDecisionCache struct {
	client *redis.Client
	logger logger.Interface
}

var _ access.DecisionCache = (*RedisDecisionCache)(nil)

func NewRedisDecisionCache(client *redis.Client, logger logger.Interface) *RedisDecisionCache {
	return &RedisDecisionCache{
		client: client,
		logger: logger,
	}
}

func (c *RedisDecisionCache) decisionKey(key string) string {
	return decisionKeyPrefix + key
}

func (c *RedisDecisionCache) userIndexKey(userID uint) string {
	return fmt.Sprintf("%s%d", userIndexKeyPrefix, userID)
}

func (c *RedisDecisionCache) userGenKey(userID uint) string {
	return fmt.Sprintf("%s%d", userGenKeyPrefix, userID)
}

// Get returns (nil, nil) on a miss.
func (c *RedisDecisionCache) Get(ctx context.Context, key string) (*access.Decision, error) {
	raw, err := c.client.Get(ctx, c.decisionKey(key)).Bytes()
	if err != nil {
		if stderrors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get access decision from cache: %w", err)
	}

	var d access.Decision
	if err := json.Unmarshal(raw, &d); err != nil {
		// A corrupt entry is treated as a miss and overwritten on the next Set.
		c.logger.Warnw("discarding unreadable cached access decision", "key", key, "error", err)
		return nil, nil
	}
	return &d, nil
}

// Generation returns 0 for a user that was never invalidated.
func (c *RedisDecisionCache) Generation(ctx context.Context, userID uint) (uint64, error) {
	gen, err := c.client.Get(ctx, c.userGenKey(userID)).Uint64()
	if err != nil {
		if stderrors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get access decision generation: %w", err)
	}
	return gen, nil
}

func (c *RedisDecisionCache) Set(ctx context.Context, key string, decision access.Decision, ttl time.Duration, generation uint64) error {
	if ttl <= 0 {
		return fmt.Errorf("access decision TTL must be positive, got %s", ttl)
	}
	payload, err := json.Marshal(decision)
	if err != nil {
		return fmt.Errorf("failed to encode access decision: %w", err)
	}

	userID, ok := access.UserIDFromCacheKey(key)
	if !ok {
		return fmt.Errorf("cache key %q has no user segment", key)
	}

	expiry := ttlWithJitter(ttl)
	stored, err := setDecisionScript.Run(ctx, c.client,
		[]string{c.userGenKey(userID), c.decisionKey(key), c.userIndexKey(userID)},
		strconv.FormatUint(generation, 10), payload, expiry.Milliseconds(), key, (ttl + maxJitter(ttl)).Milliseconds(),
	).Int()
	if err != nil {
		return fmt.Errorf("failed to set access decision in cache: %w", err)
	}
	if stored == 0 {
		c.logger.Debugw("dropping access decision computed before invalidation",
			"key", key,
			"generation", generation,
		)
		return nil
	}

	c.logger.Debugw("access decision cached",
		"key", key,
		"has_access", decision.HasAccess,
		"ttl", expiry,
	)
	return nil
}

// InvalidateUser bumps the user's generation and deletes every decision recorded in
// the user's index, then the index, in one script.
func (c *RedisDecisionCache) InvalidateUser(ctx context.Context, userID uint) error {
	count, err := invalidateUserScript.Run(ctx, c.client,
		[]string{c.userGenKey(userID), c.userIndexKey(userID)},
		decisionKeyPrefix, int(userGenTTL.Seconds()),
	).Int()
	if err != nil {
		return fmt.Errorf("failed to invalidate access decisions: %w", err)
	}

	c.logger.Debugw("access decisions invalidated",
		"user_id", userID,
		"count", count,
	)
	return nil
}

func ttlWithJitter(ttl time.Duration) time.Duration {
	jitter := maxJitter(ttl)
	if jitter <= 0 {
		return ttl
	}
	return ttl + time.Duration(rand.Int64N(int64(jitter)))
}

func maxJitter(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 0
	}
	return ttl * decisionTTLJitterPc / 100
}
