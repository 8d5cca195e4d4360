package access

import (
	"context"
	"time"
)

// DecisionCache stores computed decisions by CacheKey. Implementations are advisory:
// callers treat every error as a miss.
type DecisionCache interface {
	// Get returns (nil, nil) on a miss.
	Get(ctx context.Context, key string) (*Decision, error)

	// Generation returns the user's invalidation counter. It starts at zero and every
	// InvalidateUser moves it forward.
	Generation(ctx context.Context, userID uint) (uint64, error)

	// Set stores the decision only while the user's counter still equals generation,
	// so a decision computed before an invalidation is dropped instead of cached.
	Set(ctx context.Context, key string, decision Decision, ttl time.Duration, generation uint64) error

	CacheInvalidator
}

// CacheInvalidator is what write paths need after changing a user's entitlements.
type CacheInvalidator interface {
	// InvalidateUser drops every cached decision for the user.
	InvalidateUser(ctx context.Context, userID uint) error
}

// NopCache never stores anything.
type NopCache struct{}

func (NopCache) Get(context.Context, string) (*Decision, error) { return nil, nil }
func (NopCache) Generation(context.Context, uint) (uint64, error) { return 0, nil }
func (NopCache) Set(context.Context, string, Decision, time.Duration, uint64) error {
	return nil
}
func (NopCache) InvalidateUser(context.Context, uint) error { return nil }
