package access

import (
	"time"

	"genesiscode/internal/domain/access"
)

// Cache lookup results reported to Metrics.
const (
	CacheResultHit   = "hit"
	CacheResultMiss  = "miss"
	CacheResultError = "error"
)

// Metrics receives engine observations. The prometheus implementation lives in
// infrastructure/metrics.
type Metrics interface {
	ObserveDecision(d access.Decision, elapsed time.Duration)
	CacheResult(result string)
}

type nopMetrics struct{}

func (nopMetrics) ObserveDecision(access.Decision, time.Duration) {}
func (nopMetrics) CacheResult(string)                             {}

// Option configures an Engine.
type Option func(*Engine)

// WithCacheTTL sets how long decisions stay cached.
func WithCacheTTL(ttl time.Duration) Option {
	return func(e *Engine) {
		if ttl > 0 {
			e.cacheTTL = ttl
		}
	}
}

func WithMetrics(m Metrics) Option {
	return func(e *Engine) {
		if m != nil {
			e.metrics = m
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}
