package scheduler

import (
	"context"
	"sync"
	"time"

	"genesiscode/internal/application/entitlement/usecases"
	"genesiscode/internal/shared/goroutine"
	"genesiscode/internal/shared/logger"
)

// ExpiryJob is the sweep the scheduler runs.
type ExpiryJob interface {
	Execute(ctx context.Context, now time.Time) (*usecases.ExpiryResult, error)
}

// ExpiryRecorder receives sweep counts. Implemented by infrastructure/metrics.
type ExpiryRecorder interface {
	EntitlementsExpired(kind string, n int)
}

// ExpiryScheduler periodically switches off entitlements whose end date passed.
// Access decisions already ignore them at read time; the sweep keeps stored state
// and caches consistent with that.
type ExpiryScheduler struct {
	job      ExpiryJob
	recorder ExpiryRecorder
	logger   logger.Interface
	interval time.Duration
	now      func() time.Time
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewExpiryScheduler(job ExpiryJob, recorder ExpiryRecorder, interval time.Duration, logger logger.Interface) *ExpiryScheduler {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &ExpiryScheduler{
		job:      job,
		recorder: recorder,
		logger:   logger,
		interval: interval,
		now:      func() time.Time { return time.Now().UTC() },
		stopChan: make(chan struct{}),
	}
}

// Start runs one sweep immediately and then one per interval until Stop or ctx ends.
func (s *ExpiryScheduler) Start(ctx context.Context) {
	s.logger.Infow("starting entitlement expiry scheduler", "interval", s.interval)

	s.wg.Add(1)
	goroutine.SafeGo(s.logger, "entitlement-expiry-scheduler", func() {
		defer s.wg.Done()
		s.runLoop(ctx)
	})
}

// Stop stops the scheduler gracefully
func (s *ExpiryScheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Infow("stopping entitlement expiry scheduler")
		close(s.stopChan)
		s.wg.Wait()
		s.logger.Infow("entitlement expiry scheduler stopped")
	})
}

func (s *ExpiryScheduler) runLoop(ctx context.Context) {
	s.RunOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Infow("entitlement expiry scheduler stopped due to context cancellation")
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce executes a single sweep. Failures and panics are logged; the next tick retries.
func (s *ExpiryScheduler) RunOnce(ctx context.Context) {
	defer goroutine.Recover(s.logger, "entitlement-expiry-sweep")
	startTime := time.Now()

	result, err := s.job.Execute(ctx, s.now())
	if err != nil {
		s.logger.Errorw("entitlement expiry sweep failed",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if s.recorder != nil {
		s.recorder.EntitlementsExpired("explicit_grant", result.GrantsDeactivated)
		s.recorder.EntitlementsExpired("category_access", result.CategoryAccessDeactivated)
		s.recorder.EntitlementsExpired("subscription", result.SubscriptionsExpired)
	}

	s.logger.Debugw("entitlement expiry sweep finished",
		"grants", result.GrantsDeactivated,
		"category_access", result.CategoryAccessDeactivated,
		"subscriptions", result.SubscriptionsExpired,
		"duration", time.Since(startTime),
	)
}
