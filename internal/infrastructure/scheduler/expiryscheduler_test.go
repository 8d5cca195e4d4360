package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genesiscode/internal/application/entitlement/usecases"
	"genesiscode/internal/shared/logger"
)

type fakeJob struct {
	mu     sync.Mutex
	calls  int
	result *usecases.ExpiryResult
	err    error
}

func (j *fakeJob) Execute(context.Context, time.Time) (*usecases.ExpiryResult, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.calls++
	return j.result, j.err
}

func (j *fakeJob) Calls() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.calls
}

type fakeRecorder struct {
	counts map[string]int
}

func (r *fakeRecorder) EntitlementsExpired(kind string, n int) {
	r.counts[kind] += n
}

func TestExpiryScheduler_RunOnceRecordsCounts(t *testing.T) {
	job := &fakeJob{result: &usecases.ExpiryResult{GrantsDeactivated: 2, CategoryAccessDeactivated: 1, SubscriptionsExpired: 3}}
	rec := &fakeRecorder{counts: map[string]int{}}
	s := NewExpiryScheduler(job, rec, time.Hour, logger.NewNopLogger())

	s.RunOnce(context.Background())

	assert.Equal(t, 1, job.Calls())
	assert.Equal(t, map[string]int{"explicit_grant": 2, "category_access": 1, "subscription": 3}, rec.counts)
}

func TestExpiryScheduler_RunOnceSurvivesFailure(t *testing.T) {
	job := &fakeJob{err: errors.New("db down")}
	rec := &fakeRecorder{counts: map[string]int{}}
	s := NewExpiryScheduler(job, rec, time.Hour, logger.NewNopLogger())

	s.RunOnce(context.Background())

	assert.Empty(t, rec.counts)
}

type panickingJob struct{}

func (panickingJob) Execute(context.Context, time.Time) (*usecases.ExpiryResult, error) {
	panic("nil row")
}

func TestExpiryScheduler_RunOnceSurvivesPanic(t *testing.T) {
	rec := &fakeRecorder{counts: map[string]int{}}
	s := NewExpiryScheduler(panickingJob{}, rec, time.Hour, logger.NewNopLogger())

	assert.NotPanics(t, func() { s.RunOnce(context.Background()) })
	assert.Empty(t, rec.counts)
}

func TestExpiryScheduler_StartRunsImmediatelyAndStops(t *testing.T) {
	job := &fakeJob{result: &usecases.ExpiryResult{}}
	s := NewExpiryScheduler(job, nil, time.Hour, logger.NewNopLogger())

	s.Start(context.Background())
	require.Eventually(t, func() bool { return job.Calls() >= 1 }, time.Second, 5*time.Millisecond)

	s.Stop()
	s.Stop()
	assert.Equal(t, 1, job.Calls())
}
