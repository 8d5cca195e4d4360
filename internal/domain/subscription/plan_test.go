package subscription

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "genesiscode/internal/domain/subscription/valueobjects"
)

func TestPlanCovers(t *testing.T) {
	const (
		pathID     uint = 7
		categoryID uint = 3
	)

	tests := []struct {
		name      string
		planType  string
		targetID  uint
		allowed   []uint
		wantScope vo.CoverageScope
		wantOK    bool
	}{
		{"global covers everything", "global", 0, nil, vo.ScopeGlobal, true},
		{"mixed case type is normalized", "GLOBAL", 0, nil, vo.ScopeGlobal, true},
		{"category match", "category", categoryID, nil, vo.ScopeCategory, true},
		{"category mismatch", "category", 99, nil, "", false},
		{"path by target", "path", pathID, nil, vo.ScopePath, true},
		{"path by allowed list", "Path", 1, []uint{5, pathID}, vo.ScopePathList, true},
		{"path mismatch", "path", 1, []uint{2}, "", false},
		{"unknown type covers nothing", "bundle", pathID, nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ReconstructPlan(1, "plan", tt.planType, tt.targetID, tt.allowed, 0, "USD", true, time.Now())
			require.NoError(t, err)

			scope, ok := p.Covers(pathID, categoryID)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantScope, scope)
		})
	}
}

func TestNewPlanValidation(t *testing.T) {
	_, err := NewPlan("", vo.PlanTypeGlobal, 0, nil, 100, "usd")
	assert.Error(t, err)

	_, err = NewPlan("Beginner", vo.PlanTypeCategory, 0, nil, 100, "usd")
	assert.Error(t, err)

	_, err = NewPlan("Bundle", vo.PlanTypePath, 0, nil, 100, "usd")
	assert.Error(t, err)

	p, err := NewPlan("All access", "Global", 0, nil, 1999, "usd")
	require.NoError(t, err)
	assert.Equal(t, vo.PlanTypeGlobal, p.Type())
	assert.Equal(t, "USD", p.Currency())
	assert.True(t, p.IsActive())
}

func TestSubscriptionGrantsAccessAt(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		status    vo.SubscriptionStatus
		periodEnd time.Time
		want      bool
	}{
		{"active in period", vo.StatusActive, now.Add(time.Hour), true},
		{"active past period", vo.StatusActive, now.Add(-time.Hour), false},
		{"past due in period", vo.StatusPastDue, now.Add(time.Hour), false},
		{"canceled", vo.StatusCanceled, now.Add(time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ReconstructSubscription(1, 1, 1, tt.status, tt.periodEnd, "", now, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.GrantsAccessAt(now))
		})
	}
}

func TestSubscriptionLifecycle(t *testing.T) {
	s, err := NewSubscription(1, 2, time.Now().Add(24*time.Hour), "txn_1")
	require.NoError(t, err)
	assert.Equal(t, vo.StatusPending, s.Status())

	require.NoError(t, s.Activate())
	assert.Equal(t, vo.StatusActive, s.Status())

	s.Expire()
	assert.Equal(t, vo.StatusExpired, s.Status())
}
