package usecases

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genesiscode/internal/application/testutil"
	"genesiscode/internal/domain/subscription"
	vo "genesiscode/internal/domain/subscription/valueobjects"
)

func TestListCoveringPlans(t *testing.T) {
	plans := testutil.NewMockPlanRepository()
	catalog := testutil.NewMockCatalogRepository()
	catalog.AddPath(10, 1, "Go Basics", [2]uint{100, 1})
	ctx := context.Background()

	mustCreate := func(name string, planType vo.PlanType, target uint, allowed []uint, price int64) *subscription.Plan {
		p, err := subscription.NewPlan(name, planType, target, allowed, price, "usd")
		require.NoError(t, err)
		require.NoError(t, plans.Create(ctx, p))
		return p
	}
	mustCreate("All access", vo.PlanTypeGlobal, 0, nil, 3000)
	mustCreate("Backend", vo.PlanTypeCategory, 1, nil, 1500)
	mustCreate("Frontend", vo.PlanTypeCategory, 2, nil, 1000)
	mustCreate("Bundle", vo.PlanTypePath, 0, []uint{9, 10}, 800)
	retired := mustCreate("Retired", vo.PlanTypePath, 10, nil, 100)
	retired.Deactivate()

	legacy, err := subscription.ReconstructPlan(99, "Legacy", "lifetime", 0, nil, 50, "USD", true, time.Now())
	require.NoError(t, err)
	plans.PutPlan(legacy)

	uc := NewListCoveringPlansUseCase(plans, catalog, testutil.NewMockLogger())

	got, err := uc.Execute(ctx, 10)
	require.NoError(t, err)

	names := make([]string, 0, len(got))
	for _, p := range got {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Bundle", "Backend", "All access"}, names)
	assert.Equal(t, "path_list", got[0].Scope)
	assert.Equal(t, "USD", got[0].Currency)

	t.Run("unknown path", func(t *testing.T) {
		got, err := uc.Execute(ctx, 404)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("store failure", func(t *testing.T) {
		plans.ListError = fmt.Errorf("timeout")
		defer func() { plans.ListError = nil }()

		_, err := uc.Execute(ctx, 10)
		assert.Error(t, err)
	})
}
