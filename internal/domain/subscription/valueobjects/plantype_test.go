package valueobjects

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePlanType(t *testing.T) {
	tests := []struct {
		in   string
		want PlanType
	}{
		{"global", PlanTypeGlobal},
		{"Global", PlanTypeGlobal},
		{" CATEGORY ", PlanTypeCategory},
		{"Path", PlanTypePath},
		{"bundle", PlanType("bundle")},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePlanType(tt.in), tt.in)
	}
}

func TestNormalizePlanTypeConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.Equal(t, PlanTypeCategory, NormalizePlanType("CaTeGoRy"))
			}
		}()
	}
	wg.Wait()
}

func TestNewPlanType(t *testing.T) {
	pt, err := NewPlanType("PATH")
	require.NoError(t, err)
	assert.Equal(t, PlanTypePath, pt)

	_, err = NewPlanType("bundle")
	assert.Error(t, err)
}
