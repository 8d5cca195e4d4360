package valueobjects

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// PlanType is the coverage scope of a subscription plan.
type PlanType string

const (
	// PlanTypeGlobal covers every path
	PlanTypeGlobal PlanType = "global"
	// PlanTypeCategory covers the paths of one category
	PlanTypeCategory PlanType = "category"
	// PlanTypePath covers one path, or a list of paths
	PlanTypePath PlanType = "path"
)

// NormalizePlanType folds case and trims whitespace. Stored plans use mixed case
// ("Global", "PATH"), so every read goes through here. A Caser is not safe for
// concurrent use, so each call gets its own.
func NormalizePlanType(s string) PlanType {
	return PlanType(cases.Fold().String(strings.TrimSpace(s)))
}

// NewPlanType creates a normalized PlanType and rejects unknown values
func NewPlanType(s string) (PlanType, error) {
	pt := NormalizePlanType(s)
	if !pt.IsValid() {
		return "", fmt.Errorf("invalid plan type: %s, must be 'global', 'category', or 'path'", s)
	}
	return pt, nil
}

// IsValid checks if the plan type is valid
func (pt PlanType) IsValid() bool {
	return pt == PlanTypeGlobal || pt == PlanTypeCategory || pt == PlanTypePath
}

func (pt PlanType) String() string {
	return string(pt)
}
