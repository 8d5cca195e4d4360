package subscription

import (
	"fmt"
	"strings"
	"time"

	vo "genesiscode/internal/domain/subscription/valueobjects"
)

// Plan is a purchasable offer; its type and target decide which paths it covers.
type Plan struct {
	id           uint
	name         string
	planType     vo.PlanType
	targetID     uint
	allowedPaths []uint
	priceCents   int64
	currency     string
	isActive     bool
	createdAt    time.Time
}

func NewPlan(name string, planType vo.PlanType, targetID uint, allowedPaths []uint, priceCents int64, currency string) (*Plan, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("plan name is required")
	}
	planType = vo.NormalizePlanType(string(planType))
	if !planType.IsValid() {
		return nil, fmt.Errorf("invalid plan type: %s", planType)
	}
	switch planType {
	case vo.PlanTypeCategory:
		if targetID == 0 {
			return nil, fmt.Errorf("category plan requires a target category")
		}
	case vo.PlanTypePath:
		if targetID == 0 && len(allowedPaths) == 0 {
			return nil, fmt.Errorf("path plan requires a target path or allowed paths")
		}
	}
	if priceCents < 0 {
		return nil, fmt.Errorf("price cannot be negative")
	}
	if currency == "" {
		currency = "USD"
	}
	return &Plan{
		name:         name,
		planType:     planType,
		targetID:     targetID,
		allowedPaths: append([]uint(nil), allowedPaths...),
		priceCents:   priceCents,
		currency:     strings.ToUpper(currency),
		isActive:     true,
		createdAt:    time.Now().UTC(),
	}, nil
}

// ReconstructPlan rebuilds a plan from storage. Unknown types are kept as-is so the
// caller can report them; IsValid tells the two apart.
func ReconstructPlan(id uint, name, planType string, targetID uint, allowedPaths []uint,
	priceCents int64, currency string, isActive bool, createdAt time.Time) (*Plan, error) {
	if id == 0 {
		return nil, fmt.Errorf("plan ID cannot be zero")
	}
	return &Plan{
		id:           id,
		name:         name,
		planType:     vo.NormalizePlanType(planType),
		targetID:     targetID,
		allowedPaths: allowedPaths,
		priceCents:   priceCents,
		currency:     currency,
		isActive:     isActive,
		createdAt:    createdAt,
	}, nil
}

func (p *Plan) ID() uint              { return p.id }
func (p *Plan) Name() string          { return p.name }
func (p *Plan) Type() vo.PlanType     { return p.planType }
func (p *Plan) TargetID() uint        { return p.targetID }
func (p *Plan) PriceCents() int64     { return p.priceCents }
func (p *Plan) Currency() string      { return p.currency }
func (p *Plan) IsActive() bool        { return p.isActive }
func (p *Plan) CreatedAt() time.Time  { return p.createdAt }
func (p *Plan) AllowedPaths() []uint  { return append([]uint(nil), p.allowedPaths...) }
func (p *Plan) IsValid() bool         { return p.planType.IsValid() }

// SetID sets the plan ID (only for persistence layer use)
func (p *Plan) SetID(id uint) error {
	if p.id != 0 {
		return fmt.Errorf("plan ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("plan ID cannot be zero")
	}
	p.id = id
	return nil
}

// Deactivate removes the plan from sale. Existing subscriptions keep their coverage.
func (p *Plan) Deactivate() {
	p.isActive = false
}

// Covers reports whether the plan grants the given path, and through which rule.
func (p *Plan) Covers(pathID, pathCategoryID uint) (vo.CoverageScope, bool) {
	switch p.planType {
	case vo.PlanTypeGlobal:
		return vo.ScopeGlobal, true
	case vo.PlanTypeCategory:
		if p.targetID != 0 && p.targetID == pathCategoryID {
			return vo.ScopeCategory, true
		}
	case vo.PlanTypePath:
		if p.targetID != 0 && p.targetID == pathID {
			return vo.ScopePath, true
		}
		for _, id := range p.allowedPaths {
			if id == pathID {
				return vo.ScopePathList, true
			}
		}
	}
	return "", false
}
