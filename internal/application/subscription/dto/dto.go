package dto

import "genesiscode/internal/domain/subscription"

// PlanDTO is a plan offered to a user who was denied access.
type PlanDTO struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	TargetID     uint   `json:"target_id,omitempty"`
	AllowedPaths []uint `json:"allowed_paths,omitempty"`
	PriceCents   int64  `json:"price_cents"`
	Currency     string `json:"currency"`
	Scope        string `json:"scope"`
}

func ToPlanDTO(p *subscription.Plan, scope string) PlanDTO {
	return PlanDTO{
		ID:           p.ID(),
		Name:         p.Name(),
		Type:         p.Type().String(),
		TargetID:     p.TargetID(),
		AllowedPaths: p.AllowedPaths(),
		PriceCents:   p.PriceCents(),
		Currency:     p.Currency(),
		Scope:        scope,
	}
}
