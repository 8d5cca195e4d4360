package dto

import (
	"time"

	"genesiscode/internal/domain/courseaccess"
)

// GrantExplicitAccessCommand creates or updates the grant for one scope. Capability
// flags left nil fall back to the access type's defaults.
type GrantExplicitAccessCommand struct {
	UserID      uint           `json:"user_id" validate:"required"`
	PathID      uint           `json:"path_id" validate:"required"`
	LevelID     uint           `json:"level_id"`
	ExerciseID  uint           `json:"exercise_id"`
	AccessType  string         `json:"access_type" validate:"required,oneof=free preview subscription unlocked"`
	Source      string         `json:"source" validate:"omitempty,oneof=default subscription purchase admin"`
	CanView     *bool          `json:"can_view"`
	CanInteract *bool          `json:"can_interact"`
	CanDownload *bool          `json:"can_download"`
	ExpiresAt   *time.Time     `json:"expires_at"`
	Metadata    map[string]any `json:"metadata"`
}

type GrantResponse struct {
	ID          uint           `json:"id"`
	UserID      uint           `json:"user_id"`
	PathID      uint           `json:"path_id"`
	LevelID     uint           `json:"level_id,omitempty"`
	ExerciseID  uint           `json:"exercise_id,omitempty"`
	AccessType  string         `json:"access_type"`
	Source      string         `json:"source"`
	CanView     bool           `json:"can_view"`
	CanInteract bool           `json:"can_interact"`
	CanDownload bool           `json:"can_download"`
	IsActive    bool           `json:"is_active"`
	ExpiresAt   *time.Time     `json:"expires_at,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func ToGrantResponse(g *courseaccess.Grant) *GrantResponse {
	scope := g.Scope()
	caps := g.Capabilities()
	return &GrantResponse{
		ID:          g.ID(),
		UserID:      scope.UserID,
		PathID:      scope.PathID,
		LevelID:     scope.LevelID,
		ExerciseID:  scope.ExerciseID,
		AccessType:  g.AccessType().String(),
		Source:      g.Source().String(),
		CanView:     caps.CanView,
		CanInteract: caps.CanInteract,
		CanDownload: caps.CanDownload,
		IsActive:    g.IsActive(),
		ExpiresAt:   g.ExpiresAt(),
		Metadata:    g.Metadata(),
		CreatedAt:   g.CreatedAt(),
		UpdatedAt:   g.UpdatedAt(),
	}
}
