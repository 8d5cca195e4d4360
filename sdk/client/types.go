// Package client is a Go SDK for the GenesisCode access API.
package client

import (
	"encoding/json"
	"time"
)

// Decision mirrors the engine's answer for one query.
type Decision struct {
	HasAccess   bool   `json:"has_access"`
	AccessType  string `json:"access_type,omitempty"`
	CanView     bool   `json:"can_view"`
	CanInteract bool   `json:"can_interact"`
	CanDownload bool   `json:"can_download"`
	Source      string `json:"source,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// Plan is an active plan that would cover a denied path.
type Plan struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	TargetID     uint   `json:"target_id,omitempty"`
	AllowedPaths []uint `json:"allowed_paths,omitempty"`
	PriceCents   int64  `json:"price_cents"`
	Currency     string `json:"currency"`
	Scope        string `json:"scope"`
}

// AccessResult is the outcome of CheckAccess. Plans is only set on purchasable denials.
type AccessResult struct {
	Decision Decision
	Plans    []Plan
}

type Level struct {
	ID    uint   `json:"id"`
	Order int    `json:"order"`
	Title string `json:"title"`
	Free  bool   `json:"free"`
}

type PathOverview struct {
	ID              uint    `json:"id"`
	CategoryID      uint    `json:"category_id"`
	Title           string  `json:"title"`
	DescriptionHTML string  `json:"description_html"`
	Levels          []Level `json:"levels"`
}

type LevelCompletion struct {
	LevelID        uint `json:"level_id"`
	PathID         uint `json:"path_id"`
	NewlyCompleted bool `json:"newly_completed"`
}

// GrantRequest creates or replaces an explicit grant. Nil capability flags take the
// defaults of the access type.
type GrantRequest struct {
	UserID      uint           `json:"user_id"`
	PathID      uint           `json:"path_id"`
	LevelID     uint           `json:"level_id,omitempty"`
	ExerciseID  uint           `json:"exercise_id,omitempty"`
	AccessType  string         `json:"access_type"`
	Source      string         `json:"source,omitempty"`
	CanView     *bool          `json:"can_view,omitempty"`
	CanInteract *bool          `json:"can_interact,omitempty"`
	CanDownload *bool          `json:"can_download,omitempty"`
	ExpiresAt   *time.Time     `json:"expires_at,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

type Grant struct {
	ID          uint       `json:"id"`
	UserID      uint       `json:"user_id"`
	PathID      uint       `json:"path_id"`
	LevelID     uint       `json:"level_id,omitempty"`
	ExerciseID  uint       `json:"exercise_id,omitempty"`
	AccessType  string     `json:"access_type"`
	Source      string     `json:"source"`
	CanView     bool       `json:"can_view"`
	CanInteract bool       `json:"can_interact"`
	CanDownload bool       `json:"can_download"`
	IsActive    bool       `json:"is_active"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

type UnlockedLevel struct {
	PathID     uint      `json:"path_id"`
	LevelID    uint      `json:"level_id"`
	UnlockedAt time.Time `json:"unlocked_at"`
}

type PathFirstLevel struct {
	PathID  uint `json:"path_id"`
	LevelID uint `json:"level_id"`
}

type CategoryAccess struct {
	ID               uint             `json:"id"`
	UserID           uint             `json:"user_id"`
	CategoryID       uint             `json:"category_id"`
	AccessType       string           `json:"access_type"`
	Status           string           `json:"status"`
	ExpiresAt        *time.Time       `json:"expires_at,omitempty"`
	PaymentReference string           `json:"payment_reference,omitempty"`
	UnlockedLevels   []UnlockedLevel  `json:"unlocked_levels"`
	FirstLevels      []PathFirstLevel `json:"first_levels"`
}

type CategoryPayment struct {
	UserID           uint       `json:"user_id"`
	CategoryID       uint       `json:"category_id"`
	PaymentReference string     `json:"payment_reference"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
}

type UnlockResult struct {
	Unlocked bool `json:"unlocked"`
}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *apiErrorDetail `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
}

type apiErrorDetail struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}
