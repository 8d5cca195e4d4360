package dto

import (
	"time"

	"genesiscode/internal/domain/categoryaccess"
)

type UnlockLevelCommand struct {
	UserID     uint `json:"user_id" validate:"required"`
	CategoryID uint `json:"category_id" validate:"required"`
	PathID     uint `json:"path_id" validate:"required"`
	LevelID    uint `json:"level_id" validate:"required"`
}

type UnlockLevelResult struct {
	// Unlocked is false when the level was already unlocked or is the free first level.
	Unlocked bool `json:"unlocked"`
}

type GrantFreeCategoryAccessCommand struct {
	UserID     uint       `json:"user_id" validate:"required"`
	CategoryID uint       `json:"category_id" validate:"required"`
	ExpiresAt  *time.Time `json:"expires_at"`
}

// CategoryPaymentCommand is sent by the payment webhook after the gateway confirmed a charge.
type CategoryPaymentCommand struct {
	UserID           uint       `json:"user_id" validate:"required"`
	CategoryID       uint       `json:"category_id" validate:"required"`
	PaymentReference string     `json:"payment_reference" validate:"required,max=128"`
	ExpiresAt        *time.Time `json:"expires_at"`
}

type PathFirstLevel struct {
	PathID  uint `json:"path_id"`
	LevelID uint `json:"level_id"`
}

type UnlockedLevel struct {
	PathID     uint      `json:"path_id"`
	LevelID    uint      `json:"level_id"`
	UnlockedAt time.Time `json:"unlocked_at"`
}

type CategoryAccessResponse struct {
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

func ToCategoryAccessResponse(ca *categoryaccess.CategoryAccess, firstLevels []PathFirstLevel) *CategoryAccessResponse {
	unlocked := make([]UnlockedLevel, 0, len(ca.UnlockedLevels()))
	for _, u := range ca.UnlockedLevels() {
		unlocked = append(unlocked, UnlockedLevel{PathID: u.PathID, LevelID: u.LevelID, UnlockedAt: u.UnlockedAt})
	}
	if firstLevels == nil {
		firstLevels = []PathFirstLevel{}
	}
	return &CategoryAccessResponse{
		ID:               ca.ID(),
		UserID:           ca.UserID(),
		CategoryID:       ca.CategoryID(),
		AccessType:       ca.AccessType().String(),
		Status:           string(ca.Status()),
		ExpiresAt:        ca.ExpiresAt(),
		PaymentReference: ca.PaymentReference(),
		UnlockedLevels:   unlocked,
		FirstLevels:      firstLevels,
	}
}
