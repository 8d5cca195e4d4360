package models

import (
	"time"

	"gorm.io/datatypes"

	"genesiscode/internal/shared/constants"
)

// PlanModel stores subscription plans. AllowedPaths is a JSON array of path IDs.
type PlanModel struct {
	ID           uint   `gorm:"primarykey"`
	Name         string `gorm:"not null;size:100"`
	Type         string `gorm:"not null;size:20"`
	TargetID     uint   `gorm:"not null;default:0"`
	AllowedPaths datatypes.JSON
	PriceCents   int64  `gorm:"not null;default:0"`
	Currency     string `gorm:"not null;size:3;default:USD"`
	IsActive     bool   `gorm:"not null;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (PlanModel) TableName() string {
	return constants.TablePlans
}

type SubscriptionModel struct {
	ID                    uint      `gorm:"primarykey"`
	UserID                uint      `gorm:"not null;index:idx_subscription_user_status,priority:1"`
	PlanID                uint      `gorm:"not null;index"`
	Status                string    `gorm:"not null;size:20;index:idx_subscription_user_status,priority:2"`
	CurrentPeriodEnd      time.Time `gorm:"not null;index"`
	ExternalTransactionID string    `gorm:"size:128"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func (SubscriptionModel) TableName() string {
	return constants.TableSubscriptions
}
