// Package subscription models time-bounded plan purchases and the plans they point at.
package subscription

import (
	"fmt"
	"time"

	vo "genesiscode/internal/domain/subscription/valueobjects"
)

// Subscription ties a user to a plan for a billing period.
type Subscription struct {
	id                    uint
	userID                uint
	planID                uint
	status                vo.SubscriptionStatus
	currentPeriodEnd      time.Time
	externalTransactionID string
	createdAt             time.Time
	updatedAt             time.Time
}

func NewSubscription(userID, planID uint, periodEnd time.Time, externalTransactionID string) (*Subscription, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if planID == 0 {
		return nil, fmt.Errorf("plan ID is required")
	}
	if periodEnd.IsZero() {
		return nil, fmt.Errorf("current period end is required")
	}
	now := time.Now().UTC()
	return &Subscription{
		userID:                userID,
		planID:                planID,
		status:                vo.StatusPending,
		currentPeriodEnd:      periodEnd.UTC(),
		externalTransactionID: externalTransactionID,
		createdAt:             now,
		updatedAt:             now,
	}, nil
}

func ReconstructSubscription(id, userID, planID uint, status vo.SubscriptionStatus, periodEnd time.Time,
	externalTransactionID string, createdAt, updatedAt time.Time) (*Subscription, error) {
	if id == 0 {
		return nil, fmt.Errorf("subscription ID cannot be zero")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid subscription status: %s", status)
	}
	return &Subscription{
		id:                    id,
		userID:                userID,
		planID:                planID,
		status:                status,
		currentPeriodEnd:      periodEnd,
		externalTransactionID: externalTransactionID,
		createdAt:             createdAt,
		updatedAt:             updatedAt,
	}, nil
}

func (s *Subscription) ID() uint                      { return s.id }
func (s *Subscription) UserID() uint                  { return s.userID }
func (s *Subscription) PlanID() uint                  { return s.planID }
func (s *Subscription) Status() vo.SubscriptionStatus { return s.status }
func (s *Subscription) CurrentPeriodEnd() time.Time   { return s.currentPeriodEnd }
func (s *Subscription) ExternalTransactionID() string { return s.externalTransactionID }
func (s *Subscription) CreatedAt() time.Time          { return s.createdAt }
func (s *Subscription) UpdatedAt() time.Time          { return s.updatedAt }

// SetID sets the subscription ID (only for persistence layer use)
func (s *Subscription) SetID(id uint) error {
	if s.id != 0 {
		return fmt.Errorf("subscription ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("subscription ID cannot be zero")
	}
	s.id = id
	return nil
}

// GrantsAccessAt reports whether the subscription is a valid access source:
// status active and the period still running.
func (s *Subscription) GrantsAccessAt(now time.Time) bool {
	return s.status == vo.StatusActive && s.currentPeriodEnd.After(now)
}

// Activate marks a paid subscription active
func (s *Subscription) Activate() error {
	switch s.status {
	case vo.StatusActive:
		return nil
	case vo.StatusCanceled:
		return fmt.Errorf("cannot activate canceled subscription")
	}
	s.status = vo.StatusActive
	s.updatedAt = time.Now().UTC()
	return nil
}

// Expire marks the subscription expired; canceled subscriptions stay canceled.
func (s *Subscription) Expire() {
	if s.status == vo.StatusCanceled || s.status == vo.StatusExpired {
		return
	}
	s.status = vo.StatusExpired
	s.updatedAt = time.Now().UTC()
}
