package subscription

import (
	"context"
	"time"
)

type SubscriptionRepository interface {
	Create(ctx context.Context, s *Subscription) error
	Update(ctx context.Context, s *Subscription) error

	// FindActiveByUser returns the single authoritative active subscription of a user,
	// preferring the one whose period ends last. (nil, nil) when there is none.
	FindActiveByUser(ctx context.Context, userID uint) (*Subscription, error)

	// ExpireOverdue moves active subscriptions whose period ended before now to expired
	// and returns the affected user IDs.
	ExpireOverdue(ctx context.Context, now time.Time) ([]uint, error)
}

type PlanRepository interface {
	Create(ctx context.Context, p *Plan) error

	// GetByID returns (nil, nil) when the plan does not exist.
	GetByID(ctx context.Context, id uint) (*Plan, error)

	ListActive(ctx context.Context) ([]*Plan, error)
}
