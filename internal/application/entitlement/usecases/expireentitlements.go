// Package usecases contains the entitlement expiry sweep run by the worker.
package usecases

import (
	"context"
	"fmt"
	"time"

	"genesiscode/internal/domain/access"
	"genesiscode/internal/domain/categoryaccess"
	"genesiscode/internal/domain/courseaccess"
	"genesiscode/internal/domain/subscription"
	"genesiscode/internal/shared/logger"
	"genesiscode/internal/shared/utils/setutil"
)

// ExpiryResult counts what one sweep switched off.
type ExpiryResult struct {
	GrantsDeactivated         int
	CategoryAccessDeactivated int
	SubscriptionsExpired      int
	UsersInvalidated          int
}

// ExpireEntitlementsUseCase persists expirations that the engine already honours at
// read time, so listings and reports agree with access decisions.
type ExpireEntitlementsUseCase struct {
	grantRepo    courseaccess.Repository
	categoryRepo categoryaccess.Repository
	subRepo      subscription.SubscriptionRepository
	invalidator  access.CacheInvalidator
	logger       logger.Interface
}

func NewExpireEntitlementsUseCase(
	grantRepo courseaccess.Repository,
	categoryRepo categoryaccess.Repository,
	subRepo subscription.SubscriptionRepository,
	invalidator access.CacheInvalidator,
	logger logger.Interface,
) *ExpireEntitlementsUseCase {
	return &ExpireEntitlementsUseCase{
		grantRepo:    grantRepo,
		categoryRepo: categoryRepo,
		subRepo:      subRepo,
		invalidator:  invalidator,
		logger:       logger,
	}
}

func (uc *ExpireEntitlementsUseCase) Execute(ctx context.Context, now time.Time) (*ExpiryResult, error) {
	result := &ExpiryResult{}
	affected := setutil.NewUintSet()

	grantUsers, err := uc.grantRepo.DeactivateExpired(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to deactivate expired grants: %w", err)
	}
	result.GrantsDeactivated = len(grantUsers)

	categoryUsers, err := uc.categoryRepo.DeactivateExpired(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to deactivate expired category access: %w", err)
	}
	result.CategoryAccessDeactivated = len(categoryUsers)

	subUsers, err := uc.subRepo.ExpireOverdue(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to expire subscriptions: %w", err)
	}
	result.SubscriptionsExpired = len(subUsers)

	affected.AddAll(grantUsers)
	affected.AddAll(categoryUsers)
	affected.AddAll(subUsers)

	for _, userID := range affected.Sorted() {
		if err := uc.invalidator.InvalidateUser(ctx, userID); err != nil {
			uc.logger.Warnw("failed to invalidate cached decisions after expiry", "user_id", userID, "error", err)
			continue
		}
		result.UsersInvalidated++
	}

	if affected.Len() > 0 {
		uc.logger.Infow("expired entitlements",
			"grants", result.GrantsDeactivated,
			"category_access", result.CategoryAccessDeactivated,
			"subscriptions", result.SubscriptionsExpired,
			"users", affected.Len(),
		)
	}
	return result, nil
}
