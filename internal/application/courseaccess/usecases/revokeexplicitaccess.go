package usecases

import (
	"context"
	"fmt"

	"genesiscode/internal/domain/access"
	"genesiscode/internal/domain/courseaccess"
	"genesiscode/internal/shared/errors"
	"genesiscode/internal/shared/logger"
)

// RevokeExplicitAccessUseCase deactivates a grant. Revoking twice is not an error.
type RevokeExplicitAccessUseCase struct {
	grantRepo   courseaccess.Repository
	invalidator access.CacheInvalidator
	logger      logger.Interface
}

func NewRevokeExplicitAccessUseCase(
	grantRepo courseaccess.Repository,
	invalidator access.CacheInvalidator,
	logger logger.Interface,
) *RevokeExplicitAccessUseCase {
	return &RevokeExplicitAccessUseCase{
		grantRepo:   grantRepo,
		invalidator: invalidator,
		logger:      logger,
	}
}

func (uc *RevokeExplicitAccessUseCase) Execute(ctx context.Context, grantID uint) error {
	if grantID == 0 {
		return errors.NewValidationError("grant ID is required")
	}

	grant, err := uc.grantRepo.GetByID(ctx, grantID)
	if err != nil {
		uc.logger.Errorw("failed to get grant", "grant_id", grantID, "error", err)
		return fmt.Errorf("failed to get grant: %w", err)
	}
	if grant == nil {
		return errors.NewNotFoundError("course access grant not found")
	}
	if !grant.IsActive() {
		return nil
	}

	grant.Deactivate()
	if err := uc.grantRepo.Update(ctx, grant); err != nil {
		uc.logger.Errorw("failed to deactivate grant", "grant_id", grantID, "error", err)
		return fmt.Errorf("failed to deactivate grant: %w", err)
	}

	if err := uc.invalidator.InvalidateUser(ctx, grant.UserID()); err != nil {
		uc.logger.Warnw("grant revoked but cached decisions were not invalidated",
			"user_id", grant.UserID(), "error", err)
	}

	uc.logger.Infow("explicit access revoked", "grant_id", grantID, "user_id", grant.UserID())
	return nil
}
