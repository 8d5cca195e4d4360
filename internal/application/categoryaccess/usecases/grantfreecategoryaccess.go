package usecases

import (
	"context"

	"genesiscode/internal/application/categoryaccess/dto"
	"genesiscode/internal/domain/access"
	"genesiscode/internal/domain/catalog"
	"genesiscode/internal/domain/categoryaccess"
	"genesiscode/internal/shared/logger"
	"genesiscode/internal/shared/utils"
)

type GrantFreeCategoryAccessUseCase struct {
	activator   *activator
	invalidator access.CacheInvalidator
	logger      logger.Interface
}

func NewGrantFreeCategoryAccessUseCase(
	categoryRepo categoryaccess.Repository,
	catalogRepo catalog.Repository,
	invalidator access.CacheInvalidator,
	logger logger.Interface,
) *GrantFreeCategoryAccessUseCase {
	return &GrantFreeCategoryAccessUseCase{
		activator:   &activator{categoryRepo: categoryRepo, catalogRepo: catalogRepo, logger: logger},
		invalidator: invalidator,
		logger:      logger,
	}
}

func (uc *GrantFreeCategoryAccessUseCase) Execute(ctx context.Context, cmd dto.GrantFreeCategoryAccessCommand) (*dto.CategoryAccessResponse, error) {
	uc.logger.Infow("executing grant free category access use case", "user_id", cmd.UserID, "category_id", cmd.CategoryID)

	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, err
	}

	result, err := uc.activator.activate(ctx, cmd.UserID, cmd.CategoryID, categoryaccess.AccessTypeFree, cmd.ExpiresAt, "")
	if err != nil {
		return nil, err
	}

	if err := uc.invalidator.InvalidateUser(ctx, cmd.UserID); err != nil {
		uc.logger.Warnw("category access granted but cached decisions were not invalidated", "user_id", cmd.UserID, "error", err)
	}

	uc.logger.Infow("free category access granted",
		"user_id", cmd.UserID,
		"category_id", cmd.CategoryID,
		"access_type", result.record.AccessType(),
		"paths", len(result.paths),
	)
	return dto.ToCategoryAccessResponse(result.record, result.firstLevels), nil
}
