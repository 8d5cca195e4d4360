package usecases

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"genesiscode/internal/application/categoryaccess/dto"
	"genesiscode/internal/domain/access"
	"genesiscode/internal/domain/catalog"
	"genesiscode/internal/domain/categoryaccess"
	"genesiscode/internal/shared/errors"
	"genesiscode/internal/shared/logger"
	"genesiscode/internal/shared/utils"
)

// UnlockLevelUseCase appends a (path, level) pair to a user's category unlock set.
type UnlockLevelUseCase struct {
	categoryRepo categoryaccess.Repository
	catalogRepo  catalog.Repository
	invalidator  access.CacheInvalidator
	logger       logger.Interface
}

func NewUnlockLevelUseCase(
	categoryRepo categoryaccess.Repository,
	catalogRepo catalog.Repository,
	invalidator access.CacheInvalidator,
	logger logger.Interface,
) *UnlockLevelUseCase {
	return &UnlockLevelUseCase{
		categoryRepo: categoryRepo,
		catalogRepo:  catalogRepo,
		invalidator:  invalidator,
		logger:       logger,
	}
}

func (uc *UnlockLevelUseCase) Execute(ctx context.Context, cmd dto.UnlockLevelCommand) (*dto.UnlockLevelResult, error) {
	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, err
	}

	path, err := uc.catalogRepo.GetPath(ctx, cmd.PathID)
	if err != nil {
		return nil, fmt.Errorf("failed to get path: %w", err)
	}
	if path == nil {
		return nil, errors.NewNotFoundError("path not found")
	}
	if path.CategoryID() != cmd.CategoryID {
		return nil, errors.NewValidationError(fmt.Sprintf("path %d does not belong to category %d", cmd.PathID, cmd.CategoryID))
	}
	if _, ok := path.Level(cmd.LevelID); !ok {
		return nil, errors.NewValidationError(fmt.Sprintf("level %d does not belong to path %d", cmd.LevelID, cmd.PathID))
	}

	// The first level is implicitly open once category access is active; it never
	// gets an unlock entry.
	if catalog.IsFirstLevelOf(path, cmd.LevelID) {
		uc.logger.Debugw("skipping unlock of first level", "path_id", cmd.PathID, "level_id", cmd.LevelID)
		return &dto.UnlockLevelResult{Unlocked: false}, nil
	}

	inserted, err := uc.categoryRepo.UnlockLevel(ctx, cmd.UserID, cmd.CategoryID, cmd.PathID, cmd.LevelID, time.Now().UTC())
	if err != nil {
		if stderrors.Is(err, categoryaccess.ErrCategoryAccessInactive) {
			return nil, errors.NewForbiddenError("no active category access", fmt.Sprintf("category %d", cmd.CategoryID))
		}
		uc.logger.Errorw("failed to unlock level",
			"user_id", cmd.UserID,
			"category_id", cmd.CategoryID,
			"path_id", cmd.PathID,
			"level_id", cmd.LevelID,
			"error", err,
		)
		return nil, fmt.Errorf("failed to unlock level: %w", err)
	}

	if inserted {
		if err := uc.invalidator.InvalidateUser(ctx, cmd.UserID); err != nil {
			uc.logger.Warnw("level unlocked but cached decisions were not invalidated", "user_id", cmd.UserID, "error", err)
		}
		uc.logger.Infow("level unlocked",
			"user_id", cmd.UserID,
			"category_id", cmd.CategoryID,
			"path_id", cmd.PathID,
			"level_id", cmd.LevelID,
		)
	}
	return &dto.UnlockLevelResult{Unlocked: inserted}, nil
}
