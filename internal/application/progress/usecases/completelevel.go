// Package usecases holds the progress-completion hook that feeds sequential unlocking.
package usecases

import (
	"context"
	"fmt"
	"time"

	"genesiscode/internal/domain/access"
	"genesiscode/internal/domain/catalog"
	"genesiscode/internal/domain/progress"
	"genesiscode/internal/shared/errors"
	"genesiscode/internal/shared/logger"
	"genesiscode/internal/shared/utils"
)

type CompleteLevelCommand struct {
	UserID  uint `json:"user_id" validate:"required"`
	LevelID uint `json:"level_id" validate:"required"`
}

type CompleteLevelResult struct {
	LevelID uint `json:"level_id"`
	PathID  uint `json:"path_id"`
	// NewlyCompleted is false when the level had already been completed.
	NewlyCompleted bool `json:"newly_completed"`
}

// AccessEvaluator decides whether the user may work on the level being completed.
type AccessEvaluator interface {
	EvaluateAccess(ctx context.Context, q access.Query) access.Decision
}

// CompleteLevelUseCase marks a level completed for a user. Called after the quiz or
// exercise workflow has verified the completion. Only a level the user can currently
// interact with may be completed, so sequential gating cannot be skipped.
type CompleteLevelUseCase struct {
	progressRepo progress.Repository
	catalogRepo  catalog.Repository
	evaluator    AccessEvaluator
	invalidator  access.CacheInvalidator
	logger       logger.Interface
}

func NewCompleteLevelUseCase(
	progressRepo progress.Repository,
	catalogRepo catalog.Repository,
	evaluator AccessEvaluator,
	invalidator access.CacheInvalidator,
	logger logger.Interface,
) *CompleteLevelUseCase {
	return &CompleteLevelUseCase{
		progressRepo: progressRepo,
		catalogRepo:  catalogRepo,
		evaluator:    evaluator,
		invalidator:  invalidator,
		logger:       logger,
	}
}

func (uc *CompleteLevelUseCase) Execute(ctx context.Context, cmd CompleteLevelCommand) (*CompleteLevelResult, error) {
	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, err
	}

	level, err := uc.catalogRepo.GetLevel(ctx, cmd.LevelID)
	if err != nil {
		return nil, fmt.Errorf("failed to get level: %w", err)
	}
	if level == nil {
		return nil, errors.NewNotFoundError("level not found")
	}

	decision := uc.evaluator.EvaluateAccess(ctx, access.Query{UserID: cmd.UserID, PathID: level.PathID(), LevelID: cmd.LevelID})
	if decision.Reason == access.ReasonError {
		return nil, fmt.Errorf("failed to evaluate access to level %d", cmd.LevelID)
	}
	if !decision.HasAccess || !decision.CanInteract {
		uc.logger.Warnw("refusing completion of inaccessible level",
			"user_id", cmd.UserID,
			"level_id", cmd.LevelID,
			"reason", decision.Reason,
		)
		reason := decision.Reason.String()
		if reason == "" {
			reason = "view_only"
		}
		return nil, errors.NewForbiddenError("level is not accessible", reason)
	}

	changed, err := uc.progressRepo.MarkCompleted(ctx, cmd.UserID, cmd.LevelID, time.Now().UTC())
	if err != nil {
		uc.logger.Errorw("failed to mark level completed", "user_id", cmd.UserID, "level_id", cmd.LevelID, "error", err)
		return nil, fmt.Errorf("failed to mark level completed: %w", err)
	}

	if changed {
		if err := uc.invalidator.InvalidateUser(ctx, cmd.UserID); err != nil {
			uc.logger.Warnw("level completed but cached decisions were not invalidated", "user_id", cmd.UserID, "error", err)
		}
		uc.logger.Infow("level completed", "user_id", cmd.UserID, "level_id", cmd.LevelID, "path_id", level.PathID())
	}

	return &CompleteLevelResult{
		LevelID:        cmd.LevelID,
		PathID:         level.PathID(),
		NewlyCompleted: changed,
	}, nil
}
