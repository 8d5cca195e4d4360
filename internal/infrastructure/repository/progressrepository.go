package repository

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"genesiscode/internal/domain/progress"
	"genesiscode/internal/infrastructure/persistence/models"
	"genesiscode/internal/shared/db"
	"genesiscode/internal/shared/logger"
)

// ProgressRepositoryImpl implements progress.Repository
type ProgressRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewProgressRepository(db *gorm.DB, logger logger.Interface) progress.Repository {
	return &ProgressRepositoryImpl{db: db, logger: logger}
}

func (r *ProgressRepositoryImpl) IsCompleted(ctx context.Context, userID, levelID uint) (bool, error) {
	var count int64
	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.UserLevelProgressModel{}).
		Where("user_id = ? AND level_id = ? AND completed = ?", userID, levelID, true).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check level progress: %w", err)
	}
	return count > 0, nil
}

// MarkCompleted inserts a completed row, or flips an existing incomplete one. It
// reports whether anything changed.
func (r *ProgressRepositoryImpl) MarkCompleted(ctx context.Context, userID, levelID uint, at time.Time) (bool, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	model := &models.UserLevelProgressModel{
		UserID:      userID,
		LevelID:     levelID,
		Completed:   true,
		CompletedAt: &at,
		CreatedAt:   at,
		UpdatedAt:   at,
	}
	result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(model)
	if result.Error != nil {
		return false, fmt.Errorf("failed to record level progress: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return true, nil
	}

	result = tx.Model(&models.UserLevelProgressModel{}).
		Where("user_id = ? AND level_id = ? AND completed = ?", userID, levelID, false).
		Updates(map[string]any{"completed": true, "completed_at": at, "updated_at": at})
	if result.Error != nil {
		return false, fmt.Errorf("failed to update level progress: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *ProgressRepositoryImpl) GetByUserAndLevel(ctx context.Context, userID, levelID uint) (*progress.UserLevelProgress, error) {
	var model models.UserLevelProgressModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND level_id = ?", userID, levelID).
		First(&model).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get level progress: %w", err)
	}
	return progress.ReconstructUserLevelProgress(model.ID, model.UserID, model.LevelID, model.Completed, model.CompletedAt, model.UpdatedAt)
}
