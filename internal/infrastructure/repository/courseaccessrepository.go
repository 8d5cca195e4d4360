package repository

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"genesiscode/internal/domain/courseaccess"
	"genesiscode/internal/infrastructure/persistence/mappers"
	"genesiscode/internal/infrastructure/persistence/models"
	"genesiscode/internal/shared/db"
	"genesiscode/internal/shared/logger"
)

// CourseAccessRepositoryImpl implements courseaccess.Repository
type CourseAccessRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.GrantMapper
	logger logger.Interface
}

func NewCourseAccessRepository(db *gorm.DB, logger logger.Interface) courseaccess.Repository {
	return &CourseAccessRepositoryImpl{
		db:     db,
		mapper: mappers.NewGrantMapper(),
		logger: logger,
	}
}

// Create inserts a grant. A second grant for the same scope fails on the scope unique
// index; callers detect it with errors.IsDuplicateError.
func (r *CourseAccessRepositoryImpl) Create(ctx context.Context, g *courseaccess.Grant) error {
	model, err := r.mapper.ToModel(g)
	if err != nil {
		return err
	}
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create course access: %w", err)
	}
	return g.SetID(model.ID)
}

func (r *CourseAccessRepositoryImpl) Update(ctx context.Context, g *courseaccess.Grant) error {
	model, err := r.mapper.ToModel(g)
	if err != nil {
		return err
	}
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.CourseAccessModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"access_type":  model.AccessType,
			"source":       model.Source,
			"can_view":     model.CanView,
			"can_interact": model.CanInteract,
			"can_download": model.CanDownload,
			"is_active":    model.IsActive,
			"expires_at":   model.ExpiresAt,
			"metadata":     model.Metadata,
			"updated_at":   model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update course access", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update course access: %w", result.Error)
	}
	// RowsAffected may be 0 when the stored values are identical.
	return nil
}

func (r *CourseAccessRepositoryImpl) GetByID(ctx context.Context, id uint) (*courseaccess.Grant, error) {
	var model models.CourseAccessModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get course access: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *CourseAccessRepositoryImpl) GetByScope(ctx context.Context, scope courseaccess.Scope) (*courseaccess.Grant, error) {
	var model models.CourseAccessModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND path_id = ? AND level_id = ? AND exercise_id = ?",
			scope.UserID, scope.PathID, scope.LevelID, scope.ExerciseID).
		First(&model).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get course access by scope: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

// FindMostSpecific matches the path-wide grant, the level grant and the exercise grant
// of the query in one statement. Exercise rows sort before level rows before path rows.
// LevelID and exerciseID are independent: either may be zero.
func (r *CourseAccessRepositoryImpl) FindMostSpecific(ctx context.Context, userID, pathID, levelID, exerciseID uint, now time.Time) (*courseaccess.Grant, error) {
	tx := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND path_id = ? AND is_active = ?", userID, pathID, true).
		Where("(expires_at IS NULL OR expires_at > ?)", now)

	scopes := r.db.Where("level_id = 0 AND exercise_id = 0")
	if levelID != 0 {
		scopes = scopes.Or("level_id = ? AND exercise_id = 0", levelID)
	}
	if exerciseID != 0 {
		// An exercise grant without a level applies wherever the exercise is queried.
		scopes = scopes.Or("level_id IN ? AND exercise_id = ?", []uint{0, levelID}, exerciseID)
	}

	var model models.CourseAccessModel
	err := tx.Where(scopes).
		Order("exercise_id DESC, level_id DESC, id ASC").
		First(&model).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find course access: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *CourseAccessRepositoryImpl) DeactivateExpired(ctx context.Context, now time.Time) ([]uint, error) {
	var userIDs []uint
	err := db.GetTxFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		expired := tx.Model(&models.CourseAccessModel{}).
			Where("is_active = ? AND expires_at IS NOT NULL AND expires_at <= ?", true, now)
		if err := expired.Distinct().Pluck("user_id", &userIDs).Error; err != nil {
			return err
		}
		if len(userIDs) == 0 {
			return nil
		}
		return tx.Model(&models.CourseAccessModel{}).
			Where("is_active = ? AND expires_at IS NOT NULL AND expires_at <= ?", true, now).
			Updates(map[string]any{"is_active": false, "updated_at": now}).Error
	})
	if err != nil {
		r.logger.Errorw("failed to deactivate expired course access", "error", err)
		return nil, fmt.Errorf("failed to deactivate expired course access: %w", err)
	}
	return userIDs, nil
}
