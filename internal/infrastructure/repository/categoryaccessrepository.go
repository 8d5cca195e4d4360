package repository

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"genesiscode/internal/domain/categoryaccess"
	"genesiscode/internal/infrastructure/persistence/mappers"
	"genesiscode/internal/infrastructure/persistence/models"
	"genesiscode/internal/shared/constants"
	"genesiscode/internal/shared/db"
	"genesiscode/internal/shared/errors"
	"genesiscode/internal/shared/logger"
)

// unlockLevelSQL appends one (path, level) pair to the active record of (user, category)
// unless it is already there. Guard and insert run as one statement, so concurrent
// callers cannot both pass the NOT EXISTS check; the unique index backs it up.
var unlockLevelSQL = fmt.Sprintf(`
INSERT INTO %[1]s (category_access_id, path_id, level_id, unlocked_at)
SELECT ca.id, ?, ?, ?
FROM %[2]s ca
WHERE ca.user_id = ? AND ca.category_id = ? AND ca.status = ?
  AND (ca.expires_at IS NULL OR ca.expires_at > ?)
  AND NOT EXISTS (
    SELECT 1 FROM %[1]s u
    WHERE u.category_access_id = ca.id AND u.path_id = ? AND u.level_id = ?
  )`, constants.TableCategoryUnlockedLevels, constants.TableCategoryAccesses)

// CategoryAccessRepositoryImpl implements categoryaccess.Repository
type CategoryAccessRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewCategoryAccessRepository(db *gorm.DB, logger logger.Interface) categoryaccess.Repository {
	return &CategoryAccessRepositoryImpl{db: db, logger: logger}
}

func (r *CategoryAccessRepositoryImpl) Create(ctx context.Context, ca *categoryaccess.CategoryAccess) error {
	model := mappers.CategoryAccessToModel(ca)
	if err := db.GetTxFromContext(ctx, r.db).Omit("UnlockedLevels").Create(model).Error; err != nil {
		return fmt.Errorf("failed to create category access: %w", err)
	}
	return ca.SetID(model.ID)
}

func (r *CategoryAccessRepositoryImpl) Update(ctx context.Context, ca *categoryaccess.CategoryAccess) error {
	model := mappers.CategoryAccessToModel(ca)
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.CategoryAccessModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"access_type":       model.AccessType,
			"status":            model.Status,
			"expires_at":        model.ExpiresAt,
			"payment_reference": model.PaymentReference,
			"updated_at":        model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update category access", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update category access: %w", result.Error)
	}
	// RowsAffected may be 0 when the stored values are identical.
	return nil
}

func (r *CategoryAccessRepositoryImpl) GetByUserAndCategory(ctx context.Context, userID, categoryID uint) (*categoryaccess.CategoryAccess, error) {
	var model models.CategoryAccessModel
	err := db.GetTxFromContext(ctx, r.db).
		Preload("UnlockedLevels", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		Where("user_id = ? AND category_id = ?", userID, categoryID).
		First(&model).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get category access: %w", err)
	}
	return mappers.CategoryAccessToEntity(&model)
}

func (r *CategoryAccessRepositoryImpl) UnlockLevel(ctx context.Context, userID, categoryID, pathID, levelID uint, now time.Time) (bool, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Exec(unlockLevelSQL,
		pathID, levelID, now,
		userID, categoryID, string(categoryaccess.StatusActive), now,
		pathID, levelID,
	)
	if result.Error != nil {
		if errors.IsDuplicateError(result.Error) {
			// A concurrent caller inserted the same pair first.
			return false, nil
		}
		return false, fmt.Errorf("failed to unlock level: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return true, nil
	}

	// Nothing inserted: either the pair exists or there is no active record.
	var active int64
	err := tx.Model(&models.CategoryAccessModel{}).
		Where("user_id = ? AND category_id = ? AND status = ?", userID, categoryID, string(categoryaccess.StatusActive)).
		Where("(expires_at IS NULL OR expires_at > ?)", now).
		Count(&active).Error
	if err != nil {
		return false, fmt.Errorf("failed to check category access: %w", err)
	}
	if active == 0 {
		return false, categoryaccess.ErrCategoryAccessInactive
	}
	return false, nil
}

func (r *CategoryAccessRepositoryImpl) DeactivateExpired(ctx context.Context, now time.Time) ([]uint, error) {
	var userIDs []uint
	err := db.GetTxFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		expired := func() *gorm.DB {
			return tx.Model(&models.CategoryAccessModel{}).
				Where("status = ? AND expires_at IS NOT NULL AND expires_at <= ?", string(categoryaccess.StatusActive), now)
		}
		if err := expired().Distinct().Pluck("user_id", &userIDs).Error; err != nil {
			return err
		}
		if len(userIDs) == 0 {
			return nil
		}
		return expired().Updates(map[string]any{"status": string(categoryaccess.StatusInactive), "updated_at": now}).Error
	})
	if err != nil {
		r.logger.Errorw("failed to deactivate expired category access", "error", err)
		return nil, fmt.Errorf("failed to deactivate expired category access: %w", err)
	}
	return userIDs, nil
}
