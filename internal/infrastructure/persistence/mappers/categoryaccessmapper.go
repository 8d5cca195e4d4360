package mappers

import (
	"fmt"

	"genesiscode/internal/domain/categoryaccess"
	"genesiscode/internal/infrastructure/persistence/models"
	"genesiscode/internal/shared/mapper"
)

// CategoryAccessToEntity converts a record with its preloaded unlocked levels.
func CategoryAccessToEntity(model *models.CategoryAccessModel) (*categoryaccess.CategoryAccess, error) {
	if model == nil {
		return nil, nil
	}
	unlocked := mapper.MapSlice(model.UnlockedLevels, func(u models.CategoryUnlockedLevelModel) categoryaccess.UnlockedLevel {
		return categoryaccess.UnlockedLevel{PathID: u.PathID, LevelID: u.LevelID, UnlockedAt: u.UnlockedAt}
	})
	entity, err := categoryaccess.ReconstructCategoryAccess(
		model.ID,
		model.UserID,
		model.CategoryID,
		categoryaccess.AccessType(model.AccessType),
		categoryaccess.Status(model.Status),
		model.ExpiresAt,
		model.PaymentReference,
		unlocked,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct category access entity: %w", err)
	}
	return entity, nil
}

// CategoryAccessToModel maps the record without its unlocked set, which is only ever
// written through the conditional insert.
func CategoryAccessToModel(entity *categoryaccess.CategoryAccess) *models.CategoryAccessModel {
	if entity == nil {
		return nil
	}
	return &models.CategoryAccessModel{
		ID:               entity.ID(),
		UserID:           entity.UserID(),
		CategoryID:       entity.CategoryID(),
		AccessType:       entity.AccessType().String(),
		Status:           string(entity.Status()),
		ExpiresAt:        entity.ExpiresAt(),
		PaymentReference: entity.PaymentReference(),
		CreatedAt:        entity.CreatedAt(),
		UpdatedAt:        entity.UpdatedAt(),
	}
}
