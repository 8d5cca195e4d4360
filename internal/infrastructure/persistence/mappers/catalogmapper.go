package mappers

import (
	"fmt"

	"genesiscode/internal/domain/catalog"
	"genesiscode/internal/infrastructure/persistence/models"
	"genesiscode/internal/shared/mapper"
)

func CategoryToEntity(model *models.CategoryModel) (*catalog.Category, error) {
	if model == nil {
		return nil, nil
	}
	entity, err := catalog.ReconstructCategory(model.ID, model.Name, model.Slug, model.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct category entity: %w", err)
	}
	return entity, nil
}

func LevelToEntity(model models.LevelModel) (*catalog.Level, error) {
	entity, err := catalog.ReconstructLevel(model.ID, model.PathID, model.LevelOrder, model.Title, model.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct level %d: %w", model.ID, err)
	}
	return entity, nil
}

// PathToEntity converts a path model with its preloaded levels.
func PathToEntity(model *models.PathModel) (*catalog.Path, error) {
	if model == nil {
		return nil, nil
	}
	levels, err := mapper.MapSliceWithError(model.Levels, LevelToEntity)
	if err != nil {
		return nil, err
	}
	entity, err := catalog.ReconstructPath(model.ID, model.CategoryID, model.Title, model.Description, levels, model.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct path entity: %w", err)
	}
	return entity, nil
}

func PathsToEntities(list []models.PathModel) ([]*catalog.Path, error) {
	return mapper.MapSliceWithError(list, func(m models.PathModel) (*catalog.Path, error) {
		return PathToEntity(&m)
	})
}
