package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"genesiscode/internal/domain/courseaccess"
	"genesiscode/internal/infrastructure/persistence/models"
)

// GrantMapper handles the conversion between grants and course access models.
type GrantMapper interface {
	ToEntity(model *models.CourseAccessModel) (*courseaccess.Grant, error)
	ToModel(entity *courseaccess.Grant) (*models.CourseAccessModel, error)
}

type grantMapper struct{}

func NewGrantMapper() GrantMapper {
	return &grantMapper{}
}

func (m *grantMapper) ToEntity(model *models.CourseAccessModel) (*courseaccess.Grant, error) {
	if model == nil {
		return nil, nil
	}

	var metadata map[string]any
	if len(model.Metadata) > 0 {
		if err := json.Unmarshal(model.Metadata, &metadata); err != nil {
			return nil, fmt.Errorf("failed to decode grant metadata: %w", err)
		}
	}

	entity, err := courseaccess.ReconstructGrant(
		model.ID,
		courseaccess.Scope{
			UserID:     model.UserID,
			PathID:     model.PathID,
			LevelID:    model.LevelID,
			ExerciseID: model.ExerciseID,
		},
		courseaccess.AccessType(model.AccessType),
		courseaccess.Source(model.Source),
		courseaccess.Capabilities{
			CanView:     model.CanView,
			CanInteract: model.CanInteract,
			CanDownload: model.CanDownload,
		},
		model.IsActive,
		model.ExpiresAt,
		metadata,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct grant entity: %w", err)
	}
	return entity, nil
}

func (m *grantMapper) ToModel(entity *courseaccess.Grant) (*models.CourseAccessModel, error) {
	if entity == nil {
		return nil, nil
	}

	var metadata datatypes.JSON
	if md := entity.Metadata(); len(md) > 0 {
		raw, err := json.Marshal(md)
		if err != nil {
			return nil, fmt.Errorf("failed to encode grant metadata: %w", err)
		}
		metadata = datatypes.JSON(raw)
	}

	scope := entity.Scope()
	caps := entity.Capabilities()
	return &models.CourseAccessModel{
		ID:          entity.ID(),
		UserID:      scope.UserID,
		PathID:      scope.PathID,
		LevelID:     scope.LevelID,
		ExerciseID:  scope.ExerciseID,
		AccessType:  entity.AccessType().String(),
		Source:      entity.Source().String(),
		CanView:     caps.CanView,
		CanInteract: caps.CanInteract,
		CanDownload: caps.CanDownload,
		IsActive:    entity.IsActive(),
		ExpiresAt:   entity.ExpiresAt(),
		Metadata:    metadata,
		CreatedAt:   entity.CreatedAt(),
		UpdatedAt:   entity.UpdatedAt(),
	}, nil
}
