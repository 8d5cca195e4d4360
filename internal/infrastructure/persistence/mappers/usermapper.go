package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"genesiscode/internal/domain/user"
	"genesiscode/internal/infrastructure/persistence/models"
)

// UserToEntity converts a user model to the domain entity.
func UserToEntity(model *models.UserModel) (*user.User, error) {
	if model == nil {
		return nil, nil
	}
	roles, err := decodeStrings(model.Roles)
	if err != nil {
		return nil, fmt.Errorf("failed to decode roles of user %d: %w", model.ID, err)
	}
	entity, err := user.ReconstructUser(model.ID, model.Email, model.Name, roles, model.Role, model.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct user entity: %w", err)
	}
	return entity, nil
}

func UserToModel(entity *user.User) (*models.UserModel, error) {
	if entity == nil {
		return nil, nil
	}
	roles, err := json.Marshal(entity.Roles())
	if err != nil {
		return nil, fmt.Errorf("failed to encode roles: %w", err)
	}
	return &models.UserModel{
		ID:        entity.ID(),
		Email:     entity.Email(),
		Name:      entity.Name(),
		Role:      entity.LegacyRole(),
		Roles:     datatypes.JSON(roles),
		CreatedAt: entity.CreatedAt(),
	}, nil
}

func decodeStrings(raw datatypes.JSON) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeUints(raw datatypes.JSON) ([]uint, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var out []uint
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
