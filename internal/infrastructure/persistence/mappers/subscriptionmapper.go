package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"genesiscode/internal/domain/subscription"
	vo "genesiscode/internal/domain/subscription/valueobjects"
	"genesiscode/internal/infrastructure/persistence/models"
)

// PlanToEntity keeps unknown plan types so callers can report them.
func PlanToEntity(model *models.PlanModel) (*subscription.Plan, error) {
	if model == nil {
		return nil, nil
	}
	allowed, err := decodeUints(model.AllowedPaths)
	if err != nil {
		return nil, fmt.Errorf("failed to decode allowed paths of plan %d: %w", model.ID, err)
	}
	entity, err := subscription.ReconstructPlan(model.ID, model.Name, model.Type, model.TargetID, allowed,
		model.PriceCents, model.Currency, model.IsActive, model.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct plan entity: %w", err)
	}
	return entity, nil
}

func PlanToModel(entity *subscription.Plan) (*models.PlanModel, error) {
	if entity == nil {
		return nil, nil
	}
	allowed, err := json.Marshal(entity.AllowedPaths())
	if err != nil {
		return nil, fmt.Errorf("failed to encode allowed paths: %w", err)
	}
	return &models.PlanModel{
		ID:           entity.ID(),
		Name:         entity.Name(),
		Type:         entity.Type().String(),
		TargetID:     entity.TargetID(),
		AllowedPaths: datatypes.JSON(allowed),
		PriceCents:   entity.PriceCents(),
		Currency:     entity.Currency(),
		IsActive:     entity.IsActive(),
		CreatedAt:    entity.CreatedAt(),
	}, nil
}

func SubscriptionToEntity(model *models.SubscriptionModel) (*subscription.Subscription, error) {
	if model == nil {
		return nil, nil
	}
	entity, err := subscription.ReconstructSubscription(model.ID, model.UserID, model.PlanID,
		vo.SubscriptionStatus(model.Status), model.CurrentPeriodEnd, model.ExternalTransactionID,
		model.CreatedAt, model.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct subscription entity: %w", err)
	}
	return entity, nil
}

func SubscriptionToModel(entity *subscription.Subscription) *models.SubscriptionModel {
	if entity == nil {
		return nil
	}
	return &models.SubscriptionModel{
		ID:                    entity.ID(),
		UserID:                entity.UserID(),
		PlanID:                entity.PlanID(),
		Status:                entity.Status().String(),
		CurrentPeriodEnd:      entity.CurrentPeriodEnd(),
		ExternalTransactionID: entity.ExternalTransactionID(),
		CreatedAt:             entity.CreatedAt(),
		UpdatedAt:             entity.UpdatedAt(),
	}
}
