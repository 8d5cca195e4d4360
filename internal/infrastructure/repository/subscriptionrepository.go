package repository

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"genesiscode/internal/domain/subscription"
	vo "genesiscode/internal/domain/subscription/valueobjects"
	"genesiscode/internal/infrastructure/persistence/mappers"
	"genesiscode/internal/infrastructure/persistence/models"
	"genesiscode/internal/shared/db"
	"genesiscode/internal/shared/logger"
)

// SubscriptionRepositoryImpl implements subscription.SubscriptionRepository
type SubscriptionRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewSubscriptionRepository(db *gorm.DB, logger logger.Interface) subscription.SubscriptionRepository {
	return &SubscriptionRepositoryImpl{db: db, logger: logger}
}

func (r *SubscriptionRepositoryImpl) Create(ctx context.Context, s *subscription.Subscription) error {
	model := mappers.SubscriptionToModel(s)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create subscription", "user_id", s.UserID(), "error", err)
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	return s.SetID(model.ID)
}

func (r *SubscriptionRepositoryImpl) Update(ctx context.Context, s *subscription.Subscription) error {
	model := mappers.SubscriptionToModel(s)
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.SubscriptionModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"status":                  model.Status,
			"current_period_end":      model.CurrentPeriodEnd,
			"external_transaction_id": model.ExternalTransactionID,
			"updated_at":              model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update subscription: %w", result.Error)
	}
	// RowsAffected may be 0 when the stored values are identical.
	return nil
}

// FindActiveByUser returns the active subscription with the latest period end. The
// caller still checks the period against its own clock.
func (r *SubscriptionRepositoryImpl) FindActiveByUser(ctx context.Context, userID uint) (*subscription.Subscription, error) {
	var model models.SubscriptionModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND status = ?", userID, vo.StatusActive.String()).
		Order("current_period_end DESC, id DESC").
		First(&model).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find active subscription: %w", err)
	}
	return mappers.SubscriptionToEntity(&model)
}

func (r *SubscriptionRepositoryImpl) ExpireOverdue(ctx context.Context, now time.Time) ([]uint, error) {
	var userIDs []uint
	err := db.GetTxFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		overdue := func() *gorm.DB {
			return tx.Model(&models.SubscriptionModel{}).
				Where("status = ? AND current_period_end <= ?", vo.StatusActive.String(), now)
		}
		if err := overdue().Distinct().Pluck("user_id", &userIDs).Error; err != nil {
			return err
		}
		if len(userIDs) == 0 {
			return nil
		}
		return overdue().Updates(map[string]any{"status": vo.StatusExpired.String(), "updated_at": now}).Error
	})
	if err != nil {
		r.logger.Errorw("failed to expire subscriptions", "error", err)
		return nil, fmt.Errorf("failed to expire subscriptions: %w", err)
	}
	return userIDs, nil
}

// PlanRepositoryImpl implements subscription.PlanRepository
type PlanRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewPlanRepository(db *gorm.DB, logger logger.Interface) subscription.PlanRepository {
	return &PlanRepositoryImpl{db: db, logger: logger}
}

func (r *PlanRepositoryImpl) Create(ctx context.Context, p *subscription.Plan) error {
	model, err := mappers.PlanToModel(p)
	if err != nil {
		return err
	}
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create plan: %w", err)
	}
	return p.SetID(model.ID)
}

func (r *PlanRepositoryImpl) GetByID(ctx context.Context, id uint) (*subscription.Plan, error) {
	var model models.PlanModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return mappers.PlanToEntity(&model)
}

func (r *PlanRepositoryImpl) ListActive(ctx context.Context) ([]*subscription.Plan, error) {
	var list []models.PlanModel
	if err := db.GetTxFromContext(ctx, r.db).Where("is_active = ?", true).Order("price_cents ASC, id ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	plans := make([]*subscription.Plan, 0, len(list))
	for i := range list {
		p, err := mappers.PlanToEntity(&list[i])
		if err != nil {
			r.logger.Warnw("skipping unreadable plan", "plan_id", list[i].ID, "error", err)
			continue
		}
		plans = append(plans, p)
	}
	return plans, nil
}
