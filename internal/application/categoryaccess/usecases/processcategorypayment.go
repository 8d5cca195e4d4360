package usecases

import (
	"context"
	"fmt"
	"time"

	"genesiscode/internal/application/categoryaccess/dto"
	"genesiscode/internal/domain/access"
	"genesiscode/internal/domain/catalog"
	"genesiscode/internal/domain/categoryaccess"
	"genesiscode/internal/domain/user"
	"genesiscode/internal/shared/errors"
	"genesiscode/internal/shared/logger"
	"genesiscode/internal/shared/utils"
)

// UnlockNotifier tells the buyer what they unlocked.
type UnlockNotifier interface {
	SendCategoryUnlockedEmail(to, categoryName string, pathTitles []string) error
}

// ProcessCategoryPaymentUseCase is the completion hook for a confirmed category purchase.
// Gateway retries with the same payment reference are acknowledged without side effects.
type ProcessCategoryPaymentUseCase struct {
	activator    *activator
	categoryRepo categoryaccess.Repository
	userRepo     user.Repository
	invalidator  access.CacheInvalidator
	notifier     UnlockNotifier
	logger       logger.Interface
}

func NewProcessCategoryPaymentUseCase(
	categoryRepo categoryaccess.Repository,
	catalogRepo catalog.Repository,
	userRepo user.Repository,
	invalidator access.CacheInvalidator,
	notifier UnlockNotifier,
	logger logger.Interface,
) *ProcessCategoryPaymentUseCase {
	return &ProcessCategoryPaymentUseCase{
		activator:    &activator{categoryRepo: categoryRepo, catalogRepo: catalogRepo, logger: logger},
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
		invalidator:  invalidator,
		notifier:     notifier,
		logger:       logger,
	}
}

func (uc *ProcessCategoryPaymentUseCase) Execute(ctx context.Context, cmd dto.CategoryPaymentCommand) (*dto.CategoryAccessResponse, error) {
	uc.logger.Infow("processing category payment",
		"user_id", cmd.UserID,
		"category_id", cmd.CategoryID,
		"payment_reference", cmd.PaymentReference,
	)

	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, err
	}

	u, err := uc.userRepo.GetByID(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return nil, errors.NewNotFoundError("user not found")
	}

	existing, err := uc.categoryRepo.GetByUserAndCategory(ctx, cmd.UserID, cmd.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get category access: %w", err)
	}
	if existing != nil && existing.PaymentReference() == cmd.PaymentReference && existing.IsActiveAt(time.Now().UTC()) {
		uc.logger.Infow("payment already processed", "payment_reference", cmd.PaymentReference, "category_access_id", existing.ID())
		return dto.ToCategoryAccessResponse(existing, nil), nil
	}

	result, err := uc.activator.activate(ctx, cmd.UserID, cmd.CategoryID, categoryaccess.AccessTypePurchased, cmd.ExpiresAt, cmd.PaymentReference)
	if err != nil {
		return nil, err
	}

	if err := uc.invalidator.InvalidateUser(ctx, cmd.UserID); err != nil {
		uc.logger.Warnw("category purchased but cached decisions were not invalidated", "user_id", cmd.UserID, "error", err)
	}

	titles := make([]string, 0, len(result.paths))
	for _, p := range result.paths {
		titles = append(titles, p.Title())
	}
	if err := uc.notifier.SendCategoryUnlockedEmail(u.Email(), result.category.Name(), titles); err != nil {
		uc.logger.Warnw("failed to send category unlocked email",
			"user_id", cmd.UserID, "email", utils.MaskEmail(u.Email()), "error", err)
	}

	uc.logger.Infow("category purchase completed",
		"user_id", cmd.UserID,
		"category_id", cmd.CategoryID,
		"category_access_id", result.record.ID(),
		"paths", len(result.paths),
	)
	return dto.ToCategoryAccessResponse(result.record, result.firstLevels), nil
}
