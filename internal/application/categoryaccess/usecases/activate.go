package usecases

import (
	"context"
	"fmt"
	"time"

	"genesiscode/internal/application/categoryaccess/dto"
	"genesiscode/internal/domain/catalog"
	"genesiscode/internal/domain/categoryaccess"
	"genesiscode/internal/shared/errors"
	"genesiscode/internal/shared/logger"
)

// activator creates or reactivates a CategoryAccess record. Shared by the free grant
// and the payment completion paths.
type activator struct {
	categoryRepo categoryaccess.Repository
	catalogRepo  catalog.Repository
	logger       logger.Interface
}

type activation struct {
	record      *categoryaccess.CategoryAccess
	category    *catalog.Category
	paths       []*catalog.Path
	firstLevels []dto.PathFirstLevel
}

func (a *activator) activate(ctx context.Context, userID, categoryID uint, accessType categoryaccess.AccessType,
	expiresAt *time.Time, paymentReference string) (*activation, error) {
	category, err := a.catalogRepo.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	if category == nil {
		return nil, errors.NewNotFoundError("category not found")
	}

	record, err := a.categoryRepo.GetByUserAndCategory(ctx, userID, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get category access: %w", err)
	}

	if record == nil {
		record, err = categoryaccess.NewCategoryAccess(userID, categoryID, accessType, expiresAt, paymentReference)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		err = a.categoryRepo.Create(ctx, record)
		if err != nil && !errors.IsDuplicateError(err) {
			a.logger.Errorw("failed to create category access", "user_id", userID, "category_id", categoryID, "error", err)
			return nil, fmt.Errorf("failed to create category access: %w", err)
		}
		if err != nil {
			// Lost a race with a concurrent activation; fall through to update the winner.
			if record, err = a.categoryRepo.GetByUserAndCategory(ctx, userID, categoryID); err != nil || record == nil {
				return nil, fmt.Errorf("failed to reload category access: %w", err)
			}
		} else {
			return a.withFirstLevels(ctx, record, category)
		}
	}

	if err := record.Activate(accessType, expiresAt, paymentReference); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := a.categoryRepo.Update(ctx, record); err != nil {
		a.logger.Errorw("failed to update category access", "id", record.ID(), "error", err)
		return nil, fmt.Errorf("failed to update category access: %w", err)
	}
	return a.withFirstLevels(ctx, record, category)
}

// withFirstLevels walks every path of the category and checks that its first level
// resolves. First levels are implicit, so nothing is written.
func (a *activator) withFirstLevels(ctx context.Context, record *categoryaccess.CategoryAccess, category *catalog.Category) (*activation, error) {
	paths, err := a.catalogRepo.ListPathsByCategory(ctx, category.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to list category paths: %w", err)
	}

	firstLevels := make([]dto.PathFirstLevel, 0, len(paths))
	for _, p := range paths {
		first := catalog.FirstLevel(p.Levels())
		if first == nil {
			a.logger.Warnw("path has no levels, nothing to open", "path_id", p.ID(), "category_id", category.ID())
			continue
		}
		firstLevels = append(firstLevels, dto.PathFirstLevel{PathID: p.ID(), LevelID: first.ID()})
	}

	return &activation{record: record, category: category, paths: paths, firstLevels: firstLevels}, nil
}
