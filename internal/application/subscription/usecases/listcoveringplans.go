package usecases

import (
	"context"
	"fmt"
	"sort"

	"genesiscode/internal/application/subscription/dto"
	"genesiscode/internal/domain/catalog"
	"genesiscode/internal/domain/subscription"
	"genesiscode/internal/shared/logger"
)

// ListCoveringPlansUseCase lists the purchasable plans that would cover a path,
// cheapest first. Used to build purchase prompts on denied access.
type ListCoveringPlansUseCase struct {
	planRepo    subscription.PlanRepository
	catalogRepo catalog.Repository
	logger      logger.Interface
}

func NewListCoveringPlansUseCase(
	planRepo subscription.PlanRepository,
	catalogRepo catalog.Repository,
	logger logger.Interface,
) *ListCoveringPlansUseCase {
	return &ListCoveringPlansUseCase{
		planRepo:    planRepo,
		catalogRepo: catalogRepo,
		logger:      logger,
	}
}

func (uc *ListCoveringPlansUseCase) Execute(ctx context.Context, pathID uint) ([]dto.PlanDTO, error) {
	path, err := uc.catalogRepo.GetPath(ctx, pathID)
	if err != nil {
		return nil, fmt.Errorf("failed to get path: %w", err)
	}
	if path == nil {
		return []dto.PlanDTO{}, nil
	}

	plans, err := uc.planRepo.ListActive(ctx)
	if err != nil {
		uc.logger.Errorw("failed to list active plans", "error", err)
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	result := make([]dto.PlanDTO, 0, len(plans))
	for _, p := range plans {
		if !p.IsActive() || !p.IsValid() {
			continue
		}
		if scope, ok := p.Covers(path.ID(), path.CategoryID()); ok {
			result = append(result, dto.ToPlanDTO(p, scope.String()))
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].PriceCents < result[j].PriceCents
	})
	return result, nil
}
