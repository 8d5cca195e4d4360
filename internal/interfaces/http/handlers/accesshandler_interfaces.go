package handlers

import (
	"context"

	catalogdto "genesiscode/internal/application/catalog/dto"
	categorydto "genesiscode/internal/application/categoryaccess/dto"
	courseaccessdto "genesiscode/internal/application/courseaccess/dto"
	progressusecases "genesiscode/internal/application/progress/usecases"
	subdto "genesiscode/internal/application/subscription/dto"
	"genesiscode/internal/domain/access"
)

// Use case interfaces for the access handlers

type accessEvaluator interface {
	EvaluateAccess(ctx context.Context, q access.Query) access.Decision
}

type listCoveringPlansUseCase interface {
	Execute(ctx context.Context, pathID uint) ([]subdto.PlanDTO, error)
}

type getPathOverviewUseCase interface {
	Execute(ctx context.Context, pathID uint) (*catalogdto.PathOverviewDTO, error)
}

type completeLevelUseCase interface {
	Execute(ctx context.Context, cmd progressusecases.CompleteLevelCommand) (*progressusecases.CompleteLevelResult, error)
}

type grantExplicitAccessUseCase interface {
	Execute(ctx context.Context, cmd courseaccessdto.GrantExplicitAccessCommand) (*courseaccessdto.GrantResponse, error)
}

type revokeExplicitAccessUseCase interface {
	Execute(ctx context.Context, grantID uint) error
}

type grantFreeCategoryAccessUseCase interface {
	Execute(ctx context.Context, cmd categorydto.GrantFreeCategoryAccessCommand) (*categorydto.CategoryAccessResponse, error)
}

type processCategoryPaymentUseCase interface {
	Execute(ctx context.Context, cmd categorydto.CategoryPaymentCommand) (*categorydto.CategoryAccessResponse, error)
}

type unlockLevelUseCase interface {
	Execute(ctx context.Context, cmd categorydto.UnlockLevelCommand) (*categorydto.UnlockLevelResult, error)
}
