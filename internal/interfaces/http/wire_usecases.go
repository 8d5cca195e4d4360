package http

import (
	accessApp "genesiscode/internal/application/access"
	catalogUsecases "genesiscode/internal/application/catalog/usecases"
	categoryUsecases "genesiscode/internal/application/categoryaccess/usecases"
	courseAccessUsecases "genesiscode/internal/application/courseaccess/usecases"
	progressUsecases "genesiscode/internal/application/progress/usecases"
	subscriptionUsecases "genesiscode/internal/application/subscription/usecases"
	"genesiscode/internal/infrastructure/repository"
	"genesiscode/internal/shared/logger"
	"genesiscode/internal/shared/services/markdown"
)

// allUseCases holds all use case instances used by the HTTP surface.
type allUseCases struct {
	// Read side
	listCoveringPlansUC *subscriptionUsecases.ListCoveringPlansUseCase
	getPathOverviewUC   *catalogUsecases.GetPathOverviewUseCase

	// Explicit grants
	grantExplicitAccessUC  *courseAccessUsecases.GrantExplicitAccessUseCase
	revokeExplicitAccessUC *courseAccessUsecases.RevokeExplicitAccessUseCase

	// Category access
	grantFreeCategoryUC    *categoryUsecases.GrantFreeCategoryAccessUseCase
	processCategoryPayment *categoryUsecases.ProcessCategoryPaymentUseCase
	unlockLevelUC          *categoryUsecases.UnlockLevelUseCase

	// Progress
	completeLevelUC *progressUsecases.CompleteLevelUseCase
}

// newUseCases wires the use cases. Every mutator invalidates through the engine so
// cached decisions never outlive an entitlement change.
func newUseCases(
	repos *repository.Repositories,
	engine *accessApp.Engine,
	notifier categoryUsecases.UnlockNotifier,
	log logger.Interface,
) *allUseCases {
	return &allUseCases{
		listCoveringPlansUC: subscriptionUsecases.NewListCoveringPlansUseCase(repos.Plans, repos.Catalog, log),
		getPathOverviewUC:   catalogUsecases.NewGetPathOverviewUseCase(repos.Catalog, markdown.NewRenderer(), log),

		grantExplicitAccessUC:  courseAccessUsecases.NewGrantExplicitAccessUseCase(repos.Grants, repos.Users, repos.Catalog, engine, log),
		revokeExplicitAccessUC: courseAccessUsecases.NewRevokeExplicitAccessUseCase(repos.Grants, engine, log),

		grantFreeCategoryUC:    categoryUsecases.NewGrantFreeCategoryAccessUseCase(repos.CategoryAccess, repos.Catalog, engine, log),
		processCategoryPayment: categoryUsecases.NewProcessCategoryPaymentUseCase(repos.CategoryAccess, repos.Catalog, repos.Users, engine, notifier, log),
		unlockLevelUC:          categoryUsecases.NewUnlockLevelUseCase(repos.CategoryAccess, repos.Catalog, engine, log),

		completeLevelUC: progressUsecases.NewCompleteLevelUseCase(repos.Progress, repos.Catalog, engine, engine, log),
	}
}
