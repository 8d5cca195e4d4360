package repository

import (
	"gorm.io/gorm"

	"genesiscode/internal/domain/catalog"
	"genesiscode/internal/domain/categoryaccess"
	"genesiscode/internal/domain/courseaccess"
	"genesiscode/internal/domain/progress"
	"genesiscode/internal/domain/subscription"
	"genesiscode/internal/domain/user"
	"genesiscode/internal/shared/logger"
)

// Repositories holds every store used by the server, the worker and the CLI.
type Repositories struct {
	Users          user.Repository
	Catalog        catalog.Repository
	Grants         courseaccess.Repository
	Subscriptions  subscription.SubscriptionRepository
	Plans          subscription.PlanRepository
	CategoryAccess categoryaccess.Repository
	Progress       progress.Repository
}

func NewRepositories(db *gorm.DB, log logger.Interface) *Repositories {
	return &Repositories{
		Users:          NewUserRepository(db, log),
		Catalog:        NewCatalogRepository(db, log),
		Grants:         NewCourseAccessRepository(db, log),
		Subscriptions:  NewSubscriptionRepository(db, log),
		Plans:          NewPlanRepository(db, log),
		CategoryAccess: NewCategoryAccessRepository(db, log),
		Progress:       NewProgressRepository(db, log),
	}
}
