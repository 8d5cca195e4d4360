package http

import (
	accessApp "genesiscode/internal/application/access"
	"genesiscode/internal/interfaces/http/handlers"
	"genesiscode/internal/shared/logger"
)

// allHandlers holds all HTTP handler instances.
type allHandlers struct {
	accessHandler         *handlers.AccessHandler
	progressHandler       *handlers.ProgressHandler
	courseAccessHandler   *handlers.CourseAccessHandler
	categoryAccessHandler *handlers.CategoryAccessHandler
}

func newHandlers(engine *accessApp.Engine, ucs *allUseCases, log logger.Interface) *allHandlers {
	return &allHandlers{
		accessHandler: handlers.NewAccessHandler(
			engine, ucs.listCoveringPlansUC, ucs.getPathOverviewUC, log.Named("handler.access")),
		progressHandler: handlers.NewProgressHandler(
			ucs.completeLevelUC, log.Named("handler.progress")),
		courseAccessHandler: handlers.NewCourseAccessHandler(
			ucs.grantExplicitAccessUC, ucs.revokeExplicitAccessUC, log.Named("handler.course_access")),
		categoryAccessHandler: handlers.NewCategoryAccessHandler(
			ucs.grantFreeCategoryUC, ucs.processCategoryPayment, ucs.unlockLevelUC, log.Named("handler.category_access")),
	}
}
