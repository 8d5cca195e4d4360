package routes

import (
	"github.com/gin-gonic/gin"

	"genesiscode/internal/interfaces/http/handlers"
	"genesiscode/internal/interfaces/http/middleware"
)

// AccessRouteConfig holds dependencies for learner routes.
type AccessRouteConfig struct {
	AccessHandler   *handlers.AccessHandler
	ProgressHandler *handlers.ProgressHandler
	AuthMiddleware  *middleware.AuthMiddleware
	// RateLimit throttles access checks; nil disables it.
	RateLimit gin.HandlerFunc
}

// SetupAccessRoutes configures the path, access and progress routes.
func SetupAccessRoutes(api *gin.RouterGroup, cfg *AccessRouteConfig) {
	// The overview is always free.
	api.GET("/paths/:path_id", cfg.AccessHandler.GetPathOverview)

	protected := api.Group("")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	{
		protected.GET("/paths/:path_id/access", withOptional(cfg.RateLimit, cfg.AccessHandler.CheckAccess)...)
		protected.POST("/levels/:level_id/complete", cfg.ProgressHandler.CompleteLevel)
	}
}

// withOptional prepends mw to handler when mw is set.
func withOptional(mw gin.HandlerFunc, handler gin.HandlerFunc) []gin.HandlerFunc {
	if mw == nil {
		return []gin.HandlerFunc{handler}
	}
	return []gin.HandlerFunc{mw, handler}
}
