package routes

import (
	"github.com/gin-gonic/gin"

	"genesiscode/internal/interfaces/http/handlers"
	"genesiscode/internal/interfaces/http/middleware"
)

// AdminRouteConfig holds dependencies for admin-only routes.
type AdminRouteConfig struct {
	CourseAccessHandler   *handlers.CourseAccessHandler
	CategoryAccessHandler *handlers.CategoryAccessHandler
	AuthMiddleware        *middleware.AuthMiddleware
	PermissionMiddleware  *middleware.PermissionMiddleware
}

// SetupAdminRoutes configures grant management and manual unlock routes.
func SetupAdminRoutes(api *gin.RouterGroup, cfg *AdminRouteConfig) {
	admin := api.Group("/admin")
	admin.Use(cfg.AuthMiddleware.RequireAuth(), cfg.PermissionMiddleware.RequireAdmin())
	{
		admin.POST("/course-access", cfg.CourseAccessHandler.GrantAccess)
		admin.DELETE("/course-access/:id", cfg.CourseAccessHandler.RevokeAccess)
		admin.POST("/category-access/free", cfg.CategoryAccessHandler.GrantFreeAccess)
	}

	categories := api.Group("/categories")
	categories.Use(cfg.AuthMiddleware.RequireAuth(), cfg.PermissionMiddleware.RequireAdmin())
	{
		categories.POST("/:category_id/unlock", cfg.CategoryAccessHandler.UnlockLevel)
	}
}
