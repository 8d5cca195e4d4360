package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"genesiscode/internal/infrastructure/config"
	"genesiscode/internal/interfaces/http/handlers"
	"genesiscode/internal/interfaces/http/middleware"
	"genesiscode/internal/interfaces/http/routes"
	"genesiscode/internal/shared/logger"
)

// Router represents the HTTP router configuration
type Router struct {
	*Container
}

// NewRouter builds the container behind the router.
func NewRouter(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) (*Router, error) {
	c, err := NewContainer(db, redisClient, cfg, log)
	if err != nil {
		return nil, err
	}
	return &Router{Container: c}, nil
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Recovery(r.log.Named("http.recovery")))
	r.engine.Use(r.metrics.GinMiddleware())
	r.engine.Use(middleware.RequestLogger(r.log.Named("http")))

	r.engine.GET("/health", handlers.HealthCheck)
	r.engine.GET("/metrics", gin.WrapH(r.metrics.Handler()))

	api := r.engine.Group("/api")

	routes.SetupAccessRoutes(api, &routes.AccessRouteConfig{
		AccessHandler:   r.hdlrs.accessHandler,
		ProgressHandler: r.hdlrs.progressHandler,
		AuthMiddleware:  r.authMiddleware,
		RateLimit:       r.rateLimit("access", r.cfg.RateLimit.AccessPerMinute),
	})

	routes.SetupAdminRoutes(api, &routes.AdminRouteConfig{
		CourseAccessHandler:   r.hdlrs.courseAccessHandler,
		CategoryAccessHandler: r.hdlrs.categoryAccessHandler,
		AuthMiddleware:        r.authMiddleware,
		PermissionMiddleware:  r.permissionMiddleware,
	})

	routes.SetupWebhookRoutes(api, &routes.WebhookRouteConfig{
		CategoryAccessHandler: r.hdlrs.categoryAccessHandler,
		PaymentSecret:         r.cfg.Webhook.PaymentSecret,
		Logger:                r.log.Named("webhook"),
		RateLimit:             r.rateLimit("webhook", r.cfg.RateLimit.WebhookPerMinute),
	})
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() http.Handler {
	return r.engine
}
