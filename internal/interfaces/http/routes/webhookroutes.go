package routes

import (
	"github.com/gin-gonic/gin"

	"genesiscode/internal/interfaces/http/handlers"
	"genesiscode/internal/interfaces/http/middleware"
	"genesiscode/internal/shared/logger"
)

// WebhookRouteConfig holds dependencies for gateway callbacks.
type WebhookRouteConfig struct {
	CategoryAccessHandler *handlers.CategoryAccessHandler
	PaymentSecret         string
	Logger                logger.Interface
	// RateLimit runs before the secret check; nil disables it.
	RateLimit gin.HandlerFunc
}

// SetupWebhookRoutes configures routes called by the payment gateway.
func SetupWebhookRoutes(api *gin.RouterGroup, cfg *WebhookRouteConfig) {
	webhooks := api.Group("/webhooks")
	if cfg.RateLimit != nil {
		webhooks.Use(cfg.RateLimit)
	}
	webhooks.Use(middleware.RequireWebhookSecret(cfg.PaymentSecret, cfg.Logger))
	{
		webhooks.POST("/category-payment", cfg.CategoryAccessHandler.PaymentWebhook)
	}
}
