package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"genesiscode/internal/infrastructure/ratelimit"
	"genesiscode/internal/shared/constants"
	"genesiscode/internal/shared/logger"
	"genesiscode/internal/shared/utils"
)

type rateLimiter interface {
	Allow(ctx context.Context, key string, limit ratelimit.Limit) (bool, error)
}

// RateLimit throttles per authenticated user, falling back to the client IP.
// A limiter failure lets the request through.
func RateLimit(limiter rateLimiter, scope string, limit ratelimit.Limit, log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || !limit.Enabled() {
			c.Next()
			return
		}

		key := scope + ":ip:" + c.ClientIP()
		if userID := c.GetUint(constants.ContextKeyUserID); userID != 0 {
			key = fmt.Sprintf("%s:user:%d", scope, userID)
		}

		allowed, err := limiter.Allow(c.Request.Context(), key, limit)
		if err != nil {
			log.Warnw("rate limiter unavailable, allowing request", "key", key, "error", err)
			c.Next()
			return
		}
		if !allowed {
			log.Infow("rate limit exceeded", "key", key, "path", c.Request.URL.Path)
			c.Header("Retry-After", "60")
			utils.ErrorResponse(c, http.StatusTooManyRequests, "Too many requests")
			c.Abort()
			return
		}

		c.Next()
	}
}
