package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"genesiscode/internal/shared/constants"
	"genesiscode/internal/shared/logger"
	"genesiscode/internal/shared/utils"
)

// RequireWebhookSecret authenticates gateway callbacks by a shared secret header. An
// empty configured secret rejects every call.
func RequireWebhookSecret(secret string, log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader(constants.HeaderWebhookSecret)
		if secret == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			log.Warnw("webhook rejected", "path", c.Request.URL.Path, "ip", c.ClientIP())
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid webhook secret")
			c.Abort()
			return
		}
		c.Next()
	}
}
