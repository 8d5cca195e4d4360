package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"genesiscode/internal/shared/constants"
	"genesiscode/internal/shared/logger"
)

// RequestLogger writes one line per request. 2xx and 3xx log at debug, 4xx at warn
// and 5xx at error.
func RequestLogger(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []any{
			"method", c.Request.Method,
			"route", c.FullPath(),
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if id := c.GetString(constants.ContextKeyRequestID); id != "" {
			fields = append(fields, "request_id", id)
		}
		if userID := c.GetUint(constants.ContextKeyUserID); userID != 0 {
			fields = append(fields, "user_id", userID)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "error", c.Errors.String())
		}

		switch {
		case status >= 500:
			log.Errorw("request failed", fields...)
		case status >= 400:
			log.Warnw("request rejected", fields...)
		default:
			log.Debugw("request served", fields...)
		}
	}
}
