package handlers

import (
	"github.com/gin-gonic/gin"

	"genesiscode/internal/shared/constants"
	"genesiscode/internal/shared/errors"
	"genesiscode/internal/shared/logger"
)

// getUserIDFromContext retrieves the authenticated user set by the auth middleware.
func getUserIDFromContext(c *gin.Context, log logger.Interface) (uint, error) {
	userIDInterface, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		log.Warnw("user_id not found in context", "ip", c.ClientIP())
		return 0, errors.NewUnauthorizedError("user not authenticated")
	}

	userID, ok := userIDInterface.(uint)
	if !ok {
		log.Warnw("invalid user_id type in context", "user_id", userIDInterface, "ip", c.ClientIP())
		return 0, errors.NewInternalError("invalid user ID type")
	}

	return userID, nil
}

// bindJSON decodes the request body and reports malformed input as a validation error.
func bindJSON(c *gin.Context, target any, log logger.Interface) error {
	if err := c.ShouldBindJSON(target); err != nil {
		log.Warnw("invalid request body", "error", err, "path", c.FullPath())
		return errors.NewValidationError("invalid request body", err.Error())
	}
	return nil
}
