package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"genesiscode/internal/shared/constants"
	"genesiscode/internal/shared/logger"
	"genesiscode/internal/shared/utils"
)

type adminChecker interface {
	IsAdmin(ctx context.Context, userID uint) (bool, error)
}

type policyEnforcer interface {
	Enforce(userID uint, resource, action string) (bool, error)
}

// PermissionMiddleware guards admin routes. Admins (by the normalized flag) always pass;
// other users pass only when a role policy allows the route.
type PermissionMiddleware struct {
	admins adminChecker
	policy policyEnforcer
	logger logger.Interface
}

// NewPermissionMiddleware builds the guard. policy may be nil.
func NewPermissionMiddleware(admins adminChecker, policy policyEnforcer, logger logger.Interface) *PermissionMiddleware {
	return &PermissionMiddleware{
		admins: admins,
		policy: policy,
		logger: logger,
	}
}

func (m *PermissionMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, exists := c.Get(constants.ContextKeyUserID)
		userID, ok := raw.(uint)
		if !exists || !ok || userID == 0 {
			utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
			c.Abort()
			return
		}

		isAdmin, err := m.admins.IsAdmin(c.Request.Context(), userID)
		if err != nil {
			m.logger.Errorw("admin check failed", "error", err, "user_id", userID)
			utils.ErrorResponse(c, http.StatusInternalServerError, "permission check failed")
			c.Abort()
			return
		}
		if isAdmin {
			c.Next()
			return
		}

		if m.policy != nil {
			resource := c.Request.URL.Path
			allowed, err := m.policy.Enforce(userID, resource, c.Request.Method)
			if err != nil {
				utils.ErrorResponse(c, http.StatusInternalServerError, "permission check failed")
				c.Abort()
				return
			}
			if allowed {
				c.Next()
				return
			}
		}

		m.logger.Warnw("permission denied", "user_id", userID, "path", c.Request.URL.Path, "method", c.Request.Method)
		utils.ErrorResponse(c, http.StatusForbidden, "insufficient permissions")
		c.Abort()
	}
}
