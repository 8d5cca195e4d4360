package utils

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"genesiscode/internal/shared/errors"
)

// ParseIDParam parses a positive numeric ID from a URL path parameter.
// entityName is used in error messages (e.g., "path", "level").
func ParseIDParam(c *gin.Context, paramName, entityName string) (uint, error) {
	raw := c.Param(paramName)
	if raw == "" {
		return 0, errors.NewValidationError(entityName + " ID is required")
	}
	return parseID(raw, entityName)
}

// ParseOptionalIDQuery parses an optional numeric ID query parameter. A missing or
// empty parameter yields zero.
func ParseOptionalIDQuery(c *gin.Context, key, entityName string) (uint, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	return parseID(raw, entityName)
}

func parseID(raw, entityName string) (uint, error) {
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return 0, errors.NewValidationError(fmt.Sprintf("invalid %s ID", entityName), raw)
	}
	return uint(v), nil
}
