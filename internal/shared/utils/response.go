package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"genesiscode/internal/shared/errors"
)

// APIResponse is the envelope every JSON endpoint answers with.
type APIResponse struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
	Message string     `json:"message,omitempty"`
}

type ErrorInfo struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func SuccessResponse(c *gin.Context, statusCode int, message string, data any) {
	c.JSON(statusCode, APIResponse{Success: true, Data: data, Message: message})
}

// CreatedResponse answers 201 with data and an optional message.
func CreatedResponse(c *gin.Context, data any, message ...string) {
	msg := "Resource created successfully"
	if len(message) > 0 {
		msg = message[0]
	}
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data, Message: msg})
}

// ErrorResponse answers with a bare status; the error type is derived from it.
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	writeError(c, statusCode, ErrorInfo{
		Type:    string(errors.TypeForStatus(statusCode)),
		Message: message,
	}, nil)
}

// ErrorResponseWithError answers with the AppError carried by err. Anything else is a
// 500 without details.
func ErrorResponseWithError(c *gin.Context, err error) {
	appErr := errors.GetAppError(err)
	if appErr == nil {
		writeError(c, http.StatusInternalServerError, ErrorInfo{
			Type:    string(errors.ErrorTypeInternal),
			Message: "Internal server error occurred",
		}, nil)
		return
	}
	writeError(c, appErr.Code, ErrorInfo{
		Type:    string(appErr.Type),
		Message: appErr.Message,
		Details: appErr.Details,
	}, nil)
}

// DeniedResponse answers 403 and still carries data describing the denial.
func DeniedResponse(c *gin.Context, reason string, data any) {
	writeError(c, http.StatusForbidden, ErrorInfo{
		Type:    string(errors.ErrorTypeForbidden),
		Message: reason,
	}, data)
}

func NoContentResponse(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func writeError(c *gin.Context, statusCode int, info ErrorInfo, data any) {
	c.JSON(statusCode, APIResponse{Success: false, Data: data, Error: &info})
}
