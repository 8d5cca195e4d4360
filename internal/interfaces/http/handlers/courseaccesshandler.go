package handlers

import (
	"github.com/gin-gonic/gin"

	courseaccessdto "genesiscode/internal/application/courseaccess/dto"
	"genesiscode/internal/shared/logger"
	"genesiscode/internal/shared/utils"
)

// CourseAccessHandler manages explicit grants. All routes are admin only.
type CourseAccessHandler struct {
	grant  grantExplicitAccessUseCase
	revoke revokeExplicitAccessUseCase
	logger logger.Interface
}

func NewCourseAccessHandler(
	grant grantExplicitAccessUseCase,
	revoke revokeExplicitAccessUseCase,
	logger logger.Interface,
) *CourseAccessHandler {
	return &CourseAccessHandler{
		grant:  grant,
		revoke: revoke,
		logger: logger,
	}
}

// GrantAccess handles POST /api/admin/course-access
func (h *CourseAccessHandler) GrantAccess(c *gin.Context) {
	var cmd courseaccessdto.GrantExplicitAccessCommand
	if err := bindJSON(c, &cmd, h.logger); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.grant.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Course access granted")
}

// RevokeAccess handles DELETE /api/admin/course-access/:id
func (h *CourseAccessHandler) RevokeAccess(c *gin.Context) {
	grantID, err := utils.ParseIDParam(c, "id", "grant")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.revoke.Execute(c.Request.Context(), grantID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}
