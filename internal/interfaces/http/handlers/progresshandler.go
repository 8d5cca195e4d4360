package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	progressusecases "genesiscode/internal/application/progress/usecases"
	"genesiscode/internal/shared/logger"
	"genesiscode/internal/shared/utils"
)

type ProgressHandler struct {
	completeLevel completeLevelUseCase
	logger        logger.Interface
}

func NewProgressHandler(completeLevel completeLevelUseCase, logger logger.Interface) *ProgressHandler {
	return &ProgressHandler{
		completeLevel: completeLevel,
		logger:        logger,
	}
}

// CompleteLevel handles POST /api/levels/:level_id/complete
func (h *ProgressHandler) CompleteLevel(c *gin.Context) {
	userID, err := getUserIDFromContext(c, h.logger)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	levelID, err := utils.ParseIDParam(c, "level_id", "level")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.completeLevel.Execute(c.Request.Context(), progressusecases.CompleteLevelCommand{
		UserID:  userID,
		LevelID: levelID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Level completed", result)
}
