package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	categorydto "genesiscode/internal/application/categoryaccess/dto"
	"genesiscode/internal/shared/logger"
	"genesiscode/internal/shared/utils"
)

// UnlockLevelRequest is the body of POST /api/categories/:category_id/unlock.
type UnlockLevelRequest struct {
	UserID  uint `json:"user_id" binding:"required"`
	PathID  uint `json:"path_id" binding:"required"`
	LevelID uint `json:"level_id" binding:"required"`
}

// CategoryAccessHandler serves category purchases, admin grants and manual unlocks.
type CategoryAccessHandler struct {
	grantFree   grantFreeCategoryAccessUseCase
	payment     processCategoryPaymentUseCase
	unlockLevel unlockLevelUseCase
	logger      logger.Interface
}

func NewCategoryAccessHandler(
	grantFree grantFreeCategoryAccessUseCase,
	payment processCategoryPaymentUseCase,
	unlockLevel unlockLevelUseCase,
	logger logger.Interface,
) *CategoryAccessHandler {
	return &CategoryAccessHandler{
		grantFree:   grantFree,
		payment:     payment,
		unlockLevel: unlockLevel,
		logger:      logger,
	}
}

// GrantFreeAccess handles POST /api/admin/category-access/free
func (h *CategoryAccessHandler) GrantFreeAccess(c *gin.Context) {
	var cmd categorydto.GrantFreeCategoryAccessCommand
	if err := bindJSON(c, &cmd, h.logger); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.grantFree.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Category access granted", result)
}

// PaymentWebhook handles POST /api/webhooks/category-payment. The caller is
// authenticated by the webhook secret middleware.
func (h *CategoryAccessHandler) PaymentWebhook(c *gin.Context) {
	var cmd categorydto.CategoryPaymentCommand
	if err := bindJSON(c, &cmd, h.logger); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.payment.Execute(c.Request.Context(), cmd)
	if err != nil {
		h.logger.Errorw("category payment processing failed",
			"user_id", cmd.UserID,
			"category_id", cmd.CategoryID,
			"payment_reference", cmd.PaymentReference,
			"error", err,
		)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Payment processed", result)
}

// UnlockLevel handles POST /api/categories/:category_id/unlock
func (h *CategoryAccessHandler) UnlockLevel(c *gin.Context) {
	categoryID, err := utils.ParseIDParam(c, "category_id", "category")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UnlockLevelRequest
	if err := bindJSON(c, &req, h.logger); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.unlockLevel.Execute(c.Request.Context(), categorydto.UnlockLevelCommand{
		UserID:     req.UserID,
		CategoryID: categoryID,
		PathID:     req.PathID,
		LevelID:    req.LevelID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
