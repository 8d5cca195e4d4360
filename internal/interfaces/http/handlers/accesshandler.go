package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	subdto "genesiscode/internal/application/subscription/dto"
	"genesiscode/internal/domain/access"
	"genesiscode/internal/shared/errors"
	"genesiscode/internal/shared/logger"
	"genesiscode/internal/shared/utils"
)

// AccessDeniedData accompanies a 403 from the access check. Plans is only filled for
// reasons a purchase can resolve.
type AccessDeniedData struct {
	Decision access.Decision  `json:"decision"`
	Plans    []subdto.PlanDTO `json:"plans,omitempty"`
}

// AccessHandler serves the learner-facing read endpoints.
type AccessHandler struct {
	engine    accessEvaluator
	listPlans listCoveringPlansUseCase
	overview  getPathOverviewUseCase
	logger    logger.Interface
}

func NewAccessHandler(
	engine accessEvaluator,
	listPlans listCoveringPlansUseCase,
	overview getPathOverviewUseCase,
	logger logger.Interface,
) *AccessHandler {
	return &AccessHandler{
		engine:    engine,
		listPlans: listPlans,
		overview:  overview,
		logger:    logger,
	}
}

// CheckAccess handles GET /api/paths/:path_id/access
func (h *AccessHandler) CheckAccess(c *gin.Context) {
	userID, err := getUserIDFromContext(c, h.logger)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	q, err := parseAccessQuery(c, userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	decision := h.engine.EvaluateAccess(c.Request.Context(), q)
	if decision.HasAccess {
		utils.SuccessResponse(c, http.StatusOK, "", decision)
		return
	}

	data := AccessDeniedData{Decision: decision}
	if decision.Reason.IsPurchasable() {
		plans, err := h.listPlans.Execute(c.Request.Context(), q.PathID)
		if err != nil {
			// The denial stands without offers.
			h.logger.Warnw("failed to list covering plans", "path_id", q.PathID, "error", err)
		} else {
			data.Plans = plans
		}
	}

	utils.DeniedResponse(c, decision.Reason.String(), data)
}

// GetPathOverview handles GET /api/paths/:path_id
func (h *AccessHandler) GetPathOverview(c *gin.Context) {
	pathID, err := utils.ParseIDParam(c, "path_id", "path")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.overview.Execute(c.Request.Context(), pathID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func parseAccessQuery(c *gin.Context, userID uint) (access.Query, error) {
	pathID, err := utils.ParseIDParam(c, "path_id", "path")
	if err != nil {
		return access.Query{}, err
	}
	levelID, err := utils.ParseOptionalIDQuery(c, "level_id", "level")
	if err != nil {
		return access.Query{}, err
	}
	exerciseID, err := utils.ParseOptionalIDQuery(c, "exercise_id", "exercise")
	if err != nil {
		return access.Query{}, err
	}

	q := access.Query{UserID: userID, PathID: pathID, LevelID: levelID, ExerciseID: exerciseID}
	if err := q.Validate(); err != nil {
		return access.Query{}, errors.NewValidationError("invalid access query", err.Error())
	}
	return q, nil
}
