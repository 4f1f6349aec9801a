package deal

import (
	"net/http"
	"strconv"

	"pipecrm/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/deals", h.CreateDeal)
	rg.GET("/deals", h.ListDeals)
	rg.GET("/deals/:id", h.GetDeal)
	rg.PATCH("/deals/:id", h.UpdateDeal)
	rg.DELETE("/deals/:id", h.DeleteDeal)

	rg.POST("/deals/:id/move", h.MoveToStage)
	rg.POST("/deals/:id/switch-pipeline", h.SwitchPipeline)
	rg.POST("/deals/:id/outcome", h.SetSaleOutcome)
	rg.POST("/deals/:id/reopen", h.ReopenDeal)
	rg.GET("/deals/:id/history", h.StageTimeline)
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid deal id")
		return 0, false
	}
	return id, true
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch err {
	case ErrValidation, ErrInvalidOutcome:
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case ErrStageNotInPipeline:
		response.Error(c, http.StatusUnprocessableEntity, "STAGE_NOT_IN_PIPELINE", err.Error())
	case ErrPipelineEmpty:
		response.Error(c, http.StatusUnprocessableEntity, "PIPELINE_EMPTY", err.Error())
	case ErrDealNotFound, ErrLeadNotFound, ErrStageNotFound, ErrPipelineNotFound, ErrLossReasonNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
	}
}

func (h *Handler) CreateDeal(c *gin.Context) {
	var req CreateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	d, err := h.service.CreateDeal(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, d)
}

func (h *Handler) ListDeals(c *gin.Context) {
	ctx := c.Request.Context()

	if v := c.Query("pipeline_id"); v != "" {
		pipelineID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid pipeline id")
			return
		}
		deals, err := h.service.ListByPipeline(ctx, pipelineID)
		if err != nil {
			h.respondError(c, err)
			return
		}
		response.Success(c, http.StatusOK, deals)
		return
	}

	if v := c.Query("lead_id"); v != "" {
		leadID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid lead id")
			return
		}
		deals, err := h.service.ListByLead(ctx, leadID)
		if err != nil {
			h.respondError(c, err)
			return
		}
		response.Success(c, http.StatusOK, deals)
		return
	}

	response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "pipeline_id or lead_id query parameter is required")
}

func (h *Handler) GetDeal(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	d, err := h.service.GetDeal(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, d)
}

func (h *Handler) UpdateDeal(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req UpdateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	d, err := h.service.UpdateDeal(c.Request.Context(), id, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, d)
}

func (h *Handler) DeleteDeal(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.service.DeleteDeal(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) MoveToStage(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	d, err := h.service.MoveToStage(c.Request.Context(), id, req.StageID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, d)
}

func (h *Handler) SwitchPipeline(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req SwitchPipelineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	d, err := h.service.SwitchPipeline(c.Request.Context(), id, req.PipelineID, req.StageID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, d)
}

func (h *Handler) SetSaleOutcome(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req OutcomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	d, err := h.service.SetSaleOutcome(c.Request.Context(), id, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, d)
}

func (h *Handler) ReopenDeal(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	d, err := h.service.ReopenDeal(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, d)
}

func (h *Handler) StageTimeline(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	rows, err := h.service.StageTimeline(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rows)
}
