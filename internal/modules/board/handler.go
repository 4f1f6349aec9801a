package board

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
	rg.GET("/board/:pipeline_id", h.GetSummary)
	rg.GET("/board/:pipeline_id/deals", h.ListDeals)
}

func pipelineID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("pipeline_id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid pipeline id")
		return 0, false
	}
	return id, true
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch err {
	case ErrPipelineNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
	}
}

func (h *Handler) GetSummary(c *gin.Context) {
	id, ok := pipelineID(c)
	if !ok {
		return
	}

	summary, err := h.service.GetSummary(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, summary)
}

func (h *Handler) ListDeals(c *gin.Context) {
	id, ok := pipelineID(c)
	if !ok {
		return
	}

	deals, err := h.service.ListDeals(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, deals)
}
