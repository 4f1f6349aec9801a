package pipeline

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
	rg.POST("/pipelines", h.CreatePipeline)
	rg.GET("/pipelines", h.ListPipelines)
	rg.GET("/pipelines/:id", h.GetPipeline)
	rg.PATCH("/pipelines/:id", h.UpdatePipeline)
	rg.DELETE("/pipelines/:id", h.DeletePipeline)
	rg.POST("/pipelines/:id/default", h.SetDefault)

	rg.GET("/pipelines/:id/stages", h.ListStages)
	rg.POST("/pipelines/:id/stages", h.CreateStage)
	rg.PATCH("/pipelines/:id/stages/:stage_id", h.UpdateStage)
	rg.DELETE("/pipelines/:id/stages/:stage_id", h.DeleteStage)
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+name)
		return 0, false
	}
	return id, true
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch err {
	case ErrValidation:
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case ErrPipelineNotFound, ErrStageNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case ErrPipelineInUse, ErrStageInUse:
		response.Error(c, http.StatusConflict, "IN_USE", err.Error())
	case ErrDefaultPipeline:
		response.Error(c, http.StatusConflict, "DEFAULT_PIPELINE", err.Error())
	case ErrFixedStages:
		response.Error(c, http.StatusConflict, "FIXED_STAGES", err.Error())
	case ErrSystemStage:
		response.Error(c, http.StatusConflict, "SYSTEM_STAGE", err.Error())
	case ErrOrderTaken:
		response.Error(c, http.StatusConflict, "ORDER_TAKEN", err.Error())
	case ErrStageTypeTaken:
		response.Error(c, http.StatusConflict, "STAGE_TYPE_TAKEN", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
	}
}

func (h *Handler) CreatePipeline(c *gin.Context) {
	var req CreatePipelineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	p, err := h.service.CreatePipeline(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, p)
}

func (h *Handler) ListPipelines(c *gin.Context) {
	pipelines, err := h.service.ListPipelines(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, pipelines)
}

func (h *Handler) GetPipeline(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	p, err := h.service.GetPipeline(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

func (h *Handler) UpdatePipeline(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdatePipelineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	p, err := h.service.UpdatePipeline(c.Request.Context(), id, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

func (h *Handler) DeletePipeline(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeletePipeline(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) SetDefault(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	p, err := h.service.SetDefaultPipeline(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

func (h *Handler) ListStages(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	stages, err := h.service.ListStages(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, stages)
}

func (h *Handler) CreateStage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req CreateStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	stage, err := h.service.CreateStage(c.Request.Context(), id, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, stage)
}

func (h *Handler) UpdateStage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	stageID, ok := pathID(c, "stage_id")
	if !ok {
		return
	}

	var req UpdateStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	stage, err := h.service.UpdateStage(c.Request.Context(), id, stageID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, stage)
}

func (h *Handler) DeleteStage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	stageID, ok := pathID(c, "stage_id")
	if !ok {
		return
	}

	if err := h.service.DeleteStage(c.Request.Context(), id, stageID); err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
