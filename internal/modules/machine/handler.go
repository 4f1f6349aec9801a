package machine

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
	rg.POST("/deals/:id/machines", h.AddMachine)
	rg.GET("/deals/:id/machines", h.ListByDeal)
	rg.PATCH("/deals/:id/machines/:machine_id", h.UpdateMachine)
	rg.DELETE("/deals/:id/machines/:machine_id", h.RemoveMachine)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch err {
	case ErrValidation:
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case ErrDealNotFound, ErrMachineNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
	}
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+name)
		return 0, false
	}
	return id, true
}

func (h *Handler) AddMachine(c *gin.Context) {
	dealID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req CreateMachineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	m, err := h.service.AddMachine(c.Request.Context(), dealID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, m)
}

func (h *Handler) ListByDeal(c *gin.Context) {
	dealID, ok := pathID(c, "id")
	if !ok {
		return
	}

	machines, err := h.service.ListByDeal(c.Request.Context(), dealID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, machines)
}

func (h *Handler) UpdateMachine(c *gin.Context) {
	dealID, ok := pathID(c, "id")
	if !ok {
		return
	}
	machineID, ok := pathID(c, "machine_id")
	if !ok {
		return
	}

	var req UpdateMachineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	m, err := h.service.UpdateMachine(c.Request.Context(), dealID, machineID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, m)
}

func (h *Handler) RemoveMachine(c *gin.Context) {
	dealID, ok := pathID(c, "id")
	if !ok {
		return
	}
	machineID, ok := pathID(c, "machine_id")
	if !ok {
		return
	}

	if err := h.service.RemoveMachine(c.Request.Context(), dealID, machineID); err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
