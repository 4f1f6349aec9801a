package catalog

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

// RegisterRoutes mounts the read side for everyone; RegisterAdminRoutes
// mounts the mutating side, meant to sit behind the admin-only middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/loss-reasons", h.ListLossReasons)
	rg.GET("/performance-reasons", h.ListPerformanceReasons)
	rg.GET("/brands", h.ListBrands)
	rg.GET("/brands/:id/models", h.ListModels)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/loss-reasons", h.CreateLossReason)
	rg.PATCH("/loss-reasons/:id/active", h.SetLossReasonActive)
	rg.POST("/performance-reasons", h.CreatePerformanceReason)
	rg.PATCH("/performance-reasons/:id/active", h.SetPerformanceReasonActive)
	rg.POST("/brands", h.CreateBrand)
	rg.PATCH("/brands/:id/active", h.SetBrandActive)
	rg.POST("/brands/:id/models", h.CreateModel)
	rg.PATCH("/models/:id/active", h.SetModelActive)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch err {
	case ErrValidation:
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case ErrEntryNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid id")
		return 0, false
	}
	return id, true
}

func includeInactive(c *gin.Context) bool {
	return c.Query("include_inactive") == "true"
}

func (h *Handler) CreateLossReason(c *gin.Context) {
	var req CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	lr, err := h.service.CreateLossReason(c.Request.Context(), req.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, lr)
}

func (h *Handler) ListLossReasons(c *gin.Context) {
	rows, err := h.service.ListLossReasons(c.Request.Context(), includeInactive(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rows)
}

func (h *Handler) SetLossReasonActive(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if err := h.service.SetLossReasonActive(c.Request.Context(), id, *req.Active); err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"active": *req.Active})
}

func (h *Handler) CreatePerformanceReason(c *gin.Context) {
	var req CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	pr, err := h.service.CreatePerformanceReason(c.Request.Context(), req.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, pr)
}

func (h *Handler) ListPerformanceReasons(c *gin.Context) {
	rows, err := h.service.ListPerformanceReasons(c.Request.Context(), includeInactive(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rows)
}

func (h *Handler) SetPerformanceReasonActive(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if err := h.service.SetPerformanceReasonActive(c.Request.Context(), id, *req.Active); err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"active": *req.Active})
}

func (h *Handler) CreateBrand(c *gin.Context) {
	var req CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.CreateBrand(c.Request.Context(), req.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, b)
}

func (h *Handler) ListBrands(c *gin.Context) {
	rows, err := h.service.ListBrands(c.Request.Context(), includeInactive(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rows)
}

func (h *Handler) SetBrandActive(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if err := h.service.SetBrandActive(c.Request.Context(), id, *req.Active); err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"active": *req.Active})
}

func (h *Handler) CreateModel(c *gin.Context) {
	brandID, ok := pathID(c)
	if !ok {
		return
	}

	var req CreateModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	m, err := h.service.CreateModel(c.Request.Context(), brandID, req.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, m)
}

func (h *Handler) ListModels(c *gin.Context) {
	brandID, ok := pathID(c)
	if !ok {
		return
	}

	rows, err := h.service.ListModelsByBrand(c.Request.Context(), brandID, includeInactive(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rows)
}

func (h *Handler) SetModelActive(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if err := h.service.SetModelActive(c.Request.Context(), id, *req.Active); err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"active": *req.Active})
}
