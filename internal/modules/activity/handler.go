package activity

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
	rg.POST("/deals/:id/notes", h.AddNote)
	rg.GET("/deals/:id/activities", h.ListByDeal)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch err {
	case ErrValidation:
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case ErrDealNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
	}
}

func dealID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid deal id")
		return 0, false
	}
	return id, true
}

func (h *Handler) AddNote(c *gin.Context) {
	id, ok := dealID(c)
	if !ok {
		return
	}

	var req AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	a, err := h.service.AddNote(c.Request.Context(), id, req.Text)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, a)
}

func (h *Handler) ListByDeal(c *gin.Context) {
	id, ok := dealID(c)
	if !ok {
		return
	}

	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters")
		return
	}

	rows, total, err := h.service.ListByDeal(c.Request.Context(), id, q)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Paginated(c, http.StatusOK, "activities", rows, total)
}
