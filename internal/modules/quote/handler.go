package quote

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
	rg.POST("/deals/:id/quote-items", h.AddItem)
	rg.GET("/deals/:id/quote-items", h.ListItems)
	rg.PUT("/deals/:id/quote-items/:item_id", h.UpdateItem)
	rg.DELETE("/deals/:id/quote-items/:item_id", h.RemoveItem)

	rg.GET("/deals/:id/quotations", h.ListQuotations)
	rg.POST("/deals/:id/quotations/select", h.SelectQuotation)
	rg.POST("/deals/:id/quote-value/recompute", h.Recompute)
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
	case ErrDealNotFound, ErrItemNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case ErrItemNotInDeal:
		response.Error(c, http.StatusUnprocessableEntity, "ITEM_NOT_IN_DEAL", err.Error())
	case ErrEmptyQuote:
		response.Error(c, http.StatusUnprocessableEntity, "EMPTY_QUOTATION", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
	}
}

func (h *Handler) AddItem(c *gin.Context) {
	dealID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	item, err := h.service.AddItem(c.Request.Context(), dealID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, item)
}

func (h *Handler) ListItems(c *gin.Context) {
	dealID, ok := pathID(c, "id")
	if !ok {
		return
	}

	items, err := h.service.ListItems(c.Request.Context(), dealID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) UpdateItem(c *gin.Context) {
	dealID, ok := pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "item_id")
	if !ok {
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	item, err := h.service.UpdateItem(c.Request.Context(), dealID, itemID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, item)
}

func (h *Handler) RemoveItem(c *gin.Context) {
	dealID, ok := pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "item_id")
	if !ok {
		return
	}

	if err := h.service.RemoveItem(c.Request.Context(), dealID, itemID); err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) ListQuotations(c *gin.Context) {
	dealID, ok := pathID(c, "id")
	if !ok {
		return
	}

	quotations, err := h.service.ListQuotations(c.Request.Context(), dealID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, quotations)
}

func (h *Handler) SelectQuotation(c *gin.Context) {
	dealID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req SelectQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	d, err := h.service.SelectQuotation(c.Request.Context(), dealID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, d)
}

func (h *Handler) Recompute(c *gin.Context) {
	dealID, ok := pathID(c, "id")
	if !ok {
		return
	}

	total, err := h.service.RecomputeDealValue(c.Request.Context(), dealID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"quote_value": total})
}
