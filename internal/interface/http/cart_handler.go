package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agriassist/agriassist-api/internal/application"
	"github.com/agriassist/agriassist-api/internal/domain/entity"
	"github.com/agriassist/agriassist-api/pkg/response"
	"github.com/agriassist/agriassist-api/pkg/validation"
)

type CartHandler struct {
	Svc *application.CartService
}

func NewCartHandler(svc *application.CartService) *CartHandler {
	return &CartHandler{Svc: svc}
}

type addItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"omitempty,min=1,max=999"`
}

type updateItemRequest struct {
	Quantity *int `json:"quantity" binding:"required,max=999"`
}

func (h *CartHandler) writeErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, application.ErrProductNotFound), errors.Is(err, application.ErrItemNotInCart):
		response.Error[any](c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, entity.ErrInvalidQuantity):
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
	default:
		response.Error[any](c, http.StatusInternalServerError, "cart unavailable", nil)
	}
}

func (h *CartHandler) Get(c *gin.Context) {
	v, err := h.Svc.Get(c.Request.Context(), userID(c))
	if err != nil {
		h.writeErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, v, "cart", nil)
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	v, err := h.Svc.Add(c.Request.Context(), userID(c), req.ProductID, req.Quantity)
	if err != nil {
		h.writeErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, v, "item added", nil)
}

// UpdateItem sets the quantity; zero or less removes the line.
func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	v, err := h.Svc.UpdateQuantity(c.Request.Context(), userID(c), c.Param("productId"), *req.Quantity)
	if err != nil {
		h.writeErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, v, "cart updated", nil)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	v, err := h.Svc.Remove(c.Request.Context(), userID(c), c.Param("productId"))
	if err != nil {
		h.writeErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, v, "item removed", nil)
}

func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.Svc.Clear(c.Request.Context(), userID(c)); err != nil {
		h.writeErr(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"cleared": true}, "cart cleared", nil)
}
