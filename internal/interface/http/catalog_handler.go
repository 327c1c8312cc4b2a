package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/agriassist/agriassist-api/internal/application"
	"github.com/agriassist/agriassist-api/pkg/response"
)

type CatalogHandler struct {
	Svc *application.CatalogService
}

func NewCatalogHandler(svc *application.CatalogService) *CatalogHandler {
	return &CatalogHandler{Svc: svc}
}

func (h *CatalogHandler) List(c *gin.Context) {
	out, err := h.Svc.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to list products", nil)
		return
	}
	response.Success(c, http.StatusOK, out, "products", map[string]any{"count": len(out)})
}

func (h *CatalogHandler) Get(c *gin.Context) {
	p, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, application.ErrProductNotFound) {
			response.Error[any](c, http.StatusNotFound, "product not found", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "failed to load product", nil)
		return
	}
	response.Success(c, http.StatusOK, p, "product", nil)
}

func (h *CatalogHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	out, err := h.Svc.Search(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "search failed", nil)
		return
	}
	response.Success(c, http.StatusOK, out, "search results", map[string]any{"count": len(out)})
}
