package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agriassist/agriassist-api/internal/application"
	"github.com/agriassist/agriassist-api/pkg/response"
	"github.com/agriassist/agriassist-api/pkg/validation"
)

type PushHandler struct {
	Svc *application.PushService
}

func NewPushHandler(svc *application.PushService) *PushHandler {
	return &PushHandler{Svc: svc}
}

type registerTokenRequest struct {
	Token    string `json:"token" binding:"required,max=4096"`
	Platform string `json:"platform" binding:"required,platform"`
}

func (h *PushHandler) Register(c *gin.Context) {
	var req registerTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	t, err := h.Svc.Register(c.Request.Context(), userID(c), req.Token, req.Platform)
	if err != nil {
		if errors.Is(err, application.ErrInvalidPlatform) {
			response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "failed to register token", nil)
		return
	}
	response.Success(c, http.StatusCreated, t, "token registered", nil)
}

func (h *PushHandler) Unregister(c *gin.Context) {
	if err := h.Svc.Unregister(c.Request.Context(), userID(c), c.Param("token")); err != nil {
		if errors.Is(err, application.ErrTokenNotFound) {
			response.Error[any](c, http.StatusNotFound, err.Error(), nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "failed to remove token", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"removed": true}, "token removed", nil)
}

func (h *PushHandler) List(c *gin.Context) {
	out, err := h.Svc.List(c.Request.Context(), userID(c))
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to list tokens", nil)
		return
	}
	response.Success(c, http.StatusOK, out, "tokens", nil)
}
