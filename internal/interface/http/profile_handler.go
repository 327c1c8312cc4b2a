package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/agriassist/agriassist-api/internal/application"
	"github.com/agriassist/agriassist-api/internal/infrastructure/objectstore"
	"github.com/agriassist/agriassist-api/internal/interface/middleware"
	"github.com/agriassist/agriassist-api/pkg/response"
	"github.com/agriassist/agriassist-api/pkg/validation"
)

type ProfileHandler struct {
	Svc    *application.ProfileService
	Logger *logrus.Logger
}

func NewProfileHandler(svc *application.ProfileService, logger *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{Svc: svc, Logger: logger}
}

type completeSetupRequest struct {
	DisplayName string `json:"displayName" binding:"required,min=2,max=60"`
	Age         int    `json:"age" binding:"required,min=10,max=120"`
	PhotoURL    string `json:"photoURL" binding:"omitempty,url"`
}

// Session creates the profile on first sign-in.
func (h *ProfileHandler) Session(c *gin.Context) {
	p, err := h.Svc.EnsureProfile(c.Request.Context(), userID(c), c.GetString(middleware.CtxPhoneKey))
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to load profile", nil)
		return
	}
	response.Success(c, http.StatusOK, p, "session", map[string]any{"needsSetup": !p.ProfileComplete})
}

func (h *ProfileHandler) Get(c *gin.Context) {
	p, err := h.Svc.Get(c.Request.Context(), userID(c))
	if err != nil {
		if errors.Is(err, application.ErrProfileNotFound) {
			response.Error[any](c, http.StatusNotFound, "profile not found", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "failed to load profile", nil)
		return
	}
	response.Success(c, http.StatusOK, p, "profile", nil)
}

func (h *ProfileHandler) Update(c *gin.Context) {
	var req completeSetupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.Svc.CompleteSetup(c.Request.Context(), userID(c), application.CompleteSetupInput{
		DisplayName: req.DisplayName,
		Age:         req.Age,
		PhotoURL:    req.PhotoURL,
	})
	if err != nil {
		var verrs validator.ValidationErrors
		switch {
		case errors.Is(err, application.ErrProfileNotFound):
			response.Error[any](c, http.StatusNotFound, "profile not found", nil)
		case errors.As(err, &verrs):
			response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		default:
			response.Error[any](c, http.StatusInternalServerError, "failed to update profile", nil)
		}
		return
	}
	response.Success(c, http.StatusOK, p, "profile updated", nil)
}

func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	fh, err := c.FormFile("avatar")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "avatar file is required", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "cannot read avatar file", nil)
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Svc.UploadAvatar(c.Request.Context(), userID(c), f, fh.Size)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrImageTooLarge):
			response.Error[any](c, http.StatusRequestEntityTooLarge, err.Error(), nil)
		case errors.Is(err, application.ErrUnsupportedImage):
			response.Error[any](c, http.StatusUnsupportedMediaType, err.Error(), nil)
		case errors.Is(err, application.ErrProfileNotFound):
			response.Error[any](c, http.StatusNotFound, "profile not found", nil)
		case errors.Is(err, objectstore.ErrNotConfigured):
			response.Error[any](c, http.StatusServiceUnavailable, "avatar storage not configured", nil)
		default:
			response.Error[any](c, http.StatusInternalServerError, "failed to upload avatar", nil)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"photoURL": url}, "avatar uploaded", nil)
}
