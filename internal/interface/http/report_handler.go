package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/agriassist/agriassist-api/internal/application"
	"github.com/agriassist/agriassist-api/pkg/response"
	"github.com/agriassist/agriassist-api/pkg/validation"
)

type ReportHandler struct {
	Svc    *application.ReportService
	Logger *logrus.Logger
}

func NewReportHandler(svc *application.ReportService, logger *logrus.Logger) *ReportHandler {
	return &ReportHandler{Svc: svc, Logger: logger}
}

// Email enqueues a report for delivery by the email worker.
func (h *ReportHandler) Email(c *gin.Context) {
	var req application.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	err := h.Svc.Enqueue(c.Request.Context(), userID(c), clientIP(c), req)
	var verrs validator.ValidationErrors
	switch {
	case err == nil:
		response.Success[any](c, http.StatusAccepted, gin.H{"enqueued": true}, "report enqueued", nil)
	case errors.As(err, &verrs):
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
	case errors.Is(err, application.ErrMailDisabled):
		response.Success[any](c, http.StatusAccepted, gin.H{"enqueued": false, "disabled": true}, "email sending disabled", nil)
	default:
		response.Error[any](c, http.StatusInternalServerError, "failed to enqueue", nil)
	}
}
