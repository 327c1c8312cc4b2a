package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/agriassist/agriassist-api/internal/ai"
	"github.com/agriassist/agriassist-api/internal/ai/flows"
	"github.com/agriassist/agriassist-api/internal/application"
	"github.com/agriassist/agriassist-api/pkg/response"
	"github.com/agriassist/agriassist-api/pkg/validation"
)

const maxVoiceClipBytes = 10 << 20

type AdvisoryHandler struct {
	Svc    *application.AdvisoryService
	Logger *logrus.Logger
}

func NewAdvisoryHandler(svc *application.AdvisoryService, logger *logrus.Logger) *AdvisoryHandler {
	return &AdvisoryHandler{Svc: svc, Logger: logger}
}

// writeResult puts a successful Result in data and a failed one in error.
func writeResult[T any](c *gin.Context, res application.Result[T]) {
	if res.Success {
		response.Success(c, http.StatusOK, res, "ok", nil)
		return
	}
	response.Error[any](c, res.Status, res.Error, res)
}

func bindFlowInput[T any](c *gin.Context) (T, bool) {
	var in T
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return in, false
	}
	return in, true
}

func (h *AdvisoryHandler) RecommendCrops(c *gin.Context) {
	in, ok := bindFlowInput[flows.CropRecommendationInput](c)
	if !ok {
		return
	}
	writeResult(c, h.Svc.RecommendCrops(c.Request.Context(), in, clientIP(c)))
}

func (h *AdvisoryHandler) DiagnoseDisease(c *gin.Context) {
	in, ok := bindFlowInput[flows.DiseaseDiagnosisInput](c)
	if !ok {
		return
	}
	writeResult(c, h.Svc.DiagnoseCropDisease(c.Request.Context(), in))
}

func (h *AdvisoryHandler) AnalyzeSoil(c *gin.Context) {
	in, ok := bindFlowInput[flows.SoilAnalysisInput](c)
	if !ok {
		return
	}
	writeResult(c, h.Svc.AnalyzeSoil(c.Request.Context(), in))
}

func (h *AdvisoryHandler) MarketPrices(c *gin.Context) {
	in, ok := bindFlowInput[flows.MarketPriceInput](c)
	if !ok {
		return
	}
	writeResult(c, h.Svc.GetMarketPrices(c.Request.Context(), in))
}

func (h *AdvisoryHandler) Chat(c *gin.Context) {
	in, ok := bindFlowInput[flows.ChatInput](c)
	if !ok {
		return
	}
	writeResult(c, h.Svc.Chat(c.Request.Context(), in))
}

// VoiceChat accepts either a JSON body with audioDataUri or a multipart
// upload with an "audio" file part and an optional "language" field.
func (h *AdvisoryHandler) VoiceChat(c *gin.Context) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("audio")
		if err != nil {
			response.Error[any](c, http.StatusBadRequest, "audio file is required", nil)
			return
		}
		if fh.Size > maxVoiceClipBytes {
			response.Error[any](c, http.StatusRequestEntityTooLarge, "audio clip is too large", nil)
			return
		}
		f, err := fh.Open()
		if err != nil {
			response.Error[any](c, http.StatusBadRequest, "cannot read audio file", nil)
			return
		}
		defer func() { _ = f.Close() }()
		clip, err := io.ReadAll(io.LimitReader(f, maxVoiceClipBytes))
		if err != nil {
			response.Error[any](c, http.StatusBadRequest, "cannot read audio file", nil)
			return
		}
		mime := fh.Header.Get("Content-Type")
		if !strings.HasPrefix(mime, "audio/") {
			mime = http.DetectContentType(clip)
		}
		if mime == "video/webm" {
			mime = "audio/webm" // browser recorders
		}
		in := flows.VoiceChatInput{AudioDataURI: ai.EncodeDataURI(mime, clip), Language: c.PostForm("language")}
		writeResult(c, h.Svc.VoiceChat(c.Request.Context(), in))
		return
	}

	in, ok := bindFlowInput[flows.VoiceChatInput](c)
	if !ok {
		return
	}
	writeResult(c, h.Svc.VoiceChat(c.Request.Context(), in))
}

func (h *AdvisoryHandler) News(c *gin.Context) {
	in, ok := bindFlowInput[flows.NewsInput](c)
	if !ok {
		return
	}
	writeResult(c, h.Svc.GenerateNews(c.Request.Context(), in))
}

func (h *AdvisoryHandler) LoanSchemes(c *gin.Context) {
	in, ok := bindFlowInput[flows.LoanSchemeInput](c)
	if !ok {
		return
	}
	writeResult(c, h.Svc.FindLoanSchemes(c.Request.Context(), in))
}
