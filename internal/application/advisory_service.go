package application

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/agriassist/agriassist-api/internal/ai"
	"github.com/agriassist/agriassist-api/internal/ai/flows"
	"github.com/agriassist/agriassist-api/pkg/geo"
	"github.com/agriassist/agriassist-api/pkg/validation"
)

const ServiceBusyMessage = "The AI service is currently busy. Please try again in a moment."

var flowStats = expvar.NewMap("flows")

// AdvisoryFlows is the set of prompt flows exposed to farmers.
type AdvisoryFlows interface {
	RecommendCrops(ctx context.Context, in flows.CropRecommendationInput) (*flows.CropRecommendationOutput, error)
	DiagnoseCropDisease(ctx context.Context, in flows.DiseaseDiagnosisInput) (*flows.DiseaseDiagnosisOutput, error)
	AnalyzeSoil(ctx context.Context, in flows.SoilAnalysisInput) (*flows.SoilAnalysisOutput, error)
	GetMarketPrices(ctx context.Context, in flows.MarketPriceInput) (*flows.MarketPriceOutput, error)
	Chat(ctx context.Context, in flows.ChatInput) (*flows.ChatOutput, error)
	VoiceChat(ctx context.Context, in flows.VoiceChatInput) (*flows.VoiceChatOutput, error)
	GenerateNews(ctx context.Context, in flows.NewsInput) (*flows.NewsOutput, error)
	FindLoanSchemes(ctx context.Context, in flows.LoanSchemeInput) (*flows.LoanSchemeOutput, error)
}

var _ AdvisoryFlows = (*flows.Flows)(nil)

// Result is what every advisory call hands back to the client: either data or
// a displayable error string.
type Result[T any] struct {
	Success bool              `json:"success"`
	Data    *T                `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Details map[string]string `json:"details,omitempty"`
	Status  int               `json:"-"`
}

type AdvisoryService struct {
	Flows  AdvisoryFlows
	Geo    geo.Resolver
	Logger *logrus.Logger
}

func NewAdvisoryService(f AdvisoryFlows, resolver geo.Resolver, logger *logrus.Logger) *AdvisoryService {
	return &AdvisoryService{Flows: f, Geo: resolver, Logger: logger}
}

// FriendlyError turns a flow failure into the message shown to the farmer.
func FriendlyError(err error) string {
	if err == nil {
		return ""
	}
	var verr *flows.ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}
	if errors.Is(err, ai.ErrNotConfigured) || strings.Contains(err.Error(), "503") {
		return ServiceBusyMessage
	}
	return err.Error()
}

func statusFor(err error) int {
	var verr *flows.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, ai.ErrNotConfigured), strings.Contains(err.Error(), "503"):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func run[T any](ctx context.Context, s *AdvisoryService, name string, call func(context.Context) (*T, error)) (res Result[T]) {
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			res = Result[T]{Error: "unexpected error", Status: http.StatusInternalServerError}
			if s.Logger != nil {
				s.Logger.WithField("flow", name).Errorf("flow panicked: %v", p)
			}
		}
		outcome := "ok"
		if !res.Success {
			outcome = "error"
		}
		flowStats.Add(name+"."+outcome, 1)
		if s.Logger != nil {
			s.Logger.WithFields(logrus.Fields{
				"flow":        name,
				"outcome":     outcome,
				"duration_ms": time.Since(start).Milliseconds(),
			}).Info("flow completed")
		}
	}()

	data, err := call(ctx)
	if err != nil {
		res = Result[T]{Error: FriendlyError(err), Status: statusFor(err)}
		var verr *flows.ValidationError
		if errors.As(err, &verr) {
			res.Details = validation.ToDetails(verr.Err)
		} else if s.Logger != nil {
			s.Logger.WithError(err).WithField("flow", name).Warn("flow failed")
		}
		return res
	}
	return Result[T]{Success: true, Data: data, Status: http.StatusOK}
}

// RecommendCrops falls back to the caller's IP location when none is given.
func (s *AdvisoryService) RecommendCrops(ctx context.Context, in flows.CropRecommendationInput, clientIP string) Result[flows.CropRecommendationOutput] {
	if strings.TrimSpace(in.Location) == "" && s.Geo != nil {
		if g, err := s.Geo.Lookup(ctx, clientIP); err == nil {
			in.Location = geo.Format(g)
		} else if s.Logger != nil {
			s.Logger.WithError(err).Debug(fmt.Sprintf("no location for %s", clientIP))
		}
	}
	return run(ctx, s, "crop_recommendation", func(ctx context.Context) (*flows.CropRecommendationOutput, error) {
		return s.Flows.RecommendCrops(ctx, in)
	})
}

func (s *AdvisoryService) DiagnoseCropDisease(ctx context.Context, in flows.DiseaseDiagnosisInput) Result[flows.DiseaseDiagnosisOutput] {
	return run(ctx, s, "disease_diagnosis", func(ctx context.Context) (*flows.DiseaseDiagnosisOutput, error) {
		return s.Flows.DiagnoseCropDisease(ctx, in)
	})
}

func (s *AdvisoryService) AnalyzeSoil(ctx context.Context, in flows.SoilAnalysisInput) Result[flows.SoilAnalysisOutput] {
	return run(ctx, s, "soil_analysis", func(ctx context.Context) (*flows.SoilAnalysisOutput, error) {
		return s.Flows.AnalyzeSoil(ctx, in)
	})
}

func (s *AdvisoryService) GetMarketPrices(ctx context.Context, in flows.MarketPriceInput) Result[flows.MarketPriceOutput] {
	return run(ctx, s, "market_prices", func(ctx context.Context) (*flows.MarketPriceOutput, error) {
		return s.Flows.GetMarketPrices(ctx, in)
	})
}

func (s *AdvisoryService) Chat(ctx context.Context, in flows.ChatInput) Result[flows.ChatOutput] {
	return run(ctx, s, "chat", func(ctx context.Context) (*flows.ChatOutput, error) {
		return s.Flows.Chat(ctx, in)
	})
}

func (s *AdvisoryService) VoiceChat(ctx context.Context, in flows.VoiceChatInput) Result[flows.VoiceChatOutput] {
	return run(ctx, s, "voice_chat", func(ctx context.Context) (*flows.VoiceChatOutput, error) {
		return s.Flows.VoiceChat(ctx, in)
	})
}

func (s *AdvisoryService) GenerateNews(ctx context.Context, in flows.NewsInput) Result[flows.NewsOutput] {
	return run(ctx, s, "news", func(ctx context.Context) (*flows.NewsOutput, error) {
		return s.Flows.GenerateNews(ctx, in)
	})
}

func (s *AdvisoryService) FindLoanSchemes(ctx context.Context, in flows.LoanSchemeInput) Result[flows.LoanSchemeOutput] {
	return run(ctx, s, "loan_schemes", func(ctx context.Context) (*flows.LoanSchemeOutput, error) {
		return s.Flows.FindLoanSchemes(ctx, in)
	})
}
