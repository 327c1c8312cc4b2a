package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/agriassist/agriassist-api/internal/interface/http"
	"github.com/agriassist/agriassist-api/internal/interface/middleware"
	"github.com/agriassist/agriassist-api/pkg/helpers"
)

// AdvisoryModule wires the generation-backed endpoints under /api/ai.
// Every route requires auth and shares one per-user budget.
type AdvisoryModule struct {
	Handler   *handlers.AdvisoryHandler
	JWT       *helpers.JWTManager
	Redis     *redis.Client
	PerMinute int
}

func NewAdvisoryModule(h *handlers.AdvisoryHandler, jwt *helpers.JWTManager, rdb *redis.Client, perMinute int) *AdvisoryModule {
	return &AdvisoryModule{Handler: h, JWT: jwt, Redis: rdb, PerMinute: perMinute}
}

func (m *AdvisoryModule) Register(rg *gin.RouterGroup) {
	ai := rg.Group("/ai")
	ai.Use(middleware.Auth(m.JWT))
	ai.Use(middleware.RateLimit(m.Redis, m.PerMinute, time.Minute, middleware.KeyByUserID("ai"), nil))
	{
		ai.POST("/crop-recommendations", m.Handler.RecommendCrops)
		ai.POST("/disease-diagnosis", m.Handler.DiagnoseDisease)
		ai.POST("/soil-analysis", m.Handler.AnalyzeSoil)
		ai.POST("/market-prices", m.Handler.MarketPrices)
		ai.POST("/chat", m.Handler.Chat)
		ai.POST("/voice-chat", m.Handler.VoiceChat)
		ai.POST("/news", m.Handler.News)
		ai.POST("/loan-schemes", m.Handler.LoanSchemes)
	}
}
