package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/agriassist/agriassist-api/internal/interface/http"
	"github.com/agriassist/agriassist-api/internal/interface/middleware"
)

type CatalogModule struct {
	Handler *handlers.CatalogHandler
	Redis   *redis.Client
}

func NewCatalogModule(h *handlers.CatalogHandler, rdb *redis.Client) *CatalogModule {
	return &CatalogModule{Handler: h, Redis: rdb}
}

func (m *CatalogModule) Register(rg *gin.RouterGroup) {
	// Public, per-IP limited
	rl := middleware.RateLimit(m.Redis, 300, time.Minute, middleware.KeyByIP(), nil)
	rg.GET("/products", rl, m.Handler.List)
	rg.GET("/products/search", rl, m.Handler.Search)
	rg.GET("/products/:id", rl, m.Handler.Get)
}
