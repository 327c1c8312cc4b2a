package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/agriassist/agriassist-api/internal/interface/middleware"
)

type DebugModule struct {
	Redis   *redis.Client
	Trusted []string // CIDRs that bypass the limiter besides private networks
}

func NewDebugModule(rdb *redis.Client, trusted []string) *DebugModule {
	return &DebugModule{Redis: rdb, Trusted: trusted}
}

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	// expvar (flow counters included), rate-limited per IP
	allow := middleware.AllowAny(middleware.AllowPrivateIP(), middleware.AllowCIDRs(m.Trusted...))
	rl := middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByIP(), allow)
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}
