package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/agriassist/agriassist-api/internal/interface/http"
	"github.com/agriassist/agriassist-api/internal/interface/middleware"
	"github.com/agriassist/agriassist-api/pkg/helpers"
)

// AccountModule wires the per-user resources: profile, cart, push tokens
// and emailed reports. All routes are protected.
type AccountModule struct {
	Profile *handlers.ProfileHandler
	Cart    *handlers.CartHandler
	Push    *handlers.PushHandler
	Report  *handlers.ReportHandler
	JWT     *helpers.JWTManager
	Redis   *redis.Client
}

func NewAccountModule(profile *handlers.ProfileHandler, cart *handlers.CartHandler, push *handlers.PushHandler, report *handlers.ReportHandler, jwt *helpers.JWTManager, rdb *redis.Client) *AccountModule {
	return &AccountModule{Profile: profile, Cart: cart, Push: push, Report: report, JWT: jwt, Redis: rdb}
}

func (m *AccountModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(
		middleware.RateLimit(m.Redis, 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.POST("/profile/session", m.Profile.Session)
		auth.GET("/profile", m.Profile.Get)
		auth.PUT("/profile", m.Profile.Update)
		auth.POST("/profile/avatar", m.Profile.UploadAvatar)

		auth.GET("/cart", m.Cart.Get)
		auth.POST("/cart/items", m.Cart.AddItem)
		auth.PUT("/cart/items/:productId", m.Cart.UpdateItem)
		auth.DELETE("/cart/items/:productId", m.Cart.RemoveItem)
		auth.DELETE("/cart", m.Cart.Clear)

		auth.POST("/push/tokens", m.Push.Register)
		auth.DELETE("/push/tokens/:token", m.Push.Unregister)
		auth.GET("/push/tokens", m.Push.List)
	}

	// Reports get a tighter budget since each one sends an email
	reports := auth.Group("/reports")
	reports.Use(middleware.RateLimit(m.Redis, 10, time.Hour, middleware.KeyByUserID("reports"), nil))
	reports.POST("/email", m.Report.Email)
}
