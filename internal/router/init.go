package router

import (
	"context"

	"github.com/agriassist/agriassist-api/internal/ai/flows"
	"github.com/agriassist/agriassist-api/internal/application"
	"github.com/agriassist/agriassist-api/internal/container"
	pginfra "github.com/agriassist/agriassist-api/internal/infrastructure/postgres"
	"github.com/agriassist/agriassist-api/internal/infrastructure/redisstore"
	handlers "github.com/agriassist/agriassist-api/internal/interface/http"
	"github.com/agriassist/agriassist-api/internal/router/modules"
)

type AccountDeps struct {
	Profile *handlers.ProfileHandler
	Cart    *handlers.CartHandler
	Push    *handlers.PushHandler
	Report  *handlers.ReportHandler
}

func buildAdvisoryHandler() *handlers.AdvisoryHandler {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	f := flows.New(container.GetGenerator(), flows.Options{
		Model:    cfg.GeminiModel,
		TTSModel: cfg.GeminiTTSModel,
		Voice:    cfg.GeminiTTSVoice,
	}, logger)
	svc := application.NewAdvisoryService(f, container.GetGeo(), logger)
	return handlers.NewAdvisoryHandler(svc, logger)
}

func buildCatalog() (*application.CatalogService, *handlers.CatalogHandler) {
	cfg := container.GetConfig()
	products := pginfra.NewProductRepository(container.GetPGPool())
	svc := application.NewCatalogService(products, container.GetES(), cfg.ESProductsIndex, container.GetLogger())
	return svc, handlers.NewCatalogHandler(svc)
}

func buildAccountDeps() AccountDeps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	profiles := application.NewProfileService(
		pginfra.NewProfileRepository(pool),
		container.GetObjectStore(),
		cfg.MaxAvatarBytes,
		logger,
	)
	carts := application.NewCartService(
		redisstore.NewCartStore(container.GetRedis(), cfg.CartTTL),
		pginfra.NewProductRepository(pool),
		logger,
	)
	push := application.NewPushService(pginfra.NewPushTokenRepository(pool))

	// a nil *RabbitPublisher must not reach the interface
	var pub application.Publisher
	if rp := container.GetRabbitPub(); rp != nil {
		pub = rp
	}
	reports := application.NewReportService(cfg, pub, container.GetGeo(), logger)

	return AccountDeps{
		Profile: handlers.NewProfileHandler(profiles, logger),
		Cart:    handlers.NewCartHandler(carts),
		Push:    handlers.NewPushHandler(push),
		Report:  handlers.NewReportHandler(reports, logger),
	}
}

func buildHealthHandler() *handlers.HealthHandler {
	checks := map[string]handlers.Pinger{}
	if pool := container.GetPGPool(); pool != nil {
		checks["postgres"] = handlers.PingFunc(pool.Ping)
	}
	if rdb := container.GetRedis(); rdb != nil {
		checks["redis"] = handlers.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}
	return handlers.NewHealthHandler(checks)
}

// InitModules wires every feature module from the container singletons.
// Call once during startup, after the container is populated.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	jwt := container.GetJWT()
	rdb := container.GetRedis()

	r.Add(modules.NewHealthModule(buildHealthHandler()))

	_, catalog := buildCatalog()
	r.Add(modules.NewCatalogModule(catalog, rdb))

	r.Add(modules.NewAdvisoryModule(buildAdvisoryHandler(), jwt, rdb, cfg.AIRateLimitPerMin))

	acc := buildAccountDeps()
	r.Add(modules.NewAccountModule(acc.Profile, acc.Cart, acc.Push, acc.Report, jwt, rdb))

	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(rdb, cfg.DebugCIDRs()))
	}
}
