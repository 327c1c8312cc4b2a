package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/agriassist/agriassist-api/config"
	"github.com/agriassist/agriassist-api/internal/ai"
	"github.com/agriassist/agriassist-api/internal/container"
	"github.com/agriassist/agriassist-api/internal/infrastructure/objectstore"
	pginfra "github.com/agriassist/agriassist-api/internal/infrastructure/postgres"
	"github.com/agriassist/agriassist-api/internal/interface/middleware"
	"github.com/agriassist/agriassist-api/internal/router"
	"github.com/agriassist/agriassist-api/pkg/geo"
	"github.com/agriassist/agriassist-api/pkg/helpers"
	"github.com/agriassist/agriassist-api/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	// Initialize Postgres pool
	pool, err := pginfra.NewPool(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	if err := runMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	// Redis
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()

	store, closeStore, err := newObjectStore(ctx, cfg)
	if err != nil {
		logger.WithError(err).Warn("object storage unavailable; avatar uploads disabled")
		store, closeStore = nil, func() {}
	}
	defer closeStore()

	jwtManager := helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.AccessTTL)

	// *ai.Gemini answers ErrNotConfigured when nil, so the API still serves
	// the non-AI routes without a key.
	var generator ai.Generator = (*ai.Gemini)(nil)
	if g, err := ai.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger); err == nil {
		generator = g
	} else if errors.Is(err, ai.ErrNotConfigured) {
		logger.Warn("GEMINI_API_KEY not set; advisory flows will report the service as busy")
	} else {
		log.Fatalf("failed to init generation client: %v", err)
	}

	// RabbitMQ is only needed when reports are actually mailed
	var rabbit *helpers.RabbitPublisher
	if cfg.MailSendEnabled {
		rabbit, err = helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQReportQueue, cfg.AppName)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable; email reports disabled")
			rabbit = nil
		}
	}
	defer rabbit.Close()

	// Elasticsearch is optional; catalog search falls back to postgres
	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			logger.WithError(err).Warn("elasticsearch unavailable; using postgres search")
		} else {
			container.SetES(es)
		}
	}

	// Provide infra singletons to container for registry auto-wiring
	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetPGPool(pool)
	container.SetRedis(rdb)
	container.SetObjectStore(store)
	container.SetJWT(jwtManager)
	container.SetGenerator(generator)
	container.SetGeo(geo.IPAPIResolver{})
	container.SetRabbitPub(rabbit)

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RealIP())
	r.Use(middleware.RequestIDMiddleware())
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsCfg.AllowOrigins) == 0 {
		corsCfg.AllowOrigins = []string{"http://localhost:3000"}
	}
	r.Use(cors.New(corsCfg))
	if cfg.Env == "development" || cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}

	// Registry: auto-register modules using container
	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

// newObjectStore picks the avatar backend from STORAGE_DRIVER.
func newObjectStore(ctx context.Context, cfg *config.Config) (objectstore.Store, func(), error) {
	switch cfg.StorageDriver {
	case "s3":
		client, err := helpers.NewS3Client(ctx, cfg.S3Region, cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey)
		if err != nil {
			return nil, nil, err
		}
		return objectstore.NewS3(client, cfg.S3Bucket, cfg.S3Region, cfg.S3PublicURL), func() {}, nil
	case "gcs", "":
		client, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			return nil, nil, err
		}
		return objectstore.NewGCS(client, cfg.GCSBucket), func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
}

func runMigrations(dsn string, migrationsDir string, logger *logrus.Logger) error {
	// Open sql DB via pgx stdlib
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsDir), "postgres", driver)
	if err != nil {
		return err
	}
	logger.Info("running migrations...")
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}
