package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"cv-review/internal/cache"
	"cv-review/internal/extract"
	"cv-review/internal/llm"
	"cv-review/internal/llm/gemini"
	"cv-review/internal/llm/openai"
	"cv-review/internal/reviews"
	"cv-review/internal/services/health"
	"cv-review/internal/shared/config"
	"cv-review/internal/shared/server"
	"cv-review/internal/shared/storage/db"
	"cv-review/internal/shared/storage/object"
	localstore "cv-review/internal/shared/storage/object/local"
	s3store "cv-review/internal/shared/storage/object/s3"
	"cv-review/internal/shared/telemetry"
)

// App holds shared dependencies.
type App struct {
	Config        config.Config
	Router        *gin.Engine
	DB            *sql.DB
	Store         object.ObjectStore
	Cache         cache.ResponseCache
	LLM           llm.Client
	ReviewsRepo   reviews.Repo
	Pipeline      *reviews.Pipeline
	ReviewService *reviews.Service
	ReviewHandler *reviews.Handler
	Health        *health.Service
}

// Build wires every dependency from cfg and mounts the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, dialect, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	client, err := BuildLLM(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Cache:  buildCache(ctx, cfg),
		LLM:    client,
	}

	if sqlDB != nil {
		app.ReviewsRepo = &reviews.SQLRepo{DB: sqlDB, Dialect: dialect}
	} else {
		app.ReviewsRepo = reviews.NewMemoryRepo()
	}
	app.Pipeline = &reviews.Pipeline{
		Extractor: extract.PDFExtractor{},
		LLM:       app.LLM,
		Cache:     app.Cache,
	}
	app.ReviewService = &reviews.Service{
		Repo:     app.ReviewsRepo,
		Store:    app.Store,
		Pipeline: app.Pipeline,
		Provider: cfg.LLMProvider,
	}
	app.ReviewHandler = reviews.NewHandler(app.ReviewService, cfg.MaxUploadBytes)

	app.Health = health.NewService(healthChecks(app))

	app.Router = server.NewRouter(server.RouterDeps{
		Config:        cfg,
		ReviewHandler: app.ReviewHandler,
		Health:        app.Health,
	})
	return app, nil
}

// Close releases the database and cache connections.
func (a *App) Close() error {
	var firstErr error
	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			firstErr = err
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// BuildLLM returns the analysis client for cfg.LLMProvider, bounded by
// cfg.LLMTimeout when it is positive. Provider "none" yields a client that always
// fails, which surfaces as an analysis error.
func BuildLLM(ctx context.Context, cfg config.Config) (llm.Client, error) {
	var (
		client llm.Client
		err    error
	)
	switch cfg.LLMProvider {
	case "openai":
		client, err = openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.LLMModel)
	case "none":
		client = llm.PlaceholderClient{}
	default:
		client, err = gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.LLMModel)
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Error("bootstrap.llm_unavailable", map[string]any{
				"provider": cfg.LLMProvider,
				"error":    err.Error(),
			})
			return llm.PlaceholderClient{}, nil
		}
		return nil, fmt.Errorf("llm provider %s: %w", cfg.LLMProvider, err)
	}
	return llm.WithTimeout(client, cfg.LLMTimeout), nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, db.Dialect, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Info("bootstrap.memory_repo", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, dialect, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err == nil {
		err = db.RunMigrations(ctx, sqlDB, dialect)
		if err != nil {
			sqlDB.Close()
			err = fmt.Errorf("run migrations: %w", err)
		}
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Error("bootstrap.memory_repo", map[string]any{"reason": "database unavailable", "error": err.Error()})
			return nil, "", nil
		}
		return nil, "", err
	}
	return sqlDB, dialect, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

// buildCache returns nil when Redis is not configured or unreachable; the pipeline
// then calls the analysis client every time.
func buildCache(ctx context.Context, cfg config.Config) cache.ResponseCache {
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	c, err := cache.NewRedisResponseCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CacheTTL, "")
	if err != nil {
		telemetry.Error("bootstrap.cache_disabled", map[string]any{"error": err.Error()})
		return nil
	}
	if p, ok := c.(interface{ Ping(context.Context) error }); ok {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := p.Ping(pingCtx); err != nil {
			telemetry.Error("bootstrap.cache_disabled", map[string]any{"addr": cfg.RedisAddr, "error": err.Error()})
			_ = c.Close()
			return nil
		}
	}
	return c
}

func healthChecks(app *App) map[string]health.Pinger {
	checks := map[string]health.Pinger{}
	if app.DB != nil {
		checks["database"] = app.DB
	}
	if p, ok := app.Cache.(interface{ Ping(context.Context) error }); ok {
		checks["cache"] = health.PingFunc(p.Ping)
	}
	return checks
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
