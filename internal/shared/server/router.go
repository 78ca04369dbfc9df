package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cv-review/internal/reviews"
	"cv-review/internal/services/health"
	"cv-review/internal/shared/config"
	"cv-review/internal/shared/metrics"
	"cv-review/internal/shared/server/middleware"
	"cv-review/internal/shared/server/respond"
)

// RouterDeps collects the handlers the router mounts.
type RouterDeps struct {
	Config        config.Config
	ReviewHandler *reviews.Handler
	Health        *health.Service
	// Limiter backs the submit rate limit; nil uses a fresh limiter.
	Limiter *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		ok, status := deps.Health.Status(c.Request.Context())
		if !ok {
			respond.JSON(c, http.StatusServiceUnavailable, gin.H{"ok": false, "dependencies": status})
			return
		}
		respond.OK(c, gin.H{"ok": true, "dependencies": status})
	})

	if deps.ReviewHandler != nil {
		limit := middleware.RateLimit(middleware.RateLimitConfig{
			Rule:    middleware.PerMinute(deps.Config.RateLimitPerMinute),
			Limiter: deps.Limiter,
		})
		deps.ReviewHandler.RegisterRoutes(api, limit)
	}

	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "not_found", "route not found", nil)
	})

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
