package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"legaldoc-backend/internal/analytics"
	googleauth "legaldoc-backend/internal/auth"
	"legaldoc-backend/internal/documents"
	"legaldoc-backend/internal/services/health"
	"legaldoc-backend/internal/shared/config"
	"legaldoc-backend/internal/shared/metrics"
	"legaldoc-backend/internal/shared/server/middleware"
	"legaldoc-backend/internal/shared/server/respond"
	"legaldoc-backend/internal/simplify"
	"legaldoc-backend/internal/uploads"
	"legaldoc-backend/internal/users"
)

// RouterDeps carries the handlers wired by bootstrap. Nil handlers are
// skipped so partial deployments (worker-only, no auth) still route.
type RouterDeps struct {
	Config           config.Config
	Health           *health.Service
	DocumentsHandler *documents.Handler
	SimplifyHandler  *simplify.Handler
	AnalyticsHandler *analytics.Handler
	UsersHandler     *users.Handler
	GoogleAuth       *googleauth.GoogleService
	EnablePresign    bool
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Identity(),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules:    middleware.DefaultRules(),
			GroupFor: middleware.GroupForPath,
		}),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			respond.JSON(c, http.StatusOK, gin.H{"status": "healthy", "version": config.Version})
			return
		}
		respond.JSON(c, http.StatusOK, deps.Health.Status(
			c.Request.Context(),
			"api", "storage", "ai_service", "analytics",
		))
	})

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.UsersHandler != nil {
		deps.UsersHandler.RegisterRoutes(api)
	}
	if deps.DocumentsHandler != nil {
		deps.DocumentsHandler.RegisterRoutes(api)
	}
	if deps.SimplifyHandler != nil {
		deps.SimplifyHandler.RegisterRoutes(api)
	}
	if deps.AnalyticsHandler != nil {
		deps.AnalyticsHandler.RegisterRoutes(api)
	}
	if deps.EnablePresign {
		uploads.RegisterRoutes(api)
	}

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
