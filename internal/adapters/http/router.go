package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-manager/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-manager/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quote-manager/internal/platform/config"
	"github.com/jsamuelsen/quote-manager/internal/platform/telemetry"
)

// DefaultRequestTimeout bounds API requests when RouterConfig.Timeout is zero.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig contains the handlers and settings the router wires.
type RouterConfig struct {
	Logger *slog.Logger

	// ServiceName names the server spans.
	ServiceName string

	// Auth guards mutating routes when Auth.Enabled.
	Auth config.AuthConfig

	Health *handlers.HealthHandler
	Quotes *handlers.QuoteHandler
	Form   *handlers.FormHandler

	Timeout time.Duration
}

// SetupRouter installs the middleware chain and the routes on engine.
//
// Middleware order:
//  1. Recovery
//  2. Context logger, request id, correlation id
//  3. OpenTelemetry
//  4. Request logging (skips /-/)
//  5. Timeout (API only)
//  6. Auth (mutating API routes, when enabled)
//
// Routes:
//   - /-/       probes and metrics, never authenticated
//   - /api/v1/  the quote collection and the shared form
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.ContextLogger(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
	)
	engine.Use(telemetry.Middleware(cfg.ServiceName)...)
	engine.Use(middleware.Logging())

	if cfg.Health != nil {
		cfg.Health.RegisterHealthRoutesOnEngine(engine)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	api := engine.Group("/api/v1", middleware.Timeout(timeout))

	write := api.Group("")
	if cfg.Auth.Enabled {
		write.Use(middleware.RequireAuth(&cfg.Auth))
	}

	if cfg.Quotes != nil {
		cfg.Quotes.RegisterQuoteRoutes(api, write)
	}

	if cfg.Form != nil {
		cfg.Form.RegisterFormRoutes(api, write)
	}
}
