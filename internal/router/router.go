package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Raman0101/YT-ANALYSIS/internal/handler"
	"github.com/Raman0101/YT-ANALYSIS/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Analyze *handler.AnalyzeHandler
	Health  *handler.HealthHandler
}

// Options carries the cross-cutting pieces of the middleware stack.
type Options struct {
	CORSOrigin  string
	RateLimiter *middleware.RateLimiter
	// Metrics is the gatherer served on /metrics. Nil disables metrics.
	Metrics prometheus.Gatherer
}

// Setup configures the middleware stack and all routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, opts Options) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestID())
	app.Use(middleware.NewRequestLogger())
	if opts.Metrics != nil {
		app.Use(handler.MetricsMiddleware())
		app.Get("/metrics", handler.MetricsHandler(opts.Metrics))
	}
	app.Use(middleware.NewCORS(opts.CORSOrigin))

	// Health checks sit outside the rate limit so orchestrator checks never get 429s.
	app.Get("/health", h.Health.Health)
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)

	api := app.Group("/api")
	if opts.RateLimiter != nil {
		api.Use(opts.RateLimiter.Handler())
	}

	api.Get("/analyze", h.Analyze.Analyze)
}
