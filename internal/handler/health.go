package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
)

// Pinger is a dependency that can report its reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	cacheLen      func() int
	apiConfigured bool
	redis         Pinger
	startAt       time.Time
}

// NewHealthHandler builds the health endpoints. redis may be nil when rate
// limit counters are kept in memory.
func NewHealthHandler(cacheLen func() int, apiConfigured bool, redis Pinger) *HealthHandler {
	return &HealthHandler{
		cacheLen:      cacheLen,
		apiConfigured: apiConfigured,
		redis:         redis,
		startAt:       time.Now(),
	}
}

// Health handles GET /health.
func (h *HealthHandler) Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"ok": true})
}

// Live handles GET /health/live: liveness check.
func (h *HealthHandler) Live(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Ready handles GET /health/ready: readiness with dependency checks.
// A missing API key makes the service unready since every analysis would fail.
func (h *HealthHandler) Ready(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
	defer cancel()

	checks := make(fiber.Map)
	overallStatus := "healthy"

	if h.apiConfigured {
		checks["youtube_api_key"] = fiber.Map{"status": "configured"}
	} else {
		checks["youtube_api_key"] = fiber.Map{"status": "missing"}
		overallStatus = "unhealthy"
	}

	redisCheck := checkRedis(ctx, h.redis)
	checks["redis"] = redisCheck
	if redisCheck["status"] == "down" && overallStatus == "healthy" {
		overallStatus = "degraded"
	}

	checks["cache"] = fiber.Map{"status": "up", "entries": h.cacheLen()}

	resp := fiber.Map{
		"status":         overallStatus,
		"checks":         checks,
		"uptime_seconds": int(time.Since(h.startAt).Seconds()),
		"version":        "1.0.0",
	}

	status := fiber.StatusOK
	if overallStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(resp)
}

func checkRedis(ctx context.Context, rdb Pinger) fiber.Map {
	if rdb == nil {
		return fiber.Map{
			"status": "disabled",
		}
	}

	start := time.Now()
	err := rdb.Ping(ctx)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		return fiber.Map{
			"status":     "down",
			"latency_ms": latency,
			"error":      "connection failed",
		}
	}
	return fiber.Map{
		"status":     "up",
		"latency_ms": latency,
	}
}
