package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bug-tracker/internal/api/dto"
	"github.com/spec-kit/bug-tracker/internal/observability"
	"github.com/spec-kit/bug-tracker/internal/persistence"
)

// HealthHandler exposes liveness and readiness probes plus a metrics dump.
type HealthHandler struct {
	postgres *persistence.Postgres
	redis    *persistence.Redis
	metrics  *observability.Metrics
}

// NewHealthHandler constructs handler.
func NewHealthHandler(pg *persistence.Postgres, rd *persistence.Redis, metrics *observability.Metrics) *HealthHandler {
	return &HealthHandler{postgres: pg, redis: rd, metrics: metrics}
}

// Live GET /health/live.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(dto.OK("alive", nil))
}

// Ready GET /health/ready checks downstream connectivity.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	checks := map[string]string{}
	healthy := true

	if pool := h.postgres.PoolHandle(); pool != nil {
		if err := pool.Ping(c.Context()); err != nil {
			checks["postgres"] = err.Error()
			healthy = false
		} else {
			checks["postgres"] = "ok"
		}
	} else {
		checks["postgres"] = "not configured"
		healthy = false
	}

	if err := h.redis.Ping(c.Context()); err != nil {
		checks["redis"] = err.Error()
		healthy = false
	} else {
		checks["redis"] = "ok"
	}

	if !healthy {
		return c.Status(http.StatusServiceUnavailable).JSON(dto.Fail("not ready", checks))
	}
	return c.JSON(dto.OK("ready", checks))
}

// Metrics GET /health/metrics returns in-process counters.
func (h *HealthHandler) Metrics(c *fiber.Ctx) error {
	requests, errs := h.metrics.Snapshot()
	return c.JSON(dto.OK("metrics", fiber.Map{
		"requests": requests,
		"errors":   errs,
	}))
}
