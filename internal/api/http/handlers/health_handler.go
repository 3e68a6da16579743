package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staffing-service/internal/observability"
)

// HealthHandler exposes liveness/readiness probes and counter snapshots.
type HealthHandler struct {
	ready   func() error
	metrics *observability.Metrics
}

// NewHealthHandler constructs handler. ready may be nil when no dependency
// check is wired.
func NewHealthHandler(ready func() error, metrics *observability.Metrics) *HealthHandler {
	return &HealthHandler{ready: ready, metrics: metrics}
}

// Live GET /health/live.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Ready GET /health/ready.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	if h.ready != nil {
		if err := h.ready(); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "unavailable",
				"reason": err.Error(),
			})
		}
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// Metrics GET /health/metrics.
func (h *HealthHandler) Metrics(c *fiber.Ctx) error {
	requests, errs, transitions := h.metrics.Snapshot()
	return c.JSON(fiber.Map{
		"requests":    requests,
		"errors":      errs,
		"transitions": transitions,
	})
}
