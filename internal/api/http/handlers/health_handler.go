package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/campus-kit/helpdesk-service/internal/observability"
)

// Pinger checks liveness of a backing dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves liveness/readiness probes and the counters endpoint.
type HealthHandler struct {
	deps    map[string]Pinger
	metrics *observability.Metrics
}

// NewHealthHandler constructs handler. Nil pingers are skipped.
func NewHealthHandler(deps map[string]Pinger, metrics *observability.Metrics) *HealthHandler {
	return &HealthHandler{deps: deps, metrics: metrics}
}

// Live GET /health/live.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Ready GET /health/ready.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	checks := fiber.Map{}
	healthy := true
	for name, dep := range h.deps {
		if dep == nil {
			continue
		}
		if err := dep.Ping(c.Context()); err != nil {
			checks[name] = err.Error()
			healthy = false
			continue
		}
		checks[name] = "ok"
	}
	status := fiber.StatusOK
	if !healthy {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(fiber.Map{"status": checks})
}

// Metrics GET /health/metrics.
func (h *HealthHandler) Metrics(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.metrics.Counters()})
}
