package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/heardesk/complaint-service/internal/config"
	"github.com/heardesk/complaint-service/internal/persistence"
)

// HealthHandler responds to liveness and readiness probes and serves the
// landing payload.
type HealthHandler struct {
	serviceName string
	version     string
	mode        config.StorageMode
	postgres    *persistence.Postgres
	redis       *persistence.Redis
}

// NewHealthHandler returns a new handler instance. postgres and redis may be
// nil in local mode.
func NewHealthHandler(serviceName, version string, mode config.StorageMode, postgres *persistence.Postgres, redis *persistence.Redis) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, mode: mode, postgres: postgres, redis: redis}
}

// Landing reports the service identity at GET /.
func (h *HealthHandler) Landing(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service":      h.serviceName,
		"version":      h.version,
		"storage_mode": h.mode,
	})
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports service readiness by checking dependencies. Local mode has
// none, so it is always ready.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	if h.mode == config.StorageModeLocal {
		return c.JSON(fiber.Map{"status": "ready", "dependencies": fiber.Map{}})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	depStatus := fiber.Map{}
	ready := true

	if err := h.postgres.Ping(ctx); err != nil {
		depStatus["postgres"] = err.Error()
		ready = false
	} else {
		depStatus["postgres"] = "ok"
	}

	if err := h.redis.Ping(ctx); err != nil {
		depStatus["redis"] = err.Error()
		ready = false
	} else {
		depStatus["redis"] = "ok"
	}

	if ready {
		return c.JSON(fiber.Map{
			"status":       "ready",
			"dependencies": depStatus,
		})
	}

	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "DEPENDENCY_UNAVAILABLE",
			"message": "one or more dependencies unavailable",
			"details": depStatus,
		},
	})
}
