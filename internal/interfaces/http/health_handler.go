package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthCheck verifica una dependencia (base de datos, Redis).
type HealthCheck func(ctx context.Context) error

// HealthHandler sondas de vida y de disponibilidad.
type HealthHandler struct {
	checks map[string]HealthCheck
}

// NewHealthHandler recibe las dependencias a verificar en /health/ready, por nombre.
func NewHealthHandler(checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Liveness godoc
// @Summary  Proceso vivo
// @Tags     health
// @Success  200
// @Router   /health [get]
func (h *HealthHandler) Liveness(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Readiness godoc
// @Summary  Dependencias disponibles
// @Tags     health
// @Success  200  {object}  readinessResponse
// @Failure  503  {object}  readinessResponse
// @Router   /health/ready [get]
func (h *HealthHandler) Readiness(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus, len(h.checks))
	healthy := true
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			deps[name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
			continue
		}
		deps[name] = dependencyStatus{Status: "ok"}
	}

	if !healthy {
		return c.Status(fiber.StatusServiceUnavailable).JSON(readinessResponse{Status: "degraded", Dependencies: deps})
	}
	return c.JSON(readinessResponse{Status: "ok", Dependencies: deps})
}
