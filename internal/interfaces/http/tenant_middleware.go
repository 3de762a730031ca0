package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/restaurant-api/internal/application/dto"
)

// tenantChecker es el contrato mínimo para saber si el restaurante del token sigue activo.
// Lo implementa *usecase.RestaurantUseCase.
type tenantChecker interface {
	IsActive(ctx context.Context, restaurantID string) (bool, error)
}

// RequireActiveRestaurant bloquea las peticiones de un restaurante suspendido o inexistente.
// Debe usarse DESPUÉS de AuthMiddleware (necesita LocalRestaurantID).
//
//   - 401 si no hay restaurant_id en el contexto.
//   - 503 si no se pudo consultar el estado.
//   - 403 si el restaurante está suspendido.
func RequireActiveRestaurant(checker tenantChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID := GetRestaurantID(c)
		if restaurantID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "restaurant_id no encontrado en el token",
			})
		}

		active, err := checker.IsActive(c.UserContext(), restaurantID)
		if err != nil {
			log.Error().Err(err).Str("restaurant_id", restaurantID).Msg("no se pudo verificar el estado del restaurante")
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "TENANT_CHECK_FAILED",
				Message: "no se pudo verificar el restaurante, intente más tarde",
			})
		}
		if !active {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "RESTAURANT_SUSPENDED",
				Message: "el restaurante está suspendido",
			})
		}
		return c.Next()
	}
}
