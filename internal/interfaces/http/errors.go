package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/restaurant-api/internal/application/dto"
	"github.com/jhoicas/restaurant-api/internal/domain"
	"github.com/jhoicas/restaurant-api/internal/interfaces/http/metrics"
)

// writeError traduce un error de caso de uso a la respuesta HTTP. Los errores de negocio
// exponen su mensaje; el resto se registra y se responde 500 sin detalles.
func writeError(c *fiber.Ctx, err error) error {
	status, code := classify(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
		msg = "error interno"
	}
	var aborted *domain.TransactionAbortedError
	if errors.As(err, &aborted) {
		log.Warn().Err(err).Str("op", aborted.Op).Msg("transacción revertida")
		msg = "la operación no se completó y no se guardaron cambios, intente de nuevo"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func classify(err error) (int, string) {
	var (
		roleNF  *domain.RoleNotFoundError
		idx     *domain.InvalidLocationIndexError
		dup     *domain.DuplicateRoleAssignmentError
		primary *domain.MultiplePrimaryRolesError
		tenant  *domain.TenantMismatchError
		assign  *domain.RoleNotAssignableError
		aborted *domain.TransactionAbortedError
	)
	switch {
	case errors.As(err, &roleNF):
		return fiber.StatusBadRequest, "ROLE_NOT_FOUND"
	case errors.As(err, &idx):
		return fiber.StatusBadRequest, "INVALID_LOCATION_INDEX"
	case errors.As(err, &dup):
		return fiber.StatusBadRequest, "DUPLICATE_ROLE_ASSIGNMENT"
	case errors.As(err, &primary):
		return fiber.StatusBadRequest, "MULTIPLE_PRIMARY_ROLES"
	case errors.As(err, &tenant):
		return fiber.StatusForbidden, "TENANT_MISMATCH"
	case errors.As(err, &assign):
		return fiber.StatusForbidden, "ROLE_NOT_ASSIGNABLE"
	case errors.As(err, &aborted):
		return fiber.StatusConflict, "TRANSACTION_ABORTED"
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusConflict, "EMAIL_EXISTS"
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrTooManyRequests):
		return fiber.StatusTooManyRequests, "TOO_MANY_REQUESTS"
	default:
		return fiber.StatusInternalServerError, "INTERNAL"
	}
}

// resultOf clasifica el resultado de una operación para las métricas.
func resultOf(err error) string {
	if err == nil {
		return metrics.ResultOK
	}
	status, _ := classify(err)
	return metrics.Result(status)
}
