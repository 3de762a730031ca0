package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/restaurant-api/internal/application/dto"
	"github.com/jhoicas/restaurant-api/internal/domain/rbac"
	"github.com/jhoicas/restaurant-api/pkg/jwt"
)

// Locals keys para la identidad del token en Fiber.
const (
	LocalUserID       = "user_id"
	LocalRestaurantID = "restaurant_id"
	LocalRole         = "role"
)

// AuthMiddleware valida el Bearer Token JWT y carga UserID, RestaurantID y Role en c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		if claims.UserID == "" || claims.RestaurantID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token sin identidad de usuario o restaurante"})
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalRestaurantID, claims.RestaurantID)
		c.Locals(LocalRole, claims.Role)
		return c.Next()
	}
}

// RequireRole deja pasar solo si el rol del token es uno de roles. Va después de AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no incluye rol"})
		}
		if _, ok := allowed[role]; !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin acceso a este recurso"})
		}
		return c.Next()
	}
}

// callerRanker jerarquía vigente del llamador según la base (staff.StaffUseCase).
type callerRanker interface {
	CallerRank(ctx context.Context, caller rbac.Caller) (int, error)
}

// RequireMinRole deja pasar roles con jerarquía mayor o igual a la de minRole.
// El claim del token filtra primero; con ranks no nil la jerarquía se vuelve a calcular desde
// las asignaciones activas, así un token de un usuario desactivado o degradado no autoriza.
func RequireMinRole(minRole string, ranks callerRanker) fiber.Handler {
	catalog := rbac.DefaultCatalog()
	minRank := catalog.Rank(minRole)
	forbidden := dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin acceso a este recurso"}
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no incluye rol"})
		}
		if catalog.Rank(role) < minRank {
			return c.Status(fiber.StatusForbidden).JSON(forbidden)
		}
		if ranks == nil {
			return c.Next()
		}
		rank, err := ranks.CallerRank(c.UserContext(), GetCaller(c))
		if err != nil {
			return writeError(c, err)
		}
		if rank < minRank {
			return c.Status(fiber.StatusForbidden).JSON(forbidden)
		}
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	return localString(c, LocalUserID)
}

// GetRestaurantID devuelve el tenant del token.
func GetRestaurantID(c *fiber.Ctx) string {
	return localString(c, LocalRestaurantID)
}

// GetRole devuelve el rol del token.
func GetRole(c *fiber.Ctx) string {
	return localString(c, LocalRole)
}

// GetCaller arma la identidad que consumen los casos de uso.
func GetCaller(c *fiber.Ctx) rbac.Caller {
	return rbac.Caller{UserID: GetUserID(c), RestaurantID: GetRestaurantID(c), Role: GetRole(c)}
}

func localString(c *fiber.Ctx, key string) string {
	v := c.Locals(key)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
