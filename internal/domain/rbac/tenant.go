package rbac

import (
	"strings"

	"github.com/jhoicas/restaurant-api/internal/domain"
	"github.com/jhoicas/restaurant-api/internal/domain/entity"
)

// Caller identidad autenticada tal como llega en el JWT.
type Caller struct {
	UserID       string
	RestaurantID string
	Role         string
}

// MatchesTenant informa si el restaurante (resuelto por subdominio) corresponde al tenant
// del usuario. subdomain vacío solo compara ids.
func MatchesTenant(userRestaurantID string, restaurant *entity.Restaurant, subdomain string) bool {
	if restaurant == nil || restaurant.ID != userRestaurantID {
		return false
	}
	return subdomain == "" || strings.EqualFold(restaurant.Subdomain, subdomain)
}

// CheckTenant devuelve TenantMismatchError si el recurso no es del restaurante del llamador.
func CheckTenant(callerRestaurantID, resourceRestaurantID, resource, id string) error {
	if callerRestaurantID == "" || callerRestaurantID != resourceRestaurantID {
		return &domain.TenantMismatchError{Resource: resource, ID: id}
	}
	return nil
}
