package repository

import (
	"context"

	"github.com/jhoicas/restaurant-api/internal/domain/entity"
)

// RoleAssignmentRepository persistencia de la tabla user_role_assignments.
// Las escrituras de un usuario se hacen siempre dentro de una transacción (ver TxRunner).
type RoleAssignmentRepository interface {
	// InsertBatch inserta todas las filas en un solo round-trip. Una tupla
	// (user, role, location) repetida devuelve domain.ErrDuplicate.
	InsertBatch(ctx context.Context, rows []entity.RoleAssignment) error
	// DeleteByUser borra todas las asignaciones del usuario y devuelve las filas borradas.
	DeleteByUser(ctx context.Context, restaurantID, userID string) ([]entity.RoleAssignment, error)
	// ListByUser filas de lectura (unidas con roles y ubicaciones) de un usuario.
	ListByUser(ctx context.Context, restaurantID, userID string) ([]entity.AssignmentView, error)
	// ListByUsers igual que ListByUser para varios usuarios, agrupado por user id.
	ListByUsers(ctx context.Context, restaurantID string, userIDs []string) (map[string][]entity.AssignmentView, error)
	// ActiveRoleIDs ids de rol de las asignaciones activas del usuario.
	ActiveRoleIDs(ctx context.Context, restaurantID, userID string) ([]int, error)
	SetActiveByUser(ctx context.Context, restaurantID, userID string, active bool) error
	// DeleteByLocation borra las asignaciones de una ubicación y devuelve las filas borradas.
	DeleteByLocation(ctx context.Context, restaurantID, locationID string) ([]entity.RoleAssignment, error)
	// PromotePrimary marca como principal la asignación más antigua de cada usuario
	// que se quedó sin principal.
	PromotePrimary(ctx context.Context, restaurantID string, userIDs []string) error
}
