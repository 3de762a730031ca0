package staff

import (
	"context"

	"github.com/jhoicas/restaurant-api/internal/domain/entity"
	"github.com/jhoicas/restaurant-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que el reemplazo de asignaciones (borrar + insertar) nunca quede a medias.
type TxRunner interface {
	RunStaff(ctx context.Context, fn func(
		users repository.UserRepository,
		assignments repository.RoleAssignmentRepository,
		audit repository.AssignmentAuditRepository,
	) error) error
}

// RosterRole un rol del usuario con los nombres de sus sedes.
type RosterRole struct {
	Role      string
	Locations []string
	IsPrimary bool
}

// RosterEntry fila del listado de personal.
type RosterEntry struct {
	Name   string
	Email  string
	Status string
	Roles  []RosterRole
}

// RosterPDFGenerator genera el PDF del listado de personal.
type RosterPDFGenerator interface {
	GenerateRosterPDF(ctx context.Context, restaurant *entity.Restaurant, entries []RosterEntry) ([]byte, error)
}
