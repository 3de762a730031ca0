// Package staff contiene los casos de uso de administración de personal: alta, edición y
// baja de usuarios con sus asignaciones rol-sede, y las consultas que alimentan el
// formulario de asignación.
package staff

import (
	"context"
	"fmt"

	"github.com/jhoicas/restaurant-api/internal/application/dto"
	"github.com/jhoicas/restaurant-api/internal/domain"
	"github.com/jhoicas/restaurant-api/internal/domain/entity"
	"github.com/jhoicas/restaurant-api/internal/domain/rbac"
	"github.com/jhoicas/restaurant-api/internal/domain/repository"
)

// StaffUseCase aplica las reglas de negocio de usuarios y asignaciones.
// Toda operación se limita al restaurante del llamador (rbac.Caller.RestaurantID).
type StaffUseCase struct {
	users       repository.UserRepository
	assignments repository.RoleAssignmentRepository
	audit       repository.AssignmentAuditRepository
	roles       repository.RoleRepository
	locations   repository.LocationRepository
	restaurants repository.RestaurantRepository
	tx          TxRunner
	roster      RosterPDFGenerator
}

// NewStaffUseCase construye el caso de uso con sus puertos.
func NewStaffUseCase(
	users repository.UserRepository,
	assignments repository.RoleAssignmentRepository,
	audit repository.AssignmentAuditRepository,
	roles repository.RoleRepository,
	locations repository.LocationRepository,
	restaurants repository.RestaurantRepository,
	tx TxRunner,
	roster RosterPDFGenerator,
) *StaffUseCase {
	return &StaffUseCase{
		users:       users,
		assignments: assignments,
		audit:       audit,
		roles:       roles,
		locations:   locations,
		restaurants: restaurants,
		tx:          tx,
		roster:      roster,
	}
}

// scope datos del restaurante que necesitan el resolver y el writer.
type scope struct {
	catalog     *rbac.Catalog
	locations   []entity.Location // todas, incluidas las inactivas
	activeCount int
	callerRank  int
}

// loadScope carga catálogo, sedes y el rango real del llamador. El rango se recalcula desde
// sus asignaciones activas: el rol del token puede estar desactualizado.
func (uc *StaffUseCase) loadScope(ctx context.Context, caller rbac.Caller) (*scope, error) {
	if caller.RestaurantID == "" || caller.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	catalog, err := uc.catalog(ctx)
	if err != nil {
		return nil, err
	}

	locs, err := uc.locations.ListByRestaurant(ctx, caller.RestaurantID, false)
	if err != nil {
		return nil, err
	}
	active := 0
	for _, l := range locs {
		if l.IsActive {
			active++
		}
	}

	rank, err := uc.currentRank(ctx, catalog, caller)
	if err != nil {
		return nil, err
	}
	return &scope{catalog: catalog, locations: locs, activeCount: active, callerRank: rank}, nil
}

// CallerRank jerarquía vigente del llamador según sus asignaciones activas en la base.
// Un usuario desactivado, eliminado o sin asignaciones tiene rango 0.
func (uc *StaffUseCase) CallerRank(ctx context.Context, caller rbac.Caller) (int, error) {
	if caller.RestaurantID == "" || caller.UserID == "" {
		return 0, domain.ErrUnauthorized
	}
	catalog, err := uc.catalog(ctx)
	if err != nil {
		return 0, err
	}
	return uc.currentRank(ctx, catalog, caller)
}

func (uc *StaffUseCase) catalog(ctx context.Context) (*rbac.Catalog, error) {
	roles, err := uc.roles.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		return nil, fmt.Errorf("catálogo de roles vacío")
	}
	return rbac.NewCatalog(roles), nil
}

func (uc *StaffUseCase) currentRank(ctx context.Context, catalog *rbac.Catalog, caller rbac.Caller) (int, error) {
	roleIDs, err := uc.assignments.ActiveRoleIDs(ctx, caller.RestaurantID, caller.UserID)
	if err != nil {
		return 0, err
	}
	if best, ok := catalog.Highest(roleIDs); ok {
		return best.Rank, nil
	}
	return 0, nil
}

// requireManager exige rango de gestión de usuarios.
func (s *scope) requireManager() error {
	if !rbac.CanManageUsers(s.callerRank) {
		return fmt.Errorf("%w: se requiere rol de gerente o superior", domain.ErrForbidden)
	}
	return nil
}

// expand valida los pares pedidos contra el tenant y la jerarquía del llamador.
func (s *scope) expand(pairs []dto.RoleLocationPair) ([]rbac.Grant, error) {
	in := make([]rbac.RolePair, 0, len(pairs))
	for _, p := range pairs {
		in = append(in, rbac.RolePair{RoleID: p.RoleID, LocationIDs: p.LocationIDs, IsPrimary: p.IsPrimary})
	}
	grants, err := rbac.ExpandPairs(in, s.locations, s.catalog)
	if err != nil {
		return nil, err
	}
	for _, g := range grants {
		if !rbac.CanAssign(s.callerRank, s.catalog, s.activeCount, g.RoleID) {
			return nil, &domain.RoleNotAssignableError{Role: g.RoleName}
		}
	}
	return grants, nil
}

// targetRank rango más alto del usuario objetivo según sus asignaciones actuales.
func (s *scope) targetRank(views []entity.AssignmentView) int {
	rank := 0
	for _, v := range views {
		if v.RoleRank > rank {
			rank = v.RoleRank
		}
	}
	return rank
}

// requireTenantUser carga el usuario del restaurante o devuelve ErrUserNotFound.
func (uc *StaffUseCase) requireTenantUser(ctx context.Context, restaurantID, id string) (*entity.User, error) {
	user, err := uc.users.GetByID(ctx, restaurantID, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// ToUserResponse arma la salida de un usuario reconstruyendo sus pares rol-sedes.
func ToUserResponse(u *entity.User, views []entity.AssignmentView) dto.UserResponse {
	groups := rbac.Reconstruct(views)
	out := dto.UserResponse{
		ID:           u.ID,
		RestaurantID: u.RestaurantID,
		Email:        u.Email,
		Name:         u.Name,
		Status:       u.Status,
		Roles:        make([]dto.UserRoleResponse, 0, len(groups)),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
	for _, g := range groups {
		out.Roles = append(out.Roles, dto.UserRoleResponse{
			RoleID:            g.RoleID,
			RoleName:          g.RoleName,
			RoleDisplayName:   g.RoleDisplayName,
			LocationIDs:       g.LocationIDs,
			LocationNames:     g.LocationNames,
			IsPrimary:         g.IsPrimary,
			PrimaryLocationID: g.PrimaryLocationID,
		})
	}
	if p, ok := rbac.Primary(groups); ok {
		out.PrimaryRole = p.RoleName
		out.PrimaryLocationID = p.PrimaryLocationID
	}
	return out
}
