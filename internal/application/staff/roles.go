package staff

import (
	"context"

	"github.com/jhoicas/restaurant-api/internal/application/dto"
	"github.com/jhoicas/restaurant-api/internal/domain/entity"
	"github.com/jhoicas/restaurant-api/internal/domain/rbac"
)

// AvailableRoles roles que el llamador puede asignar en el formulario. Con UserID se excluyen
// los roles que ese usuario ya tiene en otros pares, salvo EditingRoleID.
func (uc *StaffUseCase) AvailableRoles(ctx context.Context, caller rbac.Caller, in dto.AvailableRolesRequest) ([]dto.RoleResponse, error) {
	sc, err := uc.loadScope(ctx, caller)
	if err != nil {
		return nil, err
	}
	opts := rbac.ResolveOptions{LocationCount: sc.activeCount, EditingRoleID: in.EditingRoleID}
	if in.UserID != "" {
		if _, err := uc.requireTenantUser(ctx, caller.RestaurantID, in.UserID); err != nil {
			return nil, err
		}
		views, err := uc.assignments.ListByUser(ctx, caller.RestaurantID, in.UserID)
		if err != nil {
			return nil, err
		}
		opts.UserRoleIDs = rbac.RoleIDs(rbac.Reconstruct(views))
	}
	return toRoleResponses(rbac.AssignableRoles(sc.callerRank, sc.catalog, opts)), nil
}

// AvailableLocations sedes activas del restaurante del llamador.
func (uc *StaffUseCase) AvailableLocations(ctx context.Context, caller rbac.Caller) ([]dto.LocationResponse, error) {
	locs, err := uc.locations.ListByRestaurant(ctx, caller.RestaurantID, true)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LocationResponse, 0, len(locs))
	for _, l := range locs {
		out = append(out, ToLocationResponse(l))
	}
	return out, nil
}

// ToLocationResponse mapeo de sede a DTO.
func ToLocationResponse(l entity.Location) dto.LocationResponse {
	return dto.LocationResponse{
		ID:        l.ID,
		Name:      l.Name,
		Slug:      l.Slug,
		Address:   l.Address,
		IsActive:  l.IsActive,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

func toRoleResponses(roles []entity.Role) []dto.RoleResponse {
	out := make([]dto.RoleResponse, 0, len(roles))
	for _, r := range roles {
		out = append(out, dto.RoleResponse{ID: r.ID, Name: r.Name, DisplayName: r.DisplayName, Rank: r.Rank})
	}
	return out
}
