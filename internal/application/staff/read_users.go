package staff

import (
	"context"

	"github.com/jhoicas/restaurant-api/internal/application/dto"
	"github.com/jhoicas/restaurant-api/internal/domain/entity"
	"github.com/jhoicas/restaurant-api/internal/domain/rbac"
	"github.com/jhoicas/restaurant-api/internal/domain/repository"
)

// GetUser obtiene un usuario del restaurante del llamador con sus roles reconstruidos.
func (uc *StaffUseCase) GetUser(ctx context.Context, caller rbac.Caller, id string) (*dto.UserResponse, error) {
	user, err := uc.requireTenantUser(ctx, caller.RestaurantID, id)
	if err != nil {
		return nil, err
	}
	views, err := uc.assignments.ListByUser(ctx, caller.RestaurantID, id)
	if err != nil {
		return nil, err
	}
	out := ToUserResponse(user, views)
	return &out, nil
}

// ListUsers lista los usuarios del restaurante del llamador. El tenant sale siempre de caller,
// nunca de los filtros.
func (uc *StaffUseCase) ListUsers(ctx context.Context, caller rbac.Caller, in dto.UserListRequest) (*dto.UserListResponse, error) {
	in.DefaultPage()
	users, total, err := uc.users.List(ctx, caller.RestaurantID, repository.UserFilter{
		Status:     in.Status,
		RoleID:     in.RoleID,
		LocationID: in.LocationID,
		Search:     in.Search,
		Limit:      in.Limit,
		Offset:     in.Offset,
	})
	if err != nil {
		return nil, err
	}
	byUser, err := uc.assignments.ListByUsers(ctx, caller.RestaurantID, userIDs(users))
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, ToUserResponse(u, byUser[u.ID]))
	}
	return &dto.UserListResponse{
		Items: items,
		Page:  in.Page(total),
	}, nil
}

// History historial de asignaciones del usuario (incluye usuarios ya eliminados), del más
// reciente al más antiguo. limit fuera de 1..dto.MaxPageLimit usa dto.MaxPageLimit.
func (uc *StaffUseCase) History(ctx context.Context, caller rbac.Caller, id string, limit int) ([]dto.AssignmentAuditResponse, error) {
	sc, err := uc.loadScope(ctx, caller)
	if err != nil {
		return nil, err
	}
	if err := sc.requireManager(); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > dto.MaxPageLimit {
		limit = dto.MaxPageLimit
	}
	entries, err := uc.audit.ListByUser(ctx, caller.RestaurantID, id, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AssignmentAuditResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.AssignmentAuditResponse{
			RoleID:     e.RoleID,
			LocationID: e.LocationID,
			Action:     e.Action,
			ActorID:    e.ActorID,
			CreatedAt:  e.CreatedAt,
		})
	}
	return out, nil
}

func userIDs(users []*entity.User) []string {
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}
