package staff

import (
	"context"

	"github.com/jhoicas/restaurant-api/internal/domain"
	"github.com/jhoicas/restaurant-api/internal/domain/rbac"
	"github.com/jhoicas/restaurant-api/internal/domain/repository"
)

const rosterPageSize = 100

// RosterPDF genera el listado de personal del restaurante del llamador.
func (uc *StaffUseCase) RosterPDF(ctx context.Context, caller rbac.Caller) ([]byte, error) {
	restaurant, err := uc.restaurants.GetByID(ctx, caller.RestaurantID)
	if err != nil {
		return nil, err
	}
	if restaurant == nil {
		return nil, domain.ErrNotFound
	}

	var entries []RosterEntry
	for offset := 0; ; offset += rosterPageSize {
		users, total, err := uc.users.List(ctx, caller.RestaurantID, repository.UserFilter{Limit: rosterPageSize, Offset: offset})
		if err != nil {
			return nil, err
		}
		byUser, err := uc.assignments.ListByUsers(ctx, caller.RestaurantID, userIDs(users))
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			entry := RosterEntry{Name: u.Name, Email: u.Email, Status: u.Status}
			for _, g := range rbac.Reconstruct(byUser[u.ID]) {
				entry.Roles = append(entry.Roles, RosterRole{
					Role:      g.RoleDisplayName,
					Locations: g.LocationNames,
					IsPrimary: g.IsPrimary,
				})
			}
			entries = append(entries, entry)
		}
		if len(users) == 0 || offset+len(users) >= total {
			break
		}
	}
	return uc.roster.GenerateRosterPDF(ctx, restaurant, entries)
}
