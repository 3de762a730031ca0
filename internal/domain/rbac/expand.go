package rbac

import (
	"fmt"
	"strconv"

	"github.com/jhoicas/restaurant-api/internal/domain"
	"github.com/jhoicas/restaurant-api/internal/domain/entity"
)

// IndexedRoleAssignment forma del registro: rol por nombre y ubicaciones por índice
// dentro del arreglo de ubicaciones que se está creando.
type IndexedRoleAssignment struct {
	RoleName      string
	IsPrimaryRole bool
	Locations     []LocationIndex
}

// LocationIndex referencia a una ubicación del arreglo del registro.
type LocationIndex struct {
	Index     int
	IsPrimary bool
}

// RolePair forma de edición: rol ya resuelto y sus ubicaciones.
type RolePair struct {
	RoleID      int
	LocationIDs []string
	IsPrimary   bool
}

// Grant fila de asignación expandida, lista para persistir.
type Grant struct {
	RoleID     int
	RoleName   string
	LocationID string
	IsPrimary  bool
}

// ExpandIndexed expande las asignaciones del registro a una fila por (rol, ubicación).
// La fila principal es la que tiene is_primary_role e is_primary_location.
func ExpandIndexed(in []IndexedRoleAssignment, locations []entity.Location, catalog *Catalog) ([]Grant, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: se requiere al menos un rol", domain.ErrInvalidInput)
	}

	var grants []Grant
	seenRoles := make(map[string]bool, len(in))
	primaryRoles := 0
	preferred := -1 // primera fila del rol principal, por si ninguna ubicación es principal

	for _, a := range in {
		role, ok := catalog.ByName(a.RoleName)
		if !ok {
			return nil, &domain.RoleNotFoundError{Code: a.RoleName}
		}
		if seenRoles[role.Name] {
			return nil, &domain.DuplicateRoleAssignmentError{Role: role.Name}
		}
		seenRoles[role.Name] = true
		if len(a.Locations) == 0 {
			return nil, fmt.Errorf("%w: el rol '%s' no tiene ubicaciones", domain.ErrInvalidInput, role.Name)
		}
		if a.IsPrimaryRole {
			primaryRoles++
			preferred = len(grants)
		}

		seenLocs := make(map[int]bool, len(a.Locations))
		for _, l := range a.Locations {
			if l.Index < 0 || l.Index >= len(locations) {
				return nil, &domain.InvalidLocationIndexError{Index: l.Index, Count: len(locations)}
			}
			if seenLocs[l.Index] {
				return nil, &domain.DuplicateRoleAssignmentError{Role: role.Name, LocationID: locations[l.Index].ID}
			}
			seenLocs[l.Index] = true
			grants = append(grants, Grant{
				RoleID:     role.ID,
				RoleName:   role.Name,
				LocationID: locations[l.Index].ID,
				IsPrimary:  a.IsPrimaryRole && l.IsPrimary,
			})
		}
	}

	if primaryRoles > 1 {
		return nil, &domain.MultiplePrimaryRolesError{Count: primaryRoles}
	}
	return settlePrimary(grants, preferred)
}

// ExpandPairs expande pares ya resueltos (alta o edición por un administrador).
// tenantLocations son las ubicaciones del restaurante del llamador; cualquier otra
// ubicación produce TenantMismatchError. La fila principal es la primera ubicación
// del par marcado como principal.
func ExpandPairs(pairs []RolePair, tenantLocations []entity.Location, catalog *Catalog) ([]Grant, error) {
	if len(pairs) == 0 {
		return nil, fmt.Errorf("%w: se requiere al menos un rol", domain.ErrInvalidInput)
	}

	byID := make(map[string]entity.Location, len(tenantLocations))
	for _, l := range tenantLocations {
		byID[l.ID] = l
	}

	var grants []Grant
	seenRoles := make(map[int]bool, len(pairs))
	primaryPairs := 0
	preferred := -1

	for _, p := range pairs {
		role, ok := catalog.ByID(p.RoleID)
		if !ok {
			return nil, &domain.RoleNotFoundError{Code: strconv.Itoa(p.RoleID)}
		}
		if seenRoles[role.ID] {
			return nil, &domain.DuplicateRoleAssignmentError{Role: role.Name}
		}
		seenRoles[role.ID] = true
		if len(p.LocationIDs) == 0 {
			return nil, fmt.Errorf("%w: el rol '%s' no tiene ubicaciones", domain.ErrInvalidInput, role.Name)
		}
		if p.IsPrimary {
			primaryPairs++
			preferred = len(grants)
		}

		seenLocs := make(map[string]bool, len(p.LocationIDs))
		for i, locID := range p.LocationIDs {
			loc, ok := byID[locID]
			if !ok {
				return nil, &domain.TenantMismatchError{Resource: "ubicación", ID: locID}
			}
			if !loc.IsActive {
				return nil, fmt.Errorf("%w: la ubicación '%s' está inactiva", domain.ErrInvalidInput, loc.Name)
			}
			if seenLocs[locID] {
				return nil, &domain.DuplicateRoleAssignmentError{Role: role.Name, LocationID: locID}
			}
			seenLocs[locID] = true
			grants = append(grants, Grant{
				RoleID:     role.ID,
				RoleName:   role.Name,
				LocationID: locID,
				IsPrimary:  p.IsPrimary && i == 0,
			})
		}
	}

	if primaryPairs > 1 {
		return nil, &domain.MultiplePrimaryRolesError{Count: primaryPairs}
	}
	return settlePrimary(grants, preferred)
}

// settlePrimary garantiza exactamente una fila principal: rechaza varias y, si no hay
// ninguna, promueve preferred (o la primera fila).
func settlePrimary(grants []Grant, preferred int) ([]Grant, error) {
	count := 0
	for _, g := range grants {
		if g.IsPrimary {
			count++
		}
	}
	switch {
	case count > 1:
		return nil, &domain.MultiplePrimaryRolesError{Count: count}
	case count == 0 && len(grants) > 0:
		if preferred < 0 {
			preferred = 0
		}
		grants[preferred].IsPrimary = true
	}
	return grants, nil
}
