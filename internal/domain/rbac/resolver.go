package rbac

import "github.com/jhoicas/restaurant-api/internal/domain/entity"

// ResolveOptions contexto del formulario de asignación.
type ResolveOptions struct {
	// LocationCount ubicaciones activas del restaurante; con exactamente 1 se oculta location_administrator.
	LocationCount int
	// UserRoleIDs roles que el usuario editado ya tiene en otros pares.
	UserRoleIDs []int
	// EditingRoleID rol del par que se está editando (0 = par nuevo); no se excluye.
	EditingRoleID int
}

// CanManageUsers informa si un rango puede administrar usuarios y asignar roles.
func CanManageUsers(callerRank int) bool {
	return callerRank >= RankManager
}

// CanManage informa si el llamador puede editar a un usuario cuyo rol más alto tiene targetRank.
func CanManage(callerRank, targetRank int) bool {
	return CanManageUsers(callerRank) && targetRank <= callerRank
}

// AssignableRoles calcula los roles que un llamador con callerRank puede otorgar.
//
// Regla: nunca superadmin; solo rangos <= callerRank; nada si el llamador está por
// debajo de manager. Para superadmin y restaurant_administrator equivale a "todos
// menos superadmin"; para location_administrator a "todos menos superadmin y
// restaurant_administrator".
func AssignableRoles(callerRank int, catalog *Catalog, opts ResolveOptions) []entity.Role {
	if !CanManageUsers(callerRank) {
		return []entity.Role{}
	}

	taken := make(map[int]bool, len(opts.UserRoleIDs))
	for _, id := range opts.UserRoleIDs {
		if id != opts.EditingRoleID {
			taken[id] = true
		}
	}

	out := make([]entity.Role, 0, len(catalog.roles))
	for _, r := range catalog.roles {
		switch {
		case r.Name == entity.RoleSuperadmin:
			continue
		case r.Rank > callerRank:
			continue
		case r.Name == entity.RoleLocationAdministrator && opts.LocationCount == 1:
			continue
		case taken[r.ID]:
			continue
		}
		out = append(out, r)
	}
	return out
}

// CanAssign informa si roleID está entre los roles asignables del llamador.
// No aplica la exclusión de UserRoleIDs: los duplicados se validan al expandir.
func CanAssign(callerRank int, catalog *Catalog, locationCount, roleID int) bool {
	for _, r := range AssignableRoles(callerRank, catalog, ResolveOptions{LocationCount: locationCount}) {
		if r.ID == roleID {
			return true
		}
	}
	return false
}
