// Package rbac contiene el modelo de autorización por rol y ubicación: catálogo de
// roles con jerarquía explícita, resolución de roles asignables, expansión de
// asignaciones a filas y reconstrucción de pares para lectura.
//
// Todas las funciones son puras; la persistencia vive en infrastructure/postgres.
package rbac

import (
	"sort"

	"github.com/jhoicas/restaurant-api/internal/domain/entity"
)

// Rangos del catálogo. La jerarquía es un orden total por Rank.
const (
	RankSuperadmin              = 100
	RankRestaurantAdministrator = 90
	RankLocationAdministrator   = 80
	RankManager                 = 70
	RankCashier                 = 20
	RankStaff                   = 10
)

// DefaultRoles catálogo sembrado por la migración 002_seed_roles.sql (ver cmd/seed_roles).
func DefaultRoles() []entity.Role {
	return []entity.Role{
		{ID: 1, Name: entity.RoleSuperadmin, DisplayName: "Super Administrador", Rank: RankSuperadmin},
		{ID: 2, Name: entity.RoleRestaurantAdministrator, DisplayName: "Administrador del Restaurante", Rank: RankRestaurantAdministrator},
		{ID: 3, Name: entity.RoleLocationAdministrator, DisplayName: "Administrador de Sede", Rank: RankLocationAdministrator},
		{ID: 4, Name: entity.RoleManager, DisplayName: "Gerente", Rank: RankManager},
		{ID: 5, Name: entity.RoleCashier, DisplayName: "Cajero", Rank: RankCashier},
		{ID: 6, Name: entity.RoleWaiter, DisplayName: "Mesero", Rank: RankStaff},
		{ID: 7, Name: entity.RoleKitchen, DisplayName: "Cocina", Rank: RankStaff},
		{ID: 8, Name: entity.RoleBartender, DisplayName: "Bartender", Rank: RankStaff},
	}
}

// Catalog índice en memoria del catálogo de roles. Es de solo lectura.
type Catalog struct {
	roles  []entity.Role
	byName map[string]entity.Role
	byID   map[int]entity.Role
}

// NewCatalog construye el índice. Los roles quedan ordenados por Rank desc y luego DisplayName.
func NewCatalog(roles []entity.Role) *Catalog {
	sorted := make([]entity.Role, len(roles))
	copy(sorted, roles)
	sortRoles(sorted)

	c := &Catalog{
		roles:  sorted,
		byName: make(map[string]entity.Role, len(roles)),
		byID:   make(map[int]entity.Role, len(roles)),
	}
	for _, r := range sorted {
		c.byName[r.Name] = r
		c.byID[r.ID] = r
	}
	return c
}

// DefaultCatalog catálogo estático, útil donde no hay acceso a la DB (middleware).
func DefaultCatalog() *Catalog {
	return NewCatalog(DefaultRoles())
}

// Roles devuelve una copia del catálogo ordenado.
func (c *Catalog) Roles() []entity.Role {
	out := make([]entity.Role, len(c.roles))
	copy(out, c.roles)
	return out
}

// ByName busca un rol por nombre de máquina.
func (c *Catalog) ByName(name string) (entity.Role, bool) {
	r, ok := c.byName[name]
	return r, ok
}

// ByID busca un rol por id.
func (c *Catalog) ByID(id int) (entity.Role, bool) {
	r, ok := c.byID[id]
	return r, ok
}

// Rank devuelve el rango del rol o 0 si no existe.
func (c *Catalog) Rank(name string) int {
	return c.byName[name].Rank
}

// Highest devuelve el rol de mayor jerarquía entre los ids dados.
func (c *Catalog) Highest(roleIDs []int) (entity.Role, bool) {
	var best entity.Role
	found := false
	for _, id := range roleIDs {
		r, ok := c.byID[id]
		if !ok {
			continue
		}
		if !found || r.Rank > best.Rank {
			best = r
			found = true
		}
	}
	return best, found
}

func sortRoles(roles []entity.Role) {
	sort.SliceStable(roles, func(i, j int) bool {
		if roles[i].Rank != roles[j].Rank {
			return roles[i].Rank > roles[j].Rank
		}
		return roles[i].DisplayName < roles[j].DisplayName
	})
}
