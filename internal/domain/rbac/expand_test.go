package rbac_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/restaurant-api/internal/domain"
	"github.com/jhoicas/restaurant-api/internal/domain/entity"
	"github.com/jhoicas/restaurant-api/internal/domain/rbac"
)

func locations(n int) []entity.Location {
	out := make([]entity.Location, n)
	for i := range out {
		out[i] = entity.Location{
			ID:           fmt.Sprintf("loc-%d", i),
			RestaurantID: "r1",
			Name:         fmt.Sprintf("Sede %d", i),
			IsActive:     true,
		}
	}
	return out
}

func primaryCount(grants []rbac.Grant) int {
	n := 0
	for _, g := range grants {
		if g.IsPrimary {
			n++
		}
	}
	return n
}

// Restaurante de una sede: un administrador en la sede 0, principal.
func TestExpandIndexed_EscenarioUnaSede(t *testing.T) {
	c := rbac.DefaultCatalog()
	locs := locations(1)

	grants, err := rbac.ExpandIndexed([]rbac.IndexedRoleAssignment{{
		RoleName:      entity.RoleRestaurantAdministrator,
		IsPrimaryRole: true,
		Locations:     []rbac.LocationIndex{{Index: 0, IsPrimary: true}},
	}}, locs, c)

	require.NoError(t, err)
	require.Len(t, grants, 1)
	assert.Equal(t, entity.RoleRestaurantAdministrator, grants[0].RoleName)
	assert.Equal(t, "loc-0", grants[0].LocationID)
	assert.True(t, grants[0].IsPrimary)
}

// Restaurante de tres sedes: un rol en tres sedes, solo la sede 0 es principal.
func TestExpandIndexed_EscenarioTresSedes(t *testing.T) {
	c := rbac.DefaultCatalog()
	locs := locations(3)

	grants, err := rbac.ExpandIndexed([]rbac.IndexedRoleAssignment{{
		RoleName:      entity.RoleRestaurantAdministrator,
		IsPrimaryRole: true,
		Locations: []rbac.LocationIndex{
			{Index: 0, IsPrimary: true},
			{Index: 1, IsPrimary: false},
			{Index: 2, IsPrimary: false},
		},
	}}, locs, c)

	require.NoError(t, err)
	require.Len(t, grants, 3)
	assert.True(t, grants[0].IsPrimary)
	assert.False(t, grants[1].IsPrimary)
	assert.False(t, grants[2].IsPrimary)
	assert.Equal(t, []string{"loc-0", "loc-1", "loc-2"}, []string{grants[0].LocationID, grants[1].LocationID, grants[2].LocationID})
}

func TestExpandIndexed_FilasIgualASumaDeUbicaciones(t *testing.T) {
	c := rbac.DefaultCatalog()
	locs := locations(3)

	cases := []struct {
		name string
		in   []rbac.IndexedRoleAssignment
		want int
	}{
		{
			name: "1 rol x 3 sedes",
			in: []rbac.IndexedRoleAssignment{{RoleName: entity.RoleManager, IsPrimaryRole: true, Locations: []rbac.LocationIndex{{0, true}, {1, false}, {2, false}}}},
			want: 3,
		},
		{
			name: "2 roles x 1 sede",
			in: []rbac.IndexedRoleAssignment{
				{RoleName: entity.RoleManager, IsPrimaryRole: true, Locations: []rbac.LocationIndex{{0, true}}},
				{RoleName: entity.RoleWaiter, Locations: []rbac.LocationIndex{{1, false}}},
			},
			want: 2,
		},
		{
			name: "3 roles mezclados",
			in: []rbac.IndexedRoleAssignment{
				{RoleName: entity.RoleManager, Locations: []rbac.LocationIndex{{0, false}, {2, false}}},
				{RoleName: entity.RoleWaiter, IsPrimaryRole: true, Locations: []rbac.LocationIndex{{1, true}}},
				{RoleName: entity.RoleKitchen, Locations: []rbac.LocationIndex{{0, false}, {1, false}, {2, false}}},
			},
			want: 6,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			grants, err := rbac.ExpandIndexed(tc.in, locs, c)
			require.NoError(t, err)
			assert.Len(t, grants, tc.want)
			assert.Equal(t, 1, primaryCount(grants), "exactamente una fila principal")
		})
	}
}

func TestExpandIndexed_SinPrincipalPromueveRolPrincipal(t *testing.T) {
	c := rbac.DefaultCatalog()
	grants, err := rbac.ExpandIndexed([]rbac.IndexedRoleAssignment{
		{RoleName: entity.RoleWaiter, Locations: []rbac.LocationIndex{{0, false}}},
		{RoleName: entity.RoleManager, IsPrimaryRole: true, Locations: []rbac.LocationIndex{{1, false}}},
	}, locations(2), c)

	require.NoError(t, err)
	assert.False(t, grants[0].IsPrimary)
	assert.True(t, grants[1].IsPrimary, "la primera fila del rol principal")
}

func TestExpandIndexed_SinNingunaMarcaPromueveLaPrimera(t *testing.T) {
	c := rbac.DefaultCatalog()
	grants, err := rbac.ExpandIndexed([]rbac.IndexedRoleAssignment{
		{RoleName: entity.RoleWaiter, Locations: []rbac.LocationIndex{{1, false}, {0, false}}},
	}, locations(2), c)

	require.NoError(t, err)
	assert.True(t, grants[0].IsPrimary)
	assert.Equal(t, 1, primaryCount(grants))
}

func TestExpandIndexed_Errores(t *testing.T) {
	c := rbac.DefaultCatalog()
	locs := locations(2)

	t.Run("rol inexistente", func(t *testing.T) {
		_, err := rbac.ExpandIndexed([]rbac.IndexedRoleAssignment{{RoleName: "owner", Locations: []rbac.LocationIndex{{0, true}}}}, locs, c)
		var target *domain.RoleNotFoundError
		require.True(t, errors.As(err, &target))
		assert.Equal(t, "rol con código 'owner' no encontrado", err.Error())
	})

	t.Run("índice fuera de rango", func(t *testing.T) {
		for _, idx := range []int{2, -1} {
			_, err := rbac.ExpandIndexed([]rbac.IndexedRoleAssignment{{RoleName: entity.RoleWaiter, Locations: []rbac.LocationIndex{{idx, true}}}}, locs, c)
			var target *domain.InvalidLocationIndexError
			require.True(t, errors.As(err, &target), "índice %d", idx)
			assert.Equal(t, 2, target.Count)
		}
	})

	t.Run("rol repetido", func(t *testing.T) {
		_, err := rbac.ExpandIndexed([]rbac.IndexedRoleAssignment{
			{RoleName: entity.RoleWaiter, IsPrimaryRole: true, Locations: []rbac.LocationIndex{{0, true}}},
			{RoleName: entity.RoleWaiter, Locations: []rbac.LocationIndex{{1, false}}},
		}, locs, c)
		var target *domain.DuplicateRoleAssignmentError
		assert.True(t, errors.As(err, &target))
	})

	t.Run("ubicación repetida en un rol", func(t *testing.T) {
		_, err := rbac.ExpandIndexed([]rbac.IndexedRoleAssignment{
			{RoleName: entity.RoleWaiter, Locations: []rbac.LocationIndex{{0, true}, {0, false}}},
		}, locs, c)
		var target *domain.DuplicateRoleAssignmentError
		require.True(t, errors.As(err, &target))
		assert.Equal(t, "loc-0", target.LocationID)
	})

	t.Run("varios roles principales", func(t *testing.T) {
		_, err := rbac.ExpandIndexed([]rbac.IndexedRoleAssignment{
			{RoleName: entity.RoleWaiter, IsPrimaryRole: true, Locations: []rbac.LocationIndex{{0, true}}},
			{RoleName: entity.RoleKitchen, IsPrimaryRole: true, Locations: []rbac.LocationIndex{{1, true}}},
		}, locs, c)
		var target *domain.MultiplePrimaryRolesError
		assert.True(t, errors.As(err, &target))
	})

	t.Run("varias ubicaciones principales", func(t *testing.T) {
		_, err := rbac.ExpandIndexed([]rbac.IndexedRoleAssignment{
			{RoleName: entity.RoleWaiter, IsPrimaryRole: true, Locations: []rbac.LocationIndex{{0, true}, {1, true}}},
		}, locs, c)
		var target *domain.MultiplePrimaryRolesError
		require.True(t, errors.As(err, &target))
		assert.Equal(t, 2, target.Count)
	})

	t.Run("rol sin ubicaciones", func(t *testing.T) {
		_, err := rbac.ExpandIndexed([]rbac.IndexedRoleAssignment{{RoleName: entity.RoleWaiter}}, locs, c)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("sin roles", func(t *testing.T) {
		_, err := rbac.ExpandIndexed(nil, locs, c)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestExpandPairs(t *testing.T) {
	c := rbac.DefaultCatalog()
	locs := locations(3)
	manager, _ := c.ByName(entity.RoleManager)
	waiter, _ := c.ByName(entity.RoleWaiter)

	grants, err := rbac.ExpandPairs([]rbac.RolePair{
		{RoleID: waiter.ID, LocationIDs: []string{"loc-2"}},
		{RoleID: manager.ID, LocationIDs: []string{"loc-1", "loc-0"}, IsPrimary: true},
	}, locs, c)

	require.NoError(t, err)
	require.Len(t, grants, 3)
	assert.Equal(t, 1, primaryCount(grants))
	assert.True(t, grants[1].IsPrimary)
	assert.Equal(t, "loc-1", grants[1].LocationID, "la primera ubicación del par principal")
}

func TestExpandPairs_Errores(t *testing.T) {
	c := rbac.DefaultCatalog()
	locs := locations(2)
	waiter, _ := c.ByName(entity.RoleWaiter)
	kitchen, _ := c.ByName(entity.RoleKitchen)

	t.Run("ubicación de otro restaurante", func(t *testing.T) {
		_, err := rbac.ExpandPairs([]rbac.RolePair{{RoleID: waiter.ID, LocationIDs: []string{"loc-otro-tenant"}}}, locs, c)
		var target *domain.TenantMismatchError
		require.True(t, errors.As(err, &target))
		assert.Equal(t, "loc-otro-tenant", target.ID)
	})

	t.Run("rol inexistente", func(t *testing.T) {
		_, err := rbac.ExpandPairs([]rbac.RolePair{{RoleID: 999, LocationIDs: []string{"loc-0"}}}, locs, c)
		var target *domain.RoleNotFoundError
		require.True(t, errors.As(err, &target))
		assert.Equal(t, "999", target.Code)
	})

	t.Run("rol repetido", func(t *testing.T) {
		_, err := rbac.ExpandPairs([]rbac.RolePair{
			{RoleID: waiter.ID, LocationIDs: []string{"loc-0"}},
			{RoleID: waiter.ID, LocationIDs: []string{"loc-1"}},
		}, locs, c)
		var target *domain.DuplicateRoleAssignmentError
		assert.True(t, errors.As(err, &target))
	})

	t.Run("varios pares principales", func(t *testing.T) {
		_, err := rbac.ExpandPairs([]rbac.RolePair{
			{RoleID: waiter.ID, LocationIDs: []string{"loc-0"}, IsPrimary: true},
			{RoleID: kitchen.ID, LocationIDs: []string{"loc-1"}, IsPrimary: true},
		}, locs, c)
		var target *domain.MultiplePrimaryRolesError
		assert.True(t, errors.As(err, &target))
	})

	t.Run("ubicación inactiva", func(t *testing.T) {
		inactive := locations(2)
		inactive[1].IsActive = false
		_, err := rbac.ExpandPairs([]rbac.RolePair{{RoleID: waiter.ID, LocationIDs: []string{"loc-1"}}}, inactive, c)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}
