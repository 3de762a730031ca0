package entity

// Nombres de máquina del catálogo de roles (deben coincidir con la tabla roles).
const (
	RoleSuperadmin              = "superadmin"
	RoleRestaurantAdministrator = "restaurant_administrator"
	RoleLocationAdministrator   = "location_administrator"
	RoleManager                 = "manager"
	RoleCashier                 = "cashier"
	RoleWaiter                  = "waiter"
	RoleKitchen                 = "kitchen"
	RoleBartender               = "bartender"
)

// Role entrada inmutable del catálogo. Rank define el orden total de jerarquía (mayor = más senior).
type Role struct {
	ID          int
	Name        string
	DisplayName string
	Rank        int
}
