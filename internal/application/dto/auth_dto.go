package dto

// RegisterLocationRequest sede que se crea junto con el restaurante.
type RegisterLocationRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Address string `json:"address" validate:"omitempty,max=500"`
}

// RegisterLocationAssignment referencia por índice a Locations del mismo registro.
type RegisterLocationAssignment struct {
	LocationIndex     int  `json:"location_index" validate:"min=0"`
	IsPrimaryLocation bool `json:"is_primary_location"`
}

// RegisterRoleAssignment rol del primer administrador, por nombre.
type RegisterRoleAssignment struct {
	RoleName            string                       `json:"role_name" validate:"required"`
	IsPrimaryRole       bool                         `json:"is_primary_role"`
	LocationAssignments []RegisterLocationAssignment `json:"location_assignments" validate:"required,min=1,dive"`
}

// RegisterAdminRequest datos del primer usuario del restaurante.
type RegisterAdminRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// RegisterRestaurantRequest alta de un tenant. Si Roles está vacío el administrador
// recibe restaurant_administrator en todas las sedes, con la sede 0 como principal.
type RegisterRestaurantRequest struct {
	RestaurantName string                    `json:"restaurant_name" validate:"required,min=1,max=200"`
	Subdomain      string                    `json:"subdomain" validate:"omitempty,max=63"`
	Email          string                    `json:"email" validate:"required,email"`
	Phone          string                    `json:"phone" validate:"omitempty,max=50"`
	Locations      []RegisterLocationRequest `json:"locations" validate:"required,min=1,dive"`
	Admin          RegisterAdminRequest      `json:"admin"`
	Roles          []RegisterRoleAssignment  `json:"roles" validate:"omitempty,dive"`
}

// RegisterRestaurantResponse resultado del registro, con token para entrar directo.
type RegisterRestaurantResponse struct {
	Restaurant RestaurantResponse `json:"restaurant"`
	Locations  []LocationResponse `json:"locations"`
	User       UserResponse       `json:"user"`
	Token      string             `json:"token"`
}

// LoginRequest entrada para login. Subdomain opcional restringe el tenant.
type LoginRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	Subdomain string `json:"subdomain" validate:"omitempty,max=63"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
