package dto

import "time"

// RoleLocationPair par rol-sedes tal como lo envía y recibe el formulario de usuarios.
// La sede principal es la primera de LocationIDs del par marcado IsPrimary.
type RoleLocationPair struct {
	RoleID      int      `json:"role_id" validate:"required,min=1"`
	LocationIDs []string `json:"location_ids" validate:"required,min=1,dive,uuid"`
	IsPrimary   bool     `json:"is_primary"`
}

// CreateUserRequest entrada para crear un usuario del restaurante (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Email    string             `json:"email" validate:"required,email"`
	Password string             `json:"password" validate:"required,min=8"`
	Name     string             `json:"name" validate:"required,min=1,max=200"`
	Roles    []RoleLocationPair `json:"roles" validate:"required,min=1,dive"`
}

// UpdateUserRequest entrada para editar un usuario. Roles nil conserva las asignaciones;
// cualquier otro valor las reemplaza por completo.
type UpdateUserRequest struct {
	Email    *string            `json:"email" validate:"omitempty,email"`
	Password *string            `json:"password" validate:"omitempty,min=8"`
	Name     *string            `json:"name" validate:"omitempty,min=1,max=200"`
	Status   *string            `json:"status" validate:"omitempty,oneof=active inactive"`
	Roles    []RoleLocationPair `json:"roles" validate:"omitempty,min=1,dive"`
}

// UserListRequest filtros del listado. No existe filtro por restaurante: el tenant sale del token.
type UserListRequest struct {
	PageRequest
	Status     string `query:"status" validate:"omitempty,oneof=active inactive"`
	RoleID     int    `query:"role_id" validate:"omitempty,min=1"`
	LocationID string `query:"location_id" validate:"omitempty,uuid"`
	Search     string `query:"search" validate:"omitempty,max=100"`
}

// UserRoleResponse un rol del usuario con todas sus sedes.
type UserRoleResponse struct {
	RoleID            int      `json:"role_id"`
	RoleName          string   `json:"role_name"`
	RoleDisplayName   string   `json:"role_display_name"`
	LocationIDs       []string `json:"location_ids"`
	LocationNames     []string `json:"location_names"`
	IsPrimary         bool     `json:"is_primary"`
	PrimaryLocationID string   `json:"primary_location_id,omitempty"`
}

// UserResponse salida de un usuario (sin password) con sus roles reconstruidos.
type UserResponse struct {
	ID                string             `json:"id"`
	RestaurantID      string             `json:"restaurant_id"`
	Email             string             `json:"email"`
	Name              string             `json:"name"`
	Status            string             `json:"status"`
	Roles             []UserRoleResponse `json:"roles"`
	PrimaryRole       string             `json:"primary_role,omitempty"`
	PrimaryLocationID string             `json:"primary_location_id,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// UserListResponse lista paginada de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// RoleResponse entrada del catálogo de roles.
type RoleResponse struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Rank        int    `json:"rank"`
}

// AvailableRolesRequest contexto del selector de roles al editar un par.
type AvailableRolesRequest struct {
	UserID        string `query:"user_id" validate:"omitempty,uuid"`
	EditingRoleID int    `query:"editing_role_id" validate:"omitempty,min=1"`
}

// AssignmentAuditResponse entrada del historial de asignaciones.
type AssignmentAuditResponse struct {
	RoleID     int       `json:"role_id"`
	LocationID string    `json:"location_id"`
	Action     string    `json:"action"`
	ActorID    string    `json:"actor_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
