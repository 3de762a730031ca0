package entity

import "time"

// RoleAssignment une un usuario con un par (rol, ubicación) dentro de un restaurante.
// Invariantes: a lo sumo una fila con IsPrimary por usuario, sin tuplas
// (UserID, RoleID, LocationID) repetidas y todas con el RestaurantID del usuario.
type RoleAssignment struct {
	ID           string
	UserID       string
	RoleID       int
	LocationID   string
	RestaurantID string
	IsPrimary    bool
	IsActive     bool
	AssignedBy   string // vacío en el registro inicial
	CreatedAt    time.Time
}

// AssignmentView fila de lectura: asignación unida con el catálogo de roles y ubicaciones.
// LocationID vacío indica que la ubicación ya no está disponible.
type AssignmentView struct {
	RoleID          int
	RoleName        string
	RoleDisplayName string
	RoleRank        int
	LocationID      string
	LocationName    string
	IsPrimary       bool
}

// Acciones de auditoría de asignaciones.
const (
	AuditGranted = "granted"
	AuditRevoked = "revoked"
)

// AssignmentAudit historial de asignaciones, conservado aunque la escritura sea replace-all.
type AssignmentAudit struct {
	ID           string
	UserID       string
	RoleID       int
	LocationID   string
	RestaurantID string
	Action       string // granted, revoked
	ActorID      string
	CreatedAt    time.Time
}
