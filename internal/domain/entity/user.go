package entity

import (
	"strings"
	"time"
)

// Estados de usuario. Los usuarios se desactivan (soft delete) en lugar de borrarse.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User representa un usuario del sistema (pertenece a un Restaurant).
// Sus roles viven en RoleAssignment, no en el usuario.
type User struct {
	ID           string
	RestaurantID string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NormalizeEmail forma canónica con la que se guardan y buscan los emails.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
