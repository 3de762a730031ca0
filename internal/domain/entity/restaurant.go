package entity

import "time"

// Estados de un restaurante.
const (
	RestaurantStatusActive    = "active"
	RestaurantStatusSuspended = "suspended"
)

// Restaurant representa un tenant del sistema. Todos los datos se particionan por RestaurantID.
type Restaurant struct {
	ID        string
	Name      string
	Subdomain string // slug único, usado en el login por subdominio
	Email     string
	Phone     string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
