package entity

import "time"

// Location representa una sede física de un restaurante.
// Un restaurante con una sola ubicación activa es "single-location".
type Location struct {
	ID           string
	RestaurantID string
	Name         string
	Slug         string
	Address      string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
