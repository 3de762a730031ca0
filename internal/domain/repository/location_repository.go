package repository

import (
	"context"

	"github.com/jhoicas/restaurant-api/internal/domain/entity"
)

// LocationRepository define el puerto de persistencia para las sedes de un restaurante.
// Toda consulta se filtra por restaurantID.
type LocationRepository interface {
	Create(ctx context.Context, location *entity.Location) error
	GetByID(ctx context.Context, restaurantID, id string) (*entity.Location, error)
	// ListByRestaurant ordena por nombre. activeOnly excluye sedes desactivadas.
	ListByRestaurant(ctx context.Context, restaurantID string, activeOnly bool) ([]entity.Location, error)
	CountActive(ctx context.Context, restaurantID string) (int, error)
	SlugExists(ctx context.Context, restaurantID, slug string) (bool, error)
	Update(ctx context.Context, location *entity.Location) error
}
