package repository

import (
	"context"

	"github.com/jhoicas/restaurant-api/internal/domain/entity"
)

// RestaurantRepository define el puerto de persistencia para Restaurant (tenant).
// Los métodos Get devuelven (nil, nil) cuando no existe el registro.
type RestaurantRepository interface {
	// Create devuelve domain.ErrDuplicate si el subdominio ya está tomado.
	Create(ctx context.Context, restaurant *entity.Restaurant) error
	GetByID(ctx context.Context, id string) (*entity.Restaurant, error)
	GetBySubdomain(ctx context.Context, subdomain string) (*entity.Restaurant, error)
	SubdomainExists(ctx context.Context, subdomain string) (bool, error)
	Update(ctx context.Context, restaurant *entity.Restaurant) error
}
