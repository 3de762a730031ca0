package repository

import (
	"context"

	"github.com/jhoicas/restaurant-api/internal/domain/entity"
)

// UserFilter filtros de listado de usuarios. RestaurantID nunca forma parte del filtro:
// el tenant se pasa aparte y siempre se aplica.
type UserFilter struct {
	Status     string
	RoleID     int
	LocationID string
	Search     string
	Limit      int
	Offset     int
}

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	// Create devuelve domain.ErrEmailAlreadyExists si el email ya existe.
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, restaurantID, id string) (*entity.User, error)
	// GetByEmail busca en todos los restaurantes; solo para login.
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	List(ctx context.Context, restaurantID string, filter UserFilter) ([]*entity.User, int, error)
	Delete(ctx context.Context, restaurantID, id string) error
}
