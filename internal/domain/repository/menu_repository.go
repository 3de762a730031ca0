package repository

import (
	"context"

	"github.com/jhoicas/restaurant-api/internal/domain/entity"
)

// MenuRepository define el puerto de persistencia para categorías e ítems del menú.
// Los métodos Get devuelven (nil, nil) cuando no existe el registro en el restaurante.
type MenuRepository interface {
	CreateCategory(ctx context.Context, category *entity.MenuCategory) error
	GetCategory(ctx context.Context, restaurantID, id string) (*entity.MenuCategory, error)
	ListCategories(ctx context.Context, restaurantID string, activeOnly bool) ([]*entity.MenuCategory, error)
	UpdateCategory(ctx context.Context, category *entity.MenuCategory) error
	// DeleteCategory devuelve domain.ErrConflict si la categoría aún tiene ítems.
	DeleteCategory(ctx context.Context, restaurantID, id string) error

	CreateItem(ctx context.Context, item *entity.MenuItem) error
	GetItem(ctx context.Context, restaurantID, id string) (*entity.MenuItem, error)
	// ListItems categoryID vacío lista todo el menú.
	ListItems(ctx context.Context, restaurantID, categoryID string) ([]*entity.MenuItem, error)
	UpdateItem(ctx context.Context, item *entity.MenuItem) error
	DeleteItem(ctx context.Context, restaurantID, id string) error
}
