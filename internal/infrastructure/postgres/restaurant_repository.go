package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/restaurant-api/internal/domain"
	"github.com/jhoicas/restaurant-api/internal/domain/entity"
	"github.com/jhoicas/restaurant-api/internal/domain/repository"
)

// Asegura que RestaurantRepo implementa repository.RestaurantRepository.
var _ repository.RestaurantRepository = (*RestaurantRepo)(nil)

// RestaurantRepo implementación del puerto RestaurantRepository sobre PostgreSQL.
type RestaurantRepo struct {
	q Querier
}

// NewRestaurantRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRestaurantRepository(q Querier) *RestaurantRepo {
	return &RestaurantRepo{q: q}
}

const restaurantColumns = `id, name, subdomain, email, phone, status, created_at, updated_at`

// Create persiste un nuevo restaurante.
func (r *RestaurantRepo) Create(ctx context.Context, restaurant *entity.Restaurant) error {
	query := `
		INSERT INTO restaurants (` + restaurantColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		restaurant.ID, restaurant.Name, restaurant.Subdomain, restaurant.Email,
		nullIfEmpty(restaurant.Phone), restaurant.Status, restaurant.CreatedAt, restaurant.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: subdominio '%s'", domain.ErrDuplicate, restaurant.Subdomain)
		}
		return fmt.Errorf("insert restaurant: %w", err)
	}
	return nil
}

// GetByID obtiene un restaurante por ID.
func (r *RestaurantRepo) GetByID(ctx context.Context, id string) (*entity.Restaurant, error) {
	return r.getOne(ctx, `SELECT `+restaurantColumns+` FROM restaurants WHERE id = $1`, id)
}

// GetBySubdomain obtiene un restaurante por subdominio (sin distinguir mayúsculas).
func (r *RestaurantRepo) GetBySubdomain(ctx context.Context, subdomain string) (*entity.Restaurant, error) {
	return r.getOne(ctx, `SELECT `+restaurantColumns+` FROM restaurants WHERE lower(subdomain) = lower($1)`, subdomain)
}

// SubdomainExists informa si el subdominio ya está tomado.
func (r *RestaurantRepo) SubdomainExists(ctx context.Context, subdomain string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM restaurants WHERE lower(subdomain) = lower($1))`, subdomain,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check subdomain: %w", err)
	}
	return exists, nil
}

// Update actualiza los datos editables del restaurante (el subdominio no cambia).
func (r *RestaurantRepo) Update(ctx context.Context, restaurant *entity.Restaurant) error {
	query := `
		UPDATE restaurants SET name = $2, email = $3, phone = $4, status = $5, updated_at = $6
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		restaurant.ID, restaurant.Name, restaurant.Email, nullIfEmpty(restaurant.Phone),
		restaurant.Status, restaurant.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update restaurant: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *RestaurantRepo) getOne(ctx context.Context, query string, arg string) (*entity.Restaurant, error) {
	var (
		rest  entity.Restaurant
		phone *string
	)
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&rest.ID, &rest.Name, &rest.Subdomain, &rest.Email, &phone, &rest.Status,
		&rest.CreatedAt, &rest.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get restaurant: %w", err)
	}
	rest.Phone = derefString(phone)
	return &rest, nil
}
