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

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implementación del puerto LocationRepository sobre PostgreSQL.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador de persistencia para sedes.
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

const locationColumns = `id, restaurant_id, name, slug, address, is_active, created_at, updated_at`

// Create persiste una nueva sede.
func (r *LocationRepo) Create(ctx context.Context, location *entity.Location) error {
	query := `
		INSERT INTO locations (` + locationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		location.ID, location.RestaurantID, location.Name, location.Slug, nullIfEmpty(location.Address),
		location.IsActive, location.CreatedAt, location.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: slug de sede '%s'", domain.ErrDuplicate, location.Slug)
		}
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

// GetByID obtiene una sede del restaurante por ID.
func (r *LocationRepo) GetByID(ctx context.Context, restaurantID, id string) (*entity.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations WHERE id = $1 AND restaurant_id = $2`
	l, err := scanLocation(r.q.QueryRow(ctx, query, id, restaurantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &l, nil
}

// ListByRestaurant lista las sedes del restaurante ordenadas por nombre.
func (r *LocationRepo) ListByRestaurant(ctx context.Context, restaurantID string, activeOnly bool) ([]entity.Location, error) {
	query := `
		SELECT ` + locationColumns + ` FROM locations
		WHERE restaurant_id = $1 AND (is_active OR NOT $2)
		ORDER BY name, id`
	rows, err := r.q.Query(ctx, query, restaurantID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()
	list := make([]entity.Location, 0)
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// CountActive número de sedes activas del restaurante.
func (r *LocationRepo) CountActive(ctx context.Context, restaurantID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM locations WHERE restaurant_id = $1 AND is_active`, restaurantID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count locations: %w", err)
	}
	return n, nil
}

// SlugExists informa si el slug ya está usado en el restaurante.
func (r *LocationRepo) SlugExists(ctx context.Context, restaurantID, slug string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM locations WHERE restaurant_id = $1 AND slug = $2)`, restaurantID, slug,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check location slug: %w", err)
	}
	return exists, nil
}

// Update actualiza una sede existente del restaurante.
func (r *LocationRepo) Update(ctx context.Context, location *entity.Location) error {
	query := `
		UPDATE locations SET name = $3, slug = $4, address = $5, is_active = $6, updated_at = $7
		WHERE id = $1 AND restaurant_id = $2`
	cmd, err := r.q.Exec(ctx, query,
		location.ID, location.RestaurantID, location.Name, location.Slug, nullIfEmpty(location.Address),
		location.IsActive, location.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: slug de sede '%s'", domain.ErrDuplicate, location.Slug)
		}
		return fmt.Errorf("update location: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanLocation(row pgx.Row) (entity.Location, error) {
	var (
		l       entity.Location
		address *string
	)
	err := row.Scan(&l.ID, &l.RestaurantID, &l.Name, &l.Slug, &address, &l.IsActive, &l.CreatedAt, &l.UpdatedAt)
	l.Address = derefString(address)
	return l, err
}
