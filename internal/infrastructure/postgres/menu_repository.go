package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/restaurant-api/internal/domain"
	"github.com/jhoicas/restaurant-api/internal/domain/entity"
	"github.com/jhoicas/restaurant-api/internal/domain/repository"
)

var _ repository.MenuRepository = (*MenuRepo)(nil)

// MenuRepo implementación del puerto MenuRepository sobre PostgreSQL.
// Las traducciones se guardan en columnas jsonb; los precios en NUMERIC(12,2) vía shopspring/decimal.
type MenuRepo struct {
	q Querier
}

// NewMenuRepository construye el adaptador de persistencia del menú.
func NewMenuRepository(q Querier) *MenuRepo {
	return &MenuRepo{q: q}
}

const (
	categoryColumns = `id, restaurant_id, name, translations, position, is_active, created_at, updated_at`
	itemColumns     = `id, restaurant_id, category_id, name, description, price, translations, is_available, position, created_at, updated_at`
)

func encodeTranslations(t map[string]entity.Translation) ([]byte, error) {
	if t == nil {
		t = map[string]entity.Translation{}
	}
	return json.Marshal(t)
}

func decodeTranslations(raw []byte) (map[string]entity.Translation, error) {
	out := map[string]entity.Translation{}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ── Categorías ────────────────────────────────────────────────────────────────

// CreateCategory persiste una categoría del menú.
func (r *MenuRepo) CreateCategory(ctx context.Context, c *entity.MenuCategory) error {
	tr, err := encodeTranslations(c.Translations)
	if err != nil {
		return fmt.Errorf("encode translations: %w", err)
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO menu_categories (`+categoryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.RestaurantID, c.Name, tr, c.Position, c.IsActive, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: categoría '%s'", domain.ErrDuplicate, c.Name)
		}
		return fmt.Errorf("insert menu category: %w", err)
	}
	return nil
}

// GetCategory obtiene una categoría del restaurante.
func (r *MenuRepo) GetCategory(ctx context.Context, restaurantID, id string) (*entity.MenuCategory, error) {
	c, err := scanCategory(r.q.QueryRow(ctx,
		`SELECT `+categoryColumns+` FROM menu_categories WHERE id = $1 AND restaurant_id = $2`, id, restaurantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get menu category: %w", err)
	}
	return c, nil
}

// ListCategories lista las categorías ordenadas por posición y nombre.
func (r *MenuRepo) ListCategories(ctx context.Context, restaurantID string, activeOnly bool) ([]*entity.MenuCategory, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+categoryColumns+` FROM menu_categories
		WHERE restaurant_id = $1 AND (is_active OR NOT $2)
		ORDER BY position, name`, restaurantID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list menu categories: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.MenuCategory, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan menu category: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// UpdateCategory actualiza una categoría del restaurante.
func (r *MenuRepo) UpdateCategory(ctx context.Context, c *entity.MenuCategory) error {
	tr, err := encodeTranslations(c.Translations)
	if err != nil {
		return fmt.Errorf("encode translations: %w", err)
	}
	cmd, err := r.q.Exec(ctx, `
		UPDATE menu_categories SET name = $3, translations = $4, position = $5, is_active = $6, updated_at = $7
		WHERE id = $1 AND restaurant_id = $2`,
		c.ID, c.RestaurantID, c.Name, tr, c.Position, c.IsActive, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: categoría '%s'", domain.ErrDuplicate, c.Name)
		}
		return fmt.Errorf("update menu category: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteCategory elimina una categoría sin ítems.
func (r *MenuRepo) DeleteCategory(ctx context.Context, restaurantID, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM menu_categories WHERE id = $1 AND restaurant_id = $2`, id, restaurantID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: la categoría tiene ítems", domain.ErrConflict)
		}
		return fmt.Errorf("delete menu category: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanCategory(row pgx.Row) (*entity.MenuCategory, error) {
	var (
		c   entity.MenuCategory
		raw []byte
	)
	if err := row.Scan(&c.ID, &c.RestaurantID, &c.Name, &raw, &c.Position, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	tr, err := decodeTranslations(raw)
	if err != nil {
		return nil, fmt.Errorf("decode translations: %w", err)
	}
	c.Translations = tr
	return &c, nil
}

// ── Ítems ─────────────────────────────────────────────────────────────────────

// CreateItem persiste un ítem del menú.
func (r *MenuRepo) CreateItem(ctx context.Context, it *entity.MenuItem) error {
	tr, err := encodeTranslations(it.Translations)
	if err != nil {
		return fmt.Errorf("encode translations: %w", err)
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO menu_items (`+itemColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		it.ID, it.RestaurantID, it.CategoryID, it.Name, nullIfEmpty(it.Description), it.Price, tr,
		it.IsAvailable, it.Position, it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: categoría inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert menu item: %w", err)
	}
	return nil
}

// GetItem obtiene un ítem del restaurante.
func (r *MenuRepo) GetItem(ctx context.Context, restaurantID, id string) (*entity.MenuItem, error) {
	it, err := scanItem(r.q.QueryRow(ctx,
		`SELECT `+itemColumns+` FROM menu_items WHERE id = $1 AND restaurant_id = $2`, id, restaurantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get menu item: %w", err)
	}
	return it, nil
}

// ListItems lista ítems del restaurante; categoryID vacío lista todo el menú.
func (r *MenuRepo) ListItems(ctx context.Context, restaurantID, categoryID string) ([]*entity.MenuItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+itemColumns+` FROM menu_items
		WHERE restaurant_id = $1 AND ($2 = '' OR category_id::text = $2)
		ORDER BY category_id, position, name`, restaurantID, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.MenuItem, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// UpdateItem actualiza un ítem del restaurante.
func (r *MenuRepo) UpdateItem(ctx context.Context, it *entity.MenuItem) error {
	tr, err := encodeTranslations(it.Translations)
	if err != nil {
		return fmt.Errorf("encode translations: %w", err)
	}
	cmd, err := r.q.Exec(ctx, `
		UPDATE menu_items
		SET category_id = $3, name = $4, description = $5, price = $6, translations = $7,
		    is_available = $8, position = $9, updated_at = $10
		WHERE id = $1 AND restaurant_id = $2`,
		it.ID, it.RestaurantID, it.CategoryID, it.Name, nullIfEmpty(it.Description), it.Price, tr,
		it.IsAvailable, it.Position, it.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: categoría inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("update menu item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteItem elimina un ítem del restaurante.
func (r *MenuRepo) DeleteItem(ctx context.Context, restaurantID, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM menu_items WHERE id = $1 AND restaurant_id = $2`, id, restaurantID)
	if err != nil {
		return fmt.Errorf("delete menu item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanItem(row pgx.Row) (*entity.MenuItem, error) {
	var (
		it   entity.MenuItem
		desc *string
		raw  []byte
	)
	if err := row.Scan(&it.ID, &it.RestaurantID, &it.CategoryID, &it.Name, &desc, &it.Price, &raw,
		&it.IsAvailable, &it.Position, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return nil, err
	}
	tr, err := decodeTranslations(raw)
	if err != nil {
		return nil, fmt.Errorf("decode translations: %w", err)
	}
	it.Description = derefString(desc)
	it.Translations = tr
	return &it, nil
}
