package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/restaurant-api/internal/domain"
	"github.com/jhoicas/restaurant-api/internal/domain/entity"
	"github.com/jhoicas/restaurant-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userColumns = `id, restaurant_id, email, password_hash, name, status, created_at, updated_at`

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		user.ID, user.RestaurantID, strings.ToLower(user.Email), user.PasswordHash, user.Name, user.Status,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario del restaurante por ID.
func (r *UserRepo) GetByID(ctx context.Context, restaurantID, id string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND restaurant_id = $2`
	u, err := scanUser(r.q.QueryRow(ctx, query, id, restaurantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

// GetByEmail obtiene un usuario por email (cualquier restaurante). Solo para login.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = lower($1) LIMIT 1`
	u, err := scanUser(r.q.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// Update actualiza un usuario del restaurante.
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users SET email = $3, password_hash = $4, name = $5, status = $6, updated_at = $7
		WHERE id = $1 AND restaurant_id = $2`
	cmd, err := r.q.Exec(ctx, query,
		user.ID, user.RestaurantID, strings.ToLower(user.Email), user.PasswordHash, user.Name, user.Status, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("update user: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// List lista usuarios del restaurante con filtros y paginación. Devuelve también el total
// sin paginar. El filtro por rol o sede se resuelve contra user_role_assignments.
func (r *UserRepo) List(ctx context.Context, restaurantID string, f repository.UserFilter) ([]*entity.User, int, error) {
	where := []string{"u.restaurant_id = $1"}
	args := []any{restaurantID}
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Status != "" {
		where = append(where, "u.status = "+next(f.Status))
	}
	if f.Search != "" {
		p := next("%" + strings.ToLower(f.Search) + "%")
		where = append(where, fmt.Sprintf("(lower(u.name) LIKE %s OR u.email LIKE %s)", p, p))
	}
	if f.RoleID != 0 || f.LocationID != "" {
		sub := "SELECT 1 FROM user_role_assignments a WHERE a.user_id = u.id AND a.restaurant_id = u.restaurant_id"
		if f.RoleID != 0 {
			sub += " AND a.role_id = " + next(f.RoleID)
		}
		if f.LocationID != "" {
			sub += " AND a.location_id = " + next(f.LocationID)
		}
		where = append(where, "EXISTS ("+sub+")")
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT u.id, u.restaurant_id, u.email, u.password_hash, u.name, u.status, u.created_at, u.updated_at,
		       COUNT(*) OVER ()
		FROM users u
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY u.name, u.id
		LIMIT ` + next(limit) + ` OFFSET ` + next(f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.User, 0)
	total := 0
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.ID, &u.RestaurantID, &u.Email, &u.PasswordHash, &u.Name, &u.Status,
			&u.CreatedAt, &u.UpdatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, &u)
	}
	return list, total, rows.Err()
}

// Delete elimina un usuario del restaurante. Las asignaciones deben borrarse antes en la misma tx.
func (r *UserRepo) Delete(ctx context.Context, restaurantID, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM users WHERE id = $1 AND restaurant_id = $2`, id, restaurantID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: el usuario aún tiene asignaciones", domain.ErrConflict)
		}
		return fmt.Errorf("delete user: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	if err := row.Scan(&u.ID, &u.RestaurantID, &u.Email, &u.PasswordHash, &u.Name, &u.Status,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
