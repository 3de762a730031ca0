package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/restaurant-api/internal/domain"
	"github.com/jhoicas/restaurant-api/internal/domain/entity"
	"github.com/jhoicas/restaurant-api/internal/domain/repository"
)

var _ repository.RoleAssignmentRepository = (*RoleAssignmentRepo)(nil)

// RoleAssignmentRepo implementación de RoleAssignmentRepository (usable con pool o tx).
type RoleAssignmentRepo struct {
	q Querier
}

// NewRoleAssignmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRoleAssignmentRepository(q Querier) *RoleAssignmentRepo {
	return &RoleAssignmentRepo{q: q}
}

const assignmentColumns = `id, user_id, role_id, location_id, restaurant_id, is_primary, is_active, assigned_by, created_at`

// InsertBatch inserta todas las filas con un pgx.Batch (un round-trip).
func (r *RoleAssignmentRepo) InsertBatch(ctx context.Context, rows []entity.RoleAssignment) error {
	if len(rows) == 0 {
		return nil
	}
	query := `
		INSERT INTO user_role_assignments (` + assignmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	batch := &pgx.Batch{}
	for i := range rows {
		a := &rows[i]
		if a.ID == "" {
			a.ID = uuid.New().String()
		}
		batch.Queue(query, a.ID, a.UserID, a.RoleID, a.LocationID, a.RestaurantID,
			a.IsPrimary, a.IsActive, nullIfEmpty(a.AssignedBy), a.CreatedAt)
	}

	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for range rows {
		if _, err := br.Exec(); err != nil {
			if isUniqueViolation(err) {
				if constraintName(err) == "uq_user_role_assignments_primary" {
					return &domain.MultiplePrimaryRolesError{Count: 2}
				}
				return fmt.Errorf("%w: asignación rol-ubicación repetida", domain.ErrDuplicate)
			}
			return fmt.Errorf("insert role assignment: %w", err)
		}
	}
	return br.Close()
}

// DeleteByUser borra todas las asignaciones del usuario (replace-all) y devuelve las borradas.
func (r *RoleAssignmentRepo) DeleteByUser(ctx context.Context, restaurantID, userID string) ([]entity.RoleAssignment, error) {
	query := `
		DELETE FROM user_role_assignments
		WHERE user_id = $1 AND restaurant_id = $2
		RETURNING ` + assignmentColumns
	return r.collect(ctx, "delete assignments by user", query, userID, restaurantID)
}

// DeleteByLocation borra las asignaciones de una sede y devuelve las borradas.
func (r *RoleAssignmentRepo) DeleteByLocation(ctx context.Context, restaurantID, locationID string) ([]entity.RoleAssignment, error) {
	query := `
		DELETE FROM user_role_assignments
		WHERE location_id = $1 AND restaurant_id = $2
		RETURNING ` + assignmentColumns
	return r.collect(ctx, "delete assignments by location", query, locationID, restaurantID)
}

func (r *RoleAssignmentRepo) collect(ctx context.Context, op, query string, args ...any) ([]entity.RoleAssignment, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	var out []entity.RoleAssignment
	for rows.Next() {
		var (
			a          entity.RoleAssignment
			assignedBy *string
		)
		if err := rows.Scan(&a.ID, &a.UserID, &a.RoleID, &a.LocationID, &a.RestaurantID,
			&a.IsPrimary, &a.IsActive, &assignedBy, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		a.AssignedBy = derefString(assignedBy)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// ListByUser filas de lectura de un usuario.
func (r *RoleAssignmentRepo) ListByUser(ctx context.Context, restaurantID, userID string) ([]entity.AssignmentView, error) {
	byUser, err := r.ListByUsers(ctx, restaurantID, []string{userID})
	if err != nil {
		return nil, err
	}
	if views, ok := byUser[userID]; ok {
		return views, nil
	}
	return []entity.AssignmentView{}, nil
}

// assignmentJSON forma de cada elemento de json_agg.
type assignmentJSON struct {
	RoleID          int    `json:"role_id"`
	RoleName        string `json:"role_name"`
	RoleDisplayName string `json:"role_display_name"`
	RoleRank        int    `json:"role_rank"`
	LocationID      string `json:"location_id"`
	LocationName    string `json:"location_name"`
	IsPrimary       bool   `json:"is_primary"`
}

// ListByUsers agrega las asignaciones de varios usuarios en una sola consulta (json_agg
// por usuario). Las sedes inactivas salen con location_id vacío.
func (r *RoleAssignmentRepo) ListByUsers(ctx context.Context, restaurantID string, userIDs []string) (map[string][]entity.AssignmentView, error) {
	out := make(map[string][]entity.AssignmentView, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	query := `
		SELECT a.user_id,
		       json_agg(json_build_object(
		           'role_id',           r.id,
		           'role_name',         r.name,
		           'role_display_name', r.display_name,
		           'role_rank',         r.rank,
		           'location_id',       COALESCE(l.id::text, ''),
		           'location_name',     COALESCE(l.name, ''),
		           'is_primary',        a.is_primary
		       ) ORDER BY r.display_name, l.name)
		FROM user_role_assignments a
		JOIN roles r ON r.id = a.role_id
		LEFT JOIN locations l ON l.id = a.location_id AND l.restaurant_id = a.restaurant_id AND l.is_active
		WHERE a.restaurant_id = $1 AND a.user_id = ANY($2::uuid[])
		GROUP BY a.user_id`
	rows, err := r.q.Query(ctx, query, restaurantID, userIDs)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			userID string
			raw    []byte
		)
		if err := rows.Scan(&userID, &raw); err != nil {
			return nil, fmt.Errorf("scan assignments: %w", err)
		}
		var items []assignmentJSON
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("decode assignments: %w", err)
		}
		views := make([]entity.AssignmentView, 0, len(items))
		for _, it := range items {
			views = append(views, entity.AssignmentView(it))
		}
		out[userID] = views
	}
	return out, rows.Err()
}

// ActiveRoleIDs ids de rol (sin repetir) de las asignaciones activas del usuario.
func (r *RoleAssignmentRepo) ActiveRoleIDs(ctx context.Context, restaurantID, userID string) ([]int, error) {
	rows, err := r.q.Query(ctx, `
		SELECT DISTINCT role_id FROM user_role_assignments
		WHERE user_id = $1 AND restaurant_id = $2 AND is_active
		ORDER BY role_id`, userID, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("active role ids: %w", err)
	}
	defer rows.Close()
	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan role id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SetActiveByUser activa o desactiva todas las asignaciones del usuario (soft delete).
func (r *RoleAssignmentRepo) SetActiveByUser(ctx context.Context, restaurantID, userID string, active bool) error {
	_, err := r.q.Exec(ctx, `
		UPDATE user_role_assignments SET is_active = $3
		WHERE user_id = $1 AND restaurant_id = $2`, userID, restaurantID, active)
	if err != nil {
		return fmt.Errorf("set assignments active: %w", err)
	}
	return nil
}

// PromotePrimary marca como principal la asignación más antigua de cada usuario sin principal.
func (r *RoleAssignmentRepo) PromotePrimary(ctx context.Context, restaurantID string, userIDs []string) error {
	if len(userIDs) == 0 {
		return nil
	}
	query := `
		UPDATE user_role_assignments a SET is_primary = true
		FROM (
			SELECT DISTINCT ON (x.user_id) x.id
			FROM user_role_assignments x
			WHERE x.restaurant_id = $1
			  AND x.user_id = ANY($2::uuid[])
			  AND NOT EXISTS (
			      SELECT 1 FROM user_role_assignments p
			      WHERE p.user_id = x.user_id AND p.is_primary
			  )
			ORDER BY x.user_id, x.created_at, x.id
		) pick
		WHERE a.id = pick.id`
	if _, err := r.q.Exec(ctx, query, restaurantID, userIDs); err != nil {
		return fmt.Errorf("promote primary: %w", err)
	}
	return nil
}
