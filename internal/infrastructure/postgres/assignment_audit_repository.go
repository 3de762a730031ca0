package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/restaurant-api/internal/domain/entity"
	"github.com/jhoicas/restaurant-api/internal/domain/repository"
)

var _ repository.AssignmentAuditRepository = (*AssignmentAuditRepo)(nil)

// AssignmentAuditRepo historial de asignaciones sobre la tabla role_assignment_audit.
type AssignmentAuditRepo struct {
	q Querier
}

// NewAssignmentAuditRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAssignmentAuditRepository(q Querier) *AssignmentAuditRepo {
	return &AssignmentAuditRepo{q: q}
}

// InsertBatch agrega entradas al historial en un solo round-trip.
func (r *AssignmentAuditRepo) InsertBatch(ctx context.Context, entries []entity.AssignmentAudit) error {
	if len(entries) == 0 {
		return nil
	}
	query := `
		INSERT INTO role_assignment_audit (id, user_id, role_id, location_id, restaurant_id, action, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	batch := &pgx.Batch{}
	for i := range entries {
		e := &entries[i]
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		batch.Queue(query, e.ID, e.UserID, e.RoleID, e.LocationID, e.RestaurantID, e.Action,
			nullIfEmpty(e.ActorID), e.CreatedAt)
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for range entries {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert assignment audit: %w", err)
		}
	}
	return br.Close()
}

// ListByUser historial del usuario, del más reciente al más antiguo.
func (r *AssignmentAuditRepo) ListByUser(ctx context.Context, restaurantID, userID string, limit int) ([]entity.AssignmentAudit, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, user_id, role_id, location_id, restaurant_id, action, actor_id, created_at
		FROM role_assignment_audit
		WHERE user_id = $1 AND restaurant_id = $2
		ORDER BY created_at DESC, id
		LIMIT $3`, userID, restaurantID, limit)
	if err != nil {
		return nil, fmt.Errorf("list assignment audit: %w", err)
	}
	defer rows.Close()
	list := make([]entity.AssignmentAudit, 0)
	for rows.Next() {
		var (
			e     entity.AssignmentAudit
			actor *string
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.RoleID, &e.LocationID, &e.RestaurantID, &e.Action,
			&actor, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan assignment audit: %w", err)
		}
		e.ActorID = derefString(actor)
		list = append(list, e)
	}
	return list, rows.Err()
}
