package repository

import (
	"context"

	"github.com/jhoicas/restaurant-api/internal/domain/entity"
)

// AssignmentAuditRepository historial append-only de asignaciones otorgadas y revocadas.
type AssignmentAuditRepository interface {
	InsertBatch(ctx context.Context, entries []entity.AssignmentAudit) error
	// ListByUser ordena del más reciente al más antiguo.
	ListByUser(ctx context.Context, restaurantID, userID string, limit int) ([]entity.AssignmentAudit, error)
}
