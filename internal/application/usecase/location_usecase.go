package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/restaurant-api/internal/application/dto"
	"github.com/jhoicas/restaurant-api/internal/application/staff"
	"github.com/jhoicas/restaurant-api/internal/domain"
	"github.com/jhoicas/restaurant-api/internal/domain/entity"
	"github.com/jhoicas/restaurant-api/internal/domain/rbac"
	"github.com/jhoicas/restaurant-api/internal/domain/repository"
	"github.com/jhoicas/restaurant-api/pkg/slug"
)

// LocationTxRunner transacción para cambios de sede que arrastran asignaciones.
type LocationTxRunner interface {
	RunLocation(ctx context.Context, fn func(
		locations repository.LocationRepository,
		assignments repository.RoleAssignmentRepository,
		audit repository.AssignmentAuditRepository,
	) error) error
}

// LocationUseCase casos de uso de sedes del restaurante.
type LocationUseCase struct {
	repo repository.LocationRepository
	tx   LocationTxRunner
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(repo repository.LocationRepository, tx LocationTxRunner) *LocationUseCase {
	return &LocationUseCase{repo: repo, tx: tx}
}

// List lista las sedes del restaurante; includeInactive agrega las desactivadas.
func (uc *LocationUseCase) List(ctx context.Context, restaurantID string, includeInactive bool) ([]dto.LocationResponse, error) {
	locs, err := uc.repo.ListByRestaurant(ctx, restaurantID, !includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LocationResponse, 0, len(locs))
	for _, l := range locs {
		out = append(out, staff.ToLocationResponse(l))
	}
	return out, nil
}

// GetByID obtiene una sede del restaurante.
func (uc *LocationUseCase) GetByID(ctx context.Context, restaurantID, id string) (*dto.LocationResponse, error) {
	l, err := uc.require(ctx, restaurantID, id)
	if err != nil {
		return nil, err
	}
	out := staff.ToLocationResponse(*l)
	return &out, nil
}

// Create crea una sede con un slug único dentro del restaurante.
func (uc *LocationUseCase) Create(ctx context.Context, restaurantID string, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	name := strings.TrimSpace(in.Name)
	base := slug.Make(name)
	if base == "" {
		return nil, fmt.Errorf("%w: el nombre de la sede no genera un slug válido", domain.ErrInvalidInput)
	}
	var lookupErr error
	s := slug.Unique(base, func(candidate string) bool {
		exists, err := uc.repo.SlugExists(ctx, restaurantID, candidate)
		if err != nil {
			lookupErr = err
			return false
		}
		return exists
	})
	if lookupErr != nil {
		return nil, lookupErr
	}

	now := time.Now()
	l := &entity.Location{
		ID:           uuid.New().String(),
		RestaurantID: restaurantID,
		Name:         name,
		Slug:         s,
		Address:      strings.TrimSpace(in.Address),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	out := staff.ToLocationResponse(*l)
	return &out, nil
}

// Update cambia nombre y dirección. El slug se conserva.
func (uc *LocationUseCase) Update(ctx context.Context, restaurantID, id string, in dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	l, err := uc.require(ctx, restaurantID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		l.Name = strings.TrimSpace(*in.Name)
	}
	if in.Address != nil {
		l.Address = strings.TrimSpace(*in.Address)
	}
	l.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, l); err != nil {
		return nil, err
	}
	out := staff.ToLocationResponse(*l)
	return &out, nil
}

// Deactivate desactiva una sede y borra sus asignaciones en la misma tx. Los usuarios que
// pierden su asignación principal reciben otra. No se permite desactivar la última sede activa.
func (uc *LocationUseCase) Deactivate(ctx context.Context, caller rbac.Caller, id string) (*dto.DeactivateLocationResponse, error) {
	l, err := uc.require(ctx, caller.RestaurantID, id)
	if err != nil {
		return nil, err
	}
	if !l.IsActive {
		return &dto.DeactivateLocationResponse{Location: staff.ToLocationResponse(*l)}, nil
	}
	active, err := uc.repo.CountActive(ctx, caller.RestaurantID)
	if err != nil {
		return nil, err
	}
	if active <= 1 {
		return nil, fmt.Errorf("%w: no se puede desactivar la única sede activa", domain.ErrConflict)
	}

	now := time.Now()
	l.IsActive = false
	l.UpdatedAt = now
	removed := 0

	err = uc.tx.RunLocation(ctx, func(
		locations repository.LocationRepository,
		assignments repository.RoleAssignmentRepository,
		audit repository.AssignmentAuditRepository,
	) error {
		if err := locations.Update(ctx, l); err != nil {
			return err
		}
		deleted, err := assignments.DeleteByLocation(ctx, caller.RestaurantID, l.ID)
		if err != nil {
			return err
		}
		removed = len(deleted)
		if err := audit.InsertBatch(ctx, staff.AuditEntries(entity.AuditRevoked, deleted, caller.UserID, now)); err != nil {
			return err
		}
		return assignments.PromotePrimary(ctx, caller.RestaurantID, lostPrimary(deleted))
	})
	if err != nil {
		return nil, domain.AbortTx("desactivar sede", err)
	}

	log.Info().
		Str("restaurant_id", caller.RestaurantID).
		Str("location_id", l.ID).
		Int("removed_assignments", removed).
		Msg("sede desactivada")
	return &dto.DeactivateLocationResponse{Location: staff.ToLocationResponse(*l), RemovedAssignments: removed}, nil
}

// Activate reactiva una sede. Las asignaciones borradas no se restauran.
func (uc *LocationUseCase) Activate(ctx context.Context, restaurantID, id string) (*dto.LocationResponse, error) {
	l, err := uc.require(ctx, restaurantID, id)
	if err != nil {
		return nil, err
	}
	if !l.IsActive {
		l.IsActive = true
		l.UpdatedAt = time.Now()
		if err := uc.repo.Update(ctx, l); err != nil {
			return nil, err
		}
	}
	out := staff.ToLocationResponse(*l)
	return &out, nil
}

func (uc *LocationUseCase) require(ctx context.Context, restaurantID, id string) (*entity.Location, error) {
	l, err := uc.repo.GetByID(ctx, restaurantID, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, domain.ErrNotFound
	}
	return l, nil
}

// lostPrimary usuarios cuya asignación principal estaba entre las borradas.
func lostPrimary(deleted []entity.RoleAssignment) []string {
	var ids []string
	for _, a := range deleted {
		if a.IsPrimary {
			ids = append(ids, a.UserID)
		}
	}
	return ids
}
