package staff

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/restaurant-api/internal/application/dto"
	"github.com/jhoicas/restaurant-api/internal/domain"
	"github.com/jhoicas/restaurant-api/internal/domain/entity"
	"github.com/jhoicas/restaurant-api/internal/domain/rbac"
	"github.com/jhoicas/restaurant-api/internal/domain/repository"
)

// CreateUser crea un usuario del restaurante del llamador con sus asignaciones, todo en una tx.
func (uc *StaffUseCase) CreateUser(ctx context.Context, caller rbac.Caller, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	sc, err := uc.loadScope(ctx, caller)
	if err != nil {
		return nil, err
	}
	if err := sc.requireManager(); err != nil {
		return nil, err
	}
	grants, err := sc.expand(in.Roles)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		RestaurantID: caller.RestaurantID,
		Email:        entity.NormalizeEmail(in.Email),
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(in.Name),
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	rows := GrantsToRows(grants, user, caller.UserID, now)

	err = uc.tx.RunStaff(ctx, func(
		users repository.UserRepository,
		assignments repository.RoleAssignmentRepository,
		audit repository.AssignmentAuditRepository,
	) error {
		if err := users.Create(ctx, user); err != nil {
			return err
		}
		if err := assignments.InsertBatch(ctx, rows); err != nil {
			return err
		}
		return audit.InsertBatch(ctx, AuditEntries(entity.AuditGranted, rows, caller.UserID, now))
	})
	if err != nil {
		return nil, domain.AbortTx("crear usuario", err)
	}

	log.Info().
		Str("restaurant_id", caller.RestaurantID).
		Str("user_id", user.ID).
		Int("assignments", len(rows)).
		Msg("usuario creado")
	return uc.GetUser(ctx, caller, user.ID)
}

// UpdateUser edita perfil, estado y (si in.Roles != nil) reemplaza todas las asignaciones
// del usuario dentro de una tx. El historial solo registra lo que realmente cambió.
func (uc *StaffUseCase) UpdateUser(ctx context.Context, caller rbac.Caller, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	sc, err := uc.loadScope(ctx, caller)
	if err != nil {
		return nil, err
	}
	if err := sc.requireManager(); err != nil {
		return nil, err
	}
	user, err := uc.requireTenantUser(ctx, caller.RestaurantID, id)
	if err != nil {
		return nil, err
	}
	current, err := uc.assignments.ListByUser(ctx, caller.RestaurantID, id)
	if err != nil {
		return nil, err
	}
	if !rbac.CanManage(sc.callerRank, sc.targetRank(current)) {
		return nil, fmt.Errorf("%w: el usuario tiene un rol superior al suyo", domain.ErrForbidden)
	}

	statusChanged := false
	if in.Email != nil {
		user.Email = entity.NormalizeEmail(*in.Email)
	}
	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if in.Status != nil && *in.Status != user.Status {
		if user.ID == caller.UserID && *in.Status == entity.UserStatusInactive {
			return nil, fmt.Errorf("%w: no puede desactivarse a sí mismo", domain.ErrInvalidInput)
		}
		user.Status = *in.Status
		statusChanged = true
	}

	var grants []rbac.Grant
	if in.Roles != nil {
		if grants, err = sc.expand(in.Roles); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	user.UpdatedAt = now
	active := user.Status == entity.UserStatusActive
	replaced, granted, revoked := 0, 0, 0

	err = uc.tx.RunStaff(ctx, func(
		users repository.UserRepository,
		assignments repository.RoleAssignmentRepository,
		audit repository.AssignmentAuditRepository,
	) error {
		if err := users.Update(ctx, user); err != nil {
			return err
		}
		if grants == nil {
			if statusChanged {
				return assignments.SetActiveByUser(ctx, caller.RestaurantID, user.ID, active)
			}
			return nil
		}

		old, err := assignments.DeleteByUser(ctx, caller.RestaurantID, user.ID)
		if err != nil {
			return err
		}
		rows := GrantsToRows(grants, user, caller.UserID, now)
		for i := range rows {
			rows[i].IsActive = active
		}
		if err := assignments.InsertBatch(ctx, rows); err != nil {
			return err
		}
		added, removed := diffAssignments(old, rows)
		entries := append(AuditEntries(entity.AuditRevoked, removed, caller.UserID, now),
			AuditEntries(entity.AuditGranted, added, caller.UserID, now)...)
		replaced, granted, revoked = len(rows), len(added), len(removed)
		return audit.InsertBatch(ctx, entries)
	})
	if err != nil {
		return nil, domain.AbortTx("actualizar usuario", err)
	}

	log.Info().
		Str("restaurant_id", caller.RestaurantID).
		Str("user_id", user.ID).
		Int("assignments", replaced).
		Int("granted", granted).
		Int("revoked", revoked).
		Msg("usuario actualizado")
	return uc.GetUser(ctx, caller, user.ID)
}

// DeactivateUser baja lógica: el usuario queda inactivo y sus asignaciones también.
func (uc *StaffUseCase) DeactivateUser(ctx context.Context, caller rbac.Caller, id string) error {
	user, err := uc.authorizeTarget(ctx, caller, id)
	if err != nil {
		return err
	}
	if user.Status == entity.UserStatusInactive {
		return nil
	}
	user.Status = entity.UserStatusInactive
	user.UpdatedAt = time.Now()

	err = uc.tx.RunStaff(ctx, func(
		users repository.UserRepository,
		assignments repository.RoleAssignmentRepository,
		_ repository.AssignmentAuditRepository,
	) error {
		if err := users.Update(ctx, user); err != nil {
			return err
		}
		return assignments.SetActiveByUser(ctx, caller.RestaurantID, user.ID, false)
	})
	if err != nil {
		return domain.AbortTx("desactivar usuario", err)
	}
	log.Info().Str("restaurant_id", caller.RestaurantID).Str("user_id", id).Msg("usuario desactivado")
	return nil
}

// DeleteUser borrado definitivo: primero las asignaciones (quedan en el historial) y luego el usuario.
func (uc *StaffUseCase) DeleteUser(ctx context.Context, caller rbac.Caller, id string) error {
	if _, err := uc.authorizeTarget(ctx, caller, id); err != nil {
		return err
	}
	now := time.Now()
	err := uc.tx.RunStaff(ctx, func(
		users repository.UserRepository,
		assignments repository.RoleAssignmentRepository,
		audit repository.AssignmentAuditRepository,
	) error {
		old, err := assignments.DeleteByUser(ctx, caller.RestaurantID, id)
		if err != nil {
			return err
		}
		if err := audit.InsertBatch(ctx, AuditEntries(entity.AuditRevoked, old, caller.UserID, now)); err != nil {
			return err
		}
		return users.Delete(ctx, caller.RestaurantID, id)
	})
	if err != nil {
		return domain.AbortTx("eliminar usuario", err)
	}
	log.Info().Str("restaurant_id", caller.RestaurantID).Str("user_id", id).Msg("usuario eliminado")
	return nil
}

// authorizeTarget checks comunes de baja: rango de gestión, no a sí mismo, tenant y jerarquía.
func (uc *StaffUseCase) authorizeTarget(ctx context.Context, caller rbac.Caller, id string) (*entity.User, error) {
	if id == caller.UserID {
		return nil, fmt.Errorf("%w: no puede darse de baja a sí mismo", domain.ErrInvalidInput)
	}
	sc, err := uc.loadScope(ctx, caller)
	if err != nil {
		return nil, err
	}
	if err := sc.requireManager(); err != nil {
		return nil, err
	}
	user, err := uc.requireTenantUser(ctx, caller.RestaurantID, id)
	if err != nil {
		return nil, err
	}
	views, err := uc.assignments.ListByUser(ctx, caller.RestaurantID, id)
	if err != nil {
		return nil, err
	}
	if !rbac.CanManage(sc.callerRank, sc.targetRank(views)) {
		return nil, fmt.Errorf("%w: el usuario tiene un rol superior al suyo", domain.ErrForbidden)
	}
	return user, nil
}

// GrantsToRows convierte filas expandidas en asignaciones del usuario.
func GrantsToRows(grants []rbac.Grant, user *entity.User, actorID string, now time.Time) []entity.RoleAssignment {
	rows := make([]entity.RoleAssignment, 0, len(grants))
	for _, g := range grants {
		rows = append(rows, entity.RoleAssignment{
			ID:           uuid.New().String(),
			UserID:       user.ID,
			RoleID:       g.RoleID,
			LocationID:   g.LocationID,
			RestaurantID: user.RestaurantID,
			IsPrimary:    g.IsPrimary,
			IsActive:     true,
			AssignedBy:   actorID,
			CreatedAt:    now,
		})
	}
	return rows
}

// AuditEntries una entrada de historial por asignación.
func AuditEntries(action string, rows []entity.RoleAssignment, actorID string, now time.Time) []entity.AssignmentAudit {
	out := make([]entity.AssignmentAudit, 0, len(rows))
	for _, r := range rows {
		out = append(out, entity.AssignmentAudit{
			ID:           uuid.New().String(),
			UserID:       r.UserID,
			RoleID:       r.RoleID,
			LocationID:   r.LocationID,
			RestaurantID: r.RestaurantID,
			Action:       action,
			ActorID:      actorID,
			CreatedAt:    now,
		})
	}
	return out
}

type assignmentKey struct {
	roleID     int
	locationID string
}

// diffAssignments filas nuevas que no existían (added) y filas viejas que ya no están (removed).
func diffAssignments(old, current []entity.RoleAssignment) (added, removed []entity.RoleAssignment) {
	before := make(map[assignmentKey]bool, len(old))
	for _, r := range old {
		before[assignmentKey{r.RoleID, r.LocationID}] = true
	}
	after := make(map[assignmentKey]bool, len(current))
	for _, r := range current {
		k := assignmentKey{r.RoleID, r.LocationID}
		after[k] = true
		if !before[k] {
			added = append(added, r)
		}
	}
	for _, r := range old {
		if !after[assignmentKey{r.RoleID, r.LocationID}] {
			removed = append(removed, r)
		}
	}
	return added, removed
}
