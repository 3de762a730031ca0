package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/restaurant-api/internal/application/auth"
	"github.com/jhoicas/restaurant-api/internal/application/staff"
	"github.com/jhoicas/restaurant-api/internal/application/usecase"
	"github.com/jhoicas/restaurant-api/internal/domain/repository"
)

// Ensure TxRunner implements los runners de cada caso de uso transaccional.
var (
	_ staff.TxRunner            = (*TxRunner)(nil)
	_ auth.RegistrationTxRunner = (*TxRunner)(nil)
	_ usecase.LocationTxRunner  = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// inTx inicia una transacción, ejecuta fn y hace Commit; ante cualquier error hace Rollback.
func (r *TxRunner) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunStaff transacción de alta, edición y baja de usuarios con sus asignaciones.
func (r *TxRunner) RunStaff(ctx context.Context, fn func(
	users repository.UserRepository,
	assignments repository.RoleAssignmentRepository,
	audit repository.AssignmentAuditRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewUserRepository(tx), NewRoleAssignmentRepository(tx), NewAssignmentAuditRepository(tx))
	})
}

// RunRegistration transacción del registro de un restaurante (restaurante, sedes y primer administrador).
func (r *TxRunner) RunRegistration(ctx context.Context, fn func(
	restaurants repository.RestaurantRepository,
	locations repository.LocationRepository,
	users repository.UserRepository,
	assignments repository.RoleAssignmentRepository,
	audit repository.AssignmentAuditRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(
			NewRestaurantRepository(tx),
			NewLocationRepository(tx),
			NewUserRepository(tx),
			NewRoleAssignmentRepository(tx),
			NewAssignmentAuditRepository(tx),
		)
	})
}

// RunLocation transacción de cambios de sede que afectan asignaciones (desactivación).
func (r *TxRunner) RunLocation(ctx context.Context, fn func(
	locations repository.LocationRepository,
	assignments repository.RoleAssignmentRepository,
	audit repository.AssignmentAuditRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewLocationRepository(tx), NewRoleAssignmentRepository(tx), NewAssignmentAuditRepository(tx))
	})
}
