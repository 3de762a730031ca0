package memstore

import (
	"context"

	"github.com/jhoicas/restaurant-api/internal/application/auth"
	"github.com/jhoicas/restaurant-api/internal/application/staff"
	"github.com/jhoicas/restaurant-api/internal/application/usecase"
	"github.com/jhoicas/restaurant-api/internal/domain/repository"
)

var (
	_ staff.TxRunner            = (*TxRunner)(nil)
	_ auth.RegistrationTxRunner = (*TxRunner)(nil)
	_ usecase.LocationTxRunner  = (*TxRunner)(nil)
)

// TxRunner transacciones sobre una copia del estado: commit reemplaza el estado, error lo descarta.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

func (r *TxRunner) inTx(ctx context.Context, fn func(sc scope) error) error {
	r.store.txMu.Lock()
	defer r.store.txMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	r.store.mu.RLock()
	work := r.store.st.clone()
	r.store.mu.RUnlock()

	if err := fn(scope{store: r.store, tx: work}); err != nil {
		return err
	}
	if err := r.store.failure("tx.Commit"); err != nil {
		return err
	}
	r.store.mu.Lock()
	r.store.st = work
	r.store.mu.Unlock()
	return nil
}

// RunStaff ver staff.TxRunner.
func (r *TxRunner) RunStaff(ctx context.Context, fn func(
	users repository.UserRepository,
	assignments repository.RoleAssignmentRepository,
	audit repository.AssignmentAuditRepository,
) error) error {
	return r.inTx(ctx, func(sc scope) error {
		return fn(&UserRepo{sc}, &RoleAssignmentRepo{sc}, &AuditRepo{sc})
	})
}

// RunRegistration ver auth.RegistrationTxRunner.
func (r *TxRunner) RunRegistration(ctx context.Context, fn func(
	restaurants repository.RestaurantRepository,
	locations repository.LocationRepository,
	users repository.UserRepository,
	assignments repository.RoleAssignmentRepository,
	audit repository.AssignmentAuditRepository,
) error) error {
	return r.inTx(ctx, func(sc scope) error {
		return fn(&RestaurantRepo{sc}, &LocationRepo{sc}, &UserRepo{sc}, &RoleAssignmentRepo{sc}, &AuditRepo{sc})
	})
}

// RunLocation ver usecase.LocationTxRunner.
func (r *TxRunner) RunLocation(ctx context.Context, fn func(
	locations repository.LocationRepository,
	assignments repository.RoleAssignmentRepository,
	audit repository.AssignmentAuditRepository,
) error) error {
	return r.inTx(ctx, func(sc scope) error {
		return fn(&LocationRepo{sc}, &RoleAssignmentRepo{sc}, &AuditRepo{sc})
	})
}
