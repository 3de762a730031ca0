package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/restaurant-api/internal/domain"
)

func TestIsDomainError(t *testing.T) {
	assert.False(t, domain.IsDomainError(nil))
	assert.False(t, domain.IsDomainError(errors.New("conexión rechazada")))
	assert.True(t, domain.IsDomainError(domain.ErrForbidden))
	assert.True(t, domain.IsDomainError(fmt.Errorf("%w: nombre vacío", domain.ErrInvalidInput)))
	assert.True(t, domain.IsDomainError(&domain.RoleNotFoundError{Code: "owner"}))
	assert.True(t, domain.IsDomainError(fmt.Errorf("crear usuario: %w", &domain.TenantMismatchError{Resource: "ubicación", ID: "x"})))
	assert.False(t, domain.IsDomainError(&domain.TransactionAbortedError{Op: "x", Err: errors.New("boom")}))
}

func TestAbortTx(t *testing.T) {
	assert.NoError(t, domain.AbortTx("crear usuario", nil))

	t.Run("errores de negocio pasan sin envolver", func(t *testing.T) {
		in := &domain.MultiplePrimaryRolesError{Count: 2}
		assert.Same(t, in, domain.AbortTx("crear usuario", in))
	})

	t.Run("fallos de infraestructura se envuelven", func(t *testing.T) {
		cause := errors.New("deadlock detected")
		err := domain.AbortTx("crear usuario", cause)

		var aborted *domain.TransactionAbortedError
		require.True(t, errors.As(err, &aborted))
		assert.Equal(t, "crear usuario", aborted.Op)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("no se envuelve dos veces", func(t *testing.T) {
		first := domain.AbortTx("interno", errors.New("boom"))
		assert.Same(t, first, domain.AbortTx("externo", first))
	})
}
