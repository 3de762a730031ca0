package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/restaurant-api/internal/application/dto"
	"github.com/jhoicas/restaurant-api/internal/application/usecase"
	"github.com/jhoicas/restaurant-api/internal/domain"
	"github.com/jhoicas/restaurant-api/internal/domain/entity"
	"github.com/jhoicas/restaurant-api/internal/infrastructure/memstore"
)

func TestRestaurantUseCase_Update(t *testing.T) {
	ctx := context.Background()
	store := memstore.New(nil)
	repo := memstore.NewRestaurantRepository(store)
	require.NoError(t, repo.Create(ctx, &entity.Restaurant{ID: "r1", Name: "Viejo", Subdomain: "viejo", Status: entity.RestaurantStatusActive}))
	uc := usecase.NewRestaurantUseCase(repo)

	name, email := "  Nuevo  ", "Contacto@Nuevo.co"
	out, err := uc.Update(ctx, "r1", dto.UpdateRestaurantRequest{Name: &name, Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "Nuevo", out.Name)
	assert.Equal(t, "contacto@nuevo.co", out.Email)
	assert.Equal(t, "viejo", out.Subdomain)

	_, err = uc.Get(ctx, "r2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRestaurantUseCase_IsActive(t *testing.T) {
	ctx := context.Background()
	store := memstore.New(nil)
	repo := memstore.NewRestaurantRepository(store)
	require.NoError(t, repo.Create(ctx, &entity.Restaurant{ID: "r1", Name: "Abierto", Subdomain: "abierto", Status: entity.RestaurantStatusActive}))
	require.NoError(t, repo.Create(ctx, &entity.Restaurant{ID: "r2", Name: "Cerrado", Subdomain: "cerrado", Status: entity.RestaurantStatusSuspended}))
	uc := usecase.NewRestaurantUseCase(repo)

	ok, err := uc.IsActive(ctx, "r1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = uc.IsActive(ctx, "r2")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = uc.IsActive(ctx, "no-existe")
	require.NoError(t, err)
	assert.False(t, ok)
}
