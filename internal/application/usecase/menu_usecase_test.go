package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/restaurant-api/internal/application/dto"
	"github.com/jhoicas/restaurant-api/internal/application/usecase"
	"github.com/jhoicas/restaurant-api/internal/domain"
	"github.com/jhoicas/restaurant-api/internal/domain/entity"
	"github.com/jhoicas/restaurant-api/internal/infrastructure/memstore"
)

type fakeMenuPDF struct {
	got dto.MenuResponse
}

func (f *fakeMenuPDF) GenerateMenuPDF(_ context.Context, menu dto.MenuResponse) ([]byte, error) {
	f.got = menu
	return []byte("%PDF"), nil
}

func newMenuUseCase(t *testing.T) (*usecase.MenuUseCase, *fakeMenuPDF) {
	t.Helper()
	store := memstore.New(nil)
	restaurants := memstore.NewRestaurantRepository(store)
	for _, r := range []entity.Restaurant{
		{ID: "r1", Name: "La Esquina", Subdomain: "la-esquina", Status: entity.RestaurantStatusActive},
		{ID: "r2", Name: "Otro", Subdomain: "otro", Status: entity.RestaurantStatusSuspended},
	} {
		r := r
		require.NoError(t, restaurants.Create(context.Background(), &r))
	}
	pdf := &fakeMenuPDF{}
	return usecase.NewMenuUseCase(memstore.NewMenuRepository(store), restaurants, pdf), pdf
}

func TestMenuUseCase_LocalizedMenu(t *testing.T) {
	ctx := context.Background()
	uc, pdf := newMenuUseCase(t)

	entradas, err := uc.CreateCategory(ctx, "r1", dto.CreateCategoryRequest{
		Name:         "Entradas",
		Translations: map[string]dto.TranslationDTO{"EN": {Name: "Starters"}},
	})
	require.NoError(t, err)
	_, err = uc.CreateCategory(ctx, "r1", dto.CreateCategoryRequest{Name: "Postres", Position: 1})
	require.NoError(t, err)

	empanada, err := uc.CreateItem(ctx, "r1", dto.CreateItemRequest{
		CategoryID:   entradas.ID,
		Name:         "Empanada",
		Description:  "De carne",
		Price:        decimal.RequireFromString("4500.456"),
		Translations: map[string]dto.TranslationDTO{"en": {Name: "Beef pastry"}},
	})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("4500.46").Equal(empanada.Price))

	hidden, err := uc.CreateItem(ctx, "r1", dto.CreateItemRequest{CategoryID: entradas.ID, Name: "Agotado", Price: decimal.NewFromInt(1)})
	require.NoError(t, err)
	unavailable := false
	_, err = uc.UpdateItem(ctx, "r1", hidden.ID, dto.UpdateItemRequest{IsAvailable: &unavailable})
	require.NoError(t, err)

	menu, err := uc.Menu(ctx, "r1", "en")
	require.NoError(t, err)
	assert.Equal(t, "La Esquina", menu.RestaurantName)
	require.Len(t, menu.Sections, 1, "las categorías sin ítems disponibles no aparecen")
	assert.Equal(t, "Starters", menu.Sections[0].Name)
	require.Len(t, menu.Sections[0].Items, 1)
	assert.Equal(t, "Beef pastry", menu.Sections[0].Items[0].Name)
	assert.Equal(t, "De carne", menu.Sections[0].Items[0].Description, "sin traducción se usa el texto base")

	fallback, err := uc.Menu(ctx, "r1", "fr")
	require.NoError(t, err)
	assert.Equal(t, "Entradas", fallback.Sections[0].Name)

	out, err := uc.MenuPDF(ctx, "r1", "en")
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out))
	assert.Equal(t, "en", pdf.got.Language)
}

func TestMenuUseCase_Rejections(t *testing.T) {
	ctx := context.Background()
	uc, _ := newMenuUseCase(t)

	cat, err := uc.CreateCategory(ctx, "r1", dto.CreateCategoryRequest{Name: "Bebidas"})
	require.NoError(t, err)

	_, err = uc.CreateCategory(ctx, "r1", dto.CreateCategoryRequest{Name: "bebidas"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.CreateItem(ctx, "r1", dto.CreateItemRequest{CategoryID: cat.ID, Name: "Agua", Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CreateItem(ctx, "r2", dto.CreateItemRequest{CategoryID: cat.ID, Name: "Agua", Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "categoría de otro restaurante")

	_, err = uc.CreateItem(ctx, "r1", dto.CreateItemRequest{CategoryID: cat.ID, Name: "Agua", Price: decimal.NewFromInt(3000)})
	require.NoError(t, err)
	assert.ErrorIs(t, uc.DeleteCategory(ctx, "r1", cat.ID), domain.ErrConflict)

	_, err = uc.Menu(ctx, "nope", "es")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMenuUseCase_PublicMenu(t *testing.T) {
	ctx := context.Background()
	uc, _ := newMenuUseCase(t)

	cat, err := uc.CreateCategory(ctx, "r1", dto.CreateCategoryRequest{Name: "Bebidas"})
	require.NoError(t, err)
	_, err = uc.CreateItem(ctx, "r1", dto.CreateItemRequest{CategoryID: cat.ID, Name: "Limonada", Price: decimal.NewFromInt(6000)})
	require.NoError(t, err)

	menu, err := uc.PublicMenu(ctx, " La-Esquina ", "es")
	require.NoError(t, err)
	assert.Equal(t, "La Esquina", menu.RestaurantName)
	require.Len(t, menu.Sections, 1)

	_, err = uc.PublicMenu(ctx, "otro", "es")
	assert.ErrorIs(t, err, domain.ErrNotFound, "un restaurante suspendido no publica su carta")

	_, err = uc.PublicMenu(ctx, "no-existe", "es")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
