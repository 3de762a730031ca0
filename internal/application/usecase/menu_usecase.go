package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/restaurant-api/internal/application/dto"
	"github.com/jhoicas/restaurant-api/internal/domain"
	"github.com/jhoicas/restaurant-api/internal/domain/entity"
	"github.com/jhoicas/restaurant-api/internal/domain/repository"
)

// MenuPDFGenerator genera la carta imprimible.
type MenuPDFGenerator interface {
	GenerateMenuPDF(ctx context.Context, menu dto.MenuResponse) ([]byte, error)
}

// MenuUseCase casos de uso del menú: categorías, ítems y carta localizada.
type MenuUseCase struct {
	repo        repository.MenuRepository
	restaurants repository.RestaurantRepository
	pdf         MenuPDFGenerator
}

// NewMenuUseCase construye el caso de uso.
func NewMenuUseCase(repo repository.MenuRepository, restaurants repository.RestaurantRepository, pdf MenuPDFGenerator) *MenuUseCase {
	return &MenuUseCase{repo: repo, restaurants: restaurants, pdf: pdf}
}

// ── Categorías ────────────────────────────────────────────────────────────────

// CreateCategory crea una categoría del menú.
func (uc *MenuUseCase) CreateCategory(ctx context.Context, restaurantID string, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	now := time.Now()
	c := &entity.MenuCategory{
		ID:           uuid.New().String(),
		RestaurantID: restaurantID,
		Name:         strings.TrimSpace(in.Name),
		Translations: toTranslations(in.Translations),
		Position:     in.Position,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	out := toCategoryResponse(c)
	return &out, nil
}

// UpdateCategory actualiza una categoría. Translations no nil reemplaza todas las traducciones.
func (uc *MenuUseCase) UpdateCategory(ctx context.Context, restaurantID, id string, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	c, err := uc.repo.GetCategory(ctx, restaurantID, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.Translations != nil {
		c.Translations = toTranslations(in.Translations)
	}
	if in.Position != nil {
		c.Position = *in.Position
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	c.UpdatedAt = time.Now()
	if err := uc.repo.UpdateCategory(ctx, c); err != nil {
		return nil, err
	}
	out := toCategoryResponse(c)
	return &out, nil
}

// DeleteCategory elimina una categoría vacía.
func (uc *MenuUseCase) DeleteCategory(ctx context.Context, restaurantID, id string) error {
	return uc.repo.DeleteCategory(ctx, restaurantID, id)
}

// ListCategories lista las categorías del restaurante.
func (uc *MenuUseCase) ListCategories(ctx context.Context, restaurantID string) ([]dto.CategoryResponse, error) {
	list, err := uc.repo.ListCategories(ctx, restaurantID, false)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCategoryResponse(c))
	}
	return out, nil
}

// ── Ítems ─────────────────────────────────────────────────────────────────────

// CreateItem crea un ítem en una categoría del mismo restaurante.
func (uc *MenuUseCase) CreateItem(ctx context.Context, restaurantID string, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
	}
	if err := uc.requireCategory(ctx, restaurantID, in.CategoryID); err != nil {
		return nil, err
	}
	now := time.Now()
	it := &entity.MenuItem{
		ID:           uuid.New().String(),
		RestaurantID: restaurantID,
		CategoryID:   in.CategoryID,
		Name:         strings.TrimSpace(in.Name),
		Description:  strings.TrimSpace(in.Description),
		Price:        in.Price.Round(2),
		Translations: toTranslations(in.Translations),
		IsAvailable:  true,
		Position:     in.Position,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.CreateItem(ctx, it); err != nil {
		return nil, err
	}
	out := toItemResponse(it)
	return &out, nil
}

// UpdateItem actualiza un ítem; mover de categoría exige que la destino sea del restaurante.
func (uc *MenuUseCase) UpdateItem(ctx context.Context, restaurantID, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	it, err := uc.repo.GetItem(ctx, restaurantID, id)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, domain.ErrNotFound
	}
	if in.CategoryID != nil && *in.CategoryID != it.CategoryID {
		if err := uc.requireCategory(ctx, restaurantID, *in.CategoryID); err != nil {
			return nil, err
		}
		it.CategoryID = *in.CategoryID
	}
	if in.Name != nil {
		it.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		it.Description = strings.TrimSpace(*in.Description)
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
		}
		it.Price = in.Price.Round(2)
	}
	if in.Translations != nil {
		it.Translations = toTranslations(in.Translations)
	}
	if in.IsAvailable != nil {
		it.IsAvailable = *in.IsAvailable
	}
	if in.Position != nil {
		it.Position = *in.Position
	}
	it.UpdatedAt = time.Now()
	if err := uc.repo.UpdateItem(ctx, it); err != nil {
		return nil, err
	}
	out := toItemResponse(it)
	return &out, nil
}

// DeleteItem elimina un ítem.
func (uc *MenuUseCase) DeleteItem(ctx context.Context, restaurantID, id string) error {
	return uc.repo.DeleteItem(ctx, restaurantID, id)
}

// ListItems lista ítems, opcionalmente de una sola categoría.
func (uc *MenuUseCase) ListItems(ctx context.Context, restaurantID, categoryID string) ([]dto.ItemResponse, error) {
	list, err := uc.repo.ListItems(ctx, restaurantID, categoryID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		out = append(out, toItemResponse(it))
	}
	return out, nil
}

// ── Carta ─────────────────────────────────────────────────────────────────────

// Menu arma la carta en el idioma lang: categorías activas con sus ítems disponibles.
// Sin traducción para lang se usa el texto base.
func (uc *MenuUseCase) Menu(ctx context.Context, restaurantID, lang string) (*dto.MenuResponse, error) {
	restaurant, err := uc.restaurants.GetByID(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if restaurant == nil {
		return nil, domain.ErrNotFound
	}
	cats, err := uc.repo.ListCategories(ctx, restaurantID, true)
	if err != nil {
		return nil, err
	}
	items, err := uc.repo.ListItems(ctx, restaurantID, "")
	if err != nil {
		return nil, err
	}
	lang = strings.ToLower(strings.TrimSpace(lang))

	byCategory := make(map[string][]dto.LocalizedItemDTO, len(cats))
	for _, it := range items {
		if !it.IsAvailable {
			continue
		}
		byCategory[it.CategoryID] = append(byCategory[it.CategoryID], dto.LocalizedItemDTO{
			ID:          it.ID,
			Name:        it.LocalizedName(lang),
			Description: it.LocalizedDescription(lang),
			Price:       it.Price,
		})
	}
	out := &dto.MenuResponse{RestaurantName: restaurant.Name, Language: lang, Sections: make([]dto.MenuSection, 0, len(cats))}
	for _, c := range cats {
		sectionItems := byCategory[c.ID]
		if len(sectionItems) == 0 {
			continue
		}
		out.Sections = append(out.Sections, dto.MenuSection{
			CategoryID: c.ID,
			Name:       c.LocalizedName(lang),
			Items:      sectionItems,
		})
	}
	return out, nil
}

// PublicMenu carta de un restaurante activo resuelto por subdominio, para clientes sin sesión.
func (uc *MenuUseCase) PublicMenu(ctx context.Context, subdomain, lang string) (*dto.MenuResponse, error) {
	restaurant, err := uc.restaurants.GetBySubdomain(ctx, strings.ToLower(strings.TrimSpace(subdomain)))
	if err != nil {
		return nil, err
	}
	if restaurant == nil || restaurant.Status != entity.RestaurantStatusActive {
		return nil, domain.ErrNotFound
	}
	return uc.Menu(ctx, restaurant.ID, lang)
}

// MenuPDF genera la carta imprimible en el idioma lang.
func (uc *MenuUseCase) MenuPDF(ctx context.Context, restaurantID, lang string) ([]byte, error) {
	menu, err := uc.Menu(ctx, restaurantID, lang)
	if err != nil {
		return nil, err
	}
	return uc.pdf.GenerateMenuPDF(ctx, *menu)
}

func (uc *MenuUseCase) requireCategory(ctx context.Context, restaurantID, id string) error {
	c, err := uc.repo.GetCategory(ctx, restaurantID, id)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("%w: categoría '%s' no encontrada", domain.ErrInvalidInput, id)
	}
	return nil
}

func toTranslations(in map[string]dto.TranslationDTO) map[string]entity.Translation {
	out := make(map[string]entity.Translation, len(in))
	for lang, t := range in {
		out[strings.ToLower(lang)] = entity.Translation{Name: t.Name, Description: t.Description}
	}
	return out
}

func fromTranslations(in map[string]entity.Translation) map[string]dto.TranslationDTO {
	out := make(map[string]dto.TranslationDTO, len(in))
	for lang, t := range in {
		out[lang] = dto.TranslationDTO{Name: t.Name, Description: t.Description}
	}
	return out
}

func toCategoryResponse(c *entity.MenuCategory) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:           c.ID,
		Name:         c.Name,
		Translations: fromTranslations(c.Translations),
		Position:     c.Position,
		IsActive:     c.IsActive,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func toItemResponse(it *entity.MenuItem) dto.ItemResponse {
	return dto.ItemResponse{
		ID:           it.ID,
		CategoryID:   it.CategoryID,
		Name:         it.Name,
		Description:  it.Description,
		Price:        it.Price,
		Translations: fromTranslations(it.Translations),
		IsAvailable:  it.IsAvailable,
		Position:     it.Position,
		CreatedAt:    it.CreatedAt,
		UpdatedAt:    it.UpdatedAt,
	}
}
