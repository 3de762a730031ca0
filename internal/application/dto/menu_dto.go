package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TranslationDTO contenido traducido (clave del mapa: código de idioma).
type TranslationDTO struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description,omitempty"`
}

// CreateCategoryRequest entrada para crear una categoría del menú.
type CreateCategoryRequest struct {
	Name         string                    `json:"name" validate:"required,min=1,max=200"`
	Translations map[string]TranslationDTO `json:"translations" validate:"omitempty,dive,keys,len=2,endkeys"`
	Position     int                       `json:"position" validate:"min=0"`
}

// UpdateCategoryRequest entrada para actualizar una categoría (campos opcionales).
type UpdateCategoryRequest struct {
	Name         *string                   `json:"name" validate:"omitempty,min=1,max=200"`
	Translations map[string]TranslationDTO `json:"translations" validate:"omitempty,dive,keys,len=2,endkeys"`
	Position     *int                      `json:"position" validate:"omitempty,min=0"`
	IsActive     *bool                     `json:"is_active"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID           string                    `json:"id"`
	Name         string                    `json:"name"`
	Translations map[string]TranslationDTO `json:"translations"`
	Position     int                       `json:"position"`
	IsActive     bool                      `json:"is_active"`
	CreatedAt    time.Time                 `json:"created_at"`
	UpdatedAt    time.Time                 `json:"updated_at"`
}

// CreateItemRequest entrada para crear un ítem del menú.
type CreateItemRequest struct {
	CategoryID   string                    `json:"category_id" validate:"required,uuid"`
	Name         string                    `json:"name" validate:"required,min=1,max=200"`
	Description  string                    `json:"description" validate:"omitempty,max=2000"`
	Price        decimal.Decimal           `json:"price"`
	Translations map[string]TranslationDTO `json:"translations" validate:"omitempty,dive,keys,len=2,endkeys"`
	Position     int                       `json:"position" validate:"min=0"`
}

// UpdateItemRequest entrada para actualizar un ítem (campos opcionales).
type UpdateItemRequest struct {
	CategoryID   *string                   `json:"category_id" validate:"omitempty,uuid"`
	Name         *string                   `json:"name" validate:"omitempty,min=1,max=200"`
	Description  *string                   `json:"description" validate:"omitempty,max=2000"`
	Price        *decimal.Decimal          `json:"price"`
	Translations map[string]TranslationDTO `json:"translations" validate:"omitempty,dive,keys,len=2,endkeys"`
	IsAvailable  *bool                     `json:"is_available"`
	Position     *int                      `json:"position" validate:"omitempty,min=0"`
}

// ItemResponse salida de un ítem del menú.
type ItemResponse struct {
	ID           string                    `json:"id"`
	CategoryID   string                    `json:"category_id"`
	Name         string                    `json:"name"`
	Description  string                    `json:"description,omitempty"`
	Price        decimal.Decimal           `json:"price"`
	Translations map[string]TranslationDTO `json:"translations"`
	IsAvailable  bool                      `json:"is_available"`
	Position     int                       `json:"position"`
	CreatedAt    time.Time                 `json:"created_at"`
	UpdatedAt    time.Time                 `json:"updated_at"`
}

// MenuSection categoría con sus ítems, ya localizada.
type MenuSection struct {
	CategoryID string             `json:"category_id"`
	Name       string             `json:"name"`
	Items      []LocalizedItemDTO `json:"items"`
}

// LocalizedItemDTO ítem en el idioma pedido (o el base si no hay traducción).
type LocalizedItemDTO struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
}

// MenuResponse menú público completo de un restaurante.
type MenuResponse struct {
	RestaurantName string        `json:"restaurant_name"`
	Language       string        `json:"language"`
	Sections       []MenuSection `json:"sections"`
}
