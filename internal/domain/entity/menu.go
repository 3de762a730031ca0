package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Translation contenido traducido de un elemento del menú (clave: código de idioma, ej. "en").
type Translation struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// MenuCategory agrupa ítems del menú de un restaurante.
type MenuCategory struct {
	ID           string
	RestaurantID string
	Name         string
	Translations map[string]Translation
	Position     int
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// MenuItem plato o bebida del menú. Price en la moneda del restaurante.
type MenuItem struct {
	ID           string
	RestaurantID string
	CategoryID   string
	Name         string
	Description  string
	Price        decimal.Decimal
	Translations map[string]Translation
	IsAvailable  bool
	Position     int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LocalizedName devuelve el nombre en lang si existe traducción, si no el nombre base.
func (i *MenuItem) LocalizedName(lang string) string {
	if t, ok := i.Translations[lang]; ok && t.Name != "" {
		return t.Name
	}
	return i.Name
}

// LocalizedDescription igual que LocalizedName para la descripción.
func (i *MenuItem) LocalizedDescription(lang string) string {
	if t, ok := i.Translations[lang]; ok && t.Description != "" {
		return t.Description
	}
	return i.Description
}

// LocalizedName devuelve el nombre de la categoría en lang si existe traducción.
func (c *MenuCategory) LocalizedName(lang string) string {
	if t, ok := c.Translations[lang]; ok && t.Name != "" {
		return t.Name
	}
	return c.Name
}
