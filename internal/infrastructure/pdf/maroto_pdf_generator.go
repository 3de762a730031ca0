// Package pdf genera los documentos imprimibles del restaurante con Maroto v2.
//
// Carta (A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre del restaurante  │  Idioma                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SECCIÓN: nombre de la categoría                            │
//	│    ítem ......................................... precio   │
//	│    descripción                                              │
//	└─────────────────────────────────────────────────────────────┘
//
// Listado de personal (A4): nombre, email, estado y roles por sede.
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/restaurant-api/internal/application/dto"
	"github.com/jhoicas/restaurant-api/internal/application/staff"
	"github.com/jhoicas/restaurant-api/internal/application/usecase"
	"github.com/jhoicas/restaurant-api/internal/domain/entity"
)

var (
	_ usecase.MenuPDFGenerator  = (*MarotoPDFGenerator)(nil)
	_ staff.RosterPDFGenerator = (*MarotoPDFGenerator)(nil)
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 120, Green: 40, Blue: 30}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa los generadores de carta y listado de personal.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

func newDocument(title, author string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(author, true).
		Build()
	return maroto.New(cfg)
}

func render(m core.Maroto) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// GenerateMenuPDF genera la carta ya localizada.
func (g *MarotoPDFGenerator) GenerateMenuPDF(_ context.Context, menu dto.MenuResponse) ([]byte, error) {
	m := newDocument("Carta - "+menu.RestaurantName, menu.RestaurantName)

	m.AddRows(titleRow(menu.RestaurantName, strings.ToUpper(nonEmpty(menu.Language, "es"))))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	if len(menu.Sections) == 0 {
		m.AddRows(row.New(12).Add(col.New(12).Add(
			text.New("La carta no tiene ítems disponibles.", props.Text{Size: 10, Align: align.Center, Top: 4, Color: colorGray}),
		)))
	}
	for _, s := range menu.Sections {
		m.AddRows(sectionRow(s.Name))
		for _, it := range s.Items {
			m.AddRows(menuItemRows(it)...)
		}
		m.AddRows(row.New(3))
	}
	return render(m)
}

// GenerateRosterPDF genera el listado de personal del restaurante.
func (g *MarotoPDFGenerator) GenerateRosterPDF(_ context.Context, restaurant *entity.Restaurant, entries []staff.RosterEntry) ([]byte, error) {
	m := newDocument("Personal - "+restaurant.Name, restaurant.Name)

	m.AddRows(titleRow(restaurant.Name, "Personal al "+time.Now().Format("02/01/2006")))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(rosterHeaderRow())
	for _, e := range entries {
		m.AddRows(rosterRow(e))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(row.New(6).Add(col.New(12).Add(
		text.New(fmt.Sprintf("Total: %d usuarios", len(entries)), props.Text{Size: 8, Align: align.Right, Top: 1, Color: colorGray}),
	)))
	return render(m)
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// titleRow: nombre del restaurante (izq) y subtítulo (der).
func titleRow(name, subtitle string) core.Row {
	return row.New(16).Add(
		col.New(8).Add(text.New(name, props.Text{
			Style: fontstyle.Bold, Size: 16, Color: colorPrimary, Top: 2,
		})),
		col.New(4).Add(text.New(subtitle, props.Text{
			Size: 9, Align: align.Right, Top: 6, Color: colorGray,
		})),
	)
}

func sectionRow(name string) core.Row {
	return row.New(10).Add(col.New(12).Add(text.New(strings.ToUpper(name), props.Text{
		Style: fontstyle.Bold, Size: 11, Color: colorPrimary, Top: 3,
	})))
}

// menuItemRows: nombre y precio en una fila, descripción debajo si existe.
func menuItemRows(it dto.LocalizedItemDTO) []core.Row {
	rows := []core.Row{row.New(6).Add(
		col.New(9).Add(text.New(it.Name, props.Text{Style: fontstyle.Bold, Size: 9, Top: 1, Left: 2})),
		col.New(3).Add(text.New("$"+formatPrice(it.Price), props.Text{Size: 9, Align: align.Right, Top: 1})),
	)}
	if it.Description != "" {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New(it.Description, props.Text{Size: 7.5, Top: 0.5, Left: 4, Color: colorGray}),
		)))
	}
	return rows
}

// rosterHeaderRow: cabecera de la tabla de personal.
func rosterHeaderRow() core.Row {
	h := func(label string, size int) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorWhite, Top: 2, Left: 1,
		}))
	}
	return row.New(8).Add(h("Nombre", 3), h("Email", 3), h("Estado", 1), h("Roles / sedes", 5)).
		WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func rosterRow(e staff.RosterEntry) core.Row {
	roles := make([]string, 0, len(e.Roles))
	for _, r := range e.Roles {
		label := r.Role
		if r.IsPrimary {
			label += " (principal)"
		}
		roles = append(roles, label+": "+nonEmpty(strings.Join(r.Locations, ", "), "—"))
	}
	height := 7.0
	if len(roles) > 1 {
		height = float64(4 * len(roles))
	}
	return row.New(height).Add(
		col.New(3).Add(text.New(e.Name, props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(3).Add(text.New(e.Email, props.Text{Size: 8, Top: 1, Left: 1, Color: colorGray})),
		col.New(1).Add(text.New(e.Status, props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(5).Add(text.New(nonEmpty(strings.Join(roles, "\n"), "—"), props.Text{Size: 7.5, Top: 1, Left: 1})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatPrice miles con punto y decimales con coma solo si los hay.
// Ej: 25000 → "25.000", 4500.5 → "4.500,50"
func formatPrice(d decimal.Decimal) string {
	whole := d.Truncate(0)
	out := formatMoney(whole.StringFixed(0))
	if frac := d.Sub(whole); !frac.IsZero() {
		out += "," + strings.TrimPrefix(frac.StringFixed(2), "0.")
	}
	return out
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
