// Package pdf genera el reporte de inventario en PDF con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título + fecha de generación                        │
//	│  RESUMEN: productos / unidades / bajo mínimo                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Código | Nombre | Categoría | Ubicación | Cant | Mín │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: leyenda                                             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
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
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/wms-api/internal/application/report"
	"github.com/jhoicas/wms-api/internal/domain/entity"
)

var _ report.StockReportGenerator = (*MarotoStockReport)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoStockReport implementa report.StockReportGenerator usando Maroto v2.
type MarotoStockReport struct {
	printer *message.Printer
	loc     *time.Location
}

// NewMarotoStockReport construye el generador. Los números se formatean con separador
// de miles en español; las fechas en la zona loc (UTC si es nil).
func NewMarotoStockReport(loc *time.Location) *MarotoStockReport {
	if loc == nil {
		loc = time.UTC
	}
	return &MarotoStockReport{printer: message.NewPrinter(language.Spanish), loc: loc}
}

// GenerateStockReport genera el PDF y devuelve sus bytes.
func (g *MarotoStockReport) GenerateStockReport(_ context.Context, products []*entity.Product, generatedAt time.Time) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de inventario", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(generatedAt))
	m.AddRows(g.summaryRow(products))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, p := range products {
		m.AddRows(g.productRow(p))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *MarotoStockReport) headerRow(generatedAt time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("REPORTE DE INVENTARIO", props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 2,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+generatedAt.In(g.loc).Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 4, Color: colorGray,
			}),
		),
	)
}

func (g *MarotoStockReport) summaryRow(products []*entity.Product) core.Row {
	units, low := 0, 0
	for _, p := range products {
		units += p.Quantity
		if p.IsLowStock() {
			low++
		}
	}
	summary := g.printer.Sprintf("Productos: %d   |   Unidades en mano: %d   |   Bajo mínimo: %d",
		len(products), units, low)
	return row.New(8).Add(col.New(12).Add(
		text.New(summary, props.Text{Size: 9, Top: 1, Color: colorGray}),
	))
}

// tableHeaderRow: cabecera de la tabla de productos.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Código", 2, align.Left),
		h("Nombre", 4, align.Left),
		h("Categoría", 2, align.Left),
		h("Ubicación", 2, align.Left),
		h("Cant.", 1, align.Right),
		h("Mín.", 1, align.Right),
	)
}

// productRow: una fila por producto; los que están en o bajo el mínimo van en rojo.
func (g *MarotoStockReport) productRow(p *entity.Product) core.Row {
	cell := props.Text{Size: 8, Top: 1, Left: 1}
	qty := props.Text{Size: 8, Top: 1, Right: 1, Align: align.Right}
	if p.IsLowStock() {
		qty.Color = colorAlert
		qty.Style = fontstyle.Bold
	}
	return row.New(7).Add(
		col.New(2).Add(text.New(p.Code, cell)),
		col.New(4).Add(text.New(p.Name, cell)),
		col.New(2).Add(text.New(nonEmpty(p.Category, "-"), cell)),
		col.New(2).Add(text.New(nonEmpty(p.Location, "-"), cell)),
		col.New(1).Add(text.New(g.FormatQuantity(p.Quantity), qty)),
		col.New(1).Add(text.New(g.FormatQuantity(p.MinQuantity),
			props.Text{Size: 8, Top: 1, Right: 1, Align: align.Right, Color: colorGray})),
	)
}

func footerRow() core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New("Cantidades en rojo: saldo en o por debajo del mínimo de reposición.", props.Text{
			Size: 6.5, Color: colorGray, Top: 2,
		}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// FormatQuantity formatea un entero con separador de miles en español ("1.234.567").
func (g *MarotoStockReport) FormatQuantity(n int) string {
	return g.printer.Sprintf("%d", n)
}
