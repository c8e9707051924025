// Package pdf genera el comprobante de liquidación (Auszahlungsbeleg) que recibe el proveedor.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tienda              │  N° Liquidación + Fecha      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PROVEEDOR: Nombre + N° proveedor + email                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Beleg | Artículo | Cant. | Comisión          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL                                                       │
//	│  FOOTER: QR de referencia + nota                             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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

	"github.com/jhoicas/warenwelt-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa payout.StatementRenderer usando Maroto v2.
type MarotoPDFGenerator struct {
	shopName string
	currency string
}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator(shopName, currency string) *MarotoPDFGenerator {
	if currency == "" {
		currency = "EUR"
	}
	return &MarotoPDFGenerator{shopName: shopName, currency: currency}
}

// RenderPayoutStatement genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) RenderPayoutStatement(
	_ context.Context,
	payout *entity.Payout,
	supplier *entity.Supplier,
	items []entity.PaidItem,
) ([]byte, error) {
	if payout == nil || supplier == nil {
		return nil, fmt.Errorf("pdf: liquidación o proveedor vacío")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Auszahlungsbeleg "+payout.PayoutNumber, true).
		WithAuthor(g.shopName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(payout))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(supplierRow(supplier))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow(g.currency))
	for _, r := range tableDetailRows(items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(payout, len(items)))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range g.footerRows(payout) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *MarotoPDFGenerator) headerRow(p *entity.Payout) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.shopName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Kommissionsware", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("AUSZAHLUNGSBELEG", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(p.PayoutNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Datum: "+p.PayoutDate.Format("02.01.2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func supplierRow(s *entity.Supplier) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("LIEFERANT", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(s.DisplayName(), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Lieferantennr.: %s   |   E-Mail: %s   |   Tel: %s",
				s.SupplierNumber,
				nonEmpty(s.Email, "-"),
				nonEmpty(s.Phone, "-"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas pagadas.
func tableHeaderRow(currency string) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Verkauf", 2, align.Left),
		h("Beleg", 3, align.Left),
		h("Artikel", 4, align.Left),
		h("Menge", 1, align.Center),
		h("Betrag "+currency, 2, align.Right),
	)
}

// tableDetailRows: una fila por línea liquidada.
func tableDetailRows(items []entity.PaidItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(
				it.SaleTime.Format("02.01.2006"),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(3).Add(text.New(
				it.TransactionNumber,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(4).Add(text.New(
				fmt.Sprintf("%s (%s)", it.ProductName, it.ProductSKU),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(1).Add(text.New(
				fmt.Sprint(it.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				formatMoney(it.CommissionAmount),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

func (g *MarotoPDFGenerator) totalsRow(p *entity.Payout, count int) core.Row {
	return row.New(14).Add(
		col.New(6),
		col.New(3).Add(
			text.New("Positionen:", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2}),
			text.New("AUSZAHLUNG:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Right: 2, Top: 6,
			}),
		),
		col.New(3).Add(
			text.New(fmt.Sprint(count), props.Text{Size: 9, Align: align.Right, Right: 1}),
			text.New(formatMoney(p.TotalAmount)+" "+g.currency, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Right: 1, Top: 6,
			}),
		),
	)
}

// footerRows: QR con la referencia de la liquidación y nota libre.
func (g *MarotoPDFGenerator) footerRows(p *entity.Payout) []core.Row {
	ref := fmt.Sprintf("%s|%s|%s %s", p.PayoutNumber, p.PayoutDate.Format("2006-01-02"), p.TotalAmount.StringFixed(2), g.currency)
	note := "Bitte bewahren Sie diesen Beleg für Ihre Unterlagen auf."
	if p.Notes != "" {
		note = p.Notes + "\n" + note
	}
	return []core.Row{
		row.New(3),
		row.New(40).Add(
			col.New(3).Add(code.NewQr(ref, props.Rect{Percent: 95, Center: true})),
			col.New(9).Add(
				text.New("Referenz: "+p.PayoutNumber, props.Text{
					Style: fontstyle.Bold, Size: 9, Top: 4, Left: 3, Color: colorPrimary,
				}),
				text.New(note, props.Text{Size: 8, Top: 12, Left: 3, Color: colorGray}),
			),
		),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney formato alemán con puntos de miles y coma decimal.
// Ej: 1234.5 → "1.234,50", -20 → "-20,00"
func formatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3+4)
	if d.IsNegative() {
		buf = append(buf, '-')
	}
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	buf = append(buf, ',')
	buf = append(buf, frac...)
	return string(buf)
}
