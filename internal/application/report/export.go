package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/warenwelt-api/internal/domain"
	"github.com/jhoicas/warenwelt-api/internal/domain/entity"
)

// Charset codificación de salida de las exportaciones CSV.
type Charset string

const (
	CharsetUTF8   Charset = "utf-8"
	CharsetLatin1 Charset = "latin1"
)

// ParseCharset interpreta el parámetro encoding. Vacío equivale a UTF-8.
func ParseCharset(s string) (Charset, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "utf-8", "utf8":
		return CharsetUTF8, nil
	case "latin1", "latin-1", "iso-8859-1", "iso8859-1":
		return CharsetLatin1, nil
	}
	return "", fmt.Errorf("%w: encoding %q no soportado", domain.ErrInvalidInput, s)
}

// DATEVAccounts plan de cuentas de la exportación contable. Es una tabla configurable;
// los valores por defecto siguen SKR03.
type DATEVAccounts struct {
	Cash              string
	Card              string
	Voucher           string
	Mixed             string
	RevenueNewWare19  string
	RevenueNewWare7   string
	RevenueCommission string
}

// DefaultDATEVAccounts cuentas SKR03 por defecto.
func DefaultDATEVAccounts() DATEVAccounts {
	return DATEVAccounts{
		Cash:              "1000",
		Card:              "1360",
		Voucher:           "1740",
		Mixed:             "1000",
		RevenueNewWare19:  "8400",
		RevenueNewWare7:   "8300",
		RevenueCommission: "8500",
	}
}

func (a DATEVAccounts) withDefaults() DATEVAccounts {
	d := DefaultDATEVAccounts()
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&a.Cash, d.Cash)
	fill(&a.Card, d.Card)
	fill(&a.Voucher, d.Voucher)
	fill(&a.Mixed, d.Mixed)
	fill(&a.RevenueNewWare19, d.RevenueNewWare19)
	fill(&a.RevenueNewWare7, d.RevenueNewWare7)
	fill(&a.RevenueCommission, d.RevenueCommission)
	return a
}

// CounterAccount cuenta de contrapartida (caja, tránsito de tarjetas, vales) según el medio de pago.
func (a DATEVAccounts) CounterAccount(m entity.PaymentMethod) string {
	switch m {
	case entity.PaymentMethodCard:
		return a.Card
	case entity.PaymentMethodVoucher:
		return a.Voucher
	case entity.PaymentMethodMixed:
		return a.Mixed
	default:
		return a.Cash
	}
}

var reducedRate = decimal.NewFromInt(7)

// RevenueAccount cuenta de ingresos según tipo de producto y tipo de IVA.
// NEW_WARE al 7 % va a la cuenta reducida; cualquier otro tipo de IVA, a la general.
func (a DATEVAccounts) RevenueAccount(t entity.ProductType, taxRate *decimal.Decimal) string {
	switch t {
	case entity.ProductTypeCommission:
		return a.RevenueCommission
	case entity.ProductTypeNewWare:
		if taxRate != nil && taxRate.Equal(reducedRate) {
			return a.RevenueNewWare7
		}
	}
	return a.RevenueNewWare19
}

// Encabezados de exportación (consumidos por herramientas contables alemanas).
var (
	dailyHeader = []string{
		"Datum", "Zahlungsmethode", "Betrag", "Anzahl Transaktionen",
		"Gesamtumsatz Tag", "Gesamt Transaktionen Tag", "Gesamt Kommissionen an Lieferanten",
	}
	monthlyHeader = []string{
		"Startdatum", "Enddatum", "Zahlungsmethode", "Betrag", "Anzahl Transaktionen",
		"Gesamtumsatz Monat", "Gesamt Transaktionen Monat", "Gesamt Kommissionen an Lieferanten",
	}
	datevHeader = []string{
		"Umsatz", "Gegenkonto", "Konto", "WKZ", "Belegdatum", "Belegfeld 1", "Buchungstext",
	}
	revenueHeader = []string{
		"Verkaufsdatum", "Belegnummer", "Zahlungsmethode", "Artikelnummer", "Bezeichnung", "Typ",
		"Menge", "Einzelpreis", "Umsatz brutto", "Einkaufspreis", "Kosten/Kommission", "MwSt %",
	}
	revenueSummaryHeader = []string{"Typ", "Umsatz", "Kosten/Kommission", "Anzahl Artikel"}
)

// DailyTable filas del resumen diario: una por medio de pago, con los totales del día repetidos.
func (uc *UseCase) DailyTable(ctx context.Context, date time.Time) (Table, error) {
	s, err := uc.summarize(ctx, date, date)
	if err != nil {
		return Table{}, err
	}
	t := Table{Header: dailyHeader, Rows: make([]map[string]any, 0, len(s.methods))}
	for _, m := range s.methods {
		t.Rows = append(t.Rows, map[string]any{
			"Datum":                              s.start,
			"Zahlungsmethode":                    m.PaymentMethod,
			"Betrag":                             m.TotalAmount,
			"Anzahl Transaktionen":               m.TransactionCount,
			"Gesamtumsatz Tag":                   s.total,
			"Gesamt Transaktionen Tag":           s.count,
			"Gesamt Kommissionen an Lieferanten": s.commission,
		})
	}
	return t, nil
}

// MonthlyTable filas del resumen mensual.
func (uc *UseCase) MonthlyTable(ctx context.Context, year, month int) (Table, error) {
	first, last, err := monthRange(year, month)
	if err != nil {
		return Table{}, err
	}
	s, err := uc.summarize(ctx, first, last)
	if err != nil {
		return Table{}, err
	}
	t := Table{Header: monthlyHeader, Rows: make([]map[string]any, 0, len(s.methods))}
	for _, m := range s.methods {
		t.Rows = append(t.Rows, map[string]any{
			"Startdatum":                         s.start,
			"Enddatum":                           s.end,
			"Zahlungsmethode":                    m.PaymentMethod,
			"Betrag":                             m.TotalAmount,
			"Anzahl Transaktionen":               m.TransactionCount,
			"Gesamtumsatz Monat":                 s.total,
			"Gesamt Transaktionen Monat":         s.count,
			"Gesamt Kommissionen an Lieferanten": s.commission,
		})
	}
	return t, nil
}

// DATEVTable una fila de asiento por línea vendida, agrupadas por venta en orden de aparición.
func (uc *UseCase) DATEVTable(ctx context.Context, start, end time.Time) (Table, error) {
	r, err := uc.revenue(ctx, start, end)
	if err != nil {
		return Table{}, err
	}
	var order []string
	bySale := map[string][]revenueLine{}
	for _, l := range r.lines {
		if _, ok := bySale[l.SaleID]; !ok {
			order = append(order, l.SaleID)
		}
		bySale[l.SaleID] = append(bySale[l.SaleID], l)
	}

	t := Table{Header: datevHeader, Rows: make([]map[string]any, 0, len(r.lines))}
	for _, saleID := range order {
		for _, l := range bySale[saleID] {
			t.Rows = append(t.Rows, map[string]any{
				"Umsatz":       l.gross,
				"Gegenkonto":   uc.accounts.CounterAccount(l.PaymentMethod),
				"Konto":        uc.accounts.RevenueAccount(l.ProductType, l.TaxRatePercent),
				"WKZ":          uc.currency,
				"Belegdatum":   l.TransactionTime,
				"Belegfeld 1":  l.TransactionNumber,
				"Buchungstext": fmt.Sprintf("%s (%s) S-%s", l.ProductName, l.ProductSKU, l.SaleID),
			})
		}
	}
	return t, nil
}

// revenueSheets hojas de la lista de ingresos: detalle por línea y resumen por tipo de producto.
func (uc *UseCase) revenueSheets(ctx context.Context, start, end time.Time) ([]Sheet, error) {
	r, err := uc.revenue(ctx, start, end)
	if err != nil {
		return nil, err
	}
	detail := Table{Header: revenueHeader, Rows: make([]map[string]any, 0, len(r.lines))}
	for _, l := range r.lines {
		var tax any
		if l.TaxRatePercent != nil {
			tax = *l.TaxRatePercent
		}
		detail.Rows = append(detail.Rows, map[string]any{
			"Verkaufsdatum":     l.TransactionTime,
			"Belegnummer":       l.TransactionNumber,
			"Zahlungsmethode":   string(l.PaymentMethod),
			"Artikelnummer":     l.ProductSKU,
			"Bezeichnung":       l.ProductName,
			"Typ":               string(l.ProductType),
			"Menge":             l.Quantity,
			"Einzelpreis":       l.PriceAtSale,
			"Umsatz brutto":     l.gross,
			"Einkaufspreis":     l.PurchasePrice,
			"Kosten/Kommission": l.cost,
			"MwSt %":            tax,
		})
	}

	summary := Table{Header: revenueSummaryHeader}
	for _, pt := range entity.ProductTypes {
		agg := r.byType[string(pt)]
		summary.Rows = append(summary.Rows, map[string]any{
			"Typ":               string(pt),
			"Umsatz":            agg.TotalRevenue,
			"Kosten/Kommission": agg.TotalCostOrCommission,
			"Anzahl Artikel":    agg.ItemCount,
		})
	}
	summary.Rows = append(summary.Rows, map[string]any{
		"Typ":            "GESAMT",
		"Umsatz":         r.total,
		"Anzahl Artikel": r.itemsSold,
	})

	return []Sheet{
		{Name: "Umsatzliste", Table: detail},
		{Name: "Zusammenfassung", Table: summary},
	}, nil
}

// ExportDailyCSV resumen diario en CSV.
func (uc *UseCase) ExportDailyCSV(ctx context.Context, date time.Time, charset Charset) ([]byte, error) {
	t, err := uc.DailyTable(ctx, date)
	if err != nil {
		return nil, err
	}
	return uc.csv.RenderCSV(t, charset)
}

// ExportMonthlyCSV resumen mensual en CSV.
func (uc *UseCase) ExportMonthlyCSV(ctx context.Context, year, month int, charset Charset) ([]byte, error) {
	t, err := uc.MonthlyTable(ctx, year, month)
	if err != nil {
		return nil, err
	}
	return uc.csv.RenderCSV(t, charset)
}

// ExportDATEVCSV asientos contables tipo DATEV del rango [start, end].
func (uc *UseCase) ExportDATEVCSV(ctx context.Context, start, end time.Time, charset Charset) ([]byte, error) {
	t, err := uc.DATEVTable(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return uc.csv.RenderCSV(t, charset)
}

// ExportRevenueXLSX lista de ingresos del rango [start, end] como libro XLSX.
func (uc *UseCase) ExportRevenueXLSX(ctx context.Context, start, end time.Time) ([]byte, error) {
	if uc.xlsx == nil {
		return nil, fmt.Errorf("%w: exportación XLSX no configurada", domain.ErrPrecondition)
	}
	sheets, err := uc.revenueSheets(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return uc.xlsx.RenderWorkbook(ctx, sheets)
}
