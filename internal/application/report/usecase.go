package report

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/warenwelt-api/internal/application/dto"
	"github.com/jhoicas/warenwelt-api/internal/domain"
	"github.com/jhoicas/warenwelt-api/internal/domain/entity"
	"github.com/jhoicas/warenwelt-api/internal/domain/rental"
	"github.com/jhoicas/warenwelt-api/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// Tipos de reporte de periodo.
const (
	TypeWeekly  = "WEEKLY"
	TypeMonthly = "MONTHLY"
	TypePeriod  = "PERIOD"
)

// UseCase reportes de ventas: resúmenes por medio de pago, lista de ingresos y exportaciones.
// Todas las operaciones son de solo lectura.
type UseCase struct {
	reports  repository.ReportRepository
	csv      CSVRenderer
	xlsx     WorkbookRenderer
	accounts DATEVAccounts
	currency string
	now      func() time.Time
}

// NewUseCase construye el caso de uso de reportes.
func NewUseCase(reports repository.ReportRepository, csv CSVRenderer, xlsx WorkbookRenderer, accounts DATEVAccounts, currency string) *UseCase {
	if currency == "" {
		currency = "EUR"
	}
	return &UseCase{
		reports:  reports,
		csv:      csv,
		xlsx:     xlsx,
		accounts: accounts.withDefaults(),
		currency: currency,
		now:      time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// salesSummary agregado de ventas sobre un rango cerrado de fechas.
type salesSummary struct {
	start, end time.Time
	total      decimal.Decimal
	count      int
	methods    []dto.PaymentMethodSummary
	commission decimal.Decimal
}

// summarize agrega las ventas de [start, end] (ambos días completos). Todos los medios de pago
// aparecen en el resultado, ordenados alfabéticamente, aunque no tengan ventas.
func (uc *UseCase) summarize(ctx context.Context, start, end time.Time) (*salesSummary, error) {
	start, end = rental.DateOf(start), rental.DateOf(end)
	if start.After(end) {
		return nil, fmt.Errorf("%w: la fecha inicial es posterior a la final", domain.ErrInvalidInput)
	}
	to := end.AddDate(0, 0, 1)

	sales, err := uc.reports.ListSales(ctx, start, to)
	if err != nil {
		return nil, err
	}
	lines, err := uc.reports.ListSaleLines(ctx, start, to)
	if err != nil {
		return nil, err
	}

	s := &salesSummary{start: start, end: end, total: decimal.Zero, commission: decimal.Zero, count: len(sales)}
	byMethod := make(map[entity.PaymentMethod]*dto.PaymentMethodSummary, len(entity.PaymentMethods))
	for _, pm := range entity.PaymentMethods {
		byMethod[pm] = &dto.PaymentMethodSummary{PaymentMethod: string(pm), TotalAmount: decimal.Zero}
	}
	for _, sale := range sales {
		s.total = s.total.Add(sale.TotalAmount)
		agg, ok := byMethod[sale.PaymentMethod]
		if !ok {
			agg = &dto.PaymentMethodSummary{PaymentMethod: string(sale.PaymentMethod), TotalAmount: decimal.Zero}
			byMethod[sale.PaymentMethod] = agg
		}
		agg.TotalAmount = agg.TotalAmount.Add(sale.TotalAmount)
		agg.TransactionCount++
	}
	for _, l := range lines {
		if l.ProductType == entity.ProductTypeCommission {
			s.commission = s.commission.Add(l.CommissionAmountAtSale)
		}
	}

	s.methods = make([]dto.PaymentMethodSummary, 0, len(byMethod))
	for _, agg := range byMethod {
		s.methods = append(s.methods, *agg)
	}
	sortMethods(s.methods)
	return s, nil
}

func sortMethods(m []dto.PaymentMethodSummary) {
	sort.Slice(m, func(i, j int) bool { return m[i].PaymentMethod < m[j].PaymentMethod })
}

// DailySummary resumen de caja del día indicado.
func (uc *UseCase) DailySummary(ctx context.Context, date time.Time) (*dto.DailySummaryResponse, error) {
	s, err := uc.summarize(ctx, date, date)
	if err != nil {
		return nil, err
	}
	return &dto.DailySummaryResponse{
		ReportDate:                     s.start.Format(dateLayout),
		OverallTotalAmount:             s.total,
		OverallTransactionCount:        s.count,
		SummaryByPaymentMethod:         s.methods,
		TotalCommissionPaidToSuppliers: s.commission,
	}, nil
}

// PeriodSummary resumen de caja del rango cerrado [start, end]. Falla si start > end.
func (uc *UseCase) PeriodSummary(ctx context.Context, start, end time.Time, reportType string) (*dto.PeriodSummaryResponse, error) {
	s, err := uc.summarize(ctx, start, end)
	if err != nil {
		return nil, err
	}
	if reportType == "" {
		reportType = TypePeriod
	}
	return &dto.PeriodSummaryResponse{
		ReportType:                     strings.ToUpper(reportType),
		StartDate:                      s.start.Format(dateLayout),
		EndDate:                        s.end.Format(dateLayout),
		OverallTotalAmount:             s.total,
		OverallTransactionCount:        s.count,
		SummaryByPaymentMethod:         s.methods,
		TotalCommissionPaidToSuppliers: s.commission,
	}, nil
}

// WeeklySummary resumen de la semana ISO (lunes a domingo) que contiene date.
func (uc *UseCase) WeeklySummary(ctx context.Context, date time.Time) (*dto.PeriodSummaryResponse, error) {
	monday, sunday := rental.ISOWeekBounds(date)
	return uc.PeriodSummary(ctx, monday, sunday, TypeWeekly)
}

// MonthlySummary resumen del mes calendario indicado.
func (uc *UseCase) MonthlySummary(ctx context.Context, year, month int) (*dto.PeriodSummaryResponse, error) {
	first, last, err := monthRange(year, month)
	if err != nil {
		return nil, err
	}
	return uc.PeriodSummary(ctx, first, last, TypeMonthly)
}

func monthRange(year, month int) (time.Time, time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: mes %d fuera de rango", domain.ErrInvalidInput, month)
	}
	if year < 1 || year > 9999 {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: año %d fuera de rango", domain.ErrInvalidInput, year)
	}
	first, last := rental.MonthBounds(rental.Date(year, time.Month(month), 1))
	return first, last, nil
}

// revenueLine línea vendida con sus importes calculados.
type revenueLine struct {
	repository.SaleLine
	gross decimal.Decimal
	cost  decimal.Decimal
}

type revenueReport struct {
	start, end time.Time
	lines      []revenueLine
	total      decimal.Decimal
	itemsSold  int
	byType     map[string]dto.ProductTypeSummary
}

// revenue calcula ingreso bruto (precio × cantidad) y costo o comisión de cada línea vendida en [start, end].
// Para COMMISSION el costo es la comisión congelada en la venta; para NEW_WARE, precio de compra × cantidad.
func (uc *UseCase) revenue(ctx context.Context, start, end time.Time) (*revenueReport, error) {
	start, end = rental.DateOf(start), rental.DateOf(end)
	if start.After(end) {
		return nil, fmt.Errorf("%w: la fecha inicial es posterior a la final", domain.ErrInvalidInput)
	}
	lines, err := uc.reports.ListSaleLines(ctx, start, end.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	r := &revenueReport{
		start:  start,
		end:    end,
		total:  decimal.Zero,
		lines:  make([]revenueLine, 0, len(lines)),
		byType: make(map[string]dto.ProductTypeSummary, len(entity.ProductTypes)),
	}
	for _, pt := range entity.ProductTypes {
		r.byType[string(pt)] = dto.ProductTypeSummary{TotalRevenue: decimal.Zero, TotalCostOrCommission: decimal.Zero}
	}
	for _, l := range lines {
		// los días del reporte son UTC; el driver puede devolver la hora en la zona local del proceso
		l.TransactionTime = l.TransactionTime.UTC()
		qty := decimal.NewFromInt(int64(l.Quantity))
		rl := revenueLine{SaleLine: l, gross: l.PriceAtSale.Mul(qty), cost: decimal.Zero}
		switch l.ProductType {
		case entity.ProductTypeCommission:
			rl.cost = l.CommissionAmountAtSale
		case entity.ProductTypeNewWare:
			rl.cost = l.PurchasePrice.Mul(qty)
		}
		r.lines = append(r.lines, rl)
		r.total = r.total.Add(rl.gross)
		r.itemsSold += l.Quantity

		agg, ok := r.byType[string(l.ProductType)]
		if !ok {
			agg = dto.ProductTypeSummary{TotalRevenue: decimal.Zero, TotalCostOrCommission: decimal.Zero}
		}
		agg.TotalRevenue = agg.TotalRevenue.Add(rl.gross)
		agg.TotalCostOrCommission = agg.TotalCostOrCommission.Add(rl.cost)
		agg.ItemCount += l.Quantity
		r.byType[string(l.ProductType)] = agg
	}
	return r, nil
}

// RevenueList lista de ingresos por línea y agregado por tipo de producto del rango [start, end].
func (uc *UseCase) RevenueList(ctx context.Context, start, end time.Time) (*dto.RevenueListResponse, error) {
	r, err := uc.revenue(ctx, start, end)
	if err != nil {
		return nil, err
	}
	resp := &dto.RevenueListResponse{
		ReportGeneratedAt:         uc.now().UTC().Format(time.RFC3339),
		ReportPeriodStartDate:     r.start.Format(dateLayout),
		ReportPeriodEndDate:       r.end.Format(dateLayout),
		TotalGrossRevenueAllItems: r.total,
		TotalItemsSold:            r.itemsSold,
		SummaryByProductType:      r.byType,
		RevenueItems:              make([]dto.RevenueItem, 0, len(r.lines)),
	}
	for _, l := range r.lines {
		resp.RevenueItems = append(resp.RevenueItems, dto.RevenueItem{
			ProductID:                    l.ProductID,
			ProductSKU:                   l.ProductSKU,
			ProductName:                  l.ProductName,
			ProductType:                  string(l.ProductType),
			QuantitySold:                 l.Quantity,
			PricePerUnitAtSale:           l.PriceAtSale,
			TotalGrossRevenueForItem:     l.gross,
			PurchasePricePerUnit:         l.PurchasePrice,
			TotalCostOrCommissionForItem: l.cost,
			TaxRatePercentageAtSale:      l.TaxRatePercent,
			SaleID:                       l.SaleID,
			TransactionNumber:            l.TransactionNumber,
			PaymentMethod:                string(l.PaymentMethod),
			SaleTransactionTime:          l.TransactionTime.UTC().Format(time.RFC3339),
		})
	}
	return resp, nil
}
