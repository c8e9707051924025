package report_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warenwelt-api/internal/application/report"
	"github.com/jhoicas/warenwelt-api/internal/domain"
	"github.com/jhoicas/warenwelt-api/internal/domain/entity"
	"github.com/jhoicas/warenwelt-api/internal/domain/repository"
	"github.com/jhoicas/warenwelt-api/internal/infrastructure/csvexport"
	"github.com/jhoicas/warenwelt-api/internal/infrastructure/memory"
)

type fixture struct {
	repos repository.Repositories
	uc    *report.UseCase
	seq   int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repositories()
	uc := report.NewUseCase(repos.Reports, csvexport.NewRenderer(), nil, report.DefaultDATEVAccounts(), "EUR").
		WithClock(func() time.Time { return time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC) })
	return &fixture{repos: repos, uc: uc}
}

type line struct {
	typ      entity.ProductType
	purchase string
	price    string
	qty      int
	taxRate  string // vacío = sin tipo de IVA asignado
}

// sale registra una venta con un producto nuevo por línea.
func (f *fixture) sale(t *testing.T, at time.Time, method entity.PaymentMethod, lines ...line) *entity.Sale {
	t.Helper()
	ctx := context.Background()
	f.seq++
	s := &entity.Sale{
		ID:                fmt.Sprintf("sale-%d", f.seq),
		TransactionNumber: fmt.Sprintf("TRX-%04d", f.seq),
		PaymentMethod:     method,
		TotalAmount:       decimal.Zero,
		TransactionTime:   at,
	}
	for i, l := range lines {
		p := &entity.Product{
			ID:            fmt.Sprintf("p-%d-%d", f.seq, i),
			SKU:           fmt.Sprintf("SKU-%d-%d", f.seq, i),
			Name:          fmt.Sprintf("Artikel %d-%d", f.seq, i),
			SupplierID:    "s1",
			Type:          l.typ,
			Status:        entity.ProductStatusSold,
			PurchasePrice: decimal.RequireFromString(l.purchase),
			SellingPrice:  decimal.RequireFromString(l.price),
		}
		if l.taxRate != "" {
			p.TaxRateID = "tax-" + l.taxRate
			p.TaxRate = decimal.RequireFromString(l.taxRate)
		}
		require.NoError(t, f.repos.Products.Create(ctx, p))
		qty := decimal.NewFromInt(int64(l.qty))
		item := &entity.SaleItem{
			ID:                     fmt.Sprintf("item-%d-%d", f.seq, i),
			ProductID:              p.ID,
			Quantity:               l.qty,
			PriceAtSale:            p.SellingPrice,
			CommissionAmountAtSale: p.CommissionPerUnit().Mul(qty),
		}
		s.Items = append(s.Items, item)
		s.TotalAmount = s.TotalAmount.Add(item.LineTotal())
	}
	require.NoError(t, f.repos.Sales.Create(ctx, s))
	return s
}

func at(day, hour, min int) time.Time {
	return time.Date(2024, 6, day, hour, min, 0, 0, time.UTC)
}

func TestDailySummary_AllPaymentMethodsSorted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.sale(t, at(10, 0, 0), entity.PaymentMethodCash, line{entity.ProductTypeCommission, "6.00", "10.00", 1, ""})
	f.sale(t, at(10, 23, 59), entity.PaymentMethodCash, line{entity.ProductTypeNewWare, "2.00", "5.00", 2, "19.00"})
	f.sale(t, at(10, 12, 0), entity.PaymentMethodCard, line{entity.ProductTypeCommission, "3.50", "7.00", 2, ""})
	// Fuera del día.
	f.sale(t, at(11, 0, 0), entity.PaymentMethodVoucher, line{entity.ProductTypeNewWare, "1.00", "99.00", 1, ""})
	f.sale(t, at(9, 23, 59), entity.PaymentMethodVoucher, line{entity.ProductTypeNewWare, "1.00", "99.00", 1, ""})

	got, err := f.uc.DailySummary(ctx, at(10, 15, 0))
	require.NoError(t, err)

	assert.Equal(t, "2024-06-10", got.ReportDate)
	assert.Equal(t, 3, got.OverallTransactionCount)
	assert.Equal(t, "34.00", got.OverallTotalAmount.StringFixed(2))
	assert.Equal(t, "13.00", got.TotalCommissionPaidToSuppliers.StringFixed(2))

	require.Len(t, got.SummaryByPaymentMethod, 4)
	var methods []string
	for _, m := range got.SummaryByPaymentMethod {
		methods = append(methods, m.PaymentMethod)
	}
	assert.Equal(t, []string{"CARD", "CASH", "MIXED", "VOUCHER"}, methods)
	assert.Equal(t, "14.00", got.SummaryByPaymentMethod[0].TotalAmount.StringFixed(2))
	assert.Equal(t, 1, got.SummaryByPaymentMethod[0].TransactionCount)
	assert.Equal(t, "20.00", got.SummaryByPaymentMethod[1].TotalAmount.StringFixed(2))
	assert.Equal(t, 2, got.SummaryByPaymentMethod[1].TransactionCount)
	assert.True(t, got.SummaryByPaymentMethod[2].TotalAmount.IsZero())
	assert.Equal(t, 0, got.SummaryByPaymentMethod[3].TransactionCount)
}

func TestDailySummary_EmptyDayStillListsMethods(t *testing.T) {
	f := newFixture(t)
	got, err := f.uc.DailySummary(context.Background(), at(1, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, 0, got.OverallTransactionCount)
	assert.True(t, got.OverallTotalAmount.IsZero())
	assert.Len(t, got.SummaryByPaymentMethod, len(entity.PaymentMethods))
}

func TestPeriodSummary_InvalidRange(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.PeriodSummary(context.Background(), at(20, 0, 0), at(10, 0, 0), "custom")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPeriodSummary_InclusiveAndUppercased(t *testing.T) {
	f := newFixture(t)
	f.sale(t, at(10, 0, 0), entity.PaymentMethodCash, line{entity.ProductTypeNewWare, "1.00", "3.00", 1, ""})
	f.sale(t, at(12, 23, 30), entity.PaymentMethodMixed, line{entity.ProductTypeNewWare, "1.00", "4.00", 1, ""})
	f.sale(t, at(13, 0, 0), entity.PaymentMethodMixed, line{entity.ProductTypeNewWare, "1.00", "50.00", 1, ""})

	got, err := f.uc.PeriodSummary(context.Background(), at(10, 0, 0), at(12, 0, 0), "weekly")
	require.NoError(t, err)
	assert.Equal(t, "WEEKLY", got.ReportType)
	assert.Equal(t, 2, got.OverallTransactionCount)
	assert.Equal(t, "7.00", got.OverallTotalAmount.StringFixed(2))
}

func TestWeeklySummary_UsesISOWeek(t *testing.T) {
	f := newFixture(t)
	// 2024-06-12 es miércoles: la semana va del lunes 10 al domingo 16.
	f.sale(t, at(10, 8, 0), entity.PaymentMethodCash, line{entity.ProductTypeNewWare, "1.00", "1.00", 1, ""})
	f.sale(t, at(16, 20, 0), entity.PaymentMethodCash, line{entity.ProductTypeNewWare, "1.00", "2.00", 1, ""})
	f.sale(t, at(17, 0, 0), entity.PaymentMethodCash, line{entity.ProductTypeNewWare, "1.00", "4.00", 1, ""})

	got, err := f.uc.WeeklySummary(context.Background(), at(12, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, report.TypeWeekly, got.ReportType)
	assert.Equal(t, "2024-06-10", got.StartDate)
	assert.Equal(t, "2024-06-16", got.EndDate)
	assert.Equal(t, "3.00", got.OverallTotalAmount.StringFixed(2))
}

func TestMonthlySummary(t *testing.T) {
	f := newFixture(t)
	f.sale(t, at(30, 23, 0), entity.PaymentMethodCard, line{entity.ProductTypeCommission, "5.00", "8.00", 1, ""})

	got, err := f.uc.MonthlySummary(context.Background(), 2024, 6)
	require.NoError(t, err)
	assert.Equal(t, report.TypeMonthly, got.ReportType)
	assert.Equal(t, "2024-06-01", got.StartDate)
	assert.Equal(t, "2024-06-30", got.EndDate)
	assert.Equal(t, 1, got.OverallTransactionCount)
	assert.Equal(t, "5.00", got.TotalCommissionPaidToSuppliers.StringFixed(2))

	_, err = f.uc.MonthlySummary(context.Background(), 2024, 13)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRevenueList(t *testing.T) {
	f := newFixture(t)
	s1 := f.sale(t, at(5, 9, 0), entity.PaymentMethodCash,
		line{entity.ProductTypeCommission, "6.00", "10.00", 2, ""},
		line{entity.ProductTypeNewWare, "4.00", "9.50", 3, "7.00"},
	)
	f.sale(t, at(6, 9, 0), entity.PaymentMethodCard, line{entity.ProductTypeNewWare, "1.50", "3.00", 1, "19.00"})

	got, err := f.uc.RevenueList(context.Background(), at(1, 0, 0), at(30, 0, 0))
	require.NoError(t, err)

	assert.Equal(t, "2024-06-01", got.ReportPeriodStartDate)
	assert.Equal(t, "2024-06-30", got.ReportPeriodEndDate)
	assert.Equal(t, 6, got.TotalItemsSold)
	assert.Equal(t, "51.50", got.TotalGrossRevenueAllItems.StringFixed(2))
	require.Len(t, got.RevenueItems, 3)

	first := got.RevenueItems[0]
	assert.Equal(t, s1.ID, first.SaleID)
	assert.Equal(t, "COMMISSION", first.ProductType)
	assert.Equal(t, "20.00", first.TotalGrossRevenueForItem.StringFixed(2))
	assert.Equal(t, "12.00", first.TotalCostOrCommissionForItem.StringFixed(2))
	assert.Nil(t, first.TaxRatePercentageAtSale)

	second := got.RevenueItems[1]
	assert.Equal(t, "28.50", second.TotalGrossRevenueForItem.StringFixed(2))
	assert.Equal(t, "12.00", second.TotalCostOrCommissionForItem.StringFixed(2))
	require.NotNil(t, second.TaxRatePercentageAtSale)
	assert.Equal(t, "7.00", second.TaxRatePercentageAtSale.StringFixed(2))

	commission := got.SummaryByProductType["COMMISSION"]
	newWare := got.SummaryByProductType["NEW_WARE"]
	assert.Equal(t, "20.00", commission.TotalRevenue.StringFixed(2))
	assert.Equal(t, 2, commission.ItemCount)
	assert.Equal(t, "31.50", newWare.TotalRevenue.StringFixed(2))
	assert.Equal(t, "13.50", newWare.TotalCostOrCommission.StringFixed(2))
	assert.Equal(t, 4, newWare.ItemCount)

	sum := decimal.Zero
	for _, it := range got.RevenueItems {
		sum = sum.Add(it.TotalGrossRevenueForItem)
	}
	assert.True(t, sum.Equal(commission.TotalRevenue.Add(newWare.TotalRevenue)))
	assert.True(t, sum.Equal(got.TotalGrossRevenueAllItems))
}

func TestRevenueList_EmptyRangeSeedsAllTypes(t *testing.T) {
	f := newFixture(t)
	got, err := f.uc.RevenueList(context.Background(), at(1, 0, 0), at(2, 0, 0))
	require.NoError(t, err)
	assert.Empty(t, got.RevenueItems)
	assert.Len(t, got.SummaryByProductType, len(entity.ProductTypes))
	assert.True(t, got.SummaryByProductType["NEW_WARE"].TotalRevenue.IsZero())
}

func TestExportDailyCSV(t *testing.T) {
	f := newFixture(t)
	f.sale(t, at(10, 10, 0), entity.PaymentMethodCash, line{entity.ProductTypeCommission, "6.00", "12.50", 1, ""})

	out, err := f.uc.ExportDailyCSV(context.Background(), at(10, 0, 0), report.CharsetUTF8)
	require.NoError(t, err)

	rows := strings.Split(strings.TrimSuffix(string(out), "\r\n"), "\r\n")
	require.Len(t, rows, 5)
	assert.Equal(t, `"Datum";"Zahlungsmethode";"Betrag";"Anzahl Transaktionen";"Gesamtumsatz Tag";"Gesamt Transaktionen Tag";"Gesamt Kommissionen an Lieferanten"`, rows[0])
	assert.Equal(t, `"10.06.2024";"CARD";"0,00";"0";"12,50";"1";"6,00"`, rows[1])
	assert.Equal(t, `"10.06.2024";"CASH";"12,50";"1";"12,50";"1";"6,00"`, rows[2])
}

func TestExportMonthlyCSV(t *testing.T) {
	f := newFixture(t)
	f.sale(t, at(3, 10, 0), entity.PaymentMethodVoucher, line{entity.ProductTypeNewWare, "1.00", "2.00", 1, ""})

	out, err := f.uc.ExportMonthlyCSV(context.Background(), 2024, 6, report.CharsetUTF8)
	require.NoError(t, err)
	rows := strings.Split(strings.TrimSuffix(string(out), "\r\n"), "\r\n")
	require.Len(t, rows, 5)
	assert.True(t, strings.HasPrefix(rows[0], `"Startdatum";"Enddatum"`))
	assert.Equal(t, `"01.06.2024";"30.06.2024";"VOUCHER";"2,00";"1";"2,00";"1";"0,00"`, rows[4])
}

func TestDATEVTable_AccountMapping(t *testing.T) {
	f := newFixture(t)
	cash := f.sale(t, at(4, 9, 0), entity.PaymentMethodCash,
		line{entity.ProductTypeNewWare, "1.00", "10.00", 1, "7.00"},
		line{entity.ProductTypeNewWare, "1.00", "20.00", 1, "19.00"},
	)
	f.sale(t, at(4, 10, 0), entity.PaymentMethodCard, line{entity.ProductTypeCommission, "3.00", "5.00", 1, ""})
	f.sale(t, at(4, 11, 0), entity.PaymentMethodVoucher, line{entity.ProductTypeNewWare, "1.00", "4.00", 1, ""})
	f.sale(t, at(4, 12, 0), entity.PaymentMethodMixed, line{entity.ProductTypeNewWare, "1.00", "6.00", 1, "19.00"})

	tbl, err := f.uc.DATEVTable(context.Background(), at(4, 0, 0), at(4, 0, 0))
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 5)

	type booking struct{ counter, revenue string }
	var got []booking
	for _, r := range tbl.Rows {
		got = append(got, booking{r["Gegenkonto"].(string), r["Konto"].(string)})
	}
	assert.Equal(t, []booking{
		{"1000", "8300"},
		{"1000", "8400"},
		{"1360", "8500"},
		{"1740", "8400"},
		{"1000", "8400"},
	}, got)

	first := tbl.Rows[0]
	assert.Equal(t, "EUR", first["WKZ"])
	assert.Equal(t, cash.TransactionNumber, first["Belegfeld 1"])
	assert.Equal(t, fmt.Sprintf("Artikel 1-0 (SKU-1-0) S-%s", cash.ID), first["Buchungstext"])
	assert.Equal(t, "10.00", first["Umsatz"].(decimal.Decimal).StringFixed(2))
}

func TestExports_DateSaleInUTCDay(t *testing.T) {
	f := newFixture(t)
	berlin := time.FixedZone("CEST", 2*60*60)
	// 30.06. 23:30 UTC, ya 01.07. en hora local
	f.sale(t, time.Date(2024, 7, 1, 1, 30, 0, 0, berlin), entity.PaymentMethodCash,
		line{entity.ProductTypeNewWare, "1.00", "10.00", 1, "19.00"})

	day := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	tbl, err := f.uc.DATEVTable(context.Background(), day, day)
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "30.06.2024", csvexport.FormatValue(tbl.Rows[0]["Belegdatum"]))

	list, err := f.uc.RevenueList(context.Background(), day, day)
	require.NoError(t, err)
	require.Len(t, list.RevenueItems, 1)
	assert.Equal(t, "2024-06-30T23:30:00Z", list.RevenueItems[0].SaleTransactionTime)
}

func TestDATEVAccounts_CustomMapping(t *testing.T) {
	accounts := report.DATEVAccounts{Card: "1361", RevenueCommission: "8195"}
	f := newFixture(t)
	uc := report.NewUseCase(f.repos.Reports, csvexport.NewRenderer(), nil, accounts, "EUR")
	f.sale(t, at(4, 10, 0), entity.PaymentMethodCard, line{entity.ProductTypeCommission, "3.00", "5.00", 1, ""})

	out, err := uc.ExportDATEVCSV(context.Background(), at(4, 0, 0), at(4, 0, 0), report.CharsetUTF8)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"5,00";"1361";"8195";"EUR";"04.06.2024";"TRX-0001"`)
}

func TestExportRevenueXLSX_NotConfigured(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.ExportRevenueXLSX(context.Background(), at(1, 0, 0), at(2, 0, 0))
	assert.ErrorIs(t, err, domain.ErrPrecondition)
}

func TestParseCharset(t *testing.T) {
	cs, err := report.ParseCharset("")
	require.NoError(t, err)
	assert.Equal(t, report.CharsetUTF8, cs)

	cs, err = report.ParseCharset("ISO-8859-1")
	require.NoError(t, err)
	assert.Equal(t, report.CharsetLatin1, cs)

	_, err = report.ParseCharset("ebcdic")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
