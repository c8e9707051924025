package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warenwelt-api/internal/application/payout"
	"github.com/jhoicas/warenwelt-api/internal/application/ports"
	"github.com/jhoicas/warenwelt-api/internal/application/rental"
	"github.com/jhoicas/warenwelt-api/internal/application/report"
	"github.com/jhoicas/warenwelt-api/internal/application/sales"
	"github.com/jhoicas/warenwelt-api/internal/domain/entity"
	"github.com/jhoicas/warenwelt-api/internal/domain/repository"
	"github.com/jhoicas/warenwelt-api/internal/infrastructure/csvexport"
	"github.com/jhoicas/warenwelt-api/internal/infrastructure/mail"
	"github.com/jhoicas/warenwelt-api/internal/infrastructure/memory"
	"github.com/jhoicas/warenwelt-api/internal/infrastructure/pdf"
	"github.com/jhoicas/warenwelt-api/internal/infrastructure/xlsx"
	apphttp "github.com/jhoicas/warenwelt-api/internal/interfaces/http"
	"github.com/jhoicas/warenwelt-api/pkg/config"
	pkgjwt "github.com/jhoicas/warenwelt-api/pkg/jwt"
	"github.com/jhoicas/warenwelt-api/pkg/logger"
)

type apiFixture struct {
	app   *fiber.App
	repos repository.Repositories
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repositories()
	clock := func() time.Time { return time.Date(2024, 7, 5, 10, 0, 0, 0, time.UTC) }
	log := logger.Nop()

	deps := apphttp.RouterDeps{
		GenerateInvoices: rental.NewGenerateInvoicesUseCase(store, repos.Contracts, ports.NoopLocker{}, 14, log).WithClock(clock),
		RentalInvoices:   rental.NewInvoiceUseCase(store, repos.Invoices, repos.Contracts, 14),
		RentalContracts:  rental.NewContractUseCase(store),
		Payouts: payout.NewUseCase(store, repos.Suppliers, repos.Payouts,
			mail.NewSMTPNotifier(config.MailConfig{}), pdf.NewMarotoPDFGenerator("Warenwelt", "EUR"), nil,
			payout.Config{PreviewLimit: 5, Currency: "EUR"}, log).WithClock(clock),
		Sales:     sales.NewUseCase(store).WithClock(clock),
		Reports:   report.NewUseCase(repos.Reports, csvexport.NewRenderer(), xlsx.NewWorkbookRenderer(), report.DefaultDATEVAccounts(), "EUR"),
		JWTSecret: testJWTSecret,
	}
	app := fiber.New()
	apphttp.Router(app, deps)

	ctx := context.Background()
	require.NoError(t, repos.Suppliers.Create(ctx, &entity.Supplier{ID: "sup-1", SupplierNumber: "L-1", FirstName: "Jörg", LastName: "Maier", Email: "joerg@example.com"}))
	require.NoError(t, repos.Shelves.Create(ctx, &entity.Shelf{ID: "shelf-1", Name: "Regal 1", MonthlyRentPrice: decimal.NewFromInt(50), Status: entity.ShelfStatusAvailable, IsActive: true}))
	for _, p := range []*entity.Product{
		{ID: "p-1", SKU: "K-1", Name: "Kleid", SupplierID: "sup-1", Type: entity.ProductTypeCommission,
			PurchasePrice: decimal.RequireFromString("12.00"), SellingPrice: decimal.RequireFromString("30.00"), Status: entity.ProductStatusInStock},
		{ID: "p-2", SKU: "N-1", Name: "Tasse", SupplierID: "sup-1", Type: entity.ProductTypeNewWare,
			PurchasePrice: decimal.RequireFromString("2.00"), SellingPrice: decimal.RequireFromString("5.50"), Status: entity.ProductStatusInStock},
	} {
		require.NoError(t, repos.Products.Create(ctx, p))
	}
	return &apiFixture{app: app, repos: repos}
}

func (f *apiFixture) do(t *testing.T, method, path, role string, body any) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decode(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out), string(data))
	return out
}

func TestHealth(t *testing.T) {
	f := newAPI(t)
	resp, _ := f.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSales_CashierSellsOnceAndFinanceIsForbidden(t *testing.T) {
	f := newAPI(t)
	sale := map[string]any{
		"payment_method": "CARD",
		"items":          []map[string]any{{"sku": "K-1", "quantity": 1}, {"product_id": "p-2", "quantity": 1}},
	}

	resp, _ := f.do(t, http.MethodPost, "/api/sales", pkgjwt.RoleFinance, sale)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, data := f.do(t, http.MethodPost, "/api/sales", pkgjwt.RoleCashier, sale)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	body := decode(t, data)
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, "35.5", body["total_amount"])

	// los productos ya no están IN_STOCK
	resp, data = f.do(t, http.MethodPost, "/api/sales", pkgjwt.RoleCashier, sale)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, string(data))
	assert.Equal(t, "PRECONDITION_FAILED", decode(t, data)["code"])
}

func TestRoles_BackOfficeAndAdminRoutesSplit(t *testing.T) {
	f := newAPI(t)
	ctx := context.Background()

	resp, _ := f.do(t, http.MethodGet, "/api/reports/daily?date=2024-07-05", pkgjwt.RoleCashier, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = f.do(t, http.MethodGet, "/api/reports/export/datev.csv?start_date=2024-07-01&end_date=2024-07-31", pkgjwt.RoleCashier, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, data := f.do(t, http.MethodGet, "/api/reports/daily?date=2024-07-05", pkgjwt.RoleFinance, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode, string(data))

	resp, _ = f.do(t, http.MethodDelete, "/api/products/p-2", pkgjwt.RoleFinance, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = f.do(t, http.MethodDelete, "/api/products/p-2", pkgjwt.RoleCashier, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	p, err := f.repos.Products.GetByID(ctx, "p-2")
	require.NoError(t, err)
	require.NotNil(t, p)

	resp, data = f.do(t, http.MethodDelete, "/api/products/p-2", pkgjwt.RoleAdmin, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode, string(data))
	p, err = f.repos.Products.GetByID(ctx, "p-2")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestReports_DailyAndExports(t *testing.T) {
	f := newAPI(t)
	resp, data := f.do(t, http.MethodPost, "/api/sales", pkgjwt.RoleCashier, map[string]any{
		"payment_method": "CASH",
		"items":          []map[string]any{{"sku": "K-1", "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))

	resp, data = f.do(t, http.MethodGet, "/api/reports/daily?date=2024-07-05", pkgjwt.RoleFinance, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	body := decode(t, data)
	assert.Equal(t, "30", body["overall_total_amount"])
	assert.EqualValues(t, 1, body["overall_transaction_count"])
	assert.Len(t, body["summary_by_payment_method"], len(entity.PaymentMethods))

	resp, _ = f.do(t, http.MethodGet, "/api/reports/daily", pkgjwt.RoleFinance, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = f.do(t, http.MethodGet, "/api/reports/period?start_date=2024-07-06&end_date=2024-07-01", pkgjwt.RoleFinance, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, data = f.do(t, http.MethodGet, "/api/reports/export/daily.csv?date=2024-07-05&encoding=latin1", pkgjwt.RoleFinance, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	assert.Equal(t, "text/csv; charset=iso-8859-1", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "tagesbericht_2024-07-05.csv")
	assert.Contains(t, string(data), `"Zahlungsmethode"`)

	resp, _ = f.do(t, http.MethodGet, "/api/reports/export/daily.csv?date=2024-07-05&encoding=ebcdic", pkgjwt.RoleFinance, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, data = f.do(t, http.MethodGet, "/api/reports/export/datev.csv?start_date=2024-07-01&end_date=2024-07-31", pkgjwt.RoleFinance, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	assert.Contains(t, string(data), `"30,00";"1000";"8500";"EUR"`)

	resp, data = f.do(t, http.MethodGet, "/api/reports/export/revenue.xlsx?start_date=2024-07-01&end_date=2024-07-31", pkgjwt.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	assert.Equal(t, "PK", string(data[:2]))
}

func TestRentalInvoices_GenerateIsIdempotent(t *testing.T) {
	f := newAPI(t)
	resp, data := f.do(t, http.MethodPost, "/api/rental-contracts", pkgjwt.RoleFinance, map[string]any{
		"shelf_id":              "shelf-1",
		"tenant_supplier_id":    "sup-1",
		"start_date":            "2024-07-16",
		"end_date":              "2025-07-15",
		"rent_price_at_signing": "62.00",
		"status":                "ACTIVE",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))

	resp, data = f.do(t, http.MethodPost, "/api/rental-invoices/generate?target_date=2024-07-20", pkgjwt.RoleFinance, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	body := decode(t, data)
	generated := body["generated_invoices"].([]any)
	require.Len(t, generated, 1)
	first := generated[0].(map[string]any)
	assert.Equal(t, "RENT-2024-07-0001", first["invoice_number"])
	assert.Equal(t, "32", first["amount"]) // 62 × 16/31

	resp, data = f.do(t, http.MethodPost, "/api/rental-invoices/generate?target_date=2024-07-01", pkgjwt.RoleFinance, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	body = decode(t, data)
	assert.Empty(t, body["generated_invoices"])
	issues := body["errors"].([]any)
	require.Len(t, issues, 1)
	assert.Equal(t, rental.IssueAlreadyExists, issues[0].(map[string]any)["code"])

	resp, data = f.do(t, http.MethodGet, "/api/rental-invoices?shelf_id=shelf-1", pkgjwt.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	list := decode(t, data)
	assert.Len(t, list["items"], 1)
	assert.Equal(t, map[string]any{"limit": float64(20), "offset": float64(0), "returned": float64(1)}, list["page"])

	resp, _ = f.do(t, http.MethodGet, "/api/rental-invoices/missing", pkgjwt.RoleAdmin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = f.do(t, http.MethodPost, "/api/rental-invoices/generate?target_date=20-07-2024", pkgjwt.RoleFinance, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// el estante tiene un contrato activo
	resp, _ = f.do(t, http.MethodDelete, "/api/shelves/shelf-1", pkgjwt.RoleAdmin, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestPayouts_SummaryCreateAndStatement(t *testing.T) {
	f := newAPI(t)
	resp, data := f.do(t, http.MethodPost, "/api/sales", pkgjwt.RoleCashier, map[string]any{
		"payment_method": "CASH",
		"items":          []map[string]any{{"sku": "K-1", "quantity": 1}, {"sku": "N-1", "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))

	resp, data = f.do(t, http.MethodGet, "/api/payouts/suppliers/sup-1/summary", pkgjwt.RoleFinance, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	summary := decode(t, data)
	assert.Equal(t, "12", summary["total_due"])
	assert.EqualValues(t, 1, summary["eligible_items_count"])

	resp, data = f.do(t, http.MethodPost, "/api/payouts", pkgjwt.RoleFinance, map[string]any{"supplier_id": "sup-1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	created := decode(t, data)
	assert.Equal(t, "12", created["total_amount"])
	assert.Equal(t, string(entity.NotificationSkipped), created["notification_status"])
	id := created["id"].(string)

	// nada más que liquidar
	resp, _ = f.do(t, http.MethodPost, "/api/payouts", pkgjwt.RoleFinance, map[string]any{"supplier_id": "sup-1"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, data = f.do(t, http.MethodGet, "/api/payouts/"+id, pkgjwt.RoleFinance, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	assert.Len(t, decode(t, data)["items_paid_out"], 1)

	resp, data = f.do(t, http.MethodGet, "/api/payouts/"+id+"/statement.pdf", pkgjwt.RoleFinance, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	resp, _ = f.do(t, http.MethodGet, "/api/payouts/suppliers/nobody/summary", pkgjwt.RoleFinance, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
