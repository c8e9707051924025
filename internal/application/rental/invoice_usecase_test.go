package rental_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warenwelt-api/internal/application/dto"
	"github.com/jhoicas/warenwelt-api/internal/application/rental"
	"github.com/jhoicas/warenwelt-api/internal/domain"
	"github.com/jhoicas/warenwelt-api/internal/domain/entity"
)

func TestInvoiceUseCase_CreateGeneratesNumberAndGuardsPeriod(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.contract(t, "c1", "shelf-1", date(2024, 1, 1), date(2024, 12, 31), "300.00", entity.ContractStatusActive)
	uc := rental.NewInvoiceUseCase(f.store, f.repos.Invoices, f.repos.Contracts, 14)

	req := dto.CreateRentalInvoiceRequest{
		RentalContractID: "c1", InvoiceDate: "2024-08-01",
		BillingPeriodStart: "2024-08-01", BillingPeriodEnd: "2024-08-31",
		AmountDue: decimal.NewFromInt(300),
	}
	inv, err := uc.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "RENT-2024-08-0001", inv.InvoiceNumber)
	assert.Equal(t, "2024-08-15", inv.DueDate)
	assert.Equal(t, "shelf-1", inv.ShelfID)

	_, err = uc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.True(t, domain.IsUniqueViolationOn(err, domain.FieldInvoicePeriod))
}

func TestInvoiceUseCase_CreateValidation(t *testing.T) {
	f := newFixture(t)
	uc := rental.NewInvoiceUseCase(f.store, f.repos.Invoices, f.repos.Contracts, 14)
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateRentalInvoiceRequest{
		RentalContractID: "c1", BillingPeriodStart: "2024-08-31", BillingPeriodEnd: "2024-08-01",
		AmountDue: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, dto.CreateRentalInvoiceRequest{
		RentalContractID: "missing", BillingPeriodStart: "2024-08-01", BillingPeriodEnd: "2024-08-31",
		AmountDue: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInvoiceUseCase_CreateRejectsPeriodOutsideContract(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.contract(t, "c1", "shelf-1", date(2024, 1, 1), date(2024, 3, 31), "300.00", entity.ContractStatusExpired)
	uc := rental.NewInvoiceUseCase(f.store, f.repos.Invoices, f.repos.Contracts, 14)

	cases := []struct {
		name, start, end string
	}{
		{"después del fin", "2025-06-01", "2025-06-30"},
		{"antes del inicio", "2023-12-01", "2023-12-31"},
		{"cruza el fin", "2024-03-15", "2024-04-14"},
		{"cruza el inicio", "2023-12-20", "2024-01-19"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Create(ctx, dto.CreateRentalInvoiceRequest{
				RentalContractID: "c1", BillingPeriodStart: tc.start, BillingPeriodEnd: tc.end,
				AmountDue: decimal.NewFromInt(300),
			})
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	list, err := uc.List(ctx, dto.RentalInvoiceListRequest{ContractID: "c1"})
	require.NoError(t, err)
	assert.Empty(t, list)

	inv, err := uc.Create(ctx, dto.CreateRentalInvoiceRequest{
		RentalContractID: "c1", BillingPeriodStart: "2024-03-01", BillingPeriodEnd: "2024-03-31",
		AmountDue: decimal.NewFromInt(300),
	})
	require.NoError(t, err)
	assert.Equal(t, "RENT-2024-03-0001", inv.InvoiceNumber)
}

func TestInvoiceUseCase_StatusTransitionsAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.contract(t, "c1", "shelf-1", date(2024, 1, 1), date(2024, 12, 31), "300.00", entity.ContractStatusActive)
	uc := rental.NewInvoiceUseCase(f.store, f.repos.Invoices, f.repos.Contracts, 14)

	inv, err := uc.Create(ctx, dto.CreateRentalInvoiceRequest{
		RentalContractID: "c1", BillingPeriodStart: "2024-09-01", BillingPeriodEnd: "2024-09-30",
		AmountDue: decimal.NewFromInt(300),
	})
	require.NoError(t, err)

	_, err = uc.Update(ctx, inv.ID, dto.UpdateRentalInvoiceRequest{Status: "PAID"})
	assert.ErrorIs(t, err, domain.ErrPrecondition)

	_, err = uc.Update(ctx, inv.ID, dto.UpdateRentalInvoiceRequest{Status: "OPEN"})
	require.NoError(t, err)
	paid := decimal.NewFromInt(300)
	updated, err := uc.Update(ctx, inv.ID, dto.UpdateRentalInvoiceRequest{Status: "PAID", AmountPaid: &paid})
	require.NoError(t, err)
	assert.Equal(t, "PAID", updated.Status)
	assert.True(t, updated.AmountPaid.Equal(paid))

	err = uc.Delete(ctx, inv.ID)
	assert.ErrorIs(t, err, domain.ErrPrecondition)

	err = uc.Delete(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInvoiceUseCase_ListFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.contract(t, "c1", "shelf-1", date(2024, 1, 1), date(2024, 12, 31), "300.00", entity.ContractStatusActive)
	f.contract(t, "c2", "shelf-2", date(2024, 1, 1), date(2024, 12, 31), "80.00", entity.ContractStatusActive)
	target := date(2024, 7, 1)
	_, err := f.generator().GenerateMonthly(ctx, &target)
	require.NoError(t, err)

	uc := rental.NewInvoiceUseCase(f.store, f.repos.Invoices, f.repos.Contracts, 14)
	list, err := uc.List(ctx, dto.RentalInvoiceListRequest{ShelfID: "shelf-2"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "c2", list[0].RentalContractID)

	list, err = uc.List(ctx, dto.RentalInvoiceListRequest{MinAmountDue: "100"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "c1", list[0].RentalContractID)

	_, err = uc.List(ctx, dto.RentalInvoiceListRequest{Status: "UNKNOWN"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
