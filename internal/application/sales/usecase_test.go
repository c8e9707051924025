package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warenwelt-api/internal/application/dto"
	"github.com/jhoicas/warenwelt-api/internal/application/sales"
	"github.com/jhoicas/warenwelt-api/internal/domain"
	"github.com/jhoicas/warenwelt-api/internal/domain/entity"
	"github.com/jhoicas/warenwelt-api/internal/domain/repository"
	"github.com/jhoicas/warenwelt-api/internal/infrastructure/memory"
)

func setup(t *testing.T) (*sales.UseCase, repository.Repositories) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repositories()
	for _, p := range []*entity.Product{
		{ID: "p1", SKU: "K-1", Name: "Jacke", SupplierID: "s1", Type: entity.ProductTypeCommission,
			Status: entity.ProductStatusInStock, PurchasePrice: decimal.RequireFromString("12.50"), SellingPrice: decimal.RequireFromString("25.00")},
		{ID: "p2", SKU: "N-1", Name: "Tasse", SupplierID: "own", Type: entity.ProductTypeNewWare,
			Status: entity.ProductStatusInStock, PurchasePrice: decimal.RequireFromString("2.00"), SellingPrice: decimal.RequireFromString("4.90")},
		{ID: "p3", SKU: "K-2", Name: "Hose", SupplierID: "s1", Type: entity.ProductTypeCommission,
			Status: entity.ProductStatusSold, PurchasePrice: decimal.RequireFromString("5.00"), SellingPrice: decimal.RequireFromString("10.00")},
	} {
		require.NoError(t, repos.Products.Create(ctx, p))
	}
	uc := sales.NewUseCase(store).WithClock(func() time.Time { return time.Date(2024, 7, 18, 15, 4, 0, 0, time.UTC) })
	return uc, repos
}

func TestCreateSale_SnapshotsAndMarksSold(t *testing.T) {
	uc, repos := setup(t)
	ctx := context.Background()

	sale, err := uc.CreateSale(ctx, "u-1", dto.CreateSaleRequest{
		PaymentMethod: "CARD",
		Items: []dto.CreateSaleItemRequest{
			{SKU: "K-1", Quantity: 1},
			{ProductID: "p2", Quantity: 3},
		},
	})
	require.NoError(t, err)
	assert.Regexp(t, `^TRX-[0-9A-F]{12}$`, sale.TransactionNumber)
	assert.Equal(t, "39.70", sale.TotalAmount.StringFixed(2))
	require.Len(t, sale.Items, 2)
	assert.Equal(t, "12.50", sale.Items[0].CommissionAmountAtSale.StringFixed(2))
	assert.True(t, sale.Items[1].CommissionAmountAtSale.IsZero())

	for _, id := range []string{"p1", "p2"} {
		p, err := repos.Products.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, entity.ProductStatusSold, p.Status)
	}

	stored, err := repos.Sales.GetByID(ctx, sale.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 2)
	assert.False(t, stored.Items[0].Settlement.IsSettled())
}

func TestCreateSale_RejectsUnavailableProductsAtomically(t *testing.T) {
	uc, repos := setup(t)
	ctx := context.Background()

	_, err := uc.CreateSale(ctx, "u-1", dto.CreateSaleRequest{
		PaymentMethod: "CASH",
		Items: []dto.CreateSaleItemRequest{
			{SKU: "K-1", Quantity: 1},
			{SKU: "K-2", Quantity: 1},
		},
	})
	assert.ErrorIs(t, err, domain.ErrPrecondition)

	p, err := repos.Products.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, entity.ProductStatusInStock, p.Status)
}

func TestCreateSale_Validation(t *testing.T) {
	uc, _ := setup(t)
	ctx := context.Background()

	_, err := uc.CreateSale(ctx, "u-1", dto.CreateSaleRequest{PaymentMethod: "CASH"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CreateSale(ctx, "u-1", dto.CreateSaleRequest{PaymentMethod: "BITCOIN", Items: []dto.CreateSaleItemRequest{{SKU: "K-1", Quantity: 1}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CreateSale(ctx, "u-1", dto.CreateSaleRequest{PaymentMethod: "CASH", Items: []dto.CreateSaleItemRequest{{SKU: "K-1", Quantity: 1}, {ProductID: "p1", Quantity: 1}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CreateSale(ctx, "u-1", dto.CreateSaleRequest{PaymentMethod: "CASH", Items: []dto.CreateSaleItemRequest{{SKU: "X-9", Quantity: 1}}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteProduct(t *testing.T) {
	uc, _ := setup(t)
	ctx := context.Background()

	assert.ErrorIs(t, uc.DeleteProduct(ctx, "p3"), domain.ErrPrecondition)
	assert.NoError(t, uc.DeleteProduct(ctx, "p2"))
	assert.ErrorIs(t, uc.DeleteProduct(ctx, "p2"), domain.ErrNotFound)
}
