package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/warenwelt-api/internal/domain/entity"
)

// SaleHeader cabecera de venta para agregaciones.
type SaleHeader struct {
	SaleID            string
	TransactionNumber string
	PaymentMethod     entity.PaymentMethod
	TotalAmount       decimal.Decimal
	TransactionTime   time.Time
}

// SaleLine línea de venta con el contexto de venta y producto necesario para reportes.
type SaleLine struct {
	SaleItemID             string
	SaleID                 string
	TransactionNumber      string
	PaymentMethod          entity.PaymentMethod
	TransactionTime        time.Time
	ProductID              string
	ProductSKU             string
	ProductName            string
	ProductType            entity.ProductType
	PurchasePrice          decimal.Decimal
	TaxRatePercent         *decimal.Decimal
	Quantity               int
	PriceAtSale            decimal.Decimal
	CommissionAmountAtSale decimal.Decimal
}

// ReportRepository consultas de solo lectura sobre ventas en [from, to) (to exclusivo).
type ReportRepository interface {
	ListSales(ctx context.Context, from, to time.Time) ([]SaleHeader, error)
	// ListSaleLines ordena por hora de transacción y luego por línea.
	ListSaleLines(ctx context.Context, from, to time.Time) ([]SaleLine, error)
}
