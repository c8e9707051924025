package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/warenwelt-api/internal/domain/entity"
)

// RentalInvoiceFilter filtros opcionales para el listado de facturas de alquiler.
type RentalInvoiceFilter struct {
	ContractID      string
	TenantID        string
	ShelfID         string
	Status          entity.RentalInvoiceStatus
	InvoiceDateFrom *time.Time
	InvoiceDateTo   *time.Time
	DueDateFrom     *time.Time
	DueDateTo       *time.Time
	MinAmountDue    *decimal.Decimal
	MaxAmountDue    *decimal.Decimal
	Limit           int
	Offset          int
}

// RentalInvoiceRepository define el puerto de persistencia para facturas de alquiler.
// Create debe rechazar duplicados de invoice_number y de (contrato, período) con
// *domain.UniqueViolationError.
type RentalInvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.RentalInvoice) error
	GetByID(ctx context.Context, id string) (*entity.RentalInvoice, error)
	// FindByPeriod devuelve la factura del contrato para ese período exacto o nil.
	FindByPeriod(ctx context.Context, contractID string, start, end time.Time) (*entity.RentalInvoice, error)
	// LastNumberWithPrefix devuelve el mayor invoice_number que empieza por prefix, ordenando por
	// longitud y luego alfabéticamente ("" si no hay).
	LastNumberWithPrefix(ctx context.Context, prefix string) (string, error)
	List(ctx context.Context, filter RentalInvoiceFilter) ([]*entity.RentalInvoice, error)
	// Update persiste status, amount_paid y notes.
	Update(ctx context.Context, invoice *entity.RentalInvoice) error
	Delete(ctx context.Context, id string) error
}
