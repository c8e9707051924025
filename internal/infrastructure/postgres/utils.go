package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/warenwelt-api/internal/domain"
)

// Querier es lo común entre *pgxpool.Pool y pgx.Tx; los repos funcionan con cualquiera de los dos.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// uniqueFields traduce el nombre del constraint (migrations/001_init.sql) al campo de dominio.
var uniqueFields = map[string]string{
	"suppliers_supplier_number_key":        domain.FieldSupplierNumber,
	"products_sku_key":                     domain.FieldSKU,
	"sales_transaction_number_key":         domain.FieldTransactionNumber,
	"shelves_name_key":                     domain.FieldShelfName,
	"rental_contracts_contract_number_key": domain.FieldContractNumber,
	"rental_invoices_invoice_number_key":   domain.FieldInvoiceNumber,
	"rental_invoices_contract_period_key":  domain.FieldInvoicePeriod,
	"payouts_payout_number_key":            domain.FieldPayoutNumber,
}

// asUniqueViolation devuelve *domain.UniqueViolationError si err es una violación de
// constraint único (23505), o nil.
// Un constraint desconocido se reporta con su propio nombre como campo.
func asUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" { // unique_violation
		return nil
	}
	field, ok := uniqueFields[pgErr.ConstraintName]
	if !ok {
		field = pgErr.ConstraintName
	}
	return &domain.UniqueViolationError{Field: field}
}
