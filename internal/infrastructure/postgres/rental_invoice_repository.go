package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/warenwelt-api/internal/domain"
	"github.com/jhoicas/warenwelt-api/internal/domain/entity"
	"github.com/jhoicas/warenwelt-api/internal/domain/repository"
)

var _ repository.RentalInvoiceRepository = (*RentalInvoiceRepo)(nil)

// RentalInvoiceRepo implementación de RentalInvoiceRepository.
type RentalInvoiceRepo struct {
	q Querier
}

// NewRentalInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRentalInvoiceRepository(q Querier) *RentalInvoiceRepo {
	return &RentalInvoiceRepo{q: q}
}

const invoiceColumns = `id, invoice_number, rental_contract_id, tenant_supplier_id, shelf_id, invoice_date, due_date,
	billing_period_start, billing_period_end, amount_due, amount_paid, status, notes`

func scanInvoice(row pgx.Row) (*entity.RentalInvoice, error) {
	var inv entity.RentalInvoice
	err := row.Scan(&inv.ID, &inv.InvoiceNumber, &inv.RentalContractID, &inv.TenantSupplierID, &inv.ShelfID,
		&inv.InvoiceDate, &inv.DueDate, &inv.BillingPeriodStart, &inv.BillingPeriodEnd,
		&inv.AmountDue, &inv.AmountPaid, &inv.Status, &inv.Notes)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// Create inserta la factura. Número o período repetidos → *domain.UniqueViolationError.
func (r *RentalInvoiceRepo) Create(ctx context.Context, inv *entity.RentalInvoice) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO rental_invoices (`+invoiceColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		inv.ID, inv.InvoiceNumber, inv.RentalContractID, inv.TenantSupplierID, inv.ShelfID,
		inv.InvoiceDate, inv.DueDate, inv.BillingPeriodStart, inv.BillingPeriodEnd,
		inv.AmountDue, inv.AmountPaid, inv.Status, inv.Notes,
	)
	if err != nil {
		if uv := asUniqueViolation(err); uv != nil {
			return uv
		}
		return fmt.Errorf("insert rental invoice: %w", err)
	}
	return nil
}

func (r *RentalInvoiceRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.RentalInvoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return inv, nil
}

// GetByID obtiene una factura por ID.
func (r *RentalInvoiceRepo) GetByID(ctx context.Context, id string) (*entity.RentalInvoice, error) {
	return r.getOne(ctx, "get rental invoice",
		`SELECT `+invoiceColumns+` FROM rental_invoices WHERE id = $1`, id)
}

// FindByPeriod factura del contrato para el período exacto.
func (r *RentalInvoiceRepo) FindByPeriod(ctx context.Context, contractID string, start, end time.Time) (*entity.RentalInvoice, error) {
	return r.getOne(ctx, "find rental invoice by period", `
		SELECT `+invoiceColumns+` FROM rental_invoices
		WHERE rental_contract_id = $1 AND billing_period_start = $2 AND billing_period_end = $3`,
		contractID, start, end)
}

// LastNumberWithPrefix mayor número con ese prefijo: primero por longitud, luego alfabético,
// para que RENT-2024-06-10000 quede por encima de RENT-2024-06-9999.
func (r *RentalInvoiceRepo) LastNumberWithPrefix(ctx context.Context, prefix string) (string, error) {
	var last string
	err := r.q.QueryRow(ctx, `
		SELECT invoice_number FROM rental_invoices
		WHERE starts_with(invoice_number, $1)
		ORDER BY length(invoice_number) DESC, invoice_number DESC
		LIMIT 1`, prefix,
	).Scan(&last)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("last rental invoice number: %w", err)
	}
	return last, nil
}

// List aplica los filtros opcionales; orden: fecha de factura descendente.
func (r *RentalInvoiceRepo) List(ctx context.Context, f repository.RentalInvoiceFilter) ([]*entity.RentalInvoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM rental_invoices WHERE 1=1`
	args := []any{}
	pos := 1
	add := func(cond string, v any) {
		query += fmt.Sprintf(" AND "+cond, pos)
		args = append(args, v)
		pos++
	}
	if f.ContractID != "" {
		add("rental_contract_id = $%d", f.ContractID)
	}
	if f.TenantID != "" {
		add("tenant_supplier_id = $%d", f.TenantID)
	}
	if f.ShelfID != "" {
		add("shelf_id = $%d", f.ShelfID)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.InvoiceDateFrom != nil {
		add("invoice_date >= $%d", *f.InvoiceDateFrom)
	}
	if f.InvoiceDateTo != nil {
		add("invoice_date <= $%d", *f.InvoiceDateTo)
	}
	if f.DueDateFrom != nil {
		add("due_date >= $%d", *f.DueDateFrom)
	}
	if f.DueDateTo != nil {
		add("due_date <= $%d", *f.DueDateTo)
	}
	if f.MinAmountDue != nil {
		add("amount_due >= $%d", *f.MinAmountDue)
	}
	if f.MaxAmountDue != nil {
		add("amount_due <= $%d", *f.MaxAmountDue)
	}
	query += " ORDER BY invoice_date DESC, invoice_number DESC"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", pos)
		args = append(args, f.Limit)
		pos++
	}
	if f.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", pos)
		args = append(args, f.Offset)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list rental invoices: %w", err)
	}
	defer rows.Close()
	var out []*entity.RentalInvoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan rental invoice: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// Update persiste status, amount_paid y notes.
func (r *RentalInvoiceRepo) Update(ctx context.Context, inv *entity.RentalInvoice) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE rental_invoices SET status = $2, amount_paid = $3, notes = $4 WHERE id = $1`,
		inv.ID, inv.Status, inv.AmountPaid, inv.Notes,
	)
	if err != nil {
		return fmt.Errorf("update rental invoice: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la factura.
func (r *RentalInvoiceRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM rental_invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete rental invoice: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
