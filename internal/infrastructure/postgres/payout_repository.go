package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/warenwelt-api/internal/domain"
	"github.com/jhoicas/warenwelt-api/internal/domain/entity"
	"github.com/jhoicas/warenwelt-api/internal/domain/repository"
)

var _ repository.PayoutRepository = (*PayoutRepo)(nil)

// PayoutRepo implementación de PayoutRepository.
type PayoutRepo struct {
	q Querier
}

// NewPayoutRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPayoutRepository(q Querier) *PayoutRepo {
	return &PayoutRepo{q: q}
}

const payoutColumns = `id, payout_number, supplier_id, payout_date, total_amount, notes,
	notification_status, notification_error, created_at`

func scanPayout(row pgx.Row) (*entity.Payout, error) {
	var p entity.Payout
	err := row.Scan(&p.ID, &p.PayoutNumber, &p.SupplierID, &p.PayoutDate, &p.TotalAmount, &p.Notes,
		&p.NotificationStatus, &p.NotificationError, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// eligibleWhere condición de elegibilidad; $1 = supplier_id.
const eligibleWhere = `
	si.product_id = p.id AND si.sale_id = s.id
	AND p.supplier_id = $1
	AND p.product_type = 'COMMISSION'
	AND p.status = 'SOLD'
	AND si.payout_id IS NULL
	AND si.commission_amount_at_sale > 0`

const paidItemColumns = `si.id, si.sale_id, s.transaction_number, s.transaction_time,
	p.id, p.sku, p.name, si.quantity, si.commission_amount_at_sale`

type paidItemRow struct {
	entity.PaidItem
	seq int64
}

func scanPaidItems(rows pgx.Rows) ([]paidItemRow, error) {
	defer rows.Close()
	var out []paidItemRow
	for rows.Next() {
		var it paidItemRow
		if err := rows.Scan(&it.SaleItemID, &it.SaleID, &it.TransactionNumber, &it.SaleTime,
			&it.ProductID, &it.ProductSKU, &it.ProductName, &it.Quantity, &it.CommissionAmount, &it.seq); err != nil {
			return nil, fmt.Errorf("scan paid item: %w", err)
		}
		it.SaleTime = it.SaleTime.UTC()
		out = append(out, it)
	}
	return out, rows.Err()
}

func toPaidItems(rows []paidItemRow) []entity.PaidItem {
	out := make([]entity.PaidItem, len(rows))
	for i := range rows {
		out[i] = rows[i].PaidItem
	}
	return out
}

// Create inserta la cabecera del payout.
func (r *PayoutRepo) Create(ctx context.Context, p *entity.Payout) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO payouts (`+payoutColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.PayoutNumber, p.SupplierID, p.PayoutDate, p.TotalAmount, p.Notes,
		p.NotificationStatus, p.NotificationError, p.CreatedAt,
	)
	if err != nil {
		if uv := asUniqueViolation(err); uv != nil {
			return uv
		}
		return fmt.Errorf("insert payout: %w", err)
	}
	return nil
}

// ClaimEligibleItems vincula en un único UPDATE condicional; una línea ya reclamada por otra
// transacción deja de cumplir payout_id IS NULL tras el bloqueo de fila y no se devuelve.
func (r *PayoutRepo) ClaimEligibleItems(ctx context.Context, supplierID, payoutID string) ([]entity.PaidItem, error) {
	rows, err := r.q.Query(ctx, `
		UPDATE sale_items si SET payout_id = $2
		FROM products p, sales s
		WHERE `+eligibleWhere+`
		RETURNING `+paidItemColumns+`, si.seq`,
		supplierID, payoutID,
	)
	if err != nil {
		return nil, fmt.Errorf("claim payout items: %w", err)
	}
	items, err := scanPaidItems(rows)
	if err != nil {
		return nil, err
	}
	// RETURNING no garantiza orden.
	sort.Slice(items, func(i, j int) bool {
		if !items[i].SaleTime.Equal(items[j].SaleTime) {
			return items[i].SaleTime.Before(items[j].SaleTime)
		}
		return items[i].seq < items[j].seq
	})
	return toPaidItems(items), nil
}

// UpdateTotal fija el importe total del payout.
func (r *PayoutRepo) UpdateTotal(ctx context.Context, payoutID string, total decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx, `UPDATE payouts SET total_amount = $2 WHERE id = $1`, payoutID, total)
	if err != nil {
		return fmt.Errorf("update payout total: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateNotification registra el resultado del aviso al proveedor.
func (r *PayoutRepo) UpdateNotification(ctx context.Context, payoutID string, status entity.NotificationStatus, errMsg string) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE payouts SET notification_status = $2, notification_error = $3 WHERE id = $1`,
		payoutID, status, errMsg,
	)
	if err != nil {
		return fmt.Errorf("update payout notification: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Eligibility suma y cuenta las líneas elegibles sin reclamarlas.
func (r *PayoutRepo) Eligibility(ctx context.Context, supplierID string, previewLimit int) (*repository.PayoutEligibility, error) {
	res := &repository.PayoutEligibility{}
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(si.commission_amount_at_sale), 0), COUNT(*)
		FROM sale_items si, products p, sales s
		WHERE `+eligibleWhere, supplierID,
	).Scan(&res.TotalDue, &res.Count)
	if err != nil {
		return nil, fmt.Errorf("payout eligibility: %w", err)
	}
	if previewLimit <= 0 || res.Count == 0 {
		return res, nil
	}

	rows, err := r.q.Query(ctx, `
		SELECT `+paidItemColumns+`, si.seq
		FROM sale_items si, products p, sales s
		WHERE `+eligibleWhere+`
		ORDER BY s.transaction_time, si.seq
		LIMIT $2`, supplierID, previewLimit,
	)
	if err != nil {
		return nil, fmt.Errorf("payout preview: %w", err)
	}
	items, err := scanPaidItems(rows)
	if err != nil {
		return nil, err
	}
	res.Preview = toPaidItems(items)
	return res, nil
}

// GetByID obtiene un payout por ID.
func (r *PayoutRepo) GetByID(ctx context.Context, id string) (*entity.Payout, error) {
	p, err := scanPayout(r.q.QueryRow(ctx, `SELECT `+payoutColumns+` FROM payouts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payout: %w", err)
	}
	return p, nil
}

// ListItems líneas liquidadas en el payout, por hora de venta.
func (r *PayoutRepo) ListItems(ctx context.Context, payoutID string) ([]entity.PaidItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+paidItemColumns+`, si.seq
		FROM sale_items si
		JOIN products p ON p.id = si.product_id
		JOIN sales s ON s.id = si.sale_id
		WHERE si.payout_id = $1
		ORDER BY s.transaction_time, si.seq`, payoutID,
	)
	if err != nil {
		return nil, fmt.Errorf("list payout items: %w", err)
	}
	items, err := scanPaidItems(rows)
	if err != nil {
		return nil, err
	}
	return toPaidItems(items), nil
}

// List payouts, opcionalmente de un proveedor; más recientes primero.
func (r *PayoutRepo) List(ctx context.Context, supplierID string, limit, offset int) ([]*entity.Payout, error) {
	query := `SELECT ` + payoutColumns + ` FROM payouts WHERE 1=1`
	args := []any{}
	pos := 1
	if supplierID != "" {
		query += fmt.Sprintf(" AND supplier_id = $%d", pos)
		args = append(args, supplierID)
		pos++
	}
	query += " ORDER BY payout_date DESC, created_at DESC, payout_number DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", pos)
		args = append(args, limit)
		pos++
	}
	if offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", pos)
		args = append(args, offset)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list payouts: %w", err)
	}
	defer rows.Close()
	var out []*entity.Payout
	for rows.Next() {
		p, err := scanPayout(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payout: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
