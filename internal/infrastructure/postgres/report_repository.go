package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/warenwelt-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura para reportes de ventas.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// ListSales cabeceras con transaction_time en [from, to).
func (r *ReportRepo) ListSales(ctx context.Context, from, to time.Time) ([]repository.SaleHeader, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, transaction_number, payment_method, total_amount, transaction_time
		FROM sales
		WHERE transaction_time >= $1 AND transaction_time < $2
		ORDER BY transaction_time, transaction_number`, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var out []repository.SaleHeader
	for rows.Next() {
		var h repository.SaleHeader
		if err := rows.Scan(&h.SaleID, &h.TransactionNumber, &h.PaymentMethod, &h.TotalAmount, &h.TransactionTime); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		h.TransactionTime = h.TransactionTime.UTC()
		out = append(out, h)
	}
	return out, rows.Err()
}

// ListSaleLines líneas con venta, producto y tasa de IVA (NULL si el producto no tiene tasa).
func (r *ReportRepo) ListSaleLines(ctx context.Context, from, to time.Time) ([]repository.SaleLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT si.id, s.id, s.transaction_number, s.payment_method, s.transaction_time,
			p.id, p.sku, p.name, p.product_type, p.purchase_price, t.rate_percent,
			si.quantity, si.price_at_sale, si.commission_amount_at_sale
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id
		JOIN products p ON p.id = si.product_id
		LEFT JOIN tax_rates t ON t.id = p.tax_rate_id
		WHERE s.transaction_time >= $1 AND s.transaction_time < $2
		ORDER BY s.transaction_time, si.seq`, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("list sale lines: %w", err)
	}
	defer rows.Close()
	var out []repository.SaleLine
	for rows.Next() {
		var l repository.SaleLine
		if err := rows.Scan(&l.SaleItemID, &l.SaleID, &l.TransactionNumber, &l.PaymentMethod, &l.TransactionTime,
			&l.ProductID, &l.ProductSKU, &l.ProductName, &l.ProductType, &l.PurchasePrice, &l.TaxRatePercent,
			&l.Quantity, &l.PriceAtSale, &l.CommissionAmountAtSale); err != nil {
			return nil, fmt.Errorf("scan sale line: %w", err)
		}
		l.TransactionTime = l.TransactionTime.UTC()
		out = append(out, l)
	}
	return out, rows.Err()
}
