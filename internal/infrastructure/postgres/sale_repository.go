package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/warenwelt-api/internal/domain/entity"
	"github.com/jhoicas/warenwelt-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository (cabecera + líneas).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create inserta cabecera y líneas. Debe ejecutarse dentro de una tx para que sea atómico.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales (id, transaction_number, user_id, payment_method, total_amount, transaction_time)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		s.ID, s.TransactionNumber, s.UserID, s.PaymentMethod, s.TotalAmount, s.TransactionTime,
	)
	if err != nil {
		if uv := asUniqueViolation(err); uv != nil {
			return uv
		}
		return fmt.Errorf("insert sale: %w", err)
	}

	// seq (BIGSERIAL) conserva el orden de inserción de las líneas para los reportes.
	for _, it := range s.Items {
		if _, err := r.q.Exec(ctx, `
			INSERT INTO sale_items (id, sale_id, product_id, quantity, price_at_sale, commission_amount_at_sale)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			it.ID, s.ID, it.ProductID, it.Quantity, it.PriceAtSale, it.CommissionAmountAtSale,
		); err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la venta con sus líneas en orden de inserción.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	var s entity.Sale
	err := r.q.QueryRow(ctx, `
		SELECT id, transaction_number, user_id, payment_method, total_amount, transaction_time
		FROM sales WHERE id = $1`, id,
	).Scan(&s.ID, &s.TransactionNumber, &s.UserID, &s.PaymentMethod, &s.TotalAmount, &s.TransactionTime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	s.TransactionTime = s.TransactionTime.UTC()

	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, product_id, quantity, price_at_sale, commission_amount_at_sale, payout_id
		FROM sale_items WHERE sale_id = $1 ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.SaleItem
		var payoutID *string
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Quantity, &it.PriceAtSale, &it.CommissionAmountAtSale, &payoutID); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		it.Settlement = settlementOf(payoutID)
		s.Items = append(s.Items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	return &s, nil
}

func settlementOf(payoutID *string) entity.Settlement {
	if payoutID == nil || *payoutID == "" {
		return entity.Unsettled()
	}
	return entity.SettledIn(*payoutID)
}
