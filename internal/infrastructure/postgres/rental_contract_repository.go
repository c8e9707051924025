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

var _ repository.RentalContractRepository = (*RentalContractRepo)(nil)

// RentalContractRepo implementación de RentalContractRepository.
type RentalContractRepo struct {
	q Querier
}

// NewRentalContractRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRentalContractRepository(q Querier) *RentalContractRepo {
	return &RentalContractRepo{q: q}
}

const contractColumns = `id, contract_number, shelf_id, tenant_supplier_id, start_date, end_date,
	rent_price_at_signing, payment_terms, status`

func scanContract(row pgx.Row) (*entity.RentalContract, error) {
	var c entity.RentalContract
	err := row.Scan(&c.ID, &c.ContractNumber, &c.ShelfID, &c.TenantSupplierID, &c.StartDate, &c.EndDate,
		&c.RentPriceAtSigning, &c.PaymentTerms, &c.Status)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserta el contrato.
func (r *RentalContractRepo) Create(ctx context.Context, c *entity.RentalContract) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO rental_contracts (`+contractColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		c.ID, c.ContractNumber, c.ShelfID, c.TenantSupplierID, c.StartDate, c.EndDate,
		c.RentPriceAtSigning, c.PaymentTerms, c.Status,
	)
	if err != nil {
		if uv := asUniqueViolation(err); uv != nil {
			return uv
		}
		return fmt.Errorf("insert rental contract: %w", err)
	}
	return nil
}

// GetByID obtiene un contrato por ID.
func (r *RentalContractRepo) GetByID(ctx context.Context, id string) (*entity.RentalContract, error) {
	c, err := scanContract(r.q.QueryRow(ctx, `SELECT `+contractColumns+` FROM rental_contracts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get rental contract: %w", err)
	}
	return c, nil
}

// ListBillable contratos ACTIVE/PENDING que se cruzan con [from, to].
func (r *RentalContractRepo) ListBillable(ctx context.Context, from, to time.Time) ([]*entity.RentalContract, error) {
	return r.list(ctx, `
		SELECT `+contractColumns+` FROM rental_contracts
		WHERE status IN ($1, $2) AND start_date <= $4 AND end_date >= $3
		ORDER BY start_date, contract_number`,
		entity.ContractStatusActive, entity.ContractStatusPending, from, to,
	)
}

// ListBillableByShelf contratos ACTIVE/PENDING del estante.
func (r *RentalContractRepo) ListBillableByShelf(ctx context.Context, shelfID string) ([]*entity.RentalContract, error) {
	return r.list(ctx, `
		SELECT `+contractColumns+` FROM rental_contracts
		WHERE status IN ($1, $2) AND shelf_id = $3
		ORDER BY start_date, contract_number`,
		entity.ContractStatusActive, entity.ContractStatusPending, shelfID,
	)
}

func (r *RentalContractRepo) list(ctx context.Context, query string, args ...any) ([]*entity.RentalContract, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list rental contracts: %w", err)
	}
	defer rows.Close()
	var out []*entity.RentalContract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("scan rental contract: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpdateStatus cambia el estado del contrato.
func (r *RentalContractRepo) UpdateStatus(ctx context.Context, id string, status entity.ContractStatus) error {
	cmd, err := r.q.Exec(ctx, `UPDATE rental_contracts SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update rental contract status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
