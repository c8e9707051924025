package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/warenwelt-api/internal/application/payout"
	"github.com/jhoicas/warenwelt-api/internal/application/rental"
	"github.com/jhoicas/warenwelt-api/internal/application/sales"
	"github.com/jhoicas/warenwelt-api/internal/domain/repository"
)

var (
	_ rental.TxRunner = (*TxRunner)(nil)
	_ payout.TxRunner = (*TxRunner)(nil)
	_ sales.TxRunner  = (*TxRunner)(nil)
)

// NewRepositories ata todos los repositorios al mismo Querier (pool o tx).
func NewRepositories(q Querier) repository.Repositories {
	return repository.Repositories{
		Suppliers: NewSupplierRepository(q),
		Products:  NewProductRepository(q),
		Sales:     NewSaleRepository(q),
		Shelves:   NewShelfRepository(q),
		Contracts: NewRentalContractRepository(q),
		Invoices:  NewRentalInvoiceRepository(q),
		Payouts:   NewPayoutRepository(q),
		Reports:   NewReportRepository(q),
	}
}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.Repositories) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
