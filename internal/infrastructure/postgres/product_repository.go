package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/warenwelt-api/internal/domain"
	"github.com/jhoicas/warenwelt-api/internal/domain/entity"
	"github.com/jhoicas/warenwelt-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `
	p.id, p.sku, p.name, p.description, p.supplier_id, COALESCE(p.category_id, ''), COALESCE(p.tax_rate_id, ''),
	COALESCE(t.rate_percent, 0), p.purchase_price, p.selling_price, p.product_type, p.status,
	p.entry_date, p.created_at, p.updated_at`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var rate decimal.Decimal
	err := row.Scan(
		&p.ID, &p.SKU, &p.Name, &p.Description, &p.SupplierID, &p.CategoryID, &p.TaxRateID,
		&rate, &p.PurchasePrice, &p.SellingPrice, &p.Type, &p.Status,
		&p.EntryDate, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.TaxRate = rate
	return &p, nil
}

// Create persiste un nuevo producto. Un SKU repetido devuelve *domain.UniqueViolationError.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (id, sku, name, description, supplier_id, category_id, tax_rate_id,
			purchase_price, selling_price, product_type, status, entry_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.SKU, p.Name, p.Description, p.SupplierID, p.CategoryID, p.TaxRateID,
		p.PurchasePrice, p.SellingPrice, p.Type, p.Status, p.EntryDate, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if uv := asUniqueViolation(err); uv != nil {
			return uv
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products p LEFT JOIN tax_rates t ON t.id = p.tax_rate_id
		WHERE p.id = $1`
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetBySKU obtiene un producto por SKU.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products p LEFT JOIN tax_rates t ON t.id = p.tax_rate_id
		WHERE p.sku = $1`
	p, err := scanProduct(r.q.QueryRow(ctx, query, sku))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by sku: %w", err)
	}
	return p, nil
}

// MarkSold cambia IN_STOCK → SOLD solo si el producto sigue en stock.
func (r *ProductRepo) MarkSold(ctx context.Context, id string) (bool, error) {
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET status = $2, updated_at = now() WHERE id = $1 AND status = $3`,
		id, entity.ProductStatusSold, entity.ProductStatusInStock,
	)
	if err != nil {
		return false, fmt.Errorf("mark product sold: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// Delete elimina el producto.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
