package repository

import (
	"context"

	"github.com/jhoicas/warenwelt-api/internal/domain/entity"
)

// SaleRepository persiste ventas con sus líneas (la venta es dueña de las líneas).
type SaleRepository interface {
	// Create inserta cabecera y líneas; las líneas nacen sin liquidar.
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
}
