package repository

import (
	"context"

	"github.com/jhoicas/warenwelt-api/internal/domain/entity"
)

// SupplierRepository define el puerto de persistencia para Supplier.
// GetByID devuelve (nil, nil) si no existe.
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
}
