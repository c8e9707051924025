package repository

import (
	"context"

	"github.com/jhoicas/warenwelt-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	// MarkSold cambia IN_STOCK → SOLD de forma condicional; false si el producto ya no estaba IN_STOCK.
	MarkSold(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}
