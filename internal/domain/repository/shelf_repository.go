package repository

import (
	"context"

	"github.com/jhoicas/warenwelt-api/internal/domain/entity"
)

// ShelfRepository define el puerto de persistencia para Shelf.
type ShelfRepository interface {
	Create(ctx context.Context, shelf *entity.Shelf) error
	GetByID(ctx context.Context, id string) (*entity.Shelf, error)
	// GetForUpdate lee el estante bloqueando su fila hasta el fin de la transacción: las altas y
	// reactivaciones de contratos sobre un mismo estante quedan serializadas.
	GetForUpdate(ctx context.Context, id string) (*entity.Shelf, error)
	UpdateStatus(ctx context.Context, id string, status entity.ShelfStatus) error
	Delete(ctx context.Context, id string) error
}
