package repository

import (
	"context"
	"time"

	"github.com/jhoicas/warenwelt-api/internal/domain/entity"
)

// RentalContractRepository define el puerto de persistencia para contratos de alquiler.
type RentalContractRepository interface {
	Create(ctx context.Context, contract *entity.RentalContract) error
	GetByID(ctx context.Context, id string) (*entity.RentalContract, error)
	// ListBillable devuelve contratos ACTIVE/PENDING cuyo intervalo se cruza con [from, to].
	ListBillable(ctx context.Context, from, to time.Time) ([]*entity.RentalContract, error)
	// ListBillableByShelf devuelve contratos ACTIVE/PENDING del estante.
	ListBillableByShelf(ctx context.Context, shelfID string) ([]*entity.RentalContract, error)
	UpdateStatus(ctx context.Context, id string, status entity.ContractStatus) error
}
