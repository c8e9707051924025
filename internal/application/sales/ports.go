package sales

import (
	"context"

	"github.com/jhoicas/warenwelt-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción, pasando repositorios atados a esa tx.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repositories) error) error
}
