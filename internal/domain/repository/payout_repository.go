package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/warenwelt-api/internal/domain/entity"
)

// PayoutEligibility resumen de las comisiones pendientes de un proveedor.
type PayoutEligibility struct {
	TotalDue decimal.Decimal
	Count    int
	Preview  []entity.PaidItem
}

// PayoutRepository define el puerto de persistencia para liquidaciones.
type PayoutRepository interface {
	Create(ctx context.Context, payout *entity.Payout) error
	// ClaimEligibleItems vincula al payout, en una sola sentencia condicional (payout_id IS NULL),
	// todas las líneas elegibles del proveedor y devuelve las reclamadas. Dos llamadas concurrentes
	// nunca reclaman la misma línea.
	ClaimEligibleItems(ctx context.Context, supplierID, payoutID string) ([]entity.PaidItem, error)
	UpdateTotal(ctx context.Context, payoutID string, total decimal.Decimal) error
	UpdateNotification(ctx context.Context, payoutID string, status entity.NotificationStatus, errMsg string) error
	// Eligibility calcula total y cantidad elegibles sin modificar nada. Preview: las primeras
	// previewLimit líneas por hora de venta.
	Eligibility(ctx context.Context, supplierID string, previewLimit int) (*PayoutEligibility, error)
	GetByID(ctx context.Context, id string) (*entity.Payout, error)
	ListItems(ctx context.Context, payoutID string) ([]entity.PaidItem, error)
	List(ctx context.Context, supplierID string, limit, offset int) ([]*entity.Payout, error)
}
