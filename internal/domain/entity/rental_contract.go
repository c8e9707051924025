package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContractStatus ciclo de vida de un contrato de alquiler.
type ContractStatus string

const (
	ContractStatusPending    ContractStatus = "PENDING"
	ContractStatusActive     ContractStatus = "ACTIVE"
	ContractStatusExpired    ContractStatus = "EXPIRED"
	ContractStatusTerminated ContractStatus = "TERMINATED"
)

// Billable indica si el contrato participa en la facturación mensual.
func (s ContractStatus) Billable() bool {
	return s == ContractStatusActive || s == ContractStatusPending
}

// RentalContract vincula un estante a un proveedor-arrendatario durante [StartDate, EndDate].
// Invariante: EndDate > StartDate.
type RentalContract struct {
	ID                 string
	ContractNumber     string // único
	ShelfID            string
	TenantSupplierID   string
	StartDate          time.Time
	EndDate            time.Time
	RentPriceAtSigning decimal.Decimal
	PaymentTerms       string
	Status             ContractStatus
}

// Overlaps indica si el contrato se cruza con el intervalo cerrado [start, end].
func (c *RentalContract) Overlaps(start, end time.Time) bool {
	return !c.StartDate.After(end) && !c.EndDate.Before(start)
}

// Valid indica si el estado es conocido.
func (s ContractStatus) Valid() bool {
	return s == ContractStatusPending || s == ContractStatusActive || s == ContractStatusExpired || s == ContractStatusTerminated
}
