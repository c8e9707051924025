package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RentalInvoiceStatus estados de una factura de alquiler.
type RentalInvoiceStatus string

const (
	RentalInvoiceDraft     RentalInvoiceStatus = "DRAFT"
	RentalInvoiceOpen      RentalInvoiceStatus = "OPEN"
	RentalInvoicePaid      RentalInvoiceStatus = "PAID"
	RentalInvoiceOverdue   RentalInvoiceStatus = "OVERDUE"
	RentalInvoiceCancelled RentalInvoiceStatus = "CANCELLED"
)

// RentalInvoice documento de cobro de un contrato para [BillingPeriodStart, BillingPeriodEnd].
// Único por (RentalContractID, BillingPeriodStart, BillingPeriodEnd).
type RentalInvoice struct {
	ID                 string
	InvoiceNumber      string // RENT-YYYY-MM-NNNN
	RentalContractID   string
	TenantSupplierID   string // desnormalizado del contrato
	ShelfID            string // desnormalizado del contrato
	InvoiceDate        time.Time
	DueDate            time.Time
	BillingPeriodStart time.Time
	BillingPeriodEnd   time.Time
	AmountDue          decimal.Decimal
	AmountPaid         decimal.Decimal
	Status             RentalInvoiceStatus
	Notes              string
}

// Valid indica si el estado es conocido.
func (s RentalInvoiceStatus) Valid() bool {
	switch s {
	case RentalInvoiceDraft, RentalInvoiceOpen, RentalInvoicePaid, RentalInvoiceOverdue, RentalInvoiceCancelled:
		return true
	}
	return false
}

var invoiceTransitions = map[RentalInvoiceStatus][]RentalInvoiceStatus{
	RentalInvoiceDraft:   {RentalInvoiceOpen, RentalInvoiceCancelled},
	RentalInvoiceOpen:    {RentalInvoicePaid, RentalInvoiceOverdue, RentalInvoiceCancelled},
	RentalInvoiceOverdue: {RentalInvoicePaid, RentalInvoiceCancelled},
}

// CanTransitionTo informa si el cambio de estado está permitido. PAID y CANCELLED son finales.
func (s RentalInvoiceStatus) CanTransitionTo(next RentalInvoiceStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range invoiceTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
