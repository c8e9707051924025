package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// NotificationStatus resultado del envío del aviso de liquidación al proveedor.
type NotificationStatus string

const (
	NotificationPending NotificationStatus = "PENDING"
	NotificationSent    NotificationStatus = "SENT"
	NotificationFailed  NotificationStatus = "FAILED"
	NotificationSkipped NotificationStatus = "SKIPPED" // sin transporte de correo configurado
)

// Payout liquidación de comisiones a un proveedor.
// TotalAmount = Σ CommissionAmountAtSale de las líneas vinculadas.
type Payout struct {
	ID                 string
	PayoutNumber       string // PAY-XXXXXXXXXX
	SupplierID         string
	PayoutDate         time.Time
	TotalAmount        decimal.Decimal
	Notes              string
	NotificationStatus NotificationStatus
	NotificationError  string
	CreatedAt          time.Time
}

// PaidItem línea liquidada con el contexto de venta y producto (para respuestas y comprobantes).
type PaidItem struct {
	SaleItemID        string
	SaleID            string
	TransactionNumber string
	SaleTime          time.Time
	ProductID         string
	ProductSKU        string
	ProductName       string
	Quantity          int
	CommissionAmount  decimal.Decimal
}

// EligibleForPayout predicado de elegibilidad de una línea para liquidarse al proveedor:
// producto del proveedor, tipo COMMISSION, estado SOLD, línea sin liquidar y comisión > 0.
func EligibleForPayout(item *SaleItem, product *Product, supplierID string) bool {
	return product.SupplierID == supplierID &&
		product.Type == ProductTypeCommission &&
		product.Status == ProductStatusSold &&
		!item.Settlement.IsSettled() &&
		item.CommissionAmountAtSale.IsPositive()
}
