package dto

import "github.com/shopspring/decimal"

// PaidItemResponse línea de venta en comisión (pendiente o liquidada) con su contexto de venta.
type PaidItemResponse struct {
	SaleItemID        string          `json:"sale_item_id"`
	SaleID            string          `json:"sale_id"`
	TransactionNumber string          `json:"sale_transaction_number"`
	SaleDate          string          `json:"sale_date"`
	ProductID         string          `json:"product_id"`
	ProductSKU        string          `json:"product_sku"`
	ProductName       string          `json:"product_name"`
	Quantity          int             `json:"quantity"`
	CommissionAmount  decimal.Decimal `json:"commission_amount"`
}

// PayoutSummaryResponse respuesta de GET /api/payouts/suppliers/:id/summary.
type PayoutSummaryResponse struct {
	SupplierID         string             `json:"supplier_id"`
	SupplierName       string             `json:"supplier_name"`
	TotalDue           decimal.Decimal    `json:"total_due"`
	EligibleItemsCount int                `json:"eligible_items_count"`
	ItemsPreview       []PaidItemResponse `json:"items_preview"`
}

// CreatePayoutRequest body para POST /api/payouts.
type CreatePayoutRequest struct {
	SupplierID string `json:"supplier_id"`
	PayoutDate string `json:"payout_date,omitempty"` // YYYY-MM-DD, vacío = hoy
	Notes      string `json:"notes,omitempty"`
}

// PayoutResponse liquidación con proveedor y líneas pagadas.
type PayoutResponse struct {
	ID                 string             `json:"id"`
	PayoutNumber       string             `json:"payout_number"`
	SupplierID         string             `json:"supplier_id"`
	SupplierName       string             `json:"supplier_name,omitempty"`
	PayoutDate         string             `json:"payout_date"`
	TotalAmount        decimal.Decimal    `json:"total_amount"`
	Notes              string             `json:"notes,omitempty"`
	NotificationStatus string             `json:"notification_status"`
	NotificationError  string             `json:"notification_error,omitempty"`
	CreatedAt          string             `json:"created_at"`
	Items              []PaidItemResponse `json:"items_paid_out,omitempty"`
}

// PayoutListRequest filtros de GET /api/payouts.
type PayoutListRequest struct {
	PageRequest
	SupplierID string `query:"supplier_id"`
}
