package dto

import "github.com/shopspring/decimal"

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	PaymentMethod string                  `json:"payment_method"`
	Items         []CreateSaleItemRequest `json:"items"`
}

// CreateSaleItemRequest línea de venta; el producto se identifica por SKU o por ID.
type CreateSaleItemRequest struct {
	ProductID string `json:"product_id,omitempty"`
	SKU       string `json:"sku,omitempty"`
	Quantity  int    `json:"quantity"`
}

// SaleResponse venta registrada.
type SaleResponse struct {
	ID                string             `json:"id"`
	TransactionNumber string             `json:"transaction_number"`
	UserID            string             `json:"user_id"`
	PaymentMethod     string             `json:"payment_method"`
	TotalAmount       decimal.Decimal    `json:"total_amount"`
	TransactionTime   string             `json:"transaction_time"`
	Items             []SaleItemResponse `json:"items"`
}

// SaleItemResponse línea de venta en respuestas.
type SaleItemResponse struct {
	ID                     string          `json:"id"`
	ProductID              string          `json:"product_id"`
	Quantity               int             `json:"quantity"`
	PriceAtSale            decimal.Decimal `json:"price_at_sale"`
	CommissionAmountAtSale decimal.Decimal `json:"commission_amount_at_sale"`
}
