package dto

import "github.com/shopspring/decimal"

// PaymentMethodSummary totales de un medio de pago.
type PaymentMethodSummary struct {
	PaymentMethod    string          `json:"payment_method"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	TransactionCount int             `json:"transaction_count"`
}

// DailySummaryResponse resumen de caja de un día.
type DailySummaryResponse struct {
	ReportDate                     string                 `json:"report_date"`
	OverallTotalAmount             decimal.Decimal        `json:"overall_total_amount"`
	OverallTransactionCount        int                    `json:"overall_transaction_count"`
	SummaryByPaymentMethod         []PaymentMethodSummary `json:"summary_by_payment_method"`
	TotalCommissionPaidToSuppliers decimal.Decimal        `json:"total_commission_paid_to_suppliers"`
}

// PeriodSummaryResponse resumen de caja de un rango cerrado de fechas (semana, mes o libre).
type PeriodSummaryResponse struct {
	ReportType                     string                 `json:"report_type"`
	StartDate                      string                 `json:"start_date"`
	EndDate                        string                 `json:"end_date"`
	OverallTotalAmount             decimal.Decimal        `json:"overall_total_amount"`
	OverallTransactionCount        int                    `json:"overall_transaction_count"`
	SummaryByPaymentMethod         []PaymentMethodSummary `json:"summary_by_payment_method"`
	TotalCommissionPaidToSuppliers decimal.Decimal        `json:"total_commission_paid_to_suppliers"`
}

// ProductTypeSummary agregado por tipo de producto en la lista de ingresos.
type ProductTypeSummary struct {
	TotalRevenue          decimal.Decimal `json:"total_revenue"`
	TotalCostOrCommission decimal.Decimal `json:"total_cost_or_commission"`
	ItemCount             int             `json:"item_count"`
}

// RevenueItem detalle de ingreso por línea vendida.
type RevenueItem struct {
	ProductID                    string           `json:"product_id"`
	ProductSKU                   string           `json:"product_sku"`
	ProductName                  string           `json:"product_name"`
	ProductType                  string           `json:"product_type"`
	QuantitySold                 int              `json:"quantity_sold"`
	PricePerUnitAtSale           decimal.Decimal  `json:"price_per_unit_at_sale"`
	TotalGrossRevenueForItem     decimal.Decimal  `json:"total_gross_revenue_for_item"`
	PurchasePricePerUnit         decimal.Decimal  `json:"purchase_price_per_unit"`
	TotalCostOrCommissionForItem decimal.Decimal  `json:"total_cost_or_commission_for_item"`
	TaxRatePercentageAtSale      *decimal.Decimal `json:"tax_rate_percentage_at_sale"`
	SaleID                       string           `json:"sale_id"`
	TransactionNumber            string           `json:"transaction_number"`
	PaymentMethod                string           `json:"payment_method"`
	SaleTransactionTime          string           `json:"sale_transaction_time"`
}

// RevenueListResponse lista de ingresos de un periodo.
type RevenueListResponse struct {
	ReportGeneratedAt         string                        `json:"report_generated_at"`
	ReportPeriodStartDate     string                        `json:"report_period_start_date"`
	ReportPeriodEndDate       string                        `json:"report_period_end_date"`
	TotalGrossRevenueAllItems decimal.Decimal               `json:"total_gross_revenue_all_items"`
	TotalItemsSold            int                           `json:"total_items_sold"`
	SummaryByProductType      map[string]ProductTypeSummary `json:"summary_by_product_type"`
	RevenueItems              []RevenueItem                 `json:"revenue_items"`
}

// ReportRangeRequest rango cerrado de fechas ISO (query string).
type ReportRangeRequest struct {
	StartDate string `query:"start_date"`
	EndDate   string `query:"end_date"`
	Encoding  string `query:"encoding"` // utf-8 (defecto) o latin1, solo exportaciones CSV
}
