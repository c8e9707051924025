package dto

import "github.com/shopspring/decimal"

// GeneratedInvoice factura creada por el lote mensual.
type GeneratedInvoice struct {
	InvoiceID      string          `json:"invoice_id"`
	InvoiceNumber  string          `json:"invoice_number"`
	ContractID     string          `json:"contract_id"`
	ContractNumber string          `json:"contract_number"`
	PeriodStart    string          `json:"period_start"`
	PeriodEnd      string          `json:"period_end"`
	Amount         decimal.Decimal `json:"amount"`
}

// InvoiceGenerationIssue contrato omitido o fallido en el lote, con su motivo.
type InvoiceGenerationIssue struct {
	ContractID     string `json:"contract_id"`
	ContractNumber string `json:"contract_number"`
	PeriodStart    string `json:"period_start,omitempty"`
	PeriodEnd      string `json:"period_end,omitempty"`
	Code           string `json:"code"` // ALREADY_EXISTS | NON_POSITIVE_AMOUNT | FAILED
	Reason         string `json:"reason"`
}

// GenerateInvoicesResponse resultado de POST /api/rental-invoices/generate.
type GenerateInvoicesResponse struct {
	MonthStart string                   `json:"month_start"`
	MonthEnd   string                   `json:"month_end"`
	Generated  []GeneratedInvoice       `json:"generated_invoices"`
	Errors     []InvoiceGenerationIssue `json:"errors"`
}

// CreateRentalInvoiceRequest alta manual de una factura de alquiler.
// InvoiceNumber vacío = se genera RENT-YYYY-MM-NNNN a partir de billing_period_start.
type CreateRentalInvoiceRequest struct {
	RentalContractID   string          `json:"rental_contract_id"`
	InvoiceNumber      string          `json:"invoice_number,omitempty"`
	InvoiceDate        string          `json:"invoice_date,omitempty"` // YYYY-MM-DD, vacío = hoy
	DueDate            string          `json:"due_date,omitempty"`
	BillingPeriodStart string          `json:"billing_period_start"`
	BillingPeriodEnd   string          `json:"billing_period_end"`
	AmountDue          decimal.Decimal `json:"amount_due"`
	Notes              string          `json:"notes,omitempty"`
}

// UpdateRentalInvoiceRequest body para PATCH /api/rental-invoices/:id.
type UpdateRentalInvoiceRequest struct {
	Status     string           `json:"status,omitempty"`
	AmountPaid *decimal.Decimal `json:"amount_paid,omitempty"`
	Notes      *string          `json:"notes,omitempty"`
}

// RentalInvoiceResponse factura de alquiler en respuestas.
type RentalInvoiceResponse struct {
	ID                 string          `json:"id"`
	InvoiceNumber      string          `json:"invoice_number"`
	RentalContractID   string          `json:"rental_contract_id"`
	TenantSupplierID   string          `json:"tenant_supplier_id"`
	ShelfID            string          `json:"shelf_id"`
	InvoiceDate        string          `json:"invoice_date"`
	DueDate            string          `json:"due_date"`
	BillingPeriodStart string          `json:"billing_period_start"`
	BillingPeriodEnd   string          `json:"billing_period_end"`
	AmountDue          decimal.Decimal `json:"amount_due"`
	AmountPaid         decimal.Decimal `json:"amount_paid"`
	Status             string          `json:"status"`
	Notes              string          `json:"notes,omitempty"`
}

// RentalInvoiceListRequest filtros de GET /api/rental-invoices.
type RentalInvoiceListRequest struct {
	PageRequest
	ContractID      string `query:"rental_contract_id"`
	TenantID        string `query:"tenant_supplier_id"`
	ShelfID         string `query:"shelf_id"`
	Status          string `query:"status"`
	InvoiceDateFrom string `query:"invoice_date_from"`
	InvoiceDateTo   string `query:"invoice_date_to"`
	DueDateFrom     string `query:"due_date_from"`
	DueDateTo       string `query:"due_date_to"`
	MinAmountDue    string `query:"min_amount_due"`
	MaxAmountDue    string `query:"max_amount_due"`
}

// CreateRentalContractRequest body para POST /api/rental-contracts.
type CreateRentalContractRequest struct {
	ContractNumber     string          `json:"contract_number,omitempty"`
	ShelfID            string          `json:"shelf_id"`
	TenantSupplierID   string          `json:"tenant_supplier_id"`
	StartDate          string          `json:"start_date"`
	EndDate            string          `json:"end_date"`
	RentPriceAtSigning decimal.Decimal `json:"rent_price_at_signing"`
	PaymentTerms       string          `json:"payment_terms,omitempty"`
	Status             string          `json:"status,omitempty"` // vacío = PENDING
}

// UpdateContractStatusRequest body para PATCH /api/rental-contracts/:id/status.
type UpdateContractStatusRequest struct {
	Status string `json:"status"`
}

// RentalContractResponse contrato en respuestas.
type RentalContractResponse struct {
	ID                 string          `json:"id"`
	ContractNumber     string          `json:"contract_number"`
	ShelfID            string          `json:"shelf_id"`
	TenantSupplierID   string          `json:"tenant_supplier_id"`
	StartDate          string          `json:"start_date"`
	EndDate            string          `json:"end_date"`
	RentPriceAtSigning decimal.Decimal `json:"rent_price_at_signing"`
	PaymentTerms       string          `json:"payment_terms,omitempty"`
	Status             string          `json:"status"`
}
