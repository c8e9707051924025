package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrConflict     = errors.New("conflicto con el estado actual")
	ErrPrecondition = errors.New("precondición no cumplida")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
)

// UniqueViolationError indica qué campo único fue violado (sku, invoice_number, payout_number, ...).
// Lo produce la capa de persistencia a partir del nombre del constraint; nunca del texto del error.
type UniqueViolationError struct {
	Field string
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("%s: valor duplicado en %s", ErrConflict.Error(), e.Field)
}

// Unwrap permite errors.Is(err, ErrConflict).
func (e *UniqueViolationError) Unwrap() error { return ErrConflict }

// IsUniqueViolationOn informa si err es una violación de unicidad sobre field.
func IsUniqueViolationOn(err error, field string) bool {
	var uv *UniqueViolationError
	if errors.As(err, &uv) {
		return uv.Field == field
	}
	return false
}

// Campos únicos conocidos.
const (
	FieldSKU               = "sku"
	FieldSupplierNumber    = "supplier_number"
	FieldInvoiceNumber     = "invoice_number"
	FieldInvoicePeriod     = "contract_billing_period"
	FieldPayoutNumber      = "payout_number"
	FieldContractNumber    = "contract_number"
	FieldShelfName         = "shelf_name"
	FieldTransactionNumber = "transaction_number"
)
