package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod medio de pago de una venta.
type PaymentMethod string

const (
	PaymentMethodCash    PaymentMethod = "CASH"
	PaymentMethodCard    PaymentMethod = "CARD"
	PaymentMethodVoucher PaymentMethod = "VOUCHER"
	PaymentMethodMixed   PaymentMethod = "MIXED"
)

// PaymentMethods lista ordenada de todos los medios de pago conocidos.
var PaymentMethods = []PaymentMethod{
	PaymentMethodCard,
	PaymentMethodCash,
	PaymentMethodMixed,
	PaymentMethodVoucher,
}

// Valid indica si el medio de pago es conocido.
func (m PaymentMethod) Valid() bool {
	for _, pm := range PaymentMethods {
		if pm == m {
			return true
		}
	}
	return false
}

// Sale cabecera inmutable de una transacción de caja.
type Sale struct {
	ID                string
	TransactionNumber string // único, TRX-XXXXXXXXXXXX
	UserID            string
	PaymentMethod     PaymentMethod
	TotalAmount       decimal.Decimal // Σ PriceAtSale × Quantity
	TransactionTime   time.Time
	Items             []*SaleItem
}

// Settlement estado de liquidación de una línea: sin liquidar o liquidada en un payout concreto.
type Settlement struct {
	payoutID string
}

// Unsettled comisión pendiente de pago.
func Unsettled() Settlement { return Settlement{} }

// SettledIn comisión liquidada en el payout indicado.
func SettledIn(payoutID string) Settlement { return Settlement{payoutID: payoutID} }

// IsSettled indica si la línea ya pertenece a un payout.
func (s Settlement) IsSettled() bool { return s.payoutID != "" }

// PayoutID devuelve el payout y true si la línea está liquidada.
func (s Settlement) PayoutID() (string, bool) { return s.payoutID, s.payoutID != "" }

// SaleItem línea de venta. PriceAtSale y CommissionAmountAtSale son instantáneas históricas
// inmunes a cambios posteriores del producto.
type SaleItem struct {
	ID                     string
	SaleID                 string
	ProductID              string
	Quantity               int
	PriceAtSale            decimal.Decimal
	CommissionAmountAtSale decimal.Decimal // PurchasePrice × Quantity, solo COMMISSION
	Settlement             Settlement
}

// LineTotal ingreso bruto de la línea.
func (i *SaleItem) LineTotal() decimal.Decimal {
	return i.PriceAtSale.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
