package rental

import (
	"time"

	"github.com/shopspring/decimal"
)

// CalculateProRata calcula el alquiler proporcional de un período parcial dentro de un mes calendario.
//
//	importe = (alquilerMensual / díasDelMes) × díasFacturables, redondeado a 2 decimales (half-up)
//
// Devuelve 0 si periodEnd < periodStart. La multiplicación se hace antes de la división para que un
// período igual al mes completo devuelva exactamente fullMonthAmount.
func CalculateProRata(fullMonthAmount decimal.Decimal, periodStart, periodEnd, monthStart, monthEnd time.Time) decimal.Decimal {
	billableDays := DaysInclusive(periodStart, periodEnd)
	daysInMonth := DaysInclusive(monthStart, monthEnd)
	if billableDays <= 0 || daysInMonth <= 0 {
		return decimal.Zero
	}
	amount := fullMonthAmount.
		Mul(decimal.NewFromInt(int64(billableDays))).
		Div(decimal.NewFromInt(int64(daysInMonth)))
	// Round de shopspring redondea half away from zero; nunca bancario.
	return amount.Round(2)
}

// AmountForMonth devuelve el importe a facturar de un contrato [contractStart, contractEnd] en el mes
// [monthStart, monthEnd]: precio completo si el contrato cubre el mes, prorrata en otro caso.
// ok=false si el contrato no toca el mes.
func AmountForMonth(rent decimal.Decimal, contractStart, contractEnd, monthStart, monthEnd time.Time) (billStart, billEnd time.Time, amount decimal.Decimal, ok bool) {
	billStart, billEnd, ok = Clip(contractStart, contractEnd, monthStart, monthEnd)
	if !ok {
		return billStart, billEnd, decimal.Zero, false
	}
	if Covers(contractStart, contractEnd, monthStart, monthEnd) {
		return billStart, billEnd, rent, true
	}
	return billStart, billEnd, CalculateProRata(rent, billStart, billEnd, monthStart, monthEnd), true
}
