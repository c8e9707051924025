package rental_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/warenwelt-api/internal/domain/rental"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ──────────────────────────────────────────────────────────────────────────────
// CalculateProRata
// ──────────────────────────────────────────────────────────────────────────────

func TestCalculateProRata_MesCompletoSinDeriva(t *testing.T) {
	amounts := []string{"310.00", "99.99", "100.00", "123.45", "0.01", "1999.99"}
	for year := 2023; year <= 2024; year++ {
		for m := time.January; m <= time.December; m++ {
			first, last := rental.MonthBounds(rental.Date(year, m, 15))
			for _, a := range amounts {
				got := rental.CalculateProRata(dec(a), first, last, first, last)
				assert.True(t, dec(a).Equal(got), "%s %d-%02d: esperado %s, obtenido %s", a, year, m, a, got)
			}
		}
	}
}

func TestCalculateProRata_PeriodoInvertidoDevuelveCero(t *testing.T) {
	first, last := rental.MonthBounds(rental.Date(2024, time.July, 1))
	got := rental.CalculateProRata(dec("310.00"), rental.Date(2024, 7, 20), rental.Date(2024, 7, 19), first, last)
	assert.True(t, got.IsZero())
}

func TestCalculateProRata_SegundaQuincenaJulio(t *testing.T) {
	got := rental.CalculateProRata(dec("310.00"),
		rental.Date(2024, 7, 16), rental.Date(2024, 7, 31),
		rental.Date(2024, 7, 1), rental.Date(2024, 7, 31))
	assert.Equal(t, "160.00", got.StringFixed(2))
}

func TestCalculateProRata_FebreroBisiesto(t *testing.T) {
	got := rental.CalculateProRata(dec("290.00"),
		rental.Date(2024, 2, 1), rental.Date(2024, 2, 29),
		rental.Date(2024, 2, 1), rental.Date(2024, 2, 29))
	assert.True(t, dec("290.00").Equal(got))
}

// TestCalculateProRata_RedondeoHalfUp: 10.01 × 14 / 28 = 5.005 → 5.01 (el redondeo bancario daría 5.00).
func TestCalculateProRata_RedondeoHalfUp(t *testing.T) {
	got := rental.CalculateProRata(dec("10.01"),
		rental.Date(2023, 2, 1), rental.Date(2023, 2, 14),
		rental.Date(2023, 2, 1), rental.Date(2023, 2, 28))
	assert.Equal(t, "5.01", got.StringFixed(2))
}

func TestCalculateProRata_UnDia(t *testing.T) {
	got := rental.CalculateProRata(dec("100.00"),
		rental.Date(2024, 4, 30), rental.Date(2024, 4, 30),
		rental.Date(2024, 4, 1), rental.Date(2024, 4, 30))
	assert.Equal(t, "3.33", got.StringFixed(2))
}

// ──────────────────────────────────────────────────────────────────────────────
// AmountForMonth / períodos
// ──────────────────────────────────────────────────────────────────────────────

func TestAmountForMonth(t *testing.T) {
	first, last := rental.MonthBounds(rental.Date(2024, time.July, 10))

	tests := []struct {
		name      string
		start     time.Time
		end       time.Time
		wantOK    bool
		wantStart time.Time
		wantEnd   time.Time
		want      string
	}{
		{"cubre el mes", rental.Date(2024, 1, 1), rental.Date(2024, 12, 31), true, first, last, "310.00"},
		{"empieza a mitad", rental.Date(2024, 7, 16), rental.Date(2025, 7, 15), true, rental.Date(2024, 7, 16), last, "160.00"},
		{"termina a mitad", rental.Date(2024, 1, 1), rental.Date(2024, 7, 10), true, first, rental.Date(2024, 7, 10), "100.00"},
		{"fuera del mes", rental.Date(2024, 8, 1), rental.Date(2024, 9, 30), false, time.Time{}, time.Time{}, "0"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			from, to, amount, ok := rental.AmountForMonth(dec("310.00"), tc.start, tc.end, first, last)
			assert.Equal(t, tc.wantOK, ok)
			if !tc.wantOK {
				return
			}
			assert.True(t, tc.wantStart.Equal(from))
			assert.True(t, tc.wantEnd.Equal(to))
			assert.True(t, dec(tc.want).Equal(amount), "obtenido %s", amount)
		})
	}
}

func TestMonthBounds_Diciembre(t *testing.T) {
	first, last := rental.MonthBounds(rental.Date(2024, time.December, 24))
	assert.True(t, rental.Date(2024, 12, 1).Equal(first))
	assert.True(t, rental.Date(2024, 12, 31).Equal(last))
}

func TestISOWeekBounds(t *testing.T) {
	// 2024-07-18 es jueves
	monday, sunday := rental.ISOWeekBounds(rental.Date(2024, 7, 18))
	assert.True(t, rental.Date(2024, 7, 15).Equal(monday))
	assert.True(t, rental.Date(2024, 7, 21).Equal(sunday))

	monday, _ = rental.ISOWeekBounds(rental.Date(2024, 7, 21))
	assert.True(t, rental.Date(2024, 7, 15).Equal(monday), "el domingo pertenece a la semana del lunes anterior")
}
