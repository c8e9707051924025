// Package reference genera referencias legibles del tipo PREFIJO-XXXXXXXXXX a partir de UUIDs aleatorios.
package reference

import (
	"strings"

	"github.com/google/uuid"
)

// Random devuelve prefix + los primeros n caracteres hexadecimales (en mayúscula) de un UUID v4.
// n se limita a 32.
func Random(prefix string, n int) string {
	hex := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	if n > len(hex) {
		n = len(hex)
	}
	return prefix + hex[:n]
}

// Payout número de liquidación (PAY-XXXXXXXXXX).
func Payout() string { return Random("PAY-", 10) }

// Transaction número de transacción de caja (TRX-XXXXXXXXXXXX).
func Transaction() string { return Random("TRX-", 12) }

// Contract número de contrato de alquiler (RC-XXXXXXXX).
func Contract() string { return Random("RC-", 8) }
