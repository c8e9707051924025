package rental

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/warenwelt-api/internal/domain"
	"github.com/jhoicas/warenwelt-api/internal/domain/entity"
	"github.com/jhoicas/warenwelt-api/internal/domain/repository"
)

const (
	dateLayout        = "2006-01-02"
	maxNumberAttempts = 10
)

// InvoiceNumberPrefix prefijo mensual derivado del inicio del período facturado: RENT-YYYY-MM-.
func InvoiceNumberPrefix(periodStart time.Time) string {
	return periodStart.Format("RENT-2006-01-")
}

// NextInvoiceNumber calcula el siguiente número a partir del último existente con ese prefijo.
// skip desplaza la secuencia en reintentos tras una colisión. Sufijos no numéricos reinician en 1.
func NextInvoiceNumber(prefix, last string, skip int) string {
	seq := 1
	if suffix, ok := strings.CutPrefix(last, prefix); ok {
		if n, err := strconv.Atoi(suffix); err == nil && n > 0 {
			seq = n + 1
		}
	}
	return fmt.Sprintf("%s%04d", prefix, seq+skip)
}

// insertNumbered crea la factura en su propia transacción asignando el número RENT-YYYY-MM-NNNN.
// check corre dentro de la misma transacción antes del alta; si falla no se escribe nada.
// Si otro proceso toma el mismo número se reintenta con una transacción nueva.
func insertNumbered(ctx context.Context, tx TxRunner, inv *entity.RentalInvoice, check func(repository.Repositories) error) error {
	prefix := InvoiceNumberPrefix(inv.BillingPeriodStart)
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		err := tx.Run(ctx, func(repos repository.Repositories) error {
			if check != nil {
				if err := check(repos); err != nil {
					return err
				}
			}
			last, err := repos.Invoices.LastNumberWithPrefix(ctx, prefix)
			if err != nil {
				return err
			}
			inv.InvoiceNumber = NextInvoiceNumber(prefix, last, attempt)
			return repos.Invoices.Create(ctx, inv)
		})
		if domain.IsUniqueViolationOn(err, domain.FieldInvoiceNumber) {
			continue
		}
		return err
	}
	return fmt.Errorf("%w: no se pudo asignar número de factura con prefijo %s", domain.ErrConflict, prefix)
}
