package rental

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/warenwelt-api/internal/application/dto"
	"github.com/jhoicas/warenwelt-api/internal/application/ports"
	"github.com/jhoicas/warenwelt-api/internal/domain"
	"github.com/jhoicas/warenwelt-api/internal/domain/entity"
	"github.com/jhoicas/warenwelt-api/internal/domain/rental"
	"github.com/jhoicas/warenwelt-api/internal/domain/repository"
	"github.com/jhoicas/warenwelt-api/pkg/logger"
)

// Códigos de motivo en InvoiceGenerationIssue.
const (
	IssueAlreadyExists     = "ALREADY_EXISTS"
	IssueNonPositiveAmount = "NON_POSITIVE_AMOUNT"
	IssueFailed            = "FAILED"
)

// alreadyInvoicedError el contrato ya tiene factura para el período.
type alreadyInvoicedError struct {
	existing *entity.RentalInvoice
}

func (e *alreadyInvoicedError) Error() string {
	if e.existing == nil {
		return "ya existe una factura para el período"
	}
	return fmt.Sprintf("ya existe una factura para el período (ID: %s, número: %s)", e.existing.ID, e.existing.InvoiceNumber)
}

var errNonPositiveAmount = errors.New("el importe calculado es cero o negativo, no se genera factura")

// GenerateInvoicesUseCase genera las facturas DRAFT de alquiler de un mes calendario.
// Cada contrato se procesa en su propia transacción; un fallo no detiene al resto.
type GenerateInvoicesUseCase struct {
	txRunner  TxRunner
	contracts repository.RentalContractRepository
	locker    ports.Locker
	dueDays   int
	log       *logger.Logger
	now       func() time.Time
}

// NewGenerateInvoicesUseCase construye el caso de uso. dueDays = días hasta el vencimiento.
func NewGenerateInvoicesUseCase(
	txRunner TxRunner,
	contracts repository.RentalContractRepository,
	locker ports.Locker,
	dueDays int,
	log *logger.Logger,
) *GenerateInvoicesUseCase {
	if locker == nil {
		locker = ports.NoopLocker{}
	}
	return &GenerateInvoicesUseCase{
		txRunner:  txRunner,
		contracts: contracts,
		locker:    locker,
		dueDays:   dueDays,
		log:       log.Component("rental-billing"),
		now:       time.Now,
	}
}

// WithClock reemplaza el reloj (tests y reprocesos).
func (uc *GenerateInvoicesUseCase) WithClock(now func() time.Time) *GenerateInvoicesUseCase {
	uc.now = now
	return uc
}

// GenerateMonthly factura el mes calendario que contiene targetDate (nil = hoy).
// Es idempotente: un contrato ya facturado para el mismo período se informa en Errors con
// código ALREADY_EXISTS y nunca se duplica.
func (uc *GenerateInvoicesUseCase) GenerateMonthly(ctx context.Context, targetDate *time.Time) (*dto.GenerateInvoicesResponse, error) {
	today := rental.DateOf(uc.now())
	target := today
	if targetDate != nil {
		target = rental.DateOf(*targetDate)
	}
	monthStart, monthEnd := rental.MonthBounds(target)

	release, err := uc.locker.Obtain(ctx, "rental-billing:"+monthStart.Format("2006-01"))
	if err != nil {
		if errors.Is(err, ports.ErrLockNotObtained) {
			return nil, fmt.Errorf("%w: ya hay una facturación en curso para %s", domain.ErrConflict, monthStart.Format("2006-01"))
		}
		return nil, fmt.Errorf("obtener lock de facturación: %w", err)
	}
	defer func() { _ = release(context.WithoutCancel(ctx)) }()

	contracts, err := uc.contracts.ListBillable(ctx, monthStart, monthEnd)
	if err != nil {
		return nil, fmt.Errorf("listar contratos facturables: %w", err)
	}

	res := &dto.GenerateInvoicesResponse{
		MonthStart: monthStart.Format(dateLayout),
		MonthEnd:   monthEnd.Format(dateLayout),
		Generated:  []dto.GeneratedInvoice{},
		Errors:     []dto.InvoiceGenerationIssue{},
	}
	for _, c := range contracts {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		billStart, billEnd, amount, ok := rental.AmountForMonth(c.RentPriceAtSigning, c.StartDate, c.EndDate, monthStart, monthEnd)
		if !ok {
			uc.log.Debug().Str("contract_id", c.ID).Msg("contrato sin días en el mes, se omite")
			continue
		}
		inv := &entity.RentalInvoice{
			ID:                 uuid.New().String(),
			RentalContractID:   c.ID,
			TenantSupplierID:   c.TenantSupplierID,
			ShelfID:            c.ShelfID,
			InvoiceDate:        today,
			DueDate:            today.AddDate(0, 0, uc.dueDays),
			BillingPeriodStart: billStart,
			BillingPeriodEnd:   billEnd,
			AmountDue:          amount,
			AmountPaid:         decimal.Zero,
			Status:             entity.RentalInvoiceDraft,
		}
		err := insertNumbered(ctx, uc.txRunner, inv, func(repos repository.Repositories) error {
			existing, err := repos.Invoices.FindByPeriod(ctx, c.ID, billStart, billEnd)
			if err != nil {
				return err
			}
			if existing != nil {
				return &alreadyInvoicedError{existing: existing}
			}
			if !amount.IsPositive() {
				return errNonPositiveAmount
			}
			return nil
		})
		if err != nil {
			issue := uc.issueFor(c, billStart, billEnd, err)
			uc.log.Info().
				Str("contract_id", c.ID).
				Str("code", issue.Code).
				Str("reason", issue.Reason).
				Msg("factura de alquiler omitida")
			res.Errors = append(res.Errors, issue)
			continue
		}
		res.Generated = append(res.Generated, dto.GeneratedInvoice{
			InvoiceID:      inv.ID,
			InvoiceNumber:  inv.InvoiceNumber,
			ContractID:     c.ID,
			ContractNumber: c.ContractNumber,
			PeriodStart:    billStart.Format(dateLayout),
			PeriodEnd:      billEnd.Format(dateLayout),
			Amount:         inv.AmountDue,
		})
	}

	uc.log.Info().
		Str("month", monthStart.Format("2006-01")).
		Int("contracts", len(contracts)).
		Int("generated", len(res.Generated)).
		Int("skipped", len(res.Errors)).
		Msg("facturación mensual de alquileres completada")
	return res, nil
}

func (uc *GenerateInvoicesUseCase) issueFor(c *entity.RentalContract, start, end time.Time, err error) dto.InvoiceGenerationIssue {
	issue := dto.InvoiceGenerationIssue{
		ContractID:     c.ID,
		ContractNumber: c.ContractNumber,
		PeriodStart:    start.Format(dateLayout),
		PeriodEnd:      end.Format(dateLayout),
		Reason:         err.Error(),
	}
	var already *alreadyInvoicedError
	switch {
	case errors.As(err, &already):
		issue.Code = IssueAlreadyExists
	case domain.IsUniqueViolationOn(err, domain.FieldInvoicePeriod):
		// Otro proceso creó la factura del período entre la comprobación y el alta.
		issue.Code = IssueAlreadyExists
		issue.Reason = (&alreadyInvoicedError{}).Error()
	case errors.Is(err, errNonPositiveAmount):
		issue.Code = IssueNonPositiveAmount
	default:
		issue.Code = IssueFailed
		issue.Reason = "error al crear la factura: " + err.Error()
		uc.log.Error().Err(err).Str("contract_id", c.ID).Msg("fallo al crear factura de alquiler")
	}
	return issue
}
