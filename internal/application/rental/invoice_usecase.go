package rental

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/warenwelt-api/internal/application/dto"
	"github.com/jhoicas/warenwelt-api/internal/domain"
	"github.com/jhoicas/warenwelt-api/internal/domain/entity"
	"github.com/jhoicas/warenwelt-api/internal/domain/rental"
	"github.com/jhoicas/warenwelt-api/internal/domain/repository"
)

// InvoiceUseCase consultas y mantenimiento de facturas de alquiler.
type InvoiceUseCase struct {
	txRunner  TxRunner
	invoices  repository.RentalInvoiceRepository
	contracts repository.RentalContractRepository
	dueDays   int
	now       func() time.Time
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	txRunner TxRunner,
	invoices repository.RentalInvoiceRepository,
	contracts repository.RentalContractRepository,
	dueDays int,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner:  txRunner,
		invoices:  invoices,
		contracts: contracts,
		dueDays:   dueDays,
		now:       time.Now,
	}
}

// Create alta manual. Comparte numeración y la garantía de una factura por (contrato, período)
// con la generación mensual.
func (uc *InvoiceUseCase) Create(ctx context.Context, in dto.CreateRentalInvoiceRequest) (*dto.RentalInvoiceResponse, error) {
	if in.RentalContractID == "" {
		return nil, fmt.Errorf("%w: rental_contract_id requerido", domain.ErrInvalidInput)
	}
	start, err := rental.ParseDate(in.BillingPeriodStart)
	if err != nil {
		return nil, fmt.Errorf("%w: billing_period_start", domain.ErrInvalidInput)
	}
	end, err := rental.ParseDate(in.BillingPeriodEnd)
	if err != nil {
		return nil, fmt.Errorf("%w: billing_period_end", domain.ErrInvalidInput)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: el período termina antes de empezar", domain.ErrInvalidInput)
	}
	if !in.AmountDue.IsPositive() {
		return nil, fmt.Errorf("%w: amount_due debe ser mayor que cero", domain.ErrInvalidInput)
	}
	invoiceDate := rental.DateOf(uc.now())
	if in.InvoiceDate != "" {
		if invoiceDate, err = rental.ParseDate(in.InvoiceDate); err != nil {
			return nil, fmt.Errorf("%w: invoice_date", domain.ErrInvalidInput)
		}
	}
	dueDate := invoiceDate.AddDate(0, 0, uc.dueDays)
	if in.DueDate != "" {
		if dueDate, err = rental.ParseDate(in.DueDate); err != nil {
			return nil, fmt.Errorf("%w: due_date", domain.ErrInvalidInput)
		}
	}

	contract, err := uc.contracts.GetByID(ctx, in.RentalContractID)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, fmt.Errorf("%w: contrato %s", domain.ErrNotFound, in.RentalContractID)
	}
	if !rental.Covers(contract.StartDate, contract.EndDate, start, end) {
		return nil, fmt.Errorf("%w: el período %s..%s está fuera de la vigencia del contrato (%s..%s)",
			domain.ErrInvalidInput, in.BillingPeriodStart, in.BillingPeriodEnd,
			contract.StartDate.Format(dateLayout), contract.EndDate.Format(dateLayout))
	}

	inv := &entity.RentalInvoice{
		ID:                 uuid.New().String(),
		InvoiceNumber:      in.InvoiceNumber,
		RentalContractID:   contract.ID,
		TenantSupplierID:   contract.TenantSupplierID,
		ShelfID:            contract.ShelfID,
		InvoiceDate:        invoiceDate,
		DueDate:            dueDate,
		BillingPeriodStart: start,
		BillingPeriodEnd:   end,
		AmountDue:          in.AmountDue,
		AmountPaid:         decimal.Zero,
		Status:             entity.RentalInvoiceDraft,
		Notes:              in.Notes,
	}
	if in.InvoiceNumber != "" {
		err = uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
			return repos.Invoices.Create(ctx, inv)
		})
	} else {
		err = insertNumbered(ctx, uc.txRunner, inv, nil)
	}
	if err != nil {
		return nil, err
	}
	return toRentalInvoiceResponse(inv), nil
}

// Get devuelve una factura por ID.
func (uc *InvoiceUseCase) Get(ctx context.Context, id string) (*dto.RentalInvoiceResponse, error) {
	inv, err := uc.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return toRentalInvoiceResponse(inv), nil
}

// List lista facturas con filtros opcionales, más recientes primero.
func (uc *InvoiceUseCase) List(ctx context.Context, in dto.RentalInvoiceListRequest) ([]dto.RentalInvoiceResponse, error) {
	in.DefaultPage()
	f := repository.RentalInvoiceFilter{
		ContractID: in.ContractID,
		TenantID:   in.TenantID,
		ShelfID:    in.ShelfID,
		Limit:      in.Limit,
		Offset:     in.Offset,
	}
	if in.Status != "" {
		f.Status = entity.RentalInvoiceStatus(in.Status)
		if !f.Status.Valid() {
			return nil, fmt.Errorf("%w: status %q", domain.ErrInvalidInput, in.Status)
		}
	}
	var err error
	for _, d := range []struct {
		raw string
		dst **time.Time
	}{
		{in.InvoiceDateFrom, &f.InvoiceDateFrom},
		{in.InvoiceDateTo, &f.InvoiceDateTo},
		{in.DueDateFrom, &f.DueDateFrom},
		{in.DueDateTo, &f.DueDateTo},
	} {
		if d.raw == "" {
			continue
		}
		t, perr := rental.ParseDate(d.raw)
		if perr != nil {
			return nil, fmt.Errorf("%w: fecha %q", domain.ErrInvalidInput, d.raw)
		}
		*d.dst = &t
	}
	if f.MinAmountDue, err = optionalDecimal(in.MinAmountDue); err != nil {
		return nil, err
	}
	if f.MaxAmountDue, err = optionalDecimal(in.MaxAmountDue); err != nil {
		return nil, err
	}

	list, err := uc.invoices.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RentalInvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, *toRentalInvoiceResponse(inv))
	}
	return out, nil
}

func optionalDecimal(raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: importe %q", domain.ErrInvalidInput, raw)
	}
	return &d, nil
}

// Update cambia estado, importe pagado o notas. Las transiciones válidas son
// DRAFT→OPEN→PAID/OVERDUE y cualquier estado no final→CANCELLED.
func (uc *InvoiceUseCase) Update(ctx context.Context, id string, in dto.UpdateRentalInvoiceRequest) (*dto.RentalInvoiceResponse, error) {
	var out *entity.RentalInvoice
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		inv, err := repos.Invoices.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if in.Status != "" {
			next := entity.RentalInvoiceStatus(in.Status)
			if !next.Valid() {
				return fmt.Errorf("%w: status %q", domain.ErrInvalidInput, in.Status)
			}
			if !inv.Status.CanTransitionTo(next) {
				return fmt.Errorf("%w: no se puede pasar de %s a %s", domain.ErrPrecondition, inv.Status, next)
			}
			inv.Status = next
		}
		if in.AmountPaid != nil {
			if in.AmountPaid.IsNegative() {
				return fmt.Errorf("%w: amount_paid negativo", domain.ErrInvalidInput)
			}
			inv.AmountPaid = *in.AmountPaid
		}
		if in.Notes != nil {
			inv.Notes = *in.Notes
		}
		out = inv
		return repos.Invoices.Update(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	return toRentalInvoiceResponse(out), nil
}

// Delete elimina una factura. Una factura PAID no se puede eliminar.
func (uc *InvoiceUseCase) Delete(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		inv, err := repos.Invoices.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if inv.Status == entity.RentalInvoicePaid {
			return fmt.Errorf("%w: no se puede eliminar una factura pagada, cancélela", domain.ErrPrecondition)
		}
		return repos.Invoices.Delete(ctx, id)
	})
}

func toRentalInvoiceResponse(inv *entity.RentalInvoice) *dto.RentalInvoiceResponse {
	return &dto.RentalInvoiceResponse{
		ID:                 inv.ID,
		InvoiceNumber:      inv.InvoiceNumber,
		RentalContractID:   inv.RentalContractID,
		TenantSupplierID:   inv.TenantSupplierID,
		ShelfID:            inv.ShelfID,
		InvoiceDate:        inv.InvoiceDate.Format(dateLayout),
		DueDate:            inv.DueDate.Format(dateLayout),
		BillingPeriodStart: inv.BillingPeriodStart.Format(dateLayout),
		BillingPeriodEnd:   inv.BillingPeriodEnd.Format(dateLayout),
		AmountDue:          inv.AmountDue,
		AmountPaid:         inv.AmountPaid,
		Status:             string(inv.Status),
		Notes:              inv.Notes,
	}
}
