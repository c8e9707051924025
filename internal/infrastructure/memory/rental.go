package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/warenwelt-api/internal/domain"
	"github.com/jhoicas/warenwelt-api/internal/domain/entity"
	"github.com/jhoicas/warenwelt-api/internal/domain/repository"
)

type contractRepo struct{ v *view }

func (r *contractRepo) Create(_ context.Context, c *entity.RentalContract) error {
	r.v.lock.Lock()
	defer r.v.lock.Unlock()
	st := r.v.state()
	for _, existing := range st.contracts {
		if existing.ContractNumber == c.ContractNumber {
			return &domain.UniqueViolationError{Field: domain.FieldContractNumber}
		}
	}
	st.contracts[c.ID] = *c
	return nil
}

func (r *contractRepo) GetByID(_ context.Context, id string) (*entity.RentalContract, error) {
	r.v.lock.Lock()
	defer r.v.lock.Unlock()
	c, ok := r.v.state().contracts[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *contractRepo) ListBillable(_ context.Context, from, to time.Time) ([]*entity.RentalContract, error) {
	r.v.lock.Lock()
	defer r.v.lock.Unlock()
	var out []*entity.RentalContract
	for _, c := range r.v.state().contracts {
		if c.Status.Billable() && c.Overlaps(from, to) {
			c := c
			out = append(out, &c)
		}
	}
	sortContracts(out)
	return out, nil
}

func (r *contractRepo) ListBillableByShelf(_ context.Context, shelfID string) ([]*entity.RentalContract, error) {
	r.v.lock.Lock()
	defer r.v.lock.Unlock()
	var out []*entity.RentalContract
	for _, c := range r.v.state().contracts {
		if c.ShelfID == shelfID && c.Status.Billable() {
			c := c
			out = append(out, &c)
		}
	}
	sortContracts(out)
	return out, nil
}

func (r *contractRepo) UpdateStatus(_ context.Context, id string, status entity.ContractStatus) error {
	r.v.lock.Lock()
	defer r.v.lock.Unlock()
	st := r.v.state()
	c, ok := st.contracts[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.Status = status
	st.contracts[id] = c
	return nil
}

func sortContracts(list []*entity.RentalContract) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].StartDate.Equal(list[j].StartDate) {
			return list[i].StartDate.Before(list[j].StartDate)
		}
		return list[i].ContractNumber < list[j].ContractNumber
	})
}

type invoiceRepo struct{ v *view }

func (r *invoiceRepo) Create(_ context.Context, inv *entity.RentalInvoice) error {
	r.v.lock.Lock()
	defer r.v.lock.Unlock()
	st := r.v.state()
	for _, existing := range st.invoices {
		if existing.InvoiceNumber == inv.InvoiceNumber {
			return &domain.UniqueViolationError{Field: domain.FieldInvoiceNumber}
		}
		if existing.RentalContractID == inv.RentalContractID &&
			existing.BillingPeriodStart.Equal(inv.BillingPeriodStart) &&
			existing.BillingPeriodEnd.Equal(inv.BillingPeriodEnd) {
			return &domain.UniqueViolationError{Field: domain.FieldInvoicePeriod}
		}
	}
	st.invoices[inv.ID] = *inv
	return nil
}

func (r *invoiceRepo) GetByID(_ context.Context, id string) (*entity.RentalInvoice, error) {
	r.v.lock.Lock()
	defer r.v.lock.Unlock()
	inv, ok := r.v.state().invoices[id]
	if !ok {
		return nil, nil
	}
	return &inv, nil
}

func (r *invoiceRepo) FindByPeriod(_ context.Context, contractID string, start, end time.Time) (*entity.RentalInvoice, error) {
	r.v.lock.Lock()
	defer r.v.lock.Unlock()
	for _, inv := range r.v.state().invoices {
		if inv.RentalContractID == contractID && inv.BillingPeriodStart.Equal(start) && inv.BillingPeriodEnd.Equal(end) {
			return &inv, nil
		}
	}
	return nil, nil
}

func (r *invoiceRepo) LastNumberWithPrefix(_ context.Context, prefix string) (string, error) {
	r.v.lock.Lock()
	defer r.v.lock.Unlock()
	last := ""
	for _, inv := range r.v.state().invoices {
		n := inv.InvoiceNumber
		if strings.HasPrefix(n, prefix) && (len(n) > len(last) || len(n) == len(last) && n > last) {
			last = n
		}
	}
	return last, nil
}

func (r *invoiceRepo) List(_ context.Context, f repository.RentalInvoiceFilter) ([]*entity.RentalInvoice, error) {
	r.v.lock.Lock()
	defer r.v.lock.Unlock()
	var out []*entity.RentalInvoice
	for _, inv := range r.v.state().invoices {
		if !matchInvoice(&inv, f) {
			continue
		}
		inv := inv
		out = append(out, &inv)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].InvoiceDate.Equal(out[j].InvoiceDate) {
			return out[i].InvoiceDate.After(out[j].InvoiceDate)
		}
		return out[i].InvoiceNumber > out[j].InvoiceNumber
	})
	return paginate(out, f.Limit, f.Offset), nil
}

func matchInvoice(inv *entity.RentalInvoice, f repository.RentalInvoiceFilter) bool {
	switch {
	case f.ContractID != "" && inv.RentalContractID != f.ContractID,
		f.TenantID != "" && inv.TenantSupplierID != f.TenantID,
		f.ShelfID != "" && inv.ShelfID != f.ShelfID,
		f.Status != "" && inv.Status != f.Status,
		f.InvoiceDateFrom != nil && inv.InvoiceDate.Before(*f.InvoiceDateFrom),
		f.InvoiceDateTo != nil && inv.InvoiceDate.After(*f.InvoiceDateTo),
		f.DueDateFrom != nil && inv.DueDate.Before(*f.DueDateFrom),
		f.DueDateTo != nil && inv.DueDate.After(*f.DueDateTo),
		f.MinAmountDue != nil && inv.AmountDue.LessThan(*f.MinAmountDue),
		f.MaxAmountDue != nil && inv.AmountDue.GreaterThan(*f.MaxAmountDue):
		return false
	}
	return true
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(list) {
			return nil
		}
		list = list[offset:]
	}
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

func (r *invoiceRepo) Update(_ context.Context, in *entity.RentalInvoice) error {
	r.v.lock.Lock()
	defer r.v.lock.Unlock()
	st := r.v.state()
	inv, ok := st.invoices[in.ID]
	if !ok {
		return domain.ErrNotFound
	}
	inv.Status = in.Status
	inv.AmountPaid = in.AmountPaid
	inv.Notes = in.Notes
	st.invoices[in.ID] = inv
	return nil
}

func (r *invoiceRepo) Delete(_ context.Context, id string) error {
	r.v.lock.Lock()
	defer r.v.lock.Unlock()
	st := r.v.state()
	if _, ok := st.invoices[id]; !ok {
		return domain.ErrNotFound
	}
	delete(st.invoices, id)
	return nil
}
