package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/warenwelt-api/internal/domain"
	"github.com/jhoicas/warenwelt-api/internal/domain/entity"
	"github.com/jhoicas/warenwelt-api/internal/domain/repository"
)

type payoutRepo struct{ v *view }

func (r *payoutRepo) Create(_ context.Context, p *entity.Payout) error {
	r.v.lock.Lock()
	defer r.v.lock.Unlock()
	st := r.v.state()
	for _, existing := range st.payouts {
		if existing.PayoutNumber == p.PayoutNumber {
			return &domain.UniqueViolationError{Field: domain.FieldPayoutNumber}
		}
	}
	st.payouts[p.ID] = *p
	return nil
}

// eligible líneas elegibles del proveedor por hora de venta.
func (s *state) eligible(supplierID string) []saleItemRow {
	var rows []saleItemRow
	for _, row := range s.sortedItems() {
		p, ok := s.products[row.item.ProductID]
		if !ok {
			continue
		}
		if entity.EligibleForPayout(&row.item, &p, supplierID) {
			rows = append(rows, row)
		}
	}
	return rows
}

func (s *state) paidItem(it entity.SaleItem) entity.PaidItem {
	sale := s.sales[it.SaleID]
	p := s.products[it.ProductID]
	return entity.PaidItem{
		SaleItemID:        it.ID,
		SaleID:            it.SaleID,
		TransactionNumber: sale.TransactionNumber,
		SaleTime:          sale.TransactionTime,
		ProductID:         it.ProductID,
		ProductSKU:        p.SKU,
		ProductName:       p.Name,
		Quantity:          it.Quantity,
		CommissionAmount:  it.CommissionAmountAtSale,
	}
}

func (r *payoutRepo) ClaimEligibleItems(_ context.Context, supplierID, payoutID string) ([]entity.PaidItem, error) {
	r.v.lock.Lock()
	defer r.v.lock.Unlock()
	st := r.v.state()
	var out []entity.PaidItem
	for _, row := range st.eligible(supplierID) {
		row.item.Settlement = entity.SettledIn(payoutID)
		st.items[row.item.ID] = row
		out = append(out, st.paidItem(row.item))
	}
	return out, nil
}

func (r *payoutRepo) UpdateTotal(_ context.Context, payoutID string, total decimal.Decimal) error {
	r.v.lock.Lock()
	defer r.v.lock.Unlock()
	st := r.v.state()
	p, ok := st.payouts[payoutID]
	if !ok {
		return domain.ErrNotFound
	}
	p.TotalAmount = total
	st.payouts[payoutID] = p
	return nil
}

func (r *payoutRepo) UpdateNotification(_ context.Context, payoutID string, status entity.NotificationStatus, errMsg string) error {
	r.v.lock.Lock()
	defer r.v.lock.Unlock()
	st := r.v.state()
	p, ok := st.payouts[payoutID]
	if !ok {
		return domain.ErrNotFound
	}
	p.NotificationStatus = status
	p.NotificationError = errMsg
	st.payouts[payoutID] = p
	return nil
}

func (r *payoutRepo) Eligibility(_ context.Context, supplierID string, previewLimit int) (*repository.PayoutEligibility, error) {
	r.v.lock.Lock()
	defer r.v.lock.Unlock()
	st := r.v.state()
	res := &repository.PayoutEligibility{TotalDue: decimal.Zero, Preview: []entity.PaidItem{}}
	rows := st.eligible(supplierID)
	for _, row := range rows {
		res.TotalDue = res.TotalDue.Add(row.item.CommissionAmountAtSale)
		res.Count++
	}
	for i := 0; i < len(rows) && i < previewLimit; i++ {
		res.Preview = append(res.Preview, st.paidItem(rows[i].item))
	}
	return res, nil
}

func (r *payoutRepo) GetByID(_ context.Context, id string) (*entity.Payout, error) {
	r.v.lock.Lock()
	defer r.v.lock.Unlock()
	p, ok := r.v.state().payouts[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *payoutRepo) ListItems(_ context.Context, payoutID string) ([]entity.PaidItem, error) {
	r.v.lock.Lock()
	defer r.v.lock.Unlock()
	st := r.v.state()
	out := []entity.PaidItem{}
	for _, row := range st.sortedItems() {
		if id, ok := row.item.Settlement.PayoutID(); ok && id == payoutID {
			out = append(out, st.paidItem(row.item))
		}
	}
	return out, nil
}

func (r *payoutRepo) List(_ context.Context, supplierID string, limit, offset int) ([]*entity.Payout, error) {
	r.v.lock.Lock()
	defer r.v.lock.Unlock()
	var out []*entity.Payout
	for _, p := range r.v.state().payouts {
		if supplierID != "" && p.SupplierID != supplierID {
			continue
		}
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PayoutDate.Equal(out[j].PayoutDate) {
			return out[i].PayoutDate.After(out[j].PayoutDate)
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].PayoutNumber > out[j].PayoutNumber
	})
	return paginate(out, limit, offset), nil
}
