package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/warenwelt-api/internal/domain"
	"github.com/jhoicas/warenwelt-api/internal/domain/entity"
	"github.com/jhoicas/warenwelt-api/internal/domain/repository"
)

type saleRepo struct{ v *view }

func (r *saleRepo) Create(_ context.Context, sale *entity.Sale) error {
	r.v.lock.Lock()
	defer r.v.lock.Unlock()
	st := r.v.state()
	for _, existing := range st.sales {
		if existing.TransactionNumber == sale.TransactionNumber {
			return &domain.UniqueViolationError{Field: domain.FieldTransactionNumber}
		}
	}
	header := *sale
	header.Items = nil
	st.sales[sale.ID] = header
	for _, it := range sale.Items {
		st.seq++
		row := *it
		row.SaleID = sale.ID
		st.items[it.ID] = saleItemRow{item: row, seq: st.seq}
	}
	return nil
}

func (r *saleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	r.v.lock.Lock()
	defer r.v.lock.Unlock()
	st := r.v.state()
	s, ok := st.sales[id]
	if !ok {
		return nil, nil
	}
	for _, row := range st.itemsOf(id) {
		it := row.item
		s.Items = append(s.Items, &it)
	}
	return &s, nil
}

// itemsOf líneas de una venta en orden de inserción.
func (s *state) itemsOf(saleID string) []saleItemRow {
	var rows []saleItemRow
	for _, row := range s.items {
		if row.item.SaleID == saleID {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
	return rows
}

// sortedItems todas las líneas por hora de venta y orden de inserción.
func (s *state) sortedItems() []saleItemRow {
	rows := make([]saleItemRow, 0, len(s.items))
	for _, row := range s.items {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		ti, tj := s.sales[rows[i].item.SaleID].TransactionTime, s.sales[rows[j].item.SaleID].TransactionTime
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return rows[i].seq < rows[j].seq
	})
	return rows
}

type reportRepo struct{ v *view }

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

func (r *reportRepo) ListSales(_ context.Context, from, to time.Time) ([]repository.SaleHeader, error) {
	r.v.lock.Lock()
	defer r.v.lock.Unlock()
	var out []repository.SaleHeader
	for _, s := range r.v.state().sales {
		if !inRange(s.TransactionTime, from, to) {
			continue
		}
		out = append(out, repository.SaleHeader{
			SaleID:            s.ID,
			TransactionNumber: s.TransactionNumber,
			PaymentMethod:     s.PaymentMethod,
			TotalAmount:       s.TotalAmount,
			TransactionTime:   s.TransactionTime,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TransactionTime.Equal(out[j].TransactionTime) {
			return out[i].TransactionTime.Before(out[j].TransactionTime)
		}
		return out[i].TransactionNumber < out[j].TransactionNumber
	})
	return out, nil
}

func (r *reportRepo) ListSaleLines(_ context.Context, from, to time.Time) ([]repository.SaleLine, error) {
	r.v.lock.Lock()
	defer r.v.lock.Unlock()
	st := r.v.state()
	var out []repository.SaleLine
	for _, row := range st.sortedItems() {
		sale := st.sales[row.item.SaleID]
		if !inRange(sale.TransactionTime, from, to) {
			continue
		}
		p := st.products[row.item.ProductID]
		line := repository.SaleLine{
			SaleItemID:             row.item.ID,
			SaleID:                 sale.ID,
			TransactionNumber:      sale.TransactionNumber,
			PaymentMethod:          sale.PaymentMethod,
			TransactionTime:        sale.TransactionTime,
			ProductID:              row.item.ProductID,
			ProductSKU:             p.SKU,
			ProductName:            p.Name,
			ProductType:            p.Type,
			PurchasePrice:          p.PurchasePrice,
			Quantity:               row.item.Quantity,
			PriceAtSale:            row.item.PriceAtSale,
			CommissionAmountAtSale: row.item.CommissionAmountAtSale,
		}
		if p.TaxRateID != "" {
			rate := p.TaxRate
			line.TaxRatePercent = &rate
		}
		out = append(out, line)
	}
	return out, nil
}
