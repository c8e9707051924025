package memory

import (
	"context"

	"github.com/jhoicas/warenwelt-api/internal/domain"
	"github.com/jhoicas/warenwelt-api/internal/domain/entity"
)

type supplierRepo struct{ v *view }

func (r *supplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	r.v.lock.Lock()
	defer r.v.lock.Unlock()
	st := r.v.state()
	for _, existing := range st.suppliers {
		if existing.SupplierNumber == s.SupplierNumber {
			return &domain.UniqueViolationError{Field: domain.FieldSupplierNumber}
		}
	}
	st.suppliers[s.ID] = *s
	return nil
}

func (r *supplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	r.v.lock.Lock()
	defer r.v.lock.Unlock()
	s, ok := r.v.state().suppliers[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

type productRepo struct{ v *view }

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	r.v.lock.Lock()
	defer r.v.lock.Unlock()
	st := r.v.state()
	for _, existing := range st.products {
		if existing.SKU == p.SKU {
			return &domain.UniqueViolationError{Field: domain.FieldSKU}
		}
	}
	st.products[p.ID] = *p
	return nil
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.v.lock.Lock()
	defer r.v.lock.Unlock()
	p, ok := r.v.state().products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *productRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	r.v.lock.Lock()
	defer r.v.lock.Unlock()
	for _, p := range r.v.state().products {
		if p.SKU == sku {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *productRepo) MarkSold(_ context.Context, id string) (bool, error) {
	r.v.lock.Lock()
	defer r.v.lock.Unlock()
	st := r.v.state()
	p, ok := st.products[id]
	if !ok || p.Status != entity.ProductStatusInStock {
		return false, nil
	}
	p.Status = entity.ProductStatusSold
	st.products[id] = p
	return true, nil
}

func (r *productRepo) Delete(_ context.Context, id string) error {
	r.v.lock.Lock()
	defer r.v.lock.Unlock()
	st := r.v.state()
	if _, ok := st.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(st.products, id)
	return nil
}

type shelfRepo struct{ v *view }

func (r *shelfRepo) Create(_ context.Context, s *entity.Shelf) error {
	r.v.lock.Lock()
	defer r.v.lock.Unlock()
	st := r.v.state()
	for _, existing := range st.shelves {
		if existing.Name == s.Name {
			return &domain.UniqueViolationError{Field: domain.FieldShelfName}
		}
	}
	st.shelves[s.ID] = *s
	return nil
}

func (r *shelfRepo) GetByID(_ context.Context, id string) (*entity.Shelf, error) {
	r.v.lock.Lock()
	defer r.v.lock.Unlock()
	s, ok := r.v.state().shelves[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

// GetForUpdate: Run ya serializa las transacciones del Store, no hace falta bloquear la fila.
func (r *shelfRepo) GetForUpdate(ctx context.Context, id string) (*entity.Shelf, error) {
	return r.GetByID(ctx, id)
}

func (r *shelfRepo) UpdateStatus(_ context.Context, id string, status entity.ShelfStatus) error {
	r.v.lock.Lock()
	defer r.v.lock.Unlock()
	st := r.v.state()
	s, ok := st.shelves[id]
	if !ok {
		return domain.ErrNotFound
	}
	s.Status = status
	st.shelves[id] = s
	return nil
}

func (r *shelfRepo) Delete(_ context.Context, id string) error {
	r.v.lock.Lock()
	defer r.v.lock.Unlock()
	st := r.v.state()
	if _, ok := st.shelves[id]; !ok {
		return domain.ErrNotFound
	}
	delete(st.shelves, id)
	return nil
}
