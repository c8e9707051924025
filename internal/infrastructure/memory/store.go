package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/warenwelt-api/internal/domain/entity"
	"github.com/jhoicas/warenwelt-api/internal/domain/repository"
)

// Store persistencia en memoria para desarrollo y pruebas (STORAGE_DRIVER=memory).
// Las transacciones trabajan sobre una copia del estado que se publica solo si fn termina sin error;
// el lock global serializa transacciones, lo que equivale a SELECT ... FOR UPDATE sobre todo el estado.
type Store struct {
	mu sync.Mutex
	st *state
}

type state struct {
	suppliers map[string]entity.Supplier
	products  map[string]entity.Product
	sales     map[string]entity.Sale // sin Items
	items     map[string]saleItemRow
	shelves   map[string]entity.Shelf
	contracts map[string]entity.RentalContract
	invoices  map[string]entity.RentalInvoice
	payouts   map[string]entity.Payout
	seq       int64 // orden de inserción de líneas
}

type saleItemRow struct {
	item entity.SaleItem
	seq  int64
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

func newState() *state {
	return &state{
		suppliers: map[string]entity.Supplier{},
		products:  map[string]entity.Product{},
		sales:     map[string]entity.Sale{},
		items:     map[string]saleItemRow{},
		shelves:   map[string]entity.Shelf{},
		contracts: map[string]entity.RentalContract{},
		invoices:  map[string]entity.RentalInvoice{},
		payouts:   map[string]entity.Payout{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.suppliers {
		c.suppliers[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.sales {
		c.sales[k] = v
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	for k, v := range s.shelves {
		c.shelves[k] = v
	}
	for k, v := range s.contracts {
		c.contracts[k] = v
	}
	for k, v := range s.invoices {
		c.invoices[k] = v
	}
	for k, v := range s.payouts {
		c.payouts[k] = v
	}
	c.seq = s.seq
	return c
}

// view acceso al estado con o sin lock (dentro de Run el lock ya está tomado).
type view struct {
	lock  sync.Locker
	state func() *state
}

type noLock struct{}

func (noLock) Lock()   {}
func (noLock) Unlock() {}

// Repositories devuelve repositorios fuera de transacción; cada llamada es atómica por sí sola.
// No deben usarse dentro de fn en Run.
func (s *Store) Repositories() repository.Repositories {
	return bind(&view{lock: &s.mu, state: func() *state { return s.st }})
}

// Run ejecuta fn con repositorios transaccionales. Si fn devuelve error no se publica ningún cambio.
func (s *Store) Run(ctx context.Context, fn func(repos repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	work := s.st.clone()
	if err := fn(bind(&view{lock: noLock{}, state: func() *state { return work }})); err != nil {
		return err
	}
	s.st = work
	return nil
}

func bind(v *view) repository.Repositories {
	return repository.Repositories{
		Suppliers: &supplierRepo{v},
		Products:  &productRepo{v},
		Sales:     &saleRepo{v},
		Shelves:   &shelfRepo{v},
		Contracts: &contractRepo{v},
		Invoices:  &invoiceRepo{v},
		Payouts:   &payoutRepo{v},
		Reports:   &reportRepo{v},
	}
}
