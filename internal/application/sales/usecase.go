package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/warenwelt-api/internal/application/dto"
	"github.com/jhoicas/warenwelt-api/internal/domain"
	"github.com/jhoicas/warenwelt-api/internal/domain/entity"
	"github.com/jhoicas/warenwelt-api/internal/domain/repository"
	"github.com/jhoicas/warenwelt-api/pkg/reference"
)

const maxNumberAttempts = 10

// UseCase registro de ventas de caja y bajas de productos.
type UseCase struct {
	txRunner TxRunner
	now      func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner TxRunner) *UseCase {
	return &UseCase{txRunner: txRunner, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// CreateSale registra la venta y marca cada producto como SOLD en la misma transacción.
// Los precios y comisiones quedan congelados en las líneas. El cambio IN_STOCK→SOLD es condicional,
// de modo que dos ventas simultáneas del mismo artículo no pueden confirmarse ambas.
func (uc *UseCase) CreateSale(ctx context.Context, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	method := entity.PaymentMethod(in.PaymentMethod)
	if !method.Valid() {
		return nil, fmt.Errorf("%w: payment_method %q", domain.ErrInvalidInput, in.PaymentMethod)
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: la venta debe tener al menos una línea", domain.ErrInvalidInput)
	}
	for _, it := range in.Items {
		if it.Quantity < 1 {
			return nil, fmt.Errorf("%w: cantidad inválida", domain.ErrInvalidInput)
		}
		if it.ProductID == "" && it.SKU == "" {
			return nil, fmt.Errorf("%w: cada línea necesita product_id o sku", domain.ErrInvalidInput)
		}
	}

	var sale *entity.Sale
	var err error
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		sale = &entity.Sale{
			ID:                uuid.New().String(),
			TransactionNumber: reference.Transaction(),
			UserID:            userID,
			PaymentMethod:     method,
			TotalAmount:       decimal.Zero,
			TransactionTime:   uc.now().UTC(),
		}
		err = uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
			return uc.fillAndStore(ctx, repos, sale, in.Items)
		})
		if domain.IsUniqueViolationOn(err, domain.FieldTransactionNumber) {
			continue
		}
		break
	}
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale), nil
}

func (uc *UseCase) fillAndStore(ctx context.Context, repos repository.Repositories, sale *entity.Sale, items []dto.CreateSaleItemRequest) error {
	seen := map[string]bool{}
	for _, in := range items {
		var p *entity.Product
		var err error
		if in.SKU != "" {
			p, err = repos.Products.GetBySKU(ctx, in.SKU)
		} else {
			p, err = repos.Products.GetByID(ctx, in.ProductID)
		}
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("%w: producto %s%s", domain.ErrNotFound, in.SKU, in.ProductID)
		}
		if seen[p.ID] {
			return fmt.Errorf("%w: el producto %s aparece varias veces en la venta", domain.ErrInvalidInput, p.SKU)
		}
		seen[p.ID] = true
		if p.Status != entity.ProductStatusInStock {
			return fmt.Errorf("%w: el producto %s no está en stock (estado %s)", domain.ErrPrecondition, p.SKU, p.Status)
		}

		qty := decimal.NewFromInt(int64(in.Quantity))
		item := &entity.SaleItem{
			ID:                     uuid.New().String(),
			SaleID:                 sale.ID,
			ProductID:              p.ID,
			Quantity:               in.Quantity,
			PriceAtSale:            p.SellingPrice,
			CommissionAmountAtSale: p.CommissionPerUnit().Mul(qty),
			Settlement:             entity.Unsettled(),
		}
		sale.Items = append(sale.Items, item)
		sale.TotalAmount = sale.TotalAmount.Add(item.LineTotal())
	}

	if err := repos.Sales.Create(ctx, sale); err != nil {
		return err
	}
	for _, it := range sale.Items {
		ok, err := repos.Products.MarkSold(ctx, it.ProductID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: el producto %s ya fue vendido", domain.ErrConflict, it.ProductID)
		}
	}
	return nil
}

// DeleteProduct elimina un producto que no haya sido vendido.
func (uc *UseCase) DeleteProduct(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		p, err := repos.Products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if p.Status == entity.ProductStatusSold {
			return fmt.Errorf("%w: no se puede eliminar un producto vendido", domain.ErrPrecondition)
		}
		return repos.Products.Delete(ctx, id)
	})
}

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:                s.ID,
		TransactionNumber: s.TransactionNumber,
		UserID:            s.UserID,
		PaymentMethod:     string(s.PaymentMethod),
		TotalAmount:       s.TotalAmount,
		TransactionTime:   s.TransactionTime.Format(time.RFC3339),
		Items:             make([]dto.SaleItemResponse, 0, len(s.Items)),
	}
	for _, it := range s.Items {
		resp.Items = append(resp.Items, dto.SaleItemResponse{
			ID:                     it.ID,
			ProductID:              it.ProductID,
			Quantity:               it.Quantity,
			PriceAtSale:            it.PriceAtSale,
			CommissionAmountAtSale: it.CommissionAmountAtSale,
		})
	}
	return resp
}
