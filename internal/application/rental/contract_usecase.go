package rental

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/warenwelt-api/internal/application/dto"
	"github.com/jhoicas/warenwelt-api/internal/domain"
	"github.com/jhoicas/warenwelt-api/internal/domain/entity"
	"github.com/jhoicas/warenwelt-api/internal/domain/rental"
	"github.com/jhoicas/warenwelt-api/internal/domain/repository"
	"github.com/jhoicas/warenwelt-api/pkg/reference"
)

// ContractUseCase ciclo de vida de contratos de alquiler y su efecto sobre el estado del estante.
type ContractUseCase struct {
	txRunner TxRunner
}

// NewContractUseCase construye el caso de uso.
func NewContractUseCase(txRunner TxRunner) *ContractUseCase {
	return &ContractUseCase{txRunner: txRunner}
}

// Create registra un contrato. El estante debe existir, estar activo y no en mantenimiento, y no
// puede tener otro contrato ACTIVE/PENDING que se cruce con [start_date, end_date].
// Un contrato ACTIVE marca el estante como RENTED.
func (uc *ContractUseCase) Create(ctx context.Context, in dto.CreateRentalContractRequest) (*dto.RentalContractResponse, error) {
	if in.ShelfID == "" || in.TenantSupplierID == "" {
		return nil, fmt.Errorf("%w: shelf_id y tenant_supplier_id requeridos", domain.ErrInvalidInput)
	}
	start, err := rental.ParseDate(in.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: start_date", domain.ErrInvalidInput)
	}
	end, err := rental.ParseDate(in.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: end_date", domain.ErrInvalidInput)
	}
	if !end.After(start) {
		return nil, fmt.Errorf("%w: end_date debe ser posterior a start_date", domain.ErrInvalidInput)
	}
	if !in.RentPriceAtSigning.IsPositive() {
		return nil, fmt.Errorf("%w: rent_price_at_signing debe ser mayor que cero", domain.ErrInvalidInput)
	}
	status := entity.ContractStatusPending
	if in.Status != "" {
		status = entity.ContractStatus(in.Status)
	}
	if !status.Billable() {
		return nil, fmt.Errorf("%w: un contrato nuevo debe ser PENDING o ACTIVE", domain.ErrInvalidInput)
	}

	contract := &entity.RentalContract{
		ID:                 uuid.New().String(),
		ContractNumber:     in.ContractNumber,
		ShelfID:            in.ShelfID,
		TenantSupplierID:   in.TenantSupplierID,
		StartDate:          start,
		EndDate:            end,
		RentPriceAtSigning: in.RentPriceAtSigning,
		PaymentTerms:       in.PaymentTerms,
		Status:             status,
	}
	generated := contract.ContractNumber == ""
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		if generated {
			contract.ContractNumber = reference.Contract()
		}
		err = uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
			if err := checkShelfRentable(ctx, repos, contract.ShelfID); err != nil {
				return err
			}
			tenant, err := repos.Suppliers.GetByID(ctx, contract.TenantSupplierID)
			if err != nil {
				return err
			}
			if tenant == nil {
				return fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, contract.TenantSupplierID)
			}
			if err := checkNoOverlap(ctx, repos, contract); err != nil {
				return err
			}
			if err := repos.Contracts.Create(ctx, contract); err != nil {
				return err
			}
			if contract.Status == entity.ContractStatusActive {
				return repos.Shelves.UpdateStatus(ctx, contract.ShelfID, entity.ShelfStatusRented)
			}
			return nil
		})
		if generated && domain.IsUniqueViolationOn(err, domain.FieldContractNumber) {
			continue
		}
		break
	}
	if err != nil {
		return nil, err
	}
	return toContractResponse(contract), nil
}

// UpdateStatus cambia el estado del contrato. TERMINATED/EXPIRED libera el estante si no queda otro
// contrato vigente; reactivar un contrato vuelve a comprobar solapamientos.
func (uc *ContractUseCase) UpdateStatus(ctx context.Context, id string, in dto.UpdateContractStatusRequest) (*dto.RentalContractResponse, error) {
	next := entity.ContractStatus(in.Status)
	if !next.Valid() {
		return nil, fmt.Errorf("%w: status %q", domain.ErrInvalidInput, in.Status)
	}
	var out *entity.RentalContract
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		c, err := repos.Contracts.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrNotFound
		}
		prev := c.Status
		c.Status = next
		out = c
		if prev == next {
			return nil
		}
		if next.Billable() && !prev.Billable() {
			if err := checkShelfRentable(ctx, repos, c.ShelfID); err != nil {
				return err
			}
			if err := checkNoOverlap(ctx, repos, c); err != nil {
				return err
			}
		}
		if err := repos.Contracts.UpdateStatus(ctx, c.ID, next); err != nil {
			return err
		}
		switch next {
		case entity.ContractStatusActive:
			return repos.Shelves.UpdateStatus(ctx, c.ShelfID, entity.ShelfStatusRented)
		case entity.ContractStatusTerminated, entity.ContractStatusExpired:
			return releaseShelf(ctx, repos, c.ShelfID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toContractResponse(out), nil
}

// DeleteShelf elimina un estante sin contratos ACTIVE/PENDING.
func (uc *ContractUseCase) DeleteShelf(ctx context.Context, shelfID string) error {
	return uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		shelf, err := repos.Shelves.GetForUpdate(ctx, shelfID)
		if err != nil {
			return err
		}
		if shelf == nil {
			return domain.ErrNotFound
		}
		active, err := repos.Contracts.ListBillableByShelf(ctx, shelfID)
		if err != nil {
			return err
		}
		if len(active) > 0 {
			return fmt.Errorf("%w: el estante tiene %d contrato(s) vigente(s)", domain.ErrPrecondition, len(active))
		}
		return repos.Shelves.Delete(ctx, shelfID)
	})
}

// checkShelfRentable bloquea la fila del estante antes de mirar sus contratos, así dos altas
// concurrentes sobre el mismo estante no pueden ver ambas "sin solapamiento".
func checkShelfRentable(ctx context.Context, repos repository.Repositories, shelfID string) error {
	shelf, err := repos.Shelves.GetForUpdate(ctx, shelfID)
	if err != nil {
		return err
	}
	if shelf == nil {
		return fmt.Errorf("%w: estante %s", domain.ErrNotFound, shelfID)
	}
	if !shelf.IsActive {
		return fmt.Errorf("%w: el estante %s no está activo", domain.ErrPrecondition, shelf.Name)
	}
	if shelf.Status == entity.ShelfStatusMaintenance {
		return fmt.Errorf("%w: el estante %s está en mantenimiento", domain.ErrPrecondition, shelf.Name)
	}
	return nil
}

func checkNoOverlap(ctx context.Context, repos repository.Repositories, c *entity.RentalContract) error {
	others, err := repos.Contracts.ListBillableByShelf(ctx, c.ShelfID)
	if err != nil {
		return err
	}
	for _, o := range others {
		if o.ID != c.ID && o.Overlaps(c.StartDate, c.EndDate) {
			return fmt.Errorf("%w: el estante ya está alquilado en ese período (contrato %s)", domain.ErrConflict, o.ContractNumber)
		}
	}
	return nil
}

// releaseShelf deja el estante AVAILABLE si ya no tiene contratos ACTIVE (PENDING no lo ocupa).
func releaseShelf(ctx context.Context, repos repository.Repositories, shelfID string) error {
	shelf, err := repos.Shelves.GetByID(ctx, shelfID)
	if err != nil || shelf == nil || shelf.Status != entity.ShelfStatusRented {
		return err
	}
	others, err := repos.Contracts.ListBillableByShelf(ctx, shelfID)
	if err != nil {
		return err
	}
	for _, o := range others {
		if o.Status == entity.ContractStatusActive {
			return nil
		}
	}
	return repos.Shelves.UpdateStatus(ctx, shelfID, entity.ShelfStatusAvailable)
}

func toContractResponse(c *entity.RentalContract) *dto.RentalContractResponse {
	return &dto.RentalContractResponse{
		ID:                 c.ID,
		ContractNumber:     c.ContractNumber,
		ShelfID:            c.ShelfID,
		TenantSupplierID:   c.TenantSupplierID,
		StartDate:          c.StartDate.Format(dateLayout),
		EndDate:            c.EndDate.Format(dateLayout),
		RentPriceAtSigning: c.RentPriceAtSigning,
		PaymentTerms:       c.PaymentTerms,
		Status:             string(c.Status),
	}
}
