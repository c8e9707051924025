package rental_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warenwelt-api/internal/application/dto"
	"github.com/jhoicas/warenwelt-api/internal/application/rental"
	"github.com/jhoicas/warenwelt-api/internal/domain"
	"github.com/jhoicas/warenwelt-api/internal/domain/entity"
	"github.com/jhoicas/warenwelt-api/internal/domain/repository"
)

func contractReq(shelf, start, end, status string) dto.CreateRentalContractRequest {
	return dto.CreateRentalContractRequest{
		ShelfID: shelf, TenantSupplierID: "tenant-1",
		StartDate: start, EndDate: end,
		RentPriceAtSigning: decimal.NewFromInt(50),
		Status:             status,
	}
}

func TestContractUseCase_CreateActiveRentsShelf(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := rental.NewContractUseCase(f.store)

	c, err := uc.Create(ctx, contractReq("shelf-1", "2024-07-01", "2024-12-31", "ACTIVE"))
	require.NoError(t, err)
	assert.Regexp(t, `^RC-[0-9A-F]{8}$`, c.ContractNumber)

	shelf, err := f.repos.Shelves.GetByID(ctx, "shelf-1")
	require.NoError(t, err)
	assert.Equal(t, entity.ShelfStatusRented, shelf.Status)
}

func TestContractUseCase_RejectsOverlap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := rental.NewContractUseCase(f.store)

	_, err := uc.Create(ctx, contractReq("shelf-1", "2024-07-01", "2024-12-31", "ACTIVE"))
	require.NoError(t, err)

	_, err = uc.Create(ctx, contractReq("shelf-1", "2024-12-01", "2025-03-31", "PENDING"))
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = uc.Create(ctx, contractReq("shelf-1", "2025-01-01", "2025-03-31", "PENDING"))
	assert.NoError(t, err)
}

func TestContractUseCase_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := rental.NewContractUseCase(f.store)

	_, err := uc.Create(ctx, contractReq("shelf-1", "2024-07-01", "2024-07-01", ""))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, contractReq("nope", "2024-07-01", "2024-08-01", ""))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, f.repos.Shelves.UpdateStatus(ctx, "shelf-2", entity.ShelfStatusMaintenance))
	_, err = uc.Create(ctx, contractReq("shelf-2", "2024-07-01", "2024-08-01", ""))
	assert.ErrorIs(t, err, domain.ErrPrecondition)
}

func TestContractUseCase_TerminateFreesShelfAndAllowsDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := rental.NewContractUseCase(f.store)

	c, err := uc.Create(ctx, contractReq("shelf-1", "2024-07-01", "2024-12-31", "ACTIVE"))
	require.NoError(t, err)

	err = uc.DeleteShelf(ctx, "shelf-1")
	assert.ErrorIs(t, err, domain.ErrPrecondition)

	_, err = uc.UpdateStatus(ctx, c.ID, dto.UpdateContractStatusRequest{Status: "TERMINATED"})
	require.NoError(t, err)
	shelf, err := f.repos.Shelves.GetByID(ctx, "shelf-1")
	require.NoError(t, err)
	assert.Equal(t, entity.ShelfStatusAvailable, shelf.Status)

	require.NoError(t, uc.DeleteShelf(ctx, "shelf-1"))
	assert.ErrorIs(t, uc.DeleteShelf(ctx, "shelf-1"), domain.ErrNotFound)
}

// tracingTx anota el orden de las operaciones sobre estantes y contratos dentro de cada transacción.
type tracingTx struct {
	inner rental.TxRunner
	calls []string
}

func (tx *tracingTx) Run(ctx context.Context, fn func(repository.Repositories) error) error {
	return tx.inner.Run(ctx, func(repos repository.Repositories) error {
		repos.Shelves = tracedShelves{ShelfRepository: repos.Shelves, tx: tx}
		repos.Contracts = tracedContracts{RentalContractRepository: repos.Contracts, tx: tx}
		return fn(repos)
	})
}

type tracedShelves struct {
	repository.ShelfRepository
	tx *tracingTx
}

func (r tracedShelves) GetForUpdate(ctx context.Context, id string) (*entity.Shelf, error) {
	r.tx.calls = append(r.tx.calls, "lock:"+id)
	return r.ShelfRepository.GetForUpdate(ctx, id)
}

type tracedContracts struct {
	repository.RentalContractRepository
	tx *tracingTx
}

func (r tracedContracts) ListBillableByShelf(ctx context.Context, shelfID string) ([]*entity.RentalContract, error) {
	r.tx.calls = append(r.tx.calls, "overlap:"+shelfID)
	return r.RentalContractRepository.ListBillableByShelf(ctx, shelfID)
}

func (r tracedContracts) Create(ctx context.Context, c *entity.RentalContract) error {
	r.tx.calls = append(r.tx.calls, "insert:"+c.ShelfID)
	return r.RentalContractRepository.Create(ctx, c)
}

func TestContractUseCase_LocksShelfBeforeOverlapCheck(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tx := &tracingTx{inner: f.store}
	uc := rental.NewContractUseCase(tx)

	c, err := uc.Create(ctx, contractReq("shelf-1", "2024-07-01", "2024-12-31", "PENDING"))
	require.NoError(t, err)
	assert.Equal(t, []string{"lock:shelf-1", "overlap:shelf-1", "insert:shelf-1"}, tx.calls)

	tx.calls = nil
	_, err = uc.UpdateStatus(ctx, c.ID, dto.UpdateContractStatusRequest{Status: "TERMINATED"})
	require.NoError(t, err)
	tx.calls = nil
	_, err = uc.UpdateStatus(ctx, c.ID, dto.UpdateContractStatusRequest{Status: "ACTIVE"})
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(tx.calls), 2)
	assert.Equal(t, []string{"lock:shelf-1", "overlap:shelf-1"}, tx.calls[:2])

	tx.calls = nil
	assert.ErrorIs(t, uc.DeleteShelf(ctx, "shelf-1"), domain.ErrPrecondition)
	assert.Equal(t, "lock:shelf-1", tx.calls[0])
}
