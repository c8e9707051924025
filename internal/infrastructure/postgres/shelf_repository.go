package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/warenwelt-api/internal/domain"
	"github.com/jhoicas/warenwelt-api/internal/domain/entity"
	"github.com/jhoicas/warenwelt-api/internal/domain/repository"
)

var _ repository.ShelfRepository = (*ShelfRepo)(nil)

// ShelfRepo implementación de ShelfRepository.
type ShelfRepo struct {
	q Querier
}

// NewShelfRepository construye el adaptador. Pasar pool o tx (Querier).
func NewShelfRepository(q Querier) *ShelfRepo {
	return &ShelfRepo{q: q}
}

// Create inserta el estante. Nombre repetido → *domain.UniqueViolationError.
func (r *ShelfRepo) Create(ctx context.Context, s *entity.Shelf) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO shelves (id, name, location_description, size_description, monthly_rent_price, status, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.Name, s.LocationDescription, s.SizeDescription, s.MonthlyRentPrice, s.Status, s.IsActive,
	)
	if err != nil {
		if uv := asUniqueViolation(err); uv != nil {
			return uv
		}
		return fmt.Errorf("insert shelf: %w", err)
	}
	return nil
}

const shelfColumns = `id, name, location_description, size_description, monthly_rent_price, status, is_active`

func (r *ShelfRepo) getOne(ctx context.Context, query, id string) (*entity.Shelf, error) {
	var s entity.Shelf
	err := r.q.QueryRow(ctx, query, id).
		Scan(&s.ID, &s.Name, &s.LocationDescription, &s.SizeDescription, &s.MonthlyRentPrice, &s.Status, &s.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shelf: %w", err)
	}
	return &s, nil
}

// GetByID obtiene un estante por ID.
func (r *ShelfRepo) GetByID(ctx context.Context, id string) (*entity.Shelf, error) {
	return r.getOne(ctx, `SELECT `+shelfColumns+` FROM shelves WHERE id = $1`, id)
}

// GetForUpdate igual que GetByID con SELECT ... FOR UPDATE. Solo tiene efecto dentro de una transacción.
func (r *ShelfRepo) GetForUpdate(ctx context.Context, id string) (*entity.Shelf, error) {
	return r.getOne(ctx, `SELECT `+shelfColumns+` FROM shelves WHERE id = $1 FOR UPDATE`, id)
}

// UpdateStatus cambia el estado operativo.
func (r *ShelfRepo) UpdateStatus(ctx context.Context, id string, status entity.ShelfStatus) error {
	cmd, err := r.q.Exec(ctx, `UPDATE shelves SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update shelf status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el estante.
func (r *ShelfRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM shelves WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete shelf: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
