package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/powermilk/cinema-reservation/internal/model"
)

// HallRepo provides read access to the halls table.
type HallRepo struct {
	q querier
}

// NewHallRepo returns a HallRepo bound to the given querier.
func NewHallRepo(q querier) *HallRepo { return &HallRepo{q: q} }

// FindHall returns the hall with the given id, or (nil, nil) when no
// such hall exists.
func (r *HallRepo) FindHall(ctx context.Context, id uint64) (*model.Hall, error) {
	const q = `SELECT id, name FROM halls WHERE id = ?`
	var h model.Hall
	err := r.q.QueryRowContext(ctx, q, id).Scan(&h.ID, &h.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}
