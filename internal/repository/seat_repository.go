package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/powermilk/cinema-reservation/internal/model"
)

// SeatRepo provides read access to the seats table. Seats belong to a
// hall and are identified to customers by row label and seat number.
type SeatRepo struct {
	q querier
}

// NewSeatRepo returns a SeatRepo bound to the given querier.
func NewSeatRepo(q querier) *SeatRepo { return &SeatRepo{q: q} }

// FindSeat returns the seat with the given id, or (nil, nil) when no
// such seat exists.
func (r *SeatRepo) FindSeat(ctx context.Context, id uint64) (*model.Seat, error) {
	const q = `SELECT id, hall_id, row_label, seat_number FROM seats WHERE id = ?`
	var s model.Seat
	err := r.q.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.HallID, &s.RowLabel, &s.SeatNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// FindSeatsByHall returns all seats of a hall ordered by row and seat
// number so the seat map renders deterministically.
func (r *SeatRepo) FindSeatsByHall(ctx context.Context, hallID uint64) ([]model.Seat, error) {
	const q = `SELECT id, hall_id, row_label, seat_number
	           FROM seats
	           WHERE hall_id = ?
	           ORDER BY row_label, seat_number`
	rows, err := r.q.QueryContext(ctx, q, hallID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	seats := make([]model.Seat, 0)
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.HallID, &s.RowLabel, &s.SeatNumber); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	return seats, rows.Err()
}
