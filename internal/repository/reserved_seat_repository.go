package repository

import (
	"context"

	"github.com/powermilk/cinema-reservation/internal/model"
)

// ReservedSeatRepo provides access to the reserved_seats table, the
// join between reservations and the physical seats they hold. Seat
// occupancy is derived from this table filtered to reservations in an
// active state, so canceled holds free their seats without any row
// deletion.
type ReservedSeatRepo struct {
	q querier
}

// NewReservedSeatRepo returns a ReservedSeatRepo bound to the given
// querier.
func NewReservedSeatRepo(q querier) *ReservedSeatRepo { return &ReservedSeatRepo{q: q} }

// IsSeatTaken reports whether an active (RESERVED or PAID)
// reservation on the screening holds the seat. The locking read makes
// two concurrent creations of the same seat serialize inside their
// transactions instead of both passing the check.
func (r *ReservedSeatRepo) IsSeatTaken(ctx context.Context, seatID, screeningID uint64) (bool, error) {
	const q = `SELECT COUNT(*) > 0
	           FROM reserved_seats rs
	           JOIN reservations res ON res.id = rs.reservation_id
	           WHERE rs.seat_id = ? AND res.screening_id = ? AND res.state IN ('RESERVED', 'PAID')
	           FOR UPDATE`
	var taken bool
	if err := r.q.QueryRowContext(ctx, q, seatID, screeningID).Scan(&taken); err != nil {
		return false, err
	}
	return taken, nil
}

// FindReservedSeatsByScreening returns the seat links of all active
// reservations on the screening. Links of canceled reservations are
// excluded so the result reflects current occupancy.
func (r *ReservedSeatRepo) FindReservedSeatsByScreening(ctx context.Context, screeningID uint64) ([]model.ReservedSeat, error) {
	const q = `SELECT rs.id, rs.reservation_id, rs.seat_id, rs.ticket_type
	           FROM reserved_seats rs
	           JOIN reservations res ON res.id = rs.reservation_id
	           WHERE res.screening_id = ? AND res.state IN ('RESERVED', 'PAID')
	           ORDER BY rs.id`
	return r.list(ctx, q, screeningID)
}

// FindReservedSeatsByReservation returns all seat links of one
// reservation regardless of its state.
func (r *ReservedSeatRepo) FindReservedSeatsByReservation(ctx context.Context, reservationID uint64) ([]model.ReservedSeat, error) {
	const q = `SELECT id, reservation_id, seat_id, ticket_type
	           FROM reserved_seats
	           WHERE reservation_id = ?
	           ORDER BY id`
	return r.list(ctx, q, reservationID)
}

// SaveReservedSeat inserts one seat link and assigns the generated id
// on the passed record. The unique key on (reservation_id, seat_id)
// rejects duplicate seats within one reservation.
func (r *ReservedSeatRepo) SaveReservedSeat(ctx context.Context, rs *model.ReservedSeat) error {
	const q = `INSERT INTO reserved_seats (reservation_id, seat_id, ticket_type) VALUES (?, ?, ?)`
	result, err := r.q.ExecContext(ctx, q, rs.ReservationID, rs.SeatID, rs.TicketType)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	rs.ID = uint64(id)
	return nil
}

func (r *ReservedSeatRepo) list(ctx context.Context, query string, args ...any) ([]model.ReservedSeat, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	links := make([]model.ReservedSeat, 0)
	for rows.Next() {
		var rs model.ReservedSeat
		if err := rows.Scan(&rs.ID, &rs.ReservationID, &rs.SeatID, &rs.TicketType); err != nil {
			return nil, err
		}
		links = append(links, rs)
	}
	return links, rows.Err()
}
