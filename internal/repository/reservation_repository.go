package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/powermilk/cinema-reservation/internal/model"
)

// ReservationRepo provides CRUD operations for the reservations
// table. A reservation row carries only its lifecycle state and
// timestamps; the seats it holds live in the reserved_seats table.
// created_at is written from Go rather than a column default so the
// expiry cutoff and the value the engine reasons about are the same
// clock. All timestamps are stored in UTC.
type ReservationRepo struct {
	q querier
}

// NewReservationRepo returns a ReservationRepo bound to the given
// querier.
func NewReservationRepo(q querier) *ReservationRepo { return &ReservationRepo{q: q} }

const reservationColumns = `id, screening_id, customer_id, state, created_at`

func scanReservation(row *sql.Row) (*model.Reservation, error) {
	var res model.Reservation
	err := row.Scan(&res.ID, &res.ScreeningID, &res.CustomerID, &res.State, &res.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	res.CreatedAt = res.CreatedAt.UTC()
	return &res, nil
}

// FindReservation returns the reservation with the given id, or
// (nil, nil) when no such reservation exists.
func (r *ReservationRepo) FindReservation(ctx context.Context, id uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	return scanReservation(r.q.QueryRowContext(ctx, q, id))
}

// FindReservationForUpdate is FindReservation with a locking read.
// Inside a transaction the row stays locked until commit, so a
// cancellation racing a payment confirmation serializes instead of
// losing an update.
func (r *ReservationRepo) FindReservationForUpdate(ctx context.Context, id uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ? FOR UPDATE`
	return scanReservation(r.q.QueryRowContext(ctx, q, id))
}

// FindReservationsByCustomer returns a customer's reservations newest
// first, including canceled ones.
func (r *ReservationRepo) FindReservationsByCustomer(ctx context.Context, customerID uint64) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + `
	           FROM reservations
	           WHERE customer_id = ?
	           ORDER BY created_at DESC, id DESC`
	return r.list(ctx, q, customerID)
}

// FindExpiredReservations returns reservations still RESERVED whose
// created_at lies before the cutoff. The rows are locked so the
// expiry sweep and a concurrent payment confirmation cannot both
// proceed on the same reservation.
func (r *ReservationRepo) FindExpiredReservations(ctx context.Context, cutoff time.Time) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + `
	           FROM reservations
	           WHERE state = 'RESERVED' AND created_at < ?
	           ORDER BY id
	           FOR UPDATE`
	return r.list(ctx, q, cutoff.UTC())
}

// SaveReservation inserts a new reservation row and assigns the
// generated id on the passed record.
func (r *ReservationRepo) SaveReservation(ctx context.Context, res *model.Reservation) error {
	const q = `INSERT INTO reservations (screening_id, customer_id, state, created_at) VALUES (?, ?, ?, ?)`
	result, err := r.q.ExecContext(ctx, q, res.ScreeningID, res.CustomerID, res.State, res.CreatedAt.UTC())
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	return nil
}

// UpdateReservation persists a state change. Only the state column is
// mutable after insert. The connection uses clientFoundRows, so an
// affected count of zero means the row is gone, not that the update
// happened to write the same state.
func (r *ReservationRepo) UpdateReservation(ctx context.Context, res *model.Reservation) error {
	const q = `UPDATE reservations SET state = ? WHERE id = ?`
	result, err := r.q.ExecContext(ctx, q, res.State, res.ID)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *ReservationRepo) list(ctx context.Context, query string, args ...any) ([]model.Reservation, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	reservations := make([]model.Reservation, 0)
	for rows.Next() {
		var res model.Reservation
		if err := rows.Scan(&res.ID, &res.ScreeningID, &res.CustomerID, &res.State, &res.CreatedAt); err != nil {
			return nil, err
		}
		res.CreatedAt = res.CreatedAt.UTC()
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}
