// Package service implements the reservation lifecycle engine: the
// rules governing when a reservation may be created, transitioned or
// expired, and the seat-conflict check that prevents double-booking.
// All durable state lives behind the Store contract; the engine itself
// is stateless between calls and safe to run in multiple instances
// that coordinate only through the store's transactions.
package service

import (
	"context"
	"time"

	"github.com/powermilk/cinema-reservation/internal/model"
)

// Store is the persistence gateway contract consumed by the services
// in this package.  Lookup methods return (nil, nil) when no row
// matches; the services translate absence into NotFoundError so that
// error semantics stay in one place.  Implementations must keep all
// timestamps in UTC.
type Store interface {
	// Reference data lookups.
	FindCustomer(ctx context.Context, id uint64) (*model.Customer, error)
	FindMovie(ctx context.Context, id uint64) (*model.Movie, error)
	FindAllMovies(ctx context.Context) ([]model.Movie, error)
	FindHall(ctx context.Context, id uint64) (*model.Hall, error)
	FindSeat(ctx context.Context, id uint64) (*model.Seat, error)
	FindSeatsByHall(ctx context.Context, hallID uint64) ([]model.Seat, error)
	FindScreening(ctx context.Context, id uint64) (*model.Screening, error)
	FindAllScreenings(ctx context.Context) ([]model.Screening, error)
	FindScreeningsByMovie(ctx context.Context, movieID uint64) ([]model.Screening, error)

	// Seat occupancy.  A seat is taken when an ACTIVE (RESERVED or
	// PAID) reservation on the screening holds it; canceled holds
	// free their seats.  Inside a transaction IsSeatTaken must use a
	// locking read so two concurrent creations cannot both pass.
	IsSeatTaken(ctx context.Context, seatID, screeningID uint64) (bool, error)
	FindReservedSeatsByScreening(ctx context.Context, screeningID uint64) ([]model.ReservedSeat, error)
	FindReservedSeatsByReservation(ctx context.Context, reservationID uint64) ([]model.ReservedSeat, error)

	// Reservation persistence.  SaveReservation assigns the id on the
	// passed record.  FindReservationForUpdate locks the row for the
	// duration of the enclosing transaction so that a cancellation
	// racing a payment confirmation cannot lose an update.
	FindReservation(ctx context.Context, id uint64) (*model.Reservation, error)
	FindReservationForUpdate(ctx context.Context, id uint64) (*model.Reservation, error)
	FindReservationsByCustomer(ctx context.Context, customerID uint64) ([]model.Reservation, error)
	FindExpiredReservations(ctx context.Context, cutoff time.Time) ([]model.Reservation, error)
	SaveReservation(ctx context.Context, r *model.Reservation) error
	UpdateReservation(ctx context.Context, r *model.Reservation) error
	SaveReservedSeat(ctx context.Context, rs *model.ReservedSeat) error

	// Aggregate counts backing the statistics endpoint.
	CountReservationsByState(ctx context.Context) (map[model.ReservationState]int64, error)
	CountScreenings(ctx context.Context) (int64, error)
	CountSeats(ctx context.Context) (int64, error)
	CountReservedSeats(ctx context.Context) (int64, error)
}

// Gateway extends Store with a transactional boundary.  InTx runs fn
// against a transaction-scoped Store and commits when fn returns nil;
// any error from fn rolls the transaction back and is returned
// unchanged.  Every engine operation that writes runs inside InTx so
// that no partial state survives a failure.
type Gateway interface {
	Store
	InTx(ctx context.Context, fn func(Store) error) error
}
