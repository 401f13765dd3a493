package service

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure kinds the engine can produce.
// Callers discriminate with errors.Is; the typed errors below carry
// the offending identifiers for errors.As.  Invalid state transitions
// are reported as model.ErrInvalidTransition wrapped with context.
var (
	// ErrNotFound matches every NotFoundError.
	ErrNotFound = errors.New("not found")

	// ErrSeatConflict matches every SeatConflictError.
	ErrSeatConflict = errors.New("seat conflict")

	// ErrExpired is returned when a payment confirmation arrives
	// after the reservation timeout has elapsed.
	ErrExpired = errors.New("reservation expired")

	// ErrNoSeats is returned when a reservation request carries an
	// empty seat selection.
	ErrNoSeats = errors.New("at least one seat must be selected")

	// ErrTooManySeats is returned when a single reservation request
	// exceeds MaxSeatsPerReservation.
	ErrTooManySeats = errors.New("too many seats in one reservation")

	// ErrInvalidTicketType is returned when a seat selection carries
	// an unknown ticket type.
	ErrInvalidTicketType = errors.New("invalid ticket type")
)

// MaxSeatsPerReservation caps the number of seats a single
// reservation may hold.
const MaxSeatsPerReservation = 20

// NotFoundError reports that an entity id did not resolve.
type NotFoundError struct {
	Entity string // "customer", "screening", "seat", "reservation", "movie", "hall"
	ID     uint64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %d", e.Entity, e.ID)
}

// Is makes errors.Is(err, ErrNotFound) succeed for any NotFoundError.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// SeatConflictError reports that a seat is already held by an active
// reservation for the requested screening.
type SeatConflictError struct {
	SeatID uint64
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("seat %d is already reserved for this screening", e.SeatID)
}

// Is makes errors.Is(err, ErrSeatConflict) succeed for any
// SeatConflictError.
func (e *SeatConflictError) Is(target error) bool { return target == ErrSeatConflict }
