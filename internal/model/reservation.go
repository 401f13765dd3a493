package model

import (
	"errors"
	"time"
)

// ReservationState is the lifecycle state of a reservation.  The only
// legal transitions are RESERVED→PAID and RESERVED→CANCELED; PAID and
// CANCELED are terminal.
type ReservationState string

const (
	StateReserved ReservationState = "RESERVED" // initial state, seats held pending payment
	StatePaid     ReservationState = "PAID"     // payment confirmed, terminal
	StateCanceled ReservationState = "CANCELED" // canceled by user or expired, terminal
)

// ErrInvalidTransition is returned by Pay and Cancel when the requested
// transition is not defined by the lifecycle state machine.
var ErrInvalidTransition = errors.New("invalid reservation state transition")

// Valid reports whether s is one of the known lifecycle states.
func (s ReservationState) Valid() bool {
	switch s {
	case StateReserved, StatePaid, StateCanceled:
		return true
	}
	return false
}

// Terminal reports whether no transition is defined out of s.
func (s ReservationState) Terminal() bool {
	return s == StatePaid || s == StateCanceled
}

// Active reports whether a reservation in state s occupies its seats.
// CANCELED holds release their seats; RESERVED and PAID do not.
func (s ReservationState) Active() bool {
	return s == StateReserved || s == StatePaid
}

// Pay returns the state after a payment confirmation.  Only RESERVED
// may move to PAID.
func (s ReservationState) Pay() (ReservationState, error) {
	if s != StateReserved {
		return s, ErrInvalidTransition
	}
	return StatePaid, nil
}

// Cancel returns the state after a cancellation, whether user-driven
// or expiry-driven.  Only RESERVED may move to CANCELED.
func (s ReservationState) Cancel() (ReservationState, error) {
	if s != StateReserved {
		return s, ErrInvalidTransition
	}
	return StateCanceled, nil
}

// Reservation records a customer's hold on one or more seats for a
// screening.  It is created in state RESERVED with a server-assigned
// creation timestamp and changes only via the state transitions above.
// The seats themselves live in reserved_seats rows referencing this
// record.
//
// Fields:
//
//	ID          – primary key identifier.
//	ScreeningID – screening being reserved.
//	CustomerID  – customer who made the reservation.
//	State       – lifecycle state (RESERVED, PAID, CANCELED).
//	CreatedAt   – creation timestamp (UTC); expiry is measured from it.
type Reservation struct {
	ID          uint64           `json:"id"`           // reservations.id
	ScreeningID uint64           `json:"screening_id"` // reservations.screening_id
	CustomerID  uint64           `json:"customer_id"`  // reservations.customer_id
	State       ReservationState `json:"state"`        // reservations.state
	CreatedAt   time.Time        `json:"created_at"`   // reservations.created_at
}
