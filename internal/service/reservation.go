package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/powermilk/cinema-reservation/internal/model"
)

// ReservationService is the reservation lifecycle engine.  It enforces
// seat-availability checks, the RESERVED→PAID / RESERVED→CANCELED
// state machine and timeout-based expiration.  The timeout is fixed at
// construction; it defines both how long a RESERVED hold remains
// payable and the cutoff used by the expiration sweep.
type ReservationService struct {
	store   Gateway
	timeout time.Duration
}

// NewReservationService constructs the engine.  The store must be
// non-nil and the timeout strictly positive.
func NewReservationService(store Gateway, timeout time.Duration) *ReservationService {
	if store == nil {
		panic("nil store passed to NewReservationService")
	}
	if timeout <= 0 {
		panic("reservation timeout must be positive")
	}
	return &ReservationService{store: store, timeout: timeout}
}

// Timeout returns the configured reservation timeout.
func (s *ReservationService) Timeout() time.Duration { return s.timeout }

// CreateReservation reserves the selected seats for a screening on
// behalf of a customer.  seats maps seat id to the ticket type bought
// for it.  The availability check and all inserts run in a single
// transaction: either the reservation and every seat link are
// persisted together, or nothing is.  Seat ids are checked in
// ascending order so the reported conflict is deterministic.
//
// Failure kinds: NotFoundError (customer, screening or seat),
// SeatConflictError, ErrNoSeats, ErrTooManySeats, ErrInvalidTicketType.
func (s *ReservationService) CreateReservation(ctx context.Context, customerID, screeningID uint64, seats map[uint64]model.TicketType) (*model.Reservation, error) {
	if len(seats) == 0 {
		return nil, ErrNoSeats
	}
	if len(seats) > MaxSeatsPerReservation {
		return nil, fmt.Errorf("%w: got %d, limit %d", ErrTooManySeats, len(seats), MaxSeatsPerReservation)
	}
	seatIDs := make([]uint64, 0, len(seats))
	for id, tt := range seats {
		if !tt.Valid() {
			return nil, fmt.Errorf("%w: %q for seat %d", ErrInvalidTicketType, tt, id)
		}
		seatIDs = append(seatIDs, id)
	}
	sort.Slice(seatIDs, func(i, j int) bool { return seatIDs[i] < seatIDs[j] })

	var res *model.Reservation
	err := s.store.InTx(ctx, func(tx Store) error {
		customer, err := tx.FindCustomer(ctx, customerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return &NotFoundError{Entity: "customer", ID: customerID}
		}
		screening, err := tx.FindScreening(ctx, screeningID)
		if err != nil {
			return err
		}
		if screening == nil {
			return &NotFoundError{Entity: "screening", ID: screeningID}
		}

		for _, seatID := range seatIDs {
			taken, err := tx.IsSeatTaken(ctx, seatID, screeningID)
			if err != nil {
				return err
			}
			if taken {
				return &SeatConflictError{SeatID: seatID}
			}
		}

		res = &model.Reservation{
			ScreeningID: screeningID,
			CustomerID:  customerID,
			State:       model.StateReserved,
			CreatedAt:   time.Now().UTC(),
		}
		if err := tx.SaveReservation(ctx, res); err != nil {
			return err
		}

		for _, seatID := range seatIDs {
			seat, err := tx.FindSeat(ctx, seatID)
			if err != nil {
				return err
			}
			if seat == nil {
				return &NotFoundError{Entity: "seat", ID: seatID}
			}
			rs := &model.ReservedSeat{
				ReservationID: res.ID,
				SeatID:        seat.ID,
				TicketType:    seats[seatID],
			}
			if err := tx.SaveReservedSeat(ctx, rs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("reservation: created id=%d customer=%d screening=%d seats=%d", res.ID, customerID, screeningID, len(seatIDs))
	return res, nil
}

// CancelReservation moves a RESERVED reservation to CANCELED.  A PAID
// reservation cannot be canceled and fails with an invalid-transition
// error; canceling an already-CANCELED reservation is an idempotent
// no-op.  All other fields are left unchanged.  The returned flag is
// true only when this call performed the transition, so callers can
// tell a real cancellation from a repeat of one.
func (s *ReservationService) CancelReservation(ctx context.Context, reservationID uint64) (bool, error) {
	changed := false
	err := s.store.InTx(ctx, func(tx Store) error {
		res, err := tx.FindReservationForUpdate(ctx, reservationID)
		if err != nil {
			return err
		}
		if res == nil {
			return &NotFoundError{Entity: "reservation", ID: reservationID}
		}
		if res.State == model.StateCanceled {
			log.Printf("reservation: cancel id=%d already canceled", reservationID)
			return nil
		}
		next, err := res.State.Cancel()
		if err != nil {
			return fmt.Errorf("cannot cancel a paid reservation: %w", err)
		}
		res.State = next
		if err := tx.UpdateReservation(ctx, res); err != nil {
			return err
		}
		changed = true
		log.Printf("reservation: canceled id=%d, seats released", reservationID)
		return nil
	})
	if err != nil {
		return false, err
	}
	return changed, nil
}

// ConfirmPayment moves a RESERVED reservation to PAID when the payment
// arrives within the timeout window.  An already-PAID reservation is
// an idempotent no-op; a CANCELED one fails with an invalid-transition
// error; a stale RESERVED one fails with ErrExpired and keeps its
// state so the sweep can reclaim it.  The returned flag is true only
// when this call performed the transition.
func (s *ReservationService) ConfirmPayment(ctx context.Context, reservationID uint64) (bool, error) {
	changed := false
	err := s.store.InTx(ctx, func(tx Store) error {
		res, err := tx.FindReservationForUpdate(ctx, reservationID)
		if err != nil {
			return err
		}
		if res == nil {
			return &NotFoundError{Entity: "reservation", ID: reservationID}
		}
		if res.State == model.StatePaid {
			log.Printf("reservation: payment id=%d already paid", reservationID)
			return nil
		}
		if res.State == model.StateCanceled {
			return fmt.Errorf("cannot confirm payment for a canceled reservation: %w", model.ErrInvalidTransition)
		}
		if elapsed := time.Now().UTC().Sub(res.CreatedAt); elapsed > s.timeout {
			return fmt.Errorf("%w: created at %s, timeout %d minutes", ErrExpired, res.CreatedAt.Format(time.RFC3339), int(s.timeout.Minutes()))
		}
		next, err := res.State.Pay()
		if err != nil {
			return err
		}
		res.State = next
		if err := tx.UpdateReservation(ctx, res); err != nil {
			return err
		}
		changed = true
		log.Printf("reservation: payment confirmed id=%d", reservationID)
		return nil
	})
	if err != nil {
		return false, err
	}
	return changed, nil
}

// GetAvailableSeats returns the seats of the screening's hall that are
// not held by any active reservation for that screening.  The result
// order follows the store's hall ordering.
func (s *ReservationService) GetAvailableSeats(ctx context.Context, screeningID uint64) ([]model.Seat, error) {
	screening, err := s.store.FindScreening(ctx, screeningID)
	if err != nil {
		return nil, err
	}
	if screening == nil {
		return nil, &NotFoundError{Entity: "screening", ID: screeningID}
	}
	allSeats, err := s.store.FindSeatsByHall(ctx, screening.HallID)
	if err != nil {
		return nil, err
	}
	reserved, err := s.store.FindReservedSeatsByScreening(ctx, screeningID)
	if err != nil {
		return nil, err
	}
	taken := make(map[uint64]struct{}, len(reserved))
	for _, rs := range reserved {
		taken[rs.SeatID] = struct{}{}
	}
	available := make([]model.Seat, 0, len(allSeats))
	for _, seat := range allSeats {
		if _, ok := taken[seat.ID]; !ok {
			available = append(available, seat)
		}
	}
	return available, nil
}

// ExpireOldReservations cancels every RESERVED reservation whose
// creation time lies before now minus the timeout and returns the
// canceled reservations.  It is safe to run repeatedly: reservations
// canceled by a previous run no longer match the state filter.  The
// whole sweep runs in one transaction.
func (s *ReservationService) ExpireOldReservations(ctx context.Context) ([]model.Reservation, error) {
	cutoff := time.Now().UTC().Add(-s.timeout)
	var expired []model.Reservation
	err := s.store.InTx(ctx, func(tx Store) error {
		var err error
		expired, err = tx.FindExpiredReservations(ctx, cutoff)
		if err != nil {
			return err
		}
		if len(expired) == 0 {
			return nil
		}
		for i := range expired {
			res := &expired[i]
			next, err := res.State.Cancel()
			if err != nil {
				return err
			}
			res.State = next
			if err := tx.UpdateReservation(ctx, res); err != nil {
				return err
			}
		}
		log.Printf("reservation: expired %d stale holds older than %s", len(expired), cutoff.Format(time.RFC3339))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return expired, nil
}
