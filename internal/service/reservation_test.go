package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/powermilk/cinema-reservation/internal/model"
)

const testTimeout = 15 * time.Minute

// fixture seeds one customer, one movie, one hall with seats A1/A2 and
// one screening, mirroring the canonical booking scenario.
type fixture struct {
	store     *fakeStore
	engine    *ReservationService
	customer  model.Customer
	movie     model.Movie
	hall      model.Hall
	seatA1    model.Seat
	seatA2    model.Seat
	screening model.Screening
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newFakeStore()
	customer := store.addCustomer("c1@example.com", "C1")
	movie := store.addMovie("The Matrix", 136)
	hall := store.addHall("Hall 1")
	seatA1 := store.addSeat(hall.ID, "A", 1)
	seatA2 := store.addSeat(hall.ID, "A", 2)
	screening := store.addScreening(movie.ID, hall.ID, time.Now().UTC().Add(2*time.Hour))
	return &fixture{
		store:     store,
		engine:    NewReservationService(store, testTimeout),
		customer:  customer,
		movie:     movie,
		hall:      hall,
		seatA1:    seatA1,
		seatA2:    seatA2,
		screening: screening,
	}
}

func (f *fixture) reserve(t *testing.T, seats map[uint64]model.TicketType) *model.Reservation {
	t.Helper()
	res, err := f.engine.CreateReservation(context.Background(), f.customer.ID, f.screening.ID, seats)
	require.NoError(t, err)
	return res
}

func (f *fixture) pay(t *testing.T, reservationID uint64) {
	t.Helper()
	changed, err := f.engine.ConfirmPayment(context.Background(), reservationID)
	require.NoError(t, err)
	require.True(t, changed)
}

func (f *fixture) cancel(t *testing.T, reservationID uint64) {
	t.Helper()
	changed, err := f.engine.CancelReservation(context.Background(), reservationID)
	require.NoError(t, err)
	require.True(t, changed)
}

func TestCreateReservation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res := f.reserve(t, map[uint64]model.TicketType{f.seatA1.ID: model.TicketStandard})

	assert.NotZero(t, res.ID)
	assert.Equal(t, model.StateReserved, res.State)
	assert.Equal(t, f.customer.ID, res.CustomerID)
	assert.Equal(t, f.screening.ID, res.ScreeningID)
	assert.WithinDuration(t, time.Now().UTC(), res.CreatedAt, 5*time.Second)

	links, err := f.store.FindReservedSeatsByReservation(ctx, res.ID)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, f.seatA1.ID, links[0].SeatID)
	assert.Equal(t, model.TicketStandard, links[0].TicketType)
}

func TestCreateReservationSeatConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.reserve(t, map[uint64]model.TicketType{f.seatA1.ID: model.TicketStandard})

	// Same seat again, plus a free one: the whole request must fail
	// and leave no partial seat links behind.
	_, err := f.engine.CreateReservation(ctx, f.customer.ID, f.screening.ID, map[uint64]model.TicketType{
		f.seatA1.ID: model.TicketStandard,
		f.seatA2.ID: model.TicketChildDiscount,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSeatConflict)

	var conflict *SeatConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, f.seatA1.ID, conflict.SeatID)

	// A2 must still be free.
	taken, err := f.store.IsSeatTaken(ctx, f.seatA2.ID, f.screening.ID)
	require.NoError(t, err)
	assert.False(t, taken)
	assert.Len(t, f.store.reservations, 1)
}

func TestCreateReservationNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seats := map[uint64]model.TicketType{f.seatA1.ID: model.TicketStandard}

	_, err := f.engine.CreateReservation(ctx, 9999, f.screening.ID, seats)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.engine.CreateReservation(ctx, f.customer.ID, 9999, seats)
	assert.ErrorIs(t, err, ErrNotFound)

	// Unknown seat id fails after the reservation insert; the
	// transaction rollback must discard the reservation too.
	_, err = f.engine.CreateReservation(ctx, f.customer.ID, f.screening.ID, map[uint64]model.TicketType{9999: model.TicketStandard})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, f.store.reservations)
	assert.Empty(t, f.store.reservedSeats)
}

func TestCreateReservationValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.CreateReservation(ctx, f.customer.ID, f.screening.ID, nil)
	assert.ErrorIs(t, err, ErrNoSeats)

	tooMany := make(map[uint64]model.TicketType, MaxSeatsPerReservation+1)
	for i := 0; i <= MaxSeatsPerReservation; i++ {
		tooMany[uint64(1000+i)] = model.TicketStandard
	}
	_, err = f.engine.CreateReservation(ctx, f.customer.ID, f.screening.ID, tooMany)
	assert.ErrorIs(t, err, ErrTooManySeats)

	_, err = f.engine.CreateReservation(ctx, f.customer.ID, f.screening.ID, map[uint64]model.TicketType{f.seatA1.ID: "VIP"})
	assert.ErrorIs(t, err, ErrInvalidTicketType)
}

func TestCancelReservation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res := f.reserve(t, map[uint64]model.TicketType{f.seatA1.ID: model.TicketStandard})

	changed, err := f.engine.CancelReservation(ctx, res.ID)
	require.NoError(t, err)
	assert.True(t, changed)
	got := f.store.reservation(res.ID)
	assert.Equal(t, model.StateCanceled, got.State)
	assert.Equal(t, res.CreatedAt, got.CreatedAt)
	assert.Equal(t, res.CustomerID, got.CustomerID)

	// Idempotent on an already canceled reservation, and reported as
	// a no-op so callers do not announce it twice.
	changed, err = f.engine.CancelReservation(ctx, res.ID)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, model.StateCanceled, f.store.reservation(res.ID).State)

	_, err = f.engine.CancelReservation(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancelPaidReservation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res := f.reserve(t, map[uint64]model.TicketType{f.seatA1.ID: model.TicketStandard})
	f.pay(t, res.ID)

	_, err := f.engine.CancelReservation(ctx, res.ID)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
	assert.Equal(t, model.StatePaid, f.store.reservation(res.ID).State)
}

func TestCancelFreesSeat(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res := f.reserve(t, map[uint64]model.TicketType{f.seatA1.ID: model.TicketStandard})
	f.cancel(t, res.ID)

	taken, err := f.store.IsSeatTaken(ctx, f.seatA1.ID, f.screening.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	// The seat can be booked again after the cancellation.
	res2, err := f.engine.CreateReservation(ctx, f.customer.ID, f.screening.ID, map[uint64]model.TicketType{f.seatA1.ID: model.TicketSeniorDiscount})
	require.NoError(t, err)
	assert.Equal(t, model.StateReserved, res2.State)
}

func TestConfirmPayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res := f.reserve(t, map[uint64]model.TicketType{f.seatA1.ID: model.TicketStandard})

	changed, err := f.engine.ConfirmPayment(ctx, res.ID)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, model.StatePaid, f.store.reservation(res.ID).State)

	// Paying an already paid reservation is a no-op and is reported
	// as one.
	changed, err = f.engine.ConfirmPayment(ctx, res.ID)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, model.StatePaid, f.store.reservation(res.ID).State)

	_, err = f.engine.ConfirmPayment(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConfirmPaymentExpired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res := f.reserve(t, map[uint64]model.TicketType{f.seatA1.ID: model.TicketStandard})
	f.store.setCreatedAt(res.ID, time.Now().UTC().Add(-20*time.Minute))

	_, err := f.engine.ConfirmPayment(ctx, res.ID)
	assert.ErrorIs(t, err, ErrExpired)
	assert.Equal(t, model.StateReserved, f.store.reservation(res.ID).State)
}

func TestConfirmPaymentCanceled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res := f.reserve(t, map[uint64]model.TicketType{f.seatA1.ID: model.TicketStandard})
	f.cancel(t, res.ID)

	_, err := f.engine.ConfirmPayment(ctx, res.ID)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
	assert.Equal(t, model.StateCanceled, f.store.reservation(res.ID).State)
}

func TestGetAvailableSeats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	seats, err := f.engine.GetAvailableSeats(ctx, f.screening.ID)
	require.NoError(t, err)
	assert.Len(t, seats, 2)

	res := f.reserve(t, map[uint64]model.TicketType{f.seatA1.ID: model.TicketStandard})

	seats, err = f.engine.GetAvailableSeats(ctx, f.screening.ID)
	require.NoError(t, err)
	require.Len(t, seats, 1)
	assert.Equal(t, f.seatA2.ID, seats[0].ID)

	// Canceled holds free the seat again.
	f.cancel(t, res.ID)
	seats, err = f.engine.GetAvailableSeats(ctx, f.screening.ID)
	require.NoError(t, err)
	assert.Len(t, seats, 2)

	_, err = f.engine.GetAvailableSeats(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExpireOldReservations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	stale := f.reserve(t, map[uint64]model.TicketType{f.seatA1.ID: model.TicketStandard})
	fresh := f.reserve(t, map[uint64]model.TicketType{f.seatA2.ID: model.TicketStandard})
	f.store.setCreatedAt(stale.ID, time.Now().UTC().Add(-20*time.Minute))

	expired, err := f.engine.ExpireOldReservations(ctx)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, stale.ID, expired[0].ID)
	assert.Equal(t, model.StateCanceled, expired[0].State)
	assert.Equal(t, model.StateCanceled, f.store.reservation(stale.ID).State)
	assert.Equal(t, model.StateReserved, f.store.reservation(fresh.ID).State)

	// Second immediate run is a no-op.
	expired, err = f.engine.ExpireOldReservations(ctx)
	require.NoError(t, err)
	assert.Empty(t, expired)
	assert.Equal(t, model.StateCanceled, f.store.reservation(stale.ID).State)
	assert.Equal(t, model.StateReserved, f.store.reservation(fresh.ID).State)
}

func TestExpireSkipsPaidReservations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res := f.reserve(t, map[uint64]model.TicketType{f.seatA1.ID: model.TicketStandard})
	f.pay(t, res.ID)
	f.store.setCreatedAt(res.ID, time.Now().UTC().Add(-2*time.Hour))

	expired, err := f.engine.ExpireOldReservations(ctx)
	require.NoError(t, err)
	assert.Empty(t, expired)
	assert.Equal(t, model.StatePaid, f.store.reservation(res.ID).State)
}

// TestBookingLifecycle walks the canonical scenario: reserve A1,
// conflicting second request, availability check, payment within the
// window, then a rejected cancellation of the paid reservation.
func TestBookingLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res := f.reserve(t, map[uint64]model.TicketType{f.seatA1.ID: model.TicketStandard})
	assert.Equal(t, model.StateReserved, res.State)

	_, err := f.engine.CreateReservation(ctx, f.customer.ID, f.screening.ID, map[uint64]model.TicketType{f.seatA1.ID: model.TicketStandard})
	assert.ErrorIs(t, err, ErrSeatConflict)

	seats, err := f.engine.GetAvailableSeats(ctx, f.screening.ID)
	require.NoError(t, err)
	require.Len(t, seats, 1)
	assert.Equal(t, f.seatA2.ID, seats[0].ID)

	f.pay(t, res.ID)
	assert.Equal(t, model.StatePaid, f.store.reservation(res.ID).State)

	_, err = f.engine.CancelReservation(ctx, res.ID)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
}

// TestAbandonedHold walks the expiry path: a hold created 20 minutes
// ago with a 15 minute timeout rejects payment, then the sweep
// reclaims it.
func TestAbandonedHold(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res := f.reserve(t, map[uint64]model.TicketType{f.seatA1.ID: model.TicketStandard})
	f.store.setCreatedAt(res.ID, time.Now().UTC().Add(-20*time.Minute))

	_, err := f.engine.ConfirmPayment(ctx, res.ID)
	assert.ErrorIs(t, err, ErrExpired)

	expired, err := f.engine.ExpireOldReservations(ctx)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, model.StateCanceled, f.store.reservation(res.ID).State)

	seats, err := f.engine.GetAvailableSeats(ctx, f.screening.ID)
	require.NoError(t, err)
	assert.Len(t, seats, 2)
}

func TestNewReservationServicePanics(t *testing.T) {
	assert.Panics(t, func() { NewReservationService(nil, testTimeout) })
	assert.Panics(t, func() { NewReservationService(newFakeStore(), 0) })
}

func TestGetReservationDetails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res := f.reserve(t, map[uint64]model.TicketType{
		f.seatA1.ID: model.TicketStandard,
		f.seatA2.ID: model.TicketChildDiscount,
	})

	d, err := f.engine.GetReservationDetails(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, res.ID, d.ID)
	assert.Equal(t, "The Matrix", d.MovieTitle)
	assert.Equal(t, "Hall 1", d.HallName)
	assert.Equal(t, "C1", d.CustomerName)
	assert.Equal(t, "c1@example.com", d.CustomerEmail)
	assert.Equal(t, model.StateReserved, d.State)
	assert.Len(t, d.Seats, 2)
	require.NotNil(t, d.ExpiresAt)
	assert.Equal(t, res.CreatedAt.Add(testTimeout), *d.ExpiresAt)

	// expires_at disappears once the reservation leaves RESERVED.
	f.pay(t, res.ID)
	d, err = f.engine.GetReservationDetails(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatePaid, d.State)
	assert.Nil(t, d.ExpiresAt)

	_, err = f.engine.GetReservationDetails(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListReservationsByCustomer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.reserve(t, map[uint64]model.TicketType{f.seatA1.ID: model.TicketStandard})
	f.cancel(t, first.ID)
	f.reserve(t, map[uint64]model.TicketType{f.seatA1.ID: model.TicketStandard})

	details, err := f.engine.ListReservationsByCustomer(ctx, f.customer.ID)
	require.NoError(t, err)
	require.Len(t, details, 2)

	states := map[model.ReservationState]bool{}
	for _, d := range details {
		states[d.State] = true
	}
	assert.True(t, states[model.StateCanceled])
	assert.True(t, states[model.StateReserved])

	_, err = f.engine.ListReservationsByCustomer(ctx, 9999)
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "customer", nf.Entity)
}
