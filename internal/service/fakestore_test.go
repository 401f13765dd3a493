package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/powermilk/cinema-reservation/internal/model"
)

// fakeStore is an in-memory Gateway used by the engine tests.  InTx
// snapshots all state before running fn and restores it when fn
// returns an error, so rollback semantics match a real transactional
// store.
type fakeStore struct {
	mu            sync.Mutex
	customers     map[uint64]model.Customer
	movies        map[uint64]model.Movie
	halls         map[uint64]model.Hall
	seats         map[uint64]model.Seat
	screenings    map[uint64]model.Screening
	reservations  map[uint64]model.Reservation
	reservedSeats []model.ReservedSeat
	nextID        uint64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		customers:    map[uint64]model.Customer{},
		movies:       map[uint64]model.Movie{},
		halls:        map[uint64]model.Hall{},
		seats:        map[uint64]model.Seat{},
		screenings:   map[uint64]model.Screening{},
		reservations: map[uint64]model.Reservation{},
	}
}

func (f *fakeStore) id() uint64 { f.nextID++; return f.nextID }

func (f *fakeStore) addCustomer(email, name string) model.Customer {
	c := model.Customer{ID: f.id(), Email: email, Name: name}
	f.customers[c.ID] = c
	return c
}

func (f *fakeStore) addMovie(title string, minutes uint32) model.Movie {
	m := model.Movie{ID: f.id(), Title: title, DurationMinutes: minutes}
	f.movies[m.ID] = m
	return m
}

func (f *fakeStore) addHall(name string) model.Hall {
	h := model.Hall{ID: f.id(), Name: name}
	f.halls[h.ID] = h
	return h
}

func (f *fakeStore) addSeat(hallID uint64, row string, number uint32) model.Seat {
	s := model.Seat{ID: f.id(), HallID: hallID, RowLabel: row, SeatNumber: number}
	f.seats[s.ID] = s
	return s
}

func (f *fakeStore) addScreening(movieID, hallID uint64, startsAt time.Time) model.Screening {
	s := model.Screening{ID: f.id(), MovieID: movieID, HallID: hallID, StartsAt: startsAt}
	f.screenings[s.ID] = s
	return s
}

// setCreatedAt backdates a reservation so expiry paths can be tested
// without a clock abstraction.
func (f *fakeStore) setCreatedAt(reservationID uint64, at time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := f.reservations[reservationID]
	r.CreatedAt = at
	f.reservations[reservationID] = r
}

func (f *fakeStore) reservation(id uint64) model.Reservation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reservations[id]
}

func (f *fakeStore) snapshot() *fakeStore {
	cp := newFakeStore()
	cp.nextID = f.nextID
	for k, v := range f.customers {
		cp.customers[k] = v
	}
	for k, v := range f.movies {
		cp.movies[k] = v
	}
	for k, v := range f.halls {
		cp.halls[k] = v
	}
	for k, v := range f.seats {
		cp.seats[k] = v
	}
	for k, v := range f.screenings {
		cp.screenings[k] = v
	}
	for k, v := range f.reservations {
		cp.reservations[k] = v
	}
	cp.reservedSeats = append([]model.ReservedSeat(nil), f.reservedSeats...)
	return cp
}

func (f *fakeStore) restore(snap *fakeStore) {
	f.nextID = snap.nextID
	f.customers = snap.customers
	f.movies = snap.movies
	f.halls = snap.halls
	f.seats = snap.seats
	f.screenings = snap.screenings
	f.reservations = snap.reservations
	f.reservedSeats = snap.reservedSeats
}

func (f *fakeStore) InTx(ctx context.Context, fn func(Store) error) error {
	f.mu.Lock()
	snap := f.snapshot()
	f.mu.Unlock()
	if err := fn(f); err != nil {
		f.mu.Lock()
		f.restore(snap)
		f.mu.Unlock()
		return err
	}
	return nil
}

func (f *fakeStore) FindCustomer(ctx context.Context, id uint64) (*model.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.customers[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (f *fakeStore) FindMovie(ctx context.Context, id uint64) (*model.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.movies[id]; ok {
		return &m, nil
	}
	return nil, nil
}

func (f *fakeStore) FindAllMovies(ctx context.Context) ([]model.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Movie, 0, len(f.movies))
	for _, m := range f.movies {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) FindHall(ctx context.Context, id uint64) (*model.Hall, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if h, ok := f.halls[id]; ok {
		return &h, nil
	}
	return nil, nil
}

func (f *fakeStore) FindSeat(ctx context.Context, id uint64) (*model.Seat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.seats[id]; ok {
		return &s, nil
	}
	return nil, nil
}

func (f *fakeStore) FindSeatsByHall(ctx context.Context, hallID uint64) ([]model.Seat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Seat
	for _, s := range f.seats {
		if s.HallID == hallID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RowLabel != out[j].RowLabel {
			return out[i].RowLabel < out[j].RowLabel
		}
		return out[i].SeatNumber < out[j].SeatNumber
	})
	return out, nil
}

func (f *fakeStore) FindScreening(ctx context.Context, id uint64) (*model.Screening, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.screenings[id]; ok {
		return &s, nil
	}
	return nil, nil
}

func (f *fakeStore) FindAllScreenings(ctx context.Context) ([]model.Screening, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Screening, 0, len(f.screenings))
	for _, s := range f.screenings {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) FindScreeningsByMovie(ctx context.Context, movieID uint64) ([]model.Screening, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Screening
	for _, s := range f.screenings {
		if s.MovieID == movieID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) IsSeatTaken(ctx context.Context, seatID, screeningID uint64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rs := range f.reservedSeats {
		if rs.SeatID != seatID {
			continue
		}
		res, ok := f.reservations[rs.ReservationID]
		if ok && res.ScreeningID == screeningID && res.State.Active() {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) FindReservedSeatsByScreening(ctx context.Context, screeningID uint64) ([]model.ReservedSeat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.ReservedSeat
	for _, rs := range f.reservedSeats {
		res, ok := f.reservations[rs.ReservationID]
		if ok && res.ScreeningID == screeningID && res.State.Active() {
			out = append(out, rs)
		}
	}
	return out, nil
}

func (f *fakeStore) FindReservedSeatsByReservation(ctx context.Context, reservationID uint64) ([]model.ReservedSeat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.ReservedSeat
	for _, rs := range f.reservedSeats {
		if rs.ReservationID == reservationID {
			out = append(out, rs)
		}
	}
	return out, nil
}

func (f *fakeStore) FindReservation(ctx context.Context, id uint64) (*model.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.reservations[id]; ok {
		return &r, nil
	}
	return nil, nil
}

func (f *fakeStore) FindReservationForUpdate(ctx context.Context, id uint64) (*model.Reservation, error) {
	return f.FindReservation(ctx, id)
}

func (f *fakeStore) FindReservationsByCustomer(ctx context.Context, customerID uint64) ([]model.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Reservation
	for _, r := range f.reservations {
		if r.CustomerID == customerID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeStore) FindExpiredReservations(ctx context.Context, cutoff time.Time) ([]model.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Reservation
	for _, r := range f.reservations {
		if r.State == model.StateReserved && r.CreatedAt.Before(cutoff) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) SaveReservation(ctx context.Context, r *model.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r.ID = f.id()
	f.reservations[r.ID] = *r
	return nil
}

func (f *fakeStore) UpdateReservation(ctx context.Context, r *model.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reservations[r.ID] = *r
	return nil
}

func (f *fakeStore) SaveReservedSeat(ctx context.Context, rs *model.ReservedSeat) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rs.ID = f.id()
	f.reservedSeats = append(f.reservedSeats, *rs)
	return nil
}

func (f *fakeStore) CountReservationsByState(ctx context.Context) (map[model.ReservationState]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[model.ReservationState]int64)
	for _, r := range f.reservations {
		counts[r.State]++
	}
	return counts, nil
}

func (f *fakeStore) CountScreenings(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.screenings)), nil
}

func (f *fakeStore) CountSeats(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.seats)), nil
}

func (f *fakeStore) CountReservedSeats(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.reservedSeats)), nil
}

// compile-time contract check
var _ Gateway = (*fakeStore)(nil)
