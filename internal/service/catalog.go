package service

import (
	"context"
	"sort"
	"time"

	"github.com/powermilk/cinema-reservation/internal/model"
)

// CatalogService serves the read-only browse surface: movies,
// screenings and per-seat availability maps.  It performs no writes
// and therefore never opens a transaction.
type CatalogService struct {
	store Store
}

// NewCatalogService constructs a CatalogService.  The store must be
// non-nil.
func NewCatalogService(store Store) *CatalogService {
	if store == nil {
		panic("nil store passed to NewCatalogService")
	}
	return &CatalogService{store: store}
}

// ScreeningSummary is the list view of a screening.
type ScreeningSummary struct {
	ID              uint64    `json:"id"`
	MovieTitle      string    `json:"movie_title"`
	HallName        string    `json:"hall_name"`
	StartsAt        time.Time `json:"starts_at"`
	DurationMinutes uint32    `json:"duration_minutes"`
}

// ScreeningDetails extends the summary with a live available-seat
// count.  The count can change between viewing and reserving; the
// reservation endpoint rejects stale selections with a seat conflict.
type ScreeningDetails struct {
	ID             uint64       `json:"id"`
	Movie          *model.Movie `json:"movie,omitempty"`
	HallName       string       `json:"hall_name"`
	StartsAt       time.Time    `json:"starts_at"`
	AvailableSeats int          `json:"available_seats"`
}

// SeatAvailability is one entry of a screening's seat map.
type SeatAvailability struct {
	ID         uint64 `json:"id"`
	RowLabel   string `json:"row_label"`
	SeatNumber uint32 `json:"seat_number"`
	Available  bool   `json:"available"`
}

// ListMovies returns the full movie catalog.
func (s *CatalogService) ListMovies(ctx context.Context) ([]model.Movie, error) {
	return s.store.FindAllMovies(ctx)
}

// GetMovie returns a single movie by id.
func (s *CatalogService) GetMovie(ctx context.Context, movieID uint64) (*model.Movie, error) {
	movie, err := s.store.FindMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, &NotFoundError{Entity: "movie", ID: movieID}
	}
	return movie, nil
}

// ListScreenings returns all screenings as summaries.
func (s *CatalogService) ListScreenings(ctx context.Context) ([]ScreeningSummary, error) {
	screenings, err := s.store.FindAllScreenings(ctx)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, screenings)
}

// ListScreeningsByMovie returns all showtimes of one movie.
func (s *CatalogService) ListScreeningsByMovie(ctx context.Context, movieID uint64) ([]ScreeningSummary, error) {
	movie, err := s.store.FindMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, &NotFoundError{Entity: "movie", ID: movieID}
	}
	screenings, err := s.store.FindScreeningsByMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, screenings)
}

// GetScreeningDetails returns one screening with its movie, hall name
// and the number of seats not held by an active reservation.
func (s *CatalogService) GetScreeningDetails(ctx context.Context, screeningID uint64) (*ScreeningDetails, error) {
	screening, err := s.store.FindScreening(ctx, screeningID)
	if err != nil {
		return nil, err
	}
	if screening == nil {
		return nil, &NotFoundError{Entity: "screening", ID: screeningID}
	}
	movie, err := s.store.FindMovie(ctx, screening.MovieID)
	if err != nil {
		return nil, err
	}
	hall, err := s.store.FindHall(ctx, screening.HallID)
	if err != nil {
		return nil, err
	}
	seats, err := s.store.FindSeatsByHall(ctx, screening.HallID)
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
	available := 0
	for _, seat := range seats {
		if _, ok := taken[seat.ID]; !ok {
			available++
		}
	}
	d := &ScreeningDetails{
		ID:             screening.ID,
		Movie:          movie,
		StartsAt:       screening.StartsAt,
		AvailableSeats: available,
	}
	if hall != nil {
		d.HallName = hall.Name
	}
	return d, nil
}

// GetSeatMap returns every seat of the screening's hall flagged with
// its current availability.  This is what customers consult before
// picking seats for a reservation.
func (s *CatalogService) GetSeatMap(ctx context.Context, screeningID uint64) ([]SeatAvailability, error) {
	screening, err := s.store.FindScreening(ctx, screeningID)
	if err != nil {
		return nil, err
	}
	if screening == nil {
		return nil, &NotFoundError{Entity: "screening", ID: screeningID}
	}
	seats, err := s.store.FindSeatsByHall(ctx, screening.HallID)
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
	out := make([]SeatAvailability, 0, len(seats))
	for _, seat := range seats {
		_, isTaken := taken[seat.ID]
		out = append(out, SeatAvailability{
			ID:         seat.ID,
			RowLabel:   seat.RowLabel,
			SeatNumber: seat.SeatNumber,
			Available:  !isTaken,
		})
	}
	// Seat maps render row by row, so keep a stable row/number order.
	sort.Slice(out, func(i, j int) bool {
		if out[i].RowLabel != out[j].RowLabel {
			return out[i].RowLabel < out[j].RowLabel
		}
		return out[i].SeatNumber < out[j].SeatNumber
	})
	return out, nil
}

func (s *CatalogService) summarize(ctx context.Context, screenings []model.Screening) ([]ScreeningSummary, error) {
	out := make([]ScreeningSummary, 0, len(screenings))
	for _, sc := range screenings {
		movie, err := s.store.FindMovie(ctx, sc.MovieID)
		if err != nil {
			return nil, err
		}
		hall, err := s.store.FindHall(ctx, sc.HallID)
		if err != nil {
			return nil, err
		}
		sum := ScreeningSummary{ID: sc.ID, StartsAt: sc.StartsAt}
		if movie != nil {
			sum.MovieTitle = movie.Title
			sum.DurationMinutes = movie.DurationMinutes
		}
		if hall != nil {
			sum.HallName = hall.Name
		}
		out = append(out, sum)
	}
	return out, nil
}
