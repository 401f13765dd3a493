package service

import (
	"context"

	"github.com/powermilk/cinema-reservation/internal/model"
)

// CinemaStats is a business-level snapshot of the whole system:
// reservation totals broken down by state, capacity figures and the
// occupancy rate (reserved seat rows as a percentage of total seat
// capacity).
type CinemaStats struct {
	TotalReservations    int64   `json:"total_reservations"`
	ActiveReservations   int64   `json:"active_reservations"`
	PaidReservations     int64   `json:"paid_reservations"`
	CanceledReservations int64   `json:"canceled_reservations"`
	TotalScreenings      int64   `json:"total_screenings"`
	TotalSeats           int64   `json:"total_seats"`
	TotalReservedSeats   int64   `json:"total_reserved_seats"`
	OccupancyRate        float64 `json:"occupancy_rate"`
}

// StatsService computes operational statistics from the store's
// aggregate counts. Intended for dashboards and monitoring, not for
// anything transactional; the counts are read without locking and may
// lag concurrent writes.
type StatsService struct {
	store Store
}

// NewStatsService constructs a StatsService. The store must be
// non-nil.
func NewStatsService(store Store) *StatsService {
	if store == nil {
		panic("nil store passed to NewStatsService")
	}
	return &StatsService{store: store}
}

// Overview returns the current cinema statistics.
func (s *StatsService) Overview(ctx context.Context) (*CinemaStats, error) {
	byState, err := s.store.CountReservationsByState(ctx)
	if err != nil {
		return nil, err
	}
	screenings, err := s.store.CountScreenings(ctx)
	if err != nil {
		return nil, err
	}
	seats, err := s.store.CountSeats(ctx)
	if err != nil {
		return nil, err
	}
	reservedSeats, err := s.store.CountReservedSeats(ctx)
	if err != nil {
		return nil, err
	}

	stats := &CinemaStats{
		ActiveReservations:   byState[model.StateReserved],
		PaidReservations:     byState[model.StatePaid],
		CanceledReservations: byState[model.StateCanceled],
		TotalScreenings:      screenings,
		TotalSeats:           seats,
		TotalReservedSeats:   reservedSeats,
	}
	for _, n := range byState {
		stats.TotalReservations += n
	}
	if seats > 0 {
		stats.OccupancyRate = float64(reservedSeats) / float64(seats) * 100
	}
	return stats, nil
}
