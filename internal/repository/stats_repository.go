package repository

import (
	"context"

	"github.com/powermilk/cinema-reservation/internal/model"
)

// StatsRepo runs the aggregate count queries behind the statistics
// endpoint.
type StatsRepo struct {
	q querier
}

// NewStatsRepo returns a StatsRepo bound to the given querier.
func NewStatsRepo(q querier) *StatsRepo { return &StatsRepo{q: q} }

// CountReservationsByState returns reservation counts grouped by
// lifecycle state. States with no reservations are absent from the
// map.
func (r *StatsRepo) CountReservationsByState(ctx context.Context) (map[model.ReservationState]int64, error) {
	const q = `SELECT state, COUNT(*) FROM reservations GROUP BY state`
	rows, err := r.q.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[model.ReservationState]int64)
	for rows.Next() {
		var state model.ReservationState
		var n int64
		if err := rows.Scan(&state, &n); err != nil {
			return nil, err
		}
		counts[state] = n
	}
	return counts, rows.Err()
}

// CountScreenings returns the total number of screenings.
func (r *StatsRepo) CountScreenings(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM screenings`)
}

// CountSeats returns the seat capacity across all halls.
func (r *StatsRepo) CountSeats(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM seats`)
}

// CountReservedSeats returns the total number of reserved seat rows,
// whatever the state of their reservation.
func (r *StatsRepo) CountReservedSeats(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM reserved_seats`)
}

func (r *StatsRepo) count(ctx context.Context, query string) (int64, error) {
	var n int64
	if err := r.q.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
