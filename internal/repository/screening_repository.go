package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/powermilk/cinema-reservation/internal/model"
)

// ScreeningRepo provides read access to the screenings table. A
// screening schedules one movie in one hall at a start time; all
// start times are stored in UTC.
type ScreeningRepo struct {
	q querier
}

// NewScreeningRepo returns a ScreeningRepo bound to the given querier.
func NewScreeningRepo(q querier) *ScreeningRepo { return &ScreeningRepo{q: q} }

// FindScreening returns the screening with the given id, or (nil, nil)
// when no such screening exists.
func (r *ScreeningRepo) FindScreening(ctx context.Context, id uint64) (*model.Screening, error) {
	const q = `SELECT id, movie_id, hall_id, starts_at FROM screenings WHERE id = ?`
	var s model.Screening
	err := r.q.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.MovieID, &s.HallID, &s.StartsAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.StartsAt = s.StartsAt.UTC()
	return &s, nil
}

// FindAllScreenings returns every screening ordered by start time.
func (r *ScreeningRepo) FindAllScreenings(ctx context.Context) ([]model.Screening, error) {
	const q = `SELECT id, movie_id, hall_id, starts_at FROM screenings ORDER BY starts_at, id`
	return r.list(ctx, q)
}

// FindScreeningsByMovie returns a movie's screenings ordered by start
// time.
func (r *ScreeningRepo) FindScreeningsByMovie(ctx context.Context, movieID uint64) ([]model.Screening, error) {
	const q = `SELECT id, movie_id, hall_id, starts_at
	           FROM screenings
	           WHERE movie_id = ?
	           ORDER BY starts_at, id`
	return r.list(ctx, q, movieID)
}

func (r *ScreeningRepo) list(ctx context.Context, query string, args ...any) ([]model.Screening, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	screenings := make([]model.Screening, 0)
	for rows.Next() {
		var s model.Screening
		if err := rows.Scan(&s.ID, &s.MovieID, &s.HallID, &s.StartsAt); err != nil {
			return nil, err
		}
		s.StartsAt = s.StartsAt.UTC()
		screenings = append(screenings, s)
	}
	return screenings, rows.Err()
}
