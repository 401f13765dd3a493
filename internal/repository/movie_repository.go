package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/powermilk/cinema-reservation/internal/model"
)

// MovieRepo provides read access to the movies table.
type MovieRepo struct {
	q querier
}

// NewMovieRepo returns a MovieRepo bound to the given querier.
func NewMovieRepo(q querier) *MovieRepo { return &MovieRepo{q: q} }

// FindMovie returns the movie with the given id, or (nil, nil) when
// no such movie exists.
func (r *MovieRepo) FindMovie(ctx context.Context, id uint64) (*model.Movie, error) {
	const q = `SELECT id, title, duration_minutes FROM movies WHERE id = ?`
	var m model.Movie
	err := r.q.QueryRowContext(ctx, q, id).Scan(&m.ID, &m.Title, &m.DurationMinutes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindAllMovies returns the full movie catalog ordered by title.
func (r *MovieRepo) FindAllMovies(ctx context.Context) ([]model.Movie, error) {
	const q = `SELECT id, title, duration_minutes FROM movies ORDER BY title, id`
	rows, err := r.q.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	movies := make([]model.Movie, 0)
	for rows.Next() {
		var m model.Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.DurationMinutes); err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}
