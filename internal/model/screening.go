package model

import "time"

// Screening is a scheduled showing of a movie in a hall at a given
// start time.  Screenings are immutable once scheduled; rescheduling
// is not modeled.  Relations are plain id references resolved through
// the repository layer, never an in-memory object graph.
//
// Fields:
//
//	ID       – primary key identifier.
//	MovieID  – movie being shown.
//	HallID   – hall where the showing takes place.
//	StartsAt – when the showing begins (UTC).
type Screening struct {
	ID       uint64    `json:"id"`        // screenings.id
	MovieID  uint64    `json:"movie_id"`  // screenings.movie_id
	HallID   uint64    `json:"hall_id"`   // screenings.hall_id
	StartsAt time.Time `json:"starts_at"` // screenings.starts_at
}
