package model

// Movie is immutable reference data describing a film in the catalog.
// Screenings reference movies by id.
//
// Fields:
//
//	ID              – primary key identifier.
//	Title           – movie title.
//	DurationMinutes – running time in minutes.
type Movie struct {
	ID              uint64 `json:"id"`               // movies.id
	Title           string `json:"title"`            // movies.title
	DurationMinutes uint32 `json:"duration_minutes"` // movies.duration_minutes
}
