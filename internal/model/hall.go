package model

// Hall represents a screening hall.  A hall owns a fixed set of seats;
// both are immutable reference data from the reservation flow's point
// of view.
//
// Fields:
//
//	ID   – primary key identifier.
//	Name – hall name (e.g. "Sala 1").
type Hall struct {
	ID   uint64 `json:"id"`   // halls.id
	Name string `json:"name"` // halls.name
}

// Seat describes a physical seat in a hall, identified by its row
// label and number within the row.  Many seats belong to one hall.
//
// Fields:
//
//	ID         – primary key identifier.
//	HallID     – hall to which this seat belongs.
//	RowLabel   – letter or string designating the row.
//	SeatNumber – number of the seat within the row (1-based).
type Seat struct {
	ID         uint64 `json:"id"`          // seats.id
	HallID     uint64 `json:"hall_id"`     // seats.hall_id
	RowLabel   string `json:"row_label"`   // seats.row_label
	SeatNumber uint32 `json:"seat_number"` // seats.seat_number
}
