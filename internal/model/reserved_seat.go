package model

// TicketType is the pricing tier attached to a single seat within a
// reservation.  Pricing itself is out of scope; the tier is recorded
// for downstream systems.
type TicketType string

const (
	TicketStandard       TicketType = "STANDARD"        // regular price ticket
	TicketChildDiscount  TicketType = "CHILD_DISCOUNT"  // discounted ticket for children
	TicketSeniorDiscount TicketType = "SENIOR_DISCOUNT" // discounted ticket for seniors
)

// Valid reports whether t is one of the known ticket types.
func (t TicketType) Valid() bool {
	switch t {
	case TicketStandard, TicketChildDiscount, TicketSeniorDiscount:
		return true
	}
	return false
}

// ReservedSeat links one seat to a reservation.  Rows are created
// atomically with their parent reservation, one per requested seat,
// and never mutated afterwards.  A seat/screening pair may appear in
// at most one reserved seat whose reservation is still active.
//
// Fields:
//
//	ID            – primary key identifier.
//	ReservationID – parent reservation.
//	SeatID        – seat that has been reserved.
//	TicketType    – pricing tier for this seat.
type ReservedSeat struct {
	ID            uint64     `json:"id"`             // reserved_seats.id
	ReservationID uint64     `json:"reservation_id"` // reserved_seats.reservation_id
	SeatID        uint64     `json:"seat_id"`        // reserved_seats.seat_id
	TicketType    TicketType `json:"ticket_type"`    // reserved_seats.ticket_type
}
