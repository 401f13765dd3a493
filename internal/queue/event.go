// Package queue defines the reservation lifecycle events exchanged
// over the message broker, the publisher that emits them and the
// background consumer that turns them into an audit log.
package queue

// Queue names, one per lifecycle transition. Routing uses the default
// exchange so the queue name doubles as the routing key.
const (
	ReservationCreatedQueue  = "reservation.created"
	ReservationPaidQueue     = "reservation.paid"
	ReservationCanceledQueue = "reservation.canceled"
)

// ReservationCreatedEvent is published when a new reservation is
// accepted. It carries enough context for downstream consumers to
// log or notify without querying the primary database.
type ReservationCreatedEvent struct {
	ReservationID uint64   `json:"reservation_id"`
	ScreeningID   uint64   `json:"screening_id"`
	CustomerID    uint64   `json:"customer_id"`
	MovieTitle    string   `json:"movie_title"`
	HallName      string   `json:"hall_name"`
	StartsAt      string   `json:"starts_at"`
	SeatLabels    []string `json:"seats"`
	ExpiresAt     string   `json:"expires_at"`
	CreatedAt     string   `json:"created_at"`
}

// ReservationPaidEvent is published when a reservation's payment is
// confirmed and the seats become final.
type ReservationPaidEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	ScreeningID   uint64 `json:"screening_id"`
	CustomerID    uint64 `json:"customer_id"`
	ConfirmedAt   string `json:"confirmed_at"`
}

// ReservationCanceledEvent is published when a reservation is
// canceled, either by the customer or by the expiry sweep. Reason is
// "customer" or "expired".
type ReservationCanceledEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	ScreeningID   uint64 `json:"screening_id"`
	CustomerID    uint64 `json:"customer_id"`
	Reason        string `json:"reason"`
	CanceledAt    string `json:"canceled_at"`
}

// Cancellation reasons carried in ReservationCanceledEvent.
const (
	CancelReasonCustomer = "customer"
	CancelReasonExpired  = "expired"
)
