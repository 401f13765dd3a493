package service

import (
	"context"
	"time"

	"github.com/powermilk/cinema-reservation/internal/model"
)

// SeatDetail describes one reserved seat inside ReservationDetails.
type SeatDetail struct {
	SeatID     uint64           `json:"seat_id"`
	RowLabel   string           `json:"row_label"`
	SeatNumber uint32           `json:"seat_number"`
	TicketType model.TicketType `json:"ticket_type"`
}

// ReservationDetails is the read model returned to callers for a
// single reservation: the reservation itself plus the movie, hall,
// customer and seat information resolved through the store.  ExpiresAt
// is set only while the reservation is still RESERVED.
type ReservationDetails struct {
	ID            uint64                 `json:"id"`
	ScreeningID   uint64                 `json:"screening_id"`
	CustomerID    uint64                 `json:"customer_id"`
	MovieTitle    string                 `json:"movie_title"`
	HallName      string                 `json:"hall_name"`
	StartsAt      time.Time              `json:"starts_at"`
	CustomerName  string                 `json:"customer_name"`
	CustomerEmail string                 `json:"customer_email"`
	Seats         []SeatDetail           `json:"seats"`
	State         model.ReservationState `json:"state"`
	CreatedAt     time.Time              `json:"created_at"`
	ExpiresAt     *time.Time             `json:"expires_at,omitempty"`
}

// GetReservationDetails loads a reservation and resolves its related
// movie, hall, customer and seats.
func (s *ReservationService) GetReservationDetails(ctx context.Context, reservationID uint64) (*ReservationDetails, error) {
	res, err := s.store.FindReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, &NotFoundError{Entity: "reservation", ID: reservationID}
	}
	return s.buildDetails(ctx, res)
}

// ListReservationsByCustomer returns the booking history of a customer
// in all states, newest first per the store's ordering.
func (s *ReservationService) ListReservationsByCustomer(ctx context.Context, customerID uint64) ([]ReservationDetails, error) {
	customer, err := s.store.FindCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, &NotFoundError{Entity: "customer", ID: customerID}
	}
	reservations, err := s.store.FindReservationsByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	details := make([]ReservationDetails, 0, len(reservations))
	for i := range reservations {
		d, err := s.buildDetails(ctx, &reservations[i])
		if err != nil {
			return nil, err
		}
		details = append(details, *d)
	}
	return details, nil
}

func (s *ReservationService) buildDetails(ctx context.Context, res *model.Reservation) (*ReservationDetails, error) {
	screening, err := s.store.FindScreening(ctx, res.ScreeningID)
	if err != nil {
		return nil, err
	}
	if screening == nil {
		return nil, &NotFoundError{Entity: "screening", ID: res.ScreeningID}
	}
	movie, err := s.store.FindMovie(ctx, screening.MovieID)
	if err != nil {
		return nil, err
	}
	hall, err := s.store.FindHall(ctx, screening.HallID)
	if err != nil {
		return nil, err
	}
	customer, err := s.store.FindCustomer(ctx, res.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, &NotFoundError{Entity: "customer", ID: res.CustomerID}
	}

	reserved, err := s.store.FindReservedSeatsByReservation(ctx, res.ID)
	if err != nil {
		return nil, err
	}
	seats := make([]SeatDetail, 0, len(reserved))
	for _, rs := range reserved {
		seat, err := s.store.FindSeat(ctx, rs.SeatID)
		if err != nil {
			return nil, err
		}
		if seat == nil {
			return nil, &NotFoundError{Entity: "seat", ID: rs.SeatID}
		}
		seats = append(seats, SeatDetail{
			SeatID:     seat.ID,
			RowLabel:   seat.RowLabel,
			SeatNumber: seat.SeatNumber,
			TicketType: rs.TicketType,
		})
	}

	d := &ReservationDetails{
		ID:          res.ID,
		ScreeningID: res.ScreeningID,
		CustomerID:  res.CustomerID,
		StartsAt:    screening.StartsAt,
		Seats:       seats,
		State:       res.State,
		CreatedAt:   res.CreatedAt,
	}
	// Movie and hall are reference data; tolerate absence the way the
	// original system did rather than failing the whole read.
	if movie != nil {
		d.MovieTitle = movie.Title
	}
	if hall != nil {
		d.HallName = hall.Name
	}
	d.CustomerName = customer.Name
	d.CustomerEmail = customer.Email
	if res.State == model.StateReserved {
		exp := res.CreatedAt.Add(s.timeout)
		d.ExpiresAt = &exp
	}
	return d, nil
}
