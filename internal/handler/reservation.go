package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/powermilk/cinema-reservation/internal/model"
	"github.com/powermilk/cinema-reservation/internal/queue"
	"github.com/powermilk/cinema-reservation/internal/service"
)

// EventPublisher announces reservation lifecycle transitions to the
// message broker. *queue.Publisher satisfies it.
type EventPublisher interface {
	ReservationCreated(ctx context.Context, event queue.ReservationCreatedEvent) error
	ReservationPaid(ctx context.Context, event queue.ReservationPaidEvent) error
	ReservationCanceled(ctx context.Context, event queue.ReservationCanceledEvent) error
}

// ReservationHandler exposes the reservation lifecycle over HTTP:
// creation, lookup, payment confirmation, cancellation and per
// customer listing. Transitions that actually change state publish an
// event on a best-effort basis; a broker outage never fails the
// request, and idempotent no-ops publish nothing.
type ReservationHandler struct {
	Reservations *service.ReservationService
	Events       EventPublisher
}

// NewReservationHandler constructs a ReservationHandler. Both
// collaborators must be non-nil.
func NewReservationHandler(reservations *service.ReservationService, events EventPublisher) *ReservationHandler {
	if reservations == nil {
		panic("nil service passed to NewReservationHandler")
	}
	if events == nil {
		panic("nil event publisher passed to NewReservationHandler")
	}
	return &ReservationHandler{Reservations: reservations, Events: events}
}

// seatSelection is one requested seat in a create request.
type seatSelection struct {
	SeatID     uint64 `json:"seat_id"`
	TicketType string `json:"ticket_type"`
}

// createRequest is the body of POST /v1/reservations.
type createRequest struct {
	CustomerID  uint64          `json:"customer_id"`
	ScreeningID uint64          `json:"screening_id"`
	Seats       []seatSelection `json:"seats"`
}

// Create handles POST /v1/reservations. On success it returns 201
// with the full reservation details, including the expiry deadline of
// the payment window.
func (h *ReservationHandler) Create(c echo.Context) error {
	var body createRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.CustomerID == 0 || body.ScreeningID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "customer_id and screening_id are required"})
	}
	seats := make(map[uint64]model.TicketType, len(body.Seats))
	for _, sel := range body.Seats {
		if sel.SeatID == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_id must be positive"})
		}
		if _, dup := seats[sel.SeatID]; dup {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": fmt.Sprintf("duplicate seat_id %d", sel.SeatID)})
		}
		tt := model.TicketType(sel.TicketType)
		if tt == "" {
			tt = model.TicketStandard
		}
		seats[sel.SeatID] = tt
	}

	ctx := c.Request().Context()
	res, err := h.Reservations.CreateReservation(ctx, body.CustomerID, body.ScreeningID, seats)
	if err != nil {
		return writeServiceError(c, err)
	}

	details, err := h.Reservations.GetReservationDetails(ctx, res.ID)
	if err != nil {
		return writeServiceError(c, err)
	}

	h.publishCreated(ctx, details)
	return c.JSON(http.StatusCreated, details)
}

// Get handles GET /v1/reservations/:id.
func (h *ReservationHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	details, err := h.Reservations.GetReservationDetails(c.Request().Context(), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, details)
}

// ConfirmPayment handles POST /v1/reservations/:id/payment. Payment
// on an already paid reservation succeeds without effect; payment on
// a canceled or timed-out reservation is rejected with 409.
func (h *ReservationHandler) ConfirmPayment(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	ctx := c.Request().Context()
	changed, err := h.Reservations.ConfirmPayment(ctx, id)
	if err != nil {
		return writeServiceError(c, err)
	}
	details, err := h.Reservations.GetReservationDetails(ctx, id)
	if err != nil {
		return writeServiceError(c, err)
	}

	// A repeated payment on an already paid reservation changes
	// nothing, so the audit stream gets no second entry.
	if changed {
		_ = h.Events.ReservationPaid(ctx, queue.ReservationPaidEvent{
			ReservationID: details.ID,
			ScreeningID:   details.ScreeningID,
			CustomerID:    details.CustomerID,
			ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, details)
}

// Cancel handles DELETE /v1/reservations/:id. Canceling an already
// canceled reservation succeeds without effect; canceling a paid
// reservation is rejected with 409.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	ctx := c.Request().Context()
	changed, err := h.Reservations.CancelReservation(ctx, id)
	if err != nil {
		return writeServiceError(c, err)
	}
	details, err := h.Reservations.GetReservationDetails(ctx, id)
	if err != nil {
		return writeServiceError(c, err)
	}

	// Only a real transition is announced. A cancel that the customer
	// or the expiry sweep already performed was announced back then.
	if changed {
		_ = h.Events.ReservationCanceled(ctx, queue.ReservationCanceledEvent{
			ReservationID: details.ID,
			ScreeningID:   details.ScreeningID,
			CustomerID:    details.CustomerID,
			Reason:        queue.CancelReasonCustomer,
			CanceledAt:    time.Now().UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, details)
}

// ListByCustomer handles GET /v1/customers/:id/reservations.
func (h *ReservationHandler) ListByCustomer(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer id"})
	}
	details, err := h.Reservations.ListReservationsByCustomer(c.Request().Context(), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, details)
}

func (h *ReservationHandler) publishCreated(ctx context.Context, d *service.ReservationDetails) {
	labels := make([]string, 0, len(d.Seats))
	for _, s := range d.Seats {
		labels = append(labels, fmt.Sprintf("%s%d", s.RowLabel, s.SeatNumber))
	}
	expires := ""
	if d.ExpiresAt != nil {
		expires = d.ExpiresAt.Format(time.RFC3339)
	}
	_ = h.Events.ReservationCreated(ctx, queue.ReservationCreatedEvent{
		ReservationID: d.ID,
		ScreeningID:   d.ScreeningID,
		CustomerID:    d.CustomerID,
		MovieTitle:    d.MovieTitle,
		HallName:      d.HallName,
		StartsAt:      d.StartsAt.Format(time.RFC3339),
		SeatLabels:    labels,
		ExpiresAt:     expires,
		CreatedAt:     d.CreatedAt.Format(time.RFC3339),
	})
}

// parseID extracts a positive uint64 path parameter.
func parseID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// writeServiceError maps service errors onto HTTP responses. Absent
// entities map to 404; state conflicts (taken seat, invalid
// transition, expired payment window) map to 409; validation failures
// map to 400. Anything else is a 500.
func writeServiceError(c echo.Context, err error) error {
	var notFound *service.NotFoundError
	if errors.As(err, &notFound) {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": fmt.Sprintf("%s %d not found", notFound.Entity, notFound.ID),
		})
	}
	var conflict *service.SeatConflictError
	if errors.As(err, &conflict) {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":   "seat already taken",
			"seat_id": conflict.SeatID,
		})
	}
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, service.ErrSeatConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "seat already taken"})
	case errors.Is(err, service.ErrExpired):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, model.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrNoSeats),
		errors.Is(err, service.ErrTooManySeats),
		errors.Is(err, service.ErrInvalidTicketType):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	c.Logger().Errorf("reservation handler: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
