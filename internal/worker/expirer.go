// Package worker runs the background expiration sweep that reclaims
// seats from unpaid reservations.
package worker

import (
	"context"
	"log"
	"time"

	"github.com/powermilk/cinema-reservation/internal/queue"
	"github.com/powermilk/cinema-reservation/internal/service"
)

// CanceledPublisher announces sweep cancellations on the broker.
// *queue.Publisher satisfies it.
type CanceledPublisher interface {
	ReservationCanceled(ctx context.Context, event queue.ReservationCanceledEvent) error
}

// Expirer periodically cancels reservations whose payment window has
// elapsed. Each canceled reservation is announced on the broker with
// reason "expired" so downstream consumers see sweep cancellations
// the same way as customer ones.
type Expirer struct {
	reservations *service.ReservationService
	events       CanceledPublisher
	interval     time.Duration
}

// NewExpirer constructs an Expirer. Both collaborators must be
// non-nil and the interval strictly positive.
func NewExpirer(reservations *service.ReservationService, events CanceledPublisher, interval time.Duration) *Expirer {
	if reservations == nil {
		panic("nil service passed to NewExpirer")
	}
	if events == nil {
		panic("nil event publisher passed to NewExpirer")
	}
	if interval <= 0 {
		panic("sweep interval must be positive")
	}
	return &Expirer{reservations: reservations, events: events, interval: interval}
}

// Run sweeps on every tick until ctx is canceled. Sweep errors are
// logged and the loop keeps going; a transient database failure must
// not kill the reclaim of seats.
func (e *Expirer) Run(ctx context.Context) {
	log.Printf("expirer: sweeping every %s, timeout %s", e.interval, e.reservations.Timeout())
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Printf("expirer: stopped: %v", ctx.Err())
			return
		case <-ticker.C:
			e.sweep(ctx)
		}
	}
}

func (e *Expirer) sweep(ctx context.Context) {
	expired, err := e.reservations.ExpireOldReservations(ctx)
	if err != nil {
		log.Printf("expirer: sweep failed: %v", err)
		return
	}
	now := time.Now().UTC().Format(time.RFC3339)
	for _, res := range expired {
		_ = e.events.ReservationCanceled(ctx, queue.ReservationCanceledEvent{
			ReservationID: res.ID,
			ScreeningID:   res.ScreeningID,
			CustomerID:    res.CustomerID,
			Reason:        queue.CancelReasonExpired,
			CanceledAt:    now,
		})
	}
}
