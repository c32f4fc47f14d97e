package service

import (
	"context"
	"fmt"

	"github.com/iliyamo/book-rental-gateway/internal/outbox"
)

// Retrier replays outbox tasks against the downstream services.  It is the
// outbox drainer's Executor: every action corresponds to one idempotent
// downstream call.
type Retrier struct {
	library      LibraryAPI
	ratings      RatingAPI
	reservations ReservationAPI
}

// NewRetrier builds a Retrier over the same clients the coordinator uses.
func NewRetrier(library LibraryAPI, ratings RatingAPI, reservations ReservationAPI) *Retrier {
	return &Retrier{library: library, ratings: ratings, reservations: reservations}
}

// Execute replays one task.
func (r *Retrier) Execute(ctx context.Context, t outbox.Task) error {
	p := t.Payload
	switch t.Action {
	case outbox.ActionDeleteReservation:
		return r.reservations.DeleteReservation(ctx, p.Username, p.ReservationUID)
	case outbox.ActionUpdateStatus:
		return r.reservations.UpdateStatus(ctx, p.Username, p.ReservationUID, p.Status)
	case outbox.ActionReserveBook:
		return r.library.ReserveBook(ctx, p.LibraryUID, p.BookUID)
	case outbox.ActionReturnBook:
		return r.library.ReturnBook(ctx, p.LibraryUID, p.BookUID)
	case outbox.ActionApplyRating:
		_, err := r.ratings.UpdateRating(ctx, p.Username, p.Delta)
		return err
	default:
		return fmt.Errorf("unknown outbox action %q", t.Action)
	}
}
