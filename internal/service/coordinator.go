package service

import (
	"context"
	"fmt"

	"github.com/iliyamo/book-rental-gateway/internal/client"
	"github.com/iliyamo/book-rental-gateway/internal/model"
	"github.com/iliyamo/book-rental-gateway/internal/outbox"
	"github.com/iliyamo/book-rental-gateway/internal/queue"
)

// LibraryAPI is the slice of the library system the coordinator drives.
type LibraryAPI interface {
	GetLibrary(ctx context.Context, libraryUID string) (model.Library, error)
	GetBook(ctx context.Context, libraryUID, bookUID string) (model.Book, error)
	ReserveBook(ctx context.Context, libraryUID, bookUID string) error
	ReturnBook(ctx context.Context, libraryUID, bookUID string) error
}

// RatingAPI is the slice of the rating system the coordinator drives.
type RatingAPI interface {
	GetRating(ctx context.Context, username string) (model.UserRating, error)
	UpdateRating(ctx context.Context, username string, delta int) (model.UserRating, error)
}

// ReservationAPI is the slice of the reservation ledger the coordinator drives.
type ReservationAPI interface {
	GetReservation(ctx context.Context, username, reservationUID string) (model.Reservation, error)
	GetRentedCount(ctx context.Context, username string) (model.RentedBooks, error)
	CreateReservation(ctx context.Context, username string, req model.ReservationRequest) (model.Reservation, error)
	DeleteReservation(ctx context.Context, username, reservationUID string) error
	UpdateStatus(ctx context.Context, username, reservationUID string, status model.Status) error
}

// Coordinator orchestrates the reserve and return workflows across the
// three backend services.  It holds no state of its own: each call is an
// independent saga instance and all shared state lives downstream.
type Coordinator struct {
	library      LibraryAPI
	ratings      RatingAPI
	reservations ReservationAPI
	tasks        TaskQueue
	notify       Notifier
}

// NewCoordinator builds a Coordinator.  notify may be nil to disable broker
// notifications; the other dependencies must be non-nil.
func NewCoordinator(library LibraryAPI, ratings RatingAPI, reservations ReservationAPI, tasks TaskQueue, notify Notifier) *Coordinator {
	if library == nil || ratings == nil || reservations == nil || tasks == nil {
		panic("nil dependency passed to NewCoordinator")
	}
	return &Coordinator{
		library:      library,
		ratings:      ratings,
		reservations: reservations,
		tasks:        tasks,
		notify:       notify,
	}
}

// Reserve executes the reserve workflow: read rented count and rating
// concurrently, check eligibility, create the ledger record, decrement
// inventory, and assemble the composite response.  The ledger record is
// created before the inventory decrement so the decrement's compensation
// target (delete the record) is always well-defined.
//
// Outcomes: the composite response; ErrIneligible; client.ErrNotFound;
// client.ErrUnavailable when a read or the create failed before any
// mutation; *DeferredError when the decrement failed and the record was
// rolled back.
func (c *Coordinator) Reserve(ctx context.Context, username string, req model.ReservationRequest) (model.ReservationBookResponse, error) {
	var zero model.ReservationBookResponse
	sg := newSaga("reserve", username, c.tasks, c.notify)

	// independent reads, issued concurrently
	type countResult struct {
		rented model.RentedBooks
		err    error
	}
	countCh := make(chan countResult, 1)
	go func() {
		rented, err := c.reservations.GetRentedCount(ctx, username)
		countCh <- countResult{rented: rented, err: err}
	}()

	rating, ratingErr := c.ratings.GetRating(ctx, username)
	count := <-countCh
	if ratingErr != nil {
		return zero, fmt.Errorf("get rating: %w", ratingErr)
	}
	if count.err != nil {
		return zero, fmt.Errorf("get rented count: %w", count.err)
	}

	if !CanReserve(count.rented, rating) {
		return zero, ErrIneligible
	}

	// Mutations run on a context detached from request cancellation: once a
	// durable side effect exists the saga must reach a terminal state even
	// if the caller disconnects.
	dctx := context.WithoutCancel(ctx)

	reservation, err := c.reservations.CreateReservation(dctx, username, req)
	if err != nil {
		return zero, fmt.Errorf("create reservation: %w", err)
	}
	sg.push("delete reservation",
		func(ctx context.Context) error {
			return c.reservations.DeleteReservation(ctx, username, reservation.ReservationUID)
		},
		outbox.Task{
			Action:  outbox.ActionDeleteReservation,
			Payload: outbox.Payload{ReservationUID: reservation.ReservationUID},
		})

	if err := c.library.ReserveBook(dctx, req.LibraryUID, req.BookUID); err != nil {
		// An orphaned RENTED record with no inventory hold must not
		// survive: undo the create, then report deferred acceptance.
		sg.unwind(dctx)
		sg.event(dctx, queue.StageDeferred, reservation.ReservationUID, req.LibraryUID, req.BookUID,
			"inventory decrement failed: "+err.Error())
		return zero, &DeferredError{SagaUID: sg.uid}
	}

	book, err := c.library.GetBook(ctx, reservation.LibraryUID, reservation.BookUID)
	if err != nil {
		return zero, fmt.Errorf("get book: %w", err)
	}
	library, err := c.library.GetLibrary(ctx, reservation.LibraryUID)
	if err != nil {
		return zero, fmt.Errorf("get library: %w", err)
	}

	return model.ReservationBookResponse{
		ReservationUID: reservation.ReservationUID,
		Status:         reservation.Status,
		StartDate:      reservation.StartDate,
		TillDate:       reservation.TillDate,
		Book:           book,
		Library:        library,
		Rating:         rating,
	}, nil
}

// Return executes the return workflow: fetch the reservation and book,
// compute the rating delta and target status, release the inventory hold,
// update the ledger and apply the delta.  Compensations run in strict
// reverse order of the steps that succeeded.
//
// Outcomes: nil on success; client.ErrNotFound for an unknown reservation;
// client.ErrUnavailable after compensations when a post-mutation step
// failed.
func (c *Coordinator) Return(ctx context.Context, username, reservationUID string, req model.ReturnBookRequest) error {
	reservation, err := c.reservations.GetReservation(ctx, username, reservationUID)
	if err != nil {
		return fmt.Errorf("get reservation: %w", err)
	}
	book, err := c.library.GetBook(ctx, reservation.LibraryUID, reservation.BookUID)
	if err != nil {
		return fmt.Errorf("get book: %w", err)
	}
	if book.Condition == model.ConditionUnknown {
		// the condition comparison cannot be trusted, abort before mutating
		return fmt.Errorf("%w: book condition unresolved", client.ErrUnavailable)
	}

	delta, target := RatingDelta(book.Condition, req.Condition, req.Date, reservation.TillDate)

	sg := newSaga("return", username, c.tasks, c.notify)
	dctx := context.WithoutCancel(ctx)

	if err := c.library.ReturnBook(dctx, reservation.LibraryUID, reservation.BookUID); err != nil {
		// nothing mutated yet, no compensation owed
		return fmt.Errorf("release inventory: %w", err)
	}
	sg.push("re-reserve inventory",
		func(ctx context.Context) error {
			return c.library.ReserveBook(ctx, reservation.LibraryUID, reservation.BookUID)
		},
		outbox.Task{
			Action: outbox.ActionReserveBook,
			Payload: outbox.Payload{
				ReservationUID: reservationUID,
				LibraryUID:     reservation.LibraryUID,
				BookUID:        reservation.BookUID,
			},
		})

	if err := c.reservations.UpdateStatus(dctx, username, reservationUID, target); err != nil {
		sg.unwind(dctx)
		return fmt.Errorf("update reservation status: %w", err)
	}
	sg.push("revert status to RENTED",
		func(ctx context.Context) error {
			return c.reservations.UpdateStatus(ctx, username, reservationUID, model.StatusRented)
		},
		outbox.Task{
			Action: outbox.ActionUpdateStatus,
			Payload: outbox.Payload{
				ReservationUID: reservationUID,
				Status:         model.StatusRented,
			},
		})

	if _, err := c.ratings.UpdateRating(dctx, username, delta); err != nil {
		sg.unwind(dctx)
		return fmt.Errorf("apply rating delta: %w", err)
	}
	return nil
}
