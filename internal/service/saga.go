package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/book-rental-gateway/internal/outbox"
	"github.com/iliyamo/book-rental-gateway/internal/queue"
)

// TaskQueue records a pending action for the durable retry mechanism.
type TaskQueue interface {
	Enqueue(ctx context.Context, t outbox.Task) error
}

// Notifier publishes saga events to the message broker.  Publishing is
// best-effort; a nil Notifier disables it.
type Notifier interface {
	Publish(ctx context.Context, ev queue.SagaEvent) error
}

// compensation is the undo of one succeeded forward step, paired with the
// outbox task to enqueue should the undo itself fail.
type compensation struct {
	name     string
	undo     func(ctx context.Context) error
	fallback outbox.Task
}

// saga tracks one workflow instance.  Forward steps register their
// compensation as soon as they succeed; on a later failure the stack is
// unwound in reverse order.  A compensation that fails is escalated to the
// outbox exactly once per (saga, action) and never retried inline.
type saga struct {
	uid      string
	workflow string
	username string
	tasks    TaskQueue
	notify   Notifier
	stack    []compensation
}

func newSaga(workflow, username string, tasks TaskQueue, notify Notifier) *saga {
	return &saga{
		uid:      uuid.NewString(),
		workflow: workflow,
		username: username,
		tasks:    tasks,
		notify:   notify,
	}
}

// push registers the compensation for a just-succeeded forward step.
func (s *saga) push(name string, undo func(ctx context.Context) error, fallback outbox.Task) {
	fallback.SagaUID = s.uid
	fallback.Payload.Username = s.username
	s.stack = append(s.stack, compensation{name: name, undo: undo, fallback: fallback})
}

// unwind runs every registered compensation in reverse order.  Each undo is
// best-effort: when one fails its fallback task is recorded in the outbox
// so the drainer restores consistency later.  The enqueue result is checked
// loudly; an inconsistent-state risk must never be silently swallowed.
func (s *saga) unwind(ctx context.Context) {
	for i := len(s.stack) - 1; i >= 0; i-- {
		comp := s.stack[i]
		err := comp.undo(ctx)
		if err == nil {
			continue
		}
		log.Printf("saga %s (%s): compensation %q failed, escalating to outbox: %v",
			s.uid, s.workflow, comp.name, err)
		if qerr := s.tasks.Enqueue(ctx, comp.fallback); qerr != nil {
			log.Printf("saga %s (%s): CONSISTENCY AT RISK: outbox enqueue for %q failed: %v",
				s.uid, s.workflow, comp.name, qerr)
			continue
		}
		s.event(ctx, queue.StageCompensationEnqueued, comp.fallback.Payload.ReservationUID,
			comp.fallback.Payload.LibraryUID, comp.fallback.Payload.BookUID, comp.name)
	}
	s.stack = s.stack[:0]
}

// event publishes a saga event, ignoring publish failures.
func (s *saga) event(ctx context.Context, stage, reservationUID, libraryUID, bookUID, detail string) {
	if s.notify == nil {
		return
	}
	_ = s.notify.Publish(ctx, queue.SagaEvent{
		SagaUID:        s.uid,
		Workflow:       s.workflow,
		Stage:          stage,
		Username:       s.username,
		ReservationUID: reservationUID,
		LibraryUID:     libraryUID,
		BookUID:        bookUID,
		Detail:         detail,
		OccurredAt:     time.Now().UTC().Format(time.RFC3339),
	})
}
