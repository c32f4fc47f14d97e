// Package outbox implements the durable retry mechanism behind the saga
// coordinator.  When a compensating call fails, the action is recorded as a
// task in MySQL and a background drainer replays it against the downstream
// service until it succeeds or the attempt cap is reached.  Enqueueing is
// de-duplicated per saga instance, so recording the same pending action
// twice is harmless and delivery is at-least-once.
package outbox

import (
	"time"

	"github.com/iliyamo/book-rental-gateway/internal/model"
)

// Action names the downstream call a task must replay.  Every action is
// idempotent from the gateway's point of view: replaying a completed one
// leaves the downstream state unchanged.
type Action string

const (
	ActionDeleteReservation Action = "reservation.delete"
	ActionUpdateStatus      Action = "reservation.status"
	ActionReserveBook       Action = "library.reserve"
	ActionReturnBook        Action = "library.return"
	ActionApplyRating       Action = "rating.delta"
)

// TaskStatus is the lifecycle state of an outbox task.
type TaskStatus string

const (
	TaskPending TaskStatus = "PENDING"
	TaskDone    TaskStatus = "DONE"
	// TaskFailed marks a task that exhausted its attempts.  Such tasks are
	// parked for operator inspection, never dropped.
	TaskFailed TaskStatus = "FAILED"
)

// Payload carries the arguments of a task.  One struct covers all actions;
// fields irrelevant to a given action stay at their zero value.
type Payload struct {
	Username       string       `json:"username"`
	ReservationUID string       `json:"reservationUid,omitempty"`
	LibraryUID     string       `json:"libraryUid,omitempty"`
	BookUID        string       `json:"bookUid,omitempty"`
	Status         model.Status `json:"status,omitempty"`
	Delta          int          `json:"delta,omitempty"`
}

// Task is one pending, durable retry action.  SagaUID identifies the saga
// instance that owed the action; together with Action it forms the
// de-duplication key.
type Task struct {
	ID            int64
	SagaUID       string
	Action        Action
	Payload       Payload
	Attempts      int
	NextAttemptAt time.Time
	Status        TaskStatus
}
