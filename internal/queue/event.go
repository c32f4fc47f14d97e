// Package queue defines the saga event payloads exchanged over the message
// broker, the publisher that emits them and the background consumer that
// writes them to the operations log.
package queue

// Event stages reported by the saga coordinator.
const (
	StageDeferred             = "DEFERRED"
	StageCompensationEnqueued = "COMPENSATION_ENQUEUED"
)

// SagaEvent is published whenever a saga could not complete cleanly: either
// the whole operation was deferred to the retry mechanism, or a single
// compensation had to be escalated to the outbox.  It carries enough
// context for operators to trace the instance without querying the outbox.
type SagaEvent struct {
	SagaUID        string `json:"saga_uid"`
	Workflow       string `json:"workflow"`
	Stage          string `json:"stage"`
	Username       string `json:"username"`
	ReservationUID string `json:"reservation_uid,omitempty"`
	LibraryUID     string `json:"library_uid,omitempty"`
	BookUID        string `json:"book_uid,omitempty"`
	Detail         string `json:"detail,omitempty"`
	OccurredAt     string `json:"occurred_at"`
}
