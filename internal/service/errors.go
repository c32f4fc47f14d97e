// Package service implements the reservation saga coordinator: the ordered,
// compensating workflows executed when a user reserves or returns a book,
// together with the eligibility check and the rating arithmetic.
package service

import (
	"errors"
	"fmt"
)

// ErrIneligible is the business rejection of a reserve request: the user
// already has as many books rented as their rating allows.  It is a defined
// negative outcome, not a fault; nothing is retried or compensated.
var ErrIneligible = errors.New("rented book limit reached")

// DeferredError reports an accepted-but-deferred outcome: the request's
// intent was recorded durably but completion is pending the retry
// mechanism.  SagaUID lets the caller correlate the eventual completion.
type DeferredError struct {
	SagaUID string
}

func (e *DeferredError) Error() string {
	return fmt.Sprintf("operation deferred, saga %s", e.SagaUID)
}
