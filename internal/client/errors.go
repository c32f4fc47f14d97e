// Package client contains the typed HTTP clients for the three backend
// services the gateway aggregates: library inventory, user rating and the
// reservation ledger.  Every operation distinguishes availability failures
// from business failures through the sentinel errors below so that callers
// can decide whether compensation or a durable retry is owed.
package client

import "errors"

// ErrUnavailable is returned when a downstream service cannot be reached,
// times out, or answers with a server error.  Handlers translate this into
// an HTTP 503 response.  It is never a business outcome and is never
// retried synchronously by the caller.
var ErrUnavailable = errors.New("downstream service unavailable")

// ErrNotFound is returned when a referenced library, book or reservation
// does not exist downstream.  Handlers translate this into an HTTP 404
// response.
var ErrNotFound = errors.New("not found")
