package client

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/iliyamo/book-rental-gateway/internal/model"
)

// ReservationClient talks to the reservation ledger.  Besides the reads it
// exposes the saga's mutation targets: create, delete (the compensation for
// a failed reserve) and status update.
type ReservationClient struct {
	base
}

// NewReservationClient returns a client for the reservation system at baseURL.
func NewReservationClient(baseURL string, timeout time.Duration) *ReservationClient {
	return &ReservationClient{base{baseURL: baseURL, http: newHTTPClient(timeout)}}
}

// GetReservations lists every reservation of a user.
func (c *ReservationClient) GetReservations(ctx context.Context, username string) ([]model.Reservation, error) {
	var out []model.Reservation
	err := c.do(ctx, http.MethodGet, "/reservations", username, nil, nil, &out)
	return out, err
}

// GetReservation fetches one reservation by uid.
func (c *ReservationClient) GetReservation(ctx context.Context, username, reservationUID string) (model.Reservation, error) {
	var out model.Reservation
	err := c.do(ctx, http.MethodGet, "/reservations/"+reservationUID, username, nil, nil, &out)
	return out, err
}

// GetRentedCount returns how many books the user currently has rented.
func (c *ReservationClient) GetRentedCount(ctx context.Context, username string) (model.RentedBooks, error) {
	var out model.RentedBooks
	err := c.do(ctx, http.MethodGet, "/rented", username, nil, nil, &out)
	return out, err
}

// CreateReservation creates a RENTED record in the ledger and returns it.
func (c *ReservationClient) CreateReservation(ctx context.Context, username string, req model.ReservationRequest) (model.Reservation, error) {
	var out model.Reservation
	err := c.do(ctx, http.MethodPost, "/reservations", username, nil, req, &out)
	return out, err
}

// DeleteReservation removes a reservation record.  Deleting a record that no
// longer exists reports success: the delete is a compensation and must stay
// safe to retry.
func (c *ReservationClient) DeleteReservation(ctx context.Context, username, reservationUID string) error {
	err := c.do(ctx, http.MethodDelete, "/reservations/"+reservationUID, username, nil, nil, nil)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

type statusUpdate struct {
	Status model.Status `json:"status"`
}

// UpdateStatus moves a reservation to the given status.
func (c *ReservationClient) UpdateStatus(ctx context.Context, username, reservationUID string, status model.Status) error {
	path := "/reservations/" + reservationUID + "/return"
	return c.do(ctx, http.MethodPost, path, username, nil, statusUpdate{Status: status}, nil)
}
