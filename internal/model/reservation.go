package model

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a reservation in the reservation ledger.
type Status string

const (
	StatusRented   Status = "RENTED"
	StatusReturned Status = "RETURNED"
	StatusExpired  Status = "EXPIRED"
)

// Date is a calendar date serialized as "2006-01-02".  The backend services
// exchange rental start and due dates without a time component, so a plain
// time.Time with RFC3339 encoding would not round-trip.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// NewDate builds a Date truncated to midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", d.Format(dateLayout))), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// Reservation mirrors a record in the reservation ledger.
type Reservation struct {
	ReservationUID string `json:"reservationUid"`
	Status         Status `json:"status"`
	StartDate      Date   `json:"startDate"`
	TillDate       Date   `json:"tillDate"`
	LibraryUID     string `json:"libraryUid"`
	BookUID        string `json:"bookUid"`
}

// RentedBooks is the per-user count of currently rented books, used as the
// input to the eligibility check.
type RentedBooks struct {
	Count int `json:"count"`
}

// ReservationRequest is the body of POST /api/v1/reservations.
type ReservationRequest struct {
	LibraryUID string `json:"libraryUid"`
	BookUID    string `json:"bookUid"`
	TillDate   Date   `json:"tillDate"`
}

// ReturnBookRequest is the body of POST /api/v1/reservations/:uid/return.
type ReturnBookRequest struct {
	Condition Condition `json:"condition"`
	Date      Date      `json:"date"`
}

// ReservationResponse is a reservation enriched with the book and library it
// refers to, replacing the raw uid references.
type ReservationResponse struct {
	ReservationUID string  `json:"reservationUid"`
	Status         Status  `json:"status"`
	StartDate      Date    `json:"startDate"`
	TillDate       Date    `json:"tillDate"`
	Book           Book    `json:"book"`
	Library        Library `json:"library"`
}

// ReservationBookResponse is the composite result of a successful reserve
// workflow: the created reservation plus book, library and rating snapshots.
type ReservationBookResponse struct {
	ReservationUID string     `json:"reservationUid"`
	Status         Status     `json:"status"`
	StartDate      Date       `json:"startDate"`
	TillDate       Date       `json:"tillDate"`
	Book           Book       `json:"book"`
	Library        Library    `json:"library"`
	Rating         UserRating `json:"rating"`
}
