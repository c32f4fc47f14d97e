package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/book-rental-gateway/internal/middleware"
	"github.com/iliyamo/book-rental-gateway/internal/model"
	"github.com/iliyamo/book-rental-gateway/internal/service"
)

// Sagas is the coordinator surface the reservation endpoints delegate to.
type Sagas interface {
	Reserve(ctx context.Context, username string, req model.ReservationRequest) (model.ReservationBookResponse, error)
	Return(ctx context.Context, username, reservationUID string, req model.ReturnBookRequest) error
}

// ReservationLister is the slice of the reservation ledger the list
// endpoint needs.
type ReservationLister interface {
	GetReservations(ctx context.Context, username string) ([]model.Reservation, error)
}

// ReservationHandler serves the reservation endpoints: the enriched list
// read and the two saga-backed mutations (reserve, return).
type ReservationHandler struct {
	sagas        Sagas
	reservations ReservationLister
	library      LibraryBrowser
}

// NewReservationHandler constructs a ReservationHandler.  All dependencies
// must be non-nil.
func NewReservationHandler(sagas Sagas, reservations ReservationLister, library LibraryBrowser) *ReservationHandler {
	if sagas == nil || reservations == nil || library == nil {
		panic("nil dependency passed to NewReservationHandler")
	}
	return &ReservationHandler{sagas: sagas, reservations: reservations, library: library}
}

// GetReservations handles GET /api/v1/reservations.  Each reservation is
// enriched with its book and library detail; the supplementary lookups are
// plain reads with no ordering constraints.
func (h *ReservationHandler) GetReservations(c echo.Context) error {
	username, err := middleware.Username(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthenticated"})
	}
	ctx := c.Request().Context()

	reservations, err := h.reservations.GetReservations(ctx, username)
	if err != nil {
		return writeError(c, err)
	}

	out := make([]model.ReservationResponse, 0, len(reservations))
	for _, r := range reservations {
		book, err := h.library.GetBook(ctx, r.LibraryUID, r.BookUID)
		if err != nil {
			return writeError(c, err)
		}
		library, err := h.library.GetLibrary(ctx, r.LibraryUID)
		if err != nil {
			return writeError(c, err)
		}
		out = append(out, model.ReservationResponse{
			ReservationUID: r.ReservationUID,
			Status:         r.Status,
			StartDate:      r.StartDate,
			TillDate:       r.TillDate,
			Book:           book,
			Library:        library,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// ReserveBook handles POST /api/v1/reservations.  A deferred saga outcome
// maps to 202 Accepted with the saga id so the caller can correlate the
// eventual completion.
func (h *ReservationHandler) ReserveBook(c echo.Context) error {
	username, err := middleware.Username(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthenticated"})
	}

	var req model.ReservationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	if req.LibraryUID == "" || req.BookUID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "libraryUid and bookUid are required"})
	}

	result, err := h.sagas.Reserve(c.Request().Context(), username, req)
	if err != nil {
		var deferred *service.DeferredError
		if errors.As(err, &deferred) {
			return c.JSON(http.StatusAccepted, echo.Map{
				"message": "reservation accepted, completion pending retry",
				"sagaUid": deferred.SagaUID,
			})
		}
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// ReturnBook handles POST /api/v1/reservations/:reservationUid/return.
func (h *ReservationHandler) ReturnBook(c echo.Context) error {
	username, err := middleware.Username(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthenticated"})
	}
	reservationUID := c.Param("reservationUid")

	var req model.ReturnBookRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	if req.Condition == "" || req.Date.IsZero() {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "condition and date are required"})
	}

	if err := h.sagas.Return(c.Request().Context(), username, reservationUID, req); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
