package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/book-rental-gateway/internal/client"
	"github.com/iliyamo/book-rental-gateway/internal/service"
)

// writeError maps a downstream or coordinator error onto the gateway's
// response contract: 404 for unknown references, 403 for the business
// rejection, 503 when a backend is unavailable, 500 otherwise.  Deferred
// outcomes are handled by the reserve handler before reaching here.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, client.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"message": "not found"})
	case errors.Is(err, service.ErrIneligible):
		return c.JSON(http.StatusForbidden, echo.Map{"message": "rented book limit reached"})
	case errors.Is(err, client.ErrUnavailable):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"message": "backend service unavailable"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
}
