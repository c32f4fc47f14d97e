package handler // declare the package name; contains HTTP handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is a simple health‑check endpoint used by load balancers and
// monitoring systems to verify that the gateway is running.  It returns an
// HTTP 200 status code with an empty body.
func Health(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}
