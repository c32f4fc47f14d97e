// Package router defines how HTTP routes are registered for the gateway.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/book-rental-gateway/internal/config"
	"github.com/iliyamo/book-rental-gateway/internal/handler"
	"github.com/iliyamo/book-rental-gateway/internal/middleware"
)

// Handlers bundles the gateway handlers the routes dispatch to.
type Handlers struct {
	Library     *handler.LibraryHandler
	Rating      *handler.RatingHandler
	Reservation *handler.ReservationHandler
}

// RegisterRoutes wires the public gateway surface.  The management health
// check lives outside /api/v1 and skips every middleware; the API group is
// rate limited, the browse endpoints are additionally cached.  rdb may be
// nil, in which case caching and rate limiting degrade to pass-throughs.
func RegisterRoutes(e *echo.Echo, h Handlers, jwtSecret string, rdb *redis.Client) {
	// Health check for load balancers and monitoring.
	e.GET("/manage/health", handler.Health)

	api := e.Group("/api/v1")
	api.Use(middleware.RateLimit(config.LoadRateLimitConfig(), rdb))
	api.Use(middleware.Identity(jwtSecret))

	// Browse endpoints: single pass-through reads, safe to cache briefly.
	cache := middleware.Cache(config.LoadCacheConfig(), rdb)
	api.GET("/libraries", h.Library.GetLibraries, cache)
	api.GET("/libraries/:libraryUid/books", h.Library.GetBooks, cache)

	// Reservation endpoints: the enriched list and the two saga workflows.
	api.GET("/reservations", h.Reservation.GetReservations)
	api.POST("/reservations", h.Reservation.ReserveBook)
	api.POST("/reservations/:reservationUid/return", h.Reservation.ReturnBook)

	api.GET("/rating", h.Rating.GetRating)
}
