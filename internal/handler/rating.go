package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/book-rental-gateway/internal/middleware"
	"github.com/iliyamo/book-rental-gateway/internal/model"
)

// RatingReader is the slice of the rating system the rating endpoint needs.
type RatingReader interface {
	GetRating(ctx context.Context, username string) (model.UserRating, error)
}

// RatingHandler serves the pass-through rating read.
type RatingHandler struct {
	ratings RatingReader
}

// NewRatingHandler constructs a RatingHandler.
func NewRatingHandler(ratings RatingReader) *RatingHandler {
	if ratings == nil {
		panic("nil client passed to NewRatingHandler")
	}
	return &RatingHandler{ratings: ratings}
}

// GetRating handles GET /api/v1/rating.
func (h *RatingHandler) GetRating(c echo.Context) error {
	username, err := middleware.Username(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthenticated"})
	}
	rating, err := h.ratings.GetRating(c.Request().Context(), username)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, rating)
}
