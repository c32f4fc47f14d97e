package client

import (
	"context"
	"net/http"
	"time"

	"github.com/iliyamo/book-rental-gateway/internal/model"
)

// RatingClient talks to the user rating system.
type RatingClient struct {
	base
}

// NewRatingClient returns a client for the rating system at baseURL.
func NewRatingClient(baseURL string, timeout time.Duration) *RatingClient {
	return &RatingClient{base{baseURL: baseURL, http: newHTTPClient(timeout)}}
}

// GetRating fetches the current star count for a user.
func (c *RatingClient) GetRating(ctx context.Context, username string) (model.UserRating, error) {
	var out model.UserRating
	err := c.do(ctx, http.MethodGet, "/rating", username, nil, nil, &out)
	return out, err
}

type ratingDelta struct {
	Stars int `json:"stars"`
}

// UpdateRating applies a signed star delta to the user's rating and returns
// the updated value.  The rating system clamps the result to its bounds.
func (c *RatingClient) UpdateRating(ctx context.Context, username string, delta int) (model.UserRating, error) {
	var out model.UserRating
	err := c.do(ctx, http.MethodPost, "/rating", username, nil, ratingDelta{Stars: delta}, &out)
	return out, err
}
