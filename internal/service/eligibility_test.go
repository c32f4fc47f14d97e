package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/book-rental-gateway/internal/model"
	"github.com/iliyamo/book-rental-gateway/internal/service"
)

func TestCanReserve(t *testing.T) {
	cases := []struct {
		name   string
		count  int
		stars  int
		expect bool
	}{
		{"below limit", 2, 3, true},
		{"at limit", 3, 3, false},
		{"over limit", 4, 3, false},
		{"nothing rented", 0, 1, true},
		{"zero stars", 0, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := service.CanReserve(model.RentedBooks{Count: tc.count}, model.UserRating{Stars: tc.stars})
			assert.Equal(t, tc.expect, got)
		})
	}
}
