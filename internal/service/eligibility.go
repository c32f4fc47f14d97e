package service

import "github.com/iliyamo/book-rental-gateway/internal/model"

// CanReserve decides whether a user may rent another book: eligible iff the
// current rented-book count is strictly below the user's star rating.  Pure
// function, no side effects; with count equal to stars the user is already
// at the limit and the request is rejected.
func CanReserve(rented model.RentedBooks, rating model.UserRating) bool {
	return rented.Count < rating.Stars
}
