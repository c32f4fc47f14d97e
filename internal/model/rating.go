package model

// UserRating is a user's standing in the rating system.  Stars bounds how
// many books the user may rent at once.
type UserRating struct {
	Stars int `json:"stars"`
}
