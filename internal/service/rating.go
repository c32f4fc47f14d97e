package service

import "github.com/iliyamo/book-rental-gateway/internal/model"

const (
	damagePenalty = -10
	latePenalty   = -10
	cleanReward   = 1
)

// RatingDelta computes the signed star change and the target reservation
// status for a return.  Penalties are additive: a damaged book costs 10
// stars, a late return costs another 10 and marks the reservation EXPIRED
// instead of RETURNED.  The +1 reward applies only when no penalty
// triggered.
func RatingDelta(recorded, returned model.Condition, returnedAt, due model.Date) (int, model.Status) {
	delta := 0
	status := model.StatusReturned

	if returned != recorded {
		delta += damagePenalty
	}
	if returnedAt.After(due.Time) {
		delta += latePenalty
		status = model.StatusExpired
	}
	if delta == 0 {
		delta = cleanReward
	}
	return delta, status
}
