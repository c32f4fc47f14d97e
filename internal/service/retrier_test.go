package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/book-rental-gateway/internal/model"
	"github.com/iliyamo/book-rental-gateway/internal/outbox"
	"github.com/iliyamo/book-rental-gateway/internal/service"
)

func TestRetrierDispatch(t *testing.T) {
	inv, rating, ledger, _ := newFixture(3, 4)
	r := service.NewRetrier(inv, rating, ledger)

	res, err := ledger.CreateReservation(context.Background(), "alice", reserveRequest())
	require.NoError(t, err)

	err = r.Execute(context.Background(), outbox.Task{
		Action:  outbox.ActionDeleteReservation,
		Payload: outbox.Payload{Username: "alice", ReservationUID: res.ReservationUID},
	})
	require.NoError(t, err)
	assert.NotContains(t, ledger.records, res.ReservationUID)

	err = r.Execute(context.Background(), outbox.Task{
		Action:  outbox.ActionReserveBook,
		Payload: outbox.Payload{LibraryUID: "lib-1", BookUID: "book-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, inv.count)

	err = r.Execute(context.Background(), outbox.Task{
		Action:  outbox.ActionReturnBook,
		Payload: outbox.Payload{LibraryUID: "lib-1", BookUID: "book-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, inv.count)

	err = r.Execute(context.Background(), outbox.Task{
		Action:  outbox.ActionApplyRating,
		Payload: outbox.Payload{Username: "alice", Delta: -10},
	})
	require.NoError(t, err)
	assert.Equal(t, []int{-10}, rating.deltas)

	err = r.Execute(context.Background(), outbox.Task{Action: outbox.Action("bogus")})
	assert.Error(t, err)
}

func TestRetrierUpdateStatus(t *testing.T) {
	inv, rating, ledger, _ := newFixture(3, 4)
	r := service.NewRetrier(inv, rating, ledger)

	res, err := ledger.CreateReservation(context.Background(), "alice", model.ReservationRequest{
		LibraryUID: "lib-1",
		BookUID:    "book-1",
		TillDate:   model.NewDate(2024, time.March, 10),
	})
	require.NoError(t, err)

	err = r.Execute(context.Background(), outbox.Task{
		Action:  outbox.ActionUpdateStatus,
		Payload: outbox.Payload{Username: "alice", ReservationUID: res.ReservationUID, Status: model.StatusReturned},
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusReturned, ledger.records[res.ReservationUID].Status)
}
