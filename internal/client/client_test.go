package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/book-rental-gateway/internal/client"
	"github.com/iliyamo/book-rental-gateway/internal/model"
)

const testTimeout = 2 * time.Second

func TestLibraryClientGetBook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/libraries/lib-1/books/book-1", r.URL.Path)
		_ = json.NewEncoder(w).Encode(model.Book{
			BookUID:        "book-1",
			Name:           "Dune",
			Condition:      model.ConditionGood,
			AvailableCount: 3,
		})
	}))
	defer srv.Close()

	c := client.NewLibraryClient(srv.URL, testTimeout)
	book, err := c.GetBook(context.Background(), "lib-1", "book-1")
	require.NoError(t, err)
	assert.Equal(t, "Dune", book.Name)
	assert.Equal(t, model.ConditionGood, book.Condition)
}

func TestLibraryClientGetBookUnknownCondition(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"bookUid": "book-1"})
	}))
	defer srv.Close()

	c := client.NewLibraryClient(srv.URL, testTimeout)
	book, err := c.GetBook(context.Background(), "lib-1", "book-1")
	require.NoError(t, err)
	assert.Equal(t, model.ConditionUnknown, book.Condition,
		"a missing condition is normalized to the sentinel")
}

func TestClientMapsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such book", http.StatusNotFound)
	}))
	defer srv.Close()

	c := client.NewLibraryClient(srv.URL, testTimeout)
	_, err := c.GetBook(context.Background(), "lib-1", "nope")
	assert.ErrorIs(t, err, client.ErrNotFound)
}

func TestClientMapsServerErrorToUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := client.NewRatingClient(srv.URL, testTimeout)
	_, err := c.GetRating(context.Background(), "alice")
	assert.ErrorIs(t, err, client.ErrUnavailable)
}

func TestClientMapsTimeoutToUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := client.NewRatingClient(srv.URL, 50*time.Millisecond)
	_, err := c.GetRating(context.Background(), "alice")
	assert.ErrorIs(t, err, client.ErrUnavailable)
}

func TestClientMapsConnectionRefusedToUnavailable(t *testing.T) {
	// port 1 is never listening
	c := client.NewReservationClient("http://127.0.0.1:1", testTimeout)
	_, err := c.GetRentedCount(context.Background(), "alice")
	assert.ErrorIs(t, err, client.ErrUnavailable)
}

func TestReservationClientSendsUserHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "alice", r.Header.Get("X-User-Name"))
		assert.Equal(t, http.MethodPost, r.Method)

		var req model.ReservationRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "lib-1", req.LibraryUID)

		_ = json.NewEncoder(w).Encode(model.Reservation{
			ReservationUID: "res-1",
			Status:         model.StatusRented,
			LibraryUID:     req.LibraryUID,
			BookUID:        req.BookUID,
		})
	}))
	defer srv.Close()

	c := client.NewReservationClient(srv.URL, testTimeout)
	res, err := c.CreateReservation(context.Background(), "alice", model.ReservationRequest{
		LibraryUID: "lib-1",
		BookUID:    "book-1",
		TillDate:   model.NewDate(2024, time.March, 10),
	})
	require.NoError(t, err)
	assert.Equal(t, "res-1", res.ReservationUID)
	assert.Equal(t, model.StatusRented, res.Status)
}

func TestDeleteReservationTreatsMissingAsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		http.Error(w, "gone already", http.StatusNotFound)
	}))
	defer srv.Close()

	c := client.NewReservationClient(srv.URL, testTimeout)
	err := c.DeleteReservation(context.Background(), "alice", "res-1")
	assert.NoError(t, err, "double compensation must look like success")
}

func TestLibraryClientPagination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("size"))
		assert.Equal(t, "Moscow", r.URL.Query().Get("city"))
		_ = json.NewEncoder(w).Encode(model.LibrariesPagination{
			Page: 2, PageSize: 10, TotalElements: 25,
			Items: []model.Library{{LibraryUID: "lib-1", City: "Moscow"}},
		})
	}))
	defer srv.Close()

	c := client.NewLibraryClient(srv.URL, testTimeout)
	page, err := c.GetLibraries(context.Background(), "Moscow", 2, 10)
	require.NoError(t, err)
	assert.Equal(t, 25, page.TotalElements)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Moscow", page.Items[0].City)
}
