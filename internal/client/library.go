package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/iliyamo/book-rental-gateway/internal/model"
)

// LibraryClient talks to the library inventory system.  It covers the read
// operations used by the aggregation layer and the two inventory mutations
// (reserve/return) driven by the saga coordinator.
type LibraryClient struct {
	base
}

// NewLibraryClient returns a client for the library system at baseURL.
func NewLibraryClient(baseURL string, timeout time.Duration) *LibraryClient {
	return &LibraryClient{base{baseURL: baseURL, http: newHTTPClient(timeout)}}
}

// GetLibraries lists libraries in a city, paginated.
func (c *LibraryClient) GetLibraries(ctx context.Context, city string, page, size int) (model.LibrariesPagination, error) {
	q := url.Values{}
	q.Set("city", city)
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))

	var out model.LibrariesPagination
	err := c.do(ctx, http.MethodGet, "/libraries", "", q, nil, &out)
	return out, err
}

// GetLibrary fetches a single library by uid.
func (c *LibraryClient) GetLibrary(ctx context.Context, libraryUID string) (model.Library, error) {
	var out model.Library
	err := c.do(ctx, http.MethodGet, "/libraries/"+libraryUID, "", nil, nil, &out)
	return out, err
}

// GetBooks lists books in a library, paginated.  When showAll is false the
// library system hides books with no available copies.
func (c *LibraryClient) GetBooks(ctx context.Context, libraryUID string, page, size int, showAll bool) (model.BooksPagination, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	q.Set("showAll", strconv.FormatBool(showAll))

	var out model.BooksPagination
	err := c.do(ctx, http.MethodGet, "/libraries/"+libraryUID+"/books", "", q, nil, &out)
	return out, err
}

// GetBook fetches one book from one library.  A response without a condition
// is normalized to ConditionUnknown so callers can refuse to compare it.
func (c *LibraryClient) GetBook(ctx context.Context, libraryUID, bookUID string) (model.Book, error) {
	var out model.Book
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/libraries/%s/books/%s", libraryUID, bookUID), "", nil, nil, &out)
	if err == nil && out.Condition == "" {
		out.Condition = model.ConditionUnknown
	}
	return out, err
}

type inventoryRequest struct {
	LibraryUID string `json:"libraryUid"`
	BookUID    string `json:"bookUid"`
}

// ReserveBook decrements the available count of a book, holding one copy.
func (c *LibraryClient) ReserveBook(ctx context.Context, libraryUID, bookUID string) error {
	path := fmt.Sprintf("/libraries/%s/books/%s/reserve", libraryUID, bookUID)
	return c.do(ctx, http.MethodPost, path, "", nil, inventoryRequest{LibraryUID: libraryUID, BookUID: bookUID}, nil)
}

// ReturnBook increments the available count of a book, releasing one copy.
func (c *LibraryClient) ReturnBook(ctx context.Context, libraryUID, bookUID string) error {
	path := fmt.Sprintf("/libraries/%s/books/%s/return", libraryUID, bookUID)
	return c.do(ctx, http.MethodPost, path, "", nil, inventoryRequest{LibraryUID: libraryUID, BookUID: bookUID}, nil)
}
