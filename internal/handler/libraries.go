package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/book-rental-gateway/internal/model"
)

// LibraryBrowser is the slice of the library system the browse endpoints
// need.  It is an interface so handler tests can substitute a fake.
type LibraryBrowser interface {
	GetLibraries(ctx context.Context, city string, page, size int) (model.LibrariesPagination, error)
	GetLibrary(ctx context.Context, libraryUID string) (model.Library, error)
	GetBooks(ctx context.Context, libraryUID string, page, size int, showAll bool) (model.BooksPagination, error)
	GetBook(ctx context.Context, libraryUID, bookUID string) (model.Book, error)
}

// LibraryHandler serves the pass-through browse endpoints: libraries in a
// city and books in a library.  Both are plain single-call reads with
// response reshaping done downstream.
type LibraryHandler struct {
	library LibraryBrowser
}

// NewLibraryHandler constructs a LibraryHandler.
func NewLibraryHandler(library LibraryBrowser) *LibraryHandler {
	if library == nil {
		panic("nil client passed to NewLibraryHandler")
	}
	return &LibraryHandler{library: library}
}

// GetLibraries handles GET /api/v1/libraries?city=&page=&size=.
func (h *LibraryHandler) GetLibraries(c echo.Context) error {
	city := c.QueryParam("city")
	if city == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "city is required"})
	}
	page, size, err := pageSizeParams(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}

	libraries, err := h.library.GetLibraries(c.Request().Context(), city, page, size)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, libraries)
}

// GetBooks handles GET /api/v1/libraries/:libraryUid/books?page=&size=&showAll=.
func (h *LibraryHandler) GetBooks(c echo.Context) error {
	libraryUID := c.Param("libraryUid")
	page, size, err := pageSizeParams(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}
	showAll, _ := strconv.ParseBool(c.QueryParam("showAll"))

	books, err := h.library.GetBooks(c.Request().Context(), libraryUID, page, size, showAll)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, books)
}
