package handler

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	defaultPage = 0
	defaultSize = 100
	maxSize     = 100
)

var errBadPaging = errors.New("page must be >= 0 and size in 1..100")

// pageSizeParams parses and validates the page/size query parameters common
// to the paginated endpoints.
func pageSizeParams(c echo.Context) (page, size int, err error) {
	page, size = defaultPage, defaultSize
	if v := c.QueryParam("page"); v != "" {
		page, err = strconv.Atoi(v)
		if err != nil || page < 0 {
			return 0, 0, errBadPaging
		}
	}
	if v := c.QueryParam("size"); v != "" {
		size, err = strconv.Atoi(v)
		if err != nil || size < 1 || size > maxSize {
			return 0, 0, errBadPaging
		}
	}
	return page, size, nil
}
