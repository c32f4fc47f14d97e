package middleware

// cache.go caches successful GET responses of the library browse endpoints
// in Redis.  The cached entities (library lists, book lists) are owned by
// the library system; the gateway itself holds nothing in process, so a
// stale entry expires with its TTL and never diverges further than that.

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/book-rental-gateway/internal/config"
)

// cachedResponse is the serialized form of one cache entry.
type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// bodyCapture duplicates the response body into a buffer while forwarding
// it to the client, up to a size limit.
type bodyCapture struct {
	http.ResponseWriter
	status  int
	buf     bytes.Buffer
	size    int
	limit   int
	dropped bool
}

func (w *bodyCapture) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *bodyCapture) Write(b []byte) (int, error) {
	w.size += len(b)
	if w.size > w.limit {
		w.dropped = true
	} else {
		w.buf.Write(b)
	}
	return w.ResponseWriter.Write(b)
}

// Cache returns response-cache middleware backed by rdb.  With caching
// disabled or no Redis client available it degrades to a pass-through.
// Only 200 responses to GET requests are stored.
func Cache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}
			key := cacheKey(cfg.Prefix, c)
			ctx := c.Request().Context()

			if raw, err := rdb.Get(ctx, key).Bytes(); err == nil {
				var entry cachedResponse
				if json.Unmarshal(raw, &entry) == nil {
					c.Response().Header().Set(echo.HeaderContentType, entry.ContentType)
					c.Response().Header().Set("X-Cache", "HIT")
					return c.Blob(entry.Status, entry.ContentType, entry.Body)
				}
			}

			capture := &bodyCapture{
				ResponseWriter: c.Response().Writer,
				status:         http.StatusOK,
				limit:          cfg.MaxBodyBytes,
			}
			c.Response().Writer = capture

			if err := next(c); err != nil {
				return err
			}
			if capture.status != http.StatusOK || capture.dropped {
				return nil
			}

			entry := cachedResponse{
				Status:      capture.status,
				ContentType: c.Response().Header().Get(echo.HeaderContentType),
				Body:        capture.buf.Bytes(),
			}
			if raw, err := json.Marshal(entry); err == nil {
				// best effort: a failed store just means a cache miss later
				storeCtx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
				defer cancel()
				_ = rdb.Set(storeCtx, key, raw, cfg.TTL).Err()
			}
			return nil
		}
	}
}

// cacheKey derives a stable key from the matched route and raw query.
func cacheKey(prefix string, c echo.Context) string {
	sum := sha1.Sum([]byte(c.Path() + "?" + c.Request().URL.RawQuery))
	return fmt.Sprintf("%s:%x", prefix, sum)
}
