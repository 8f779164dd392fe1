package middleware

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/salesdash/explore/internal/cache"
	"golang.org/x/sync/singleflight"
)

// CacheStatusHeader reports HIT, MISS or SHARED for cached routes.
const CacheStatusHeader = "X-Cache"

// bodyCapture tees the response body so it can be stored after the handler ran.
type bodyCapture struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyCapture) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyCapture) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Cache serves repeated GET requests from store, keyed by user, path and raw
// query. Only 200 JSON responses are stored, so CSV exports and errors always
// reach the handler. Concurrent misses on one key share a single handler run.
func Cache(store *cache.LRU) gin.HandlerFunc {
	var group singleflight.Group

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := cacheKey(c)
		if entry, ok := store.Get(key); ok {
			replay(c, entry, "HIT")
			return
		}

		leader := false
		v, _, _ := group.Do(key, func() (interface{}, error) {
			leader = true
			capture := &bodyCapture{ResponseWriter: c.Writer}
			c.Writer = capture
			c.Header(CacheStatusHeader, "MISS")
			c.Next()

			entry := cache.Entry{
				Status:      capture.Status(),
				ContentType: capture.Header().Get("Content-Type"),
				Body:        capture.body.Bytes(),
			}
			if cacheable(entry) {
				store.Put(key, entry)
			}
			return entry, nil
		})
		if leader {
			return
		}

		if entry, ok := v.(cache.Entry); ok && cacheable(entry) {
			replay(c, entry, "SHARED")
			return
		}
		c.Next()
	}
}

func cacheKey(c *gin.Context) string {
	user, ok := UserFromContext(c.Request.Context())
	if !ok {
		user = AnonymousUser
	}
	return user + ":" + c.Request.URL.Path + "?" + c.Request.URL.RawQuery
}

func cacheable(e cache.Entry) bool {
	return e.Status == http.StatusOK && strings.HasPrefix(e.ContentType, "application/json")
}

func replay(c *gin.Context, entry cache.Entry, status string) {
	c.Header(CacheStatusHeader, status)
	c.Data(entry.Status, entry.ContentType, entry.Body)
	c.Abort()
}
