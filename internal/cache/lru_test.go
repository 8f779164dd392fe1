package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time { return f.now }

func newTestLRU(capacity int, ttl time.Duration) (*LRU, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewLRU(capacity, ttl)
	c.nowFn = clock.Now
	return c, clock
}

func TestLRU_GetPut(t *testing.T) {
	c, _ := newTestLRU(2, time.Minute)

	_, ok := c.Get("missing")
	require.False(t, ok)

	c.Put("a", Entry{Status: 200, ContentType: "application/json", Body: []byte(`{"a":1}`)})
	got, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, 200, got.Status)
	require.Equal(t, `{"a":1}`, string(got.Body))
}

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestLRU(2, time.Minute)

	c.Put("a", Entry{Body: []byte("a")})
	c.Put("b", Entry{Body: []byte("b")})

	// touch a so b becomes the eviction candidate
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Put("c", Entry{Body: []byte("c")})

	_, ok = c.Get("b")
	require.False(t, ok)
	_, ok = c.Get("a")
	require.True(t, ok)
	_, ok = c.Get("c")
	require.True(t, ok)
	require.Equal(t, 2, c.Len())
}

func TestLRU_ExpiresAfterTTL(t *testing.T) {
	c, clock := newTestLRU(4, 5*time.Minute)

	c.Put("k", Entry{Body: []byte("v")})

	clock.now = clock.now.Add(5*time.Minute - time.Second)
	_, ok := c.Get("k")
	require.True(t, ok)

	clock.now = clock.now.Add(time.Second)
	_, ok = c.Get("k")
	require.False(t, ok)
	require.Equal(t, 0, c.Len())
}

func TestLRU_PutRefreshesExpiry(t *testing.T) {
	c, clock := newTestLRU(4, time.Minute)

	c.Put("k", Entry{Body: []byte("old")})
	clock.now = clock.now.Add(50 * time.Second)
	c.Put("k", Entry{Body: []byte("new")})
	clock.now = clock.now.Add(50 * time.Second)

	got, ok := c.Get("k")
	require.True(t, ok)
	require.Equal(t, "new", string(got.Body))
	require.Equal(t, 1, c.Len())
}

func TestLRU_ReturnsCopies(t *testing.T) {
	c, _ := newTestLRU(1, time.Minute)

	body := []byte("abc")
	c.Put("k", Entry{Body: body})
	body[0] = 'x'

	got, _ := c.Get("k")
	require.Equal(t, "abc", string(got.Body))

	got.Body[0] = 'y'
	again, _ := c.Get("k")
	require.Equal(t, "abc", string(again.Body))
}

func TestLRU_InvalidateAndClear(t *testing.T) {
	c, _ := newTestLRU(4, time.Minute)

	c.Put("a", Entry{})
	c.Put("b", Entry{})

	c.Invalidate("a")
	_, ok := c.Get("a")
	require.False(t, ok)

	c.Clear()
	require.Equal(t, 0, c.Len())
}
