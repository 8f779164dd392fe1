// Package cache holds a bounded, TTL-aware LRU used for per-user response caching.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Entry is a cached HTTP response.
type Entry struct {
	Status      int
	ContentType string
	Body        []byte
}

// LRU is a thread-safe LRU cache whose entries also expire after a fixed TTL.
type LRU struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	items    map[string]*list.Element
	order    *list.List
	nowFn    func() time.Time
}

type lruItem struct {
	key       string
	entry     Entry
	expiresAt time.Time
}

// NewLRU creates a cache holding at most capacity entries for ttl each.
func NewLRU(capacity int, ttl time.Duration) *LRU {
	if capacity < 1 {
		capacity = 1
	}
	return &LRU{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*list.Element),
		order:    list.New(),
		nowFn:    time.Now,
	}
}

// Get returns a copy of the entry for key if it is present and not expired.
func (c *LRU) Get(key string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, exists := c.items[key]
	if !exists {
		return Entry{}, false
	}

	item := elem.Value.(*lruItem)
	if !c.nowFn().Before(item.expiresAt) {
		c.removeElement(elem)
		return Entry{}, false
	}

	// Move to front (most recently used)
	c.order.MoveToFront(elem)
	return copyEntry(item.entry), true
}

// Put stores entry under key, evicting the least recently used entry if full.
func (c *LRU) Put(key string, entry Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.nowFn().Add(c.ttl)

	if elem, exists := c.items[key]; exists {
		c.order.MoveToFront(elem)
		item := elem.Value.(*lruItem)
		item.entry = copyEntry(entry)
		item.expiresAt = expiresAt
		return
	}

	if c.order.Len() >= c.capacity {
		if oldest := c.order.Back(); oldest != nil {
			c.removeElement(oldest)
		}
	}

	elem := c.order.PushFront(&lruItem{key: key, entry: copyEntry(entry), expiresAt: expiresAt})
	c.items[key] = elem
}

// Invalidate removes key from the cache.
func (c *LRU) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, exists := c.items[key]; exists {
		c.removeElement(elem)
	}
}

// Len reports the number of stored entries, expired ones included until touched.
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Clear removes all entries from the cache.
func (c *LRU) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element)
	c.order = list.New()
}

func (c *LRU) removeElement(elem *list.Element) {
	item := elem.Value.(*lruItem)
	delete(c.items, item.key)
	c.order.Remove(elem)
}

func copyEntry(e Entry) Entry {
	body := make([]byte, len(e.Body))
	copy(body, e.Body)
	e.Body = body
	return e
}
