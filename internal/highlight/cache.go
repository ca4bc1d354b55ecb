package highlight

import (
	"container/list"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Cache is a simple LRU cache for highlighted code
type Cache struct {
	mu       sync.Mutex
	capacity int
	items    map[uint64]*list.Element
	order    *list.List
}

type cacheEntry struct {
	key   uint64
	value string
}

// NewCache creates a new LRU cache with the given capacity
func NewCache(capacity int) *Cache {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache{
		capacity: capacity,
		items:    make(map[uint64]*list.Element),
		order:    list.New(),
	}
}

// Get retrieves an item from the cache
func (c *Cache) Get(key uint64) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, exists := c.items[key]
	if !exists {
		return "", false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*cacheEntry).value, true
}

// Set adds an item to the cache
func (c *Cache) Set(key uint64, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, exists := c.items[key]; exists {
		c.order.MoveToFront(elem)
		elem.Value.(*cacheEntry).value = value
		return
	}

	if c.order.Len() >= c.capacity {
		if oldest := c.order.Back(); oldest != nil {
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(*cacheEntry).key)
		}
	}

	c.items[key] = c.order.PushFront(&cacheEntry{key: key, value: value})
}

// Clear empties the cache
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[uint64]*list.Element)
	c.order = list.New()
}

// Len returns the current number of items in the cache
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// cacheKey hashes the full request; NUL separators keep ("a", "bc") and
// ("ab", "c") apart.
func cacheKey(lang, style, code string) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(lang)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(style)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(code)
	return d.Sum64()
}
