package country

import "sync"

// Cache is a bounded lookup cache the caller constructs and owns, replacing
// any process-wide static cache. Eviction is FIFO by insertion order: when
// full, the oldest inserted entry is dropped regardless of how recently it
// was read. Safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]string
	order    []string
}

// NewCache creates a cache holding at most capacity entries. A capacity of
// zero or less disables caching (every Put is a no-op).
func NewCache(capacity int) *Cache {
	return &Cache{
		capacity: capacity,
		entries:  make(map[string]string),
	}
}

// Get returns the cached value for key.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

// Put stores a value, evicting the oldest entry when the cache is full.
func (c *Cache) Put(key, value string) {
	if c.capacity <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		c.entries[key] = value
		return
	}
	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = value
	c.order = append(c.order, key)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Resolver performs phone-number lookups through an optional caller-owned
// cache.
type Resolver struct {
	cache *Cache
}

// NewResolver creates a resolver. cache may be nil to disable caching.
func NewResolver(cache *Cache) *Resolver {
	return &Resolver{cache: cache}
}

// ISO2ByCallingCode resolves a phone number's country, consulting the cache
// first and recording the result on a miss.
func (r *Resolver) ISO2ByCallingCode(number string) (string, bool) {
	digits := normalizeNumber(number)
	if digits == "" {
		return "", false
	}
	if r.cache != nil {
		if iso2, ok := r.cache.Get(digits); ok {
			return iso2, iso2 != ""
		}
	}
	iso2, ok := ISO2ByCallingCode(digits)
	if r.cache != nil {
		// Negative results are cached as empty strings.
		r.cache.Put(digits, iso2)
	}
	return iso2, ok
}
