package quotes

import (
	"strconv"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Collector holds the messages users gather with /collect until they post
// them with /postquote. Entries expire after the TTL of the last addition and
// at most capacity users are tracked; when full, the user whose collection
// expires first is dropped.
type Collector struct {
	mu       sync.Mutex
	pending  *gocache.Cache
	ttl      time.Duration
	capacity int
}

// NewCollector creates a collector. Expired entries are swept every ttl/2.
func NewCollector(ttl time.Duration, capacity int) *Collector {
	return &Collector{
		pending:  gocache.New(ttl, max(ttl/2, time.Second)),
		ttl:      ttl,
		capacity: capacity,
	}
}

// TTL is how long a collection survives without additions.
func (c *Collector) TTL() time.Duration {
	return c.ttl
}

// Add appends an excerpt to the user's collection, refreshes its expiry and
// returns the new collection size.
func (c *Collector) Add(userID int64, ex Excerpt) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := collectorKey(userID)
	var excerpts []Excerpt
	if v, ok := c.pending.Get(key); ok {
		excerpts = v.([]Excerpt)
	} else {
		c.evictLocked()
	}

	excerpts = append(excerpts, ex)
	c.pending.SetDefault(key, excerpts)
	return len(excerpts)
}

// Take removes and returns the user's collection.
func (c *Collector) Take(userID int64) []Excerpt {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := collectorKey(userID)
	v, ok := c.pending.Get(key)
	if !ok {
		return nil
	}
	c.pending.Delete(key)
	return v.([]Excerpt)
}

// Clear drops the user's collection and reports whether there was one.
func (c *Collector) Clear(userID int64) bool {
	return len(c.Take(userID)) > 0
}

// Len returns the number of users with a live collection.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending.Items())
}

// evictLocked makes room for one more user.
func (c *Collector) evictLocked() {
	items := c.pending.Items()
	if len(items) < c.capacity {
		return
	}

	var oldestKey string
	var oldest int64
	for k, item := range items {
		if oldestKey == "" || item.Expiration < oldest {
			oldestKey, oldest = k, item.Expiration
		}
	}
	c.pending.Delete(oldestKey)
}

func collectorKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}
