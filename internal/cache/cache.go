// Package cache memoizes state-file reads for a short, fixed time-to-live so
// frequent redraws do not turn into a disk read per widget.
package cache

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/singleflight"

	"github.com/clawd-ops/missioncontrol/internal/clock"
)

// DefaultTTL is the staleness bound used when none is configured.
const DefaultTTL = 5 * time.Second

var (
	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "missioncontrol_cache_lookups_total",
		Help: "State cache lookups by result",
	}, []string{"result"})

	cacheInvalidations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "missioncontrol_cache_invalidations_total",
		Help: "Explicit invalidate-all calls",
	})
)

type entry struct {
	value       any
	retrievedAt time.Time
}

// Stats is a point-in-time view of cache counters.
type Stats struct {
	Hits    int64
	Misses  int64
	Loads   int64
	Entries int
}

// Cache stores loader results keyed by file name and arguments. An entry is
// served until ttl has passed since it was loaded; after that the next Get
// reloads it whether or not the file changed. Safe for concurrent use:
// simultaneous misses on one key share a single load.
type Cache struct {
	clock clock.Clock
	ttl   time.Duration

	mu         sync.RWMutex
	entries    map[string]entry
	generation uint64
	flight     singleflight.Group

	hits   int64
	misses int64
	loads  int64
}

// New creates a cache with the given ttl. A nil clock uses the wall clock;
// a non-positive ttl uses DefaultTTL.
func New(ttl time.Duration, clk clock.Clock) *Cache {
	if clk == nil {
		clk = clock.Real()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		clock:   clk,
		ttl:     ttl,
		entries: make(map[string]entry),
	}
}

// TTL returns the staleness bound.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Key builds a cache key from a logical file name and call arguments.
func Key(name string, args ...any) string {
	if len(args) == 0 {
		return name
	}
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, name)
	for _, a := range args {
		parts = append(parts, fmt.Sprint(a))
	}
	return strings.Join(parts, "|")
}

// Get returns the fresh cached value for key, or calls load and stores its
// result.
func (c *Cache) Get(key string, load func() any) any {
	now := c.clock.Now()

	c.mu.RLock()
	e, ok := c.entries[key]
	gen := c.generation
	c.mu.RUnlock()

	if ok && now.Sub(e.retrievedAt) < c.ttl {
		atomic.AddInt64(&c.hits, 1)
		cacheLookups.WithLabelValues("hit").Inc()
		return e.value
	}
	atomic.AddInt64(&c.misses, 1)
	cacheLookups.WithLabelValues("miss").Inc()

	// The generation is part of the flight key so a load started before
	// Invalidate is never joined by a caller that came after it.
	flightKey := fmt.Sprintf("%d:%s", gen, key)
	v, _, _ := c.flight.Do(flightKey, func() (any, error) {
		value := load()
		atomic.AddInt64(&c.loads, 1)

		c.mu.Lock()
		if c.generation == gen {
			c.entries[key] = entry{value: value, retrievedAt: c.clock.Now()}
		}
		c.mu.Unlock()
		return value, nil
	})
	return v
}

// Invalidate drops every entry. Loads already in flight finish but their
// results are not stored.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.generation++
	c.mu.Unlock()
	cacheInvalidations.Inc()
}

// Stats returns the cache counters.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	n := len(c.entries)
	c.mu.RUnlock()
	return Stats{
		Hits:    atomic.LoadInt64(&c.hits),
		Misses:  atomic.LoadInt64(&c.misses),
		Loads:   atomic.LoadInt64(&c.loads),
		Entries: n,
	}
}

// Fetch is the typed form of Cache.Get.
func Fetch[T any](c *Cache, key string, load func() T) T {
	v := c.Get(key, func() any { return load() })
	t, _ := v.(T)
	return t
}
