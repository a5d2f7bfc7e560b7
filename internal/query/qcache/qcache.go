// Package qcache memoizes per-user query analysis: whether a query still
// fits the simple filter form, and the search context it was judged in.
// Deciding fitness walks the clause tree and hits entity resolvers, so the
// navigator asks the cache first and recomputes only on a miss.
//
// Entries are keyed by viewer and canonical query text, not the literal the
// user typed, so equivalent spellings share an entry. The cache tolerates
// duplicate concurrent computes for the same key; the last write wins and
// both callers see a correct value.
package qcache

import (
	"sync"
	"time"

	"github.com/jqlkit/jqlkit/internal/query"
	"github.com/jqlkit/jqlkit/internal/query/transform"
)

// DefaultTTL is how long an analysis stays valid without being refreshed.
const DefaultTTL = 30 * time.Minute

// Entry is one cached analysis result.
type Entry struct {
	Fits    bool
	Context transform.Context
}

type cacheKey struct {
	user  string
	query string
}

type cacheEntry struct {
	value   Entry
	expires time.Time
}

// Cache is a TTL-bounded memo of query analyses. Safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[cacheKey]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL overrides the entry lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

// WithClock substitutes the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New returns an empty cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[cacheKey]cacheEntry),
		ttl:     DefaultTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func keyFor(user string, q *query.Query) cacheKey {
	return cacheKey{user: user, query: query.Render(q)}
}

// Get returns the cached analysis for the viewer and query, if present and
// unexpired. Expired entries are dropped on the way out.
func (c *Cache) Get(user string, q *query.Query) (Entry, bool) {
	k := keyFor(user, q)
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[k]
	if !ok {
		return Entry{}, false
	}
	if c.now().After(e.expires) {
		delete(c.entries, k)
		return Entry{}, false
	}
	return e.value, true
}

// Put stores an analysis for the viewer and query, resetting its lifetime.
func (c *Cache) Put(user string, q *query.Query, e Entry) {
	k := keyFor(user, q)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[k] = cacheEntry{value: e, expires: c.now().Add(c.ttl)}
}

// Invalidate drops every entry belonging to the given viewer. Call it when
// the viewer's permissions or entity visibility change.
func (c *Cache) Invalidate(user string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.user == user {
			delete(c.entries, k)
		}
	}
}

// InvalidateAll empties the cache.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]cacheEntry)
}

// Len reports the number of entries, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
