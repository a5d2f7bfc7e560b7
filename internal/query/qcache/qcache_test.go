package qcache

import (
	"sync"
	"testing"
	"time"

	"github.com/jqlkit/jqlkit/internal/query"
	"github.com/jqlkit/jqlkit/internal/query/transform"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func projectQuery(literal string) *query.Query {
	return query.NewQuery(query.NewTerminalString("project", query.OpEquals, "HSP"), nil, literal)
}

func TestCacheHitAndMiss(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)}
	c := New(WithClock(clock.Now))
	q := projectQuery("")

	if _, ok := c.Get("bob", q); ok {
		t.Fatal("expected miss on empty cache")
	}

	want := Entry{Fits: true, Context: transform.Context{ProjectIDs: []int64{10}}}
	c.Put("bob", q, want)

	got, ok := c.Get("bob", q)
	if !ok {
		t.Fatal("expected hit after Put")
	}
	if got.Fits != want.Fits || len(got.Context.ProjectIDs) != 1 || got.Context.ProjectIDs[0] != 10 {
		t.Errorf("got %+v, want %+v", got, want)
	}

	// Another viewer's analysis is a separate entry.
	if _, ok := c.Get("alice", q); ok {
		t.Error("expected miss for a different viewer")
	}
}

func TestCacheKeysOnCanonicalText(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)}
	c := New(WithClock(clock.Now))

	// Same structure, different literal spellings.
	c.Put("bob", projectQuery("project=HSP"), Entry{Fits: true})
	if _, ok := c.Get("bob", projectQuery("project = hsp  ")); !ok {
		t.Error("equivalent spellings should share an entry")
	}
}

func TestCacheExpiry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)}
	c := New(WithClock(clock.Now), WithTTL(10*time.Minute))
	q := projectQuery("")

	c.Put("bob", q, Entry{Fits: true})
	clock.Advance(9 * time.Minute)
	if _, ok := c.Get("bob", q); !ok {
		t.Fatal("entry should survive inside the TTL")
	}

	clock.Advance(2 * time.Minute)
	if _, ok := c.Get("bob", q); ok {
		t.Fatal("entry should expire past the TTL")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry should be dropped, Len = %d", c.Len())
	}

	// A fresh Put resets the lifetime.
	c.Put("bob", q, Entry{Fits: true})
	clock.Advance(9 * time.Minute)
	if _, ok := c.Get("bob", q); !ok {
		t.Error("refreshed entry should survive")
	}
}

func TestCacheInvalidate(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)}
	c := New(WithClock(clock.Now))
	q1 := projectQuery("")
	q2 := query.NewWhereQuery(query.NewTerminalString("assignee", query.OpEquals, "bob"))

	c.Put("bob", q1, Entry{Fits: true})
	c.Put("bob", q2, Entry{Fits: false})
	c.Put("alice", q1, Entry{Fits: true})

	c.Invalidate("bob")
	if _, ok := c.Get("bob", q1); ok {
		t.Error("bob's entries should be gone")
	}
	if _, ok := c.Get("bob", q2); ok {
		t.Error("bob's entries should be gone")
	}
	if _, ok := c.Get("alice", q1); !ok {
		t.Error("alice's entry should survive")
	}

	c.InvalidateAll()
	if c.Len() != 0 {
		t.Errorf("InvalidateAll should empty the cache, Len = %d", c.Len())
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := New()
	q := projectQuery("")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Put("bob", q, Entry{Fits: true})
				c.Get("bob", q)
				c.Invalidate("alice")
			}
		}()
	}
	wg.Wait()
}
