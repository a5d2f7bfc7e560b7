// Package cache wraps a filter.Store with an in-memory read cache.
//
// Two maps are kept: requests by id, and per-owner id lists. The id map also
// caches absence, so repeated lookups of a deleted request stop hitting the
// backing store. Owner entries hold ids only and are resolved through the id
// map, so a request is cached exactly once.
//
// Entries expire after sitting idle; every hit renews the clock. Mutations
// evict eagerly rather than patching cached state. Concurrent loads of the
// same key may each hit the delegate; the duplicate work is harmless and the
// last write wins.
package cache

import (
	"sync"
	"time"

	"github.com/jqlkit/jqlkit/internal/filter"
)

// DefaultIdleExpiry is how long an entry survives without being read.
const DefaultIdleExpiry = 30 * time.Minute

type idEntry struct {
	sr       *filter.SearchRequest // nil when absent
	absent   bool
	lastUsed time.Time
}

type ownerEntry struct {
	ids      []int64
	lastUsed time.Time
}

// Store is a caching filter.Store decorator. Safe for concurrent use.
type Store struct {
	delegate filter.Store

	mu      sync.Mutex
	byID    map[int64]*idEntry
	byOwner map[string]*ownerEntry
	expiry  time.Duration
	now     func() time.Time
}

var _ filter.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithIdleExpiry overrides how long unread entries are kept.
func WithIdleExpiry(d time.Duration) Option {
	return func(s *Store) { s.expiry = d }
}

// WithClock substitutes the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New returns a caching decorator over delegate.
func New(delegate filter.Store, opts ...Option) *Store {
	s := &Store{
		delegate: delegate,
		byID:     make(map[int64]*idEntry),
		byOwner:  make(map[string]*ownerEntry),
		expiry:   DefaultIdleExpiry,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) GetByID(id int64) (*filter.SearchRequest, error) {
	s.mu.Lock()
	if e, ok := s.liveEntry(id); ok {
		sr := e.sr.Clone()
		s.mu.Unlock()
		return sr, nil
	}
	s.mu.Unlock()

	sr, err := s.delegate.GetByID(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.storeEntry(id, sr)
	s.mu.Unlock()
	return sr.Clone(), nil
}

func (s *Store) GetAllOwnedBy(owner string) ([]*filter.SearchRequest, error) {
	s.mu.Lock()
	if e, ok := s.byOwner[owner]; ok && !s.expired(e.lastUsed) {
		e.lastUsed = s.now()
		ids := append([]int64(nil), e.ids...)
		s.mu.Unlock()
		return s.resolveIDs(ids)
	}
	s.mu.Unlock()

	owned, err := s.delegate.GetAllOwnedBy(owner)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	ids := make([]int64, len(owned))
	out := make([]*filter.SearchRequest, len(owned))
	for i, sr := range owned {
		ids[i] = sr.ID
		s.storeEntry(sr.ID, sr)
		out[i] = sr.Clone()
	}
	s.byOwner[owner] = &ownerEntry{ids: ids, lastUsed: s.now()}
	s.mu.Unlock()
	return out, nil
}

// resolveIDs turns a cached id list back into requests. Requests deleted
// since the list was cached simply drop out.
func (s *Store) resolveIDs(ids []int64) ([]*filter.SearchRequest, error) {
	out := make([]*filter.SearchRequest, 0, len(ids))
	for _, id := range ids {
		sr, err := s.GetByID(id)
		if err != nil {
			return nil, err
		}
		if sr != nil {
			out = append(out, sr)
		}
	}
	return out, nil
}

func (s *Store) GetByOwnerAndName(owner, name string) (*filter.SearchRequest, error) {
	sr, err := s.delegate.GetByOwnerAndName(owner, name)
	if err != nil || sr == nil {
		return sr, err
	}
	s.mu.Lock()
	s.storeEntry(sr.ID, sr)
	s.mu.Unlock()
	return sr.Clone(), nil
}

func (s *Store) FindByNameIgnoreCase(name string) ([]*filter.SearchRequest, error) {
	found, err := s.delegate.FindByNameIgnoreCase(name)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	out := make([]*filter.SearchRequest, len(found))
	for i, sr := range found {
		s.storeEntry(sr.ID, sr)
		out[i] = sr.Clone()
	}
	s.mu.Unlock()
	return out, nil
}

func (s *Store) Create(sr *filter.SearchRequest) (*filter.SearchRequest, error) {
	created, err := s.delegate.Create(sr)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.storeEntry(created.ID, created)
	delete(s.byOwner, created.OwnerKey)
	s.mu.Unlock()
	return created.Clone(), nil
}

func (s *Store) Update(sr *filter.SearchRequest) (*filter.SearchRequest, error) {
	updated, err := s.delegate.Update(sr)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	// An update can move the request between owners; evict the cached
	// previous owner's list as well as the new one's.
	if prev, ok := s.byID[updated.ID]; ok && prev.sr != nil && prev.sr.OwnerKey != updated.OwnerKey {
		delete(s.byOwner, prev.sr.OwnerKey)
	}
	s.storeEntry(updated.ID, updated)
	delete(s.byOwner, updated.OwnerKey)
	s.mu.Unlock()
	return updated.Clone(), nil
}

func (s *Store) Delete(id int64) error {
	// Look the request up first so the owner's list can be evicted.
	sr, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.delegate.Delete(id); err != nil {
		return err
	}
	s.mu.Lock()
	s.storeEntry(id, nil)
	if sr != nil {
		delete(s.byOwner, sr.OwnerKey)
	}
	s.mu.Unlock()
	return nil
}

func (s *Store) AdjustFavouriteCount(id int64, delta int64) (*filter.SearchRequest, error) {
	updated, err := s.delegate.AdjustFavouriteCount(id, delta)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.storeEntry(id, updated)
	s.mu.Unlock()
	return updated.Clone(), nil
}

// InvalidateAll empties both maps.
func (s *Store) InvalidateAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID = make(map[int64]*idEntry)
	s.byOwner = make(map[string]*ownerEntry)
}

// liveEntry returns the unexpired id entry, renewing its idle clock. Expired
// entries are dropped. Caller holds mu.
func (s *Store) liveEntry(id int64) (*idEntry, bool) {
	e, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	if s.expired(e.lastUsed) {
		delete(s.byID, id)
		return nil, false
	}
	e.lastUsed = s.now()
	return e, true
}

// storeEntry caches a request, or its absence when sr is nil. A defensive
// clone is stored so later caller mutations cannot leak in. Caller holds mu.
func (s *Store) storeEntry(id int64, sr *filter.SearchRequest) {
	s.byID[id] = &idEntry{sr: sr.Clone(), absent: sr == nil, lastUsed: s.now()}
}

func (s *Store) expired(lastUsed time.Time) bool {
	return s.now().Sub(lastUsed) > s.expiry
}
