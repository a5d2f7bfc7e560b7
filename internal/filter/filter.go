// Package filter defines saved searches: a named, shareable query owned by a
// user, together with the store interface for persisting them.
//
// The concrete store lives in the sqlite sub-package; the caching decorator
// in the cache sub-package. Consumers depend on the Store interface so either
// can be substituted.
package filter

import (
	"errors"

	"github.com/jqlkit/jqlkit/internal/query"
)

// ErrNotFound is returned by mutating operations aimed at a request that
// does not exist. Lookups report absence as a nil result instead.
var ErrNotFound = errors.New("search request not found")

// ErrDuplicateName is returned when creating or renaming a request would
// give its owner two requests with the same name.
var ErrDuplicateName = errors.New("owner already has a search request with that name")

// ShareType says who a share permission grants visibility to.
type ShareType string

const (
	// ShareGlobal makes the request visible to everyone.
	ShareGlobal ShareType = "global"

	// ShareGroup makes the request visible to one group's members.
	ShareGroup ShareType = "group"

	// ShareProject makes the request visible to a project's members,
	// optionally narrowed to one role.
	ShareProject ShareType = "project"
)

// SharePermission is one grant of visibility on a saved search.
type SharePermission struct {
	Type      ShareType
	Group     string // ShareGroup
	ProjectID int64  // ShareProject
	RoleID    int64  // ShareProject; 0 means any member
}

// SearchRequest is a saved search. ID is zero until the request is stored.
//
// Loaded and Modified are session state, never persisted: Loaded marks a
// request the viewer opened from the store, Modified that their working copy
// has drifted from the stored one.
type SearchRequest struct {
	ID             int64
	Name           string
	Description    string
	OwnerKey       string
	Query          *query.Query
	FavouriteCount int64
	Permissions    []SharePermission

	Loaded   bool
	Modified bool
}

// Clone returns a deep-enough copy: the permission slice is fresh, while the
// query is shared because clause trees are immutable.
func (sr *SearchRequest) Clone() *SearchRequest {
	if sr == nil {
		return nil
	}
	out := *sr
	out.Permissions = append([]SharePermission(nil), sr.Permissions...)
	return &out
}

// Store persists search requests. Lookups return nil (or an empty slice) for
// absent requests; only infrastructure failures surface as errors. Mutations
// aimed at a missing request return ErrNotFound.
type Store interface {
	// Create stores a new request and returns it with its assigned ID.
	Create(sr *SearchRequest) (*SearchRequest, error)

	// Update rewrites an existing request in place, matched by ID.
	Update(sr *SearchRequest) (*SearchRequest, error)

	// Delete removes a request by ID.
	Delete(id int64) error

	// AdjustFavouriteCount changes a request's favourite tally by delta,
	// clamping at zero, and returns the updated request.
	AdjustFavouriteCount(id int64, delta int64) (*SearchRequest, error)

	// GetByID returns the request with the given ID, or nil.
	GetByID(id int64) (*SearchRequest, error)

	// GetByOwnerAndName returns the owner's request with that exact name,
	// or nil.
	GetByOwnerAndName(owner, name string) (*SearchRequest, error)

	// GetAllOwnedBy returns every request the owner has, ordered by name.
	GetAllOwnedBy(owner string) ([]*SearchRequest, error)

	// FindByNameIgnoreCase returns every request whose name matches,
	// ignoring case, across all owners.
	FindByNameIgnoreCase(name string) ([]*SearchRequest, error)
}
