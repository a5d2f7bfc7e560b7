package filter

import (
	"github.com/jqlkit/jqlkit/internal/query"
	"github.com/jqlkit/jqlkit/internal/query/rewrite"
)

// Factory assembles the SearchRequest a navigator session should hold after
// the viewer runs or edits a search.
type Factory struct{}

// NewFactory returns a Factory.
func NewFactory() *Factory { return &Factory{} }

// CreateNew returns an unsaved request for a search the viewer composed from
// scratch. It is neither loaded nor modified.
func (f *Factory) CreateNew(user string, q *query.Query) *SearchRequest {
	return &SearchRequest{
		OwnerKey: user,
		Query:    q,
	}
}

// CreateFromExisting returns the viewer's working copy of a stored request
// after editing: old's identity and shares with the new name, description,
// and query. The Modified flag compares cheap attributes first and only
// falls back to query comparison when they all match; QueryEqual itself
// tries literal text before structural equivalence.
func (f *Factory) CreateFromExisting(old *SearchRequest, user, name, description string, q *query.Query) *SearchRequest {
	sr := old.Clone()
	sr.Name = name
	sr.Description = description
	sr.Query = q
	sr.Loaded = true
	sr.Modified = f.modified(old, user, name, description, q)
	return sr
}

func (f *Factory) modified(old *SearchRequest, user, name, description string, q *query.Query) bool {
	// The working copy is always loaded, so an unloaded original differs.
	if old.Name != name || old.Description != description || old.OwnerKey != user || !old.Loaded {
		return true
	}
	return !rewrite.QueryEqual(old.Query, q)
}
