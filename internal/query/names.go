package query

import "strings"

// ClauseNames is the set of synonymous names a clause may be addressed by.
// Comparisons are case-insensitive throughout.
type ClauseNames struct {
	primary string
	all     map[string]struct{}
}

// NewClauseNames returns a name set with the given primary name and any
// extra synonyms. The primary name is always a member.
func NewClauseNames(primary string, extras ...string) ClauseNames {
	all := make(map[string]struct{}, len(extras)+1)
	all[strings.ToLower(primary)] = struct{}{}
	for _, e := range extras {
		all[strings.ToLower(e)] = struct{}{}
	}
	return ClauseNames{primary: primary, all: all}
}

// Primary returns the canonical name.
func (n ClauseNames) Primary() string { return n.primary }

// Contains reports whether name is one of the clause's names, ignoring case.
func (n ClauseNames) Contains(name string) bool {
	_, ok := n.all[strings.ToLower(name)]
	return ok
}

// All returns every known name, lowercased, in unspecified order.
func (n ClauseNames) All() []string {
	names := make([]string, 0, len(n.all))
	for name := range n.all {
		names = append(names, name)
	}
	return names
}
