package query

import (
	"fmt"
	"strings"
)

// SortDirection orders a search sort ascending or descending. The zero value
// leaves the field's default ordering in effect.
type SortDirection string

const (
	DirectionDefault SortDirection = ""
	DirectionAsc     SortDirection = "ASC"
	DirectionDesc    SortDirection = "DESC"
)

// SearchSort orders results by a single field.
type SearchSort struct {
	Field     string
	Direction SortDirection
}

// OrderBy is the ordered list of sorts attached to a query.
type OrderBy struct {
	sorts []SearchSort
}

// NewOrderBy returns an order-by over the given sorts, in order.
func NewOrderBy(sorts ...SearchSort) *OrderBy {
	return &OrderBy{sorts: append([]SearchSort(nil), sorts...)}
}

// Sorts returns a copy of the ordered sort list.
func (o *OrderBy) Sorts() []SearchSort {
	if o == nil {
		return nil
	}
	return append([]SearchSort(nil), o.sorts...)
}

// Equal reports exact equality of the ordered sort sequences. Unlike clause
// equivalence there is no reordering tolerance: sort order is semantic.
func (o *OrderBy) Equal(other *OrderBy) bool {
	a := o.Sorts()
	b := other.Sorts()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// String renders the order-by as JQL text, without the leading keyword.
func (o *OrderBy) String() string {
	parts := make([]string, len(o.sorts))
	for i, s := range o.sorts {
		parts[i] = quoteName(s.Field)
		if s.Direction != DirectionDefault {
			parts[i] += " " + string(s.Direction)
		}
	}
	return strings.Join(parts, ", ")
}

// Query is a complete search: an optional where clause, an optional order-by,
// and an optional cached JQL text. When the text is present it takes
// precedence over structural comparison for equality checks.
type Query struct {
	where       Clause
	orderBy     *OrderBy
	queryString string
}

// NewQuery returns a query over the given parts. Any of them may be
// nil/empty; a query with no constraints matches everything.
func NewQuery(where Clause, orderBy *OrderBy, queryString string) *Query {
	return &Query{where: where, orderBy: orderBy, queryString: queryString}
}

// NewWhereQuery returns a query with only a where clause.
func NewWhereQuery(where Clause) *Query {
	return &Query{where: where}
}

// Where returns the where clause, or nil for an unconstrained query.
func (q *Query) Where() Clause {
	if q == nil {
		return nil
	}
	return q.where
}

// OrderBy returns the order-by, or nil when unspecified.
func (q *Query) OrderBy() *OrderBy {
	if q == nil {
		return nil
	}
	return q.orderBy
}

// QueryString returns the cached literal JQL text, if any.
func (q *Query) QueryString() string {
	if q == nil {
		return ""
	}
	return q.queryString
}

// String renders the query as JQL text, preferring the cached literal.
func (q *Query) String() string {
	if q == nil {
		return ""
	}
	if q.queryString != "" {
		return q.queryString
	}
	return Render(q)
}

// Parser turns JQL text into a query. The grammar is owned by the
// implementation; this package defines only the contract and the shape of a
// structured parse failure.
type Parser interface {
	Parse(jql string) (*Query, error)
}

// ParseError is a structured parse failure with a message key and the
// offending position in the input.
type ParseError struct {
	MessageKey string
	Position   int
	Detail     string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("jql parse error at position %d: %s", e.Position, e.Detail)
}
