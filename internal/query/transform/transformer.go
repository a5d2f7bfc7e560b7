package transform

import (
	"net/url"

	"github.com/jqlkit/jqlkit/internal/query"
	"github.com/jqlkit/jqlkit/internal/query/rewrite"
)

// Context scopes a search to projects and issue types. Transformers that
// resolve project-owned entities may use it to narrow lookups; an empty
// context means "everything".
type Context struct {
	ProjectIDs   []int64
	IssueTypeIDs []string
}

// Transformer maps one field between form parameters and clause fragments.
// Implementations are stateless apart from injected resolvers; every method
// is safe for concurrent use.
type Transformer interface {
	// FieldID is the form parameter namespace and error key for the field.
	FieldID() string

	// ClauseNames are the JQL names this field answers to.
	ClauseNames() query.ClauseNames

	// PopulateFromParams parses raw form parameters into the holder.
	// Unknown or malformed tokens are dropped, never an error.
	PopulateFromParams(user string, h *Holder, params url.Values)

	// PopulateFromQuery regenerates the holder from a stored query's
	// relevant clauses.
	PopulateFromQuery(user string, h *Holder, q *query.Query, ctx Context)

	// Validate checks the holder's values, accumulating failures into errs.
	Validate(user string, h *Holder, errs *ErrorCollection)

	// SearchClause builds this field's clause fragment from the holder.
	// A nil result means the field contributes nothing.
	SearchClause(user string, h *Holder) query.Clause

	// FitsFilterForm reports whether the query's relevant clauses can be
	// reproduced exactly by this field's simple editor.
	FitsFilterForm(user string, q *query.Query, ctx Context) bool
}

// Registry is the ordered set of transformers driving a whole search form.
type Registry struct {
	transformers []Transformer
}

// NewRegistry returns a registry over the given transformers, in order.
func NewRegistry(transformers ...Transformer) *Registry {
	return &Registry{transformers: append([]Transformer(nil), transformers...)}
}

// Transformers returns the registered transformers in order.
func (r *Registry) Transformers() []Transformer {
	return append([]Transformer(nil), r.transformers...)
}

// PopulateFromParams runs every transformer against the raw parameters.
func (r *Registry) PopulateFromParams(user string, h *Holder, params url.Values) {
	for _, t := range r.transformers {
		t.PopulateFromParams(user, h, params)
	}
}

// PopulateFromQuery regenerates the whole form from a stored query.
func (r *Registry) PopulateFromQuery(user string, h *Holder, q *query.Query, ctx Context) {
	for _, t := range r.transformers {
		t.PopulateFromQuery(user, h, q, ctx)
	}
}

// Validate runs every transformer's validation, accumulating all failures.
func (r *Registry) Validate(user string, h *Holder, errs *ErrorCollection) {
	for _, t := range r.transformers {
		t.Validate(user, h, errs)
	}
}

// BuildClause combines every field's contribution: zero clauses yield nil,
// one is returned as-is, several are joined under a single AND.
func (r *Registry) BuildClause(user string, h *Holder) query.Clause {
	var clauses []query.Clause
	for _, t := range r.transformers {
		if c := t.SearchClause(user, h); c != nil {
			clauses = append(clauses, c)
		}
	}
	switch len(clauses) {
	case 0:
		return nil
	case 1:
		return clauses[0]
	default:
		return query.NewAnd(clauses...)
	}
}

// FitsFilterForm reports whether the whole query can be shown in the simple
// form: every leaf clause must be claimed by some registered field and every
// field's own fit check must pass. Queries with no constraints always fit.
func (r *Registry) FitsFilterForm(user string, q *query.Query, ctx Context) bool {
	if q == nil || q.Where() == nil {
		return true
	}

	for _, name := range leafClauseNames(q.Where()) {
		claimed := false
		for _, t := range r.transformers {
			if t.ClauseNames().Contains(name) {
				claimed = true
				break
			}
		}
		if !claimed {
			return false
		}
	}

	for _, t := range r.transformers {
		if !t.FitsFilterForm(user, q, ctx) {
			return false
		}
	}
	return true
}

// leafClauseNames gathers the field name of every terminal and historical
// clause in the tree, in traversal order.
func leafClauseNames(tree query.Clause) []string {
	v := &leafNameVisitor{}
	tree.Accept(v)
	return v.names
}

type leafNameVisitor struct {
	names []string
}

func (v *leafNameVisitor) VisitAnd(c *query.AndClause) any { return v.descend(c.Clauses()) }
func (v *leafNameVisitor) VisitOr(c *query.OrClause) any   { return v.descend(c.Clauses()) }
func (v *leafNameVisitor) VisitNot(c *query.NotClause) any { return v.descend(c.Clauses()) }

func (v *leafNameVisitor) VisitTerminal(c *query.TerminalClause) any {
	v.names = append(v.names, c.Name())
	return nil
}

func (v *leafNameVisitor) VisitWas(c *query.WasClause) any {
	v.names = append(v.names, c.Name())
	return nil
}

func (v *leafNameVisitor) VisitChanged(c *query.ChangedClause) any {
	v.names = append(v.names, c.Name())
	return nil
}

func (v *leafNameVisitor) descend(children []query.Clause) any {
	for _, child := range children {
		child.Accept(v)
	}
	return nil
}

func whereOf(q *query.Query) query.Clause {
	if q == nil {
		return nil
	}
	return q.Where()
}

// selectionClause builds the clause for a select field's chosen operands: a
// lone EMPTY renders as "IS EMPTY", a single value as "=", several as "IN".
func selectionClause(name string, operands []query.Operand) query.Clause {
	switch len(operands) {
	case 0:
		return nil
	case 1:
		if _, empty := operands[0].(query.EmptyOperand); empty {
			return query.NewTerminal(name, query.OpIs, query.Empty)
		}
		return query.NewTerminal(name, query.OpEquals, operands[0])
	default:
		return query.NewTerminal(name, query.OpIn, query.NewMultiValueOperand(operands...))
	}
}

// singleSelectionClause checks the structural half of a select field's fit:
// at most one relevant clause, not under OR or NOT, terminal, and using =,
// IN, or IS EMPTY. It returns (nil, true) when no relevant clause exists and
// (clause, true) when the shape fits; operand leaves are the caller's to
// judge.
func singleSelectionClause(q *query.Query, names query.ClauseNames) (*query.TerminalClause, bool) {
	where := whereOf(q)
	if where == nil {
		return nil, true
	}
	collected := rewrite.CollectNamed(where, names)
	if len(collected.Clauses) == 0 {
		return nil, true
	}
	if !collected.Simple || len(collected.Clauses) > 1 {
		return nil, false
	}
	term, ok := collected.Clauses[0].(*query.TerminalClause)
	if !ok {
		return nil, false
	}
	switch term.Operator() {
	case query.OpEquals, query.OpIn:
		return term, true
	case query.OpIs:
		if _, empty := term.Operand().(query.EmptyOperand); empty {
			return term, true
		}
		return nil, false
	default:
		return nil, false
	}
}

// flattenOperand returns an operand's leaves in order, recursing through
// multi-value lists. Single values, EMPTY, and functions are leaves.
func flattenOperand(op query.Operand) []query.Operand {
	f := &operandFlattener{}
	op.Accept(f)
	return f.leaves
}

type operandFlattener struct {
	leaves []query.Operand
}

func (f *operandFlattener) VisitSingleValue(o *query.SingleValueOperand) any {
	f.leaves = append(f.leaves, o)
	return nil
}

func (f *operandFlattener) VisitMultiValue(o *query.MultiValueOperand) any {
	for _, v := range o.Values() {
		v.Accept(f)
	}
	return nil
}

func (f *operandFlattener) VisitEmpty(o query.EmptyOperand) any {
	f.leaves = append(f.leaves, o)
	return nil
}

func (f *operandFlattener) VisitFunction(o *query.FunctionOperand) any {
	f.leaves = append(f.leaves, o)
	return nil
}
