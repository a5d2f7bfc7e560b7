// Package rewrite contains the tree-rewriting visitors over the clause AST:
// removal, renaming, replacement, named-clause collection, and structural
// equivalence. Every transform is a pure function of its inputs; input trees
// are never mutated.
package rewrite

import (
	"strings"

	"github.com/jqlkit/jqlkit/internal/query"
)

// Remove returns a copy of tree with every terminal, WAS, and CHANGED clause
// whose name is in names (case-insensitive) deleted. AND/OR nodes that lose
// all children collapse to nil and the collapse propagates upward; a NOT
// whose child collapsed is dropped too. A nil result means the whole tree
// was removed. An empty name set behaves as an identity clone.
func Remove(tree query.Clause, names ...string) query.Clause {
	if tree == nil {
		return nil
	}
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[strings.ToLower(n)] = struct{}{}
	}
	r := &remover{names: set}
	return clauseOf(tree.Accept(r))
}

type remover struct {
	names map[string]struct{}
}

func (r *remover) matches(name string) bool {
	_, ok := r.names[strings.ToLower(name)]
	return ok
}

func (r *remover) VisitAnd(c *query.AndClause) any {
	kept := r.keep(c.Clauses())
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	default:
		return query.NewAnd(kept...)
	}
}

func (r *remover) VisitOr(c *query.OrClause) any {
	kept := r.keep(c.Clauses())
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	default:
		return query.NewOr(kept...)
	}
}

func (r *remover) VisitNot(c *query.NotClause) any {
	child := clauseOf(c.Clause().Accept(r))
	if child == nil {
		return nil
	}
	return query.NewNot(child)
}

func (r *remover) VisitTerminal(c *query.TerminalClause) any {
	if r.matches(c.Name()) {
		return nil
	}
	return query.Clause(c)
}

func (r *remover) VisitWas(c *query.WasClause) any {
	if r.matches(c.Name()) {
		return nil
	}
	return query.Clause(c)
}

func (r *remover) VisitChanged(c *query.ChangedClause) any {
	if r.matches(c.Name()) {
		return nil
	}
	return query.Clause(c)
}

func (r *remover) keep(children []query.Clause) []query.Clause {
	kept := make([]query.Clause, 0, len(children))
	for _, child := range children {
		if rewritten := clauseOf(child.Accept(r)); rewritten != nil {
			kept = append(kept, rewritten)
		}
	}
	return kept
}

// clauseOf unwraps a visitor result into a Clause, treating both untyped nil
// and typed-nil values as "no clause".
func clauseOf(v any) query.Clause {
	if v == nil {
		return nil
	}
	c, ok := v.(query.Clause)
	if !ok {
		return nil
	}
	return c
}
