package rewrite

import (
	"strings"

	"github.com/jqlkit/jqlkit/internal/query"
)

// Rename returns a copy of tree with every terminal clause whose name has an
// entry in substitutions renamed to the mapped value. Old names match
// case-insensitively, like clause names everywhere else. Compound nodes are
// cloned recursively. WAS and CHANGED clauses are carried over untouched:
// historical clauses are addressed by a different mechanism and never
// renamed here.
//
// Unlike Remove, no branch is ever deleted, so the result is never nil for a
// non-nil input. A nil substitutions map is a programming error and panics.
func Rename(tree query.Clause, substitutions map[string]string) query.Clause {
	if substitutions == nil {
		panic("rewrite: Rename requires a substitution map")
	}
	if tree == nil {
		return nil
	}
	subs := make(map[string]string, len(substitutions))
	for from, to := range substitutions {
		subs[strings.ToLower(from)] = to
	}
	r := &renamer{subs: subs}
	return clauseOf(tree.Accept(r))
}

type renamer struct {
	subs map[string]string
}

func (r *renamer) VisitAnd(c *query.AndClause) any {
	return query.Clause(query.NewAnd(r.rebuild(c.Clauses())...))
}

func (r *renamer) VisitOr(c *query.OrClause) any {
	return query.Clause(query.NewOr(r.rebuild(c.Clauses())...))
}

func (r *renamer) VisitNot(c *query.NotClause) any {
	return query.Clause(query.NewNot(clauseOf(c.Clause().Accept(r))))
}

func (r *renamer) VisitTerminal(c *query.TerminalClause) any {
	if newName, ok := r.subs[strings.ToLower(c.Name())]; ok {
		return query.Clause(query.NewTerminal(newName, c.Operator(), c.Operand()))
	}
	return query.Clause(c)
}

func (r *renamer) VisitWas(c *query.WasClause) any { return query.Clause(c) }

func (r *renamer) VisitChanged(c *query.ChangedClause) any { return query.Clause(c) }

func (r *renamer) rebuild(children []query.Clause) []query.Clause {
	out := make([]query.Clause, len(children))
	for i, child := range children {
		out[i] = clauseOf(child.Accept(r))
	}
	return out
}
