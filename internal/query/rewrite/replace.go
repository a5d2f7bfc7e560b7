package rewrite

import (
	"strings"

	"github.com/jqlkit/jqlkit/internal/query"
)

// Replace returns a copy of tree with every terminal clause whose name
// matches (case-insensitive) one of the supplied replacement clauses swapped
// for that replacement verbatim. When the replacement list carries duplicate
// names, the first entry wins. WAS and CHANGED clauses pass through
// unchanged: replacement is defined for simple terminals only. The result is
// never nil for a non-nil input.
func Replace(tree query.Clause, replacements []*query.TerminalClause) query.Clause {
	if tree == nil {
		return nil
	}
	byName := make(map[string]*query.TerminalClause, len(replacements))
	for _, rep := range replacements {
		key := strings.ToLower(rep.Name())
		if _, taken := byName[key]; !taken {
			byName[key] = rep
		}
	}
	r := &replacer{byName: byName}
	return clauseOf(tree.Accept(r))
}

type replacer struct {
	byName map[string]*query.TerminalClause
}

func (r *replacer) VisitAnd(c *query.AndClause) any {
	return query.Clause(query.NewAnd(r.rebuild(c.Clauses())...))
}

func (r *replacer) VisitOr(c *query.OrClause) any {
	return query.Clause(query.NewOr(r.rebuild(c.Clauses())...))
}

func (r *replacer) VisitNot(c *query.NotClause) any {
	return query.Clause(query.NewNot(clauseOf(c.Clause().Accept(r))))
}

func (r *replacer) VisitTerminal(c *query.TerminalClause) any {
	if rep, ok := r.byName[strings.ToLower(c.Name())]; ok {
		return query.Clause(rep)
	}
	return query.Clause(c)
}

func (r *replacer) VisitWas(c *query.WasClause) any { return query.Clause(c) }

func (r *replacer) VisitChanged(c *query.ChangedClause) any { return query.Clause(c) }

func (r *replacer) rebuild(children []query.Clause) []query.Clause {
	out := make([]query.Clause, len(children))
	for i, child := range children {
		out[i] = clauseOf(child.Accept(r))
	}
	return out
}
