package rewrite

import "github.com/jqlkit/jqlkit/internal/query"

// Collected is the outcome of gathering a field's clauses from a tree.
type Collected struct {
	// Clauses holds the matching terminal and historical clauses in
	// traversal order. Order is stable so UI re-rendering is deterministic.
	Clauses []query.Clause

	// Simple is false when any matching clause sits beneath an OR or NOT
	// node. Such structures cannot be reproduced by a flat field editor,
	// so form-fit checks must fail.
	Simple bool
}

// CollectNamed walks tree and gathers every terminal, WAS, and CHANGED
// clause whose name is one of names. A nil tree collects nothing and is
// trivially simple.
func CollectNamed(tree query.Clause, names query.ClauseNames) Collected {
	c := &collector{names: names, simple: true}
	if tree != nil {
		tree.Accept(c)
	}
	return Collected{Clauses: c.clauses, Simple: c.simple}
}

type collector struct {
	names   query.ClauseNames
	clauses []query.Clause
	simple  bool
	guarded bool // true while under an OR or NOT node
}

func (c *collector) VisitAnd(cl *query.AndClause) any {
	for _, child := range cl.Clauses() {
		child.Accept(c)
	}
	return nil
}

func (c *collector) VisitOr(cl *query.OrClause) any {
	c.descendGuarded(cl.Clauses())
	return nil
}

func (c *collector) VisitNot(cl *query.NotClause) any {
	c.descendGuarded(cl.Clauses())
	return nil
}

func (c *collector) VisitTerminal(cl *query.TerminalClause) any {
	c.match(cl)
	return nil
}

func (c *collector) VisitWas(cl *query.WasClause) any {
	c.match(cl)
	return nil
}

func (c *collector) VisitChanged(cl *query.ChangedClause) any {
	c.match(cl)
	return nil
}

func (c *collector) match(cl query.Clause) {
	if !c.names.Contains(cl.Name()) {
		return
	}
	c.clauses = append(c.clauses, cl)
	if c.guarded {
		c.simple = false
	}
}

func (c *collector) descendGuarded(children []query.Clause) {
	was := c.guarded
	c.guarded = true
	for _, child := range children {
		child.Accept(c)
	}
	c.guarded = was
}
