// Package query defines the immutable JQL clause tree: terminal predicates,
// AND/OR/NOT compounds, historical WAS/CHANGED clauses, and their operands.
//
// Trees are walked exclusively through the visitor protocol: every clause
// variant dispatches to exactly one method of a ClauseVisitor. Rewrites
// (removal, renaming, replacement) and equivalence checks build on that
// protocol in the rewrite subpackage.
//
// All node types are immutable after construction. Accessors return copies
// of internal slices, so sharing subtrees between queries is safe.
package query

import (
	"fmt"
	"strings"
)

// Clause is a node in the where-clause tree.
type Clause interface {
	// Name returns the clause's field name, or the logical operator name
	// for compound clauses ("AND", "OR", "NOT").
	Name() string

	// Clauses returns the node's immediate children. Terminal and
	// historical clauses return nil.
	Clauses() []Clause

	// Accept dispatches to exactly one method of the visitor, passing the
	// receiver, and returns that method's result.
	Accept(v ClauseVisitor) any

	// String renders the clause as JQL text.
	String() string
}

// ClauseVisitor has one method per clause variant. The single dispatch point
// is Clause.Accept; no caller type-switches over clause variants directly.
// Adding a new variant forces every visitor to handle it at compile time.
type ClauseVisitor interface {
	VisitAnd(c *AndClause) any
	VisitOr(c *OrClause) any
	VisitNot(c *NotClause) any
	VisitTerminal(c *TerminalClause) any
	VisitWas(c *WasClause) any
	VisitChanged(c *ChangedClause) any
}

// TerminalClause is a leaf predicate: field, operator, operand.
type TerminalClause struct {
	name    string
	op      Operator
	operand Operand
}

// NewTerminal returns a terminal clause. The operand must not be nil.
func NewTerminal(name string, op Operator, operand Operand) *TerminalClause {
	if operand == nil {
		panic("query: terminal clause requires an operand")
	}
	return &TerminalClause{name: name, op: op, operand: operand}
}

// NewTerminalString is shorthand for a string-valued terminal clause.
func NewTerminalString(name string, op Operator, value string) *TerminalClause {
	return NewTerminal(name, op, NewStringOperand(value))
}

// NewTerminalNumber is shorthand for a number-valued terminal clause.
func NewTerminalNumber(name string, op Operator, value int64) *TerminalClause {
	return NewTerminal(name, op, NewNumberOperand(value))
}

func (c *TerminalClause) Name() string            { return c.name }
func (c *TerminalClause) Clauses() []Clause       { return nil }
func (c *TerminalClause) Operator() Operator      { return c.op }
func (c *TerminalClause) Operand() Operand        { return c.operand }
func (c *TerminalClause) Accept(v ClauseVisitor) any { return v.VisitTerminal(c) }

func (c *TerminalClause) String() string {
	return fmt.Sprintf("%s %s %s", quoteName(c.name), c.op, c.operand.DisplayString())
}

// AndClause is the conjunction of two or more child clauses. Order is
// preserved for rendering but carries no semantic weight.
type AndClause struct {
	clauses []Clause
}

// NewAnd returns the conjunction of the given clauses. Constructing an AND
// with no children is a programming error and panics; callers that may end
// up with zero clauses must omit the node instead.
func NewAnd(clauses ...Clause) *AndClause {
	if len(clauses) == 0 {
		panic("query: AND clause requires at least one child")
	}
	return &AndClause{clauses: append([]Clause(nil), clauses...)}
}

func (c *AndClause) Name() string            { return "AND" }
func (c *AndClause) Clauses() []Clause       { return append([]Clause(nil), c.clauses...) }
func (c *AndClause) Accept(v ClauseVisitor) any { return v.VisitAnd(c) }

func (c *AndClause) String() string {
	return joinClauses(c.clauses, " AND ")
}

// OrClause is the disjunction of two or more child clauses.
type OrClause struct {
	clauses []Clause
}

// NewOr returns the disjunction of the given clauses. Zero children panics,
// as for NewAnd.
func NewOr(clauses ...Clause) *OrClause {
	if len(clauses) == 0 {
		panic("query: OR clause requires at least one child")
	}
	return &OrClause{clauses: append([]Clause(nil), clauses...)}
}

func (c *OrClause) Name() string            { return "OR" }
func (c *OrClause) Clauses() []Clause       { return append([]Clause(nil), c.clauses...) }
func (c *OrClause) Accept(v ClauseVisitor) any { return v.VisitOr(c) }

func (c *OrClause) String() string {
	return joinClauses(c.clauses, " OR ")
}

// NotClause negates a single child clause.
type NotClause struct {
	clause Clause
}

// NewNot returns the negation of the given clause, which must not be nil.
func NewNot(clause Clause) *NotClause {
	if clause == nil {
		panic("query: NOT clause requires a child")
	}
	return &NotClause{clause: clause}
}

func (c *NotClause) Name() string            { return "NOT" }
func (c *NotClause) Clauses() []Clause       { return []Clause{c.clause} }
func (c *NotClause) Clause() Clause          { return c.clause }
func (c *NotClause) Accept(v ClauseVisitor) any { return v.VisitNot(c) }

func (c *NotClause) String() string {
	switch c.clause.(type) {
	case *AndClause, *OrClause:
		return "NOT (" + c.clause.String() + ")"
	default:
		return "NOT " + c.clause.String()
	}
}

// HistoryPredicate is an ordered list of temporal/authorship conditions
// attached to a WAS or CHANGED clause.
type HistoryPredicate struct {
	conditions []PredicateCondition
}

// PredicateCondition pairs a predicate keyword with its operand.
type PredicateCondition struct {
	Op      PredicateOperator
	Operand Operand
}

// NewHistoryPredicate returns a predicate over the given conditions, in order.
func NewHistoryPredicate(conditions ...PredicateCondition) *HistoryPredicate {
	return &HistoryPredicate{conditions: append([]PredicateCondition(nil), conditions...)}
}

// Conditions returns a copy of the ordered condition list.
func (p *HistoryPredicate) Conditions() []PredicateCondition {
	return append([]PredicateCondition(nil), p.conditions...)
}

// String renders the predicate as JQL text.
func (p *HistoryPredicate) String() string {
	parts := make([]string, len(p.conditions))
	for i, c := range p.conditions {
		parts[i] = strings.ToUpper(c.Op.String()) + " " + c.Operand.DisplayString()
	}
	return strings.Join(parts, " ")
}

// WasClause is a historical predicate over a field's past values, e.g.
// `status WAS "Open" BEFORE -2w`. The predicate may be nil.
type WasClause struct {
	name      string
	op        Operator
	operand   Operand
	predicate *HistoryPredicate
}

// NewWas returns a WAS clause. op must be one of the WAS-family operators.
func NewWas(name string, op Operator, operand Operand, predicate *HistoryPredicate) *WasClause {
	if operand == nil {
		panic("query: WAS clause requires an operand")
	}
	return &WasClause{name: name, op: op, operand: operand, predicate: predicate}
}

func (c *WasClause) Name() string                  { return c.name }
func (c *WasClause) Clauses() []Clause             { return nil }
func (c *WasClause) Operator() Operator            { return c.op }
func (c *WasClause) Operand() Operand              { return c.operand }
func (c *WasClause) Predicate() *HistoryPredicate  { return c.predicate }
func (c *WasClause) Accept(v ClauseVisitor) any    { return v.VisitWas(c) }

func (c *WasClause) String() string {
	s := fmt.Sprintf("%s %s %s", quoteName(c.name), strings.ToUpper(c.op.String()), c.operand.DisplayString())
	if c.predicate != nil && len(c.predicate.conditions) > 0 {
		s += " " + c.predicate.String()
	}
	return s
}

// ChangedClause is a historical predicate over a field's transitions, e.g.
// `assignee CHANGED AFTER -1w`. The predicate may be nil.
type ChangedClause struct {
	name      string
	op        Operator
	predicate *HistoryPredicate
}

// NewChanged returns a CHANGED clause. op must be OpChanged or OpNotChanged.
func NewChanged(name string, op Operator, predicate *HistoryPredicate) *ChangedClause {
	return &ChangedClause{name: name, op: op, predicate: predicate}
}

func (c *ChangedClause) Name() string                 { return c.name }
func (c *ChangedClause) Clauses() []Clause            { return nil }
func (c *ChangedClause) Operator() Operator           { return c.op }
func (c *ChangedClause) Predicate() *HistoryPredicate { return c.predicate }
func (c *ChangedClause) Accept(v ClauseVisitor) any   { return v.VisitChanged(c) }

func (c *ChangedClause) String() string {
	s := fmt.Sprintf("%s %s", quoteName(c.name), strings.ToUpper(c.op.String()))
	if c.predicate != nil && len(c.predicate.conditions) > 0 {
		s += " " + c.predicate.String()
	}
	return s
}

func joinClauses(clauses []Clause, sep string) string {
	parts := make([]string, len(clauses))
	for i, cl := range clauses {
		switch cl.(type) {
		case *AndClause, *OrClause:
			parts[i] = "(" + cl.String() + ")"
		default:
			parts[i] = cl.String()
		}
	}
	return strings.Join(parts, sep)
}
