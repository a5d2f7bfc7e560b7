package rewrite

import (
	"strings"

	"github.com/jqlkit/jqlkit/internal/query"
)

// ClauseEqual reports structural equivalence of two clause trees. Child
// order inside AND/OR nodes and element order inside multi-value operands do
// not matter; operator identity and (case-insensitive) clause names do. Two
// nil trees are equivalent.
func ClauseEqual(a, b query.Clause) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	m := &clauseMatcher{other: b}
	return a.Accept(m).(bool)
}

// QueryEqual decides whether two queries are "the same" for modified-flag
// purposes. When both carry literal JQL text the strings are compared
// directly; otherwise the where clauses are compared structurally and the
// order-by sequences exactly.
func QueryEqual(a, b *query.Query) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.QueryString() != "" && b.QueryString() != "" {
		return a.QueryString() == b.QueryString()
	}
	return ClauseEqual(a.Where(), b.Where()) && a.OrderBy().Equal(b.OrderBy())
}

// clauseMatcher compares the visited clause against the clause held in
// other. Each visit method asserts the counterpart's variant; a variant
// mismatch is simply inequality.
type clauseMatcher struct {
	other query.Clause
}

func (m *clauseMatcher) VisitAnd(c *query.AndClause) any {
	o, ok := m.other.(*query.AndClause)
	return ok && childrenEquivalent(c.Clauses(), o.Clauses())
}

func (m *clauseMatcher) VisitOr(c *query.OrClause) any {
	o, ok := m.other.(*query.OrClause)
	return ok && childrenEquivalent(c.Clauses(), o.Clauses())
}

func (m *clauseMatcher) VisitNot(c *query.NotClause) any {
	o, ok := m.other.(*query.NotClause)
	return ok && ClauseEqual(c.Clause(), o.Clause())
}

func (m *clauseMatcher) VisitTerminal(c *query.TerminalClause) any {
	o, ok := m.other.(*query.TerminalClause)
	return ok &&
		strings.EqualFold(c.Name(), o.Name()) &&
		c.Operator() == o.Operator() &&
		OperandEqual(c.Operand(), o.Operand())
}

func (m *clauseMatcher) VisitWas(c *query.WasClause) any {
	o, ok := m.other.(*query.WasClause)
	return ok &&
		strings.EqualFold(c.Name(), o.Name()) &&
		c.Operator() == o.Operator() &&
		OperandEqual(c.Operand(), o.Operand()) &&
		predicateEqual(c.Predicate(), o.Predicate())
}

func (m *clauseMatcher) VisitChanged(c *query.ChangedClause) any {
	o, ok := m.other.(*query.ChangedClause)
	return ok &&
		strings.EqualFold(c.Name(), o.Name()) &&
		c.Operator() == o.Operator() &&
		predicateEqual(c.Predicate(), o.Predicate())
}

// childrenEquivalent matches two child lists as multisets under ClauseEqual.
func childrenEquivalent(a, b []query.Clause) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
outer:
	for _, ca := range a {
		for i, cb := range b {
			if used[i] {
				continue
			}
			if ClauseEqual(ca, cb) {
				used[i] = true
				continue outer
			}
		}
		return false
	}
	return true
}

func predicateEqual(a, b *query.HistoryPredicate) bool {
	if a == nil || b == nil {
		return (a == nil || len(a.Conditions()) == 0) && (b == nil || len(b.Conditions()) == 0)
	}
	ca := a.Conditions()
	cb := b.Conditions()
	if len(ca) != len(cb) {
		return false
	}
	for i := range ca {
		if ca[i].Op != cb[i].Op || !OperandEqual(ca[i].Operand, cb[i].Operand) {
			return false
		}
	}
	return true
}

// OperandEqual reports equivalence of two operands. Multi-value operands are
// compared as multisets; everything else is strict. A numeric 123 and the
// string "123" are not equal: the distinction drives entity-ID resolution.
func OperandEqual(a, b query.Operand) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	m := &operandMatcher{other: b}
	return a.Accept(m).(bool)
}

type operandMatcher struct {
	other query.Operand
}

func (m *operandMatcher) VisitSingleValue(o *query.SingleValueOperand) any {
	ov, ok := m.other.(*query.SingleValueOperand)
	if !ok {
		return false
	}
	n1, num1 := o.Number()
	n2, num2 := ov.Number()
	if num1 != num2 {
		return false
	}
	if num1 {
		return n1 == n2
	}
	return o.Text() == ov.Text()
}

func (m *operandMatcher) VisitMultiValue(o *query.MultiValueOperand) any {
	ov, ok := m.other.(*query.MultiValueOperand)
	if !ok {
		return false
	}
	a := o.Values()
	b := ov.Values()
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
outer:
	for _, va := range a {
		for i, vb := range b {
			if used[i] {
				continue
			}
			if OperandEqual(va, vb) {
				used[i] = true
				continue outer
			}
		}
		return false
	}
	return true
}

func (m *operandMatcher) VisitEmpty(query.EmptyOperand) any {
	_, ok := m.other.(query.EmptyOperand)
	return ok
}

func (m *operandMatcher) VisitFunction(o *query.FunctionOperand) any {
	ov, ok := m.other.(*query.FunctionOperand)
	if !ok {
		return false
	}
	if !strings.EqualFold(o.Name(), ov.Name()) {
		return false
	}
	a := o.Args()
	b := ov.Args()
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
