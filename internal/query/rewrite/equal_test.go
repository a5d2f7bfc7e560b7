package rewrite

import (
	"testing"

	"github.com/jqlkit/jqlkit/internal/query"
)

func TestClauseEqualToleratesReordering(t *testing.T) {
	a := query.NewOr(
		query.NewTerminalString("a", query.OpEquals, "1"),
		query.NewTerminalString("b", query.OpEquals, "2"),
	)
	b := query.NewOr(
		query.NewTerminalString("b", query.OpEquals, "2"),
		query.NewTerminalString("a", query.OpEquals, "1"),
	)

	if !ClauseEqual(a, b) {
		t.Error("reordered OR children should be equivalent")
	}

	differentOp := query.NewOr(
		query.NewTerminalString("b", query.OpNotEquals, "2"),
		query.NewTerminalString("a", query.OpEquals, "1"),
	)
	if ClauseEqual(a, differentOp) {
		t.Error("operator difference must break equivalence")
	}
}

func TestClauseEqualMultiValueReordering(t *testing.T) {
	a := query.NewTerminal("status", query.OpIn, query.NewMultiValueOperand(
		query.NewStringOperand("Open"), query.NewStringOperand("Reopened")))
	b := query.NewTerminal("STATUS", query.OpIn, query.NewMultiValueOperand(
		query.NewStringOperand("Reopened"), query.NewStringOperand("Open")))

	if !ClauseEqual(a, b) {
		t.Error("reordered multi-value elements should be equivalent")
	}
}

func TestClauseEqualStrictOnVariant(t *testing.T) {
	term := query.NewTerminalString("status", query.OpEquals, "Open")
	was := query.NewWas("status", query.OpWas, query.NewStringOperand("Open"), nil)

	if ClauseEqual(term, was) {
		t.Error("terminal and WAS clauses must not be equivalent")
	}
	if !ClauseEqual(nil, nil) {
		t.Error("two nil trees are equivalent")
	}
	if ClauseEqual(term, nil) {
		t.Error("nil vs non-nil must not be equivalent")
	}
}

func TestOperandEqualNumericStringDistinct(t *testing.T) {
	num := query.NewNumberOperand(123)
	str := query.NewStringOperand("123")

	if OperandEqual(num, str) {
		t.Error("numeric 123 and string \"123\" must differ; the distinction drives ID resolution")
	}
	if !OperandEqual(num, query.NewNumberOperand(123)) {
		t.Error("equal numbers should match")
	}
}

func TestOperandEqualFunctionNameFolded(t *testing.T) {
	a := query.NewFunctionOperand("currentUser")
	b := query.NewFunctionOperand("CURRENTUSER")
	if !OperandEqual(a, b) {
		t.Error("function names compare case-insensitively")
	}

	c := query.NewFunctionOperand("membersOf", "a", "b")
	d := query.NewFunctionOperand("membersOf", "b", "a")
	if OperandEqual(c, d) {
		t.Error("function arguments are ordered")
	}
}

func TestQueryEqualStringFastPath(t *testing.T) {
	where := query.NewTerminalString("monkey", query.OpEquals, "monkey")

	a := query.NewQuery(where, query.NewOrderBy(), "monkey = monkey")
	b := query.NewQuery(where, query.NewOrderBy(), "monkey = monkey")
	if !QueryEqual(a, b) {
		t.Error("identical literals should be equal")
	}

	// Same structure but different literal text: the string path wins.
	c := query.NewQuery(where, query.NewOrderBy(), "monkey =    monkey")
	if QueryEqual(a, c) {
		t.Error("literal text takes precedence over structure")
	}
}

func TestQueryEqualStructuralFallback(t *testing.T) {
	a := query.NewWhereQuery(query.NewOr(
		query.NewTerminalString("a", query.OpEquals, "1"),
		query.NewTerminalString("b", query.OpEquals, "2"),
	))
	b := query.NewWhereQuery(query.NewOr(
		query.NewTerminalString("b", query.OpEquals, "2"),
		query.NewTerminalString("a", query.OpEquals, "1"),
	))
	if !QueryEqual(a, b) {
		t.Error("structural fallback should tolerate reordering")
	}

	// Order-by comparison stays exact.
	c := query.NewQuery(a.Where(), query.NewOrderBy(query.SearchSort{Field: "created"}), "")
	d := query.NewQuery(a.Where(), query.NewOrderBy(query.SearchSort{Field: "updated"}), "")
	if QueryEqual(c, d) {
		t.Error("differing order-by must break query equality")
	}

	if !QueryEqual(nil, nil) {
		t.Error("two nil queries are equal")
	}
	if QueryEqual(a, nil) {
		t.Error("nil vs non-nil queries are not equal")
	}
}
