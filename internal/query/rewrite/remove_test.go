package rewrite

import (
	"testing"

	"github.com/jqlkit/jqlkit/internal/query"
)

func TestRemoveEmptySetIsIdentity(t *testing.T) {
	tree := query.NewAnd(
		query.NewTerminalString("status", query.OpEquals, "Open"),
		query.NewNot(query.NewTerminalString("assignee", query.OpEquals, "bob")),
	)

	got := Remove(tree)
	if !ClauseEqual(tree, got) {
		t.Errorf("Remove with empty set changed the tree: %s", got)
	}
}

func TestRemoveAbsentNameIsIdentity(t *testing.T) {
	tree := query.NewOr(
		query.NewTerminalString("status", query.OpEquals, "Open"),
		query.NewTerminalString("assignee", query.OpEquals, "bob"),
	)

	got := Remove(tree, "reporter")
	if !ClauseEqual(tree, got) {
		t.Errorf("removing an absent name changed the tree: %s", got)
	}
}

func TestRemoveSingleSurvivorCollapsesAnd(t *testing.T) {
	tree := query.NewAnd(
		query.NewTerminalString("status", query.OpEquals, "Open"),
		query.NewTerminalString("assignee", query.OpEquals, "bob"),
	)

	got := Remove(tree, "status")
	want := query.NewTerminalString("assignee", query.OpEquals, "bob")
	if !ClauseEqual(want, got) {
		t.Errorf("Remove(status) = %v, want bare assignee terminal", got)
	}

	if got := Remove(tree, "status", "assignee"); got != nil {
		t.Errorf("removing every child should collapse to nil, got %s", got)
	}
}

func TestRemoveCollapsePropagates(t *testing.T) {
	// NOT(a) loses its child entirely.
	if got := Remove(query.NewNot(query.NewTerminalString("a", query.OpEquals, "1")), "a"); got != nil {
		t.Errorf("NOT with removed child should collapse to nil, got %s", got)
	}

	// The collapse of an inner OR must ripple into the outer AND.
	tree := query.NewAnd(
		query.NewOr(
			query.NewTerminalString("status", query.OpEquals, "Open"),
			query.NewTerminalString("status", query.OpEquals, "Reopened"),
		),
		query.NewTerminalString("assignee", query.OpEquals, "bob"),
	)
	got := Remove(tree, "status")
	want := query.NewTerminalString("assignee", query.OpEquals, "bob")
	if !ClauseEqual(want, got) {
		t.Errorf("collapse did not propagate, got %s", got)
	}
}

func TestRemoveIsCaseInsensitive(t *testing.T) {
	tree := query.NewAnd(
		query.NewTerminalString("FixVersion", query.OpEquals, "2.0"),
		query.NewTerminalString("assignee", query.OpEquals, "bob"),
	)

	got := Remove(tree, "fixversion")
	want := query.NewTerminalString("assignee", query.OpEquals, "bob")
	if !ClauseEqual(want, got) {
		t.Errorf("case-insensitive removal failed, got %s", got)
	}
}

func TestRemoveHistoricalClauses(t *testing.T) {
	tree := query.NewAnd(
		query.NewWas("status", query.OpWas, query.NewStringOperand("Open"), nil),
		query.NewChanged("assignee", query.OpChanged, nil),
		query.NewTerminalString("reporter", query.OpEquals, "alice"),
	)

	got := Remove(tree, "status", "assignee")
	want := query.NewTerminalString("reporter", query.OpEquals, "alice")
	if !ClauseEqual(want, got) {
		t.Errorf("historical clause removal failed, got %s", got)
	}
}

func TestRemoveDoesNotMutateInput(t *testing.T) {
	tree := query.NewAnd(
		query.NewTerminalString("status", query.OpEquals, "Open"),
		query.NewTerminalString("assignee", query.OpEquals, "bob"),
	)
	before := tree.String()

	Remove(tree, "status")
	if tree.String() != before {
		t.Errorf("input tree mutated: %s", tree)
	}
}

func TestRemoveNilTree(t *testing.T) {
	if got := Remove(nil, "status"); got != nil {
		t.Errorf("Remove(nil) = %v, want nil", got)
	}
}
