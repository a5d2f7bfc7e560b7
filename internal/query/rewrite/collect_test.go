package rewrite

import (
	"testing"

	"github.com/jqlkit/jqlkit/internal/query"
)

func TestCollectNamedGathersInTraversalOrder(t *testing.T) {
	names := query.NewClauseNames("fixVersion", "fixVersions")
	tree := query.NewAnd(
		query.NewTerminalString("fixVersion", query.OpEquals, "1.0"),
		query.NewTerminalString("status", query.OpEquals, "Open"),
		query.NewTerminalString("FIXVERSIONS", query.OpEquals, "2.0"),
	)

	got := CollectNamed(tree, names)
	if len(got.Clauses) != 2 {
		t.Fatalf("collected %d clauses, want 2", len(got.Clauses))
	}
	if got.Clauses[0].Name() != "fixVersion" || got.Clauses[1].Name() != "FIXVERSIONS" {
		t.Errorf("unexpected order: %v, %v", got.Clauses[0].Name(), got.Clauses[1].Name())
	}
	if !got.Simple {
		t.Error("top-level AND matches are simple")
	}
}

func TestCollectNamedMarksGuardedMatches(t *testing.T) {
	names := query.NewClauseNames("status")

	underOr := query.NewOr(
		query.NewTerminalString("status", query.OpEquals, "Open"),
		query.NewTerminalString("assignee", query.OpEquals, "bob"),
	)
	if got := CollectNamed(underOr, names); got.Simple {
		t.Error("match under OR must not be simple")
	}

	underNot := query.NewNot(query.NewTerminalString("status", query.OpEquals, "Open"))
	if got := CollectNamed(underNot, names); got.Simple {
		t.Error("match under NOT must not be simple")
	}

	// An OR elsewhere in the tree does not taint an unguarded match.
	mixed := query.NewAnd(
		query.NewTerminalString("status", query.OpEquals, "Open"),
		query.NewOr(
			query.NewTerminalString("assignee", query.OpEquals, "bob"),
			query.NewTerminalString("reporter", query.OpEquals, "alice"),
		),
	)
	if got := CollectNamed(mixed, names); !got.Simple {
		t.Error("unguarded match should stay simple despite unrelated OR")
	}
}

func TestCollectNamedIncludesHistorical(t *testing.T) {
	names := query.NewClauseNames("status")
	tree := query.NewAnd(
		query.NewWas("status", query.OpWas, query.NewStringOperand("Open"), nil),
		query.NewChanged("status", query.OpChanged, nil),
	)

	got := CollectNamed(tree, names)
	if len(got.Clauses) != 2 {
		t.Fatalf("collected %d clauses, want 2", len(got.Clauses))
	}
}

func TestCollectNamedNilTree(t *testing.T) {
	got := CollectNamed(nil, query.NewClauseNames("status"))
	if len(got.Clauses) != 0 || !got.Simple {
		t.Errorf("nil tree should collect nothing and stay simple: %+v", got)
	}
}
