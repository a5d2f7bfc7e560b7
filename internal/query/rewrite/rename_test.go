package rewrite

import (
	"testing"

	"github.com/jqlkit/jqlkit/internal/query"
)

func countNodes(c query.Clause) int {
	if c == nil {
		return 0
	}
	n := 1
	for _, child := range c.Clauses() {
		n += countNodes(child)
	}
	return n
}

func TestRenamePreservesShape(t *testing.T) {
	tree := query.NewAnd(
		query.NewOr(
			query.NewTerminalString("cf[10001]", query.OpEquals, "x"),
			query.NewTerminalString("status", query.OpEquals, "Open"),
		),
		query.NewNot(query.NewTerminalString("cf[10001]", query.OpEquals, "y")),
	)

	got := Rename(tree, map[string]string{"cf[10001]": "Team Field"})
	if countNodes(got) != countNodes(tree) {
		t.Fatalf("rename changed node count: %d != %d", countNodes(got), countNodes(tree))
	}

	want := query.NewAnd(
		query.NewOr(
			query.NewTerminalString("Team Field", query.OpEquals, "x"),
			query.NewTerminalString("status", query.OpEquals, "Open"),
		),
		query.NewNot(query.NewTerminalString("Team Field", query.OpEquals, "y")),
	)
	if !ClauseEqual(want, got) {
		t.Errorf("Rename = %s, want %s", got, want)
	}
}

func TestRenameEmptyMapIsIdentity(t *testing.T) {
	tree := query.NewNot(query.NewTerminalString("status", query.OpEquals, "Open"))
	got := Rename(tree, map[string]string{})
	if !ClauseEqual(tree, got) {
		t.Errorf("Rename with empty map changed the tree: %s", got)
	}
}

func TestRenameMatchesCaseInsensitively(t *testing.T) {
	tree := query.NewTerminalString("FixVersion", query.OpEquals, "2.0")
	got := Rename(tree, map[string]string{"fixversion": "fixVersion2"})
	if got.Name() != "fixVersion2" {
		t.Errorf("Name() = %q, want fixVersion2", got.Name())
	}
}

func TestRenameSubstitutionKeysAnyCase(t *testing.T) {
	tree := query.NewTerminalString("status", query.OpEquals, "Open")
	got := Rename(tree, map[string]string{"Status": "state"})
	if got.Name() != "state" {
		t.Errorf("Name() = %q, want state (mixed-case key must still match)", got.Name())
	}
}

func TestRenameLeavesHistoricalClausesAlone(t *testing.T) {
	tree := query.NewAnd(
		query.NewWas("status", query.OpWas, query.NewStringOperand("Open"), nil),
		query.NewChanged("status", query.OpChanged, nil),
		query.NewTerminalString("status", query.OpEquals, "Open"),
	)

	got := Rename(tree, map[string]string{"status": "state"})
	children := got.Clauses()
	if children[0].Name() != "status" || children[1].Name() != "status" {
		t.Error("historical clauses must keep their names")
	}
	if children[2].Name() != "state" {
		t.Errorf("terminal clause not renamed: %q", children[2].Name())
	}
}

func TestRenameNilSubstitutionsPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for nil substitutions")
		}
	}()
	Rename(query.NewTerminalString("a", query.OpEquals, "1"), nil)
}
