package jqlparse

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/jqlkit/jqlkit/internal/query"
)

func mustParse(t *testing.T, jql string) *query.Query {
	t.Helper()
	q, err := New().Parse(jql)
	if err != nil {
		t.Fatalf("Parse(%q): %v", jql, err)
	}
	return q
}

func TestParseRendersCanonically(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "simple equals",
			input: `status = Open`,
			want:  `status = Open`,
		},
		{
			name:  "quoted value",
			input: `status = "In Progress"`,
			want:  `status = "In Progress"`,
		},
		{
			name:  "numeric literal stays numeric",
			input: `project = 10000`,
			want:  `project = 10000`,
		},
		{
			name:  "quoted numeric stays a string",
			input: `fixVersion = "123"`,
			want:  `fixVersion = "123"`,
		},
		{
			name:  "and or precedence",
			input: `a = 1 OR b = 2 AND c = 3`,
			want:  `a = 1 OR (b = 2 AND c = 3)`,
		},
		{
			name:  "parens preserved structurally",
			input: `(a = 1 OR b = 2) AND c = 3`,
			want:  `(a = 1 OR b = 2) AND c = 3`,
		},
		{
			name:  "not binds tight",
			input: `NOT a = 1 AND b = 2`,
			want:  `NOT a = 1 AND b = 2`,
		},
		{
			name:  "in list",
			input: `status in (Open, Reopened, "In Progress")`,
			want:  `status in (Open, Reopened, "In Progress")`,
		},
		{
			name:  "not in",
			input: `status not in (Closed, Resolved)`,
			want:  `status not in (Closed, Resolved)`,
		},
		{
			name:  "is empty",
			input: `fixVersion is EMPTY`,
			want:  `fixVersion is EMPTY`,
		},
		{
			name:  "is not null",
			input: `assignee is not null`,
			want:  `assignee is not EMPTY`,
		},
		{
			name:  "like",
			input: `summary ~ crash`,
			want:  `summary ~ crash`,
		},
		{
			name:  "multibyte quoted value",
			input: `summary ~ "héllo wörld"`,
			want:  `summary ~ "héllo wörld"`,
		},
		{
			name:  "multibyte bare word survives, quoted canonically",
			input: `reporter = rené`,
			want:  `reporter = "rené"`,
		},
		{
			name:  "relational",
			input: `workratio >= 80`,
			want:  `workratio >= 80`,
		},
		{
			name:  "function no args",
			input: `assignee = currentUser()`,
			want:  `assignee = currentUser()`,
		},
		{
			name:  "function with arg",
			input: `assignee in membersOf("jira-developers")`,
			want:  `assignee in membersOf(jira-developers)`,
		},
		{
			name:  "was with predicates",
			input: `status WAS Open BEFORE "-2w" BY bob`,
			want:  `status WAS Open BEFORE "-2w" BY bob`,
		},
		{
			name:  "was not in",
			input: `status was not in (Closed, Done)`,
			want:  `status WAS NOT IN (Closed, Done)`,
		},
		{
			name:  "changed bare",
			input: `assignee CHANGED`,
			want:  `assignee CHANGED`,
		},
		{
			name:  "changed with window",
			input: `status changed AFTER "-1w"`,
			want:  `status CHANGED AFTER "-1w"`,
		},
		{
			name:  "order by only",
			input: `ORDER BY created DESC, key`,
			want:  `ORDER BY created DESC, key`,
		},
		{
			name:  "where plus order by",
			input: `status = Open order by priority ASC`,
			want:  `status = Open ORDER BY priority ASC`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := mustParse(t, tt.input)
			if got := query.Render(q); got != tt.want {
				t.Errorf("Render(Parse(%q)) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseBlankMeansNoConstraints(t *testing.T) {
	for _, input := range []string{"", "   ", "\t\n"} {
		q, err := New().Parse(input)
		if err != nil {
			t.Fatalf("Parse(%q): %v", input, err)
		}
		if q.Where() != nil || q.OrderBy() != nil {
			t.Errorf("Parse(%q) should have no constraints", input)
		}
	}
}

func TestParseKeepsLiteralText(t *testing.T) {
	input := "status =    Open"
	q := mustParse(t, input)
	if q.QueryString() != input {
		t.Errorf("QueryString() = %q, want the original text", q.QueryString())
	}
}

func TestParseErrorsCarryPosition(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing operator", "status Open"},
		{"missing value", "status ="},
		{"unterminated string", `status = "Open`},
		{"dangling paren", "(status = Open"},
		{"bare bang", "status ! Open"},
		{"trailing garbage", "status = Open garbage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Parse(tt.input)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want error", tt.input)
			}
			var perr *query.ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("error is %T, want *query.ParseError", err)
			}
			if perr.Position < 0 || perr.Position > len(tt.input) {
				t.Errorf("position %d out of range for %q", perr.Position, tt.input)
			}
			if perr.MessageKey == "" {
				t.Error("parse error must carry a message key")
			}
		})
	}
}

func TestParseRenderRoundTripIsStable(t *testing.T) {
	inputs := []string{
		`(status = Open OR status = Reopened) AND assignee = currentUser()`,
		`project in (10000, 10001) AND fixVersion is EMPTY ORDER BY created DESC`,
		`status WAS "In Progress" DURING ("-4w", "-1w")`,
		`NOT (summary ~ "server crash" AND priority = Blocker)`,
		`summary ~ "héllo wörld" AND assignee = rené`,
	}

	p := New()
	for _, input := range inputs {
		first := mustParse(t, input)
		rendered := query.Render(first)
		second, err := p.Parse(rendered)
		if err != nil {
			t.Fatalf("reparse of %q: %v", rendered, err)
		}
		if query.Render(second) != rendered {
			t.Errorf("round trip unstable: %q -> %q", rendered, query.Render(second))
		}
	}
}

func TestRenderGolden(t *testing.T) {
	inputs := []string{
		`status = Open AND assignee = bob`,
		`(status = Open OR status = Reopened) AND assignee = currentUser() ORDER BY created DESC, key ASC`,
		`fixVersion in (unreleasedVersions(), "2.0") AND component is not EMPTY`,
		`status WAS NOT Closed BEFORE "-4w" BY bob AND assignee CHANGED AFTER "-1w"`,
		`labels in (bug, regression) AND summary !~ flaky`,
		`ORDER BY priority DESC`,
	}

	var buf bytes.Buffer
	for _, input := range inputs {
		q := mustParse(t, input)
		buf.WriteString(query.Render(q))
		buf.WriteByte('\n')
	}

	g := goldie.New(t)
	g.Assert(t, "render", buf.Bytes())
}
