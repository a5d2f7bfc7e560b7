package transform

import (
	"net/url"
	"strconv"

	"github.com/jqlkit/jqlkit/internal/query"
	"github.com/jqlkit/jqlkit/internal/query/rewrite"
	"github.com/jqlkit/jqlkit/internal/resolver"
)

// ProjectTransformer handles the project selector. Form values are project
// ids; clauses may use ids, keys, or names interchangeably.
type ProjectTransformer struct {
	fieldID  string
	names    query.ClauseNames
	projects resolver.Projects
	key      Key[[]ProjectInput]
}

// NewProjectTransformer returns a project transformer. The conventional
// field id is "pid".
func NewProjectTransformer(fieldID string, names query.ClauseNames, projects resolver.Projects) *ProjectTransformer {
	return &ProjectTransformer{
		fieldID:  fieldID,
		names:    names,
		projects: projects,
		key:      NewKey[[]ProjectInput](fieldID),
	}
}

func (t *ProjectTransformer) FieldID() string                { return t.fieldID }
func (t *ProjectTransformer) ClauseNames() query.ClauseNames { return t.names }
func (t *ProjectTransformer) Key() Key[[]ProjectInput]       { return t.key }

func (t *ProjectTransformer) PopulateFromParams(user string, h *Holder, params url.Values) {
	var inputs []ProjectInput
	for _, raw := range params[t.fieldID] {
		if raw == "" || raw == noSelectionValue {
			continue
		}
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			inputs = append(inputs, ProjectInput{Kind: ProjectByID, ID: n})
			continue
		}
		inputs = append(inputs, ProjectInput{Kind: ProjectByKey, Key: raw})
	}
	if len(inputs) > 0 {
		Put(h, t.key, inputs)
	}
}

func (t *ProjectTransformer) PopulateFromQuery(user string, h *Holder, q *query.Query, ctx Context) {
	var inputs []ProjectInput
	for _, cl := range rewrite.CollectNamed(whereOf(q), t.names).Clauses {
		term, ok := cl.(*query.TerminalClause)
		if !ok {
			continue
		}
		for _, leaf := range flattenOperand(term.Operand()) {
			o, ok := leaf.(*query.SingleValueOperand)
			if !ok {
				continue
			}
			if n, numeric := o.Number(); numeric {
				inputs = append(inputs, t.inputFromNumber(n))
			} else {
				inputs = append(inputs, ProjectInput{Kind: ProjectByKey, Key: o.Text()})
			}
		}
	}
	if len(inputs) > 0 {
		Put(h, t.key, inputs)
	}
}

func (t *ProjectTransformer) inputFromNumber(n int64) ProjectInput {
	p, ok := t.projects.ProjectByID(n)
	if !ok {
		return ProjectInput{Kind: ProjectByKey, Key: strconv.FormatInt(n, 10)}
	}
	if len(t.projects.ProjectsByKeyOrName(p.Key)) == 1 {
		return ProjectInput{Kind: ProjectByKey, Key: p.Key}
	}
	return ProjectInput{Kind: ProjectByID, ID: n}
}

func (t *ProjectTransformer) Validate(user string, h *Holder, errs *ErrorCollection) {
	inputs, ok := Get(h, t.key)
	if !ok {
		return
	}
	for _, in := range inputs {
		switch in.Kind {
		case ProjectByKey:
			if len(t.projects.ProjectsByKeyOrName(in.Key)) == 0 {
				errs.Add(t.fieldID, "jql.project.unknown")
			}
		case ProjectByID:
			if _, found := t.projects.ProjectByID(in.ID); !found {
				errs.Add(t.fieldID, "jql.project.unknown.id")
			}
		}
	}
}

func (t *ProjectTransformer) SearchClause(user string, h *Holder) query.Clause {
	inputs, ok := Get(h, t.key)
	if !ok || len(inputs) == 0 {
		return nil
	}
	var operands []query.Operand
	for _, in := range inputs {
		switch in.Kind {
		case ProjectByID:
			operands = append(operands, query.NewNumberOperand(in.ID))
		default:
			operands = append(operands, query.NewStringOperand(in.Key))
		}
	}
	return selectionClause(t.names.Primary(), operands)
}

func (t *ProjectTransformer) FitsFilterForm(user string, q *query.Query, ctx Context) bool {
	term, ok := singleSelectionClause(q, t.names)
	if !ok {
		return false
	}
	if term == nil {
		return true
	}
	for _, leaf := range flattenOperand(term.Operand()) {
		o, ok := leaf.(*query.SingleValueOperand)
		if !ok {
			// Projects are never EMPTY and no project functions exist.
			return false
		}
		if n, numeric := o.Number(); numeric {
			if _, found := t.projects.ProjectByID(n); !found {
				return false
			}
		} else if len(t.projects.ProjectsByKeyOrName(o.Text())) == 0 {
			return false
		}
	}
	return true
}
