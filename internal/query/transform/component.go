package transform

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/jqlkit/jqlkit/internal/query"
	"github.com/jqlkit/jqlkit/internal/query/rewrite"
	"github.com/jqlkit/jqlkit/internal/resolver"
)

// ComponentTransformer handles the component picker. It is the version
// picker minus the released/unreleased choices.
type ComponentTransformer struct {
	fieldID    string
	names      query.ClauseNames
	components resolver.Components
	key        Key[[]ComponentInput]
}

// NewComponentTransformer returns a component transformer for the given
// field.
func NewComponentTransformer(fieldID string, names query.ClauseNames, components resolver.Components) *ComponentTransformer {
	return &ComponentTransformer{
		fieldID:    fieldID,
		names:      names,
		components: components,
		key:        NewKey[[]ComponentInput](fieldID),
	}
}

func (t *ComponentTransformer) FieldID() string                { return t.fieldID }
func (t *ComponentTransformer) ClauseNames() query.ClauseNames { return t.names }
func (t *ComponentTransformer) Key() Key[[]ComponentInput]     { return t.key }

func (t *ComponentTransformer) PopulateFromParams(user string, h *Holder, params url.Values) {
	var inputs []ComponentInput
	for _, raw := range params[t.fieldID] {
		switch raw {
		case "":
			continue
		case noSelectionValue:
			inputs = append(inputs, ComponentInput{Kind: ComponentNone})
		default:
			if id, ok := strings.CutPrefix(raw, idTokenPrefix); ok {
				n, err := strconv.ParseInt(id, 10, 64)
				if err != nil {
					continue
				}
				inputs = append(inputs, ComponentInput{Kind: ComponentByID, ID: n})
				continue
			}
			inputs = append(inputs, ComponentInput{Kind: ComponentNamed, Name: raw})
		}
	}
	if len(inputs) > 0 {
		Put(h, t.key, inputs)
	}
}

func (t *ComponentTransformer) PopulateFromQuery(user string, h *Holder, q *query.Query, ctx Context) {
	var inputs []ComponentInput
	for _, cl := range rewrite.CollectNamed(whereOf(q), t.names).Clauses {
		term, ok := cl.(*query.TerminalClause)
		if !ok {
			continue
		}
		for _, leaf := range flattenOperand(term.Operand()) {
			switch o := leaf.(type) {
			case query.EmptyOperand:
				inputs = append(inputs, ComponentInput{Kind: ComponentNone})
			case *query.SingleValueOperand:
				if n, numeric := o.Number(); numeric {
					inputs = append(inputs, t.inputFromNumber(n))
				} else {
					inputs = append(inputs, ComponentInput{Kind: ComponentNamed, Name: o.Text()})
				}
			}
		}
	}
	if len(inputs) > 0 {
		Put(h, t.key, inputs)
	}
}

func (t *ComponentTransformer) inputFromNumber(n int64) ComponentInput {
	c, ok := t.components.ComponentByID(n)
	if !ok {
		return ComponentInput{Kind: ComponentNamed, Name: strconv.FormatInt(n, 10)}
	}
	if len(t.components.ComponentsByName(c.Name)) == 1 {
		return ComponentInput{Kind: ComponentNamed, Name: c.Name}
	}
	return ComponentInput{Kind: ComponentByID, ID: n}
}

func (t *ComponentTransformer) Validate(user string, h *Holder, errs *ErrorCollection) {
	inputs, ok := Get(h, t.key)
	if !ok {
		return
	}
	for _, in := range inputs {
		switch in.Kind {
		case ComponentNamed:
			if len(t.components.ComponentsByName(in.Name)) == 0 {
				errs.Add(t.fieldID, "jql.component.unknown")
			}
		case ComponentByID:
			if _, found := t.components.ComponentByID(in.ID); !found {
				errs.Add(t.fieldID, "jql.component.unknown.id")
			}
		}
	}
}

func (t *ComponentTransformer) SearchClause(user string, h *Holder) query.Clause {
	inputs, ok := Get(h, t.key)
	if !ok || len(inputs) == 0 {
		return nil
	}
	var operands []query.Operand
	for _, in := range inputs {
		switch in.Kind {
		case ComponentNone:
			operands = append(operands, query.Empty)
		case ComponentByID:
			operands = append(operands, query.NewNumberOperand(in.ID))
		default:
			operands = append(operands, query.NewStringOperand(in.Name))
		}
	}
	return selectionClause(t.names.Primary(), operands)
}

func (t *ComponentTransformer) FitsFilterForm(user string, q *query.Query, ctx Context) bool {
	term, ok := singleSelectionClause(q, t.names)
	if !ok {
		return false
	}
	if term == nil {
		return true
	}
	for _, leaf := range flattenOperand(term.Operand()) {
		switch o := leaf.(type) {
		case query.EmptyOperand:
		case *query.SingleValueOperand:
			if n, numeric := o.Number(); numeric {
				if _, found := t.components.ComponentByID(n); !found {
					return false
				}
			} else if len(t.components.ComponentsByName(o.Text())) == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
