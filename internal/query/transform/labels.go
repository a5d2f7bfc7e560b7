package transform

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/jqlkit/jqlkit/internal/query"
	"github.com/jqlkit/jqlkit/internal/query/rewrite"
)

// LabelsTransformer handles the free-form labels field. Labels are plain
// tokens without whitespace.
type LabelsTransformer struct {
	fieldID string
	names   query.ClauseNames
	key     Key[[]string]
}

// NewLabelsTransformer returns a labels transformer.
func NewLabelsTransformer(fieldID string, names query.ClauseNames) *LabelsTransformer {
	return &LabelsTransformer{
		fieldID: fieldID,
		names:   names,
		key:     NewKey[[]string](fieldID),
	}
}

func (t *LabelsTransformer) FieldID() string                { return t.fieldID }
func (t *LabelsTransformer) ClauseNames() query.ClauseNames { return t.names }
func (t *LabelsTransformer) Key() Key[[]string]             { return t.key }

func (t *LabelsTransformer) PopulateFromParams(user string, h *Holder, params url.Values) {
	var labels []string
	for _, raw := range params[t.fieldID] {
		if raw == "" {
			continue
		}
		labels = append(labels, raw)
	}
	if len(labels) > 0 {
		Put(h, t.key, labels)
	}
}

func (t *LabelsTransformer) PopulateFromQuery(user string, h *Holder, q *query.Query, ctx Context) {
	var labels []string
	for _, cl := range rewrite.CollectNamed(whereOf(q), t.names).Clauses {
		term, ok := cl.(*query.TerminalClause)
		if !ok {
			continue
		}
		for _, leaf := range flattenOperand(term.Operand()) {
			single, ok := leaf.(*query.SingleValueOperand)
			if !ok {
				continue
			}
			if n, numeric := single.Number(); numeric {
				labels = append(labels, strconv.FormatInt(n, 10))
			} else {
				labels = append(labels, single.Text())
			}
		}
	}
	if len(labels) > 0 {
		Put(h, t.key, labels)
	}
}

func (t *LabelsTransformer) Validate(user string, h *Holder, errs *ErrorCollection) {
	labels, ok := Get(h, t.key)
	if !ok {
		return
	}
	for _, label := range labels {
		if strings.ContainsAny(label, " \t") {
			errs.Add(t.fieldID, "jql.label.space")
		}
	}
}

func (t *LabelsTransformer) SearchClause(user string, h *Holder) query.Clause {
	labels, ok := Get(h, t.key)
	if !ok || len(labels) == 0 {
		return nil
	}
	operands := make([]query.Operand, 0, len(labels))
	for _, label := range labels {
		operands = append(operands, query.NewStringOperand(label))
	}
	return selectionClause(t.names.Primary(), operands)
}

func (t *LabelsTransformer) FitsFilterForm(user string, q *query.Query, ctx Context) bool {
	term, ok := singleSelectionClause(q, t.names)
	if !ok {
		return false
	}
	if term == nil {
		return true
	}
	for _, leaf := range flattenOperand(term.Operand()) {
		if _, ok := leaf.(*query.SingleValueOperand); !ok {
			return false
		}
	}
	return true
}
