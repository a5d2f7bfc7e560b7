package transform

import (
	"net/url"

	"github.com/jqlkit/jqlkit/internal/query"
	"github.com/jqlkit/jqlkit/internal/query/rewrite"
)

// TextTransformer handles the free-text search box, which regenerates as a
// single LIKE clause.
type TextTransformer struct {
	fieldID string
	names   query.ClauseNames
	key     Key[string]
}

// NewTextTransformer returns a text transformer.
func NewTextTransformer(fieldID string, names query.ClauseNames) *TextTransformer {
	return &TextTransformer{
		fieldID: fieldID,
		names:   names,
		key:     NewKey[string](fieldID),
	}
}

func (t *TextTransformer) FieldID() string                { return t.fieldID }
func (t *TextTransformer) ClauseNames() query.ClauseNames { return t.names }
func (t *TextTransformer) Key() Key[string]               { return t.key }

func (t *TextTransformer) PopulateFromParams(user string, h *Holder, params url.Values) {
	if v := params.Get(t.fieldID); v != "" {
		Put(h, t.key, v)
	}
}

func (t *TextTransformer) PopulateFromQuery(user string, h *Holder, q *query.Query, ctx Context) {
	for _, cl := range rewrite.CollectNamed(whereOf(q), t.names).Clauses {
		term, ok := cl.(*query.TerminalClause)
		if !ok || term.Operator() != query.OpLike {
			continue
		}
		if single, ok := term.Operand().(*query.SingleValueOperand); ok {
			if _, numeric := single.Number(); !numeric {
				Put(h, t.key, single.Text())
				return
			}
		}
	}
}

func (t *TextTransformer) Validate(user string, h *Holder, errs *ErrorCollection) {}

func (t *TextTransformer) SearchClause(user string, h *Holder) query.Clause {
	v, ok := Get(h, t.key)
	if !ok || v == "" {
		return nil
	}
	return query.NewTerminalString(t.names.Primary(), query.OpLike, v)
}

func (t *TextTransformer) FitsFilterForm(user string, q *query.Query, ctx Context) bool {
	collected := rewrite.CollectNamed(whereOf(q), t.names)
	if len(collected.Clauses) == 0 {
		return true
	}
	if !collected.Simple || len(collected.Clauses) > 1 {
		return false
	}
	term, ok := collected.Clauses[0].(*query.TerminalClause)
	if !ok || term.Operator() != query.OpLike {
		return false
	}
	single, ok := term.Operand().(*query.SingleValueOperand)
	if !ok {
		return false
	}
	_, numeric := single.Number()
	return !numeric
}
