package transform

import (
	"net/url"
	"strconv"

	"github.com/jqlkit/jqlkit/internal/query"
	"github.com/jqlkit/jqlkit/internal/query/rewrite"
)

// RatioTransformer handles numeric range fields such as workratio. Bounds
// are whole percentages; like dates, the raw strings are kept until
// validation.
type RatioTransformer struct {
	fieldID string
	names   query.ClauseNames
	key     Key[RatioInput]
}

// NewRatioTransformer returns a ratio transformer.
func NewRatioTransformer(fieldID string, names query.ClauseNames) *RatioTransformer {
	return &RatioTransformer{
		fieldID: fieldID,
		names:   names,
		key:     NewKey[RatioInput](fieldID),
	}
}

func (t *RatioTransformer) FieldID() string                { return t.fieldID }
func (t *RatioTransformer) ClauseNames() query.ClauseNames { return t.names }
func (t *RatioTransformer) Key() Key[RatioInput]           { return t.key }

func (t *RatioTransformer) PopulateFromParams(user string, h *Holder, params url.Values) {
	in := RatioInput{
		Min: params.Get(t.fieldID + ":min"),
		Max: params.Get(t.fieldID + ":max"),
	}
	if !in.IsZero() {
		Put(h, t.key, in)
	}
}

func (t *RatioTransformer) PopulateFromQuery(user string, h *Holder, q *query.Query, ctx Context) {
	var in RatioInput
	for _, cl := range rewrite.CollectNamed(whereOf(q), t.names).Clauses {
		term, ok := cl.(*query.TerminalClause)
		if !ok {
			continue
		}
		raw, ok := rawBound(term.Operand())
		if !ok {
			continue
		}
		switch term.Operator() {
		case query.OpGreaterEq:
			if in.Min == "" {
				in.Min = raw
			}
		case query.OpLessEq:
			if in.Max == "" {
				in.Max = raw
			}
		}
	}
	if !in.IsZero() {
		Put(h, t.key, in)
	}
}

func (t *RatioTransformer) Validate(user string, h *Holder, errs *ErrorCollection) {
	in, ok := Get(h, t.key)
	if !ok || in.IsZero() {
		return
	}
	var min, max int64
	minOK, maxOK := true, true
	if in.Min != "" {
		var err error
		if min, err = strconv.ParseInt(in.Min, 10, 64); err != nil {
			errs.Add(t.fieldID, "jql.ratio.invalid")
			minOK = false
		}
	}
	if in.Max != "" {
		var err error
		if max, err = strconv.ParseInt(in.Max, 10, 64); err != nil {
			errs.Add(t.fieldID, "jql.ratio.invalid")
			maxOK = false
		}
	}
	if in.Min != "" && in.Max != "" && minOK && maxOK && min > max {
		errs.Add(t.fieldID, "jql.ratio.order")
	}
}

func (t *RatioTransformer) SearchClause(user string, h *Holder) query.Clause {
	in, ok := Get(h, t.key)
	if !ok || in.IsZero() {
		return nil
	}
	var clauses []query.Clause
	if n, err := strconv.ParseInt(in.Min, 10, 64); in.Min != "" && err == nil {
		clauses = append(clauses, query.NewTerminalNumber(t.names.Primary(), query.OpGreaterEq, n))
	}
	if n, err := strconv.ParseInt(in.Max, 10, 64); in.Max != "" && err == nil {
		clauses = append(clauses, query.NewTerminalNumber(t.names.Primary(), query.OpLessEq, n))
	}
	switch len(clauses) {
	case 0:
		return nil
	case 1:
		return clauses[0]
	default:
		return query.NewAnd(clauses...)
	}
}

func (t *RatioTransformer) FitsFilterForm(user string, q *query.Query, ctx Context) bool {
	collected := rewrite.CollectNamed(whereOf(q), t.names)
	if len(collected.Clauses) == 0 {
		return true
	}
	if !collected.Simple {
		return false
	}
	var haveMin, haveMax bool
	for _, cl := range collected.Clauses {
		term, ok := cl.(*query.TerminalClause)
		if !ok {
			return false
		}
		single, ok := term.Operand().(*query.SingleValueOperand)
		if !ok {
			return false
		}
		if _, numeric := single.Number(); !numeric {
			return false
		}
		switch term.Operator() {
		case query.OpGreaterEq:
			if haveMin {
				return false
			}
			haveMin = true
		case query.OpLessEq:
			if haveMax {
				return false
			}
			haveMax = true
		default:
			return false
		}
	}
	return true
}
