package transform

import (
	"net/url"
	"strconv"
	"time"

	"github.com/jqlkit/jqlkit/internal/query"
	"github.com/jqlkit/jqlkit/internal/query/rewrite"
	"github.com/jqlkit/jqlkit/internal/timeparsing"
)

// DateTransformer handles date range fields (created, updated, due). Bounds
// are kept as the raw strings the user typed, absolute or relative, so the
// original spelling survives the round-trip into JQL; parsing happens only
// at validation time.
type DateTransformer struct {
	fieldID string
	names   query.ClauseNames
	now     func() time.Time
	key     Key[DateInput]
}

// DateOption configures a DateTransformer.
type DateOption func(*DateTransformer)

// WithDateClock substitutes the time source used during validation.
func WithDateClock(now func() time.Time) DateOption {
	return func(t *DateTransformer) { t.now = now }
}

// NewDateTransformer returns a date transformer for the given field.
func NewDateTransformer(fieldID string, names query.ClauseNames, opts ...DateOption) *DateTransformer {
	t := &DateTransformer{
		fieldID: fieldID,
		names:   names,
		now:     time.Now,
		key:     NewKey[DateInput](fieldID),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *DateTransformer) FieldID() string                { return t.fieldID }
func (t *DateTransformer) ClauseNames() query.ClauseNames { return t.names }
func (t *DateTransformer) Key() Key[DateInput]            { return t.key }

func (t *DateTransformer) PopulateFromParams(user string, h *Holder, params url.Values) {
	in := DateInput{
		After:  params.Get(t.fieldID + ":after"),
		Before: params.Get(t.fieldID + ":before"),
	}
	if !in.IsZero() {
		Put(h, t.key, in)
	}
}

func (t *DateTransformer) PopulateFromQuery(user string, h *Holder, q *query.Query, ctx Context) {
	var in DateInput
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
			if in.After == "" {
				in.After = raw
			}
		case query.OpLessEq:
			if in.Before == "" {
				in.Before = raw
			}
		}
	}
	if !in.IsZero() {
		Put(h, t.key, in)
	}
}

// rawBound extracts a range bound's literal text. Bounds are single values;
// numeric literals come back in decimal form.
func rawBound(op query.Operand) (string, bool) {
	single, ok := op.(*query.SingleValueOperand)
	if !ok {
		return "", false
	}
	if n, numeric := single.Number(); numeric {
		return strconv.FormatInt(n, 10), true
	}
	return single.Text(), true
}

func (t *DateTransformer) Validate(user string, h *Holder, errs *ErrorCollection) {
	in, ok := Get(h, t.key)
	if !ok || in.IsZero() {
		return
	}
	now := t.now()
	var after, before time.Time
	afterOK, beforeOK := true, true
	if in.After != "" {
		var err error
		if after, err = timeparsing.ParseRelativeTime(in.After, now); err != nil {
			errs.Add(t.fieldID, "jql.date.invalid")
			afterOK = false
		}
	}
	if in.Before != "" {
		var err error
		if before, err = timeparsing.ParseRelativeTime(in.Before, now); err != nil {
			errs.Add(t.fieldID, "jql.date.invalid")
			beforeOK = false
		}
	}
	// The ordering check only makes sense when both bounds parsed.
	if in.After != "" && in.Before != "" && afterOK && beforeOK && after.After(before) {
		errs.Add(t.fieldID, "jql.date.order")
	}
}

func (t *DateTransformer) SearchClause(user string, h *Holder) query.Clause {
	in, ok := Get(h, t.key)
	if !ok || in.IsZero() {
		return nil
	}
	var clauses []query.Clause
	if in.After != "" {
		clauses = append(clauses, query.NewTerminalString(t.names.Primary(), query.OpGreaterEq, in.After))
	}
	if in.Before != "" {
		clauses = append(clauses, query.NewTerminalString(t.names.Primary(), query.OpLessEq, in.Before))
	}
	if len(clauses) == 1 {
		return clauses[0]
	}
	return query.NewAnd(clauses...)
}

func (t *DateTransformer) FitsFilterForm(user string, q *query.Query, ctx Context) bool {
	collected := rewrite.CollectNamed(whereOf(q), t.names)
	if len(collected.Clauses) == 0 {
		return true
	}
	if !collected.Simple {
		return false
	}
	var haveAfter, haveBefore bool
	for _, cl := range collected.Clauses {
		term, ok := cl.(*query.TerminalClause)
		if !ok {
			return false
		}
		if _, ok := rawBound(term.Operand()); !ok {
			return false
		}
		switch term.Operator() {
		case query.OpGreaterEq:
			if haveAfter {
				return false
			}
			haveAfter = true
		case query.OpLessEq:
			if haveBefore {
				return false
			}
			haveBefore = true
		default:
			return false
		}
	}
	return true
}
