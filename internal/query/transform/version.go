package transform

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/jqlkit/jqlkit/internal/query"
	"github.com/jqlkit/jqlkit/internal/query/rewrite"
	"github.com/jqlkit/jqlkit/internal/resolver"
)

// VersionTransformer handles version-picker fields (fixVersion,
// affectedVersion). Selections may name a version, reference one by id, or
// use the special "no version" / "all released" / "all unreleased" choices,
// which regenerate as EMPTY or the corresponding version functions.
type VersionTransformer struct {
	fieldID  string
	names    query.ClauseNames
	versions resolver.Versions
	key      Key[[]VersionInput]
}

// NewVersionTransformer returns a version transformer for the given field.
func NewVersionTransformer(fieldID string, names query.ClauseNames, versions resolver.Versions) *VersionTransformer {
	return &VersionTransformer{
		fieldID:  fieldID,
		names:    names,
		versions: versions,
		key:      NewKey[[]VersionInput](fieldID),
	}
}

func (t *VersionTransformer) FieldID() string                { return t.fieldID }
func (t *VersionTransformer) ClauseNames() query.ClauseNames { return t.names }

// Key exposes the holder slot, mainly so callers can seed selections
// directly.
func (t *VersionTransformer) Key() Key[[]VersionInput] { return t.key }

func (t *VersionTransformer) PopulateFromParams(user string, h *Holder, params url.Values) {
	var inputs []VersionInput
	for _, raw := range params[t.fieldID] {
		switch raw {
		case "":
			continue
		case noSelectionValue:
			inputs = append(inputs, VersionInput{Kind: VersionNone})
		case allUnreleasedValue:
			inputs = append(inputs, VersionInput{Kind: VersionAllUnreleased})
		case allReleasedValue:
			inputs = append(inputs, VersionInput{Kind: VersionAllReleased})
		default:
			if id, ok := strings.CutPrefix(raw, idTokenPrefix); ok {
				n, err := strconv.ParseInt(id, 10, 64)
				if err != nil {
					continue
				}
				inputs = append(inputs, VersionInput{Kind: VersionByID, ID: n})
				continue
			}
			inputs = append(inputs, VersionInput{Kind: VersionNamed, Name: raw})
		}
	}
	if len(inputs) > 0 {
		Put(h, t.key, inputs)
	}
}

func (t *VersionTransformer) PopulateFromQuery(user string, h *Holder, q *query.Query, ctx Context) {
	var inputs []VersionInput
	for _, cl := range rewrite.CollectNamed(whereOf(q), t.names).Clauses {
		term, ok := cl.(*query.TerminalClause)
		if !ok {
			continue
		}
		for _, leaf := range flattenOperand(term.Operand()) {
			switch o := leaf.(type) {
			case query.EmptyOperand:
				inputs = append(inputs, VersionInput{Kind: VersionNone})
			case *query.FunctionOperand:
				switch {
				case strings.EqualFold(o.Name(), FuncReleasedVersions):
					inputs = append(inputs, VersionInput{Kind: VersionAllReleased})
				case strings.EqualFold(o.Name(), FuncUnreleasedVersions):
					inputs = append(inputs, VersionInput{Kind: VersionAllUnreleased})
				}
			case *query.SingleValueOperand:
				if n, numeric := o.Number(); numeric {
					inputs = append(inputs, t.inputFromNumber(n))
				} else {
					inputs = append(inputs, VersionInput{Kind: VersionNamed, Name: o.Text()})
				}
			}
		}
	}
	if len(inputs) > 0 {
		Put(h, t.key, inputs)
	}
}

// inputFromNumber maps a numeric operand back to a form selection. A number
// that resolves to a version whose name is unambiguous becomes a named
// selection; an ambiguous name keeps the id so regeneration stays exact; an
// unresolvable number is kept as a name candidate for validation to flag.
func (t *VersionTransformer) inputFromNumber(n int64) VersionInput {
	v, ok := t.versions.VersionByID(n)
	if !ok {
		return VersionInput{Kind: VersionNamed, Name: strconv.FormatInt(n, 10)}
	}
	if len(t.versions.VersionsByName(v.Name)) == 1 {
		return VersionInput{Kind: VersionNamed, Name: v.Name}
	}
	return VersionInput{Kind: VersionByID, ID: n}
}

func (t *VersionTransformer) Validate(user string, h *Holder, errs *ErrorCollection) {
	inputs, ok := Get(h, t.key)
	if !ok {
		return
	}
	for _, in := range inputs {
		switch in.Kind {
		case VersionNamed:
			if len(t.versions.VersionsByName(in.Name)) == 0 {
				errs.Add(t.fieldID, "jql.version.unknown")
			}
		case VersionByID:
			if _, found := t.versions.VersionByID(in.ID); !found {
				errs.Add(t.fieldID, "jql.version.unknown.id")
			}
		}
	}
}

func (t *VersionTransformer) SearchClause(user string, h *Holder) query.Clause {
	inputs, ok := Get(h, t.key)
	if !ok || len(inputs) == 0 {
		return nil
	}
	var operands []query.Operand
	for _, in := range inputs {
		switch in.Kind {
		case VersionNone:
			operands = append(operands, query.Empty)
		case VersionAllReleased:
			operands = append(operands, query.NewFunctionOperand(FuncReleasedVersions))
		case VersionAllUnreleased:
			operands = append(operands, query.NewFunctionOperand(FuncUnreleasedVersions))
		case VersionByID:
			operands = append(operands, query.NewNumberOperand(in.ID))
		default:
			operands = append(operands, query.NewStringOperand(in.Name))
		}
	}
	return selectionClause(t.names.Primary(), operands)
}

func (t *VersionTransformer) FitsFilterForm(user string, q *query.Query, ctx Context) bool {
	term, ok := singleSelectionClause(q, t.names)
	if !ok {
		return false
	}
	if term == nil {
		return true
	}
	for _, leaf := range flattenOperand(term.Operand()) {
		if !t.leafFits(leaf) {
			return false
		}
	}
	return true
}

func (t *VersionTransformer) leafFits(leaf query.Operand) bool {
	switch o := leaf.(type) {
	case query.EmptyOperand:
		return true
	case *query.FunctionOperand:
		if len(o.Args()) != 0 {
			return false
		}
		return strings.EqualFold(o.Name(), FuncReleasedVersions) ||
			strings.EqualFold(o.Name(), FuncUnreleasedVersions)
	case *query.SingleValueOperand:
		if n, numeric := o.Number(); numeric {
			_, found := t.versions.VersionByID(n)
			return found
		}
		return len(t.versions.VersionsByName(o.Text())) > 0
	default:
		return false
	}
}
