package query

// Operator is a comparison or membership operator in a terminal clause.
type Operator int

const (
	OpEquals Operator = iota
	OpNotEquals
	OpIn
	OpNotIn
	OpIs
	OpIsNot
	OpLike
	OpNotLike
	OpGreater
	OpGreaterEq
	OpLess
	OpLessEq
	OpWas
	OpWasNot
	OpWasIn
	OpWasNotIn
	OpChanged
	OpNotChanged
)

// String returns the canonical JQL spelling of the operator.
func (op Operator) String() string {
	switch op {
	case OpEquals:
		return "="
	case OpNotEquals:
		return "!="
	case OpIn:
		return "in"
	case OpNotIn:
		return "not in"
	case OpIs:
		return "is"
	case OpIsNot:
		return "is not"
	case OpLike:
		return "~"
	case OpNotLike:
		return "!~"
	case OpGreater:
		return ">"
	case OpGreaterEq:
		return ">="
	case OpLess:
		return "<"
	case OpLessEq:
		return "<="
	case OpWas:
		return "was"
	case OpWasNot:
		return "was not"
	case OpWasIn:
		return "was in"
	case OpWasNotIn:
		return "was not in"
	case OpChanged:
		return "changed"
	case OpNotChanged:
		return "not changed"
	default:
		return "?"
	}
}

// PredicateOperator qualifies a historical clause with a temporal or
// authorship condition, e.g. "status was Open BEFORE -2w BY bob".
type PredicateOperator int

const (
	PredAfter PredicateOperator = iota
	PredBefore
	PredBy
	PredDuring
	PredOn
	PredFrom
	PredTo
)

// String returns the canonical JQL spelling of the predicate keyword.
func (p PredicateOperator) String() string {
	switch p {
	case PredAfter:
		return "after"
	case PredBefore:
		return "before"
	case PredBy:
		return "by"
	case PredDuring:
		return "during"
	case PredOn:
		return "on"
	case PredFrom:
		return "from"
	case PredTo:
		return "to"
	default:
		return "?"
	}
}
