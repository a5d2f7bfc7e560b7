package query

import (
	"strconv"
	"strings"
)

// Operand is the right-hand side of a terminal clause: a literal value, an
// ordered list of operands, the EMPTY marker, or a function call.
//
// Operands are immutable once constructed. Accessors return copies of any
// internal slices so a held reference can never change a tree.
type Operand interface {
	// Accept dispatches to exactly one method of the visitor and returns
	// that method's result.
	Accept(v OperandVisitor) any

	// DisplayString returns the operand as it appears in JQL text.
	DisplayString() string
}

// OperandVisitor has one method per operand variant. Adding a variant breaks
// every visitor at compile time, which is deliberate.
type OperandVisitor interface {
	VisitSingleValue(o *SingleValueOperand) any
	VisitMultiValue(o *MultiValueOperand) any
	VisitEmpty(o EmptyOperand) any
	VisitFunction(o *FunctionOperand) any
}

// SingleValueOperand holds one literal, either a string or a number. The
// distinction matters: numeric values are candidates for entity-ID
// resolution, strings are always names.
type SingleValueOperand struct {
	text    string
	num     int64
	numeric bool
}

// NewStringOperand returns an operand holding a string literal.
func NewStringOperand(v string) *SingleValueOperand {
	return &SingleValueOperand{text: v}
}

// NewNumberOperand returns an operand holding a numeric literal.
func NewNumberOperand(v int64) *SingleValueOperand {
	return &SingleValueOperand{num: v, numeric: true}
}

// Number reports the numeric value, if the operand is numeric.
func (o *SingleValueOperand) Number() (int64, bool) {
	return o.num, o.numeric
}

// Text returns the literal as a string. Numeric operands format their value.
func (o *SingleValueOperand) Text() string {
	if o.numeric {
		return strconv.FormatInt(o.num, 10)
	}
	return o.text
}

func (o *SingleValueOperand) Accept(v OperandVisitor) any { return v.VisitSingleValue(o) }

func (o *SingleValueOperand) DisplayString() string {
	if o.numeric {
		return strconv.FormatInt(o.num, 10)
	}
	return quoteValue(o.text)
}

// MultiValueOperand is an ordered list of operands. An empty list is legal
// and matches nothing; callers should usually avoid constructing one.
type MultiValueOperand struct {
	values []Operand
}

// NewMultiValueOperand returns a list operand over the given values, in order.
func NewMultiValueOperand(values ...Operand) *MultiValueOperand {
	return &MultiValueOperand{values: append([]Operand(nil), values...)}
}

// Values returns a copy of the ordered element list.
func (o *MultiValueOperand) Values() []Operand {
	return append([]Operand(nil), o.values...)
}

func (o *MultiValueOperand) Accept(v OperandVisitor) any { return v.VisitMultiValue(o) }

func (o *MultiValueOperand) DisplayString() string {
	parts := make([]string, len(o.values))
	for i, v := range o.values {
		parts[i] = v.DisplayString()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// EmptyOperand is the EMPTY marker used with IS / IS NOT.
type EmptyOperand struct{}

// Empty is the shared EMPTY operand value.
var Empty = EmptyOperand{}

func (o EmptyOperand) Accept(v OperandVisitor) any { return v.VisitEmpty(o) }

func (o EmptyOperand) DisplayString() string { return "EMPTY" }

// FunctionOperand is a function call such as currentUser() or
// membersOf("group"). Arguments are kept in order.
type FunctionOperand struct {
	name string
	args []string
}

// NewFunctionOperand returns a function operand with the given name and args.
func NewFunctionOperand(name string, args ...string) *FunctionOperand {
	return &FunctionOperand{name: name, args: append([]string(nil), args...)}
}

// Name returns the function name as written.
func (o *FunctionOperand) Name() string { return o.name }

// Args returns a copy of the ordered argument list.
func (o *FunctionOperand) Args() []string {
	return append([]string(nil), o.args...)
}

func (o *FunctionOperand) Accept(v OperandVisitor) any { return v.VisitFunction(o) }

func (o *FunctionOperand) DisplayString() string {
	args := make([]string, len(o.args))
	for i, a := range o.args {
		args[i] = quoteValue(a)
	}
	return o.name + "(" + strings.Join(args, ", ") + ")"
}
