package jqlparse

import (
	"strconv"
	"strings"

	"github.com/jqlkit/jqlkit/internal/query"
)

// Parser parses JQL text into a query tree. The zero value is not usable;
// construct with New.
type Parser struct{}

// New returns a parser satisfying the query.Parser contract.
func New() *Parser {
	return &Parser{}
}

// Parse parses jql into a query. Blank input yields a query with no
// constraints. The returned query carries the input text as its cached
// literal. Failures are *query.ParseError values with position information.
func (*Parser) Parse(jql string) (*query.Query, error) {
	if strings.TrimSpace(jql) == "" {
		return query.NewQuery(nil, nil, ""), nil
	}

	s := &state{lexer: newLexer(jql)}
	if err := s.advance(); err != nil {
		return nil, err
	}

	var where query.Clause
	if !s.current.matches("order") {
		var err error
		where, err = s.parseOr()
		if err != nil {
			return nil, err
		}
	}

	var orderBy *query.OrderBy
	if s.current.matches("order") {
		var err error
		orderBy, err = s.parseOrderBy()
		if err != nil {
			return nil, err
		}
	}

	if s.current.typ != tokenEOF {
		return nil, errAt(s.current.pos, "unexpected "+s.current.typ.String()+" (expected end of query)")
	}

	return query.NewQuery(where, orderBy, jql), nil
}

func errAt(pos int, detail string) *query.ParseError {
	return &query.ParseError{MessageKey: "jql.parse.invalid", Position: pos, Detail: detail}
}

type state struct {
	lexer   *lexer
	current token
	peeked  *token
}

func (s *state) advance() error {
	if s.peeked != nil {
		s.current = *s.peeked
		s.peeked = nil
		return nil
	}
	tok, err := s.lexer.nextToken()
	if err != nil {
		return err
	}
	s.current = tok
	return nil
}

func (s *state) peek() (token, error) {
	if s.peeked != nil {
		return *s.peeked, nil
	}
	tok, err := s.lexer.nextToken()
	if err != nil {
		return token{}, err
	}
	s.peeked = &tok
	return tok, nil
}

func (s *state) parseOr() (query.Clause, error) {
	left, err := s.parseAnd()
	if err != nil {
		return nil, err
	}

	clauses := []query.Clause{left}
	for s.current.matches("or") {
		if err := s.advance(); err != nil {
			return nil, err
		}
		right, err := s.parseAnd()
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, right)
	}

	if len(clauses) == 1 {
		return left, nil
	}
	return query.NewOr(clauses...), nil
}

func (s *state) parseAnd() (query.Clause, error) {
	left, err := s.parseNot()
	if err != nil {
		return nil, err
	}

	clauses := []query.Clause{left}
	for s.current.matches("and") {
		if err := s.advance(); err != nil {
			return nil, err
		}
		right, err := s.parseNot()
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, right)
	}

	if len(clauses) == 1 {
		return left, nil
	}
	return query.NewAnd(clauses...), nil
}

func (s *state) parseNot() (query.Clause, error) {
	if s.current.matches("not") {
		// "NOT" may also introduce a negated operator keyword ("not in",
		// "not changed") after a field, but in clause position it is
		// always negation.
		if err := s.advance(); err != nil {
			return nil, err
		}
		operand, err := s.parseNot() // right-associative
		if err != nil {
			return nil, err
		}
		return query.NewNot(operand), nil
	}
	return s.parsePrimary()
}

func (s *state) parsePrimary() (query.Clause, error) {
	if s.current.typ == tokenLParen {
		if err := s.advance(); err != nil {
			return nil, err
		}
		inner, err := s.parseOr()
		if err != nil {
			return nil, err
		}
		if s.current.typ != tokenRParen {
			return nil, errAt(s.current.pos, "expected ')', got "+s.current.typ.String())
		}
		if err := s.advance(); err != nil {
			return nil, err
		}
		return inner, nil
	}
	return s.parseTerminal()
}

func (s *state) parseTerminal() (query.Clause, error) {
	if s.current.typ != tokenWord && s.current.typ != tokenString {
		return nil, errAt(s.current.pos, "expected field name, got "+s.current.typ.String())
	}
	field := s.current.value
	if err := s.advance(); err != nil {
		return nil, err
	}

	op, err := s.parseOperator()
	if err != nil {
		return nil, err
	}

	switch op {
	case query.OpChanged, query.OpNotChanged:
		predicate, err := s.parsePredicate()
		if err != nil {
			return nil, err
		}
		return query.NewChanged(field, op, predicate), nil

	case query.OpWas, query.OpWasNot, query.OpWasIn, query.OpWasNotIn:
		operand, err := s.parseOperand()
		if err != nil {
			return nil, err
		}
		predicate, err := s.parsePredicate()
		if err != nil {
			return nil, err
		}
		return query.NewWas(field, op, operand, predicate), nil

	default:
		operand, err := s.parseOperand()
		if err != nil {
			return nil, err
		}
		return query.NewTerminal(field, op, operand), nil
	}
}

func (s *state) parseOperator() (query.Operator, error) {
	simple := map[tokenType]query.Operator{
		tokenEquals:    query.OpEquals,
		tokenNotEquals: query.OpNotEquals,
		tokenLike:      query.OpLike,
		tokenNotLike:   query.OpNotLike,
		tokenLess:      query.OpLess,
		tokenLessEq:    query.OpLessEq,
		tokenGreater:   query.OpGreater,
		tokenGreaterEq: query.OpGreaterEq,
	}
	if op, ok := simple[s.current.typ]; ok {
		return op, s.advance()
	}

	switch {
	case s.current.matches("in"):
		return query.OpIn, s.advance()

	case s.current.matches("is"):
		if err := s.advance(); err != nil {
			return 0, err
		}
		if s.current.matches("not") {
			return query.OpIsNot, s.advance()
		}
		return query.OpIs, nil

	case s.current.matches("was"):
		if err := s.advance(); err != nil {
			return 0, err
		}
		negated := false
		if s.current.matches("not") {
			negated = true
			if err := s.advance(); err != nil {
				return 0, err
			}
		}
		if s.current.matches("in") {
			if err := s.advance(); err != nil {
				return 0, err
			}
			if negated {
				return query.OpWasNotIn, nil
			}
			return query.OpWasIn, nil
		}
		if negated {
			return query.OpWasNot, nil
		}
		return query.OpWas, nil

	case s.current.matches("changed"):
		return query.OpChanged, s.advance()

	case s.current.matches("not"):
		if err := s.advance(); err != nil {
			return 0, err
		}
		switch {
		case s.current.matches("in"):
			return query.OpNotIn, s.advance()
		case s.current.matches("changed"):
			return query.OpNotChanged, s.advance()
		}
		return 0, errAt(s.current.pos, "expected 'in' or 'changed' after 'not'")
	}

	return 0, errAt(s.current.pos, "expected operator, got "+s.current.typ.String())
}

func (s *state) parseOperand() (query.Operand, error) {
	switch s.current.typ {
	case tokenLParen:
		return s.parseList()

	case tokenNumber:
		n, err := strconv.ParseInt(s.current.value, 10, 64)
		if err != nil {
			return nil, errAt(s.current.pos, "invalid number "+s.current.value)
		}
		return query.NewNumberOperand(n), s.advance()

	case tokenString:
		v := s.current.value
		return query.NewStringOperand(v), s.advance()

	case tokenWord:
		word := s.current.value
		next, err := s.peek()
		if err != nil {
			return nil, err
		}
		if next.typ == tokenLParen {
			return s.parseFunction(word)
		}
		if err := s.advance(); err != nil {
			return nil, err
		}
		if strings.EqualFold(word, "empty") || strings.EqualFold(word, "null") {
			return query.Empty, nil
		}
		return query.NewStringOperand(word), nil
	}

	return nil, errAt(s.current.pos, "expected value, got "+s.current.typ.String())
}

func (s *state) parseList() (query.Operand, error) {
	// consume '('
	if err := s.advance(); err != nil {
		return nil, err
	}

	var values []query.Operand
	for s.current.typ != tokenRParen {
		v, err := s.parseOperand()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
		if s.current.typ == tokenComma {
			if err := s.advance(); err != nil {
				return nil, err
			}
			continue
		}
		if s.current.typ != tokenRParen {
			return nil, errAt(s.current.pos, "expected ',' or ')' in list")
		}
	}
	if err := s.advance(); err != nil { // consume ')'
		return nil, err
	}
	return query.NewMultiValueOperand(values...), nil
}

func (s *state) parseFunction(name string) (query.Operand, error) {
	// consume function name, then '('
	if err := s.advance(); err != nil {
		return nil, err
	}
	if err := s.advance(); err != nil {
		return nil, err
	}

	var args []string
	for s.current.typ != tokenRParen {
		switch s.current.typ {
		case tokenWord, tokenString, tokenNumber:
			args = append(args, s.current.value)
		default:
			return nil, errAt(s.current.pos, "expected function argument, got "+s.current.typ.String())
		}
		if err := s.advance(); err != nil {
			return nil, err
		}
		if s.current.typ == tokenComma {
			if err := s.advance(); err != nil {
				return nil, err
			}
		}
	}
	if err := s.advance(); err != nil { // consume ')'
		return nil, err
	}
	return query.NewFunctionOperand(name, args...), nil
}

var predicateWords = map[string]query.PredicateOperator{
	"after":  query.PredAfter,
	"before": query.PredBefore,
	"by":     query.PredBy,
	"during": query.PredDuring,
	"on":     query.PredOn,
	"from":   query.PredFrom,
	"to":     query.PredTo,
}

func (s *state) parsePredicate() (*query.HistoryPredicate, error) {
	var conditions []query.PredicateCondition
	for s.current.typ == tokenWord {
		op, ok := predicateWords[strings.ToLower(s.current.value)]
		if !ok {
			break
		}
		if err := s.advance(); err != nil {
			return nil, err
		}
		operand, err := s.parseOperand()
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, query.PredicateCondition{Op: op, Operand: operand})
	}
	if len(conditions) == 0 {
		return nil, nil
	}
	return query.NewHistoryPredicate(conditions...), nil
}

func (s *state) parseOrderBy() (*query.OrderBy, error) {
	// consume ORDER, expect BY
	if err := s.advance(); err != nil {
		return nil, err
	}
	if !s.current.matches("by") {
		return nil, errAt(s.current.pos, "expected 'by' after 'order'")
	}
	if err := s.advance(); err != nil {
		return nil, err
	}

	var sorts []query.SearchSort
	for {
		if s.current.typ != tokenWord && s.current.typ != tokenString {
			return nil, errAt(s.current.pos, "expected sort field, got "+s.current.typ.String())
		}
		sort := query.SearchSort{Field: s.current.value}
		if err := s.advance(); err != nil {
			return nil, err
		}

		switch {
		case s.current.matches("asc"):
			sort.Direction = query.DirectionAsc
			if err := s.advance(); err != nil {
				return nil, err
			}
		case s.current.matches("desc"):
			sort.Direction = query.DirectionDesc
			if err := s.advance(); err != nil {
				return nil, err
			}
		}
		sorts = append(sorts, sort)

		if s.current.typ != tokenComma {
			break
		}
		if err := s.advance(); err != nil {
			return nil, err
		}
	}

	return query.NewOrderBy(sorts...), nil
}
