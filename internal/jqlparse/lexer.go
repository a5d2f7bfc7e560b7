// Package jqlparse is the bundled reference implementation of the
// query.Parser contract: a recursive-descent parser for the canonical JQL
// rendering produced by the query package. Text parsed here and rendered
// back round-trips structurally; stores rely on that for persistence.
//
// Consumers that own a richer grammar can inject their own query.Parser; the
// library packages depend only on the interface.
package jqlparse

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// tokenType classifies lexer tokens.
type tokenType int

const (
	tokenEOF tokenType = iota
	tokenWord         // bare words: field names, values, keywords
	tokenString       // quoted strings
	tokenNumber       // integer literals
	tokenEquals       // =
	tokenNotEquals    // !=
	tokenLike         // ~
	tokenNotLike      // !~
	tokenLess         // <
	tokenLessEq       // <=
	tokenGreater      // >
	tokenGreaterEq    // >=
	tokenLParen       // (
	tokenRParen       // )
	tokenComma        // ,
)

func (t tokenType) String() string {
	switch t {
	case tokenEOF:
		return "end of input"
	case tokenWord:
		return "word"
	case tokenString:
		return "string"
	case tokenNumber:
		return "number"
	case tokenEquals:
		return "'='"
	case tokenNotEquals:
		return "'!='"
	case tokenLike:
		return "'~'"
	case tokenNotLike:
		return "'!~'"
	case tokenLess:
		return "'<'"
	case tokenLessEq:
		return "'<='"
	case tokenGreater:
		return "'>'"
	case tokenGreaterEq:
		return "'>='"
	case tokenLParen:
		return "'('"
	case tokenRParen:
		return "')'"
	case tokenComma:
		return "','"
	default:
		return "unknown token"
	}
}

// token is a single lexed token with its position in the input.
type token struct {
	typ   tokenType
	value string
	pos   int
}

// matches reports whether the token is the given bare keyword, ignoring case.
func (t token) matches(keyword string) bool {
	return t.typ == tokenWord && strings.EqualFold(t.value, keyword)
}

type lexer struct {
	input string
	pos   int
	width int // byte width of the last rune returned by next
}

func newLexer(input string) *lexer {
	return &lexer{input: input}
}

func (l *lexer) next() rune {
	if l.pos >= len(l.input) {
		l.width = 0
		return 0
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.width = w
	l.pos += w
	return r
}

func (l *lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

// backup undoes the last next. Valid at most once per next call.
func (l *lexer) backup() {
	l.pos -= l.width
}

func (l *lexer) skipWhitespace() {
	for {
		r := l.next()
		if r == 0 {
			return
		}
		if !unicode.IsSpace(r) {
			l.backup()
			return
		}
	}
}

func (l *lexer) nextToken() (token, error) {
	l.skipWhitespace()

	startPos := l.pos
	r := l.next()

	if r == 0 {
		return token{typ: tokenEOF, pos: startPos}, nil
	}

	switch r {
	case '(':
		return token{typ: tokenLParen, value: "(", pos: startPos}, nil
	case ')':
		return token{typ: tokenRParen, value: ")", pos: startPos}, nil
	case ',':
		return token{typ: tokenComma, value: ",", pos: startPos}, nil
	case '=':
		return token{typ: tokenEquals, value: "=", pos: startPos}, nil
	case '~':
		return token{typ: tokenLike, value: "~", pos: startPos}, nil
	case '!':
		switch l.peek() {
		case '=':
			l.next()
			return token{typ: tokenNotEquals, value: "!=", pos: startPos}, nil
		case '~':
			l.next()
			return token{typ: tokenNotLike, value: "!~", pos: startPos}, nil
		}
		return token{}, errAt(startPos, "unexpected '!' (expected '!=' or '!~')")
	case '<':
		if l.peek() == '=' {
			l.next()
			return token{typ: tokenLessEq, value: "<=", pos: startPos}, nil
		}
		return token{typ: tokenLess, value: "<", pos: startPos}, nil
	case '>':
		if l.peek() == '=' {
			l.next()
			return token{typ: tokenGreaterEq, value: ">=", pos: startPos}, nil
		}
		return token{typ: tokenGreater, value: ">", pos: startPos}, nil
	case '"', '\'':
		return l.readString(r, startPos)
	default:
		if unicode.IsDigit(r) || r == '-' || r == '+' {
			l.backup()
			return l.readNumberOrWord(startPos)
		}
		if isWordStart(r) {
			l.backup()
			return l.readWord(startPos)
		}
		return token{}, errAt(startPos, "unexpected character "+string(r))
	}
}

func (l *lexer) readString(quote rune, startPos int) (token, error) {
	var sb strings.Builder
	for {
		r := l.next()
		if r == 0 {
			return token{}, errAt(startPos, "unterminated string")
		}
		if r == quote {
			return token{typ: tokenString, value: sb.String(), pos: startPos}, nil
		}
		if r == '\\' {
			escaped := l.next()
			switch escaped {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case 0:
				return token{}, errAt(l.pos - 1, "unterminated escape sequence")
			default:
				sb.WriteRune(escaped)
			}
			continue
		}
		sb.WriteRune(r)
	}
}

// readNumberOrWord reads a signed digit run. A pure digit run (with optional
// sign) is a number; anything with trailing word characters, like the
// relative date "-2w", is a word value.
func (l *lexer) readNumberOrWord(startPos int) (token, error) {
	var sb strings.Builder

	r := l.next()
	if r == '-' || r == '+' {
		sb.WriteRune(r)
		r = l.next()
	}
	if !unicode.IsDigit(r) {
		return token{}, errAt(l.pos - 1, "expected digit")
	}
	sb.WriteRune(r)

	isNumber := true
	for {
		r = l.next()
		if r == 0 {
			break
		}
		if unicode.IsDigit(r) {
			sb.WriteRune(r)
			continue
		}
		if isWordChar(r) {
			isNumber = false
			sb.WriteRune(r)
			continue
		}
		l.backup()
		break
	}

	if isNumber {
		return token{typ: tokenNumber, value: sb.String(), pos: startPos}, nil
	}
	return token{typ: tokenWord, value: sb.String(), pos: startPos}, nil
}

func (l *lexer) readWord(startPos int) (token, error) {
	var sb strings.Builder
	for {
		r := l.next()
		if r == 0 || !isWordChar(r) {
			if r != 0 {
				l.backup()
			}
			break
		}
		sb.WriteRune(r)
	}
	return token{typ: tokenWord, value: sb.String(), pos: startPos}, nil
}

func isWordStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) ||
		r == '_' || r == '-' || r == '.' || r == '[' || r == ']'
}
