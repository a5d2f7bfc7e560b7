package query

import "strings"

// reservedWords may not appear bare in JQL text; they force quoting.
var reservedWords = map[string]struct{}{
	"and": {}, "or": {}, "not": {}, "empty": {}, "null": {},
	"order": {}, "by": {}, "asc": {}, "desc": {},
	"was": {}, "changed": {}, "in": {}, "is": {},
	"after": {}, "before": {}, "during": {}, "on": {}, "from": {}, "to": {},
}

// Render produces canonical JQL text for the query's structure, ignoring any
// cached literal. The output round-trips through the bundled parser; stores
// rely on that for persistence.
func Render(q *Query) string {
	if q == nil {
		return ""
	}
	var sb strings.Builder
	if q.where != nil {
		sb.WriteString(q.where.String())
	}
	if q.orderBy != nil && len(q.orderBy.sorts) > 0 {
		if sb.Len() > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString("ORDER BY ")
		sb.WriteString(q.orderBy.String())
	}
	return sb.String()
}

// quoteName quotes a field name when it cannot appear bare.
func quoteName(name string) string {
	if isBareWord(name) {
		return name
	}
	return quote(name)
}

// quoteValue quotes a string literal when it cannot appear bare.
func quoteValue(value string) string {
	if isBareWord(value) {
		return value
	}
	return quote(value)
}

func isBareWord(s string) bool {
	if s == "" {
		return false
	}
	if _, reserved := reservedWords[strings.ToLower(s)]; reserved {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9', r == '.', r == '-':
			// Bare words may not start with a digit or sign: the lexer
			// would read them as numbers.
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
