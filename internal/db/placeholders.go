package db

import (
	"fmt"
	"strings"
)

// NormalizeQuery rewrites mixed placeholder styles to the uniform "?" form
// and validates the parameter count. Supported styles, mixable in one
// statement:
//
//	?          positional
//	:name      named (name is letters, digits, underscore)
//	%s %d %f   printf-style
//	%%         literal percent
//
// Quoted literals ('...', "...", `...`) are left untouched. Params may
// contain nested slices; they are flattened left to right. A placeholder
// count that differs from the flattened parameter count is an error, and
// nothing should be executed in that case.
func NormalizeQuery(query string, params ...any) (string, []any, error) {
	var sb strings.Builder
	sb.Grow(len(query))

	placeholders := 0
	i := 0
	for i < len(query) {
		ch := query[i]
		switch ch {
		case '\'', '"', '`':
			end, err := skipQuoted(query, i)
			if err != nil {
				return "", nil, err
			}
			sb.WriteString(query[i:end])
			i = end
		case '?':
			placeholders++
			sb.WriteByte('?')
			i++
		case ':':
			nameLen := namedPlaceholderLen(query[i+1:])
			if nameLen > 0 {
				placeholders++
				sb.WriteByte('?')
				i += 1 + nameLen
			} else {
				sb.WriteByte(':')
				i++
			}
		case '%':
			if i+1 < len(query) {
				switch query[i+1] {
				case 's', 'd', 'f':
					placeholders++
					sb.WriteByte('?')
					i += 2
					continue
				case '%':
					sb.WriteByte('%')
					i += 2
					continue
				}
			}
			sb.WriteByte('%')
			i++
		default:
			sb.WriteByte(ch)
			i++
		}
	}

	flat := flattenParams(params)
	if placeholders != len(flat) {
		return "", nil, fmt.Errorf("placeholder count mismatch: query has %d placeholders but %d parameters were supplied", placeholders, len(flat))
	}

	return sb.String(), flat, nil
}

// HasPlaceholders reports whether the normalized query contains any
// placeholder. Statements without placeholders run on the direct-query
// path.
func HasPlaceholders(normalized string) bool {
	return strings.ContainsRune(normalized, '?')
}

// skipQuoted returns the index just past the quoted literal starting at
// start. Doubled quotes inside the literal escape themselves; backslash
// escapes are honored for single and double quotes.
func skipQuoted(query string, start int) (int, error) {
	quote := query[start]
	i := start + 1
	for i < len(query) {
		switch query[i] {
		case '\\':
			if quote != '`' && i+1 < len(query) {
				i += 2
				continue
			}
			i++
		case quote:
			if i+1 < len(query) && query[i+1] == quote {
				i += 2
				continue
			}
			return i + 1, nil
		default:
			i++
		}
	}
	return 0, fmt.Errorf("unterminated %c-quoted literal in query", quote)
}

// namedPlaceholderLen returns the length of the identifier following a
// colon, or 0 if the colon does not start a named placeholder.
func namedPlaceholderLen(s string) int {
	n := 0
	for n < len(s) {
		c := s[n]
		if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (n > 0 && c >= '0' && c <= '9') {
			n++
			continue
		}
		break
	}
	return n
}

// flattenParams flattens one level of nesting: a []any element contributes
// its members in order, everything else passes through.
func flattenParams(params []any) []any {
	flat := make([]any, 0, len(params))
	for _, p := range params {
		switch v := p.(type) {
		case []any:
			flat = append(flat, flattenParams(v)...)
		case []string:
			for _, s := range v {
				flat = append(flat, s)
			}
		case []int:
			for _, n := range v {
				flat = append(flat, n)
			}
		case []int64:
			for _, n := range v {
				flat = append(flat, n)
			}
		default:
			flat = append(flat, p)
		}
	}
	return flat
}
