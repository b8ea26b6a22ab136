// Package search turns user-typed search text into SQL ilike patterns and
// evaluates those patterns for stores that have no SQL engine.
package search

import (
	"strings"
	"unicode"
)

// escape backslash-escapes the ilike wildcards in s.
func escape(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Prefix matches values starting with s, e.g. "Cash" -> "Cash%".
func Prefix(s string) string {
	return escape(strings.TrimSpace(s)) + "%"
}

// Fragment matches values containing every word of s in order,
// e.g. "acme  corp" -> "%acme%corp%". Blank input yields "".
func Fragment(s string) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}
	for i, w := range words {
		words[i] = escape(w)
	}
	return "%" + strings.Join(words, "%") + "%"
}

// Match reports whether s matches the ilike pattern, case-insensitively,
// with '\' as the escape character.
func Match(pattern, s string) bool {
	return match([]rune(strings.ToLower(pattern)), []rune(strings.ToLower(s)))
}

func match(p, s []rune) bool {
	for len(p) > 0 {
		switch p[0] {
		case '%':
			for len(p) > 0 && p[0] == '%' {
				p = p[1:]
			}
			if len(p) == 0 {
				return true
			}
			for i := 0; i <= len(s); i++ {
				if match(p, s[i:]) {
					return true
				}
			}
			return false
		case '_':
			if len(s) == 0 {
				return false
			}
			p, s = p[1:], s[1:]
		default:
			c := p[0]
			if c == '\\' && len(p) > 1 {
				p = p[1:]
				c = p[0]
			}
			if len(s) == 0 || unicode.ToLower(s[0]) != c {
				return false
			}
			p, s = p[1:], s[1:]
		}
	}
	return len(s) == 0
}
