// Package query composes parameterized SQL out of immutable fragments.
//
// Fragments are written with '?' placeholders and carry their own args.
// Composition concatenates text and args in order, and Build numbers the
// placeholders as $1..$n for Postgres once the statement is complete.
package query

import (
	"strconv"
	"strings"
)

// Fragment is a piece of SQL text with the args for its placeholders.
// The zero value is an empty fragment. Fragments are never mutated.
type Fragment struct {
	sql  string
	args []any
}

// New returns a fragment. The number of '?' in sql must equal len(args).
func New(sql string, args ...any) Fragment {
	return Fragment{sql: sql, args: append([]any(nil), args...)}
}

// SQL returns the fragment text with '?' placeholders.
func (f Fragment) SQL() string { return f.sql }

// Args returns a copy of the fragment args.
func (f Fragment) Args() []any { return append([]any(nil), f.args...) }

// IsZero reports whether the fragment has no text.
func (f Fragment) IsZero() bool { return strings.TrimSpace(f.sql) == "" }

// Wrap surrounds f with literal text.
func (f Fragment) Wrap(prefix, suffix string) Fragment {
	return Fragment{sql: prefix + f.sql + suffix, args: f.Args()}
}

// Append concatenates the fragments after f, separated by newlines.
func (f Fragment) Append(parts ...Fragment) Fragment {
	return Join("\n", append([]Fragment{f}, parts...)...)
}

// Join concatenates non-empty fragments with sep.
func Join(sep string, parts ...Fragment) Fragment {
	var b strings.Builder
	var args []any
	first := true
	for _, p := range parts {
		if p.IsZero() {
			continue
		}
		if !first {
			b.WriteString(sep)
		}
		first = false
		b.WriteString(p.sql)
		args = append(args, p.args...)
	}
	return Fragment{sql: b.String(), args: args}
}

// And joins conditions with "and"; no conditions yield "true".
func And(conds ...Fragment) Fragment {
	out := Join(" and ", conds...)
	if out.IsZero() {
		return New("true")
	}
	return out
}

// Build renders the final Postgres statement with numbered placeholders.
func (f Fragment) Build() (string, []any) {
	var b strings.Builder
	b.Grow(len(f.sql) + 8)
	n := 0
	for _, r := range f.sql {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String(), f.Args()
}

// Placeholders counts the '?' markers in f.
func (f Fragment) Placeholders() int { return strings.Count(f.sql, "?") }
