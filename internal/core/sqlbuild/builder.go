// Package sqlbuild assembles PostgreSQL statements from trusted text fragments
// and bound arguments. Fragment text is written verbatim; every caller-supplied
// value goes through Bind and becomes a positional placeholder ($1, $2, ...).
// Render is the only way to get SQL text out, and it always returns the text
// together with the argument list it was numbered against.
package sqlbuild

import (
	"strconv"
	"strings"
)

// Fragment is SQL text from a constant or a fixed vocabulary.
// Never convert request input to a Fragment; bind it instead.
type Fragment string

// Statement is rendered SQL plus its positional arguments.
type Statement struct {
	SQL  string
	Args []interface{}
}

// Clause writes a self-contained piece of SQL (for example one predicate) into a builder.
type Clause func(b *Builder)

// Builder accumulates fragments and arguments. The zero value is ready to use.
type Builder struct {
	sb   strings.Builder
	args []interface{}
}

// Write appends fragments separated by a single space.
func (b *Builder) Write(parts ...Fragment) *Builder {
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.space()
		b.sb.WriteString(string(p))
	}
	return b
}

// Bind appends a placeholder for v.
func (b *Builder) Bind(v interface{}) *Builder {
	b.space()
	b.bind(v)
	return b
}

// List appends fragments joined by sep, e.g. a SELECT or GROUP BY list.
func (b *Builder) List(sep Fragment, parts []Fragment) *Builder {
	if len(parts) == 0 {
		return b
	}
	b.space()
	for i, p := range parts {
		if i > 0 {
			b.sb.WriteString(string(sep))
		}
		b.sb.WriteString(string(p))
	}
	return b
}

// Clauses appends clauses joined by the keyword sep (e.g. "AND").
func (b *Builder) Clauses(sep Fragment, clauses []Clause) *Builder {
	for i, c := range clauses {
		if i > 0 {
			b.Write(sep)
		}
		c(b)
	}
	return b
}

// Nested runs fn inside parentheses.
func (b *Builder) Nested(fn func(b *Builder)) *Builder {
	b.space()
	b.sb.WriteString("(")
	fn(b)
	b.sb.WriteString(")")
	return b
}

// Len reports the number of bound arguments so far.
func (b *Builder) Len() int {
	return len(b.args)
}

// Render returns the accumulated SQL and a copy of its arguments.
func (b *Builder) Render() Statement {
	args := make([]interface{}, len(b.args))
	copy(args, b.args)
	return Statement{SQL: b.sb.String(), Args: args}
}

func (b *Builder) bind(v interface{}) {
	b.args = append(b.args, v)
	b.sb.WriteString("$")
	b.sb.WriteString(strconv.Itoa(len(b.args)))
}

func (b *Builder) space() {
	if b.sb.Len() == 0 {
		return
	}
	s := b.sb.String()
	if last := s[len(s)-1]; last == ' ' || last == '(' {
		return
	}
	b.sb.WriteByte(' ')
}
