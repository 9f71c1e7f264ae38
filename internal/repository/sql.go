package repository

import (
	"fmt"
	"strings"
)

// whereBuilder accumulates conjunctive predicates with positional
// placeholders. Every predicate is parameterized; raw values never reach the
// SQL text.
type whereBuilder struct {
	clauses []string
	args    []any
}

// bind registers a value and returns its positional placeholder.
func (b *whereBuilder) bind(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

// and appends a predicate. The condition must already reference placeholders
// obtained from bind.
func (b *whereBuilder) and(cond string) {
	b.clauses = append(b.clauses, cond)
}

// andBind appends a predicate of the form "<expr> <op> $n" for a single value.
func (b *whereBuilder) andBind(expr string, v any) {
	b.and(expr + " " + b.bind(v))
}

// where renders the accumulated predicates, starting from the neutral 1=1 so
// callers can always concatenate.
func (b *whereBuilder) where() string {
	var sb strings.Builder
	sb.WriteString("WHERE 1=1")
	for _, c := range b.clauses {
		sb.WriteString(" AND ")
		sb.WriteString(c)
	}
	return sb.String()
}
