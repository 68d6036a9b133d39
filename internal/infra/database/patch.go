package database

import (
	"fmt"
	"strings"
)

// patchBuilder assembles "UPDATE ... SET" statements from the non-nil fields of
// a patch. Columns come from code, never from request input.
type patchBuilder struct {
	sets   []string
	guards []string
	args   []any
}

func (b *patchBuilder) set(column string, value any) {
	b.args = append(b.args, value)
	b.sets = append(b.sets, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

// guard adds "column = value" to the WHERE clause.
func (b *patchBuilder) guard(column string, value any) {
	b.args = append(b.args, value)
	b.guards = append(b.guards, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

func (b *patchBuilder) empty() bool { return len(b.sets) == 0 }

// build returns the statement for a soft-deletable table. ok is false when no
// field was set.
func (b *patchBuilder) build(table string, id int64) (query string, args []any, ok bool) {
	if b.empty() {
		return "", nil, false
	}
	args = append(b.args, id)
	query = fmt.Sprintf(
		"UPDATE %s SET %s, updated_at = NOW() WHERE id = $%d AND deleted_at IS NULL",
		table, strings.Join(b.sets, ", "), len(args),
	)
	for _, g := range b.guards {
		query += " AND " + g
	}
	return query, args, true
}

// setIf adds column only when the patch carries a value for it.
func setIf[T any](b *patchBuilder, column string, v *T) {
	if v != nil {
		b.set(column, *v)
	}
}
