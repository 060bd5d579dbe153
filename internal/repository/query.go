package repository

import (
	"strconv"
	"strings"
)

// query accumulates positional arguments and the WHERE / SET fragments that
// reference them.
type query struct {
	args  []any
	conds []string
	sets  []string
}

// arg appends v and returns its $n placeholder.
func (q *query) arg(v any) string {
	q.args = append(q.args, v)
	return "$" + strconv.Itoa(len(q.args))
}

func (q *query) where(cond string) {
	q.conds = append(q.conds, cond)
}

func (q *query) set(column string, v any) {
	q.sets = append(q.sets, column+" = "+q.arg(v))
}

func (q *query) whereSQL() string {
	if len(q.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.conds, " AND ")
}

func (q *query) setSQL() string {
	return strings.Join(q.sets, ", ")
}

func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
