// Package query provides the composable query value threaded through the
// builder reduction. A Query is an opaque accumulator: each predicate
// application produces a new value, so a builder step can never observe
// mutation from another step.
package query

import (
	"fmt"
	"strings"
)

// Op is the comparison operator of a single condition.
type Op string

const (
	OpEq      Op = "="
	OpNe      Op = "<>"
	OpGt      Op = ">"
	OpGte     Op = ">="
	OpLt      Op = "<"
	OpLte     Op = "<="
	OpLike    Op = "LIKE"
	OpILike   Op = "ILIKE"
	OpIsNull  Op = "IS NULL"
	OpNotNull Op = "IS NOT NULL"
)

// Condition is one predicate layered onto a query. Conditions always combine
// with AND, in the order they were added.
type Condition struct {
	Field string
	Op    Op
	Value any
}

// SortDirection represents ordering direction for sortable fields.
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// OrderBy orders the result set by a field in a direction.
type OrderBy struct {
	Field     string
	Direction SortDirection
}

// Query is an immutable-per-step select over one table. The zero value is
// not usable; start from New.
type Query struct {
	table   string
	columns []string
	conds   []Condition
	orderBy []OrderBy
	limit   int
	offset  int
}

// New returns an unfiltered query over table selecting all columns.
func New(table string) Query {
	return Query{table: table, limit: -1, offset: -1}
}

// Table returns the target table name.
func (q Query) Table() string {
	return q.table
}

// Conditions returns a copy of the accumulated conditions in application
// order.
func (q Query) Conditions() []Condition {
	out := make([]Condition, len(q.conds))
	copy(out, q.conds)
	return out
}

// Where returns a new query with one more condition ANDed on. The receiver
// is left untouched.
func (q Query) Where(field string, op Op, value any) Query {
	conds := make([]Condition, len(q.conds), len(q.conds)+1)
	copy(conds, q.conds)
	q.conds = append(conds, Condition{Field: field, Op: op, Value: value})
	return q
}

// WhereEq is the default equality predicate shorthand.
func (q Query) WhereEq(field string, value any) Query {
	return q.Where(field, OpEq, value)
}

// Select returns a new query restricted to the given columns.
func (q Query) Select(columns ...string) Query {
	q.columns = append([]string(nil), columns...)
	return q
}

// Order returns a new query with an additional sort directive.
func (q Query) Order(field string, direction SortDirection) Query {
	orderBy := make([]OrderBy, len(q.orderBy), len(q.orderBy)+1)
	copy(orderBy, q.orderBy)
	q.orderBy = append(orderBy, OrderBy{Field: field, Direction: direction})
	return q
}

// Limit returns a new query capped at n rows. Negative n removes the cap.
func (q Query) Limit(n int) Query {
	q.limit = n
	return q
}

// Offset returns a new query skipping n rows.
func (q Query) Offset(n int) Query {
	q.offset = n
	return q
}

// ToSQL renders the query as a parameterized SELECT with positional
// placeholders suitable for pgx.
func (q Query) ToSQL() (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	if len(q.columns) == 0 {
		sb.WriteString("*")
	} else {
		sb.WriteString(strings.Join(q.columns, ", "))
	}
	sb.WriteString(" FROM ")
	sb.WriteString(q.table)

	args := make([]any, 0, len(q.conds))
	for i, cond := range q.conds {
		if i == 0 {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}

		switch cond.Op {
		case OpIsNull, OpNotNull:
			sb.WriteString(fmt.Sprintf("%s %s", cond.Field, cond.Op))
		default:
			args = append(args, cond.Value)
			sb.WriteString(fmt.Sprintf("%s %s $%d", cond.Field, cond.Op, len(args)))
		}
	}

	for i, ob := range q.orderBy {
		if i == 0 {
			sb.WriteString(" ORDER BY ")
		} else {
			sb.WriteString(", ")
		}
		sb.WriteString(ob.Field)
		sb.WriteString(" ")
		sb.WriteString(string(ob.Direction))
	}

	if q.limit >= 0 {
		args = append(args, q.limit)
		sb.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	}
	if q.offset >= 0 {
		args = append(args, q.offset)
		sb.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))
	}

	return sb.String(), args
}

// ToCountSQL renders a COUNT(*) variant of the query ignoring ordering and
// paging.
func (q Query) ToCountSQL() (string, []any) {
	counted := q
	counted.columns = []string{"COUNT(*)"}
	counted.orderBy = nil
	counted.limit = -1
	counted.offset = -1
	return counted.ToSQL()
}
