// Package querybuilder renders the small set of Postgres statements the
// repositories need, with $n placeholders numbered in bind order.
package querybuilder

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
)

// stmt accumulates SQL text and its positional args.
type stmt struct {
	sql  strings.Builder
	args []any
}

func (s *stmt) write(parts ...string) {
	for _, p := range parts {
		s.sql.WriteString(p)
	}
}

// bind appends v and writes its placeholder.
func (s *stmt) bind(v any) {
	s.args = append(s.args, v)
	s.sql.WriteString("$")
	s.sql.WriteString(strconv.Itoa(len(s.args)))
}

// expr writes raw SQL, binding exprArgs to its '?' markers in order. Extra
// markers are left as-is.
func (s *stmt) expr(raw string, exprArgs []any) {
	for i := 0; i < len(raw); i++ {
		if raw[i] == '?' && len(exprArgs) > 0 {
			s.bind(exprArgs[0])
			exprArgs = exprArgs[1:]
			continue
		}
		s.sql.WriteByte(raw[i])
	}
}

func (s *stmt) where(conditions []Condition) {
	for i, c := range conditions {
		if i == 0 {
			s.write(" WHERE ")
		} else {
			s.write(" AND ")
		}
		c.render(s)
	}
}

func (s *stmt) done() (string, []any, error) {
	return s.sql.String(), s.args, nil
}

// Condition is one AND-ed predicate of a WHERE clause.
type Condition interface {
	render(s *stmt)
}

type conditionFunc func(s *stmt)

func (f conditionFunc) render(s *stmt) { f(s) }

// compare renders "column op $n".
func compare(column, op string, value any) Condition {
	return conditionFunc(func(s *stmt) {
		s.write(column, " ", op, " ")
		s.bind(value)
	})
}

func Eq(column string, value any) Condition {
	return compare(column, "=", value)
}

// Before matches rows whose column is strictly less than value.
func Before(column string, value any) Condition {
	return compare(column, "<", value)
}

// Window matches from <= column < to.
func Window(column string, from, to any) Condition {
	return conditionFunc(func(s *stmt) {
		compare(column, ">=", from).render(s)
		s.write(" AND ")
		compare(column, "<", to).render(s)
	})
}

// ArrayContains matches text[] columns holding every given value; a GIN index serves it.
func ArrayContains(column string, values ...string) Condition {
	return compare(column, "@>", pq.Array(append([]string{}, values...)))
}

// In renders an IN list. An empty list matches nothing.
func In(column string, values []any) Condition {
	return conditionFunc(func(s *stmt) {
		if len(values) == 0 {
			s.write("1=0")
			return
		}
		s.write(column, " IN (")
		for i, v := range values {
			if i > 0 {
				s.write(", ")
			}
			s.bind(v)
		}
		s.write(")")
	})
}

// InStrings is In over string keys, the common case for public ids.
func InStrings(column string, values []string) Condition {
	anyValues := make([]any, len(values))
	for i, v := range values {
		anyValues[i] = v
	}
	return In(column, anyValues)
}

func IsNull(column string) Condition {
	return conditionFunc(func(s *stmt) {
		s.write(column, " IS NULL")
	})
}

func requireTable(kind, table string) error {
	if strings.TrimSpace(table) == "" {
		return fmt.Errorf("%s table is required", kind)
	}
	return nil
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	orderBy []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

// Limit of zero or less means no LIMIT clause.
func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, errors.New("select columns are required")
	}
	if err := requireTable("select", b.table); err != nil {
		return "", nil, err
	}

	var s stmt
	s.write("SELECT ", strings.Join(b.columns, ", "), " FROM ", b.table)
	s.where(b.where)
	if len(b.orderBy) > 0 {
		s.write(" ORDER BY ", strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		s.write(" LIMIT ", strconv.Itoa(b.limit))
	}
	return s.done()
}

type InsertBuilder struct {
	table   string
	columns []string
	rows    [][]any
	suffix  string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

// Values adds one row; call it again for a multi-row insert.
func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, append([]any(nil), values...))
	return b
}

// Suffix is appended verbatim, typically an ON CONFLICT clause.
func (b *InsertBuilder) Suffix(sql string) *InsertBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	if err := requireTable("insert", b.table); err != nil {
		return "", nil, err
	}
	if len(b.columns) == 0 {
		return "", nil, errors.New("insert columns are required")
	}
	if len(b.rows) == 0 {
		return "", nil, errors.New("insert values are required")
	}

	var s stmt
	s.write("INSERT INTO ", b.table, " (", strings.Join(b.columns, ", "), ") VALUES ")
	for i, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, fmt.Errorf("insert row %d has %d values, expected %d", i, len(row), len(b.columns))
		}
		if i > 0 {
			s.write(", ")
		}
		s.write("(")
		for j, v := range row {
			if j > 0 {
				s.write(", ")
			}
			s.bind(v)
		}
		s.write(")")
	}
	if b.suffix != "" {
		s.write(" ", b.suffix)
	}
	return s.done()
}

// assignment is one "column = ..." of an UPDATE.
type assignment struct {
	column string
	render func(s *stmt)
}

type UpdateBuilder struct {
	table string
	sets  []assignment
	where []Condition
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, render: func(s *stmt) { s.bind(value) }})
	return b
}

// SetExpr assigns a raw expression such as NOW(), with '?' markers for args.
func (b *UpdateBuilder) SetExpr(column, raw string, args ...any) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, render: func(s *stmt) { s.expr(raw, args) }})
	return b
}

func (b *UpdateBuilder) Where(conditions ...Condition) *UpdateBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	if err := requireTable("update", b.table); err != nil {
		return "", nil, err
	}
	if len(b.sets) == 0 {
		return "", nil, errors.New("update sets are required")
	}

	var s stmt
	s.write("UPDATE ", b.table, " SET ")
	for i, a := range b.sets {
		if i > 0 {
			s.write(", ")
		}
		s.write(a.column, " = ")
		a.render(&s)
	}
	s.where(b.where)
	return s.done()
}

type DeleteBuilder struct {
	table string
	where []Condition
}

func DeleteFrom(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

func (b *DeleteBuilder) Where(conditions ...Condition) *DeleteBuilder {
	b.where = append(b.where, conditions...)
	return b
}

// ToSQL refuses an unfiltered delete.
func (b *DeleteBuilder) ToSQL() (string, []any, error) {
	if err := requireTable("delete", b.table); err != nil {
		return "", nil, err
	}
	if len(b.where) == 0 {
		return "", nil, errors.New("delete without where clause is not allowed")
	}

	var s stmt
	s.write("DELETE FROM ", b.table)
	s.where(b.where)
	return s.done()
}
