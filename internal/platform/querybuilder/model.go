package querybuilder

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// Conflict renders ON CONFLICT ... DO UPDATE for a partial unique index.
// Columns in Excluded are copied from the proposed row; Set holds raw
// assignments such as "updated_at = NOW()". UpdateWhere, when set, skips the
// update for conflicting rows that fail it.
type Conflict struct {
	Target      []string
	Where       string
	Excluded    []string
	Set         []string
	UpdateWhere string
}

func (c Conflict) SQL() string {
	var buf strings.Builder
	buf.WriteString("ON CONFLICT (")
	buf.WriteString(strings.Join(c.Target, ", "))
	buf.WriteString(")")
	if where := strings.TrimSpace(c.Where); where != "" {
		buf.WriteString(" WHERE ")
		buf.WriteString(where)
	}

	assignments := make([]string, 0, len(c.Excluded)+len(c.Set))
	for _, col := range c.Excluded {
		assignments = append(assignments, col+" = EXCLUDED."+col)
	}
	assignments = append(assignments, c.Set...)
	if len(assignments) == 0 {
		buf.WriteString(" DO NOTHING")
		return buf.String()
	}
	buf.WriteString(" DO UPDATE SET ")
	buf.WriteString(strings.Join(assignments, ", "))
	if where := strings.TrimSpace(c.UpdateWhere); where != "" {
		buf.WriteString(" WHERE ")
		buf.WriteString(where)
	}
	return buf.String()
}

// UpsertModel inserts model and, on conflict, overwrites every model column
// outside the conflict target unless conflict.Excluded narrows the set.
func UpsertModel(table string, model any, conflict Conflict) (string, []any, error) {
	cols, vals, err := columnsAndValuesFromModel(model)
	if err != nil {
		return "", nil, err
	}
	if len(conflict.Target) == 0 {
		return "", nil, fmt.Errorf("upsert conflict target is required")
	}
	if len(conflict.Excluded) == 0 {
		for _, col := range cols {
			if !slices.Contains(conflict.Target, col) {
				conflict.Excluded = append(conflict.Excluded, col)
			}
		}
	}
	return InsertInto(table).
		Columns(cols...).
		Values(vals...).
		Suffix(conflict.SQL()).
		ToSQL()
}

func columnsAndValuesFromModel(model any) ([]string, []any, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil, nil, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("model must be struct, got %s", value.Kind())
	}

	typ := value.Type()
	cols := make([]string, 0, typ.NumField())
	vals := make([]any, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		col, _, _ := strings.Cut(field.Tag.Get("db"), ",")
		col = strings.TrimSpace(col)
		if col == "" || col == "-" {
			continue
		}
		cols = append(cols, col)
		vals = append(vals, value.Field(i).Interface())
	}

	if len(cols) == 0 {
		return nil, nil, fmt.Errorf("model %s has no db columns", typ.Name())
	}
	return cols, vals, nil
}
