package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
)

// InsertModels prepares a multi-row insert from db-tagged structs. All
// models share the column list of the first one.
func InsertModels[T any](table string, models []T) (*InsertBuilder, error) {
	if len(models) == 0 {
		return nil, fmt.Errorf("insert models are required")
	}

	b := InsertInto(table)
	for i, model := range models {
		cols, vals, err := columnsAndValuesFromModel(model)
		if err != nil {
			return nil, fmt.Errorf("model %d: %w", i, err)
		}
		if i == 0 {
			b.Columns(cols...)
		}
		b.Values(vals...)
	}
	return b, nil
}

// Columns lists the db column names of a tagged struct in field order.
func Columns(model any) ([]string, error) {
	cols, _, err := columnsAndValuesFromModel(model)
	return cols, err
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
		return nil, nil, fmt.Errorf("model must be struct")
	}

	typ := value.Type()
	cols := make([]string, 0, typ.NumField())
	vals := make([]any, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if field.PkgPath != "" {
			continue
		}
		tag := strings.TrimSpace(field.Tag.Get("db"))
		if tag == "" || tag == "-" {
			continue
		}
		col := strings.TrimSpace(strings.Split(tag, ",")[0])
		if col == "" || col == "-" {
			continue
		}
		cols = append(cols, col)
		vals = append(vals, value.Field(i).Interface())
	}

	if len(cols) == 0 {
		return nil, nil, fmt.Errorf("model has no db columns")
	}
	return cols, vals, nil
}
