package mapper

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// Binding describes how entities of type T are stored. It is the executor's
// only view of T; no reflection is involved.
type Binding[T any] struct {
	// Table is the table that holds T.
	Table string

	// IDColumn is the generated identifier column.
	IDColumn string

	// Columns are selected in this order. Empty selects every column.
	Columns []string

	// Decode builds an entity from a row.
	Decode func(Row) (T, error)

	// Encode returns the columns and values to insert, identifier excluded.
	Encode func(T) ([]string, []interface{})

	// ID returns the identifier and whether it is set.
	ID func(T) (interface{}, bool)

	// SetID stores a generated identifier on the entity.
	SetID func(T, interface{}) error
}

// Validate reports a binding that cannot be used.
func (b Binding[T]) Validate() error {
	var errs []error
	if b.Table == "" {
		errs = append(errs, errors.New("table is required"))
	}
	if b.Decode == nil {
		errs = append(errs, errors.New("decode is required"))
	}
	if b.Encode == nil {
		errs = append(errs, errors.New("encode is required"))
	}
	if b.ID == nil || b.SetID == nil {
		errs = append(errs, errors.New("identifier accessors are required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid binding for %q: %w", b.Table, errors.Join(errs...))
	}
	return nil
}

// RowMap is an untyped entity: column name to value.
type RowMap map[string]interface{}

// RowMapBinding maps any table to RowMap. Every column is selected and every
// key except the identifier is inserted, in name order.
func RowMapBinding(table, idColumn string) Binding[RowMap] {
	return Binding[RowMap]{
		Table:    table,
		IDColumn: idColumn,
		Decode: func(r Row) (RowMap, error) {
			return RowMap(r.Map()), nil
		},
		Encode: func(m RowMap) ([]string, []interface{}) {
			columns := make([]string, 0, len(m))
			for _, k := range slices.Sorted(maps.Keys(m)) {
				if k != idColumn {
					columns = append(columns, k)
				}
			}
			values := make([]interface{}, len(columns))
			for i, c := range columns {
				values[i] = m[c]
			}
			return columns, values
		},
		ID: func(m RowMap) (interface{}, bool) {
			v, ok := m[idColumn]
			return v, ok && v != nil
		},
		SetID: func(m RowMap, id interface{}) error {
			if m == nil {
				return errors.New("nil row map")
			}
			m[idColumn] = id
			return nil
		},
	}
}
