// Package mapper converts store rows into entities through a caller-supplied binding.
package mapper

import (
	"fmt"
	"strings"
	"time"
)

// Row is one result row: column names and the store-native values in select order.
type Row struct {
	Columns []string
	Values  []interface{}
}

// Scanner is the part of a row cursor the mapper needs.
type Scanner interface {
	Columns() ([]string, error)
	Scan(dest ...interface{}) error
}

// Scan reads the current row of rows.
func Scan(rows Scanner) (Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return Row{}, fmt.Errorf("failed to get columns: %w", err)
	}

	values := make([]interface{}, len(columns))
	valuePtrs := make([]interface{}, len(columns))
	for i := range values {
		valuePtrs[i] = &values[i]
	}

	if err := rows.Scan(valuePtrs...); err != nil {
		return Row{}, fmt.Errorf("failed to scan row: %w", err)
	}

	// Convert []byte to string for text columns; drivers reuse the buffer.
	for i, val := range values {
		if b, ok := val.([]byte); ok {
			values[i] = string(b)
		}
	}

	return Row{Columns: columns, Values: values}, nil
}

// Get returns the value of column, matched case-insensitively.
func (r Row) Get(column string) (interface{}, bool) {
	for i, c := range r.Columns {
		if c == column {
			return r.Values[i], true
		}
	}
	for i, c := range r.Columns {
		if strings.EqualFold(c, column) {
			return r.Values[i], true
		}
	}
	return nil, false
}

// IsNull reports whether column is absent or NULL.
func (r Row) IsNull(column string) bool {
	v, ok := r.Get(column)
	return !ok || v == nil
}

// Map returns the row as a column to value map.
func (r Row) Map() map[string]interface{} {
	out := make(map[string]interface{}, len(r.Columns))
	for i, c := range r.Columns {
		out[c] = r.Values[i]
	}
	return out
}

// Int64 returns column as an int64.
func (r Row) Int64(column string) (int64, error) {
	v, err := r.value(column)
	if err != nil {
		return 0, err
	}
	return ToInt64(v)
}

// Int returns column as an int.
func (r Row) Int(column string) (int, error) {
	v, err := r.Int64(column)
	return int(v), err
}

// String returns column as a string. NULL reads as "".
func (r Row) String(column string) (string, error) {
	v, err := r.value(column)
	if err != nil {
		return "", err
	}
	return ToString(v)
}

// Bool returns column as a bool.
func (r Row) Bool(column string) (bool, error) {
	v, err := r.value(column)
	if err != nil {
		return false, err
	}
	return ToBool(v)
}

// Float64 returns column as a float64.
func (r Row) Float64(column string) (float64, error) {
	v, err := r.value(column)
	if err != nil {
		return 0, err
	}
	return ToFloat64(v)
}

// Time returns column as a time.Time.
func (r Row) Time(column string) (time.Time, error) {
	v, err := r.value(column)
	if err != nil {
		return time.Time{}, err
	}
	return ToTime(v)
}

// NullInt64 returns column as an *int64, nil when NULL.
func (r Row) NullInt64(column string) (*int64, error) {
	if r.IsNull(column) {
		if _, ok := r.Get(column); !ok {
			return nil, fmt.Errorf("column %q not in row", column)
		}
		return nil, nil
	}
	v, err := r.Int64(column)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r Row) value(column string) (interface{}, error) {
	v, ok := r.Get(column)
	if !ok {
		return nil, fmt.Errorf("column %q not in row", column)
	}
	return v, nil
}
