package record

import (
	"github.com/satishbabariya/activerecord/internal/core/query/mapper"
)

// Row is one result row with coercion helpers.
type Row = mapper.Row

// RowMap is an untyped entity: column name to value.
type RowMap = mapper.RowMap

// Mapping tells a repository how entities of type T are stored.
type Mapping[T any] interface {
	// Table is the table that holds T.
	Table() string

	// IDColumn is the generated identifier column.
	IDColumn() string

	// Columns lists the selected columns, identifier first. Nil selects all.
	Columns() []string

	// FromRow builds an entity. Relations keep s to resolve later.
	FromRow(s *Session, row Row) (T, error)

	// ToTuple returns the columns and values to insert, identifier excluded.
	ToTuple(entity T) ([]string, []interface{})

	// ID returns the identifier and whether the entity has one.
	ID(entity T) (interface{}, bool)

	// SetID stores a generated identifier on the entity.
	SetID(entity T, id interface{}) error
}

// Model is embedded by entities with a generated integer identifier.
type Model struct {
	ID *int64
}

// IsPersistent reports whether the entity was saved.
func (m *Model) IsPersistent() bool {
	return m != nil && m.ID != nil
}

// Identifier returns the identifier in the shape Mapping.ID expects.
func (m *Model) Identifier() (interface{}, bool) {
	if !m.IsPersistent() {
		return nil, false
	}
	return *m.ID, true
}

// AssignID stores a generated identifier.
func (m *Model) AssignID(id interface{}) error {
	n, err := mapper.ToInt64(id)
	if err != nil {
		return err
	}
	m.ID = &n
	return nil
}

func bindingOf[T any](s *Session, m Mapping[T]) mapper.Binding[T] {
	return mapper.Binding[T]{
		Table:    m.Table(),
		IDColumn: m.IDColumn(),
		Columns:  m.Columns(),
		Decode: func(row mapper.Row) (T, error) {
			return m.FromRow(s, row)
		},
		Encode: m.ToTuple,
		ID:     m.ID,
		SetID:  m.SetID,
	}
}

// rowMapping maps any table to RowMap.
type rowMapping struct {
	binding mapper.Binding[RowMap]
}

// Rows returns a mapping of table to RowMap with identifier column "id".
func Rows(table string) Mapping[RowMap] {
	return RowsKeyed(table, "id")
}

// RowsKeyed returns a mapping of table to RowMap with the given identifier column.
func RowsKeyed(table, idColumn string) Mapping[RowMap] {
	return rowMapping{binding: mapper.RowMapBinding(table, idColumn)}
}

func (r rowMapping) Table() string     { return r.binding.Table }
func (r rowMapping) IDColumn() string  { return r.binding.IDColumn }
func (r rowMapping) Columns() []string { return nil }

func (r rowMapping) FromRow(_ *Session, row Row) (RowMap, error) {
	return r.binding.Decode(row)
}

func (r rowMapping) ToTuple(m RowMap) ([]string, []interface{}) {
	return r.binding.Encode(m)
}

func (r rowMapping) ID(m RowMap) (interface{}, bool) {
	return r.binding.ID(m)
}

func (r rowMapping) SetID(m RowMap, id interface{}) error {
	return r.binding.SetID(m, id)
}
