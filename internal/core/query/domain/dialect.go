package domain

import "fmt"

// SQLDialect represents a SQL dialect.
type SQLDialect string

const (
	// PostgreSQL dialect.
	PostgreSQL SQLDialect = "postgres"
	// MySQL dialect.
	MySQL SQLDialect = "mysql"
	// SQLite dialect.
	SQLite SQLDialect = "sqlite"
)

// Placeholder returns the placeholder for the 1-based argument index.
func (d SQLDialect) Placeholder(index int) string {
	switch d {
	case PostgreSQL:
		return fmt.Sprintf("$%d", index)
	default:
		return "?"
	}
}

// Numbered reports whether placeholders carry their argument index, so that
// one argument can be referenced more than once.
func (d SQLDialect) Numbered() bool {
	return d == PostgreSQL
}

// SupportsReturning reports whether INSERT ... RETURNING is available.
func (d SQLDialect) SupportsReturning() bool {
	return d == PostgreSQL
}
