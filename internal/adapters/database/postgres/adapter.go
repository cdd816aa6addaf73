// Package postgres implements the PostgreSQL database adapter over lib/pq.
package postgres

import (
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/satishbabariya/activerecord/internal/adapters/database"
)

// PostgresAdapter implements the database.Adapter interface for PostgreSQL.
type PostgresAdapter struct {
	*database.SQLAdapter
}

// NewPostgresAdapter creates a new PostgreSQL adapter.
func NewPostgresAdapter(config database.Config) *PostgresAdapter {
	return &PostgresAdapter{
		SQLAdapter: database.NewSQLAdapter("postgres", database.PostgreSQL, config),
	}
}

// Ensure PostgresAdapter implements Adapter interface.
var _ database.Adapter = (*PostgresAdapter)(nil)
