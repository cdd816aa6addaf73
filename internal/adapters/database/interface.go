// Package database defines database adapter interfaces.
package database

import (
	"context"
	"time"
)

// Adapter defines the database adapter interface.
type Adapter interface {
	// Connect establishes a database connection.
	Connect(ctx context.Context) error

	// Disconnect closes the database connection.
	Disconnect(ctx context.Context) error

	// Execute executes a SQL statement.
	Execute(ctx context.Context, query string, args ...interface{}) (Result, error)

	// Query executes a query that returns rows. Callers must close the rows.
	Query(ctx context.Context, query string, args ...interface{}) (Rows, error)

	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// GetDialect returns the SQL dialect.
	GetDialect() SQLDialect
}

// Rows is a forward-only row cursor. *sql.Rows satisfies it.
type Rows interface {
	Columns() ([]string, error)
	Next() bool
	Scan(dest ...interface{}) error
	Close() error
	Err() error
}

// Result is the outcome of a statement that returns no rows. sql.Result satisfies it.
type Result interface {
	LastInsertId() (int64, error)
	RowsAffected() (int64, error)
}

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

// Config holds database connection configuration.
type Config struct {
	Provider           string
	Driver             string // Driver overrides the provider's default database/sql driver name
	URL                string
	MaxConnections     int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
	MaxIdleTime        time.Duration
	ConnectTimeout     time.Duration
	HealthCheck        time.Duration
}

// DefaultConfig returns the connection defaults.
func DefaultConfig() Config {
	return Config{
		MaxConnections:     25,
		MaxIdleConnections: 5,
		ConnMaxLifetime:    30 * time.Minute,
		MaxIdleTime:        10 * time.Minute,
		ConnectTimeout:     10 * time.Second,
		HealthCheck:        time.Minute,
	}
}
