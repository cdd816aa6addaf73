// Package pgx implements the PostgreSQL database adapter over a native pgx pool.
package pgx

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/satishbabariya/activerecord/internal/adapters/database"
)

// PgxAdapter implements the database.Adapter interface with pgxpool.
type PgxAdapter struct {
	config database.Config

	mu   sync.RWMutex
	pool *pgxpool.Pool
}

// NewPgxAdapter creates a new pgx adapter.
func NewPgxAdapter(config database.Config) *PgxAdapter {
	return &PgxAdapter{config: config}
}

// Connect parses the URL, applies pool limits and pings the server.
func (a *PgxAdapter) Connect(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.pool != nil {
		return nil
	}

	poolConfig, err := pgxpool.ParseConfig(a.config.URL)
	if err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if a.config.MaxConnections > 0 {
		poolConfig.MaxConns = int32(a.config.MaxConnections)
	}
	if a.config.ConnMaxLifetime > 0 {
		poolConfig.MaxConnLifetime = a.config.ConnMaxLifetime
	}
	if a.config.MaxIdleTime > 0 {
		poolConfig.MaxConnIdleTime = a.config.MaxIdleTime
	}
	if a.config.HealthCheck > 0 {
		poolConfig.HealthCheckPeriod = a.config.HealthCheck
	}

	if a.config.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.ConnectTimeout)
		defer cancel()
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	a.pool = pool
	return nil
}

// Disconnect closes the pool.
func (a *PgxAdapter) Disconnect(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.pool != nil {
		a.pool.Close()
		a.pool = nil
	}
	return nil
}

// Execute executes a statement without returning rows.
func (a *PgxAdapter) Execute(ctx context.Context, query string, args ...interface{}) (database.Result, error) {
	pool, err := a.current()
	if err != nil {
		return nil, err
	}
	tag, err := pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return result{tag: tag}, nil
}

// Query executes a query that returns rows.
func (a *PgxAdapter) Query(ctx context.Context, query string, args ...interface{}) (database.Rows, error) {
	pool, err := a.current()
	if err != nil {
		return nil, err
	}
	r, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &rows{rows: r}, nil
}

// Ping checks if the database connection is alive.
func (a *PgxAdapter) Ping(ctx context.Context) error {
	pool, err := a.current()
	if err != nil {
		return err
	}
	return pool.Ping(ctx)
}

// GetDialect returns the SQL dialect.
func (a *PgxAdapter) GetDialect() database.SQLDialect {
	return database.PostgreSQL
}

func (a *PgxAdapter) current() (*pgxpool.Pool, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.pool == nil {
		return nil, database.ErrNotConnected
	}
	return a.pool, nil
}

// rows adapts pgx.Rows to database.Rows.
type rows struct {
	rows pgx.Rows
}

func (r *rows) Columns() ([]string, error) {
	fields := r.rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Name
	}
	return columns, nil
}

func (r *rows) Next() bool {
	return r.rows.Next()
}

func (r *rows) Scan(dest ...interface{}) error {
	return r.rows.Scan(dest...)
}

func (r *rows) Close() error {
	r.rows.Close()
	return r.rows.Err()
}

func (r *rows) Err() error {
	return r.rows.Err()
}

// errNoLastInsertID is returned because PostgreSQL reports generated keys through RETURNING.
var errNoLastInsertID = errors.New("pgx: LastInsertId is not supported, use RETURNING")

// result adapts pgconn.CommandTag to database.Result.
type result struct {
	tag pgconn.CommandTag
}

func (r result) LastInsertId() (int64, error) {
	return 0, errNoLastInsertID
}

func (r result) RowsAffected() (int64, error) {
	return r.tag.RowsAffected(), nil
}

// Ensure PgxAdapter implements Adapter interface.
var _ database.Adapter = (*PgxAdapter)(nil)
