package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/satishbabariya/activerecord/internal/core/database/pool"
)

// ErrNotConnected is returned by adapters used before Connect.
var ErrNotConnected = errors.New("database not connected")

// SQLAdapter is the database/sql based adapter shared by the postgres, mysql
// and sqlite providers.
type SQLAdapter struct {
	driver  string
	dialect SQLDialect
	config  Config
	setup   []string

	// OnHealthCheck is forwarded to the pool.
	OnHealthCheck func(err error, took time.Duration)

	mu   sync.RWMutex
	pool *pool.Pool
}

// NewSQLAdapter creates an adapter for a registered database/sql driver.
// setup statements run once after the first successful ping.
func NewSQLAdapter(driver string, dialect SQLDialect, config Config, setup ...string) *SQLAdapter {
	if config.Driver != "" {
		driver = config.Driver
	}
	return &SQLAdapter{
		driver:  driver,
		dialect: dialect,
		config:  config,
		setup:   setup,
	}
}

// Driver returns the database/sql driver name.
func (a *SQLAdapter) Driver() string {
	return a.driver
}

// Connect opens the pool, pings the database and runs the setup statements.
func (a *SQLAdapter) Connect(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.pool != nil {
		return nil
	}

	p, err := pool.New(a.driver, a.config.URL, a.poolConfig())
	if err != nil {
		return err
	}

	if a.config.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.ConnectTimeout)
		defer cancel()
	}

	if err := p.Ping(ctx); err != nil {
		p.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	for _, stmt := range a.setup {
		if _, err := p.Exec(ctx, stmt); err != nil {
			p.Close()
			return fmt.Errorf("failed to run %q: %w", stmt, err)
		}
	}

	a.pool = p
	return nil
}

func (a *SQLAdapter) poolConfig() pool.Config {
	cfg := pool.Config{
		MaxOpenConns:        a.config.MaxConnections,
		MaxIdleConns:        a.config.MaxIdleConnections,
		ConnMaxLifetime:     a.config.ConnMaxLifetime,
		ConnMaxIdleTime:     a.config.MaxIdleTime,
		HealthCheckInterval: a.config.HealthCheck,
	}
	cfg.OnHealthCheck = a.OnHealthCheck
	return cfg
}

// Disconnect closes the pool.
func (a *SQLAdapter) Disconnect(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.pool == nil {
		return nil
	}
	err := a.pool.Close()
	a.pool = nil
	return err
}

// Execute executes a statement without returning rows.
func (a *SQLAdapter) Execute(ctx context.Context, query string, args ...interface{}) (Result, error) {
	p, err := a.current()
	if err != nil {
		return nil, err
	}
	return p.Exec(ctx, query, args...)
}

// Query executes a query that returns rows.
func (a *SQLAdapter) Query(ctx context.Context, query string, args ...interface{}) (Rows, error) {
	p, err := a.current()
	if err != nil {
		return nil, err
	}
	rows, err := p.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Ping checks if the database connection is alive.
func (a *SQLAdapter) Ping(ctx context.Context) error {
	p, err := a.current()
	if err != nil {
		return err
	}
	return p.Ping(ctx)
}

// GetDialect returns the SQL dialect.
func (a *SQLAdapter) GetDialect() SQLDialect {
	return a.dialect
}

// Stats returns pool statistics, zero before Connect.
func (a *SQLAdapter) Stats() pool.PoolStats {
	p, err := a.current()
	if err != nil {
		return pool.PoolStats{}
	}
	return p.Stats()
}

func (a *SQLAdapter) current() (*pool.Pool, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.pool == nil {
		return nil, ErrNotConnected
	}
	return a.pool, nil
}

// Ensure SQLAdapter implements Adapter interface.
var _ Adapter = (*SQLAdapter)(nil)
