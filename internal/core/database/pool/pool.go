// Package pool wraps database/sql with connection limits and a background
// health probe.
package pool

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// probeTimeout bounds a single background health probe.
const probeTimeout = 5 * time.Second

// Config holds connection limits and the probe schedule.
type Config struct {
	MaxOpenConns    int // 0 = unlimited
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration

	// HealthCheckInterval schedules background probes; 0 disables them.
	HealthCheckInterval time.Duration

	// OnHealthCheck observes every probe, background or explicit.
	OnHealthCheck func(err error, took time.Duration)
}

// DefaultConfig returns the limits used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		MaxOpenConns:        25,
		MaxIdleConns:        5,
		ConnMaxLifetime:     30 * time.Minute,
		ConnMaxIdleTime:     10 * time.Minute,
		HealthCheckInterval: time.Minute,
	}
}

func (c Config) apply(db *sql.DB) {
	db.SetMaxOpenConns(c.MaxOpenConns)
	db.SetMaxIdleConns(c.MaxIdleConns)
	db.SetConnMaxLifetime(c.ConnMaxLifetime)
	db.SetConnMaxIdleTime(c.ConnMaxIdleTime)
}

// Pool is a *sql.DB plus probe bookkeeping.
type Pool struct {
	db     *sql.DB
	config Config

	failures  atomic.Int64
	lastProbe atomic.Int64 // unix nanos, 0 = never

	stop     chan struct{}
	stopOnce sync.Once
	probing  sync.WaitGroup
}

// New opens a pool. sql.Open does not dial; the first statement or Ping does.
func New(driverName, dataSourceName string, config Config) (*Pool, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s pool: %w", driverName, err)
	}
	config.apply(db)

	p := &Pool{db: db, config: config, stop: make(chan struct{})}
	if config.HealthCheckInterval > 0 {
		p.probing.Add(1)
		go p.probeLoop(config.HealthCheckInterval)
	}
	return p, nil
}

// DB returns the underlying *sql.DB.
func (p *Pool) DB() *sql.DB {
	return p.db
}

// PoolStats combines database/sql counters with probe results.
type PoolStats struct {
	MaxOpenConnections int
	OpenConnections    int
	InUse              int
	Idle               int
	WaitCount          int64
	WaitDuration       time.Duration
	FailedHealthChecks int64
	LastHealthCheck    time.Time
}

// Stats returns a snapshot of the pool counters.
func (p *Pool) Stats() PoolStats {
	s := p.db.Stats()
	out := PoolStats{
		MaxOpenConnections: s.MaxOpenConnections,
		OpenConnections:    s.OpenConnections,
		InUse:              s.InUse,
		Idle:               s.Idle,
		WaitCount:          s.WaitCount,
		WaitDuration:       s.WaitDuration,
		FailedHealthChecks: p.failures.Load(),
	}
	if ns := p.lastProbe.Load(); ns != 0 {
		out.LastHealthCheck = time.Unix(0, ns)
	}
	return out
}

// HealthCheck probes the database once.
func (p *Pool) HealthCheck(ctx context.Context) error {
	start := time.Now()
	p.lastProbe.Store(start.UnixNano())

	err := p.db.PingContext(ctx)
	if err != nil {
		p.failures.Add(1)
		err = fmt.Errorf("health check failed: %w", err)
	}
	if hook := p.config.OnHealthCheck; hook != nil {
		hook(err, time.Since(start))
	}
	return err
}

func (p *Pool) probeLoop(every time.Duration) {
	defer p.probing.Done()

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
			_ = p.HealthCheck(ctx)
			cancel()
		}
	}
}

// Close stops probing and closes every connection. It is safe to call twice.
func (p *Pool) Close() error {
	p.stopOnce.Do(func() { close(p.stop) })
	p.probing.Wait()
	return p.db.Close()
}

// Exec runs a statement that returns no rows.
func (p *Pool) Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return p.db.ExecContext(ctx, query, args...)
}

// Query runs a statement that returns rows.
func (p *Pool) Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return p.db.QueryContext(ctx, query, args...)
}

// Ping dials if needed and verifies the connection.
func (p *Pool) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}
