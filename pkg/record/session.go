package record

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/satishbabariya/activerecord/internal/adapters/database"
	"github.com/satishbabariya/activerecord/internal/adapters/database/provider"
	"github.com/satishbabariya/activerecord/internal/adapters/telemetry"
	"github.com/satishbabariya/activerecord/internal/config"
	"github.com/satishbabariya/activerecord/internal/core/async"
	"github.com/satishbabariya/activerecord/internal/logger"
)

// DatabaseConfig describes how to reach the store.
type DatabaseConfig = database.Config

// Adapter is the store driver a Session runs statements on.
type Adapter = database.Adapter

// Session is the handle every repository, cursor and relation runs through.
// It is safe for concurrent use.
type Session struct {
	db        database.Adapter
	owned     bool
	pool      *async.Pool
	telemetry telemetry.Telemetry
	logger    *slog.Logger
	options   Options
}

// Open creates an adapter for cfg, connects it and returns a session that
// owns the connection.
func Open(ctx context.Context, cfg DatabaseConfig, opts ...Option) (*Session, error) {
	db, err := provider.New(cfg)
	if err != nil {
		return nil, err
	}

	s, err := NewSession(db, opts...)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	err = db.Connect(ctx)
	s.telemetry.RecordConnection(ctx, telemetry.ConnectionInfo{
		Event:    "connect",
		Duration: time.Since(start),
		Success:  err == nil,
	})
	if err != nil {
		s.pool.Release()
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	s.owned = true
	s.logger.Debug("session opened", "provider", cfg.Provider, "dialect", db.GetDialect())
	return s, nil
}

// FromConfig opens a session from loaded configuration. Explicit options
// win over the configured ones.
func FromConfig(ctx context.Context, cfg *config.Config, opts ...Option) (*Session, error) {
	log := logger.New(cfg.Log)
	tel, err := telemetry.NewTelemetry(&cfg.Telemetry, log)
	if err != nil {
		return nil, err
	}

	base := []Option{
		WithLogger(log),
		WithTelemetry(tel),
		WithWorkers(cfg.Engine.Workers),
		WithPersistConcurrency(cfg.Engine.PersistConcurrency),
		WithDefaultPageSize(cfg.Engine.DefaultPageSize),
	}
	return Open(ctx, cfg.Database, append(base, opts...)...)
}

// NewSession wraps an adapter the caller has already connected. Close does
// not disconnect it.
func NewSession(db Adapter, opts ...Option) (*Session, error) {
	if db == nil {
		return nil, fmt.Errorf("database adapter not initialized")
	}

	o := DefaultOptions()
	ApplyOptions(o, opts...)
	if o.Logger == nil {
		o.Logger = logger.Get()
	}
	if o.Telemetry == nil {
		o.Telemetry = telemetry.NewNoopTelemetry()
	}
	if o.DefaultPageSize < 1 {
		return nil, fmt.Errorf("default page size must be at least 1, got %d", o.DefaultPageSize)
	}

	pool, err := async.NewPool(o.Workers, o.Logger)
	if err != nil {
		return nil, err
	}

	return &Session{
		db:        db,
		pool:      pool,
		telemetry: o.Telemetry,
		logger:    o.Logger,
		options:   *o,
	}, nil
}

// Adapter returns the store driver.
func (s *Session) Adapter() Adapter {
	return s.db
}

// Telemetry returns the telemetry adapter.
func (s *Session) Telemetry() telemetry.Telemetry {
	return s.telemetry
}

// Logger returns the session logger.
func (s *Session) Logger() *slog.Logger {
	return s.logger
}

// Ping checks the store connection.
func (s *Session) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close stops the worker pool and flushes telemetry. A session created by
// Open also disconnects.
func (s *Session) Close(ctx context.Context) error {
	s.pool.Release()

	if err := s.telemetry.Flush(ctx); err != nil {
		s.logger.Warn("failed to flush telemetry", "error", err)
	}
	if !s.owned {
		return nil
	}

	start := time.Now()
	err := s.db.Disconnect(ctx)
	s.telemetry.RecordConnection(ctx, telemetry.ConnectionInfo{
		Event:    "disconnect",
		Duration: time.Since(start),
		Success:  err == nil,
	})
	if err != nil {
		return fmt.Errorf("failed to disconnect: %w", err)
	}
	return nil
}

// operation tags ctx with a fresh op_id unless it already carries one.
func (s *Session) operation(ctx context.Context) context.Context {
	if logger.OpID(ctx) != "" {
		return ctx
	}
	return logger.WithOpID(ctx, uuid.NewString())
}

func (s *Session) runner() async.Runner {
	return s.pool
}
