// Package executor runs query descriptors against a database adapter.
package executor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/satishbabariya/activerecord/internal/adapters/database"
	"github.com/satishbabariya/activerecord/internal/adapters/telemetry"
	"github.com/satishbabariya/activerecord/internal/core/query/compiler"
	"github.com/satishbabariya/activerecord/internal/core/query/domain"
	"github.com/satishbabariya/activerecord/internal/core/query/mapper"
	"github.com/satishbabariya/activerecord/internal/logger"
)

// Operation names used in logs, metrics and StoreError.
const (
	OpCount   = "count"
	OpFetch   = "fetch"
	OpStream  = "stream"
	OpFirst   = "first"
	OpSingle  = "single"
	OpDelete  = "delete"
	OpPersist = "persist"
)

// Config configures an Executor.
type Config struct {
	Telemetry telemetry.Telemetry
	Logger    *slog.Logger

	// PersistConcurrency bounds the inserts Persist runs at once. Values
	// below 1 mean 1, which inserts in input order.
	PersistConcurrency int
}

// Executor runs statements for entities of type T.
type Executor[T any] struct {
	db          database.Adapter
	binding     mapper.Binding[T]
	compiler    *compiler.SQLCompiler
	telemetry   telemetry.Telemetry
	logger      *slog.Logger
	concurrency int
}

// New creates an executor for binding over db.
func New[T any](db database.Adapter, binding mapper.Binding[T], cfg Config) (*Executor[T], error) {
	if db == nil {
		return nil, fmt.Errorf("database adapter not initialized")
	}
	if err := binding.Validate(); err != nil {
		return nil, err
	}

	tel := cfg.Telemetry
	if tel == nil {
		tel = telemetry.NewNoopTelemetry()
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Get()
	}
	concurrency := cfg.PersistConcurrency
	if concurrency < 1 {
		concurrency = 1
	}

	return &Executor[T]{
		db:          db,
		binding:     binding,
		compiler:    compiler.NewSQLCompiler(domain.SQLDialect(db.GetDialect())),
		telemetry:   tel,
		logger:      log.With("model", binding.Table),
		concurrency: concurrency,
	}, nil
}

// Table returns the table T is stored in.
func (e *Executor[T]) Table() string {
	return e.binding.Table
}

// Binding returns the binding the executor maps rows with.
func (e *Executor[T]) Binding() mapper.Binding[T] {
	return e.binding
}

// Query returns a descriptor over the bound table with filter and sort.
func (e *Executor[T]) Query(filter domain.Filter, sort domain.Sort) domain.Query {
	return domain.Query{
		Model:    e.binding.Table,
		Columns:  e.binding.Columns,
		IDColumn: e.binding.IDColumn,
		Filter:   filter,
		Sort:     sort,
	}
}

// ByID returns a filter matching the row with identifier id.
func (e *Executor[T]) ByID(id interface{}) domain.Filter {
	return domain.Filter{
		Where:  e.binding.IDColumn + " = ?1",
		Params: domain.Params{Positional: []interface{}{id}},
	}
}

// storeError wraps a driver failure.
func (e *Executor[T]) storeError(op string, stmt domain.SQL, err error) error {
	return domain.NewStoreError(op, e.binding.Table, stmt.Query, err)
}

// observe logs a finished statement and records it through telemetry.
func (e *Executor[T]) observe(ctx context.Context, op string, stmt domain.SQL, start time.Time, rows int64, err error) {
	took := time.Since(start)
	log := logger.FromContext(ctx, e.logger)

	e.telemetry.RecordQuery(ctx, telemetry.QueryInfo{
		Model:     e.binding.Table,
		Operation: op,
		Duration:  took,
		Success:   err == nil,
		Rows:      rows,
	})

	if err != nil {
		log.ErrorContext(ctx, "statement failed",
			"op", op,
			"sql", stmt.Query,
			"duration", took,
			"error", err,
		)
		e.telemetry.RecordError(ctx, telemetry.ErrorInfo{
			Error:     err,
			Model:     e.binding.Table,
			Operation: op,
			Query:     stmt.Query,
		})
		return
	}

	log.DebugContext(ctx, "statement",
		"op", op,
		"sql", stmt.Query,
		"args", stmt.Args,
		"duration", took,
		"rows", rows,
	)
}

// Ensure Executor implements the QueryExecutor interface.
var _ domain.QueryExecutor[any] = (*Executor[any])(nil)
