// Package telemetry records what the query engine does: one event per
// statement, per failed operation and per connection lifecycle change.
package telemetry

import (
	"context"
	"time"
)

// Telemetry receives engine events. Implementations must be safe for
// concurrent use; the executor reports from pool workers.
type Telemetry interface {
	RecordQuery(ctx context.Context, info QueryInfo)
	RecordError(ctx context.Context, info ErrorInfo)
	RecordConnection(ctx context.Context, info ConnectionInfo)

	// Flush pushes buffered events, if the backend buffers.
	Flush(ctx context.Context) error
	Close(ctx context.Context) error
}

// QueryInfo describes one executed statement.
type QueryInfo struct {
	Model     string // table
	Operation string // count, fetch, stream, first, single, delete, persist
	Duration  time.Duration
	Success   bool
	Rows      int64 // read or affected
}

// ErrorInfo describes a failed operation. Query is empty when the failure
// happened before a statement was compiled.
type ErrorInfo struct {
	Error     error
	Model     string
	Operation string
	Query     string
}

// ConnectionInfo describes a connect, disconnect or health event.
type ConnectionInfo struct {
	Event             string
	Duration          time.Duration
	Success           bool
	ActiveConnections int
}

// Config selects the backend.
type Config struct {
	Type      string // noop, prometheus, log
	Namespace string // metric name prefix
}
