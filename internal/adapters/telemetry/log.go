package telemetry

import (
	"context"
	"log/slog"
)

// LogTelemetry writes every event to a structured logger.
type LogTelemetry struct {
	logger *slog.Logger
}

// NewLogTelemetry creates a telemetry adapter that logs through logger.
func NewLogTelemetry(logger *slog.Logger) *LogTelemetry {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogTelemetry{logger: logger.With("component", "telemetry")}
}

// RecordQuery logs a statement at debug level.
func (l *LogTelemetry) RecordQuery(ctx context.Context, info QueryInfo) {
	l.logger.DebugContext(ctx, "query",
		"model", info.Model,
		"operation", info.Operation,
		"duration", info.Duration,
		"success", info.Success,
		"rows", info.Rows,
	)
}

// RecordError logs an error.
func (l *LogTelemetry) RecordError(ctx context.Context, info ErrorInfo) {
	l.logger.ErrorContext(ctx, "query failed",
		"model", info.Model,
		"operation", info.Operation,
		"kind", errorKind(info.Error),
		"sql", info.Query,
		"error", info.Error,
	)
}

// RecordConnection logs a connection event.
func (l *LogTelemetry) RecordConnection(ctx context.Context, info ConnectionInfo) {
	level := slog.LevelInfo
	if !info.Success {
		level = slog.LevelWarn
	}
	l.logger.Log(ctx, level, "connection",
		"event", info.Event,
		"duration", info.Duration,
		"success", info.Success,
		"open", info.ActiveConnections,
	)
}

// Flush does nothing; records are written immediately.
func (l *LogTelemetry) Flush(ctx context.Context) error {
	return nil
}

// Close does nothing.
func (l *LogTelemetry) Close(ctx context.Context) error {
	return nil
}

// Ensure LogTelemetry implements Telemetry interface.
var _ Telemetry = (*LogTelemetry)(nil)
