package telemetry

import "context"

// NoopTelemetry discards every event. Embed it to override only some hooks.
type NoopTelemetry struct{}

// NewNoopTelemetry returns the discarding backend.
func NewNoopTelemetry() *NoopTelemetry { return &NoopTelemetry{} }

func (*NoopTelemetry) RecordQuery(context.Context, QueryInfo)           {}
func (*NoopTelemetry) RecordError(context.Context, ErrorInfo)           {}
func (*NoopTelemetry) RecordConnection(context.Context, ConnectionInfo) {}
func (*NoopTelemetry) Flush(context.Context) error                      { return nil }
func (*NoopTelemetry) Close(context.Context) error                      { return nil }

var _ Telemetry = (*NoopTelemetry)(nil)
