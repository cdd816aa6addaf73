package telemetry

import (
	"fmt"
	"log/slog"
	"strings"
)

// TelemetryType names a backend in configuration.
type TelemetryType string

const (
	TypeNoop       TelemetryType = "noop"
	TypePrometheus TelemetryType = "prometheus"
	TypeLog        TelemetryType = "log"
)

var backends = map[TelemetryType]func(*Config, *slog.Logger) Telemetry{
	TypeNoop:       func(*Config, *slog.Logger) Telemetry { return NewNoopTelemetry() },
	TypePrometheus: func(c *Config, _ *slog.Logger) Telemetry { return NewPrometheusTelemetry(c) },
	TypeLog:        func(_ *Config, l *slog.Logger) Telemetry { return NewLogTelemetry(l) },
}

// NewTelemetry builds the backend named by config.Type. A nil config or an
// empty type gives the no-op backend.
func NewTelemetry(config *Config, logger *slog.Logger) (Telemetry, error) {
	if config == nil || config.Type == "" {
		return NewNoopTelemetry(), nil
	}
	build, ok := backends[TelemetryType(strings.ToLower(config.Type))]
	if !ok {
		return nil, fmt.Errorf("unknown telemetry type: %q", config.Type)
	}
	return build(config, logger), nil
}
