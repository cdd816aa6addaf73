package telemetry

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusTelemetry implements Telemetry with Prometheus collectors. Each
// instance owns its registry so several sessions can coexist in one process.
type PrometheusTelemetry struct {
	registry *prometheus.Registry

	queryDuration *prometheus.HistogramVec
	queryTotal    *prometheus.CounterVec
	queryRows     *prometheus.CounterVec
	errorTotal    *prometheus.CounterVec
	connections   *prometheus.CounterVec
	openConns     prometheus.Gauge
}

// NewPrometheusTelemetry creates a new Prometheus telemetry adapter.
func NewPrometheusTelemetry(config *Config) *PrometheusTelemetry {
	namespace := "activerecord"
	if config != nil && config.Namespace != "" {
		namespace = config.Namespace
	}

	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &PrometheusTelemetry{
		registry: reg,
		queryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "query_duration_seconds",
				Help:      "Statement latency in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
			},
			[]string{"model", "operation"},
		),
		queryTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "queries_total",
				Help:      "Total number of statements",
			},
			[]string{"model", "operation", "status"},
		),
		queryRows: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "query_rows_total",
				Help:      "Rows read or affected by statements",
			},
			[]string{"model", "operation"},
		),
		errorTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_total",
				Help:      "Total number of failed operations",
			},
			[]string{"model", "operation", "kind"},
		),
		connections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "connection_events_total",
				Help:      "Connection lifecycle events",
			},
			[]string{"event", "status"},
		),
		openConns: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "open_connections",
				Help:      "Open connections at the last connection event",
			},
		),
	}
}

// Registry returns the registry the collectors are registered with.
func (p *PrometheusTelemetry) Registry() *prometheus.Registry {
	return p.registry
}

// RecordQuery records a statement execution.
func (p *PrometheusTelemetry) RecordQuery(ctx context.Context, info QueryInfo) {
	p.queryDuration.WithLabelValues(info.Model, info.Operation).Observe(info.Duration.Seconds())
	p.queryTotal.WithLabelValues(info.Model, info.Operation, status(info.Success)).Inc()
	if info.Rows > 0 {
		p.queryRows.WithLabelValues(info.Model, info.Operation).Add(float64(info.Rows))
	}
}

// RecordError records an error.
func (p *PrometheusTelemetry) RecordError(ctx context.Context, info ErrorInfo) {
	p.errorTotal.WithLabelValues(info.Model, info.Operation, errorKind(info.Error)).Inc()
}

// RecordConnection records a connection event.
func (p *PrometheusTelemetry) RecordConnection(ctx context.Context, info ConnectionInfo) {
	p.connections.WithLabelValues(info.Event, status(info.Success)).Inc()
	p.openConns.Set(float64(info.ActiveConnections))
}

// Flush is a no-op; Prometheus pulls.
func (p *PrometheusTelemetry) Flush(ctx context.Context) error {
	return nil
}

// Close unregisters every collector.
func (p *PrometheusTelemetry) Close(ctx context.Context) error {
	p.registry.Unregister(p.queryDuration)
	p.registry.Unregister(p.queryTotal)
	p.registry.Unregister(p.queryRows)
	p.registry.Unregister(p.errorTotal)
	p.registry.Unregister(p.connections)
	p.registry.Unregister(p.openConns)
	return nil
}

func status(ok bool) string {
	if ok {
		return "success"
	}
	return "error"
}

// kindOf lets errors name their own metric label.
type kindOf interface {
	Kind() string
}

func errorKind(err error) string {
	var k kindOf
	if errors.As(err, &k) {
		return k.Kind()
	}
	if err == nil {
		return "none"
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "context"
	}
	return "other"
}

// Ensure PrometheusTelemetry implements Telemetry interface.
var _ Telemetry = (*PrometheusTelemetry)(nil)
