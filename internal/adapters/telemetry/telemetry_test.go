package telemetry

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type kindedError struct{}

func (kindedError) Error() string { return "kinded" }
func (kindedError) Kind() string  { return "binding" }

func TestNoopTelemetry(t *testing.T) {
	ctx := context.Background()
	tel := NewNoopTelemetry()

	tel.RecordQuery(ctx, QueryInfo{Model: "person", Operation: "fetch", Duration: time.Millisecond, Success: true})
	tel.RecordError(ctx, ErrorInfo{Error: errors.New("test error"), Model: "person", Operation: "persist"})
	tel.RecordConnection(ctx, ConnectionInfo{Event: "connect", Success: true})

	assert.NoError(t, tel.Flush(ctx))
	assert.NoError(t, tel.Close(ctx))
}

func TestPrometheusTelemetry(t *testing.T) {
	ctx := context.Background()
	tel := NewPrometheusTelemetry(&Config{Type: "prometheus", Namespace: "test"})

	tel.RecordQuery(ctx, QueryInfo{Model: "person", Operation: "fetch", Duration: 10 * time.Millisecond, Success: true, Rows: 3})
	tel.RecordQuery(ctx, QueryInfo{Model: "person", Operation: "fetch", Duration: 20 * time.Millisecond, Success: true, Rows: 4})
	tel.RecordQuery(ctx, QueryInfo{Model: "person", Operation: "count", Success: false})
	tel.RecordError(ctx, ErrorInfo{Error: kindedError{}, Model: "person", Operation: "count"})
	tel.RecordError(ctx, ErrorInfo{Error: context.Canceled, Model: "person", Operation: "fetch"})
	tel.RecordConnection(ctx, ConnectionInfo{Event: "connect", Success: true, ActiveConnections: 2})

	assert.Equal(t, 2.0, testutil.ToFloat64(tel.queryTotal.WithLabelValues("person", "fetch", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(tel.queryTotal.WithLabelValues("person", "count", "error")))
	assert.Equal(t, 7.0, testutil.ToFloat64(tel.queryRows.WithLabelValues("person", "fetch")))
	assert.Equal(t, 1.0, testutil.ToFloat64(tel.errorTotal.WithLabelValues("person", "count", "binding")))
	assert.Equal(t, 1.0, testutil.ToFloat64(tel.errorTotal.WithLabelValues("person", "fetch", "context")))
	assert.Equal(t, 2.0, testutil.ToFloat64(tel.openConns))

	families, err := tel.Registry().Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "test_queries_total")
	assert.Contains(t, names, "test_query_duration_seconds")

	require.NoError(t, tel.Close(ctx))
}

func TestPrometheusTelemetry_IndependentRegistries(t *testing.T) {
	a := NewPrometheusTelemetry(nil)
	b := NewPrometheusTelemetry(nil)
	a.RecordQuery(context.Background(), QueryInfo{Model: "m", Operation: "o", Success: true})
	assert.Equal(t, 0.0, testutil.ToFloat64(b.queryTotal.WithLabelValues("m", "o", "success")))
}

func TestLogTelemetry(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	tel := NewLogTelemetry(logger)

	tel.RecordQuery(context.Background(), QueryInfo{Model: "person", Operation: "fetch", Success: true, Rows: 2})
	tel.RecordError(context.Background(), ErrorInfo{Error: errors.New("boom"), Model: "person", Operation: "count", Query: "SELECT 1"})

	out := buf.String()
	assert.Contains(t, out, "model=person")
	assert.Contains(t, out, "rows=2")
	assert.Contains(t, out, "error=boom")
}

func TestNewTelemetry(t *testing.T) {
	tel, err := NewTelemetry(nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &NoopTelemetry{}, tel)

	tel, err = NewTelemetry(&Config{Type: "prometheus"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &PrometheusTelemetry{}, tel)

	tel, err = NewTelemetry(&Config{Type: "log"}, slog.Default())
	require.NoError(t, err)
	assert.IsType(t, &LogTelemetry{}, tel)

	_, err = NewTelemetry(&Config{Type: "statsd"}, nil)
	assert.Error(t, err)
}
