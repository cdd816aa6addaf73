package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/satishbabariya/activerecord/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"loud", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.ParseLevel(tt.name))
		})
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Level: "info", Format: "json", Output: &buf})

	l.Debug("hidden")
	l.Info("visible", "model", "person")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "visible", rec["msg"])
	assert.Equal(t, "person", rec["model"])
}

func TestInitAndHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger.Init(logger.Config{Level: "debug", Output: &buf})
	t.Cleanup(func() { logger.Init(logger.Config{Level: "warn"}) })

	logger.Debug("d")
	logger.Warn("w")
	logger.With("k", "v").Info("i")

	out := buf.String()
	assert.Contains(t, out, "msg=d")
	assert.Contains(t, out, "msg=w")
	assert.Contains(t, out, "k=v")
}

func TestOpID(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Level: "info", Output: &buf})

	ctx := logger.WithOpID(context.Background(), "op-1")
	assert.Equal(t, "op-1", logger.OpID(ctx))
	assert.Equal(t, "", logger.OpID(context.Background()))

	logger.FromContext(ctx, l).Info("hello")
	assert.Contains(t, buf.String(), "op_id=op-1")
}

func TestDiscard(t *testing.T) {
	assert.False(t, logger.Discard().Enabled(context.Background(), slog.LevelError))
}
