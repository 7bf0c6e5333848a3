package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlogLogger(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	l := NewSlog(slog.New(handler))

	l.Debug("debug message", "subproblem", 1)
	l.Info("info message", "cuts", 3)
	l.Warn("warn message")
	l.Error("error message", "error", "boom")

	out := buf.String()
	require.Contains(t, out, "debug message")
	require.Contains(t, out, "subproblem=1")
	require.Contains(t, out, "info message")
	require.Contains(t, out, "cuts=3")
	require.Contains(t, out, "level=WARN")
	require.Contains(t, out, "error=boom")
}

func TestNewSlogDefault(t *testing.T) {
	require.NotNil(t, NewSlogDefault())
}
