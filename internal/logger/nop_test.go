package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNopLogger(t *testing.T) {
	l := NewNop()

	// All levels are safe no-ops, Fatal included.
	l.Debug("debug", "k", "v")
	l.Info("info")
	l.Warn("warn", "k", 1)
	l.Error("error")
	l.Fatal("fatal")
}

func TestFormatKeyValues(t *testing.T) {
	require.Equal(t, "", formatKeyValues(nil))
	require.Equal(t, "a=1 ", formatKeyValues([]any{"a", 1}))
	require.Equal(t, "a=1 b=2 ", formatKeyValues([]any{"a", 1, "b", 2}))
	require.Equal(t, "a=<missing> ", formatKeyValues([]any{"a"}))
}
