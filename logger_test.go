package flame

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
)

// TestLoggerDefaultSilent verifies the default logger discards records
// without formatting them.
func TestLoggerDefaultSilent(t *testing.T) {
	l := Logger()
	if l == nil {
		t.Fatal("Logger() returned nil")
	}
	if l.Enabled(context.Background(), slog.LevelError) {
		t.Error("default logger should report disabled at every level")
	}
	// Must not panic.
	l.Info("ignored", "key", "value")
}

// TestSetLogger verifies a configured logger receives records and that
// nil restores silence.
func TestSetLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	defer SetLogger(nil)

	Logger().Info("hello", "n", 1)
	if buf.Len() == 0 {
		t.Error("configured logger received no output")
	}

	SetLogger(nil)
	if Logger() == nil {
		t.Fatal("Logger() returned nil after SetLogger(nil)")
	}
	buf.Reset()
	Logger().Info("silent")
	if buf.Len() != 0 {
		t.Error("SetLogger(nil) did not restore the silent logger")
	}
}
