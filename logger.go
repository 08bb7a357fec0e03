package flame

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for flame and its subpackages.
// By default, flame produces no log output. Pass nil to restore silence.
//
// Log levels used by flame:
//   - [slog.LevelDebug]: per-frame diagnostics (dispatch sizes, timings)
//   - [slog.LevelInfo]: lifecycle events (GPU adapter selected)
//   - [slog.LevelWarn]: non-fatal issues (CPU fallback)
//
// SetLogger is safe for concurrent use: it stores the new logger atomically
// and propagates it to the registered accelerator when that accelerator
// supports logging.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)

	accelMu.RLock()
	a := accel
	accelMu.RUnlock()
	if la, ok := a.(interface{ SetLogger(*slog.Logger) }); ok {
		la.SetLogger(l)
	}
}

// Logger returns the active logger. Used by subpackages (e.g. the gpu
// registration package) to report through the same sink.
func Logger() *slog.Logger { return loggerPtr.Load() }
