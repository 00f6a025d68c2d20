// Package loggertest provides test doubles for the logger package.
package loggertest

import (
	"bytes"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/schmitthub/vitehook/internal/logger"
)

// TestLogger captures log output for assertions in tests.
// It exposes only the four level methods of iostreams.Logger, not zerolog's full API.
type TestLogger struct {
	logger zerolog.Logger
	buf    *syncBuffer
}

// New creates a test logger that captures all output to a buffer.
func New() *TestLogger {
	buf := &syncBuffer{}
	return &TestLogger{
		logger: zerolog.New(buf).Level(zerolog.DebugLevel),
		buf:    buf,
	}
}

// NewNop creates a test logger that discards all output.
func NewNop() *TestLogger {
	return &TestLogger{
		logger: zerolog.Nop(),
		buf:    &syncBuffer{},
	}
}

// Install points the global logger at a capturing TestLogger for the
// duration of the test and restores the previous logger on cleanup.
func Install(t testing.TB) *TestLogger {
	t.Helper()
	tl := New()
	prev := logger.Log
	logger.Log = tl.logger
	t.Cleanup(func() { logger.Log = prev })
	return tl
}

// Debug returns a debug-level zerolog.Event.
func (tl *TestLogger) Debug() *zerolog.Event { return tl.logger.Debug() }

// Info returns an info-level zerolog.Event.
func (tl *TestLogger) Info() *zerolog.Event { return tl.logger.Info() }

// Warn returns a warn-level zerolog.Event.
func (tl *TestLogger) Warn() *zerolog.Event { return tl.logger.Warn() }

// Error returns an error-level zerolog.Event.
func (tl *TestLogger) Error() *zerolog.Event { return tl.logger.Error() }

// Output returns captured log output as a string.
func (tl *TestLogger) Output() string { return tl.buf.String() }

// Reset clears captured output.
func (tl *TestLogger) Reset() { tl.buf.Reset() }

// syncBuffer guards a bytes.Buffer; the dev server output forwarder logs from
// its own goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}
