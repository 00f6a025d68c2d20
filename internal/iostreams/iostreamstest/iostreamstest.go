// Package iostreamstest provides test doubles for the iostreams package.
package iostreamstest

import (
	"bytes"
	"sync"

	"github.com/schmitthub/vitehook/internal/iostreams"
	"github.com/schmitthub/vitehook/internal/logger/loggertest"
)

// TestIOStreams wraps IOStreams for testing with accessible buffers.
type TestIOStreams struct {
	*iostreams.IOStreams
	InBuf  *Buffer
	OutBuf *Buffer
	ErrBuf *Buffer
}

// New creates IOStreams for testing.
// Non-interactive, colors disabled, nop logger by default.
func New() *TestIOStreams {
	in, out, errOut := &Buffer{}, &Buffer{}, &Buffer{}

	// Struct literal zero-values give non-TTY streams with color disabled.
	ios := &iostreams.IOStreams{
		In:     in,
		Out:    out,
		ErrOut: errOut,
		Logger: loggertest.NewNop(),
	}

	return &TestIOStreams{
		IOStreams: ios,
		InBuf:     in,
		OutBuf:    out,
		ErrBuf:    errOut,
	}
}

// Buffer is a goroutine-safe bytes.Buffer.
type Buffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *Buffer) Read(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Read(p)
}

func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// String returns the buffered content.
func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// SetInput replaces the buffer content.
func (b *Buffer) SetInput(s string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
	b.buf.WriteString(s)
}
