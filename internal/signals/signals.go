// Package signals turns SIGINT/SIGTERM into context cancellation. This is a
// leaf package: stdlib only, no internal imports, no logging.
package signals

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// InterruptError is the cancellation cause of a context canceled by a signal.
type InterruptError struct {
	Signal os.Signal
}

func (e *InterruptError) Error() string {
	return fmt.Sprintf("interrupted by %s", e.Signal)
}

// ExitCode returns the conventional shell exit status for the signal (128+n).
func (e *InterruptError) ExitCode() int {
	if sig, ok := e.Signal.(syscall.Signal); ok {
		return 128 + int(sig)
	}
	return 1
}

// SetupSignalContext creates a context that's canceled on SIGINT/SIGTERM.
// The signal is available afterwards through Received.
func SetupSignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			cancel(&InterruptError{Signal: sig})
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, func() { cancel(context.Canceled) }
}

// Received returns the signal that canceled ctx, if any.
func Received(ctx context.Context) (*InterruptError, bool) {
	var ie *InterruptError
	if errors.As(context.Cause(ctx), &ie) {
		return ie, true
	}
	return nil, false
}
