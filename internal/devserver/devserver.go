// Package devserver starts and stops the Vite dev server process that the
// lifecycle controller owns in managed mode.
package devserver

import (
	"context"

	"github.com/schmitthub/vitehook/internal/config"
)

// Handle is a running dev server owned by the caller.
type Handle interface {
	// Port is the port the server actually bound.
	Port() int
	// Close stops the server. Calling Close more than once is safe.
	Close(ctx context.Context) error
}

// Starter starts a dev server for cfg and returns once it is listening.
type Starter interface {
	Start(ctx context.Context, cfg config.ServerConfig) (Handle, error)
}
