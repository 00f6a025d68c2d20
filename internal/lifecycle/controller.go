package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/schmitthub/vitehook/internal/config"
	"github.com/schmitthub/vitehook/internal/devserver"
	"github.com/schmitthub/vitehook/internal/logger"
	"github.com/schmitthub/vitehook/internal/probe"
)

// Cleaner removes the test runner cache after a run.
type Cleaner interface {
	Clean() error
}

// Controller drives the dev server through the host's test run. It owns at
// most one started server and is safe for concurrent use, although hosts call
// the hooks sequentially.
type Controller struct {
	starter devserver.Starter
	prober  probe.Prober
	cleaner Cleaner

	mu     sync.Mutex
	state  State
	handle devserver.Handle
}

// New creates a Controller. cleaner may be nil when no cache should be removed.
func New(starter devserver.Starter, prober probe.Prober, cleaner Cleaner) *Controller {
	return &Controller{
		starter: starter,
		prober:  prober,
		cleaner: cleaner,
		state:   StateNotStarted,
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Handle returns the owned dev server, or nil when none is running.
func (c *Controller) Handle() devserver.Handle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handle
}

// OnBeforeFirstWorker starts or verifies the dev server before any worker
// process is spawned.
func (c *Controller) OnBeforeFirstWorker(ctx context.Context, settings *config.Settings) error {
	return c.startOrVerify(ctx, "OnBeforeFirstWorker", settings)
}

// OnBeforeRun starts or verifies the dev server for a sequential run. In
// parallel or worker-thread mode it does nothing; OnBeforeFirstWorker covers those.
func (c *Controller) OnBeforeRun(ctx context.Context, settings *config.Settings) error {
	if settings.ParallelMode || settings.TestWorkersEnabled {
		logger.Debug().
			Bool("parallel_mode", settings.ParallelMode).
			Bool("test_workers_enabled", settings.TestWorkersEnabled).
			Msg("skipping before-run hook, handled per worker")
		return nil
	}
	return c.startOrVerify(ctx, "OnBeforeRun", settings)
}

// OnAfterRun closes the owned dev server and removes the cache directory.
// Both failures are reported.
func (c *Controller) OnAfterRun(ctx context.Context) error {
	closeErr := c.stop(ctx, "OnAfterRun")

	var transErr *TransitionError
	if errors.As(closeErr, &transErr) {
		return closeErr
	}

	var cleanErr error
	if c.cleaner != nil {
		cleanErr = c.cleaner.Clean()
	}
	return errors.Join(closeErr, cleanErr)
}

// OnAfterWorker closes the owned dev server. The cache is left alone.
func (c *Controller) OnAfterWorker(ctx context.Context) error {
	return c.stop(ctx, "OnAfterWorker")
}

func (c *Controller) startOrVerify(ctx context.Context, hook string, settings *config.Settings) error {
	cfg := settings.ServerConfig()

	c.mu.Lock()
	if c.state.busy() {
		from := c.state
		c.mu.Unlock()
		return &TransitionError{Hook: hook, From: from}
	}
	if cfg.ManageServer && c.handle != nil {
		h := c.handle
		c.mu.Unlock()
		logger.Debug().Int("port", h.Port()).Str("hook", hook).Msg("reusing running dev server")
		settings.SetServerURL(h.Port())
		return nil
	}
	prev := c.state
	c.state = StateStarting
	c.mu.Unlock()

	var (
		h   devserver.Handle
		err error
	)
	if cfg.ManageServer {
		h, err = c.starter.Start(ctx, cfg)
	} else {
		err = c.verify(ctx, cfg, settings.GetComponentType())
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.state = failedState(prev, c.handle != nil)
		return err
	}

	port := cfg.ExternalPort
	if h != nil {
		c.handle = h
		port = h.Port()
	}
	c.state = StateReady
	settings.SetServerURL(port)

	logger.Debug().
		Str("hook", hook).
		Bool("managed", cfg.ManageServer).
		Str("base_url", settings.BaseURL).
		Msg("dev server ready")
	return nil
}

// failedState is the state after a failed start or verification.
func failedState(prev State, holdsHandle bool) State {
	switch {
	case holdsHandle:
		return StateReady
	case prev == StateNotStarted:
		return StateNotStarted
	default:
		return StateClosed
	}
}

func (c *Controller) verify(ctx context.Context, cfg config.ServerConfig, componentType string) error {
	scheme := cfg.Scheme()
	ok, err := c.prober.Probe(ctx, cfg.ExternalPort, scheme)
	if err != nil {
		return serverUnreachableError(err)
	}
	if !ok {
		return missingCapabilityError(probe.URL(probe.DefaultHost, cfg.ExternalPort, scheme), componentType)
	}
	return nil
}

func (c *Controller) stop(ctx context.Context, hook string) error {
	c.mu.Lock()
	if c.state.busy() {
		from := c.state
		c.mu.Unlock()
		return &TransitionError{Hook: hook, From: from}
	}

	h := c.handle
	c.handle = nil // Clear reference before closing
	if h == nil {
		if c.state == StateReady {
			c.state = StateClosed
		}
		c.mu.Unlock()
		return nil
	}
	c.state = StateClosing
	c.mu.Unlock()

	err := h.Close(ctx)

	c.mu.Lock()
	c.state = StateClosed
	c.mu.Unlock()

	if err != nil {
		return fmt.Errorf("failed to stop dev server: %w", err)
	}
	logger.Debug().Str("hook", hook).Msg("dev server closed")
	return nil
}
