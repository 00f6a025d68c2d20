// Package devservertest provides test doubles for the devserver package.
package devservertest

import (
	"context"
	"sync"

	"github.com/schmitthub/vitehook/internal/config"
	"github.com/schmitthub/vitehook/internal/devserver"
)

// FakeStarter records Start calls and hands out FakeHandles.
type FakeStarter struct {
	// Port is the resolved port of started handles; zero means the requested port.
	Port int
	// Err is returned from Start when set.
	Err error
	// CloseErr is returned from every handle's Close when set.
	CloseErr error

	mu      sync.Mutex
	configs []config.ServerConfig
	handles []*FakeHandle
}

// Start records cfg and returns a new FakeHandle.
func (s *FakeStarter) Start(ctx context.Context, cfg config.ServerConfig) (devserver.Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.configs = append(s.configs, cfg)
	if s.Err != nil {
		return nil, s.Err
	}

	port := s.Port
	if port == 0 {
		port = cfg.ExternalPort
	}
	h := &FakeHandle{port: port, closeErr: s.CloseErr}
	s.handles = append(s.handles, h)
	return h, nil
}

// Calls returns the number of Start calls.
func (s *FakeStarter) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.configs)
}

// Configs returns the configs passed to Start.
func (s *FakeStarter) Configs() []config.ServerConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]config.ServerConfig(nil), s.configs...)
}

// Handles returns every handle handed out.
func (s *FakeStarter) Handles() []*FakeHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*FakeHandle(nil), s.handles...)
}

// FakeHandle counts Close calls.
type FakeHandle struct {
	port     int
	closeErr error

	mu     sync.Mutex
	closes int
}

// Port returns the fake resolved port.
func (h *FakeHandle) Port() int { return h.port }

// Close records the call.
func (h *FakeHandle) Close(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closes++
	return h.closeErr
}

// Closes returns how many times Close was called.
func (h *FakeHandle) Closes() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closes
}

// Closed reports whether Close was called at least once.
func (h *FakeHandle) Closed() bool { return h.Closes() > 0 }
