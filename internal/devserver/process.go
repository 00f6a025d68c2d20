package devserver

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/google/shlex"
	"github.com/schmitthub/vitehook/internal/config"
	"github.com/schmitthub/vitehook/internal/logger"
)

// DefaultStopTimeout is how long Close waits after SIGTERM before SIGKILL
// when the caller's context has no deadline.
const DefaultStopTimeout = 5 * time.Second

// groupPollInterval is how often Close checks for remaining group members
// after the leader has exited.
const groupPollInterval = 25 * time.Millisecond

// maxLineLength caps how much of one output line is kept for logging and
// port detection. The rest of an overlong line is discarded, not buffered.
const maxLineLength = 64 * 1024

// ProcessStarter runs the configured dev server command as a child process.
type ProcessStarter struct {
	// Env is appended to the current environment of the child.
	Env []string
}

// NewProcessStarter creates a ProcessStarter.
func NewProcessStarter() *ProcessStarter {
	return &ProcessStarter{}
}

// Start runs cfg.Command with "--port <ExternalPort>" appended in cfg.Root and
// waits until the server prints its Local URL. The port in that URL is the
// resolved port; Vite moves to the next free port when the requested one is taken.
func (s *ProcessStarter) Start(ctx context.Context, cfg config.ServerConfig) (Handle, error) {
	args, err := shlex.Split(cfg.Command)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dev server command %q: %w", cfg.Command, err)
	}
	if len(args) == 0 {
		return nil, errors.New("dev server command is empty")
	}
	args = append(args, "--port", strconv.Itoa(cfg.ExternalPort))

	// Not CommandContext: the server must outlive the start context.
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Dir = cfg.Root
	cmd.Env = append(append(os.Environ(), "NO_COLOR=1"), s.Env...)
	setProcessGroup(cmd)

	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create output pipe: %w", err)
	}
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		return nil, fmt.Errorf("failed to start dev server: %w", err)
	}
	// The child holds its own copy of the write end.
	pw.Close()

	h := &processHandle{
		cmd:    cmd,
		exited: make(chan struct{}),
	}
	logger.Debug().Int("pid", cmd.Process.Pid).Strs("args", args).Str("dir", cfg.Root).Msg("dev server process started")

	portCh := make(chan int, 1)
	go h.scanOutput(pr, portCh)
	go func() {
		h.waitErr = cmd.Wait()
		close(h.exited)
	}()

	timer := time.NewTimer(cfg.StartTimeout)
	defer timer.Stop()

	select {
	case port := <-portCh:
		h.port = port
		logger.Info().Int("pid", cmd.Process.Pid).Int("port", port).Msg("dev server listening")
		return h, nil
	case <-h.exited:
		// A wrapper may exit while the server it forked keeps running.
		if err := kill(cmd.Process); err != nil && !isNoProcess(err) {
			logger.Debug().Err(err).Msg("failed to kill dev server process group")
		}
		return nil, fmt.Errorf("dev server exited before announcing its port: %w", exitError(h.waitErr))
	case <-timer.C:
		h.forceStop()
		return nil, fmt.Errorf("dev server did not announce its port within %s", cfg.StartTimeout)
	case <-ctx.Done():
		h.forceStop()
		return nil, ctx.Err()
	}
}

func exitError(err error) error {
	if err == nil {
		return errors.New("exit status 0")
	}
	return err
}

type processHandle struct {
	cmd       *exec.Cmd
	port      int
	exited    chan struct{}
	waitErr   error
	closeOnce sync.Once
	closeErr  error
}

func (h *processHandle) Port() int { return h.port }

// Close sends SIGTERM to the process group and waits for exit until ctx is
// done (or DefaultStopTimeout without a deadline), then sends SIGKILL.
func (h *processHandle) Close(ctx context.Context) error {
	h.closeOnce.Do(func() {
		h.closeErr = h.stop(ctx)
	})
	return h.closeErr
}

func (h *processHandle) stop(ctx context.Context) error {
	pid := h.cmd.Process.Pid
	logger.Debug().Int("pid", pid).Msg("stopping dev server")

	// Signal the group even when the leader is gone: a wrapper such as
	// "sh -c" or "npm run" may have exited while its server still runs.
	if err := terminate(h.cmd.Process); err != nil && !isNoProcess(err) {
		logger.Warn().Err(err).Int("pid", pid).Msg("failed to send SIGTERM to dev server")
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultStopTimeout)
		defer cancel()
	}

	if err := h.waitGroup(ctx); err != nil {
		logger.Warn().Int("pid", pid).Msg("graceful shutdown timeout, force killing dev server")
		if err := kill(h.cmd.Process); err != nil && !isNoProcess(err) {
			return fmt.Errorf("failed to kill dev server: %w", err)
		}
		<-h.exited
		return nil
	}
	logger.Debug().Int("pid", pid).Msg("dev server stopped")
	return nil
}

// waitGroup waits for the leader to be reaped and for every other member of
// its process group to exit.
func (h *processHandle) waitGroup(ctx context.Context) error {
	select {
	case <-h.exited:
	case <-ctx.Done():
		return ctx.Err()
	}

	ticker := time.NewTicker(groupPollInterval)
	defer ticker.Stop()
	for groupAlive(h.cmd.Process) {
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// forceStop kills the process group and waits for the child to be reaped.
func (h *processHandle) forceStop() {
	if err := kill(h.cmd.Process); err != nil && !isNoProcess(err) {
		logger.Debug().Err(err).Msg("failed to kill dev server")
	}
	<-h.exited
}

// scanOutput forwards server output to the debug log and reports the first
// announced port. It keeps draining so the child never blocks on a full pipe.
func (h *processHandle) scanOutput(pr *os.File, portCh chan<- int) {
	defer pr.Close()

	announced := false
	r := bufio.NewReader(pr)
	var line []byte
	for {
		chunk, isPrefix, err := r.ReadLine()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				logger.Debug().Err(err).Msg("dev server output closed")
			}
			return
		}
		if room := maxLineLength - len(line); room > 0 {
			line = append(line, chunk[:min(len(chunk), room)]...)
		}
		if isPrefix {
			continue
		}

		text := StripANSI(string(line))
		line = line[:0]
		logger.Debug().Str("source", "vite").Msg(text)
		if announced {
			continue
		}
		if port, ok := ParseLocalPort(text); ok {
			announced = true
			portCh <- port
		}
	}
}
