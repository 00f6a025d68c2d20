package iostreams

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// SpinnerFrame returns the rendered frame for tick and label.
func SpinnerFrame(tick int, label string, cs *ColorScheme) string {
	frame := cs.Cyan(spinnerFrames[tick%len(spinnerFrames)])
	if label == "" {
		return frame
	}
	return frame + " " + label
}

// spinnerRunner manages an animated spinner goroutine.
type spinnerRunner struct {
	label    string
	cs       *ColorScheme
	writer   io.Writer
	done     chan struct{}
	stopped  chan struct{}
	tick     int
	mu       sync.Mutex
	stopOnce sync.Once
}

func newSpinnerRunner(label string, cs *ColorScheme, writer io.Writer) *spinnerRunner {
	return &spinnerRunner{
		label:   label,
		cs:      cs,
		writer:  writer,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

func (r *spinnerRunner) Start() {
	go func() {
		defer close(r.stopped)
		ticker := time.NewTicker(120 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-r.done:
				return
			case <-ticker.C:
				r.mu.Lock()
				frame := SpinnerFrame(r.tick, r.label, r.cs)
				r.tick++
				r.mu.Unlock()

				// Exit on write error (terminal disconnected, pipe closed)
				if _, err := fmt.Fprintf(r.writer, "\r\033[K%s", frame); err != nil {
					return
				}
			}
		}
	}()
}

// Stop halts the animation and clears the line. Safe to call multiple times.
func (r *spinnerRunner) Stop() {
	r.stopOnce.Do(func() {
		close(r.done)
		<-r.stopped
		fmt.Fprintf(r.writer, "\r\033[K")
	})
}

func (r *spinnerRunner) SetLabel(label string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.label = label
}

// StartSpinner starts an animated spinner on stderr.
// Does nothing if progress indicators are disabled (non-TTY environment).
func (s *IOStreams) StartSpinner(label string) {
	if !s.progressIndicatorEnabled {
		return
	}

	s.spinnerMu.Lock()
	defer s.spinnerMu.Unlock()

	if s.spinnerDisabled {
		if label == "" {
			label = "Working"
		}
		if !strings.HasSuffix(label, "...") {
			label += "..."
		}
		fmt.Fprintf(s.ErrOut, "%s\n", s.ColorScheme().Cyan(label))
		return
	}

	if s.activeSpinner != nil {
		s.activeSpinner.SetLabel(label)
		return
	}

	sp := newSpinnerRunner(label, s.ColorScheme(), s.ErrOut)
	sp.Start()
	s.activeSpinner = sp
}

// StopSpinner stops the active spinner. Safe to call even if none is running.
func (s *IOStreams) StopSpinner() {
	s.spinnerMu.Lock()
	defer s.spinnerMu.Unlock()

	if s.activeSpinner == nil {
		return
	}

	s.activeSpinner.Stop()
	s.activeSpinner = nil
}

// RunWithSpinner runs fn while showing a spinner.
func (s *IOStreams) RunWithSpinner(label string, fn func() error) error {
	s.StartSpinner(label)
	defer s.StopSpinner()
	return fn()
}
