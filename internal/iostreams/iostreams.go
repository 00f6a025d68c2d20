// Package iostreams provides testable access to the standard streams plus
// terminal-aware color and spinner output.
package iostreams

import (
	"io"
	"os"
	"sync"

	"golang.org/x/term"
)

// IOStreams provides access to standard input/output/error streams.
// It follows the GitHub CLI pattern for testable I/O.
type IOStreams struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer

	// Logger receives diagnostic output from the command layer.
	Logger Logger

	// -1 = unchecked, 0 = false, 1 = true
	isInputTTY  int
	isOutputTTY int
	isStderrTTY int

	// colorEnabled: -1 = auto (detect from TTY), 0 = disabled, 1 = enabled
	colorEnabled int

	progressIndicatorEnabled bool
	spinnerDisabled          bool
	activeSpinner            *spinnerRunner
	spinnerMu                sync.Mutex
}

// NewIOStreams creates an IOStreams connected to standard streams.
func NewIOStreams() *IOStreams {
	ios := &IOStreams{
		In:           os.Stdin,
		Out:          os.Stdout,
		ErrOut:       os.Stderr,
		isInputTTY:   -1,
		isOutputTTY:  -1,
		isStderrTTY:  -1,
		colorEnabled: -1,
	}

	// Progress enabled when both stdout and stderr are TTYs
	if ios.IsOutputTTY() && ios.IsStderrTTY() {
		ios.progressIndicatorEnabled = true
	}

	if os.Getenv("VITEHOOK_SPINNER_DISABLED") != "" {
		ios.spinnerDisabled = true
	}

	return ios
}

// IsInputTTY returns true if stdin is a terminal.
func (s *IOStreams) IsInputTTY() bool {
	if s.isInputTTY == -1 {
		s.isInputTTY = boolToInt(isTerminal(s.In))
	}
	return s.isInputTTY == 1
}

// IsInteractive reports whether the user can answer prompts.
func (s *IOStreams) IsInteractive() bool {
	return s.IsInputTTY() && s.IsStderrTTY()
}

// SetInteractive overrides terminal detection for stdin and stderr.
func (s *IOStreams) SetInteractive(v bool) {
	s.isInputTTY = boolToInt(v)
	s.isStderrTTY = boolToInt(v)
}

// IsOutputTTY returns true if stdout is a terminal.
func (s *IOStreams) IsOutputTTY() bool {
	if s.isOutputTTY == -1 {
		s.isOutputTTY = boolToInt(isTerminal(s.Out))
	}
	return s.isOutputTTY == 1
}

// IsStderrTTY returns true if stderr is a terminal.
func (s *IOStreams) IsStderrTTY() bool {
	if s.isStderrTTY == -1 {
		s.isStderrTTY = boolToInt(isTerminal(s.ErrOut))
	}
	return s.isStderrTTY == 1
}

// ColorEnabled returns whether color output is enabled.
func (s *IOStreams) ColorEnabled() bool {
	if s.colorEnabled == -1 {
		return s.IsStderrTTY()
	}
	return s.colorEnabled == 1
}

// SetColorEnabled explicitly enables or disables color output.
func (s *IOStreams) SetColorEnabled(enabled bool) {
	s.colorEnabled = boolToInt(enabled)
}

// SetProgressIndicatorEnabled turns the spinner on or off.
func (s *IOStreams) SetProgressIndicatorEnabled(enabled bool) {
	s.progressIndicatorEnabled = enabled
}

// SetSpinnerDisabled replaces the animated spinner with a one-line status message.
func (s *IOStreams) SetSpinnerDisabled(v bool) {
	s.spinnerDisabled = v
}

// ColorScheme returns a ColorScheme configured for this IOStreams.
func (s *IOStreams) ColorScheme() *ColorScheme {
	return NewColorScheme(s.ColorEnabled())
}

func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
