package cmdutil

import (
	"github.com/schmitthub/vitehook/internal/config"
	"github.com/schmitthub/vitehook/internal/devserver"
	"github.com/schmitthub/vitehook/internal/iostreams"
	"github.com/schmitthub/vitehook/internal/lifecycle"
	"github.com/schmitthub/vitehook/internal/probe"
	"github.com/schmitthub/vitehook/internal/prompter"
)

// Factory provides shared dependencies for CLI commands.
// It is a dependency injection container: the struct defines what
// dependencies exist, while internal/cmd/factory wires the real
// implementations. Tests construct &cmdutil.Factory{} directly and set
// only the fields the command under test reads.
type Factory struct {
	// Configuration from flags (set before command execution)
	WorkDir    string
	ConfigFile string
	Debug      bool

	// Version info (set at build time via ldflags)
	Version string
	Commit  string

	// IO streams for input/output (for testability)
	IOStreams *iostreams.IOStreams

	// Dependency providers (closures wired by factory constructor)
	ConfigLoader func() *config.Loader
	Settings     func() (*config.Settings, error)

	Starter  func() devserver.Starter
	Prober   func() probe.Prober
	Prompter func() *prompter.Prompter

	// Controller builds the lifecycle controller for settings, wiring the
	// starter, the prober and a cache cleaner for settings.CacheDir.
	Controller func(*config.Settings) *lifecycle.Controller
}
