package vitehook

import (
	"context"
	"errors"
	"os"

	"github.com/google/uuid"
	"github.com/schmitthub/vitehook/internal/cmd/factory"
	"github.com/schmitthub/vitehook/internal/cmd/root"
	"github.com/schmitthub/vitehook/internal/cmd/run"
	"github.com/schmitthub/vitehook/internal/cmdutil"
	"github.com/schmitthub/vitehook/internal/logger"
	"github.com/spf13/cobra"
)

// Build-time variables injected via ldflags
var (
	Version = "dev"
	Commit  = "none"
)

// Main is the entry point for the vitehook CLI.
// It initializes the Factory, creates the root command, executes it and
// returns the process exit code.
func Main() int {
	// Ensure logs are flushed on exit
	defer logger.CloseFileWriter()

	f := factory.New(Version, Commit)
	rootCmd := root.NewCmdRoot(f, Version, Commit)

	setLogContext()
	defer logger.ClearContext()

	cmd, err := rootCmd.ExecuteContextC(context.Background())
	return handleError(f, cmd, err)
}

// setLogContext tags every event of this invocation with a fresh run ID. A
// vitehook started from a worker's test command also carries that worker's ID.
func setLogContext() {
	logger.SetContext(uuid.NewString(), os.Getenv(run.EnvWorkerID))
}

func handleError(f *cmdutil.Factory, cmd *cobra.Command, err error) int {
	if err == nil {
		return 0
	}

	var exitErr *cmdutil.ExitError
	if errors.As(err, &exitErr) {
		// The test command already reported its own failure.
		logger.Debug().Int("code", exitErr.Code).Msg("test command exited non-zero")
		return exitErr.Code
	}

	cmdutil.PrintError(f.IOStreams, err)

	var flagErr *cmdutil.FlagError
	if errors.As(err, &flagErr) && cmd != nil {
		cmdutil.PrintHelpHint(f.IOStreams, cmd.CommandPath())
	}
	return cmdutil.ExitCode(err)
}
