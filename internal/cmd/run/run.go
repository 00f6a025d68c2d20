package run

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/schmitthub/vitehook/internal/cmdutil"
	"github.com/schmitthub/vitehook/internal/config"
	"github.com/schmitthub/vitehook/internal/iostreams"
	"github.com/schmitthub/vitehook/internal/lifecycle"
	"github.com/schmitthub/vitehook/internal/logger"
	"github.com/schmitthub/vitehook/internal/signals"
	"github.com/spf13/cobra"
)

// Environment variables passed to the test command.
const (
	EnvLaunchURL = "VITEHOOK_LAUNCH_URL"
	EnvBaseURL   = "VITEHOOK_BASE_URL"
	EnvPort      = "VITEHOOK_PORT"
	EnvWorkerID  = "VITEHOOK_WORKER_ID"
)

// teardownTimeout bounds the after hooks once the run context is gone.
const teardownTimeout = 15 * time.Second

// RunOptions contains the options for the run command.
type RunOptions struct {
	IOStreams  *iostreams.IOStreams
	Settings   func() (*config.Settings, error)
	Controller func(*config.Settings) *lifecycle.Controller

	Port     int
	External bool
	HTTPS    bool
	Parallel bool
	Workers  int

	// flags records which overrides were given on the command line
	flags map[string]bool

	Command []string
}

// NewCmdRun creates the run command.
func NewCmdRun(f *cmdutil.Factory, runF func(context.Context, *RunOptions) error) *cobra.Command {
	opts := &RunOptions{
		IOStreams:  f.IOStreams,
		Settings:   f.Settings,
		Controller: f.Controller,
	}

	cmd := &cobra.Command{
		Use:   "run [flags] -- <test command> [args...]",
		Short: "Run a test command against a Vite dev server",
		Long: `Starts the Vite dev server (or verifies an externally managed one), runs the
test command with the server URL in its environment, then stops the server and
removes the test cache.

The test command receives:
  VITEHOOK_LAUNCH_URL   URL to mount components from
  VITEHOOK_BASE_URL     same as VITEHOOK_LAUNCH_URL
  VITEHOOK_PORT         resolved dev server port
  VITEHOOK_WORKER_ID    worker index, with --workers or --parallel

With --workers N the server is started once and N copies of the test command
share it.`,
		Example: `  # Start Vite, run the tests, stop Vite
  vitehook run -- npx nightwatch test/components

  # Verify a dev server you started yourself on port 3000
  vitehook run --external --port 3000 -- npx nightwatch

  # Four workers sharing one dev server
  vitehook run --workers 4 -- npx nightwatch --env chrome`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmdutil.FlagErrorf("a test command is required after --")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Command = args
			opts.flags = map[string]bool{
				"port":     cmd.Flags().Changed("port"),
				"external": cmd.Flags().Changed("external"),
				"https":    cmd.Flags().Changed("https"),
				"parallel": cmd.Flags().Changed("parallel"),
			}
			if opts.Workers < 0 {
				return cmdutil.FlagErrorf("--workers must not be negative")
			}
			if runF != nil {
				return runF(cmd.Context(), opts)
			}
			return runRun(cmd.Context(), opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Port, "port", "p", 0, "Dev server port (overrides vite_dev_server.port)")
	cmd.Flags().BoolVar(&opts.External, "external", false, "Verify an externally managed dev server instead of starting one")
	cmd.Flags().BoolVar(&opts.HTTPS, "https", false, "Use https for the probe and the launch URL")
	cmd.Flags().BoolVar(&opts.Parallel, "parallel", false, "Run the test command as a worker process (sets parallel_mode)")
	cmd.Flags().IntVarP(&opts.Workers, "workers", "w", 0, "Number of test command copies sharing one dev server")

	return cmd
}

// applyFlags copies command line overrides into settings.
func (opts *RunOptions) applyFlags(s *config.Settings) {
	if opts.flags["port"] {
		s.ViteDevServer.Port = opts.Port
	}
	if opts.flags["external"] {
		s.ViteDevServer.StartVite = !opts.External
	}
	if opts.flags["https"] {
		s.ViteDevServer.HTTPS = opts.HTTPS
	}
	if opts.flags["parallel"] {
		s.ParallelMode = opts.Parallel
	}
	if opts.Workers > 0 {
		s.TestWorkersEnabled = true
	}
}

func runRun(ctx context.Context, opts *RunOptions) (err error) {
	ios := opts.IOStreams
	cs := ios.ColorScheme()

	settings, err := opts.Settings()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	opts.applyFlags(settings)

	ctx, cancel := signals.SetupSignalContext(ctx)
	defer cancel()

	ctrl := opts.Controller(settings)

	// Teardown must run even after an interrupt canceled ctx.
	defer func() {
		tctx, tcancel := context.WithTimeout(context.WithoutCancel(ctx), teardownTimeout)
		defer tcancel()
		if afterErr := ctrl.OnAfterRun(tctx); afterErr != nil {
			logger.Error().Err(afterErr).Msg("after-run hook failed")
			if err == nil {
				err = afterErr
			}
		}
		if ie, ok := signals.Received(ctx); ok {
			err = &cmdutil.ExitError{Code: ie.ExitCode()}
		}
	}()

	workers := 0
	if settings.ParallelMode || settings.TestWorkersEnabled {
		workers = max(opts.Workers, 1)
	}

	label := "Starting Vite dev server"
	if !settings.ViteDevServer.StartVite {
		label = "Checking Vite dev server"
	}
	err = ios.RunWithSpinner(label, func() error {
		if workers > 0 {
			if err := ctrl.OnBeforeFirstWorker(ctx, settings); err != nil {
				return err
			}
		}
		return ctrl.OnBeforeRun(ctx, settings)
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(ios.ErrOut, "%s\n", cs.SuccessIconWithColor("Vite dev server ready at "+settings.BaseURL))
	logger.Info().
		Str("base_url", settings.BaseURL).
		Int("workers", workers).
		Strs("command", opts.Command).
		Msg("running tests")

	if workers == 0 {
		return runTests(ctx, opts, settings, -1)
	}

	runErr := runWorkers(ctx, opts, settings, workers)

	tctx, tcancel := context.WithTimeout(context.WithoutCancel(ctx), teardownTimeout)
	defer tcancel()
	if afterErr := ctrl.OnAfterWorker(tctx); afterErr != nil {
		logger.Error().Err(afterErr).Msg("after-worker hook failed")
		runErr = errors.Join(runErr, afterErr)
	}
	return runErr
}

// runWorkers runs n copies of the test command concurrently and returns the
// first failure in worker order.
func runWorkers(ctx context.Context, opts *RunOptions, settings *config.Settings, n int) error {
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = runTests(ctx, opts, settings, i)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// runTests runs the test command once. worker is -1 for a sequential run.
func runTests(ctx context.Context, opts *RunOptions, settings *config.Settings, worker int) error {
	ios := opts.IOStreams

	cmd := exec.CommandContext(ctx, opts.Command[0], opts.Command[1:]...)
	cmd.Stdin = ios.In
	cmd.Stdout = ios.Out
	cmd.Stderr = ios.ErrOut
	cmd.Env = append(os.Environ(), testEnv(settings, worker)...)
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = 10 * time.Second
	if worker >= 0 {
		// Workers cannot share the terminal's stdin.
		cmd.Stdin = nil
	}

	debug := logger.Debug
	if worker >= 0 {
		wlog := logger.WithWorker(strconv.Itoa(worker))
		debug = wlog.Debug
	}
	debug().Strs("command", opts.Command).Msg("starting test command")

	err := cmd.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		debug().Int("code", exitErr.ExitCode()).Msg("test command failed")
		code := exitErr.ExitCode()
		if code < 0 {
			code = 1
		}
		return &cmdutil.ExitError{Code: code}
	}
	return fmt.Errorf("failed to run %s: %w", opts.Command[0], err)
}

func testEnv(settings *config.Settings, worker int) []string {
	env := []string{
		EnvLaunchURL + "=" + settings.LaunchURL,
		EnvBaseURL + "=" + settings.BaseURL,
		EnvPort + "=" + strconv.Itoa(settings.ViteDevServer.Port),
	}
	if worker >= 0 {
		env = append(env, EnvWorkerID+"="+strconv.Itoa(worker))
	}
	return env
}
