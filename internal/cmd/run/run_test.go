package run

import (
	"context"
	"errors"
	"runtime"
	"strings"
	"testing"

	"github.com/schmitthub/vitehook/internal/cmdutil"
	"github.com/schmitthub/vitehook/internal/config"
	"github.com/schmitthub/vitehook/internal/config/configtest"
	"github.com/schmitthub/vitehook/internal/devserver/devservertest"
	"github.com/schmitthub/vitehook/internal/iostreams/iostreamstest"
	"github.com/schmitthub/vitehook/internal/lifecycle"
	"github.com/schmitthub/vitehook/internal/logger/loggertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProber struct {
	ok  bool
	err error
}

func (p stubProber) Probe(ctx context.Context, port int, scheme string) (bool, error) {
	return p.ok, p.err
}

type countingCleaner struct{ calls int }

func (c *countingCleaner) Clean() error {
	c.calls++
	return nil
}

func TestNewCmdRun(t *testing.T) {
	tio := iostreamstest.New()
	f := &cmdutil.Factory{IOStreams: tio.IOStreams}

	var gotOpts *RunOptions
	cmd := NewCmdRun(f, func(_ context.Context, opts *RunOptions) error {
		gotOpts = opts
		return nil
	})

	cmd.SetArgs([]string{"--port", "3000", "--external", "--", "npx", "nightwatch", "--env", "chrome"})
	require.NoError(t, cmd.Execute())
	require.NotNil(t, gotOpts, "runF was not called")

	assert.Equal(t, []string{"npx", "nightwatch", "--env", "chrome"}, gotOpts.Command)
	assert.Equal(t, 3000, gotOpts.Port)
	assert.True(t, gotOpts.External)
	assert.True(t, gotOpts.flags["port"])
	assert.False(t, gotOpts.flags["https"])
}

func TestNewCmdRunRequiresCommand(t *testing.T) {
	tio := iostreamstest.New()
	f := &cmdutil.Factory{IOStreams: tio.IOStreams}

	cmd := NewCmdRun(f, func(_ context.Context, opts *RunOptions) error {
		t.Fatal("runF should not be called")
		return nil
	})
	cmd.SetArgs([]string{})
	cmd.SetOut(tio.ErrBuf)
	cmd.SetErr(tio.ErrBuf)

	err := cmd.Execute()
	var flagErr *cmdutil.FlagError
	require.True(t, errors.As(err, &flagErr), "got %v", err)
}

func TestNewCmdRunRejectsNegativeWorkers(t *testing.T) {
	tio := iostreamstest.New()
	f := &cmdutil.Factory{IOStreams: tio.IOStreams}

	cmd := NewCmdRun(f, func(_ context.Context, opts *RunOptions) error { return nil })
	cmd.SetArgs([]string{"--workers", "-1", "--", "true"})
	cmd.SetOut(tio.ErrBuf)
	cmd.SetErr(tio.ErrBuf)

	err := cmd.Execute()
	var flagErr *cmdutil.FlagError
	require.True(t, errors.As(err, &flagErr), "got %v", err)
}

func TestApplyFlags(t *testing.T) {
	opts := &RunOptions{
		Port:     4000,
		External: true,
		HTTPS:    true,
		Workers:  2,
		flags:    map[string]bool{"port": true, "external": true, "https": true},
	}
	s := configtest.Managed()
	opts.applyFlags(s)

	assert.Equal(t, 4000, s.ViteDevServer.Port)
	assert.False(t, s.ViteDevServer.StartVite)
	assert.True(t, s.ViteDevServer.HTTPS)
	assert.True(t, s.TestWorkersEnabled)
	assert.False(t, s.ParallelMode)
}

func TestApplyFlagsKeepsConfigWhenUnset(t *testing.T) {
	opts := &RunOptions{flags: map[string]bool{}}
	s := configtest.External(3000, true)
	opts.applyFlags(s)

	assert.Equal(t, 3000, s.ViteDevServer.Port)
	assert.False(t, s.ViteDevServer.StartVite)
	assert.True(t, s.ViteDevServer.HTTPS)
	assert.False(t, s.TestWorkersEnabled)
}

func TestTestEnv(t *testing.T) {
	s := configtest.Managed()
	s.SetServerURL(5174)

	assert.Equal(t, []string{
		"VITEHOOK_LAUNCH_URL=http://localhost:5174",
		"VITEHOOK_BASE_URL=http://localhost:5174",
		"VITEHOOK_PORT=5174",
	}, testEnv(s, -1))

	env := testEnv(s, 3)
	assert.Contains(t, env, "VITEHOOK_WORKER_ID=3")
}

// newRunOptions wires a controller around a fake starter.
func newRunOptions(t *testing.T, s *config.Settings, starter *devservertest.FakeStarter, prober stubProber, cleaner *countingCleaner, command ...string) (*RunOptions, *iostreamstest.TestIOStreams, **lifecycle.Controller) {
	t.Helper()
	tio := iostreamstest.New()
	var ctrl *lifecycle.Controller
	opts := &RunOptions{
		IOStreams: tio.IOStreams,
		Settings:  func() (*config.Settings, error) { return s, nil },
		Controller: func(s *config.Settings) *lifecycle.Controller {
			ctrl = lifecycle.New(starter, prober, cleaner)
			return ctrl
		},
		flags:   map[string]bool{},
		Command: command,
	}
	return opts, tio, &ctrl
}

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}
}

func TestRunManagedPassesURLs(t *testing.T) {
	requireShell(t)
	starter := &devservertest.FakeStarter{Port: 5199}
	cleaner := &countingCleaner{}
	opts, tio, ctrl := newRunOptions(t, configtest.Managed(), starter, stubProber{}, cleaner,
		"sh", "-c", `echo "$VITEHOOK_BASE_URL $VITEHOOK_LAUNCH_URL $VITEHOOK_PORT"`)

	require.NoError(t, runRun(context.Background(), opts))

	assert.Equal(t, "http://localhost:5199 http://localhost:5199 5199\n", tio.OutBuf.String())
	assert.Contains(t, tio.ErrBuf.String(), "Vite dev server ready at http://localhost:5199")
	assert.Equal(t, 1, starter.Calls())
	assert.Equal(t, 1, starter.Handles()[0].Closes())
	assert.Equal(t, 1, cleaner.calls)
	assert.Equal(t, lifecycle.StateClosed, (*ctrl).State())
}

func TestRunPropagatesExitCode(t *testing.T) {
	requireShell(t)
	starter := &devservertest.FakeStarter{}
	cleaner := &countingCleaner{}
	opts, _, _ := newRunOptions(t, configtest.Managed(), starter, stubProber{}, cleaner, "sh", "-c", "exit 3")

	err := runRun(context.Background(), opts)
	var exitErr *cmdutil.ExitError
	require.True(t, errors.As(err, &exitErr), "got %v", err)
	assert.Equal(t, 3, exitErr.Code)

	assert.True(t, starter.Handles()[0].Closed(), "server is stopped even when tests fail")
	assert.Equal(t, 1, cleaner.calls)
}

func TestRunExternalMissingPlugin(t *testing.T) {
	requireShell(t)
	starter := &devservertest.FakeStarter{}
	opts, tio, _ := newRunOptions(t, configtest.External(5173, false), starter, stubProber{ok: false}, &countingCleaner{},
		"sh", "-c", "echo should not run")

	err := runRun(context.Background(), opts)
	require.Error(t, err)
	assert.True(t, lifecycle.IsMissingCapability(err))
	assert.Empty(t, tio.OutBuf.String())
	assert.Equal(t, 0, starter.Calls())
}

func TestRunWorkersShareOneServer(t *testing.T) {
	requireShell(t)
	starter := &devservertest.FakeStarter{Port: 5200}
	cleaner := &countingCleaner{}
	opts, tio, ctrl := newRunOptions(t, configtest.Managed(), starter, stubProber{}, cleaner,
		"sh", "-c", `echo "worker $VITEHOOK_WORKER_ID $VITEHOOK_PORT"`)
	opts.Workers = 3

	require.NoError(t, runRun(context.Background(), opts))

	out := tio.OutBuf.String()
	for _, line := range []string{"worker 0 5200", "worker 1 5200", "worker 2 5200"} {
		assert.Contains(t, out, line)
	}
	assert.Equal(t, 3, strings.Count(out, "\n"))
	assert.Equal(t, 1, starter.Calls(), "workers share the server started before the first worker")
	assert.Equal(t, 1, starter.Handles()[0].Closes())
	assert.Equal(t, 1, cleaner.calls)
	assert.Equal(t, lifecycle.StateClosed, (*ctrl).State())
}

func TestRunWorkersTagLogEvents(t *testing.T) {
	requireShell(t)
	logs := loggertest.Install(t)
	opts, _, _ := newRunOptions(t, configtest.Managed(), &devservertest.FakeStarter{}, stubProber{}, &countingCleaner{},
		"sh", "-c", "exit 0")
	opts.Workers = 2

	require.NoError(t, runRun(context.Background(), opts))

	out := logs.Output()
	assert.Contains(t, out, `"worker":"0"`)
	assert.Contains(t, out, `"worker":"1"`)
}

func TestRunWorkersFirstFailureWins(t *testing.T) {
	requireShell(t)
	opts, _, _ := newRunOptions(t, configtest.Managed(), &devservertest.FakeStarter{}, stubProber{}, &countingCleaner{},
		"sh", "-c", `exit $((VITEHOOK_WORKER_ID + 4))`)
	opts.Workers = 2

	err := runRun(context.Background(), opts)
	var exitErr *cmdutil.ExitError
	require.True(t, errors.As(err, &exitErr), "got %v", err)
	assert.Equal(t, 4, exitErr.Code)
}

func TestRunMissingBinary(t *testing.T) {
	opts, _, _ := newRunOptions(t, configtest.Managed(), &devservertest.FakeStarter{}, stubProber{}, &countingCleaner{},
		"definitely-not-a-test-runner")

	err := runRun(context.Background(), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to run definitely-not-a-test-runner")
}

func TestRunSettingsError(t *testing.T) {
	tio := iostreamstest.New()
	opts := &RunOptions{
		IOStreams: tio.IOStreams,
		Settings:  func() (*config.Settings, error) { return nil, errors.New("bad yaml") },
		flags:     map[string]bool{},
		Command:   []string{"true"},
	}

	err := runRun(context.Background(), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config: bad yaml")
}
