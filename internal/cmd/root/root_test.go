package root

import (
	"testing"

	"github.com/schmitthub/vitehook/internal/cmdutil"
	"github.com/schmitthub/vitehook/internal/iostreams/iostreamstest"
	"github.com/schmitthub/vitehook/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFactory() (*cmdutil.Factory, *iostreamstest.TestIOStreams) {
	tio := iostreamstest.New()
	return &cmdutil.Factory{IOStreams: tio.IOStreams, Version: "1.0.0", WorkDir: "/project"}, tio
}

func TestNewCmdRoot(t *testing.T) {
	f, _ := newFactory()
	cmd := NewCmdRoot(f, "1.0.0", "abc123")

	assert.Equal(t, "vitehook", cmd.Use)
	assert.Equal(t, "1.0.0", cmd.Version)

	expected := map[string]bool{"run": false, "probe": false, "init": false, "config": false, "version": false}
	for _, sub := range cmd.Commands() {
		if _, ok := expected[sub.Name()]; ok {
			expected[sub.Name()] = true
		}
	}
	for name, found := range expected {
		assert.True(t, found, "expected subcommand %q to be registered", name)
	}
}

func TestNewCmdRootGlobalFlags(t *testing.T) {
	f, _ := newFactory()
	cmd := NewCmdRoot(f, "1.0.0", "abc123")

	for _, name := range []string{"debug", "workdir", "config"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "expected --%s flag", name)
	}
	assert.Equal(t, "D", cmd.PersistentFlags().Lookup("debug").Shorthand)
	assert.Equal(t, "/project", cmd.PersistentFlags().Lookup("workdir").DefValue)
}

func TestRootFlagsPopulateFactory(t *testing.T) {
	t.Setenv("VITEHOOK_HOME", t.TempDir())
	t.Cleanup(func() { _ = logger.CloseFileWriter() })
	f, tio := newFactory()
	cmd := NewCmdRoot(f, "1.0.0", "abc123")

	cmd.SetArgs([]string{"--debug", "--workdir", "/elsewhere", "-c", "/elsewhere/ci.yaml", "version"})
	require.NoError(t, cmd.Execute())

	assert.True(t, f.Debug)
	assert.Equal(t, "/elsewhere", f.WorkDir)
	assert.Equal(t, "/elsewhere/ci.yaml", f.ConfigFile)
	assert.Equal(t, "vitehook version 1.0.0 (abc123)\n", tio.OutBuf.String())
}
