package set

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/schmitthub/vitehook/internal/cmdutil"
	"github.com/schmitthub/vitehook/internal/config"
	"github.com/schmitthub/vitehook/internal/iostreams/iostreamstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOptions(dir, key, value string) (*SetOptions, *iostreamstest.TestIOStreams) {
	tio := iostreamstest.New()
	loader := config.NewLoader(dir)
	return &SetOptions{
		IOStreams:    tio.IOStreams,
		ConfigLoader: func() *config.Loader { return loader },
		Key:          key,
		Value:        value,
	}, tio
}

func TestNewCmdSet(t *testing.T) {
	tio := iostreamstest.New()
	f := &cmdutil.Factory{IOStreams: tio.IOStreams}

	var gotOpts *SetOptions
	cmd := NewCmdSet(f, func(_ context.Context, opts *SetOptions) error {
		gotOpts = opts
		return nil
	})
	cmd.SetArgs([]string{"vite_dev_server.port", "3000"})
	require.NoError(t, cmd.Execute())
	require.NotNil(t, gotOpts)
	assert.Equal(t, "vite_dev_server.port", gotOpts.Key)
	assert.Equal(t, "3000", gotOpts.Value)
}

func TestNewCmdSetRequiresTwoArgs(t *testing.T) {
	tio := iostreamstest.New()
	f := &cmdutil.Factory{IOStreams: tio.IOStreams}

	cmd := NewCmdSet(f, func(_ context.Context, opts *SetOptions) error { return nil })
	cmd.SetArgs([]string{"vite_dev_server.port"})
	cmd.SetOut(tio.ErrBuf)
	cmd.SetErr(tio.ErrBuf)
	assert.Error(t, cmd.Execute())
}

func TestSetRun(t *testing.T) {
	dir := t.TempDir()
	opts, tio := newOptions(dir, "vite_dev_server.start_vite", "false")

	require.NoError(t, setRun(context.Background(), opts))
	assert.Contains(t, tio.ErrBuf.String(), "[ok] Set vite_dev_server.start_vite to false")

	s, err := config.NewLoader(dir).Load()
	require.NoError(t, err)
	assert.False(t, s.ViteDevServer.StartVite)
}

func TestSetRunUnknownKey(t *testing.T) {
	opts, _ := newOptions(t.TempDir(), "nope", "1")

	err := setRun(context.Background(), opts)
	var flagErr *cmdutil.FlagError
	require.True(t, errors.As(err, &flagErr), "got %v", err)
}

func TestSetRunInvalidValue(t *testing.T) {
	dir := t.TempDir()
	opts, tio := newOptions(dir, "cache_dir", "/")

	err := setRun(context.Background(), opts)
	assert.ErrorIs(t, err, cmdutil.SilentError)
	assert.Contains(t, tio.ErrBuf.String(), "Configuration validation failed")
	assert.Contains(t, tio.ErrBuf.String(), "cache_dir")

	_, statErr := os.Stat(filepath.Join(dir, config.ConfigFileName))
	assert.True(t, os.IsNotExist(statErr))
}
