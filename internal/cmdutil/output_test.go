package cmdutil

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/schmitthub/vitehook/internal/config/configtest"
	"github.com/schmitthub/vitehook/internal/devserver/devservertest"
	"github.com/schmitthub/vitehook/internal/iostreams/iostreamstest"
	"github.com/schmitthub/vitehook/internal/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticProber struct {
	ok  bool
	err error
}

func (p staticProber) Probe(ctx context.Context, port int, scheme string) (bool, error) {
	return p.ok, p.err
}

func TestPrintErrorPlain(t *testing.T) {
	tio := iostreamstest.New()
	PrintError(tio.IOStreams, errors.New("config file is broken"))
	assert.Equal(t, "[error] config file is broken\n", tio.ErrBuf.String())
}

func TestPrintErrorSilent(t *testing.T) {
	tio := iostreamstest.New()
	PrintError(tio.IOStreams, fmt.Errorf("already shown: %w", SilentError))
	PrintError(tio.IOStreams, nil)
	assert.Empty(t, tio.ErrBuf.String())
}

func TestPrintErrorLifecycleHelp(t *testing.T) {
	c := lifecycle.New(&devservertest.FakeStarter{}, staticProber{ok: false}, nil)
	err := c.OnBeforeRun(context.Background(), configtest.External(5173, false))
	require.Error(t, err)

	tio := iostreamstest.New()
	PrintError(tio.IOStreams, fmt.Errorf("before run: %w", err))

	out := tio.ErrBuf.String()
	assert.Contains(t, out, "[error] missing vite-plugin-nightwatch-fixes")
	assert.Contains(t, out, "  Please ensure that \"vite-plugin-nightwatch-fixes\" is loaded")
	assert.Contains(t, out, "nightwatchPlugin({")
	assert.Contains(t, out, "See: "+lifecycle.DocsURL)
}

func TestPrintHelpHint(t *testing.T) {
	tio := iostreamstest.New()
	PrintHelpHint(tio.IOStreams, "vitehook run")
	assert.Equal(t, "\nRun 'vitehook run --help' for more information.\n", tio.ErrBuf.String())
}
