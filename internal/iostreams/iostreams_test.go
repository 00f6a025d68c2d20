package iostreams_test

import (
	"strings"
	"testing"

	"github.com/schmitthub/vitehook/internal/iostreams"
	"github.com/schmitthub/vitehook/internal/iostreams/iostreamstest"
	"github.com/stretchr/testify/assert"
)

func TestTestStreamsAreNotTTY(t *testing.T) {
	ios := iostreamstest.New()
	assert.False(t, ios.IsOutputTTY())
	assert.False(t, ios.IsStderrTTY())
	assert.False(t, ios.ColorEnabled())
	assert.False(t, ios.IsInteractive())
}

func TestSetInteractive(t *testing.T) {
	ios := iostreamstest.New()
	ios.SetInteractive(true)
	assert.True(t, ios.IsInteractive())
	assert.False(t, ios.ColorEnabled(), "interactive does not imply color")

	ios.SetInteractive(false)
	assert.False(t, ios.IsInteractive())
}

func TestSetColorEnabled(t *testing.T) {
	ios := iostreamstest.New()
	ios.SetColorEnabled(true)
	assert.True(t, ios.ColorEnabled())
	assert.True(t, ios.ColorScheme().Enabled())
}

func TestPrintMessagesWithoutColor(t *testing.T) {
	ios := iostreamstest.New()

	assert.NoError(t, ios.PrintSuccess("started on %d", 5173))
	assert.NoError(t, ios.PrintWarning("slow"))
	assert.NoError(t, ios.PrintInfo("probing"))
	assert.NoError(t, ios.PrintFailure("boom"))

	out := ios.ErrBuf.String()
	assert.Contains(t, out, "[ok] started on 5173")
	assert.Contains(t, out, "[warn] slow")
	assert.Contains(t, out, "[info] probing")
	assert.Contains(t, out, "[error] boom")
	assert.Empty(t, ios.OutBuf.String())
}

func TestColorSchemeDisabledIsPlain(t *testing.T) {
	cs := iostreams.NewColorScheme(false)
	assert.Equal(t, "x", cs.Red("x"))
	assert.Equal(t, "x", cs.Bold("x"))
	assert.Equal(t, "a 1", cs.Boldf("a %d", 1))
}

func TestSpinnerFrame(t *testing.T) {
	cs := iostreams.NewColorScheme(false)
	assert.Equal(t, "⠋", iostreams.SpinnerFrame(0, "", cs))
	assert.Equal(t, "⠙ Starting", iostreams.SpinnerFrame(1, "Starting", cs))
	assert.Equal(t, "⠋ x", iostreams.SpinnerFrame(10, "x", cs))
}

func TestSpinnerDisabledWhenNotTTY(t *testing.T) {
	ios := iostreamstest.New()
	err := ios.RunWithSpinner("Starting", func() error { return nil })
	assert.NoError(t, err)
	assert.Empty(t, ios.ErrBuf.String())
}

func TestTextualSpinner(t *testing.T) {
	ios := iostreamstest.New()
	ios.SetProgressIndicatorEnabled(true)
	ios.SetSpinnerDisabled(true)

	ios.StartSpinner("Starting dev server")
	ios.StopSpinner()

	assert.True(t, strings.HasPrefix(ios.ErrBuf.String(), "Starting dev server..."))
}

func TestAnimatedSpinnerStops(t *testing.T) {
	ios := iostreamstest.New()
	ios.SetProgressIndicatorEnabled(true)

	ios.StartSpinner("one")
	ios.StartSpinner("two")
	ios.StopSpinner()
	ios.StopSpinner()
}
