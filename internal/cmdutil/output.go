package cmdutil

import (
	"errors"
	"fmt"
	"strings"

	"github.com/schmitthub/vitehook/internal/iostreams"
	"github.com/schmitthub/vitehook/internal/lifecycle"
)

// PrintError renders err to stderr. Lifecycle errors get their help lines
// and documentation link printed below the message.
func PrintError(ios *iostreams.IOStreams, err error) {
	if err == nil || errors.Is(err, SilentError) {
		return
	}
	cs := ios.ColorScheme()

	le, ok := lifecycle.AsError(err)
	if !ok {
		fmt.Fprintf(ios.ErrOut, "%s\n", cs.FailureIconWithColor(err.Error()))
		return
	}

	fmt.Fprintf(ios.ErrOut, "%s\n", cs.FailureIconWithColor(le.Error()))
	for _, help := range le.Help {
		fmt.Fprintln(ios.ErrOut)
		for _, line := range strings.Split(help, "\n") {
			fmt.Fprintf(ios.ErrOut, "  %s\n", line)
		}
	}
	if le.Link != "" {
		fmt.Fprintf(ios.ErrOut, "\n  %s %s\n", cs.Muted("See:"), cs.Cyan(le.Link))
	}
}

// PrintHelpHint prints a contextual help hint to stderr.
// cmdPath should be cmd.CommandPath() (e.g., "vitehook run")
func PrintHelpHint(ios *iostreams.IOStreams, cmdPath string) {
	fmt.Fprintf(ios.ErrOut, "\nRun '%s --help' for more information.\n", cmdPath)
}
