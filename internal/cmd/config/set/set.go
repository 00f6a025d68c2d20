package set

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/schmitthub/vitehook/internal/cmdutil"
	internalconfig "github.com/schmitthub/vitehook/internal/config"
	"github.com/schmitthub/vitehook/internal/iostreams"
	"github.com/schmitthub/vitehook/internal/logger"
	"github.com/spf13/cobra"
)

// SetOptions holds options for the config set command.
type SetOptions struct {
	IOStreams    *iostreams.IOStreams
	ConfigLoader func() *internalconfig.Loader

	Key   string
	Value string
}

// NewCmdSet creates the config set command.
func NewCmdSet(f *cmdutil.Factory, runF func(context.Context, *SetOptions) error) *cobra.Command {
	opts := &SetOptions{
		IOStreams:    f.IOStreams,
		ConfigLoader: f.ConfigLoader,
	}

	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a value in vitehook.yaml",
		Long: `Sets one key in vitehook.yaml, creating the file when it does not exist.
The result is validated before it is written. Comments in the file are not
preserved.

Keys:
  ` + strings.Join(internalconfig.Keys(), "\n  "),
		Example: `  # Verify a dev server you run yourself
  vitehook config set vite_dev_server.start_vite false
  vitehook config set vite_dev_server.port 3000

  # Give a slow machine more time
  vitehook config set vite_dev_server.start_timeout 90s`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Key, opts.Value = args[0], args[1]
			if runF != nil {
				return runF(cmd.Context(), opts)
			}
			return setRun(cmd.Context(), opts)
		},
	}

	return cmd
}

func setRun(_ context.Context, opts *SetOptions) error {
	ios := opts.IOStreams
	cs := ios.ColorScheme()

	path := opts.ConfigLoader().ConfigPath()
	_, err := internalconfig.SetValue(path, opts.Key, opts.Value)

	var keyErr *internalconfig.UnknownKeyError
	var multiErr *internalconfig.MultiValidationError
	switch {
	case errors.As(err, &keyErr):
		return cmdutil.FlagErrorWrap(err)
	case errors.As(err, &multiErr):
		fmt.Fprintf(ios.ErrOut, "%s\n\n", cs.FailureIconWithColor("Configuration validation failed"))
		for _, e := range multiErr.Errors {
			fmt.Fprintf(ios.ErrOut, "  - %s\n", e)
		}
		return cmdutil.SilentError
	case err != nil:
		return err
	}

	logger.Debug().Str("path", path).Str("key", opts.Key).Str("value", opts.Value).Msg("config value set")
	fmt.Fprintf(ios.ErrOut, "%s\n", cs.SuccessIconWithColor(fmt.Sprintf("Set %s to %s in %s", opts.Key, opts.Value, path)))
	return nil
}
