package show

import (
	"context"
	"fmt"

	"github.com/schmitthub/vitehook/internal/cmdutil"
	internalconfig "github.com/schmitthub/vitehook/internal/config"
	"github.com/schmitthub/vitehook/internal/iostreams"
	"github.com/schmitthub/vitehook/internal/logger"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// ShowOptions holds options for the config show command.
type ShowOptions struct {
	IOStreams    *iostreams.IOStreams
	ConfigLoader func() *internalconfig.Loader
	Settings     func() (*internalconfig.Settings, error)
	LogFilePath  func() string
}

// NewCmdShow creates the config show command.
func NewCmdShow(f *cmdutil.Factory, runF func(context.Context, *ShowOptions) error) *cobra.Command {
	opts := &ShowOptions{
		IOStreams:    f.IOStreams,
		ConfigLoader: f.ConfigLoader,
		Settings:     f.Settings,
		LogFilePath:  logger.GetLogFilePath,
	}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Prints the settings vitehook will use as YAML: vitehook.yaml merged over the
defaults, with VITEHOOK_* environment overrides applied.`,
		Example: `  vitehook config show
  VITEHOOK_VITE_DEV_SERVER_PORT=3000 vitehook config show`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if runF != nil {
				return runF(cmd.Context(), opts)
			}
			return showRun(cmd.Context(), opts)
		},
	}

	return cmd
}

func showRun(_ context.Context, opts *ShowOptions) error {
	ios := opts.IOStreams
	cs := ios.ColorScheme()

	settings, err := opts.Settings()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	loader := opts.ConfigLoader()
	source := loader.ConfigPath()
	if !loader.Exists() {
		source = "defaults (" + internalconfig.ConfigFileName + " not found)"
	}
	fmt.Fprintf(ios.ErrOut, "%s\n", cs.Muted("# source: "+source))
	if opts.LogFilePath != nil {
		if path := opts.LogFilePath(); path != "" {
			fmt.Fprintf(ios.ErrOut, "%s\n", cs.Muted("# log file: "+path))
		}
	}

	enc := yaml.NewEncoder(ios.Out)
	enc.SetIndent(2)
	if err := enc.Encode(settings); err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return enc.Close()
}
