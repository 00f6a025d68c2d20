package check

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/schmitthub/vitehook/internal/cmdutil"
	internalconfig "github.com/schmitthub/vitehook/internal/config"
	"github.com/schmitthub/vitehook/internal/iostreams"
	"github.com/schmitthub/vitehook/internal/logger"
	"github.com/schmitthub/vitehook/internal/viteconfig"
	"github.com/spf13/cobra"
)

// CheckOptions holds options for the config check command.
type CheckOptions struct {
	IOStreams    *iostreams.IOStreams
	ConfigLoader func() *internalconfig.Loader
}

// NewCmdCheck creates the config check command.
func NewCmdCheck(f *cmdutil.Factory, runF func(context.Context, *CheckOptions) error) *cobra.Command {
	opts := &CheckOptions{
		IOStreams:    f.IOStreams,
		ConfigLoader: f.ConfigLoader,
	}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate vitehook.yaml",
		Long: `Validates the vitehook.yaml configuration file in the current directory.

Checks for:
  - YAML syntax and field types
  - Port and timeout ranges
  - A dev server command that can be parsed
  - A supported component_type
  - A cache_dir that is safe to delete`,
		Example: `  # Validate configuration in current directory
  vitehook config check`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if runF != nil {
				return runF(cmd.Context(), opts)
			}
			return checkRun(cmd.Context(), opts)
		},
	}

	return cmd
}

func checkRun(_ context.Context, opts *CheckOptions) error {
	ios := opts.IOStreams
	cs := ios.ColorScheme()
	loader := opts.ConfigLoader()

	logger.Debug().Str("path", loader.ConfigPath()).Msg("checking configuration")

	if !loader.Exists() {
		fmt.Fprintf(ios.ErrOut, "%s\n", cs.FailureIconWithColor(internalconfig.ConfigFileName+" not found"))
		fmt.Fprintln(ios.ErrOut, "\nNext Steps:")
		fmt.Fprintln(ios.ErrOut, "  1. Run 'vitehook init' to create a configuration file")
		return cmdutil.SilentError
	}

	settings, err := loader.Load()
	if err != nil {
		fmt.Fprintf(ios.ErrOut, "%s\n", cs.FailureIconWithColor("Failed to load configuration"))
		fmt.Fprintf(ios.ErrOut, "  %s\n", err)
		return cmdutil.SilentError
	}

	validator := internalconfig.NewValidator()
	err = validator.Validate(settings)

	var problems []error
	var multi *internalconfig.MultiValidationError
	if errors.As(err, &multi) {
		problems = append(problems, multi.ValidationErrors()...)
	}
	if renderErr := viteconfig.Render(io.Discard, viteconfig.Options{ComponentType: settings.GetComponentType()}); renderErr != nil {
		problems = append(problems, fmt.Errorf("component_type: %w", renderErr))
	}

	if len(problems) > 0 {
		fmt.Fprintf(ios.ErrOut, "%s\n\n", cs.FailureIconWithColor("Configuration validation failed"))
		for _, p := range problems {
			fmt.Fprintf(ios.ErrOut, "  - %s\n", p)
		}
		return cmdutil.SilentError
	}

	for _, warning := range validator.Warnings() {
		fmt.Fprintf(ios.ErrOut, "%s\n", cs.WarningIconWithColor(warning))
	}

	cfg := settings.ServerConfig()
	mode := "managed"
	if !cfg.ManageServer {
		mode = "external"
	}

	fmt.Fprintf(ios.ErrOut, "%s\n\n", cs.SuccessIconWithColor("Configuration is valid"))
	fmt.Fprintf(ios.ErrOut, "  Dev server:     %s\n", mode)
	fmt.Fprintf(ios.ErrOut, "  URL:            %s\n", cfg.URL(cfg.ExternalPort))
	if cfg.ManageServer {
		fmt.Fprintf(ios.ErrOut, "  Command:        %s\n", cfg.Command)
		fmt.Fprintf(ios.ErrOut, "  Start timeout:  %s\n", cfg.StartTimeout)
	}
	fmt.Fprintf(ios.ErrOut, "  Component type: %s\n", settings.GetComponentType())
	fmt.Fprintf(ios.ErrOut, "  Cache dir:      %s\n", settings.GetCacheDir())

	return nil
}
