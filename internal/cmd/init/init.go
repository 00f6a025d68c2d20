package init

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"

	"github.com/schmitthub/vitehook/internal/cmdutil"
	"github.com/schmitthub/vitehook/internal/config"
	"github.com/schmitthub/vitehook/internal/iostreams"
	"github.com/schmitthub/vitehook/internal/logger"
	"github.com/schmitthub/vitehook/internal/prompter"
	"github.com/schmitthub/vitehook/internal/viteconfig"
	"github.com/spf13/cobra"
)

// InitOptions contains the options for the init command.
type InitOptions struct {
	IOStreams *iostreams.IOStreams
	Prompter  func() *prompter.Prompter
	WorkDir   string

	ComponentType  string
	Force          bool
	SkipViteConfig bool

	// componentTypeSet is true when --component-type was given explicitly
	componentTypeSet bool
}

// NewCmdInit creates the init command.
func NewCmdInit(f *cmdutil.Factory, runF func(context.Context, *InitOptions) error) *cobra.Command {
	opts := &InitOptions{
		IOStreams: f.IOStreams,
		Prompter:  f.Prompter,
	}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create vitehook.yaml and vite.config.js in the current directory",
		Long: `Writes a commented vitehook.yaml with the default settings and a vite.config.js
that loads the framework plugin together with vite-plugin-nightwatch-fixes.

Existing files are left alone unless --force is given. vitehook.yaml is never
overwritten. In an interactive terminal init asks for the component type when
--component-type is not given, and asks before replacing vite.config.js.`,
		Example: `  # React project
  vitehook init

  # Vue project, replacing an existing vite.config.js
  vitehook init --component-type vue --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// --workdir is parsed after construction.
			opts.WorkDir = f.WorkDir
			opts.componentTypeSet = cmd.Flags().Changed("component-type")
			if runF != nil {
				return runF(cmd.Context(), opts)
			}
			return initRun(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ComponentType, "component-type", "t", config.DefaultComponentType, "Component framework: react or vue")
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Overwrite an existing vite.config.js")
	cmd.Flags().BoolVar(&opts.SkipViteConfig, "skip-vite-config", false, "Only write vitehook.yaml")

	return cmd
}

func initRun(_ context.Context, opts *InitOptions) error {
	ios := opts.IOStreams
	cs := ios.ColorScheme()

	if !opts.SkipViteConfig && !opts.componentTypeSet && opts.Prompter != nil {
		types := viteconfig.ComponentTypes()
		idx, err := opts.Prompter().Select("Component type", types, max(slices.Index(types, opts.ComponentType), 0))
		if err != nil {
			return err
		}
		opts.ComponentType = types[idx]
	}

	// Validate before touching the filesystem.
	if err := viteconfig.Render(io.Discard, viteconfig.Options{ComponentType: opts.ComponentType}); err != nil {
		return cmdutil.FlagErrorWrap(err)
	}

	configPath := filepath.Join(opts.WorkDir, config.ConfigFileName)
	created, err := config.WriteIfMissing(configPath, []byte(config.ScaffoldYAML(opts.ComponentType)))
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", config.ConfigFileName, err)
	}
	if created {
		fmt.Fprintf(ios.ErrOut, "%s\n", cs.SuccessIconWithColor("Created "+config.ConfigFileName))
	} else {
		fmt.Fprintf(ios.ErrOut, "%s\n", cs.InfoIconWithColor(config.ConfigFileName+" already exists, leaving it unchanged"))
	}

	if opts.SkipViteConfig {
		return nil
	}

	viteOpts := viteconfig.Options{ComponentType: opts.ComponentType}
	path, err := viteconfig.WriteFile(opts.WorkDir, viteOpts, opts.Force)
	if errors.Is(err, viteconfig.ErrFileExists) && opts.Prompter != nil {
		overwrite, perr := opts.Prompter().Confirm(viteconfig.FileName+" already exists. Overwrite?", false)
		if perr != nil {
			return perr
		}
		if overwrite {
			path, err = viteconfig.WriteFile(opts.WorkDir, viteOpts, true)
		}
	}
	switch {
	case errors.Is(err, viteconfig.ErrFileExists):
		fmt.Fprintf(ios.ErrOut, "%s\n", cs.WarningIconWithColor(viteconfig.FileName+" already exists, use --force to replace it"))
	case err != nil:
		return err
	default:
		fmt.Fprintf(ios.ErrOut, "%s\n", cs.SuccessIconWithColor("Created "+viteconfig.FileName))
	}

	logger.Debug().
		Str("config", configPath).
		Str("vite_config", path).
		Str("component_type", opts.ComponentType).
		Msg("project initialized")

	fmt.Fprintln(ios.ErrOut, "\nNext Steps:")
	fmt.Fprintln(ios.ErrOut, "  1. npm install --save-dev vite vite-plugin-nightwatch-fixes")
	fmt.Fprintln(ios.ErrOut, "  2. vitehook run -- npx nightwatch")
	return nil
}
