package probe

import (
	"context"
	"fmt"

	"github.com/schmitthub/vitehook/internal/cmdutil"
	"github.com/schmitthub/vitehook/internal/config"
	"github.com/schmitthub/vitehook/internal/iostreams"
	"github.com/schmitthub/vitehook/internal/lifecycle"
	probepkg "github.com/schmitthub/vitehook/internal/probe"
	"github.com/spf13/cobra"
)

// ProbeOptions contains the options for the probe command.
type ProbeOptions struct {
	IOStreams *iostreams.IOStreams
	Settings  func() (*config.Settings, error)
	Prober    func() probepkg.Prober

	Port  int
	HTTPS bool

	portSet  bool
	httpsSet bool
}

// NewCmdProbe creates the probe command.
func NewCmdProbe(f *cmdutil.Factory, runF func(context.Context, *ProbeOptions) error) *cobra.Command {
	opts := &ProbeOptions{
		IOStreams: f.IOStreams,
		Settings:  f.Settings,
		Prober:    f.Prober,
	}

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Check that a running dev server loads vite-plugin-nightwatch-fixes",
		Long: `Requests /_nightwatch from a dev server you started yourself and reports whether
vite-plugin-nightwatch-fixes is loaded. This is the check 'vitehook run --external'
performs before running tests.`,
		Example: `  # Check the port from vitehook.yaml
  vitehook probe

  # Check an https dev server on port 3000
  vitehook probe --port 3000 --https`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.portSet = cmd.Flags().Changed("port")
			opts.httpsSet = cmd.Flags().Changed("https")
			if runF != nil {
				return runF(cmd.Context(), opts)
			}
			return probeRun(cmd.Context(), opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Port, "port", "p", 0, "Dev server port (overrides vite_dev_server.port)")
	cmd.Flags().BoolVar(&opts.HTTPS, "https", false, "Probe over https")

	return cmd
}

func probeRun(ctx context.Context, opts *ProbeOptions) error {
	ios := opts.IOStreams
	cs := ios.ColorScheme()

	settings, err := opts.Settings()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	probeSettings := *settings
	probeSettings.ViteDevServer.StartVite = false
	if opts.portSet {
		probeSettings.ViteDevServer.Port = opts.Port
	}
	if opts.httpsSet {
		probeSettings.ViteDevServer.HTTPS = opts.HTTPS
	}

	// An external-only controller never starts or owns a server.
	ctrl := lifecycle.New(nil, opts.Prober(), nil)
	if err := ctrl.OnBeforeFirstWorker(ctx, &probeSettings); err != nil {
		return err
	}

	fmt.Fprintf(ios.ErrOut, "%s\n", cs.SuccessIconWithColor(fmt.Sprintf("%s is loaded on %s", lifecycle.PluginName, probeSettings.BaseURL)))
	fmt.Fprintln(ios.Out, probeSettings.BaseURL)
	return nil
}
