package root

import (
	configcmd "github.com/schmitthub/vitehook/internal/cmd/config"
	initcmd "github.com/schmitthub/vitehook/internal/cmd/init"
	probecmd "github.com/schmitthub/vitehook/internal/cmd/probe"
	runcmd "github.com/schmitthub/vitehook/internal/cmd/run"
	versioncmd "github.com/schmitthub/vitehook/internal/cmd/version"
	"github.com/schmitthub/vitehook/internal/cmdutil"
	internalconfig "github.com/schmitthub/vitehook/internal/config"
	"github.com/schmitthub/vitehook/internal/logger"
	"github.com/spf13/cobra"
)

// NewCmdRoot creates the root command for the vitehook CLI.
func NewCmdRoot(f *cmdutil.Factory, version, commit string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vitehook",
		Short: "Run component tests against a Vite dev server",
		Long: `vitehook starts a Vite dev server before your component tests and stops it
afterwards, or verifies that a dev server you run yourself has
vite-plugin-nightwatch-fixes loaded.

Quick start:
  vitehook init                     # Write vitehook.yaml and vite.config.js
  vitehook run -- npx nightwatch    # Start Vite, run the tests, stop Vite
  vitehook probe --port 5173        # Check an already running dev server`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			initializeLogger(f)

			logger.Debug().
				Str("version", f.Version).
				Bool("debug", f.Debug).
				Str("workdir", f.WorkDir).
				Msg("vitehook starting")

			return nil
		},
		Version: f.Version,
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&f.Debug, "debug", "D", false, "Enable debug logging")
	cmd.PersistentFlags().StringVarP(&f.WorkDir, "workdir", "C", f.WorkDir, "Project directory containing vitehook.yaml")
	cmd.PersistentFlags().StringVarP(&f.ConfigFile, "config", "c", "", "Path to the config file (default: <workdir>/vitehook.yaml)")

	cmd.SetVersionTemplate(versioncmd.Format(version, commit))

	cmd.AddCommand(runcmd.NewCmdRun(f, nil))
	cmd.AddCommand(probecmd.NewCmdProbe(f, nil))
	cmd.AddCommand(initcmd.NewCmdInit(f, nil))
	cmd.AddCommand(configcmd.NewCmdConfig(f))
	cmd.AddCommand(versioncmd.NewCmdVersion(f, version, commit))

	return cmd
}

// initializeLogger sets up the logger with file logging if possible.
// Falls back to console-only logging on any errors.
func initializeLogger(f *cmdutil.Factory) {
	logsDir, err := internalconfig.LogsDir()
	if err != nil {
		logger.Init(f.Debug)
		logger.Warn().Err(err).Msg("file logging unavailable: failed to get logs directory")
		return
	}

	var cfg internalconfig.LoggingConfig
	if f.Settings != nil {
		settings, err := f.Settings()
		if err != nil {
			// The command reports the load error itself.
			logger.Init(f.Debug)
			return
		}
		cfg = settings.Logging
	}

	logCfg := &logger.LoggingConfig{
		FileEnabled: cfg.FileEnabled,
		MaxSizeMB:   cfg.MaxSizeMB,
		MaxAgeDays:  cfg.MaxAgeDays,
		MaxBackups:  cfg.MaxBackups,
		Compress:    cfg.Compress,
	}

	if err := logger.InitWithFile(f.Debug, logsDir, logCfg); err != nil {
		logger.Init(f.Debug)
		logger.Warn().Err(err).Msg("file logging unavailable: failed to initialize file writer")
	}
}
