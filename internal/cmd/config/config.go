package config

import (
	"github.com/schmitthub/vitehook/internal/cmd/config/check"
	"github.com/schmitthub/vitehook/internal/cmd/config/set"
	"github.com/schmitthub/vitehook/internal/cmd/config/show"
	"github.com/schmitthub/vitehook/internal/cmdutil"
	"github.com/spf13/cobra"
)

// NewCmdConfig creates the config command.
func NewCmdConfig(f *cmdutil.Factory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management commands",
		Long:  `Commands for inspecting, validating and editing vitehook.yaml.`,
	}

	cmd.AddCommand(check.NewCmdCheck(f, nil))
	cmd.AddCommand(show.NewCmdShow(f, nil))
	cmd.AddCommand(set.NewCmdSet(f, nil))

	return cmd
}
