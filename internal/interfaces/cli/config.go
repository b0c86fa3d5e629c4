package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewConfigCommand creates the config command
func NewConfigCommand(container *CLIContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the resolved configuration",
		Long: `Show every configuration value together with where it came from:
a command-line flag, a MOJOSCAN_* environment variable, a .env file, the
YAML config file or the built-in default.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := container.Runtime()
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, titleStyle.Render("Current Configuration:"))
			if rt.ConfigFile != "" {
				fmt.Fprintln(out, dimStyle.Render("config file: "+rt.ConfigFile))
			}
			for _, key := range rt.Snapshot.Keys() {
				e := rt.Snapshot[key]
				source := e.Source
				if e.SourcePath != "" {
					source += " " + e.SourcePath
				}
				fmt.Fprintf(out, "%-32s %-24v %s\n", key, e.Value, dimStyle.Render("("+source+")"))
			}
			return nil
		},
	}
}
