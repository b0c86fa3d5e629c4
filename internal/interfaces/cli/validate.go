package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"mojoscan.dev/cli/internal/infrastructure/descriptor"
)

// NewValidateCommand creates the validate command
func NewValidateCommand(container *CLIContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [plugin.xml]",
		Short: "Check a generated plugin descriptor",
		Long: `Read a plugin descriptor and check it for problems a build tool
would reject: missing coordinates, goals without implementation, unknown
phases and malformed version requirements.

Without an argument the descriptor below the configured output directory
(or target/classes) is checked.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, container.Runtime(), args)
		},
	}
}

// descriptorPath returns the plugin.xml named by args or the default location
func descriptorPath(rt *Runtime, args []string) string {
	if len(args) > 0 {
		p := args[0]
		if !filepath.IsAbs(p) {
			p = filepath.Join(rt.WorkDir, p)
		}
		return p
	}
	dir := rt.Config.OutputDirectory
	if dir == "" {
		dir = rt.Config.Project.Classes
	}
	if dir == "" {
		dir = defaultClasses
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(rt.WorkDir, dir)
	}
	return filepath.Join(dir, filepath.FromSlash(descriptor.DescriptorPath))
}

// runValidate handles the validation process
func runValidate(cmd *cobra.Command, rt *Runtime, args []string) error {
	out := cmd.OutOrStdout()
	path := descriptorPath(rt, args)
	fmt.Fprintln(out, titleStyle.Render("🔍 Plugin descriptor validation"))
	fmt.Fprintln(out, dimStyle.Render(path))

	pd, problems, err := rt.Service.Inspect(path)
	if err != nil {
		printStep(out, false, "Reading descriptor")
		return err
	}
	printStep(out, true, "Descriptor parsed: %s:%s with %d goal(s)", pd.PluginKey(), pd.Version, len(pd.Mojos))

	if len(problems) > 0 {
		for _, p := range problems {
			printStep(out, false, "%s", p)
		}
		return fmt.Errorf("%d problem(s) found in %s", len(problems), path)
	}

	printStep(out, true, "No problems found")
	return nil
}
