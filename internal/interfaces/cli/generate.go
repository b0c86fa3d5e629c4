package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"mojoscan.dev/cli/internal/application/services"
)

// NewGenerateCommand creates the generate command
func NewGenerateCommand(container *CLIContainer) *cobra.Command {
	pf := &ProjectFlags{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the plugin descriptor of a project",
		Long: `Extract the goals of a plugin project and write
META-INF/maven/plugin.xml and the help descriptor below the class
output directory.

Examples:
  mojoscan generate --group-id org.acme --artifact-id acme-maven-plugin --plugin-version 1.0
  mojoscan generate --dependency org.apache.maven:maven-plugin-api:3.9.6=lib/maven-plugin-api.jar
  mojoscan generate --extractor java-annotations --skip-descriptor`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := container.Runtime()
			project, err := BuildRequest(rt, pf)
			if err != nil {
				return err
			}

			res, err := rt.Service.Generate(cmd.Context(), services.GenerateRequest{
				Project:              project,
				Extractors:           rt.Config.Extractors,
				GoalPrefix:           rt.Config.GoalPrefix,
				RequiredMavenVersion: rt.Config.RequiredMavenVersion,
				RequiredJavaVersion:  rt.Config.RequiredJavaVersion,
				DescriptorDirectory:  rt.Config.OutputDirectory,
				SkipDescriptor:       rt.Config.SkipDescriptor,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			pd := res.Plugin
			fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%s (%s:%s)", pd.PluginKey(), pd.Version, pd.GoalPrefix)))
			fmt.Fprintln(out, renderGoalTable(pd))
			for _, c := range res.Summary.Counts {
				fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("%s: %d goal(s)", c.Extractor, c.Goals)))
			}
			for _, p := range res.Written {
				fmt.Fprintf(out, "Wrote %s\n", p)
			}
			return nil
		},
	}

	addProjectFlags(cmd, pf)
	addScanFlags(cmd)
	cmd.Flags().StringSlice("extractor", nil, "Extractor id to run (repeatable; default is all)")
	cmd.Flags().String("goal-prefix", "", "Goal prefix (default is derived from the artifact id)")
	cmd.Flags().Bool("skip-descriptor", false, "Extract goals without writing descriptors")
	cmd.Flags().String("required-maven-version", "", "Minimum build tool version")
	cmd.Flags().String("required-java-version", "", "Minimum Java version")
	cmd.Flags().String("output", "", "Directory receiving META-INF/maven (default is the class output directory)")

	return cmd
}
