package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// NewScanCommand creates the scan command
func NewScanCommand(container *CLIContainer) *cobra.Command {
	pf := &ProjectFlags{}

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "List the annotated classes of a project",
		Long: `Scan the class directories and dependencies of a project and list
every class carrying goal, parameter, component or execute annotations,
without assembling goals.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := container.Runtime()
			project, err := BuildRequest(rt, pf)
			if err != nil {
				return err
			}
			res, err := rt.Service.Scan(cmd.Context(), project)
			if err != nil {
				return err
			}

			names := make([]string, 0, len(res.Classes))
			for name := range res.Classes {
				names = append(names, name)
			}
			sort.Strings(names)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%-48s │ %-16s │ %-6s │ %-5s │ %s",
				"CLASS", "GOAL", "PARAMS", "COMPS", "PARENT")))
			for _, name := range names {
				c := res.Classes[name]
				goal := "-"
				if c.Mojo != nil {
					goal = c.Mojo.Name
				}
				fmt.Fprintf(out, "%-48s │ %-16s │ %-6d │ %-5d │ %s\n",
					truncateString(name, 48), truncateString(goal, 16), len(c.Parameters), len(c.Components), orDash(res.Hierarchy[name]))
			}
			fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("%d annotated classes, %d classes read", len(res.Classes), len(res.Hierarchy))))
			if res.MavenAPIVersion != "" {
				fmt.Fprintln(out, dimStyle.Render("Maven API "+res.MavenAPIVersion))
			}
			return nil
		},
	}

	addProjectFlags(cmd, pf)
	addScanFlags(cmd)
	return cmd
}
