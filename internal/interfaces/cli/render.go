package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"mojoscan.dev/cli/internal/core/domain"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	selectStyle = lipgloss.NewStyle().Background(lipgloss.Color("240"))
)

// renderGoalTable renders one row per goal of pd
func renderGoalTable(pd *domain.PluginDescriptor) string {
	rows := []string{headerStyle.Render(fmt.Sprintf("%-24s │ %-22s │ %-6s │ %-16s │ %s",
		"GOAL", "PHASE", "PARAMS", "SOURCE", "IMPLEMENTATION"))}
	for _, md := range pd.Mojos {
		phase := md.Phase
		if phase == "" {
			phase = "-"
		}
		row := fmt.Sprintf("%-24s │ %-22s │ %-6d │ %-16s │ %s",
			truncateString(md.Goal, 24),
			truncateString(phase, 22),
			len(md.Parameters),
			truncateString(md.Source, 16),
			md.Implementation,
		)
		if md.Deprecated != nil {
			row = warnStyle.Render(row)
		}
		rows = append(rows, row)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderParameters renders the parameters and requirements of md
func renderParameters(md *domain.MojoDescriptor) string {
	if len(md.Parameters) == 0 && len(md.Requirements) == 0 {
		return dimStyle.Render("  no parameters")
	}
	rows := []string{headerStyle.Render(fmt.Sprintf("  %-24s │ %-28s │ %-8s │ %s", "PARAMETER", "TYPE", "FLAGS", "VALUE"))}
	for _, p := range md.Parameters {
		var flags []string
		if p.Required {
			flags = append(flags, "req")
		}
		if !p.Editable {
			flags = append(flags, "ro")
		}
		value := p.Expression
		if p.DefaultValue != "" {
			value = strings.TrimSpace(value + " = " + p.DefaultValue)
		}
		if p.Requirement != nil {
			value = "component " + p.Requirement.Role
			if p.Requirement.RoleHint != "" {
				value += "#" + p.Requirement.RoleHint
			}
		}
		rows = append(rows, fmt.Sprintf("  %-24s │ %-28s │ %-8s │ %s",
			truncateString(p.Name, 24), truncateString(p.Type, 28), strings.Join(flags, ","), truncateString(value, 60)))
	}
	for _, r := range md.Requirements {
		rows = append(rows, dimStyle.Render(fmt.Sprintf("  %-24s │ %-28s │ %-8s │ %s",
			orDash(r.FieldName), truncateString(r.Role, 28), "comp", orDash(r.RoleHint))))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func printStep(w io.Writer, ok bool, format string, args ...interface{}) {
	mark := okStyle.Render("✅")
	if !ok {
		mark = errStyle.Render("❌")
	}
	fmt.Fprintf(w, "%s %s\n", mark, fmt.Sprintf(format, args...))
}

// truncateString truncates a string to the specified length
func truncateString(s string, length int) string {
	if len(s) <= length {
		return s
	}
	if length <= 3 {
		return s[:length]
	}
	return s[:length-3] + "..."
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
