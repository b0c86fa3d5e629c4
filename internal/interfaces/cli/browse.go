package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"mojoscan.dev/cli/internal/core/domain"
)

// NewBrowseCommand creates the browse command
func NewBrowseCommand(container *CLIContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "browse [plugin.xml]",
		Short: "Browse the goals of a plugin descriptor",
		Long: `Open an interactive view of a plugin descriptor: the goal list on
top and the parameters of the selected goal below.

Controls: [↑↓] Navigate | [Enter] Toggle parameters | [r] Reload | [q] Quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := container.Runtime()
			path := descriptorPath(rt, args)
			load := func() (*domain.PluginDescriptor, error) {
				pd, _, err := rt.Service.Inspect(path)
				return pd, err
			}

			program := tea.NewProgram(newBrowseModel(path, load), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("browser failed: %w", err)
			}
			return nil
		},
	}
}

// browseModel holds the state of the goal browser
type browseModel struct {
	path         string
	load         func() (*domain.PluginDescriptor, error)
	plugin       *domain.PluginDescriptor
	selectedRow  int
	showDetail   bool
	windowWidth  int
	windowHeight int
	err          error
}

func newBrowseModel(path string, load func() (*domain.PluginDescriptor, error)) browseModel {
	return browseModel{path: path, load: load, showDetail: true}
}

// descriptorLoadedMsg is sent when the descriptor is read
type descriptorLoadedMsg struct {
	plugin *domain.PluginDescriptor
}

// errMsg is sent when an error occurs
type errMsg struct {
	err error
}

func (m browseModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		pd, err := m.load()
		if err != nil {
			return errMsg{err: err}
		}
		pd.SortMojos()
		return descriptorLoadedMsg{plugin: pd}
	}
}

// Init implements the Bubble Tea init method
func (m browseModel) Init() tea.Cmd {
	return m.loadCmd()
}

// Update implements the Bubble Tea update method
func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "up", "k":
			if m.selectedRow > 0 {
				m.selectedRow--
			}
			return m, nil

		case "down", "j":
			if m.plugin != nil && m.selectedRow < len(m.plugin.Mojos)-1 {
				m.selectedRow++
			}
			return m, nil

		case "enter":
			m.showDetail = !m.showDetail
			return m, nil

		case "r":
			return m, m.loadCmd()
		}

	case descriptorLoadedMsg:
		m.plugin = msg.plugin
		m.err = nil
		if m.selectedRow >= len(m.plugin.Mojos) {
			m.selectedRow = 0
		}
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

// View implements the Bubble Tea view method
func (m browseModel) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nPress 'q' to quit", m.err)
	}
	if m.plugin == nil {
		return dimStyle.Render("Loading " + m.path + "...")
	}

	parts := []string{m.renderHeader(), m.renderGoals()}
	if m.showDetail && len(m.plugin.Mojos) > 0 {
		parts = append(parts, m.renderDetail())
	}
	parts = append(parts, m.renderFooter())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m browseModel) renderHeader() string {
	pd := m.plugin
	title := titleStyle.Render(fmt.Sprintf("%s:%s", pd.PluginKey(), pd.Version))
	info := fmt.Sprintf("prefix %s | %d goal(s)", pd.GoalPrefix, len(pd.Mojos))
	if pd.RequiredMavenVersion != "" {
		info += " | maven " + pd.RequiredMavenVersion
	}
	if pd.RequiredJavaVersion != "" {
		info += " | java " + pd.RequiredJavaVersion
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Left, title, "  ", info),
		dimStyle.Render(m.path))
}

func (m browseModel) renderGoals() string {
	if len(m.plugin.Mojos) == 0 {
		return dimStyle.Render("\n  No goals in this descriptor.\n")
	}
	rows := []string{headerStyle.Render(fmt.Sprintf("%-24s │ %-22s │ %s", "GOAL", "PHASE", "DESCRIPTION"))}
	for i, md := range m.plugin.Mojos {
		row := fmt.Sprintf("%-24s │ %-22s │ %s",
			truncateString(md.Goal, 24), truncateString(orDash(md.Phase), 22), truncateString(md.Description, 50))
		if i == m.selectedRow {
			row = selectStyle.Render(row)
		}
		rows = append(rows, row)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m browseModel) renderDetail() string {
	md := m.plugin.Mojos[m.selectedRow]
	lines := []string{"", titleStyle.Render(md.Goal) + "  " + dimStyle.Render(md.Implementation)}
	if md.Deprecated != nil {
		lines = append(lines, warnStyle.Render("deprecated: "+*md.Deprecated))
	}
	if md.ExecutePhase != "" || md.ExecuteGoal != "" {
		lines = append(lines, fmt.Sprintf("forks %s%s", md.ExecutePhase, md.ExecuteGoal))
	}
	lines = append(lines, renderParameters(md))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m browseModel) renderFooter() string {
	return dimStyle.Render("Controls: [↑↓] Navigate | [Enter] Toggle parameters | [r] Reload | [q] Quit")
}
