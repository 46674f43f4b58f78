package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/workflow"
)

// Dashboard panel indices.
const (
	panelStatuses = iota
	panelProgress
	panelMetrics
	panelCount
)

type dashboardModel struct {
	activePanel int
	width       int
	height      int

	// Data.
	statusOrder  []string
	statusCounts map[string]int
	progressRows []progressRow
	metricsData  *metricsSnapshot

	// State.
	loading bool
	err     error
}

type progressRow struct {
	id         string
	title      string
	status     string
	percentage int
}

type metricsSnapshot struct {
	tasksCreated   int
	tasksCompleted int
	autoProgressed int
	eventCount     int
}

// dataLoadedMsg carries loaded data back to the model.
type dataLoadedMsg struct {
	statusOrder  []string
	statusCounts map[string]int
	progressRows []progressRow
	metrics      *metricsSnapshot
	err          error
}

// Style definitions.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				Padding(1, 2)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			MarginBottom(1)

	stageNotStarted = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	stageInProgress = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	stageTest       = lipgloss.NewStyle().Foreground(lipgloss.Color("141"))
	stageDone       = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func newDashboardModel() dashboardModel {
	return dashboardModel{
		activePanel:  panelStatuses,
		loading:      true,
		statusCounts: make(map[string]int),
	}
}

func (m dashboardModel) Init() tea.Cmd {
	return loadData
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.activePanel = (m.activePanel + 1) % panelCount
			return m, nil
		case "shift+tab":
			m.activePanel = (m.activePanel - 1 + panelCount) % panelCount
			return m, nil
		case "r":
			m.loading = true
			return m, loadData
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case dataLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.statusOrder = msg.statusOrder
		m.statusCounts = msg.statusCounts
		m.progressRows = msg.progressRows
		m.metricsData = msg.metrics
		m.err = nil
		return m, nil
	}

	return m, nil
}

func (m dashboardModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	title := titleStyle.Render(" taskdeck dashboard ")
	help := helpStyle.Render("tab: switch panel | r: refresh | q: quit")

	if m.loading {
		return fmt.Sprintf("%s\n\n  Loading data...\n\n%s", title, help)
	}

	if m.err != nil {
		return fmt.Sprintf("%s\n\n  Error: %s\n\n%s", title, m.err, help)
	}

	statusesPanel := m.renderStatusesPanel()
	progressPanel := m.renderProgressPanel()
	metricsPanel := m.renderMetricsPanel()

	availableWidth := m.width - 2

	var body string
	if availableWidth > 120 {
		// Horizontal layout: three columns.
		colWidth := availableWidth / 3
		statusesPanel = m.applyPanelStyle(panelStatuses, statusesPanel, colWidth-4)
		progressPanel = m.applyPanelStyle(panelProgress, progressPanel, colWidth-4)
		metricsPanel = m.applyPanelStyle(panelMetrics, metricsPanel, colWidth-4)
		body = lipgloss.JoinHorizontal(lipgloss.Top, statusesPanel, progressPanel, metricsPanel)
	} else {
		// Vertical layout: stacked.
		panelWidth := availableWidth - 4
		if panelWidth < 20 {
			panelWidth = 20
		}
		statusesPanel = m.applyPanelStyle(panelStatuses, statusesPanel, panelWidth)
		progressPanel = m.applyPanelStyle(panelProgress, progressPanel, panelWidth)
		metricsPanel = m.applyPanelStyle(panelMetrics, metricsPanel, panelWidth)
		body = lipgloss.JoinVertical(lipgloss.Left, statusesPanel, progressPanel, metricsPanel)
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s", title, body, help)
}

func (m dashboardModel) applyPanelStyle(panel int, content string, width int) string {
	style := panelStyle
	if m.activePanel == panel {
		style = activePanelStyle
	}
	return style.Width(width).Render(content)
}

func (m dashboardModel) renderStatusesPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Statuses"))
	b.WriteString("\n")

	if len(m.statusCounts) == 0 {
		b.WriteString("  No tasks found.")
		return b.String()
	}

	for _, label := range m.statusOrder {
		count, ok := m.statusCounts[label]
		if !ok || count == 0 {
			continue
		}
		line := fmt.Sprintf("  %-16s %d", label, count)
		b.WriteString(styleForStage(label).Render(line))
		b.WriteString("\n")
	}

	total := 0
	for _, c := range m.statusCounts {
		total += c
	}
	b.WriteString(fmt.Sprintf("\n  Total: %d", total))

	return b.String()
}

func (m dashboardModel) renderProgressPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Checklist progress"))
	b.WriteString("\n")

	if len(m.progressRows) == 0 {
		b.WriteString("  No open tasks with checklists.")
		return b.String()
	}

	for _, row := range m.progressRows {
		bar := renderBar(row.percentage, 10)
		b.WriteString(fmt.Sprintf("  %-12s %s %3d%%  %s\n", row.id, bar, row.percentage, row.title))
	}

	return b.String()
}

func (m dashboardModel) renderMetricsPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Metrics (7d)"))
	b.WriteString("\n")

	if m.metricsData == nil {
		b.WriteString("  No metrics available.")
		return b.String()
	}

	md := m.metricsData
	lines := []struct {
		label string
		value int
	}{
		{"Events", md.eventCount},
		{"Created", md.tasksCreated},
		{"Completed", md.tasksCompleted},
		{"Auto-advanced", md.autoProgressed},
	}

	for _, l := range lines {
		b.WriteString(fmt.Sprintf("  %-14s %d\n", l.label, l.value))
	}

	return b.String()
}

// renderBar draws a fixed-width completion bar.
func renderBar(percentage, width int) string {
	filled := percentage * width / 100
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

func styleForStage(label string) lipgloss.Style {
	if StatusSvc == nil {
		return lipgloss.NewStyle()
	}
	switch StatusSvc.StatusKey(label) {
	case workflow.KeyNotStarted:
		return stageNotStarted
	case workflow.KeyInProgress:
		return stageInProgress
	case workflow.KeyTest:
		return stageTest
	case workflow.KeyDone:
		return stageDone
	default:
		return lipgloss.NewStyle()
	}
}

func loadData() tea.Msg {
	result := dataLoadedMsg{
		statusCounts: make(map[string]int),
	}

	if StatusSvc != nil {
		result.statusOrder = StatusSvc.KnownLabels()
	}

	if TaskProvider != nil {
		tasks, err := TaskProvider.ListTasks("")
		if err != nil {
			result.err = fmt.Errorf("loading tasks: %w", err)
			return result
		}
		doneLabel := ""
		if StatusSvc != nil {
			doneLabel = StatusSvc.Label(workflow.KeyDone)
		}
		for _, t := range tasks {
			result.statusCounts[t.Status]++
			if len(t.Todos) == 0 || t.Status == doneLabel {
				continue
			}
			stats := workflow.ComputeTodoStats(t.Todos)
			result.progressRows = append(result.progressRows, progressRow{
				id:         t.ID,
				title:      t.Title,
				status:     t.Status,
				percentage: stats.Percentage,
			})
		}
	}

	if MetricsCalc != nil {
		since := time.Now().UTC().AddDate(0, 0, -7)
		metrics, err := MetricsCalc.Calculate(since)
		if err != nil {
			result.err = fmt.Errorf("loading metrics: %w", err)
			return result
		}
		result.metrics = &metricsSnapshot{
			tasksCreated:   metrics.TasksCreated,
			tasksCompleted: metrics.TasksCompleted,
			autoProgressed: metrics.AutoProgressed,
			eventCount:     metrics.EventCount,
		}
	}

	return result
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Interactive TUI dashboard for task status and metrics",
	Long: `Launch an interactive terminal dashboard showing task counts per
workflow status, checklist progress for open tasks, and event metrics.

Navigate between panels with Tab, refresh with r, quit with q.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskProvider == nil {
			return fmt.Errorf("task provider not initialized")
		}
		p := tea.NewProgram(newDashboardModel(), tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
