package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpModel is the help screen model
type HelpModel struct{}

// NewHelpModel creates a new help model
func NewHelpModel() HelpModel {
	return HelpModel{}
}

// Init initializes the help screen
func (m HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

// View renders the help screen
func (m HelpModel) View() string {
	var sections []string

	title := cardTitleStyle.Render("Keyboard Shortcuts")
	sections = append(sections, title)

	navSection := m.renderSection("Navigation", []keyHelp{
		{"1", "Dashboard"},
		{"2", "Workout history"},
		{"3", "Race plan"},
		{"4", "Taper projection"},
		{"5", "FTP progression"},
		{"6 or i", "Import screen"},
		{"?", "Help (this screen)"},
		{"q", "Quit"},
		{"esc", "Close help"},
	})
	sections = append(sections, navSection)

	screenSection := m.renderSection("All Screens", []keyHelp{
		{"r", "Refresh data"},
		{"j / k", "Scroll (where the screen scrolls)"},
	})
	sections = append(sections, screenSection)

	importSection := m.renderSection("Import Screen", []keyHelp{
		{"e", "Edit the file path"},
		{"enter", "Start the import"},
	})
	sections = append(sections, importSection)

	metricsSection := m.renderMetricsHelp()
	sections = append(sections, metricsSection)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

type keyHelp struct {
	key  string
	desc string
}

func (m HelpModel) renderSection(title string, keys []keyHelp) string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(secondaryColor).Render(title))

	for _, k := range keys {
		lines = append(lines, "  "+RenderKeyHelp(k.key, k.desc))
	}

	return strings.Join(lines, "\n")
}

func (m HelpModel) renderMetricsHelp() string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(secondaryColor).Render("Metrics Explained"))
	lines = append(lines, "")

	metrics := []struct {
		name string
		desc string
	}{
		{"TSS", "Training stress score - one workout's load on the body."},
		{"IF (Intensity Factor)", "Workout intensity relative to FTP. 1.0 = threshold."},
		{"CTL (Fitness)", "Chronic training load - 42 day weighted avg of daily TSS."},
		{"ATL (Fatigue)", "Acute training load - 7 day weighted avg of daily TSS."},
		{"TSB (Form)", "Training stress balance = CTL - ATL. Positive = fresh."},
		{"Quality", "How close a workout landed to its plan, 0-100."},
		{"FTP", "Functional threshold power - the pacing model's anchor."},
	}

	for _, metric := range metrics {
		lines = append(lines, "  "+helpKeyStyle.Render(metric.name))
		lines = append(lines, "  "+helpDescStyle.Render(metric.desc))
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
