package tui

import (
	"fmt"
	"time"

	"cycling-fitness/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// DashboardModel is the dashboard screen model
type DashboardModel struct {
	queryService *service.QueryService
	data         *service.DashboardData
	loading      bool
	err          error
}

// NewDashboardModel creates a new dashboard model
func NewDashboardModel(qs *service.QueryService) DashboardModel {
	return DashboardModel{
		queryService: qs,
		loading:      true,
	}
}

// Init initializes the dashboard
func (m DashboardModel) Init() tea.Cmd {
	return m.loadData
}

func (m DashboardModel) loadData() tea.Msg {
	data, err := m.queryService.GetDashboardData(time.Now())
	if err != nil {
		return dashboardDataMsg{err: err}
	}
	return dashboardDataMsg{data: data}
}

type dashboardDataMsg struct {
	data *service.DashboardData
	err  error
}

// Update handles messages
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		m.loading = false
		m.err = msg.err
		m.data = msg.data
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadData
		}
	}
	return m, nil
}

// View renders the dashboard
func (m DashboardModel) View() string {
	if m.loading {
		return "\n  Loading dashboard..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if m.data == nil || !m.data.HasLoadData {
		return "\n  No training data yet. Press 'i' to import a training file."
	}

	var sections []string

	// Top row: Current Form and This Week side by side
	formCard := m.renderFormCard()
	weekCard := m.renderWeekCard()
	topRow := lipgloss.JoinHorizontal(lipgloss.Top, formCard, "  ", weekCard)
	sections = append(sections, topRow)

	if len(m.data.CTLHistory) > 2 {
		sections = append(sections, m.renderFitnessChart())
		sections = append(sections, m.renderFormChart())
	}

	sections = append(sections, m.renderRecentWorkouts())

	help := statusStyle.Render("Press 'r' to refresh, 'i' to import, '2' for workouts list")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m DashboardModel) renderFormCard() string {
	title := cardTitleStyle.Render("Current Form")

	lines := []string{
		RenderMetric("Fitness (CTL)", fmt.Sprintf("%.1f", m.data.CurrentFitness)),
		RenderMetric("Fatigue (ATL)", fmt.Sprintf("%.1f", m.data.CurrentFatigue)),
		RenderMetric("Form (TSB)", fmt.Sprintf("%+.1f", m.data.CurrentForm)),
	}

	if !m.data.StartDate.IsZero() {
		growth := m.data.CurrentFitness - m.data.StartFitness
		lines = append(lines, RenderMetric("Growth",
			fmt.Sprintf("%+.1f since %s", growth, m.data.StartDate.Format("Jan 2006"))))
	}

	lines = append(lines,
		"",
		tsbStyle(m.data.CurrentForm).Render(m.data.FormDescription),
	)

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(38).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) renderWeekCard() string {
	title := cardTitleStyle.Render("This Week")

	lines := []string{
		RenderMetric("Training load", fmt.Sprintf("%.0f TSS", m.data.WeekTSS)),
		RenderMetric("Workouts done", fmt.Sprintf("%d", m.data.WeekWorkouts)),
	}

	if m.data.RaceName != "" {
		lines = append(lines, RenderMetric("Days to race", fmt.Sprintf("%d", m.data.DaysToRace)))
	}

	if m.data.LatestScored != nil && m.data.LatestScored.QualityScore != nil {
		lines = append(lines, "")
		lines = append(lines, RenderMetric("Last quality",
			fmt.Sprintf("%.0f/100 (%s)", *m.data.LatestScored.QualityScore, m.data.LatestScored.Title)))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(44).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) renderFitnessChart() string {
	title := cardTitleStyle.Render("Fitness (CTL) - last 6 weeks")

	graph := asciigraph.Plot(m.data.CTLHistory,
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Precision(1),
	)

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, graph))
}

func (m DashboardModel) renderFormChart() string {
	title := cardTitleStyle.Render("Form (TSB) - last 6 weeks")

	graph := asciigraph.Plot(m.data.TSBHistory,
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Precision(1),
	)

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, graph))
}

func (m DashboardModel) renderRecentWorkouts() string {
	title := cardTitleStyle.Render("Recent Workouts")

	if len(m.data.RecentWorkouts) == 0 {
		return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, "No workouts yet"))
	}

	header := tableHeaderStyle.Render(fmt.Sprintf("%-10s  %-24s  %8s  %6s  %7s",
		"Date", "Title", "TSS", "IF", "Quality"))

	rows := []string{header}
	for i, w := range m.data.RecentWorkouts {
		if i >= 5 {
			break
		}

		tss := "-"
		if w.ActualTSS != nil {
			tss = fmt.Sprintf("%.0f", *w.ActualTSS)
		} else if w.PlannedTSS != nil {
			tss = fmt.Sprintf("(%.0f)", *w.PlannedTSS)
		}

		intensity := "-"
		if w.ActualIF != nil {
			intensity = fmt.Sprintf("%.2f", *w.ActualIF)
		}

		quality := "-"
		if w.QualityScore != nil {
			quality = fmt.Sprintf("%.0f", *w.QualityScore)
		}

		row := tableRowStyle.Render(fmt.Sprintf("%-10s  %-24s  %8s  %6s  %7s",
			w.Date.Format("Jan 02"),
			truncate(w.Title, 24),
			tss,
			intensity,
			quality,
		))
		rows = append(rows, row)
	}

	table := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, table))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
