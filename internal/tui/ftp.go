package tui

import (
	"errors"
	"fmt"
	"time"

	"cycling-fitness/internal/service"
	"cycling-fitness/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// FTPModel is the FTP progression screen model
type FTPModel struct {
	queryService *service.QueryService
	data         *service.FTPProjectionData
	loading      bool
	err          error
}

// NewFTPModel creates a new FTP model
func NewFTPModel(qs *service.QueryService) FTPModel {
	return FTPModel{
		queryService: qs,
		loading:      true,
	}
}

// Init initializes the FTP screen
func (m FTPModel) Init() tea.Cmd {
	return m.loadData
}

type ftpLoadedMsg struct {
	data *service.FTPProjectionData
	err  error
}

func (m FTPModel) loadData() tea.Msg {
	data, err := m.queryService.GetFTPProjection(time.Now())
	return ftpLoadedMsg{data: data, err: err}
}

// Update handles messages
func (m FTPModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ftpLoadedMsg:
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

// View renders the FTP screen
func (m FTPModel) View() string {
	if m.loading {
		return "\n  Loading FTP history..."
	}

	if errors.Is(m.err, store.ErrNoFTPHistory) {
		return "\n  No FTP tests recorded. Press 'i' to import a training file."
	}
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	var sections []string

	currentCard := m.renderCurrentCard()
	goalCard := m.renderGoalCard()
	topRow := lipgloss.JoinHorizontal(lipgloss.Top, currentCard, "  ", goalCard)
	sections = append(sections, topRow)

	if len(m.data.History) > 2 {
		sections = append(sections, m.renderHistoryChart())
	}
	sections = append(sections, m.renderHistoryTable())

	help := statusStyle.Render("Press 'r' to refresh")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m FTPModel) renderCurrentCard() string {
	title := cardTitleStyle.Render("Current FTP")

	lines := []string{
		RenderMetric("FTP", fmt.Sprintf("%.0f W", m.data.CurrentFTP)),
		RenderMetric("Tested", m.data.TestedOn.Format("Jan 2, 2006")),
	}

	if m.data.HasHistoricalRate {
		lines = append(lines, RenderMetric("Observed rate", fmt.Sprintf("%+.1f W/week", m.data.HistoricalWeeklyGain)))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(42).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m FTPModel) renderGoalCard() string {
	title := cardTitleStyle.Render("Goal")

	var lines []string
	if m.data.TargetFTP > 0 && !m.data.TargetDate.IsZero() {
		lines = append(lines, RenderMetric("Target", fmt.Sprintf("%.0f W by %s",
			m.data.TargetFTP, m.data.TargetDate.Format("Jan 2, 2006"))))
		lines = append(lines, RenderMetric("Required rate", fmt.Sprintf("%+.1f W/week", m.data.RequiredWeeklyGain)))

		if m.data.HasHistoricalRate {
			if m.data.HistoricalWeeklyGain >= m.data.RequiredWeeklyGain {
				lines = append(lines, "")
				lines = append(lines, successStyle.Render("Current progress meets the required rate."))
			} else {
				lines = append(lines, "")
				lines = append(lines, warningStyle.Render("Progress is slower than the goal requires."))
			}
		}
	} else {
		lines = append(lines, neutralStyle.Render("No FTP goal configured."))
	}

	if m.data.ProjectedAtRace > 0 {
		lines = append(lines, RenderMetric("At race day", fmt.Sprintf("%.0f W", m.data.ProjectedAtRace)))
	}
	if !m.data.NextTestDate.IsZero() {
		lines = append(lines, RenderMetric("At next test", fmt.Sprintf("%.0f W (%s)",
			m.data.ProjectedAtNextTest, m.data.NextTestDate.Format("Jan 2"))))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(52).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m FTPModel) renderHistoryChart() string {
	title := cardTitleStyle.Render("FTP Progression")

	values := make([]float64, len(m.data.History))
	for i, r := range m.data.History {
		values[i] = r.Watts
	}

	graph := asciigraph.Plot(values,
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Precision(0),
	)

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, graph))
}

func (m FTPModel) renderHistoryTable() string {
	title := cardTitleStyle.Render("Test History")

	header := tableHeaderStyle.Render(fmt.Sprintf("%-12s  %6s  %-10s  %-10s",
		"Date", "Watts", "Protocol", "Confidence"))

	rows := []string{header}
	// Newest first for reading
	for i := len(m.data.History) - 1; i >= 0; i-- {
		r := m.data.History[i]
		rows = append(rows, tableRowStyle.Render(fmt.Sprintf("%-12s  %6.0f  %-10s  %-10s",
			r.TestDate.Format("2006-01-02"),
			r.Watts,
			r.Protocol,
			r.Confidence,
		)))
	}

	table := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, table))
}
