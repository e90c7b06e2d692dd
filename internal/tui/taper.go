package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cycling-fitness/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TaperModel is the race-day form projection screen model
type TaperModel struct {
	queryService *service.QueryService
	data         *service.TaperData
	loading      bool
	err          error
}

// NewTaperModel creates a new taper model
func NewTaperModel(qs *service.QueryService) TaperModel {
	return TaperModel{
		queryService: qs,
		loading:      true,
	}
}

// Init initializes the taper screen
func (m TaperModel) Init() tea.Cmd {
	return m.loadData
}

type taperLoadedMsg struct {
	data *service.TaperData
	err  error
}

func (m TaperModel) loadData() tea.Msg {
	data, err := m.queryService.GetTaperData(time.Now())
	return taperLoadedMsg{data: data, err: err}
}

// Update handles messages
func (m TaperModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case taperLoadedMsg:
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

// View renders the taper screen
func (m TaperModel) View() string {
	if m.loading {
		return "\n  Projecting race-day form..."
	}

	if errors.Is(m.err, service.ErrNoTrainingData) {
		return "\n  No training data yet. Press 'i' to import a training file."
	}
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	var sections []string

	currentCard := m.renderCurrentCard()
	projectedCard := m.renderProjectedCard()
	topRow := lipgloss.JoinHorizontal(lipgloss.Top, currentCard, "  ", projectedCard)
	sections = append(sections, topRow)

	sections = append(sections, m.renderReadiness())

	help := statusStyle.Render("Press 'r' to refresh")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m TaperModel) renderCurrentCard() string {
	title := cardTitleStyle.Render("Today")

	lines := []string{
		RenderMetric("Phase", m.data.Phase),
		RenderMetric("Days to race", fmt.Sprintf("%d (%.1f weeks)", m.data.DaysToRace, m.data.WeeksToRace)),
		"",
		RenderMetric("Fitness (CTL)", fmt.Sprintf("%.1f", m.data.CurrentCTL)),
		RenderMetric("Fatigue (ATL)", fmt.Sprintf("%.1f", m.data.CurrentATL)),
		RenderMetric("Form (TSB)", fmt.Sprintf("%+.1f", m.data.CurrentTSB)),
		"",
		tsbStyle(m.data.CurrentTSB).Render(m.data.CurrentForm),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(42).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m TaperModel) renderProjectedCard() string {
	raceDay := m.data.RaceDate.Format("Jan 2")
	title := cardTitleStyle.Render("Race Day (" + raceDay + ")")

	lines := []string{
		RenderMetric("Fitness (CTL)", fmt.Sprintf("%.1f", m.data.ProjectedCTL)),
		RenderMetric("Fatigue (ATL)", fmt.Sprintf("%.1f", m.data.ProjectedATL)),
		RenderMetric("Form (TSB)", fmt.Sprintf("%+.1f", m.data.ProjectedTSB)),
		"",
		tsbStyle(m.data.ProjectedTSB).Render(m.data.ProjectedForm),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(42).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

// renderReadiness shows where the projected TSB sits in the target band
func (m TaperModel) renderReadiness() string {
	title := cardTitleStyle.Render("Race Readiness")

	var lines []string

	band := fmt.Sprintf("Target form band: %+.0f to %+.0f TSB",
		m.data.TargetTSBMin, m.data.TargetTSBMax)
	lines = append(lines, neutralStyle.Render(band))
	lines = append(lines, "")

	// Map TSB onto a -30..+40 gauge
	const gaugeMin, gaugeMax = -30.0, 40.0
	pct := (m.data.ProjectedTSB - gaugeMin) / (gaugeMax - gaugeMin)
	lines = append(lines, RenderProgressBar(pct, 50))
	lines = append(lines, "")

	if m.data.OnTrack {
		lines = append(lines, successStyle.Render(
			fmt.Sprintf("On track: projected TSB %+.1f lands in the band.", m.data.ProjectedTSB)))
	} else if m.data.ProjectedTSB < m.data.TargetTSBMin {
		lines = append(lines, warningStyle.Render(
			fmt.Sprintf("Projected TSB %+.1f is below the band - consider easing the remaining load.",
				m.data.ProjectedTSB)))
	} else {
		lines = append(lines, warningStyle.Render(
			fmt.Sprintf("Projected TSB %+.1f is above the band - fitness may fade before race day.",
				m.data.ProjectedTSB)))
	}

	content := strings.Join(lines, "\n")
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}
