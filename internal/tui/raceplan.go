package tui

import (
	"fmt"
	"strings"

	"cycling-fitness/internal/service"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// RacePlanModel is the race plan screen model
type RacePlanModel struct {
	queryService *service.QueryService
	units        Units
	data         *service.RacePlanData
	viewport     viewport.Model
	loading      bool
	err          error
	width        int
	height       int
	ready        bool
}

// NewRacePlanModel creates a new race plan model
func NewRacePlanModel(qs *service.QueryService, units Units, width, height int) RacePlanModel {
	m := RacePlanModel{
		queryService: qs,
		units:        units,
		loading:      true,
		width:        width,
		height:       height,
	}

	if width > 0 && height > 0 {
		m.viewport = viewport.New(width, height-6)
		m.ready = true
	}

	return m
}

// Init initializes the race plan screen
func (m RacePlanModel) Init() tea.Cmd {
	return m.loadPlan
}

type racePlanLoadedMsg struct {
	data *service.RacePlanData
	err  error
}

func (m RacePlanModel) loadPlan() tea.Msg {
	data, err := m.queryService.GetRacePlan()
	return racePlanLoadedMsg{data: data, err: err}
}

// Update handles messages
func (m RacePlanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case racePlanLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.data = msg.data
		if m.ready {
			m.viewport.SetContent(m.renderContent())
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-6)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 6
		}
		if m.data != nil {
			m.viewport.SetContent(m.renderContent())
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadPlan
		}
	}

	// Handle viewport scrolling
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the race plan screen
func (m RacePlanModel) View() string {
	if m.loading {
		return "\n  Loading race plan..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	footer := statusStyle.Render("  j/k or arrows: scroll  r: refresh")

	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), footer)
}

func (m RacePlanModel) renderContent() string {
	if m.data == nil {
		return "\n  No race configured."
	}

	var sections []string

	sections = append(sections, "")
	title := m.data.RaceName
	if title == "" {
		title = "Race Plan"
	}
	sections = append(sections, cardTitleStyle.Render(fmt.Sprintf("%s - %s, %s",
		title, m.units.FormatDistance(m.data.DistanceKM), m.data.RaceDate.Format("Jan 2, 2006"))))
	sections = append(sections, "")

	sections = append(sections, m.renderPowerTargets())
	sections = append(sections, m.renderScenarioTable())
	if len(m.data.RestStops) > 0 {
		sections = append(sections, m.renderRestStops())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m RacePlanModel) renderPowerTargets() string {
	var lines []string

	lines = append(lines, m.sectionHeader("Power Targets"))
	lines = append(lines, "  "+RenderMetric("Race FTP", fmt.Sprintf("%.0f W", m.data.RaceFTP)))
	lines = append(lines, "  "+RenderMetric("Target IF", fmt.Sprintf("%.2f", m.data.TargetIF)))
	lines = append(lines, "  "+RenderMetric("Normalized power", fmt.Sprintf("%.0f W", m.data.TargetNP)))
	lines = append(lines, "  "+RenderMetric("Average power", fmt.Sprintf("%.0f W", m.data.TargetAvgPower)))
	lines = append(lines, "  "+RenderMetric("Estimated TSS", fmt.Sprintf("%.0f", m.data.EstimatedTSS)))
	lines = append(lines, "")

	return strings.Join(lines, "\n")
}

func (m RacePlanModel) renderScenarioTable() string {
	var lines []string

	lines = append(lines, m.sectionHeader("Finish Time Scenarios"))

	header := fmt.Sprintf("  %-28s  %6s  %9s  %9s  %9s",
		"Scenario", "CdA", "Speed", "Riding", "Total")
	lines = append(lines, tableHeaderStyle.Render(header))

	for i, s := range m.data.Scenarios {
		row := fmt.Sprintf("  %-28s  %6.3f  %9s  %9s  %9s",
			s.Name,
			s.CdA,
			m.units.FormatSpeed(s.SpeedKPH),
			m.units.FormatHours(s.RideHours),
			m.units.FormatHours(s.TotalHours),
		)
		// The configured drafting scenario is the primary plan
		if i == 2 {
			lines = append(lines, successStyle.Render(row))
		} else {
			lines = append(lines, row)
		}
	}

	lines = append(lines, "")
	lines = append(lines, statusStyle.Render(fmt.Sprintf("  Total includes %s of planned stops",
		m.units.FormatHours(m.data.StopBudgetHours))))
	lines = append(lines, "")

	return strings.Join(lines, "\n")
}

func (m RacePlanModel) renderRestStops() string {
	var lines []string

	lines = append(lines, m.sectionHeader("Rest Stop Schedule"))

	header := fmt.Sprintf("  %-16s  %9s  %10s  %6s",
		"Stop", "Distance", "Arrival", "Pause")
	lines = append(lines, tableHeaderStyle.Render(header))

	for _, stop := range m.data.RestStops {
		lines = append(lines, fmt.Sprintf("  %-16s  %9s  %10s  %4.0fm",
			stop.Name,
			m.units.FormatDistance(stop.KM),
			"+"+m.units.FormatHours(stop.ElapsedHours),
			stop.StopMin,
		))
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (m RacePlanModel) sectionHeader(title string) string {
	pad := 50 - len(title) - 4
	if pad < 0 {
		pad = 0
	}
	style := lipgloss.NewStyle().Bold(true).Foreground(secondaryColor)
	return style.Render(fmt.Sprintf("── %s %s", title, strings.Repeat("─", pad)))
}
