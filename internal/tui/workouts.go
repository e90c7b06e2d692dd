package tui

import (
	"fmt"
	"strings"

	"cycling-fitness/internal/service"
	"cycling-fitness/internal/store"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// WorkoutsModel is the workouts list screen model
type WorkoutsModel struct {
	queryService *service.QueryService
	workouts     []store.Workout
	viewport     viewport.Model
	loading      bool
	err          error
	width        int
	height       int
	ready        bool
}

// NewWorkoutsModel creates a new workouts model
func NewWorkoutsModel(qs *service.QueryService, width, height int) WorkoutsModel {
	m := WorkoutsModel{
		queryService: qs,
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

// Init initializes the workouts screen
func (m WorkoutsModel) Init() tea.Cmd {
	return m.loadWorkouts
}

type workoutsLoadedMsg struct {
	workouts []store.Workout
	err      error
}

func (m WorkoutsModel) loadWorkouts() tea.Msg {
	workouts, err := m.queryService.GetWorkoutsList(service.WorkoutsListLimit)
	return workoutsLoadedMsg{workouts: workouts, err: err}
}

// Update handles messages
func (m WorkoutsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case workoutsLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.workouts = msg.workouts
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
		if m.workouts != nil {
			m.viewport.SetContent(m.renderContent())
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadWorkouts
		}
	}

	// Handle viewport scrolling
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the workouts screen
func (m WorkoutsModel) View() string {
	if m.loading {
		return "\n  Loading workouts..."
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

func (m WorkoutsModel) renderContent() string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, cardTitleStyle.Render("Workout History"))
	lines = append(lines, "")

	if len(m.workouts) == 0 {
		lines = append(lines, neutralStyle.Render("  No workouts yet. Press 'i' to import a training file."))
		return strings.Join(lines, "\n")
	}

	header := fmt.Sprintf("  %-10s  %-26s  %-10s  %9s  %9s  %7s  %7s",
		"Date", "Title", "Type", "Plan TSS", "Act TSS", "IF", "Quality")
	lines = append(lines, tableHeaderStyle.Render(header))

	for _, w := range m.workouts {
		lines = append(lines, m.formatRow(w))
	}

	return strings.Join(lines, "\n")
}

func (m WorkoutsModel) formatRow(w store.Workout) string {
	plannedTSS := "-"
	if w.PlannedTSS != nil {
		plannedTSS = fmt.Sprintf("%.0f", *w.PlannedTSS)
	}
	actualTSS := "-"
	if w.ActualTSS != nil {
		actualTSS = fmt.Sprintf("%.0f", *w.ActualTSS)
	}
	intensity := "-"
	if w.ActualIF != nil {
		intensity = fmt.Sprintf("%.2f", *w.ActualIF)
	} else if w.PlannedIF != nil {
		intensity = fmt.Sprintf("(%.2f)", *w.PlannedIF)
	}

	quality := "-"
	var qualityStyled string
	if w.QualityScore != nil {
		quality = fmt.Sprintf("%.0f", *w.QualityScore)
		switch {
		case *w.QualityScore >= 85:
			qualityStyled = successStyle.Render(fmt.Sprintf("%7s", quality))
		case *w.QualityScore >= 60:
			qualityStyled = warningStyle.Render(fmt.Sprintf("%7s", quality))
		default:
			qualityStyled = errorStyle.Render(fmt.Sprintf("%7s", quality))
		}
	} else {
		qualityStyled = fmt.Sprintf("%7s", quality)
	}

	return fmt.Sprintf("  %-10s  %-26s  %-10s  %9s  %9s  %7s  %s",
		w.Date.Format("2006-01-02"),
		truncate(w.Title, 26),
		truncate(w.WorkoutType, 10),
		plannedTSS,
		actualTSS,
		intensity,
		qualityStyled,
	)
}
