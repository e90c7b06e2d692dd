package tui

import (
	"fmt"
	"strings"
	"time"

	"cycling-fitness/internal/service"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ImportModel is the import screen model
type ImportModel struct {
	importService *service.ImportService
	pathInput     textinput.Model
	editing       bool
	importing     bool
	done          bool
	result        *service.ImportResult
	err           error
}

// NewImportModel creates a new import model
func NewImportModel(is *service.ImportService) ImportModel {
	input := textinput.New()
	input.Placeholder = "/path/to/export.json"
	input.CharLimit = 256
	input.Width = 60
	input.Focus()

	return ImportModel{
		importService: is,
		pathInput:     input,
		editing:       true,
	}
}

// Init initializes the import screen
func (m ImportModel) Init() tea.Cmd {
	return textinput.Blink
}

// ImportDoneMsg is sent when an import finishes
type ImportDoneMsg struct {
	Result *service.ImportResult
	Err    error
}

// Update handles messages
func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ImportDoneMsg:
		m.importing = false
		m.done = true
		m.result = msg.Result
		m.err = msg.Err
		if m.err == nil {
			return m, func() tea.Msg { return ImportCompleteMsg{} }
		}
		return m, nil

	case tea.KeyMsg:
		if m.importing {
			return m, nil
		}

		switch msg.String() {
		case "enter":
			if m.editing && strings.TrimSpace(m.pathInput.Value()) != "" {
				m.editing = false
				m.importing = true
				m.done = false
				m.err = nil
				m.result = nil
				path := strings.TrimSpace(m.pathInput.Value())
				return m, func() tea.Msg {
					result, err := m.importService.ImportFromFile(path, time.Now())
					return ImportDoneMsg{Result: result, Err: err}
				}
			}
		case "e":
			if !m.editing {
				m.editing = true
				m.pathInput.Focus()
				return m, textinput.Blink
			}
		case "esc":
			if m.editing {
				m.editing = false
				m.pathInput.Blur()
				return m, nil
			}
		}

		if m.editing {
			var cmd tea.Cmd
			m.pathInput, cmd = m.pathInput.Update(msg)
			return m, cmd
		}

	default:
		if m.editing {
			var cmd tea.Cmd
			m.pathInput, cmd = m.pathInput.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

// View renders the import screen
func (m ImportModel) View() string {
	var sections []string

	title := cardTitleStyle.Render("Import Training Data")
	sections = append(sections, title)

	if m.importing {
		sections = append(sections, "\n  Importing...")
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	if m.err != nil {
		sections = append(sections, errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err)))
		sections = append(sections, "\n"+statusStyle.Render("  Press 'e' to edit the path and Enter to retry"))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	if m.done {
		sections = append(sections, successStyle.Render("\n  Import complete!"))
		sections = append(sections, m.renderSummary())
		sections = append(sections, "\n"+statusStyle.Render("  Press '1' to go to the dashboard"))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	sections = append(sections, m.renderPrompt())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ImportModel) renderPrompt() string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, "  Import a JSON export of workouts and FTP tests.")
	lines = append(lines, "  After the import, quality scores and the load series refresh automatically.")
	lines = append(lines, "")
	lines = append(lines, "  File path:")
	lines = append(lines, "  "+m.pathInput.View())
	lines = append(lines, "")
	if m.editing {
		lines = append(lines, statusStyle.Render("  Press Enter to import, Esc to stop editing"))
	} else {
		lines = append(lines, statusStyle.Render("  Press 'e' to edit the path"))
	}

	return strings.Join(lines, "\n")
}

func (m ImportModel) renderSummary() string {
	if m.result == nil {
		return ""
	}

	var lines []string
	r := m.result
	lines = append(lines, "")

	if r.WorkoutsImported > 0 {
		lines = append(lines, successStyle.Render(fmt.Sprintf("  %d workouts imported", r.WorkoutsImported)))
	} else {
		lines = append(lines, statusStyle.Render("  No workouts in file"))
	}
	if r.FTPTestsImported > 0 {
		lines = append(lines, successStyle.Render(fmt.Sprintf("  %d FTP tests recorded", r.FTPTestsImported)))
	}
	if r.WorkoutsScored > 0 {
		lines = append(lines, successStyle.Render(fmt.Sprintf("  %d workouts scored", r.WorkoutsScored)))
	}
	if r.DaysComputed > 0 {
		lines = append(lines, successStyle.Render(fmt.Sprintf("  %d days of training load computed", r.DaysComputed)))
	}
	if len(r.Errors) > 0 {
		lines = append(lines, "")
		lines = append(lines, warningStyle.Render(fmt.Sprintf("  %d records skipped", len(r.Errors))))
	}

	return strings.Join(lines, "\n")
}
