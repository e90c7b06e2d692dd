package tui

import (
	"cycling-fitness/internal/config"
	"cycling-fitness/internal/service"
	"cycling-fitness/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen identifiers
type Screen int

const (
	ScreenDashboard Screen = iota
	ScreenWorkouts
	ScreenRacePlan
	ScreenTaper
	ScreenFTP
	ScreenImport
	ScreenHelp
)

// App is the root Bubble Tea model
type App struct {
	screen     Screen
	prevScreen Screen

	// Screen models
	dashboard    DashboardModel
	workouts     WorkoutsModel
	racePlan     RacePlanModel
	taper        TaperModel
	ftp          FTPModel
	importScreen ImportModel
	help         HelpModel

	// Services
	db            *store.DB
	queryService  *service.QueryService
	importService *service.ImportService
	units         Units

	// Window dimensions
	width  int
	height int
}

// NewApp creates a new App with all dependencies
func NewApp(db *store.DB, cfg *config.Config, queryService *service.QueryService, importService *service.ImportService) *App {
	units := NewUnits(cfg.Display)
	return &App{
		screen:        ScreenDashboard,
		db:            db,
		queryService:  queryService,
		importService: importService,
		units:         units,
		dashboard:     NewDashboardModel(queryService),
		workouts:      NewWorkoutsModel(queryService, 0, 0),
		racePlan:      NewRacePlanModel(queryService, units, 0, 0),
		taper:         NewTaperModel(queryService),
		ftp:           NewFTPModel(queryService),
		importScreen:  NewImportModel(importService),
		help:          NewHelpModel(),
	}
}

// Init initializes the app
func (a *App) Init() tea.Cmd {
	return a.dashboard.Init()
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Global keybindings, except while the import screen holds text input
		if a.screen != ScreenImport || !a.importScreen.editing {
			switch msg.String() {
			case "q", "ctrl+c":
				return a, tea.Quit
			case "1":
				a.screen = ScreenDashboard
				a.dashboard = NewDashboardModel(a.queryService)
				return a, a.dashboard.Init()
			case "2":
				a.screen = ScreenWorkouts
				return a, a.workouts.Init()
			case "3":
				a.screen = ScreenRacePlan
				return a, a.racePlan.Init()
			case "4":
				a.screen = ScreenTaper
				return a, a.taper.Init()
			case "5":
				a.screen = ScreenFTP
				return a, a.ftp.Init()
			case "6", "i":
				if a.screen != ScreenImport {
					a.screen = ScreenImport
					return a, a.importScreen.Init()
				}
			case "?":
				a.prevScreen = a.screen
				a.screen = ScreenHelp
				return a, nil
			case "esc":
				if a.screen == ScreenHelp {
					a.screen = a.prevScreen
					return a, nil
				}
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case ImportCompleteMsg:
		// Refresh dashboard after new data lands
		a.screen = ScreenDashboard
		a.dashboard = NewDashboardModel(a.queryService)
		return a, a.dashboard.Init()
	}

	// Delegate to current screen
	var cmd tea.Cmd
	switch a.screen {
	case ScreenDashboard:
		var m tea.Model
		m, cmd = a.dashboard.Update(msg)
		a.dashboard = m.(DashboardModel)
	case ScreenWorkouts:
		var m tea.Model
		m, cmd = a.workouts.Update(msg)
		a.workouts = m.(WorkoutsModel)
	case ScreenRacePlan:
		var m tea.Model
		m, cmd = a.racePlan.Update(msg)
		a.racePlan = m.(RacePlanModel)
	case ScreenTaper:
		var m tea.Model
		m, cmd = a.taper.Update(msg)
		a.taper = m.(TaperModel)
	case ScreenFTP:
		var m tea.Model
		m, cmd = a.ftp.Update(msg)
		a.ftp = m.(FTPModel)
	case ScreenImport:
		var m tea.Model
		m, cmd = a.importScreen.Update(msg)
		a.importScreen = m.(ImportModel)
	case ScreenHelp:
		var m tea.Model
		m, cmd = a.help.Update(msg)
		a.help = m.(HelpModel)
	}

	return a, cmd
}

// View renders the app
func (a *App) View() string {
	header := headerStyle.Render("Cycling Fitness Tracker")
	nav := a.renderNav()

	var content string
	switch a.screen {
	case ScreenDashboard:
		content = a.dashboard.View()
	case ScreenWorkouts:
		content = a.workouts.View()
	case ScreenRacePlan:
		content = a.racePlan.View()
	case ScreenTaper:
		content = a.taper.View()
	case ScreenFTP:
		content = a.ftp.View()
	case ScreenImport:
		content = a.importScreen.View()
	case ScreenHelp:
		content = a.help.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, nav, content)
}

func (a *App) renderNav() string {
	items := []struct {
		key    string
		label  string
		screen Screen
	}{
		{"1", "Dashboard", ScreenDashboard},
		{"2", "Workouts", ScreenWorkouts},
		{"3", "Race Plan", ScreenRacePlan},
		{"4", "Taper", ScreenTaper},
		{"5", "FTP", ScreenFTP},
		{"6", "Import", ScreenImport},
		{"?", "Help", ScreenHelp},
	}

	var nav string
	for i, item := range items {
		if i > 0 {
			nav += "  "
		}

		label := "[" + item.key + "] " + item.label
		if a.screen == item.screen {
			nav += navActiveStyle.Render(label)
		} else {
			nav += navInactiveStyle.Render(label)
		}
	}

	nav += "  " + navInactiveStyle.Render("[q] Quit")

	return navStyle.Render(nav)
}

// ImportCompleteMsg is sent when an import finishes successfully
type ImportCompleteMsg struct{}
