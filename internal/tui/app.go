package tui

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tricalc/internal/analysis"
	"tricalc/internal/config"
	"tricalc/internal/service"
	"tricalc/internal/store"
)

// Screen identifiers
type Screen int

const (
	ScreenSwim Screen = iota
	ScreenBike
	ScreenRun
	ScreenTotal
	ScreenPlans
	ScreenProfile
	ScreenImport
	ScreenHelp
)

var errNoStore = errors.New("no database available")

// nowFunc is the clock for age group labels
var nowFunc = time.Now

// Deps are the services the app is built from. Store, Plans and Import may
// be nil; the screens that need them then say so.
type Deps struct {
	Config  *config.Config
	Session *service.Session
	Calc    *service.CalculatorService
	Store   *store.Store
	Plans   *service.PlanService
	Import  *service.ImportService
}

// App is the root Bubble Tea model
type App struct {
	screen     Screen
	prevScreen Screen

	// Screen models
	swim    LegModel
	bike    LegModel
	run     LegModel
	total   TotalModel
	plans   PlansModel
	profile ProfileModel
	strava  ImportModel
	help    HelpModel

	session *service.Session
	calc    *service.CalculatorService

	presetIdx int

	// Window dimensions
	width  int
	height int

	// Status message
	status string
}

// NewApp creates a new App with all dependencies
func NewApp(deps Deps) *App {
	cfg := deps.Config
	if cfg == nil {
		def := config.DefaultConfig()
		cfg = &def
	}

	a := &App{
		screen:  ScreenSwim,
		session: deps.Session,
		calc:    deps.Calc,
		swim:    NewLegModel(analysis.Swim, deps.Session, deps.Calc),
		bike:    NewLegModel(analysis.Bike, deps.Session, deps.Calc),
		run:     NewLegModel(analysis.Run, deps.Session, deps.Calc),
		total:   NewTotalModel(deps.Session, deps.Calc, deps.Plans, cfg.Display),
		plans:   NewPlansModel(deps.Plans),
		profile: NewProfileModel(deps.Plans, deps.Calc),
		strava:  NewImportModel(deps.Import, deps.Store, cfg.Strava.ImportDays),
		help:    NewHelpModel(0, 0),
	}
	if deps.Calc.Profile() == nil {
		// first start: ask for the profile before anything else
		a.screen = ScreenProfile
	}
	return a
}

// Init initializes the app
func (a *App) Init() tea.Cmd {
	if a.screen == ScreenProfile {
		var cmd tea.Cmd
		a.profile, cmd = a.profile.Focus()
		return cmd
	}
	return nil
}

// statusMsg replaces the status line
type statusMsg string

func setStatus(s string) tea.Cmd {
	return func() tea.Msg { return statusMsg(s) }
}

// capturingInput reports whether the current screen has a focused text input
func (a *App) capturingInput() bool {
	switch a.screen {
	case ScreenSwim:
		return a.swim.Editing()
	case ScreenBike:
		return a.bike.Editing()
	case ScreenRun:
		return a.run.Editing()
	case ScreenTotal:
		return a.total.Editing()
	case ScreenProfile:
		return a.profile.Editing()
	}
	return false
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}
		if a.screen == ScreenProfile && a.profile.Editing() && msg.Type == tea.KeyEsc {
			a.profile = a.profile.Blur()
			return a, nil
		}
		if !a.capturingInput() {
			if cmd, handled := a.handleGlobalKey(msg); handled {
				return a, cmd
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		var m tea.Model
		m, _ = a.help.Update(msg)
		a.help = m.(HelpModel)
		return a, nil

	case statusMsg:
		a.status = string(msg)
		return a, nil

	case ProfileSavedMsg:
		a.calc.SetProfile(msg.Profile)
		a.status = "Profile saved"

	case ImportDoneMsg, pacesLoadedMsg, spinner.TickMsg:
		// the import keeps running when the user leaves its screen
		m, cmd := a.strava.Update(msg)
		a.strava = m.(ImportModel)
		return a, cmd

	// commands only read the store; the session changes here
	case PlanLoadedMsg:
		service.RestorePlan(a.session, *msg.Plan)
		a.status = "Loaded plan " + msg.Plan.Name
		a.screen = ScreenTotal
		return a, nil

	case trainingPacesMsg:
		if service.ApplyTrainingPaces(a.session, msg.paces) {
			a.status = "Training paces applied to the calculator"
		} else {
			a.status = "No training paces to apply"
		}
		return a, nil
	}

	// Delegate to current screen
	var cmd tea.Cmd
	var m tea.Model
	switch a.screen {
	case ScreenSwim:
		m, cmd = a.swim.Update(msg)
		a.swim = m.(LegModel)
	case ScreenBike:
		m, cmd = a.bike.Update(msg)
		a.bike = m.(LegModel)
	case ScreenRun:
		m, cmd = a.run.Update(msg)
		a.run = m.(LegModel)
	case ScreenTotal:
		m, cmd = a.total.Update(msg)
		a.total = m.(TotalModel)
	case ScreenPlans:
		m, cmd = a.plans.Update(msg)
		a.plans = m.(PlansModel)
	case ScreenProfile:
		m, cmd = a.profile.Update(msg)
		a.profile = m.(ProfileModel)
	case ScreenImport:
		m, cmd = a.strava.Update(msg)
		a.strava = m.(ImportModel)
	case ScreenHelp:
		m, cmd = a.help.Update(msg)
		a.help = m.(HelpModel)
	}

	return a, cmd
}

func (a *App) handleGlobalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "q":
		return tea.Quit, true
	case "1":
		return a.switchTo(ScreenSwim), true
	case "2":
		return a.switchTo(ScreenBike), true
	case "3":
		return a.switchTo(ScreenRun), true
	case "4":
		return a.switchTo(ScreenTotal), true
	case "5":
		return a.switchTo(ScreenPlans), true
	case "6":
		return a.switchTo(ScreenProfile), true
	case "7":
		return a.switchTo(ScreenImport), true
	case "?":
		a.prevScreen = a.screen
		a.screen = ScreenHelp
		return nil, true
	case "esc":
		if a.screen == ScreenHelp {
			a.screen = a.prevScreen
			return nil, true
		}
	case "m":
		a.session.Mode = a.session.Mode.Toggle()
		a.status = "Mode: " + string(a.session.Mode)
		return nil, true
	case "p":
		c := analysis.Categories[a.presetIdx]
		a.presetIdx = (a.presetIdx + 1) % len(analysis.Categories)
		a.session.ApplyPreset(c)
		a.status = "Preset: " + c.String()
		return nil, true
	case "R":
		a.session.Reset()
		a.status = "All inputs reset"
		return nil, true
	}
	return nil, false
}

func (a *App) switchTo(s Screen) tea.Cmd {
	a.screen = s
	a.status = ""
	switch s {
	case ScreenPlans:
		a.plans.loading = true
		return a.plans.Init()
	case ScreenProfile:
		var cmd tea.Cmd
		a.profile, cmd = a.profile.Focus()
		return cmd
	case ScreenImport:
		return a.strava.Init()
	}
	return nil
}

// View renders the app
func (a *App) View() string {
	header := a.renderHeader()
	nav := a.renderNav()

	var content string
	switch a.screen {
	case ScreenSwim:
		content = a.swim.View()
	case ScreenBike:
		content = a.bike.View()
	case ScreenRun:
		content = a.run.View()
	case ScreenTotal:
		content = a.total.View()
	case ScreenPlans:
		content = a.plans.View()
	case ScreenProfile:
		content = a.profile.View()
	case ScreenImport:
		content = a.strava.View()
	case ScreenHelp:
		content = a.help.View()
	}

	footer := a.renderFooter()

	return lipgloss.JoinVertical(lipgloss.Left, header, nav, content, footer)
}

func (a *App) renderHeader() string {
	title := headerStyle.Render("TRI CALC")
	mode := helpDescStyle.Render("  " + string(a.session.Mode) + " mode")
	return lipgloss.JoinVertical(lipgloss.Left,
		title+mode,
		subtitleStyle.Render(a.calc.HeaderSubtitle()),
	)
}

func (a *App) renderNav() string {
	items := []struct {
		key    string
		label  string
		screen Screen
	}{
		{"1", "Swim", ScreenSwim},
		{"2", "Bike", ScreenBike},
		{"3", "Run", ScreenRun},
		{"4", "Total", ScreenTotal},
		{"5", "Plans", ScreenPlans},
		{"6", "Profile", ScreenProfile},
		{"7", "Strava", ScreenImport},
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

func (a *App) renderFooter() string {
	if a.status != "" {
		return statusStyle.Render(a.status)
	}
	return ""
}
