package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tricalc/internal/service"
	"tricalc/internal/store"
)

// ImportModel is the Strava import screen
type ImportModel struct {
	importService *service.ImportService
	store         *store.Store
	days          int

	spinner   spinner.Model
	importing bool
	result    *service.ImportResult
	paces     []service.PaceSummary
	stored    int
	err       error
	done      bool
}

// NewImportModel creates a new import model. importService is nil when
// Strava is not connected.
func NewImportModel(is *service.ImportService, st *store.Store, days int) ImportModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(secondaryColor)

	return ImportModel{
		importService: is,
		store:         st,
		days:          days,
		spinner:       sp,
	}
}

// Init loads the training paces and activity count of earlier imports
func (m ImportModel) Init() tea.Cmd {
	if m.store == nil {
		return nil
	}
	st := m.store
	return func() tea.Msg {
		paces, err := service.LoadTrainingPaces(st)
		if err != nil {
			return pacesLoadedMsg{err: err}
		}
		n, err := st.CountActivities()
		return pacesLoadedMsg{paces: paces, stored: n, err: err}
	}
}

type pacesLoadedMsg struct {
	paces  []service.PaceSummary
	stored int
	err    error
}

// trainingPacesMsg carries the stored paces to apply to the session
type trainingPacesMsg struct {
	paces map[string]store.TrainingPace
}

// ImportDoneMsg is sent when an import finishes
type ImportDoneMsg struct {
	Result *service.ImportResult
	Err    error
}

// Update handles messages
func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.importing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case pacesLoadedMsg:
		if msg.err == nil {
			m.paces = msg.paces
			m.stored = msg.stored
		}

	case ImportDoneMsg:
		m.importing = false
		m.done = true
		m.result = msg.Result
		m.err = msg.Err
		if msg.Result != nil && len(msg.Result.Paces) > 0 {
			m.paces = msg.Result.Paces
		}
		// refresh the stored total
		return m, m.Init()

	case tea.KeyMsg:
		if m.importing {
			return m, nil
		}
		switch msg.String() {
		case "enter", "i":
			if m.importService == nil {
				return m, nil
			}
			m.importing = true
			m.done = false
			m.err = nil
			m.result = nil
			return m, tea.Batch(m.runImport, m.spinner.Tick)
		case "a":
			// paces of earlier imports apply without a connection
			if m.store == nil || len(m.paces) == 0 {
				return m, nil
			}
			st := m.store
			return m, func() tea.Msg {
				paces, err := st.GetTrainingPaces()
				if err != nil {
					return statusMsg("Error: " + err.Error())
				}
				return trainingPacesMsg{paces: paces}
			}
		}
	}
	return m, nil
}

func (m ImportModel) runImport() tea.Msg {
	// no progress channel: the screen only shows the final summary
	result, err := m.importService.Import(context.Background(), m.days, nil)
	return ImportDoneMsg{Result: result, Err: err}
}

// View renders the import screen
func (m ImportModel) View() string {
	var sections []string

	sections = append(sections, cardTitleStyle.Render("Strava Import"))

	if m.importService == nil {
		sections = append(sections, "\n  Strava is not connected.")
		sections = append(sections, statusStyle.Render("  Run 'tricalc strava login' to connect your account"))
		if m.stored > 0 {
			sections = append(sections, statusStyle.Render(fmt.Sprintf("  %d activities stored", m.stored)))
		}
		if len(m.paces) > 0 {
			sections = append(sections, m.renderPaces())
			sections = append(sections, statusStyle.Render("  Press 'a' to use these paces in the calculator"))
		}
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	switch {
	case m.err != nil:
		sections = append(sections, errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err)))
		sections = append(sections, "\n"+statusStyle.Render("  Press 'i' or Enter to retry"))
	case m.importing:
		sections = append(sections, "\n  "+m.spinner.View()+" Importing from Strava...")
		sections = append(sections, statusStyle.Render("  This may take a moment..."))
	case m.done:
		sections = append(sections, successStyle.Render("\n  Import complete!"))
		sections = append(sections, m.renderSummary())
	default:
		sections = append(sections, m.renderStartPrompt())
	}

	if m.stored > 0 && !m.importing {
		sections = append(sections, statusStyle.Render(fmt.Sprintf("  %d activities stored", m.stored)))
	}
	if len(m.paces) > 0 && !m.importing {
		sections = append(sections, m.renderPaces())
		sections = append(sections, statusStyle.Render("  Press 'a' to use these paces in the calculator"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ImportModel) renderStartPrompt() string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("  This imports your swims, rides and runs of the last %d days", m.days))
	lines = append(lines, "  and averages them into training paces.")
	lines = append(lines, "")
	lines = append(lines, statusStyle.Render("  Press 'i' or Enter to start the import"))

	return strings.Join(lines, "\n")
}

func (m ImportModel) renderSummary() string {
	if m.result == nil {
		return ""
	}
	r := m.result

	var lines []string
	lines = append(lines, "")
	if r.ActivitiesStored > 0 {
		lines = append(lines, successStyle.Render(fmt.Sprintf("  %d activities imported", r.ActivitiesStored)))
	} else {
		lines = append(lines, statusStyle.Render("  No swims, rides or runs found"))
	}
	if r.ActivitiesSkipped > 0 {
		lines = append(lines, statusStyle.Render(fmt.Sprintf("  %d other activities skipped", r.ActivitiesSkipped)))
	}
	if len(r.Errors) > 0 {
		lines = append(lines, "")
		lines = append(lines, warningStyle.Render(fmt.Sprintf("  %d errors occurred", len(r.Errors))))
	}

	return strings.Join(lines, "\n")
}

func (m ImportModel) renderPaces() string {
	lines := []string{"", cardTitleStyle.Render("Training Paces")}
	for _, p := range m.paces {
		lines = append(lines, RenderMetric(legTitle(p.Discipline), fmt.Sprintf("%s  (%d activities, %s)", p.Pace, p.ActivityCount, p.Distance)))
	}
	return strings.Join(lines, "\n")
}
