package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpModel is the help screen model
type HelpModel struct {
	viewport viewport.Model
	ready    bool
}

// NewHelpModel creates a new help model
func NewHelpModel(width, height int) HelpModel {
	m := HelpModel{}
	if width > 0 && height > 0 {
		m.viewport = viewport.New(width, height-6) // Reserve space for header/footer
		m.viewport.SetContent(m.renderContent())
		m.ready = true
	}
	return m
}

// Init initializes the help screen
func (m HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-6)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 6
		}
		m.viewport.SetContent(m.renderContent())
	}

	if !m.ready {
		return m, nil
	}

	// Handle viewport scrolling
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the help screen
func (m HelpModel) View() string {
	if !m.ready {
		return m.renderContent()
	}
	return m.viewport.View()
}

type keyHelp struct {
	key  string
	desc string
}

func (m HelpModel) renderContent() string {
	var sections []string

	sections = append(sections, cardTitleStyle.Render("Keyboard Shortcuts"))

	sections = append(sections, m.renderSection("Navigation", []keyHelp{
		{"1 / 2 / 3", "Swim, bike and run calculators"},
		{"4", "Race total"},
		{"5", "Saved plans"},
		{"6", "Profile"},
		{"7", "Strava import"},
		{"?", "Help (this screen)"},
		{"esc", "Back / close help"},
		{"q", "Quit"},
	}))

	sections = append(sections, m.renderSection("Everywhere", []keyHelp{
		{"m", "Switch between time and pace mode"},
		{"p", "Next race preset (Sprint, Olympic, 70.3, 140.6)"},
		{"R", "Reset all inputs and the race plan"},
	}))

	sections = append(sections, m.renderSection("Swim / Bike / Run", []keyHelp{
		{"↑ / ↓", "Select distance, pace or target field"},
		{"← / →", "Adjust the selected field"},
		{"e", "Type a distance in km"},
		{"a / enter", "Add the result to the race total"},
	}))

	sections = append(sections, m.renderSection("Total", []keyHelp{
		{"↑ / ↓", "Select T1 or T2 minutes or seconds"},
		{"← / →", "Adjust the selected transition"},
		{"t", "Next transition preset (1:30 to 5:00)"},
		{"x", "Clear the selected transition"},
		{"s", "Save the plan"},
	}))

	sections = append(sections, m.renderSection("Plans", []keyHelp{
		{"enter", "Load the plan into the calculator"},
		{"d", "Delete the plan"},
	}))

	sections = append(sections, m.renderSection("Strava", []keyHelp{
		{"i / enter", "Import recent activities"},
		{"a", "Use the training paces in the calculator"},
	}))

	sections = append(sections, m.renderEstimateHelp())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
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

func (m HelpModel) renderEstimateHelp() string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(secondaryColor).Render("Age Group Estimate"))
	lines = append(lines, "")

	notes := []struct {
		name string
		desc string
	}{
		{"Benchmark", "Average age-grouper time for the race distance, adjusted for age and gender."},
		{"Percentile", "Share of the field you would beat, assuming times spread 15% around the benchmark."},
		{"AK", "Five-year age group (Altersklasse) by calendar year of birth."},
	}

	for _, n := range notes {
		lines = append(lines, "  "+helpKeyStyle.Render(n.name))
		lines = append(lines, "  "+helpDescStyle.Render(n.desc))
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
