package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tricalc/internal/analysis"
	"tricalc/internal/service"
	"tricalc/internal/store"
)

const (
	profileName = iota
	profileBirthDate
	profileGender
	profileFieldCount
)

// ProfileModel is the athlete profile form
type ProfileModel struct {
	plans  *service.PlanService
	calc   *service.CalculatorService
	inputs []textinput.Model
	focus  int
	err    error
	saved  bool
}

// NewProfileModel creates the profile form, prefilled from the current profile
func NewProfileModel(plans *service.PlanService, calc *service.CalculatorService) ProfileModel {
	inputs := make([]textinput.Model, profileFieldCount)
	for i := range inputs {
		ti := textinput.New()
		ti.CharLimit = 40
		ti.Width = 30
		inputs[i] = ti
	}
	inputs[profileName].Placeholder = "Your name"
	inputs[profileBirthDate].Placeholder = "YYYY-MM-DD"
	inputs[profileBirthDate].CharLimit = 10
	inputs[profileGender].Placeholder = "male or female"
	inputs[profileGender].CharLimit = 6

	m := ProfileModel{plans: plans, calc: calc, inputs: inputs}
	m.fill(calc.Profile())
	return m
}

func (m *ProfileModel) fill(p *store.Profile) {
	if p == nil {
		return
	}
	m.inputs[profileName].SetValue(p.Name)
	m.inputs[profileBirthDate].SetValue(p.BirthDate)
	m.inputs[profileGender].SetValue(p.Gender)
}

// Init initializes the profile screen
func (m ProfileModel) Init() tea.Cmd {
	return nil
}

// Focus starts editing at the first field
func (m ProfileModel) Focus() (ProfileModel, tea.Cmd) {
	m.saved = false
	m.err = nil
	m.fill(m.calc.Profile())
	return m.setFocus(profileName)
}

// Editing reports whether typed keys belong to a form field
func (m ProfileModel) Editing() bool {
	for _, ti := range m.inputs {
		if ti.Focused() {
			return true
		}
	}
	return false
}

// Blur stops editing
func (m ProfileModel) Blur() ProfileModel {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	return m
}

// ProfileSavedMsg is sent when the profile was stored
type ProfileSavedMsg struct {
	Profile *store.Profile
}

type profileErrMsg struct{ err error }

// Update handles messages
func (m ProfileModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ProfileSavedMsg:
		m.saved = true
		m.err = nil
		return m.Blur(), nil

	case profileErrMsg:
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		if !m.Editing() {
			if msg.Type == tea.KeyEnter || msg.String() == "e" {
				return m.Focus()
			}
			return m, nil
		}
		switch msg.Type {
		case tea.KeyTab, tea.KeyDown:
			return m.setFocus((m.focus + 1) % profileFieldCount)
		case tea.KeyShiftTab, tea.KeyUp:
			return m.setFocus((m.focus + profileFieldCount - 1) % profileFieldCount)
		case tea.KeyEnter:
			if m.focus < profileGender {
				return m.setFocus(m.focus + 1)
			}
			return m, m.save()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m ProfileModel) setFocus(i int) (ProfileModel, tea.Cmd) {
	m.focus = i
	var cmd tea.Cmd
	for j := range m.inputs {
		if j == i {
			cmd = m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
	return m, cmd
}

func (m ProfileModel) save() tea.Cmd {
	plans := m.plans
	name := m.inputs[profileName].Value()
	birth := m.inputs[profileBirthDate].Value()
	gender := m.inputs[profileGender].Value()

	return func() tea.Msg {
		if plans == nil {
			return profileErrMsg{err: errNoStore}
		}
		p, err := plans.SaveProfile(name, birth, gender)
		if err != nil {
			return profileErrMsg{err: err}
		}
		return ProfileSavedMsg{Profile: p}
	}
}

// View renders the profile form
func (m ProfileModel) View() string {
	labels := [profileFieldCount]string{"Name", "Birth date", "Gender"}

	var lines []string
	title := "My Profile"
	if p := m.calc.Profile(); p != nil {
		if who, err := service.Demographic(*p); err == nil {
			title += " (" + analysis.AgeGroupLabel(who.BirthDate, nowFunc()) + ")"
		}
	}
	lines = append(lines, cardTitleStyle.Render(title))

	for i, ti := range m.inputs {
		lines = append(lines, RenderMetric(labels[i], ti.View()))
	}

	switch {
	case m.err != nil:
		lines = append(lines, "", errorStyle.Render(strings.TrimPrefix(m.err.Error(), "invalid profile: ")))
	case m.saved:
		lines = append(lines, "", successStyle.Render("Profile saved"))
	}

	hint := "tab/↑/↓ move  enter next/save  esc stop editing"
	if !m.Editing() {
		hint = "e edit profile"
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)),
		statusStyle.Render(hint),
	)
}
