package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"tricalc/internal/config"
	"tricalc/internal/service"
)

// TotalModel is the race total screen: the plan, both transitions and the
// percentile chart
type TotalModel struct {
	session *service.Session
	calc    *service.CalculatorService
	plans   *service.PlanService
	display config.DisplayConfig

	// 0 T1 minutes, 1 T1 seconds, 2 T2 minutes, 3 T2 seconds
	focus  int
	preset [2]int

	naming    bool
	nameInput textinput.Model
}

// NewTotalModel creates the total screen
func NewTotalModel(session *service.Session, calc *service.CalculatorService, plans *service.PlanService, display config.DisplayConfig) TotalModel {
	ti := textinput.New()
	ti.Placeholder = "plan name"
	ti.CharLimit = 40
	ti.Width = 30

	return TotalModel{
		session:   session,
		calc:      calc,
		plans:     plans,
		display:   display,
		nameInput: ti,
	}
}

// Init initializes the total screen
func (m TotalModel) Init() tea.Cmd {
	return nil
}

// Editing reports whether typed keys belong to the plan name input
func (m TotalModel) Editing() bool {
	return m.naming
}

// planSavedMsg is sent when saving a plan finishes
type planSavedMsg struct {
	name string
	err  error
}

// Update handles messages
func (m TotalModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case planSavedMsg:
		if msg.err != nil {
			return m, setStatus("Error: " + msg.err.Error())
		}
		return m, setStatus(fmt.Sprintf("Saved plan %q", msg.name))

	case tea.KeyMsg:
		if m.naming {
			return m.updateNaming(msg)
		}

		switch msg.String() {
		case "up", "k":
			m.focus = (m.focus + 3) % 4
		case "down", "j", "tab":
			m.focus = (m.focus + 1) % 4
		case "left", "h", "-":
			m.stepTransition(-1)
		case "right", "l", "+":
			m.stepTransition(1)
		case "t":
			m.cyclePreset()
		case "x":
			*m.transition() = service.Transition{}
		case "s":
			if m.plans == nil {
				return m, setStatus("Plans are not available")
			}
			m.naming = true
			m.nameInput.SetValue("")
			return m, m.nameInput.Focus()
		}
	}
	return m, nil
}

func (m TotalModel) updateNaming(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.naming = false
		m.nameInput.Blur()
		return m, m.savePlan(m.nameInput.Value())
	case tea.KeyEsc:
		m.naming = false
		m.nameInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m TotalModel) savePlan(name string) tea.Cmd {
	plans := m.plans
	snapshot := *m.session
	return func() tea.Msg {
		p, err := plans.Save(name, &snapshot)
		if err != nil {
			return planSavedMsg{err: err}
		}
		return planSavedMsg{name: p.Name}
	}
}

// transition returns the T1 or T2 the focus is on
func (m *TotalModel) transition() *service.Transition {
	if m.focus < 2 {
		return &m.session.Plan.T1
	}
	return &m.session.Plan.T2
}

func (m *TotalModel) stepTransition(dir int) {
	t := m.transition()
	if m.focus%2 == 0 {
		*t = t.Step(dir, 0)
	} else {
		*t = t.Step(0, dir)
	}
}

func (m *TotalModel) cyclePreset() {
	i := m.focus / 2
	*m.transition() = service.TransitionPresets[m.preset[i]]
	m.preset[i] = (m.preset[i] + 1) % len(service.TransitionPresets)
}

// View renders the total screen
func (m TotalModel) View() string {
	result := m.calc.Total(m.session)

	var top []string
	top = append(top, cardTitleStyle.Render("TARGET TIME"))
	top = append(top, bigValueStyle.Render(result.Total))
	if result.Percentile != nil {
		top = append(top, badgeStyle.Render(result.Percentile.Badge()))
	}
	if result.Category.Valid() {
		top = append(top, helpDescStyle.Render(result.Category.String()+" race"))
	}
	top = append(top, "")

	for _, seg := range result.Segments {
		value := seg.Value
		if seg.Transition {
			value = m.renderTransition(seg.Label)
		}
		top = append(top, RenderMetric(seg.Label, value))
	}

	sections := []string{cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, top...))}
	sections = append(sections, m.renderChart())

	hint := "↑/↓ select  ←/→ adjust  t transition preset  x clear  s save plan"
	if m.naming {
		sections = append(sections, RenderMetric("Save as", m.nameInput.View()))
		hint = "enter save  esc cancel"
	}
	sections = append(sections, statusStyle.Render(hint))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m TotalModel) renderTransition(label string) string {
	t := m.session.Plan.T1
	offset := 0
	if label == "T2" {
		t = m.session.Plan.T2
		offset = 2
	}

	focused := m.focus == offset || m.focus == offset+1
	if !focused && t == (service.Transition{}) {
		return t.String()
	}
	return RenderField(fmt.Sprintf("%d", t.Minutes), m.focus == offset, primaryColor) + ":" +
		RenderField(fmt.Sprintf("%02d", t.Seconds), m.focus == offset+1, primaryColor)
}

func (m TotalModel) renderChart() string {
	title := cardTitleStyle.Render("Percentile by Finish Time")

	if m.calc.Profile() == nil {
		return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title,
			helpDescStyle.Render("Set up a profile [6] to compare against your age group")))
	}

	curve := m.calc.PercentileCurve(m.session.Distances(), m.display.ChartPoints)
	if curve == nil {
		return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title,
			helpDescStyle.Render("The distances do not match a Sprint, Olympic, 70.3 or 140.6 race")))
	}

	height := m.display.ChartHeight
	if height <= 0 {
		height = 10
	}
	graph := asciigraph.Plot(curve.Points,
		asciigraph.Height(height),
		asciigraph.Precision(0),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(100),
		asciigraph.Caption(fmt.Sprintf("%s → %s (age group average %s)", curve.FastestTime, curve.SlowestTime, curve.ExpectedTime)),
	)

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, strings.TrimRight(graph, "\n")))
}
