package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tricalc/internal/analysis"
	"tricalc/internal/service"
)

// legField is the picker a leg screen's arrows act on
type legField int

const (
	fieldDistance legField = iota
	fieldMajor             // pace minutes, speed km/h or target hours
	fieldMinor             // pace seconds, speed tenths or target minutes
	fieldSeconds           // target seconds, pace mode only
)

// LegModel is the swim, bike or run screen
type LegModel struct {
	discipline analysis.Discipline
	session    *service.Session
	calc       *service.CalculatorService

	focus   legField
	editing bool
	input   textinput.Model
}

// NewLegModel creates the screen for one discipline
func NewLegModel(d analysis.Discipline, session *service.Session, calc *service.CalculatorService) LegModel {
	ti := textinput.New()
	ti.Placeholder = "km"
	ti.CharLimit = 8
	ti.Width = 10

	return LegModel{
		discipline: d,
		session:    session,
		calc:       calc,
		input:      ti,
	}
}

// Init initializes the leg screen
func (m LegModel) Init() tea.Cmd {
	return nil
}

// Editing reports whether typed keys belong to the distance input
func (m LegModel) Editing() bool {
	return m.editing
}

func (m LegModel) fieldCount() legField {
	if m.session.Mode == service.ModePace {
		return fieldSeconds + 1
	}
	return fieldSeconds
}

// Update handles messages
func (m LegModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.focus >= m.fieldCount() {
		m.focus = m.fieldCount() - 1
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.editing {
		switch keyMsg.Type {
		case tea.KeyEnter:
			m.editing = false
			m.input.Blur()
			if !m.session.EnterDistance(m.discipline, m.input.Value()) {
				return m, setStatus(fmt.Sprintf("%q is not a distance", m.input.Value()))
			}
			return m, nil
		case tea.KeyEsc:
			m.editing = false
			m.input.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case "up", "k":
		m.focus = (m.focus + m.fieldCount() - 1) % m.fieldCount()
	case "down", "j", "tab":
		m.focus = (m.focus + 1) % m.fieldCount()
	case "left", "h", "-":
		m.step(-1)
	case "right", "l", "+":
		m.step(1)
	case "e":
		m.editing = true
		m.focus = fieldDistance
		m.input.SetValue(DistanceEditValue(m.discipline, m.session.Distances().Leg(m.discipline)))
		m.input.CursorEnd()
		return m, m.input.Focus()
	case "a", "enter":
		r := m.calc.AddToPlan(m.session, m.discipline)
		return m, setStatus(fmt.Sprintf("%s %s added to total", legTitle(m.discipline), analysis.FormatDuration(r.SecondsForTotal)))
	}

	return m, nil
}

func (m *LegModel) step(dir int) {
	if m.focus == fieldDistance {
		m.session.StepDistance(m.discipline, dir)
		return
	}

	if m.session.Mode == service.ModePace {
		switch m.focus {
		case fieldMajor:
			m.session.StepTarget(m.discipline, dir, 0, 0)
		case fieldMinor:
			m.session.StepTarget(m.discipline, 0, dir, 0)
		case fieldSeconds:
			m.session.StepTarget(m.discipline, 0, 0, dir)
		}
		return
	}

	switch m.focus {
	case fieldMajor:
		m.session.StepPace(m.discipline, dir, 0)
	case fieldMinor:
		m.session.StepPace(m.discipline, 0, dir)
	}
}

// View renders the leg screen
func (m LegModel) View() string {
	accent := disciplineColor(m.discipline)
	result := m.calc.Leg(m.session, m.discipline)

	title := cardTitleStyle.Foreground(accent).Render(strings.ToUpper(legTitle(m.discipline)))

	var lines []string
	lines = append(lines, title)
	lines = append(lines, RenderMetric("Distance", m.renderDistance(accent)))
	if result.Category.Valid() {
		lines = append(lines, RenderMetric("", helpDescStyle.Render(result.Category.String()+" distance")))
	}
	lines = append(lines, RenderMetric("Presets", m.renderPresets()))

	if m.session.Mode == service.ModePace {
		lines = append(lines, RenderMetric("Target time", m.renderTarget(accent)))
	} else if m.discipline == analysis.Bike {
		lines = append(lines, RenderMetric("Speed", m.renderSpeed(accent)))
	} else {
		lines = append(lines, RenderMetric("Pace", m.renderPace(accent)))
	}

	resultLines := []string{
		helpDescStyle.Render(strings.ToUpper(result.Label)),
		bigValueStyle.Render(result.Main),
	}
	if result.Percentile != nil {
		resultLines = append(resultLines, badgeStyle.Render(result.Percentile.Badge()))
	}
	if saved := m.session.Plan.Leg(m.discipline); saved > 0 {
		resultLines = append(resultLines, helpDescStyle.Render("In total: "+analysis.FormatDuration(saved)))
	}

	hint := "←/→ adjust  ↑/↓ select  e type distance  a add to total"
	if m.editing {
		hint = "enter apply  esc cancel"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)),
		cardStyle.BorderForeground(accent).Render(lipgloss.JoinVertical(lipgloss.Center, resultLines...)),
		statusStyle.Render(hint),
	)
}

func (m LegModel) renderDistance(accent lipgloss.Color) string {
	if m.editing {
		return m.input.View() + helpDescStyle.Render(" km")
	}
	return RenderField(FormatDistance(m.discipline, m.session.Distances().Leg(m.discipline)), m.focus == fieldDistance, accent)
}

// renderPresets lists the standard distances, highlighting the one the leg
// is set to
func (m LegModel) renderPresets() string {
	active := analysis.PresetCategory(m.discipline, m.session.Distances().Leg(m.discipline))

	var items []string
	for _, c := range analysis.Categories {
		if c == active {
			items = append(items, navActiveStyle.Render(c.String()))
		} else {
			items = append(items, navInactiveStyle.Render(c.String()))
		}
	}
	return strings.Join(items, " ")
}

func (m LegModel) renderPace(accent lipgloss.Color) string {
	p := m.session.Swim.Pace
	if m.discipline == analysis.Run {
		p = m.session.Run.Pace
	}
	return RenderField(fmt.Sprintf("%d", p.Minutes), m.focus == fieldMajor, accent) + ":" +
		RenderField(analysis.FormatTwoDigit(p.Seconds), m.focus == fieldMinor, accent) +
		helpDescStyle.Render(" "+PaceUnit(m.discipline))
}

func (m LegModel) renderSpeed(accent lipgloss.Color) string {
	whole, tenth := analysis.SplitSpeed(m.session.Bike.SpeedKmh)
	return RenderField(fmt.Sprintf("%d", whole), m.focus == fieldMajor, accent) + "." +
		RenderField(fmt.Sprintf("%d", tenth), m.focus == fieldMinor, accent) +
		helpDescStyle.Render(" "+PaceUnit(analysis.Bike))
}

func (m LegModel) renderTarget(accent lipgloss.Color) string {
	t := m.session.Target(m.discipline)
	return RenderField(fmt.Sprintf("%d", t.Hours), m.focus == fieldMajor, accent) + ":" +
		RenderField(analysis.FormatTwoDigit(t.Minutes), m.focus == fieldMinor, accent) + ":" +
		RenderField(analysis.FormatTwoDigit(t.Seconds), m.focus == fieldSeconds, accent)
}
