package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tricalc/internal/service"
	"tricalc/internal/store"
)

// PlansModel is the saved race plans screen
type PlansModel struct {
	plans   *service.PlanService
	items   []service.PlanSummary
	cursor  int
	loading bool
	err     error
}

// NewPlansModel creates a new plans model
func NewPlansModel(plans *service.PlanService) PlansModel {
	return PlansModel{
		plans:   plans,
		loading: true,
	}
}

// Init loads the plan list
func (m PlansModel) Init() tea.Cmd {
	return m.loadPlans
}

type plansLoadedMsg struct {
	items []service.PlanSummary
	err   error
}

// PlanLoadedMsg carries a saved plan read from the store. The app applies
// it to the session.
type PlanLoadedMsg struct {
	Plan *store.RacePlan
}

func (m PlansModel) loadPlans() tea.Msg {
	if m.plans == nil {
		return plansLoadedMsg{}
	}
	items, err := m.plans.List()
	return plansLoadedMsg{items: items, err: err}
}

// Update handles messages
func (m PlansModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case plansLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.items = msg.items
		if m.cursor >= len(m.items) {
			m.cursor = max(len(m.items)-1, 0)
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case "r":
			m.loading = true
			return m, m.loadPlans
		case "enter":
			if item, ok := m.selected(); ok {
				plans := m.plans
				return m, func() tea.Msg {
					p, err := plans.Find(item.ID)
					if err != nil {
						return statusMsg("Error: " + err.Error())
					}
					return PlanLoadedMsg{Plan: p}
				}
			}
		case "d":
			if item, ok := m.selected(); ok {
				plans := m.plans
				return m, tea.Sequence(
					func() tea.Msg {
						if _, err := plans.Delete(item.ID); err != nil {
							return statusMsg("Error: " + err.Error())
						}
						return statusMsg(fmt.Sprintf("Deleted plan %q", item.Name))
					},
					m.loadPlans,
				)
			}
		}
	}
	return m, nil
}

func (m PlansModel) selected() (service.PlanSummary, bool) {
	if m.plans == nil || m.cursor < 0 || m.cursor >= len(m.items) {
		return service.PlanSummary{}, false
	}
	return m.items[m.cursor], true
}

// View renders the plan list
func (m PlansModel) View() string {
	if m.loading {
		return "\n  Loading plans..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if len(m.items) == 0 {
		return "\n  No saved plans. Press 's' on the total screen to save one."
	}

	var sections []string

	title := cardTitleStyle.Render(fmt.Sprintf("Race Plans (%d)", len(m.items)))
	sections = append(sections, title)

	header := tableHeaderStyle.Render(fmt.Sprintf("   %-8s  %-25s  %-12s  %8s  %s",
		"ID", "Name", "Race", "Total", "Saved"))
	sections = append(sections, header)

	for i, p := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		row := fmt.Sprintf("%s%-8s  %-25s  %-12s  %8s  %s",
			cursor,
			p.ShortID,
			truncateName(p.Name, 25),
			p.Category,
			p.Total,
			p.SavedAgo,
		)

		if i == m.cursor {
			sections = append(sections, tableSelectedStyle.Render(row))
		} else {
			sections = append(sections, tableRowStyle.Render(row))
		}
	}

	help := statusStyle.Render("\n  enter: load into calculator  d: delete  j/k: navigate  r: refresh")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// truncateName shortens a name to maxLen runes, adding "..." when cut
func truncateName(name string, maxLen int) string {
	runes := []rune(name)
	if len(runes) <= maxLen {
		return name
	}
	return string(runes[:maxLen-3]) + "..."
}
