package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/weekslot/internal/constants"
	"github.com/julianstephens/weekslot/internal/models"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateCalendar:
		content = m.viewCalendar()
	case constants.StatePreferences:
		content = docStyle.Render(m.prefsModel.View())
	case constants.StateAdmin:
		content = docStyle.Render(m.adminModel.View())
	case constants.StateEditPreferences:
		content = docStyle.Render(m.form.View())
	case constants.StateCreateSlot:
		content = m.viewSlotForm()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	type tab struct {
		title string
		state constants.SessionState
	}
	tabs := []tab{{"Calendar", constants.StateCalendar}, {"Preferences", constants.StatePreferences}}
	if m.isStaff() {
		tabs = append(tabs, tab{"Admin", constants.StateAdmin})
	}

	active := m.state
	switch m.state {
	case constants.StateEditPreferences:
		active = constants.StatePreferences
	case constants.StateCreateSlot:
		active = constants.StateAdmin
	}

	rendered := make([]string, 0, len(tabs))
	for _, t := range tabs {
		if t.state == active {
			rendered = append(rendered, activeTabStyle.Render(t.title))
		} else {
			rendered = append(rendered, inactiveTabStyle.Render(t.title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) viewCalendar() string {
	st := m.ctrl.State()
	header := headerStyle.Render("Week of " + m.weekModel.Window().Title())
	if m.loading {
		header += " " + m.spinner.View()
	}
	if !st.CategoryID.IsZero() {
		header += " " + filterStyle.Render("category: "+categoryName(m.prefsModel.Categories(), st.CategoryID))
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, m.weekModel.View())
}

func (m Model) viewSlotForm() string {
	title := headerStyle.Render("Create Timeslot")
	if m.formError == "" {
		return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, m.form.View()))
	}
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, errorStyle.Render(m.formError), m.form.View()))
}

func (m Model) viewStatus() string {
	who := "not signed in"
	if u := m.session.CurrentUser(); u != nil {
		who = u.Username
		if u.IsStaff {
			who += " (staff)"
		}
	}
	line := userStyle.Render(fmt.Sprintf("%s · %s", who, m.store.Describe()))

	switch {
	case m.status == "":
		return line
	case m.statusErr:
		return line + "  " + errorStyle.Render("✗ "+m.status)
	default:
		return line + "  " + okStyle.Render("✓ "+m.status)
	}
}

func categoryName(cats []models.Category, id models.ID) string {
	for _, c := range cats {
		if c.ID == id {
			return c.Name
		}
	}
	return id.String()
}
