// Package prefs shows the viewer's preferred categories.
package prefs

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/weekslot/internal/models"
)

// EditPreferencesMsg asks the parent to open the preferences editor.
type EditPreferencesMsg struct{}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	checkedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	uncheckedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			MarginTop(1)
)

type Model struct {
	categories []models.Category
	prefs      models.Preferences
	loaded     bool
	width      int
	height     int
}

func New(width, height int) Model {
	return Model{width: width, height: height}
}

func (m *Model) SetData(cats []models.Category, prefs models.Preferences) {
	m.categories = cats
	m.prefs = prefs
	m.loaded = true
}

// Categories returns the categories last loaded.
func (m Model) Categories() []models.Category { return m.categories }

// Preferences returns the preference set last loaded.
func (m Model) Preferences() models.Preferences { return m.prefs }

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "e" && m.loaded {
		return m, func() tea.Msg { return EditPreferencesMsg{} }
	}
	return m, nil
}

func (m Model) View() string {
	if !m.loaded {
		return "Loading preferences..."
	}

	lines := []string{titleStyle.Render("Preferred Categories")}
	if len(m.categories) == 0 {
		lines = append(lines, uncheckedStyle.Render("No categories available."))
	}
	for _, c := range m.categories {
		if m.prefs.Has(c.ID) {
			lines = append(lines, checkedStyle.Render(fmt.Sprintf("[x] %s", c.Name)))
		} else {
			lines = append(lines, uncheckedStyle.Render(fmt.Sprintf("[ ] %s", c.Name)))
		}
	}

	hint := "Press 'e' to edit preferences"
	if len(m.prefs.Categories) == 0 {
		hint = "No preferences set; every category is shown. " + hint
	}
	lines = append(lines, hintStyle.Render(hint))

	return lipgloss.NewStyle().Padding(1, 2).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
