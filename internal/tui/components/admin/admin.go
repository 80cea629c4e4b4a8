// Package admin lists every slot for staff users.
package admin

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/weekslot/internal/constants"
	"github.com/julianstephens/weekslot/internal/models"
	"github.com/julianstephens/weekslot/internal/utils"
)

// CreateSlotMsg asks the parent to open the create form.
type CreateSlotMsg struct{}

var (
	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(24)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true).
			Width(24)

	bookedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
)

type Model struct {
	viewport viewport.Model
	slots    []models.TimeSlot
	loc      *time.Location
	errMsg   string
	loaded   bool
}

func New(width, height int, loc *time.Location) Model {
	if loc == nil {
		loc = time.Local
	}
	return Model{viewport: viewport.New(width, height), loc: loc}
}

func (m *Model) SetSlots(slots []models.TimeSlot) {
	m.slots = slots
	m.errMsg = ""
	m.loaded = true
	m.Render()
}

// SetError replaces the listing with a failure message.
func (m *Model) SetError(msg string) {
	m.slots = nil
	m.errMsg = msg
	m.loaded = true
	m.Render()
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "a" {
		return m, func() tea.Msg { return CreateSlotMsg{} }
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if !m.loaded {
		return "Loading slots..."
	}
	return m.viewport.View()
}

func (m *Model) Render() {
	if m.errMsg != "" {
		m.viewport.SetContent(errorStyle.Render(m.errMsg))
		return
	}
	if len(m.slots) == 0 {
		m.viewport.SetContent("No slots yet. Press 'a' to create one.")
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d slot(s)\n\n", len(m.slots))
	for _, s := range m.slots {
		when := fmt.Sprintf("%s %s", s.Start.In(m.loc).Format(constants.DateFormat), utils.FormatSpan(s.Start, s.End, m.loc))
		booked := "free"
		if s.IsBooked() {
			booked = "booked by " + s.BookedByUsername
		}
		fmt.Fprintf(&b, "%s %s %s %s\n",
			dateStyle.Render(when),
			titleStyle.Render(s.Title),
			s.CategoryName,
			bookedStyle.Render(booked),
		)
	}
	m.viewport.SetContent(b.String())
}
