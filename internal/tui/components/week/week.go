// Package week renders the seven-column slot grid.
package week

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/weekslot/internal/booking"
	"github.com/julianstephens/weekslot/internal/calendar"
	"github.com/julianstephens/weekslot/internal/models"
	"github.com/julianstephens/weekslot/internal/utils"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252"))

	todayStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	cellStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)

	selectedCellStyle = cellStyle.
				BorderForeground(lipgloss.Color("205"))

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	statusStyles = map[booking.Status]lipgloss.Style{
		booking.StatusFree:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		booking.StatusPending: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Italic(true),
		booking.StatusMine:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		booking.StatusTaken:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
)

// StatusFunc reports the viewer's relation to a slot.
type StatusFunc func(models.TimeSlot) booking.Status

type Model struct {
	window calendar.Window
	days   [7][]models.TimeSlot
	status StatusFunc
	loc    *time.Location
	day    int
	row    int
	width  int
	height int
}

func New(loc *time.Location) Model {
	if loc == nil {
		loc = time.Local
	}
	return Model{
		window: calendar.Today(loc),
		loc:    loc,
		status: func(models.TimeSlot) booking.Status { return booking.StatusTaken },
	}
}

// SetState rebuilds the grid from a controller snapshot. Moving to another
// week puts the cursor on today, or Monday when today is not in the week.
func (m *Model) SetState(st booking.ViewState, status StatusFunc) {
	if !m.window.Equal(st.Week) {
		m.day = todayIndex(st.Week)
		m.row = 0
	}
	m.window = st.Week
	m.days = calendar.GroupByDay(st.Week, st.Slots)
	if status != nil {
		m.status = status
	}
	m.clamp()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Window returns the week being shown.
func (m Model) Window() calendar.Window { return m.window }

// Cursor returns the selected day column and row.
func (m Model) Cursor() (day, row int) { return m.day, m.row }

// Selected returns the slot under the cursor.
func (m Model) Selected() (models.TimeSlot, bool) {
	col := m.days[m.day]
	if m.row < 0 || m.row >= len(col) {
		return models.TimeSlot{}, false
	}
	return col[m.row], true
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "left", "h":
			if m.day > 0 {
				m.day--
			}
		case "right", "l":
			if m.day < 6 {
				m.day++
			}
		case "up", "k":
			if m.row > 0 {
				m.row--
			}
		case "down", "j":
			m.row++
		}
		m.clamp()
	}
	return m, nil
}

func (m *Model) clamp() {
	n := len(m.days[m.day])
	if m.row >= n {
		m.row = n - 1
	}
	if m.row < 0 {
		m.row = 0
	}
}

func (m Model) View() string {
	colWidth := 18
	if m.width > 0 {
		if w := m.width/7 - 1; w > 10 {
			colWidth = w
		}
	}

	columns := make([]string, 0, 7)
	for i, d := range m.window.Days {
		header := fmt.Sprintf("%s %s", d.Label, d.Date.Format("Jan 2"))
		if calendar.IsToday(d.Date) {
			header = todayStyle.Render(header + " •")
		} else {
			header = headerStyle.Render(header)
		}

		cells := []string{header}
		if len(m.days[i]) == 0 {
			cells = append(cells, emptyStyle.Render("no slots"))
		}
		for j, s := range m.days[i] {
			style := cellStyle
			if i == m.day && j == m.row {
				style = selectedCellStyle
			}
			cells = append(cells, style.Width(colWidth-2).Render(m.cell(s)))
		}
		columns = append(columns, lipgloss.NewStyle().Width(colWidth).Render(lipgloss.JoinVertical(lipgloss.Left, cells...)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

func (m Model) cell(s models.TimeSlot) string {
	st := m.status(s)
	label := st.String()
	if st == booking.StatusTaken && s.BookedByUsername != "" {
		label = s.BookedByUsername
	}

	var b strings.Builder
	b.WriteString(utils.FormatSpan(s.Start, s.End, m.loc))
	b.WriteString("\n")
	b.WriteString(s.Title)
	if s.CategoryName != "" {
		b.WriteString("\n")
		b.WriteString(emptyStyle.Render(s.CategoryName))
	}
	b.WriteString("\n")
	b.WriteString(statusStyles[st].Render(label))
	return b.String()
}

func todayIndex(w calendar.Window) int {
	for i, d := range w.Days {
		if calendar.IsToday(d.Date) {
			return i
		}
	}
	return 0
}
