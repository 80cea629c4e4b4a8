package admin

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/weekslot/internal/models"
)

func TestRender(t *testing.T) {
	m := New(120, 20, time.UTC)
	if m.View() != "Loading slots..." {
		t.Errorf("unexpected initial view: %q", m.View())
	}

	bob := models.ID("u2")
	start := time.Date(2026, 10, 12, 9, 0, 0, 0, time.UTC)
	m.SetSlots([]models.TimeSlot{
		{ID: "1", Title: "Yoga", CategoryName: "Cat 1", Start: start, End: start.Add(time.Hour)},
		{ID: "2", Title: "Swim", CategoryName: "Cat 2", Start: start.Add(2 * time.Hour), End: start.Add(3 * time.Hour), BookedBy: &bob, BookedByUsername: "bob"},
	})

	view := m.View()
	for _, want := range []string{"2 slot(s)", "2026-10-12 09:00-10:00", "Yoga", "booked by bob", "free"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}

	m.SetError("Access denied or failed to load")
	if !strings.Contains(m.View(), "Access denied") {
		t.Errorf("error not rendered: %s", m.View())
	}
}

func TestCreateKey(t *testing.T) {
	m := New(80, 10, time.UTC)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(CreateSlotMsg); !ok {
		t.Error("expected CreateSlotMsg")
	}
}
