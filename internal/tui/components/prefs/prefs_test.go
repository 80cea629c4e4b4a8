package prefs

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/weekslot/internal/models"
)

func TestViewMarksPreferred(t *testing.T) {
	m := New(80, 20)
	if !strings.Contains(m.View(), "Loading") {
		t.Error("unloaded view should show loading")
	}

	m.SetData([]models.Category{{ID: "1", Name: "Yoga"}, {ID: "2", Name: "Swim"}}, models.Preferences{Categories: []models.ID{"2"}})
	view := m.View()
	if !strings.Contains(view, "[ ] Yoga") || !strings.Contains(view, "[x] Swim") {
		t.Errorf("unexpected view:\n%s", view)
	}
}

func TestEditKey(t *testing.T) {
	m := New(80, 20)
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")}); cmd != nil {
		t.Error("edit should wait until data is loaded")
	}

	m.SetData(nil, models.Preferences{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(EditPreferencesMsg); !ok {
		t.Error("expected EditPreferencesMsg")
	}
}
