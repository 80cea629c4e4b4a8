package tui

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/weekslot/internal/booking"
	"github.com/julianstephens/weekslot/internal/calendar"
	"github.com/julianstephens/weekslot/internal/constants"
	wserrors "github.com/julianstephens/weekslot/internal/errors"
	"github.com/julianstephens/weekslot/internal/models"
	"github.com/julianstephens/weekslot/internal/session"
	"github.com/julianstephens/weekslot/internal/storage/sqlite"
	"github.com/julianstephens/weekslot/internal/tui/components/admin"
	"github.com/julianstephens/weekslot/internal/tui/state"
)

func setupModel(t *testing.T) Model {
	t.Helper()
	ctx := context.Background()

	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"), "alice")
	if err := store.Init(ctx); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if _, err := store.SeedWeek(ctx, calendar.Today(time.UTC)); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	sess := session.New()
	u, err := store.CurrentUser(ctx)
	if err != nil {
		t.Fatal(err)
	}
	sess.Set(u)

	ctrl := booking.New(store, sess, nil, time.UTC)
	m := NewModel(ctx, ctrl, store, sess)
	t.Cleanup(m.unsubscribe)
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	mm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return mm, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSlotsLoadedUpdatesGrid(t *testing.T) {
	m := setupModel(t)

	m, _ = update(t, m, m.loadWeek(m.ctrl.Reload)())
	if m.loading {
		t.Error("loading should clear after a load")
	}
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 160, Height: 50})

	view := m.View()
	if !strings.Contains(view, "Week of "+calendar.Today(time.UTC).Title()) {
		t.Errorf("view missing week header:\n%s", view)
	}
	if !strings.Contains(view, "Cat 1 Session") {
		t.Errorf("view missing seeded slot:\n%s", view)
	}
	if !strings.Contains(view, "alice (staff)") {
		t.Errorf("view missing user:\n%s", view)
	}
}

func TestBookFromGrid(t *testing.T) {
	m := setupModel(t)
	m, _ = update(t, m, m.loadWeek(m.ctrl.Reload)())

	// Monday always has seeded slots.
	for i := 0; i < 6; i++ {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	}
	slot, ok := m.weekModel.Selected()
	if !ok {
		t.Fatal("expected a selected slot on Monday")
	}

	m, cmd := update(t, m, runes("b"))
	if cmd == nil {
		t.Fatal("book should dispatch a command")
	}
	m, _ = update(t, m, cmd())

	if m.statusErr || m.status != constants.MsgBooked+" "+slot.Title {
		t.Errorf("status = %q (err %v)", m.status, m.statusErr)
	}
	latest, _ := m.ctrl.State().Find(slot.ID)
	if m.ctrl.Status(latest) != booking.StatusMine {
		t.Errorf("slot status = %v, want mine", m.ctrl.Status(latest))
	}

	// Booking an already held slot is not offered.
	if _, cmd := update(t, m, runes("b")); cmd != nil {
		t.Error("book should be disabled for a held slot")
	}

	m, cmd = update(t, m, runes("u"))
	if cmd == nil {
		t.Fatal("unbook should dispatch a command")
	}
	m, _ = update(t, m, cmd())
	if m.status != constants.MsgUnbooked+" "+slot.Title {
		t.Errorf("status = %q", m.status)
	}
}

func TestLoadResults(t *testing.T) {
	tests := []struct {
		name      string
		msg       slotsLoadedMsg
		wantState string
		loading   bool
	}{
		{
			name:    "stale response is dropped",
			msg:     slotsLoadedMsg{err: booking.ErrStale},
			loading: true,
		},
		{
			name:      "transport failure",
			msg:       slotsLoadedMsg{err: wserrors.Transport("list slots", stderrors.New("refused"))},
			wantState: constants.MsgUnreachable,
		},
		{
			name:      "unknown failure",
			msg:       slotsLoadedMsg{err: stderrors.New("boom")},
			wantState: constants.MsgLoadFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := setupModel(t)
			m, _ = update(t, m, tt.msg)
			if m.status != tt.wantState {
				t.Errorf("status = %q, want %q", m.status, tt.wantState)
			}
			if m.loading != tt.loading {
				t.Errorf("loading = %v, want %v", m.loading, tt.loading)
			}
		})
	}
}

func TestActionFailureUsesRejectionMessage(t *testing.T) {
	m := setupModel(t)
	m, _ = update(t, m, actionDoneMsg{
		action: constants.ActionBook,
		slot:   models.TimeSlot{ID: "1"},
		err:    wserrors.Reject("book", 400, "This slot is already booked"),
	})
	if !m.statusErr || m.status != "This slot is already booked" {
		t.Errorf("status = %q (err %v)", m.status, m.statusErr)
	}

	m.setStatus("", false)
	m, _ = update(t, m, actionDoneMsg{action: constants.ActionBook, err: booking.ErrInFlight})
	if m.status != "" {
		t.Errorf("in-flight rejection should be silent, got %q", m.status)
	}
}

func TestTabsAndAdmin(t *testing.T) {
	m := setupModel(t)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.state != constants.StatePreferences {
		t.Fatalf("state = %v, want preferences", m.state)
	}
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.state != constants.StateAdmin || cmd == nil {
		t.Fatalf("state = %v, want admin with a load command", m.state)
	}
	m, _ = update(t, m, cmd())
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 160, Height: 50})
	if !strings.Contains(m.View(), "20 slot(s)") {
		t.Errorf("admin view:\n%s", m.View())
	}

	// A viewer who is not staff never reaches the admin tab.
	m.session.Set(models.User{ID: "u2", Username: "bob"})
	m.state = constants.StatePreferences
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.state != constants.StateCalendar {
		t.Errorf("state = %v, want calendar", m.state)
	}
}

func TestPrefsLoadAndSave(t *testing.T) {
	m := setupModel(t)

	m, _ = update(t, m, m.loadPrefs()())
	cats := m.prefsModel.Categories()
	if len(cats) != 3 {
		t.Fatalf("categories = %d, want 3", len(cats))
	}

	m, cmd := update(t, m, m.savePrefs([]models.ID{cats[1].ID})())
	if m.status != constants.MsgPrefsSaved || cmd == nil {
		t.Fatalf("status = %q, want saved and a reload", m.status)
	}
	m, _ = update(t, m, cmd())
	for _, s := range m.ctrl.State().Slots {
		if s.Category != cats[1].ID {
			t.Errorf("slot %s in category %s leaked through preferences", s.ID, s.Category)
		}
	}
}

func TestSubmitSlotForm(t *testing.T) {
	m := setupModel(t)
	m, _ = update(t, m, m.loadPrefs()())
	m, _ = update(t, m, admin.CreateSlotMsg{})

	m.slotForm.Title = "Yoga"
	mm, _ := m.submitSlotForm()
	if mm.formError != constants.MsgFillAllFields || mm.state != constants.StateCreateSlot {
		t.Errorf("formError = %q, state = %v", mm.formError, mm.state)
	}

	cats := m.prefsModel.Categories()
	*m.slotForm = state.SlotFormModel{Title: "Yoga", Category: cats[0].ID, Start: "2026-10-12 09:00", End: "2026-10-12 10:00"}
	mm, cmd := m.submitSlotForm()
	if mm.state != constants.StateAdmin || cmd == nil {
		t.Fatalf("state = %v, want admin with a create command", mm.state)
	}
	created, _ := update(t, mm, cmd())
	if created.status != constants.MsgSlotCreated {
		t.Errorf("status = %q", created.status)
	}
}

func TestNextCategory(t *testing.T) {
	cats := []models.Category{{ID: "1"}, {ID: "2"}}
	steps := []models.ID{"1", "2", ""}
	current := models.ID("")
	for _, want := range steps {
		current = nextCategory(cats, current)
		if current != want {
			t.Fatalf("nextCategory() = %q, want %q", current, want)
		}
	}
	if nextCategory(nil, "1") != "" {
		t.Error("no categories should clear the filter")
	}
}

func TestQuitUnsubscribes(t *testing.T) {
	m := setupModel(t)
	m, cmd := update(t, m, runes("q"))
	if !m.quitting || cmd == nil {
		t.Fatal("q should quit")
	}
	if msg := m.waitForSession()(); msg != nil {
		t.Errorf("closed subscription should end the loop, got %T", msg)
	}
}
