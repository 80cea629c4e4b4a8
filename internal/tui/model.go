package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/weekslot/internal/booking"
	"github.com/julianstephens/weekslot/internal/constants"
	"github.com/julianstephens/weekslot/internal/models"
	"github.com/julianstephens/weekslot/internal/session"
	"github.com/julianstephens/weekslot/internal/storage"
	"github.com/julianstephens/weekslot/internal/tui/components/admin"
	"github.com/julianstephens/weekslot/internal/tui/components/prefs"
	"github.com/julianstephens/weekslot/internal/tui/components/week"
	"github.com/julianstephens/weekslot/internal/tui/state"
)

type Model struct {
	ctx         context.Context
	ctrl        *booking.Controller
	store       storage.Provider
	session     *session.Session
	sessionCh   <-chan session.Change
	unsubscribe func()
	state       constants.SessionState
	keys        KeyMap
	help        help.Model
	spinner     spinner.Model
	weekModel   week.Model
	prefsModel  prefs.Model
	adminModel  admin.Model
	form        *huh.Form
	prefsForm   *state.PrefsFormModel
	slotForm    *state.SlotFormModel
	status      string
	statusErr   bool
	formError   string
	loading     bool
	quitting    bool
	width       int
	height      int
}

// NewModel builds the TUI around an existing controller. The model
// subscribes to sess and unsubscribes when it quits.
func NewModel(ctx context.Context, ctrl *booking.Controller, store storage.Provider, sess *session.Session) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	if sess == nil {
		sess = session.New()
	}
	ch, cancel := sess.Subscribe()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	wm := week.New(ctrl.Location())
	wm.SetState(ctrl.State(), ctrl.Status)

	return Model{
		ctx:         ctx,
		ctrl:        ctrl,
		store:       store,
		session:     sess,
		sessionCh:   ch,
		unsubscribe: cancel,
		state:       constants.StateCalendar,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		spinner:     sp,
		weekModel:   wm,
		prefsModel:  prefs.New(0, 0),
		adminModel:  admin.New(0, 0, ctrl.Location()),
		loading:     true,
	}
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case constants.StateCalendar:
		keys = append(keys, m.keys.Book, m.keys.Unbook, m.keys.PrevWeek, m.keys.NextWeek)
	case constants.StatePreferences:
		keys = append(keys, m.keys.Edit)
	case constants.StateAdmin:
		keys = append(keys, m.keys.Add, m.keys.Reload)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help, m.keys.Reload}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Left, m.keys.Right}

	var actions []key.Binding
	switch m.state {
	case constants.StateCalendar:
		actions = []key.Binding{m.keys.Book, m.keys.Unbook, m.keys.PrevWeek, m.keys.NextWeek, m.keys.Today, m.keys.Filter}
	case constants.StatePreferences:
		actions = []key.Binding{m.keys.Edit}
	case constants.StateAdmin:
		actions = []key.Binding{m.keys.Add}
	}

	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.loadWeek(m.ctrl.Reload),
		m.loadPrefs(),
		m.waitForSession(),
	)
}

func (m Model) isStaff() bool {
	u := m.session.CurrentUser()
	return u != nil && u.IsStaff
}

func (m Model) location() *time.Location {
	return m.ctrl.Location()
}

// loadWeek runs a controller reload as a command.
func (m Model) loadWeek(fn func(context.Context) (booking.ViewState, error)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		st, err := fn(ctx)
		return slotsLoadedMsg{state: st, err: err}
	}
}

func (m Model) slotAction(action constants.SlotAction, slot models.TimeSlot) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		var (
			updated models.TimeSlot
			err     error
		)
		if action == constants.ActionBook {
			updated, err = ctrl.Book(ctx, slot)
		} else {
			updated, err = ctrl.Unbook(ctx, slot)
		}
		if err == nil {
			slot = updated
		}
		return actionDoneMsg{action: action, slot: slot, err: err}
	}
}

func (m Model) loadPrefs() tea.Cmd {
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		var msg prefsLoadedMsg
		msg.categories, msg.catErr = store.ListCategories(ctx)
		msg.prefs, msg.prefsErr = store.GetPreferences(ctx)
		return msg
	}
}

func (m Model) savePrefs(ids []models.ID) tea.Cmd {
	ctx, store := m.ctx, m.store
	if ids == nil {
		ids = []models.ID{}
	}
	return func() tea.Msg {
		p, err := store.UpdatePreferences(ctx, ids)
		return prefsSavedMsg{prefs: p, err: err}
	}
}

func (m Model) loadAdmin() tea.Cmd {
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		slots, err := store.ListAllSlots(ctx)
		return adminLoadedMsg{slots: slots, err: err}
	}
}

func (m Model) createSlot(in models.NewSlot) tea.Cmd {
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		slot, err := store.CreateSlot(ctx, in)
		return slotCreatedMsg{slot: slot, err: err}
	}
}

// waitForSession blocks until the identity changes. A closed subscription
// ends the loop.
func (m Model) waitForSession() tea.Cmd {
	ch := m.sessionCh
	return func() tea.Msg {
		change, ok := <-ch
		if !ok {
			return nil
		}
		return sessionChangedMsg{change: change}
	}
}
