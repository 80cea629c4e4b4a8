package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/weekslot/internal/booking"
	"github.com/julianstephens/weekslot/internal/constants"
	wserrors "github.com/julianstephens/weekslot/internal/errors"
	"github.com/julianstephens/weekslot/internal/logger"
	"github.com/julianstephens/weekslot/internal/models"
	"github.com/julianstephens/weekslot/internal/tui/components/admin"
	"github.com/julianstephens/weekslot/internal/tui/components/prefs"
	"github.com/julianstephens/weekslot/internal/tui/handlers"
	"github.com/julianstephens/weekslot/internal/tui/state"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		body := msg.Height - 6
		m.weekModel.SetSize(msg.Width, body)
		m.prefsModel.SetSize(msg.Width, body)
		m.adminModel.SetSize(msg.Width-4, body-2)
		return m, nil
	}

	if m.state == constants.StateEditPreferences || m.state == constants.StateCreateSlot {
		if mm, cmd, handled := m.updateForm(msg); handled {
			return mm, cmd
		}
	}

	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case slotsLoadedMsg:
		if errors.Is(msg.err, booking.ErrStale) {
			return m, nil
		}
		m.loading = false
		m.weekModel.SetState(msg.state, m.ctrl.Status)
		if msg.err != nil {
			m.setStatus(wserrors.UserMessage(msg.err, constants.MsgLoadFailed), true)
		}
		return m, nil

	case actionDoneMsg:
		m.weekModel.SetState(m.ctrl.State(), m.ctrl.Status)
		switch {
		case errors.Is(msg.err, booking.ErrInFlight):
		case msg.err != nil:
			fallback := constants.MsgBookFailed
			if msg.action == constants.ActionUnbook {
				fallback = constants.MsgUnbookFailed
			}
			m.setStatus(wserrors.UserMessage(msg.err, fallback), true)
		default:
			text := constants.MsgBooked
			if msg.action == constants.ActionUnbook {
				text = constants.MsgUnbooked
			}
			m.setStatus(fmt.Sprintf("%s %s", text, msg.slot.Title), false)
		}
		return m, nil

	case prefsLoadedMsg:
		if msg.catErr != nil {
			logger.Warn("failed to load categories", "error", msg.catErr)
			m.setStatus(wserrors.UserMessage(msg.catErr, constants.MsgPrefsLoadFailed), true)
		} else if msg.prefsErr != nil {
			logger.Warn("failed to load preferences", "error", msg.prefsErr)
			m.setStatus(wserrors.UserMessage(msg.prefsErr, constants.MsgPrefsLoadFailed), true)
		}
		m.prefsModel.SetData(msg.categories, msg.prefs)
		return m, nil

	case prefsSavedMsg:
		if msg.err != nil {
			m.setStatus(wserrors.UserMessage(msg.err, constants.MsgPrefsFailed), true)
			return m, nil
		}
		m.prefsModel.SetData(m.prefsModel.Categories(), msg.prefs)
		m.setStatus(constants.MsgPrefsSaved, false)
		// Preferences scope the week listing.
		m.loading = true
		return m, m.loadWeek(m.ctrl.Reload)

	case adminLoadedMsg:
		if msg.err != nil {
			m.adminModel.SetError(wserrors.UserMessage(msg.err, constants.MsgAdminLoadFailed))
			return m, nil
		}
		m.adminModel.SetSlots(msg.slots)
		return m, nil

	case slotCreatedMsg:
		if msg.err != nil {
			m.setStatus(wserrors.UserMessage(msg.err, constants.MsgCreateFailed), true)
			return m, nil
		}
		m.setStatus(constants.MsgSlotCreated, false)
		m.loading = true
		return m, tea.Batch(m.loadAdmin(), m.loadWeek(m.ctrl.Reload))

	case sessionChangedMsg:
		if msg.change.User == nil && m.state == constants.StateAdmin {
			m.state = constants.StateCalendar
		}
		m.weekModel.SetState(m.ctrl.State(), m.ctrl.Status)
		return m, m.waitForSession()

	case prefs.EditPreferencesMsg:
		return m.openPrefsForm()

	case admin.CreateSlotMsg:
		return m.openSlotForm()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		if m.unsubscribe != nil {
			m.unsubscribe()
		}
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.ShiftTab):
		prev := m.state
		if key.Matches(msg, m.keys.Tab) {
			m.state = handlers.NextView(m.state, m.isStaff())
		} else {
			m.state = handlers.PrevView(m.state, m.isStaff())
		}
		if m.state == constants.StateAdmin && prev != constants.StateAdmin {
			return m, m.loadAdmin()
		}
		return m, nil
	}

	switch m.state {
	case constants.StateCalendar:
		return m.handleCalendarKey(msg)
	case constants.StatePreferences:
		var cmd tea.Cmd
		m.prefsModel, cmd = m.prefsModel.Update(msg)
		return m, cmd
	case constants.StateAdmin:
		if key.Matches(msg, m.keys.Reload) {
			return m, m.loadAdmin()
		}
		var cmd tea.Cmd
		m.adminModel, cmd = m.adminModel.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleCalendarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.PrevWeek):
		return m.reload(func(ctx context.Context) (booking.ViewState, error) { return m.ctrl.ShiftWeek(ctx, -1) })
	case key.Matches(msg, m.keys.NextWeek):
		return m.reload(func(ctx context.Context) (booking.ViewState, error) { return m.ctrl.ShiftWeek(ctx, 1) })
	case key.Matches(msg, m.keys.Today):
		return m.reload(m.ctrl.GoToday)
	case key.Matches(msg, m.keys.Reload):
		return m.reload(m.ctrl.Reload)
	case key.Matches(msg, m.keys.Filter):
		next := nextCategory(m.prefsModel.Categories(), m.ctrl.State().CategoryID)
		return m.reload(func(ctx context.Context) (booking.ViewState, error) { return m.ctrl.SetCategory(ctx, next) })
	case key.Matches(msg, m.keys.Book):
		return m.startAction(constants.ActionBook)
	case key.Matches(msg, m.keys.Unbook):
		return m.startAction(constants.ActionUnbook)
	}

	var cmd tea.Cmd
	m.weekModel, cmd = m.weekModel.Update(msg)
	return m, cmd
}

func (m Model) reload(fn func(context.Context) (booking.ViewState, error)) (tea.Model, tea.Cmd) {
	m.loading = true
	return m, tea.Batch(m.loadWeek(fn), m.spinner.Tick)
}

// startAction dispatches a book or unbook for the selected slot when the
// current status allows it.
func (m Model) startAction(action constants.SlotAction) (tea.Model, tea.Cmd) {
	slot, ok := m.weekModel.Selected()
	if !ok {
		return m, nil
	}
	st := m.ctrl.Status(slot)
	if action == constants.ActionBook && !st.CanBook() {
		return m, nil
	}
	if action == constants.ActionUnbook && !st.CanUnbook() {
		return m, nil
	}
	return m, m.slotAction(action, slot)
}

func (m Model) openPrefsForm() (tea.Model, tea.Cmd) {
	current := m.prefsModel.Preferences().Categories
	m.prefsForm = &state.PrefsFormModel{Categories: append([]models.ID(nil), current...)}
	m.form = handlers.NewPreferencesForm(m.prefsForm, m.prefsModel.Categories())
	m.state = constants.StateEditPreferences
	return m, m.form.Init()
}

func (m Model) openSlotForm() (tea.Model, tea.Cmd) {
	m.slotForm = &state.SlotFormModel{}
	m.formError = ""
	m.form = handlers.NewSlotForm(m.slotForm, m.prefsModel.Categories(), m.location())
	m.state = constants.StateCreateSlot
	return m, m.form.Init()
}

// updateForm routes input to the open form. handled is false for messages
// the form does not own, such as load results.
func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd, bool) {
	switch msg.(type) {
	case slotsLoadedMsg, actionDoneMsg, prefsLoadedMsg, prefsSavedMsg,
		adminLoadedMsg, slotCreatedMsg, sessionChangedMsg, spinner.TickMsg:
		return m, nil, false
	}

	back := constants.StatePreferences
	if m.state == constants.StateCreateSlot {
		back = constants.StateAdmin
	}

	if km, ok := msg.(tea.KeyMsg); ok && km.Type == tea.KeyEsc {
		m.state = back
		m.form = nil
		return m, nil, true
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if m.state == constants.StateCreateSlot {
			mm, submit := m.submitSlotForm()
			return mm, tea.Batch(cmd, submit), true
		}
		m.state = back
		return m, tea.Batch(cmd, m.savePrefs(m.prefsForm.Categories)), true
	case huh.StateAborted:
		m.state = back
	}
	return m, cmd, true
}

// submitSlotForm validates the create form. Failures reopen the form with
// the typed values kept.
func (m Model) submitSlotForm() (Model, tea.Cmd) {
	in, err := m.slotForm.NewSlot(m.location())
	if err != nil {
		if errors.Is(err, state.ErrFillAllFields) {
			m.formError = constants.MsgFillAllFields
		} else {
			m.formError = wserrors.UserMessage(err, constants.MsgCreateFailed)
		}
		m.form = handlers.NewSlotForm(m.slotForm, m.prefsModel.Categories(), m.location())
		return m, m.form.Init()
	}

	m.formError = ""
	m.form = nil
	m.state = constants.StateAdmin
	return m, m.createSlot(in)
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

// nextCategory cycles the filter: no filter, then each category in order.
func nextCategory(cats []models.Category, current models.ID) models.ID {
	if len(cats) == 0 {
		return ""
	}
	if current.IsZero() {
		return cats[0].ID
	}
	for i, c := range cats {
		if c.ID == current {
			if i+1 < len(cats) {
				return cats[i+1].ID
			}
			return ""
		}
	}
	return ""
}
