package booking

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/julianstephens/weekslot/internal/calendar"
	"github.com/julianstephens/weekslot/internal/constants"
	"github.com/julianstephens/weekslot/internal/errors"
	"github.com/julianstephens/weekslot/internal/logger"
	"github.com/julianstephens/weekslot/internal/models"
)

// ErrInFlight is returned when an action is started on a slot that already
// has a request in flight.
var ErrInFlight = stderrors.New("an action on this slot is already in progress")

// ErrStale is returned by a reload whose response was superseded by a newer one.
var ErrStale = stderrors.New("reload superseded by a newer request")

// SlotStore is the part of the authority the controller talks to.
type SlotStore interface {
	ListSlots(ctx context.Context, weekStart time.Time, categoryID models.ID) ([]models.TimeSlot, error)
	BookSlot(ctx context.Context, id models.ID) (models.TimeSlot, error)
	UnbookSlot(ctx context.Context, id models.ID) (models.TimeSlot, error)
}

// Identity supplies the viewer's id.
type Identity interface {
	CurrentUserID() (models.ID, bool)
}

// ViewState is an immutable snapshot of the calendar view. The controller
// replaces it wholesale; callers must not mutate the slices or map.
type ViewState struct {
	Week       calendar.Window
	CategoryID models.ID
	Slots      []models.TimeSlot
	Pending    map[models.ID]constants.SlotAction
	Loading    bool
	Err        error
	LoadedAt   time.Time
}

// IsPending reports whether a request for the slot is in flight.
func (v ViewState) IsPending(id models.ID) bool {
	_, ok := v.Pending[id]
	return ok
}

// SlotsForDay returns the cached slots visible on the given day of the week.
func (v ViewState) SlotsForDay(day calendar.Day) []models.TimeSlot {
	return calendar.FilterSlotsForDay(v.Slots, day.Date)
}

// Find returns the cached slot with the given id.
func (v ViewState) Find(id models.ID) (models.TimeSlot, bool) {
	for _, s := range v.Slots {
		if s.ID == id {
			return s, true
		}
	}
	return models.TimeSlot{}, false
}

// Controller orchestrates loading and booking for one calendar view.
type Controller struct {
	store    SlotStore
	identity Identity
	notifier Notifier
	loc      *time.Location

	mu    sync.Mutex
	state ViewState
	gen   uint64
}

// New creates a controller showing the current week in loc. A nil notifier
// discards notices and a nil identity treats the viewer as unknown.
func New(store SlotStore, identity Identity, notifier Notifier, loc *time.Location) *Controller {
	if loc == nil {
		loc = time.Local
	}
	return &Controller{
		store:    store,
		identity: identity,
		notifier: notifier,
		loc:      loc,
		state:    ViewState{Week: calendar.Today(loc)},
	}
}

// State returns the current snapshot.
func (c *Controller) State() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Location returns the zone the week is computed in.
func (c *Controller) Location() *time.Location { return c.loc }

// Status returns the viewer's relation to slot, taking in-flight requests
// into account.
func (c *Controller) Status(slot models.TimeSlot) Status {
	viewer, known := c.viewer()
	return StatusFor(slot, viewer, known, c.State().IsPending(slot.ID))
}

func (c *Controller) viewer() (models.ID, bool) {
	if c.identity == nil {
		return "", false
	}
	return c.identity.CurrentUserID()
}

// Reload fetches the current week again.
func (c *Controller) Reload(ctx context.Context) (ViewState, error) {
	st := c.State()
	return c.load(ctx, st.Week, st.CategoryID)
}

// SetWeek moves the view to the week containing ref and reloads.
func (c *Controller) SetWeek(ctx context.Context, ref time.Time) (ViewState, error) {
	return c.load(ctx, calendar.ComputeWeek(ref.In(c.loc)), c.State().CategoryID)
}

// ShiftWeek moves the view by delta weeks and reloads.
func (c *Controller) ShiftWeek(ctx context.Context, delta int) (ViewState, error) {
	st := c.State()
	return c.load(ctx, calendar.ShiftWeek(st.Week, delta), st.CategoryID)
}

// GoToday moves the view to the current week and reloads.
func (c *Controller) GoToday(ctx context.Context) (ViewState, error) {
	return c.load(ctx, calendar.Today(c.loc), c.State().CategoryID)
}

// SetView moves to the week containing ref with the given category filter
// in a single reload.
func (c *Controller) SetView(ctx context.Context, ref time.Time, categoryID models.ID) (ViewState, error) {
	return c.load(ctx, calendar.ComputeWeek(ref.In(c.loc)), categoryID)
}

// SetCategory filters the view to one category and reloads. An empty id
// removes the filter.
func (c *Controller) SetCategory(ctx context.Context, categoryID models.ID) (ViewState, error) {
	return c.load(ctx, c.State().Week, categoryID)
}

func (c *Controller) load(ctx context.Context, week calendar.Window, categoryID models.ID) (ViewState, error) {
	c.mu.Lock()
	c.gen++
	ticket := c.gen
	next := c.state
	if !next.Week.Equal(week) || next.CategoryID != categoryID {
		next.Slots = nil
		next.LoadedAt = time.Time{}
	}
	next.Week = week
	next.CategoryID = categoryID
	next.Loading = true
	next.Err = nil
	c.state = next
	c.mu.Unlock()

	logger.Debug("loading slots", "week", week.ISOStart(), "category", categoryID, "ticket", ticket)
	slots, err := c.store.ListSlots(ctx, week.Start, categoryID)

	c.mu.Lock()
	if ticket != c.gen {
		st := c.state
		c.mu.Unlock()
		logger.Debug("discarding stale slot list", "week", week.ISOStart(), "ticket", ticket)
		return st, ErrStale
	}
	next = c.state
	next.Loading = false
	if err != nil {
		next.Err = err
	} else {
		if slots == nil {
			slots = []models.TimeSlot{}
		}
		next.Slots = slots
		next.LoadedAt = time.Now()
	}
	c.state = next
	c.mu.Unlock()

	if err != nil {
		logger.Warn("failed to load slots", "week", week.ISOStart(), "error", err)
		c.notify(Notice{Message: errors.UserMessage(err, constants.MsgLoadFailed), Err: err})
		return next, fmt.Errorf("failed to load week %s: %w", week.ISOStart(), err)
	}
	logger.Debug("slots loaded", "week", week.ISOStart(), "count", len(slots))
	return next, nil
}

// Book asks the authority to reserve slot for the viewer. The cache changes
// only when the authority confirms, and then only by replacing the slot with
// the canonical copy returned.
func (c *Controller) Book(ctx context.Context, slot models.TimeSlot) (models.TimeSlot, error) {
	return c.act(ctx, constants.ActionBook, slot, c.store.BookSlot, constants.MsgBooked, constants.MsgBookFailed)
}

// Unbook asks the authority to release slot. Same reconciliation as Book.
func (c *Controller) Unbook(ctx context.Context, slot models.TimeSlot) (models.TimeSlot, error) {
	return c.act(ctx, constants.ActionUnbook, slot, c.store.UnbookSlot, constants.MsgUnbooked, constants.MsgUnbookFailed)
}

func (c *Controller) act(
	ctx context.Context,
	action constants.SlotAction,
	slot models.TimeSlot,
	call func(context.Context, models.ID) (models.TimeSlot, error),
	success, fallback string,
) (models.TimeSlot, error) {
	c.mu.Lock()
	if c.state.IsPending(slot.ID) {
		c.mu.Unlock()
		return models.TimeSlot{}, ErrInFlight
	}
	next := c.state
	next.Pending = withPending(c.state.Pending, slot.ID, action)
	c.state = next
	c.mu.Unlock()

	updated, err := call(ctx, slot.ID)

	c.mu.Lock()
	next = c.state
	next.Pending = withoutPending(c.state.Pending, slot.ID)
	if err == nil {
		next.Slots = ReplaceSlot(c.state.Slots, updated)
	}
	c.state = next
	c.mu.Unlock()

	if err != nil {
		logger.Warn("slot action failed", "action", action, "slot", slot.ID, "error", err)
		c.notify(Notice{Action: action, Slot: slot, Message: errors.UserMessage(err, fallback), Err: err})
		return models.TimeSlot{}, fmt.Errorf("%s slot %s: %w", action, slot.ID, err)
	}

	logger.Info("slot action succeeded", "action", action, "slot", updated.ID)
	c.notify(Notice{Action: action, Slot: updated, Message: success})
	return updated, nil
}

func (c *Controller) notify(n Notice) {
	if c.notifier != nil {
		c.notifier.Notify(n)
	}
}

// ReplaceSlot returns a copy of slots with the element whose id matches
// updated replaced in place. Order and length are preserved; an absent id
// yields an unchanged copy.
func ReplaceSlot(slots []models.TimeSlot, updated models.TimeSlot) []models.TimeSlot {
	out := make([]models.TimeSlot, len(slots))
	copy(out, slots)
	for i := range out {
		if out[i].ID == updated.ID {
			out[i] = updated
		}
	}
	return out
}

func withPending(m map[models.ID]constants.SlotAction, id models.ID, a constants.SlotAction) map[models.ID]constants.SlotAction {
	out := make(map[models.ID]constants.SlotAction, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	out[id] = a
	return out
}

func withoutPending(m map[models.ID]constants.SlotAction, id models.ID) map[models.ID]constants.SlotAction {
	if _, ok := m[id]; !ok {
		return m
	}
	if len(m) == 1 {
		return nil
	}
	out := make(map[models.ID]constants.SlotAction, len(m)-1)
	for k, v := range m {
		if k != id {
			out[k] = v
		}
	}
	return out
}
