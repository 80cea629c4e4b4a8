package tui

import (
	"github.com/julianstephens/weekslot/internal/booking"
	"github.com/julianstephens/weekslot/internal/constants"
	"github.com/julianstephens/weekslot/internal/models"
	"github.com/julianstephens/weekslot/internal/session"
)

type slotsLoadedMsg struct {
	state booking.ViewState
	err   error
}

type actionDoneMsg struct {
	action constants.SlotAction
	slot   models.TimeSlot
	err    error
}

type prefsLoadedMsg struct {
	categories []models.Category
	prefs      models.Preferences
	catErr     error
	prefsErr   error
}

type prefsSavedMsg struct {
	prefs models.Preferences
	err   error
}

type adminLoadedMsg struct {
	slots []models.TimeSlot
	err   error
}

type slotCreatedMsg struct {
	slot models.TimeSlot
	err  error
}

type sessionChangedMsg struct {
	change session.Change
}
