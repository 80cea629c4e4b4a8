package handlers

import "github.com/julianstephens/weekslot/internal/constants"

// MainViews lists the tab order. The admin tab is only reachable by staff.
var MainViews = []constants.SessionState{
	constants.StateCalendar,
	constants.StatePreferences,
	constants.StateAdmin,
}

// NextView returns the tab after current, wrapping. Sub-states such as open
// forms are returned unchanged.
func NextView(current constants.SessionState, staff bool) constants.SessionState {
	return cycle(current, staff, 1)
}

// PrevView is NextView in reverse.
func PrevView(current constants.SessionState, staff bool) constants.SessionState {
	return cycle(current, staff, -1)
}

func cycle(current constants.SessionState, staff bool, step int) constants.SessionState {
	views := visibleViews(staff)
	for i, v := range views {
		if v == current {
			return views[(i+step+len(views))%len(views)]
		}
	}
	return current
}

func visibleViews(staff bool) []constants.SessionState {
	if staff {
		return MainViews
	}
	out := make([]constants.SessionState, 0, len(MainViews))
	for _, v := range MainViews {
		if v != constants.StateAdmin {
			out = append(out, v)
		}
	}
	return out
}
