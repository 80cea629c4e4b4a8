package calendar

import (
	"time"

	"github.com/julianstephens/weekslot/internal/constants"
)

// nowFunc is the clock used by Today and IsToday.
var nowFunc = time.Now

// Day is one column of the week grid.
type Day struct {
	Label string
	Date  time.Time
}

// Window is a Monday-aligned 7-day span. Start is Monday at local midnight,
// End is the Sunday at local midnight (inclusive day, not an exclusive bound).
type Window struct {
	Start time.Time
	End   time.Time
	Days  [7]Day
}

// ComputeWeek returns the window containing ref, using ref's location as the
// local calendar.
func ComputeWeek(ref time.Time) Window {
	loc := ref.Location()
	dow := int(ref.Weekday())
	offset := 1 - dow
	if dow == 0 {
		offset = -6
	}
	// time.Date normalizes day overflow and keeps midnight stable across DST.
	monday := time.Date(ref.Year(), ref.Month(), ref.Day()+offset, 0, 0, 0, 0, loc)

	w := Window{
		Start: monday,
		End:   addDays(monday, 6),
	}
	for i := range w.Days {
		w.Days[i] = Day{Label: constants.DayLabels[i], Date: addDays(monday, i)}
	}
	return w
}

// ShiftWeek moves the window by delta weeks.
func ShiftWeek(w Window, delta int) Window {
	return ComputeWeek(addDays(w.Start, 7*delta))
}

// Today returns the window containing the current instant in loc.
func Today(loc *time.Location) Window {
	if loc == nil {
		loc = time.Local
	}
	return ComputeWeek(nowFunc().In(loc))
}

// ExclusiveEnd is the midnight following the window's Sunday.
func (w Window) ExclusiveEnd() time.Time {
	return addDays(w.Start, 7)
}

// Contains reports whether t falls within [Start, ExclusiveEnd).
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.ExclusiveEnd())
}

// ISOStart formats the window start as YYYY-MM-DD.
func (w Window) ISOStart() string {
	return w.Start.Format(constants.DateFormat)
}

// Title renders "Jan 2 - Jan 8, 2006" for headers.
func (w Window) Title() string {
	if w.Start.Year() != w.End.Year() {
		return w.Start.Format("Jan 2, 2006") + " - " + w.End.Format("Jan 2, 2006")
	}
	return w.Start.Format("Jan 2") + " - " + w.End.Format("Jan 2, 2006")
}

// Equal reports whether both windows start on the same instant.
func (w Window) Equal(o Window) bool {
	return w.Start.Equal(o.Start)
}

// IsToday reports whether day is the current calendar date in day's location.
func IsToday(day time.Time) bool {
	now := nowFunc().In(day.Location())
	return sameDate(now, day)
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func addDays(t time.Time, n int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+n, 0, 0, 0, 0, t.Location())
}
