package calendar

import (
	"time"

	"github.com/julianstephens/weekslot/internal/models"
)

// DayBounds returns 00:00:00.000 and 23:59:59.999 of day in day's location.
func DayBounds(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, int(999*time.Millisecond), day.Location())
	return start, end
}

// IsVisibleOnDay reports whether [start, end) overlaps the given day.
// A slot ending exactly at midnight does not appear on the following day.
func IsVisibleOnDay(start, end, day time.Time) bool {
	dayStart, dayEnd := DayBounds(day)
	return start.Before(dayEnd) && end.After(dayStart)
}

// SlotVisibleOnDay applies IsVisibleOnDay to a slot.
func SlotVisibleOnDay(slot models.TimeSlot, day time.Time) bool {
	return IsVisibleOnDay(slot.Start, slot.End, day)
}

// FilterSlotsForDay returns the slots visible on day, preserving input order.
// The result is never nil.
func FilterSlotsForDay(slots []models.TimeSlot, day time.Time) []models.TimeSlot {
	out := make([]models.TimeSlot, 0, len(slots))
	for _, s := range slots {
		if SlotVisibleOnDay(s, day) {
			out = append(out, s)
		}
	}
	return out
}

// GroupByDay buckets slots into the window's seven days. A multi-day slot
// appears in every day it crosses.
func GroupByDay(w Window, slots []models.TimeSlot) [7][]models.TimeSlot {
	var grid [7][]models.TimeSlot
	for i, d := range w.Days {
		grid[i] = FilterSlotsForDay(slots, d.Date)
	}
	return grid
}
