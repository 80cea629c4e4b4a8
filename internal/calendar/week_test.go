package calendar

import (
	"testing"
	"time"
)

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Skipf("timezone %s unavailable: %v", name, err)
	}
	return loc
}

func TestComputeWeekMondayAlignment(t *testing.T) {
	loc := time.UTC
	tests := []struct {
		name      string
		ref       time.Time
		wantStart string
	}{
		{name: "monday morning", ref: time.Date(2024, 3, 4, 9, 0, 0, 0, loc), wantStart: "2024-03-04"},
		{name: "wednesday", ref: time.Date(2024, 3, 6, 12, 30, 0, 0, loc), wantStart: "2024-03-04"},
		{name: "saturday late", ref: time.Date(2024, 3, 9, 23, 59, 59, 0, loc), wantStart: "2024-03-04"},
		{name: "sunday belongs to previous monday", ref: time.Date(2024, 3, 10, 8, 0, 0, 0, loc), wantStart: "2024-03-04"},
		{name: "sunday across month boundary", ref: time.Date(2024, 9, 1, 10, 0, 0, 0, loc), wantStart: "2024-08-26"},
		{name: "thursday across year boundary", ref: time.Date(2026, 1, 1, 0, 0, 0, 0, loc), wantStart: "2025-12-29"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ComputeWeek(tt.ref)
			if got := w.ISOStart(); got != tt.wantStart {
				t.Errorf("ComputeWeek(%v).ISOStart() = %s, want %s", tt.ref, got, tt.wantStart)
			}
			if w.Start.Hour() != 0 || w.Start.Minute() != 0 || w.Start.Second() != 0 || w.Start.Nanosecond() != 0 {
				t.Errorf("Start not at midnight: %v", w.Start)
			}
		})
	}
}

func TestComputeWeekProperties(t *testing.T) {
	locs := []*time.Location{time.UTC, mustLoad(t, "America/New_York"), mustLoad(t, "Australia/Sydney")}

	for _, loc := range locs {
		ref := time.Date(2023, 1, 1, 13, 17, 0, 0, loc)
		for i := 0; i < 800; i++ {
			r := ref.AddDate(0, 0, i)
			w := ComputeWeek(r)

			if w.Days[0].Date.Weekday() != time.Monday {
				t.Fatalf("%v: first day is %v, want Monday", r, w.Days[0].Date.Weekday())
			}
			if !w.Days[0].Date.Equal(w.Start) {
				t.Fatalf("%v: Days[0] != Start", r)
			}
			if w.Days[6].Date.Weekday() != time.Sunday {
				t.Fatalf("%v: last day is %v, want Sunday", r, w.Days[6].Date.Weekday())
			}
			if !w.Days[6].Date.Equal(w.End) {
				t.Fatalf("%v: Days[6] != End", r)
			}
			if !sameDate(w.Days[6].Date, w.Start.AddDate(0, 0, 6)) {
				t.Fatalf("%v: Days[6] is not Monday + 6 days", r)
			}

			rMidnight := time.Date(r.Year(), r.Month(), r.Day(), 0, 0, 0, 0, loc)
			if rMidnight.Before(w.Start) || rMidnight.After(w.End) {
				t.Fatalf("%v: outside window %v..%v", r, w.Start, w.End)
			}
			if !w.Contains(r) {
				t.Fatalf("%v: Contains() = false", r)
			}
			for d := 0; d < 7; d++ {
				day := w.Days[d].Date
				if day.Hour() != 0 || day.Minute() != 0 {
					t.Fatalf("%v: day %d not at midnight: %v", r, d, day)
				}
			}
		}
	}
}

func TestComputeWeekIsDeterministic(t *testing.T) {
	ref := time.Date(2024, 11, 3, 1, 30, 0, 0, mustLoad(t, "America/New_York"))
	a := ComputeWeek(ref)
	b := ComputeWeek(ref)
	if a != b {
		t.Errorf("ComputeWeek() not deterministic: %+v vs %+v", a, b)
	}
}

func TestDayLabels(t *testing.T) {
	w := ComputeWeek(time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC))
	want := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	for i, d := range w.Days {
		if d.Label != want[i] {
			t.Errorf("Days[%d].Label = %s, want %s", i, d.Label, want[i])
		}
	}
}

func TestShiftWeekRoundTrip(t *testing.T) {
	loc := mustLoad(t, "Europe/London")
	ref := time.Date(2024, 3, 27, 10, 0, 0, 0, loc) // week containing the spring DST change
	w := ComputeWeek(ref)

	next := ShiftWeek(w, 1)
	if got := next.ISOStart(); got != "2024-04-01" {
		t.Errorf("ShiftWeek(+1) = %s, want 2024-04-01", got)
	}
	back := ShiftWeek(next, -1)
	if !back.Start.Equal(w.Start) {
		t.Errorf("round trip Start = %v, want %v", back.Start, w.Start)
	}

	far := ShiftWeek(ShiftWeek(w, 52), -52)
	if !far.Equal(w) {
		t.Errorf("52-week round trip Start = %v, want %v", far.Start, w.Start)
	}
}

func TestExclusiveEnd(t *testing.T) {
	w := ComputeWeek(time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC))
	want := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	if !w.ExclusiveEnd().Equal(want) {
		t.Errorf("ExclusiveEnd() = %v, want %v", w.ExclusiveEnd(), want)
	}
	if w.Contains(want) {
		t.Error("Contains(ExclusiveEnd) = true, want false")
	}
}

func TestTodayAndIsToday(t *testing.T) {
	orig := nowFunc
	defer func() { nowFunc = orig }()
	nowFunc = func() time.Time { return time.Date(2024, 7, 14, 18, 0, 0, 0, time.UTC) } // Sunday

	w := Today(time.UTC)
	if got := w.ISOStart(); got != "2024-07-08" {
		t.Errorf("Today().ISOStart() = %s, want 2024-07-08", got)
	}
	if !IsToday(w.Days[6].Date) {
		t.Error("IsToday(Sunday) = false, want true")
	}
	if IsToday(w.Days[5].Date) {
		t.Error("IsToday(Saturday) = true, want false")
	}
}

func TestTitle(t *testing.T) {
	w := ComputeWeek(time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC))
	if got := w.Title(); got != "Mar 4 - Mar 10, 2024" {
		t.Errorf("Title() = %q", got)
	}
	y := ComputeWeek(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))
	if got := y.Title(); got != "Dec 29, 2025 - Jan 4, 2026" {
		t.Errorf("Title() across years = %q", got)
	}
}
