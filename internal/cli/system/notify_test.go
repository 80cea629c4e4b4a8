package system

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/weekslot/internal/cli"
	"github.com/julianstephens/weekslot/internal/models"
	"github.com/julianstephens/weekslot/internal/storage/sqlite"
)

type recordingSender struct {
	sent []string
	err  error
}

func (r *recordingSender) Send(text string) error {
	r.sent = append(r.sent, text)
	return r.err
}

func withSender(t *testing.T, s Sender) {
	t.Helper()
	old := newSender
	newSender = func(*cli.Context) Sender { return s }
	t.Cleanup(func() { newSender = old })
}

func withNow(t *testing.T, now time.Time) {
	t.Helper()
	old := nowFunc
	nowFunc = func() time.Time { return now }
	t.Cleanup(func() { nowFunc = old })
}

func TestDueReminders(t *testing.T) {
	now := time.Date(2024, 3, 6, 9, 50, 0, 0, time.UTC)
	me, other := models.ID("7"), models.ID("8")
	slot := func(id string, start time.Time, by *models.ID) models.TimeSlot {
		return models.TimeSlot{ID: models.ID(id), Title: id, Start: start, End: start.Add(time.Hour), BookedBy: by}
	}

	slots := []models.TimeSlot{
		slot("soon", now.Add(10*time.Minute), &me),
		slot("now", now, &me),
		slot("later", now.Add(time.Hour), &me),
		slot("started", now.Add(-time.Minute), &me),
		slot("theirs", now.Add(5*time.Minute), &other),
		slot("free", now.Add(5*time.Minute), nil),
	}

	got := dueReminders(slots, me, now, 15*time.Minute)
	if len(got) != 2 || got[0].ID != "soon" || got[1].ID != "now" {
		t.Errorf("dueReminders() = %+v, want soon and now", got)
	}
}

func TestReminderText(t *testing.T) {
	now := time.Date(2024, 3, 6, 9, 50, 0, 0, time.UTC)
	slot := models.TimeSlot{Title: "Yoga", Start: now.Add(10 * time.Minute), End: now.Add(70 * time.Minute)}

	if got := reminderText(slot, now, time.UTC); got != "Upcoming: Yoga starts in 10 min (10:00-11:00)" {
		t.Errorf("reminderText() = %q", got)
	}
	slot.Start = now
	if got := reminderText(slot, now, time.UTC); !strings.HasPrefix(got, "Starting now: Yoga") {
		t.Errorf("reminderText() = %q", got)
	}
}

func TestNotifyCmd_SendsOwnBookings(t *testing.T) {
	ctx, out := setupTestDB(t)
	ctx.Location = time.UTC

	// Wednesday 08:50, ten minutes before the seeded 09:00 slot
	now := time.Date(2024, 3, 6, 8, 50, 0, 0, time.UTC)
	withNow(t, now)
	sender := &recordingSender{}
	withSender(t, sender)

	if err := ctx.Ready(); err != nil {
		t.Fatal(err)
	}
	store := ctx.Store.(*sqlite.Store)
	ctrl := ctx.Controller()
	st, err := ctrl.SetWeek(context.Background(), now)
	if err != nil {
		t.Fatal(err)
	}
	if len(st.Slots) != 0 {
		t.Fatalf("expected an empty week, got %d slots", len(st.Slots))
	}
	if _, err := store.SeedWeek(context.Background(), st.Week); err != nil {
		t.Fatal(err)
	}
	st, _ = ctrl.Reload(context.Background())

	var target models.TimeSlot
	for _, s := range st.Slots {
		if s.Start.Equal(time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC)) {
			target = s
		}
	}
	if target.ID.IsZero() {
		t.Fatal("seeded 09:00 slot not found")
	}
	if _, err := ctrl.Book(context.Background(), target); err != nil {
		t.Fatal(err)
	}

	if err := (&NotifyCmd{Within: 15 * time.Minute}).Run(ctx); err != nil {
		t.Fatalf("notify failed: %v", err)
	}
	if len(sender.sent) != 1 || !strings.Contains(sender.sent[0], "starts in 10 min") {
		t.Errorf("sent = %v, want one reminder", sender.sent)
	}

	out.Reset()
	sender.sent = nil
	if err := (&NotifyCmd{Within: 15 * time.Minute, DryRun: true}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if len(sender.sent) != 0 || !strings.Contains(out.String(), "[DryRun] Upcoming: "+target.Title) {
		t.Errorf("dry run sent %v, printed %q", sender.sent, out.String())
	}
}

func TestNotifyCmd_NothingDue(t *testing.T) {
	ctx, out := setupTestDB(t)
	withNow(t, time.Date(2024, 3, 6, 8, 50, 0, 0, time.UTC))
	withSender(t, &recordingSender{err: errors.New("tray down")})

	if err := (&NotifyCmd{Within: 15 * time.Minute}).Run(ctx); err != nil {
		t.Fatalf("notify failed: %v", err)
	}
	if strings.Contains(out.String(), "tray down") {
		t.Errorf("nothing was due, so nothing should be sent: %s", out.String())
	}
}
