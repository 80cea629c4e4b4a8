package system

import (
	"fmt"
	"time"

	"github.com/julianstephens/weekslot/internal/cli"
	"github.com/julianstephens/weekslot/internal/models"
	"github.com/julianstephens/weekslot/internal/notifier"
	"github.com/julianstephens/weekslot/internal/utils"
)

// Sender delivers a reminder text.
type Sender interface {
	Send(text string) error
}

type traySender struct {
	ctx *cli.Context
	t   *notifier.Tray
}

func (s traySender) Send(text string) error {
	return s.t.Send(s.ctx.Context(), text)
}

// newSender is swapped in tests.
var newSender = func(ctx *cli.Context) Sender {
	return traySender{ctx: ctx, t: notifier.New()}
}

// NotifyCmd reminds the viewer of their own bookings that start soon. It is
// meant to run from cron or a systemd timer every minute.
type NotifyCmd struct {
	Within time.Duration `help:"Remind about bookings starting within this window." default:"15m"`
	DryRun bool          `help:"Print notifications to stdout instead of sending them."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	if err := ctx.Ready(); err != nil {
		return err
	}
	viewer, ok := ctx.Session.CurrentUserID()
	if !ok {
		if c.DryRun {
			ctx.Println("Not logged in; nothing to notify.")
		}
		return nil
	}

	now := nowFunc().In(ctx.Location)
	ctrl := ctx.Controller()
	st, err := ctrl.SetWeek(ctx.Context(), now)
	if err != nil {
		return err
	}
	slots := st.Slots
	// A window that crosses Sunday midnight also needs next week's slots.
	if !st.Week.Contains(now.Add(c.Within)) {
		next, err := ctrl.ShiftWeek(ctx.Context(), 1)
		if err != nil {
			return err
		}
		slots = append(append([]models.TimeSlot{}, slots...), next.Slots...)
	}

	upcoming := dueReminders(slots, viewer, now, c.Within)
	if len(upcoming) == 0 {
		if c.DryRun {
			ctx.Println("No bookings starting soon.")
		}
		return nil
	}

	sender := newSender(ctx)
	for _, slot := range upcoming {
		msg := reminderText(slot, now, ctx.Location)
		if c.DryRun {
			ctx.Println("[DryRun] " + msg)
			continue
		}
		if err := sender.Send(msg); err != nil {
			// Keep going so one failure does not hide later reminders
			ctx.Printf("Failed to send notification: %v\n", err)
		}
	}
	return nil
}

// dueReminders returns the viewer's bookings starting in [now, now+within).
func dueReminders(slots []models.TimeSlot, viewer models.ID, now time.Time, within time.Duration) []models.TimeSlot {
	var out []models.TimeSlot
	limit := now.Add(within)
	for _, s := range slots {
		if !s.IsBookedBy(viewer) {
			continue
		}
		if !s.Start.Before(now) && s.Start.Before(limit) {
			out = append(out, s)
		}
	}
	return out
}

func reminderText(slot models.TimeSlot, now time.Time, loc *time.Location) string {
	span := utils.FormatSpan(slot.Start, slot.End, loc)
	mins := int(slot.Start.Sub(now).Round(time.Minute).Minutes())
	if mins <= 0 {
		return fmt.Sprintf("Starting now: %s (%s)", slot.Title, span)
	}
	return fmt.Sprintf("Upcoming: %s starts in %d min (%s)", slot.Title, mins, span)
}
