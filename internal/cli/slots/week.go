// Package slots holds the calendar commands: viewing a week and booking.
package slots

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/julianstephens/weekslot/internal/booking"
	"github.com/julianstephens/weekslot/internal/calendar"
	"github.com/julianstephens/weekslot/internal/cli"
	"github.com/julianstephens/weekslot/internal/models"
	"github.com/julianstephens/weekslot/internal/utils"
)

type WeekCmd struct {
	Date     string `arg:"" optional:"" help:"Any date in the week (YYYY-MM-DD). Defaults to today."`
	Offset   int    `short:"o" help:"Shift the week by this many weeks."`
	Category string `short:"c" help:"Only show one category (name or id)."`
}

func (c *WeekCmd) Run(ctx *cli.Context) error {
	if err := ctx.Ready(); err != nil {
		return err
	}

	ref := time.Now().In(ctx.Location)
	if c.Date != "" && c.Date != "today" {
		d, err := utils.ParseDateInLocation(c.Date, ctx.Location)
		if err != nil {
			return err
		}
		ref = d
	}

	categoryID, err := ResolveCategory(ctx, c.Category)
	if err != nil {
		return err
	}

	ctrl := ctx.Controller()
	st, err := ctrl.SetView(ctx.Context(), ref.AddDate(0, 0, 7*c.Offset), categoryID)
	if err != nil {
		return cli.Reported(err)
	}

	RenderWeek(ctx.Stdout(), st, ctrl.Status, ctx.Location)
	return nil
}

// RenderWeek prints one block per day with the slots visible on it.
func RenderWeek(w io.Writer, st booking.ViewState, status func(models.TimeSlot) booking.Status, loc *time.Location) {
	fmt.Fprintf(w, "Week of %s\n", st.Week.Title())
	fmt.Fprintln(w, strings.Repeat("─", 40))

	for _, day := range st.Week.Days {
		marker := ""
		if calendar.IsToday(day.Date) {
			marker = "  ← today"
		}
		fmt.Fprintf(w, "%s %s%s\n", day.Label, day.Date.Format("Jan 2"), marker)

		slots := st.SlotsForDay(day)
		if len(slots) == 0 {
			fmt.Fprintln(w, "  (no slots)")
			continue
		}
		for _, s := range slots {
			fmt.Fprintf(w, "  %-13s %-24s %-10s %s\n", utils.FormatSpan(s.Start, s.End, loc), s.Title, statusLabel(s, status(s)), s.ID)
		}
	}
}

func statusLabel(s models.TimeSlot, st booking.Status) string {
	switch st {
	case booking.StatusMine:
		return "[booked]"
	case booking.StatusTaken:
		if s.BookedByUsername != "" {
			return "[" + s.BookedByUsername + "]"
		}
		return "[taken]"
	case booking.StatusPending:
		return "[...]"
	default:
		return "[free]"
	}
}

// ResolveCategory maps a category name or id to its id. An empty value
// means no filter.
func ResolveCategory(ctx *cli.Context, value string) (models.ID, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	cats, err := ctx.Store.ListCategories(ctx.Context())
	if err != nil {
		return "", fmt.Errorf("failed to list categories: %w", err)
	}
	for _, cat := range cats {
		if string(cat.ID) == value || strings.EqualFold(cat.Name, value) {
			return cat.ID, nil
		}
	}
	return "", fmt.Errorf("unknown category: %s", value)
}
