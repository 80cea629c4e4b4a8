package system

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/julianstephens/weekslot/internal/calendar"
	"github.com/julianstephens/weekslot/internal/cli"
	"github.com/julianstephens/weekslot/internal/models"
	"github.com/julianstephens/weekslot/internal/utils"
)

type DebugCmd struct {
	Store    *DebugStoreCmd    `cmd:"" help:"Show the active store."`
	DumpWeek *DebugDumpWeekCmd `cmd:"" help:"Dump the slots of a week as JSON."`
	DumpSlot *DebugDumpSlotCmd `cmd:"" help:"Dump one slot as JSON."`
	DumpUser *DebugDumpUserCmd `cmd:"" help:"Dump the current user as JSON."`
}

func printJSON(ctx *cli.Context, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(jsonBytes))
	return nil
}

type DebugStoreCmd struct{}

func (cmd *DebugStoreCmd) Run(ctx *cli.Context) error {
	return printJSON(ctx, map[string]string{
		"store":    ctx.Store.Describe(),
		"timezone": ctx.Location.String(),
	})
}

type DebugDumpWeekCmd struct {
	Date string `arg:"" optional:"" help:"Any date in the week (YYYY-MM-DD or 'today')."`
}

func (cmd *DebugDumpWeekCmd) Run(ctx *cli.Context) error {
	if err := ctx.Ready(); err != nil {
		return err
	}

	week := calendar.Today(ctx.Location)
	if cmd.Date != "" && cmd.Date != "today" {
		ref, err := utils.ParseDateInLocation(cmd.Date, ctx.Location)
		if err != nil {
			return fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD or 'today')", cmd.Date)
		}
		week = calendar.ComputeWeek(ref)
	}

	slots, err := ctx.Store.ListSlots(ctx.Context(), week.Start, "")
	if err != nil {
		return fmt.Errorf("failed to list slots: %w", err)
	}
	return printJSON(ctx, struct {
		Week  string            `json:"week"`
		Slots []models.TimeSlot `json:"slots"`
	}{Week: week.ISOStart(), Slots: slots})
}

type DebugDumpSlotCmd struct {
	ID string `arg:"" help:"ID of the slot to dump."`
}

func (cmd *DebugDumpSlotCmd) Run(ctx *cli.Context) error {
	if err := ctx.Ready(); err != nil {
		return err
	}

	// Only staff can list every slot; fall back to the current week otherwise.
	slots, err := ctx.Store.ListAllSlots(ctx.Context())
	if err != nil {
		week := calendar.Today(ctx.Location)
		if slots, err = ctx.Store.ListSlots(ctx.Context(), week.Start, ""); err != nil {
			return fmt.Errorf("failed to list slots: %w", err)
		}
	}
	for _, s := range slots {
		if s.ID == models.ID(cmd.ID) {
			return printJSON(ctx, s)
		}
	}
	return fmt.Errorf("slot not found: %s", cmd.ID)
}

type DebugDumpUserCmd struct{}

func (cmd *DebugDumpUserCmd) Run(ctx *cli.Context) error {
	if err := ctx.Ready(); err != nil {
		return err
	}
	u := ctx.Session.CurrentUser()
	if u == nil {
		return fmt.Errorf("not logged in")
	}
	return printJSON(ctx, u)
}
