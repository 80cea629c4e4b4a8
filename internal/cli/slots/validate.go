package slots

import (
	"fmt"
	"time"

	"github.com/julianstephens/weekslot/internal/calendar"
	"github.com/julianstephens/weekslot/internal/cli"
	"github.com/julianstephens/weekslot/internal/utils"
	"github.com/julianstephens/weekslot/internal/validation"
)

type ValidateCmd struct {
	Date string `arg:"" optional:"" help:"Any date in the week to check (YYYY-MM-DD)."`
	All  bool   `help:"Check every slot instead of one week (staff only)."`
}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	if err := ctx.Ready(); err != nil {
		return err
	}
	cats, err := ctx.Store.ListCategories(ctx.Context())
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}

	var result validation.ValidationResult
	if c.All {
		all, err := ctx.Store.ListAllSlots(ctx.Context())
		if err != nil {
			return fmt.Errorf("failed to list slots: %w", err)
		}
		result = validation.New().ValidateSlots(all, cats)
	} else {
		week := calendar.ComputeWeek(time.Now().In(ctx.Location))
		if c.Date != "" {
			ref, err := utils.ParseDateInLocation(c.Date, ctx.Location)
			if err != nil {
				return err
			}
			week = calendar.ComputeWeek(ref)
		}
		list, err := ctx.Store.ListSlots(ctx.Context(), week.Start, "")
		if err != nil {
			return fmt.Errorf("failed to list slots: %w", err)
		}
		result = validation.New().ValidateSlots(list, cats)
	}

	ctx.Println(result.FormatReport())
	if result.HasConflicts() {
		return fmt.Errorf("%d conflict(s) found", len(result.Conflicts))
	}
	return nil
}
