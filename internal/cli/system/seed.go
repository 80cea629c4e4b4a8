package system

import (
	"fmt"

	"github.com/julianstephens/weekslot/internal/calendar"
	"github.com/julianstephens/weekslot/internal/cli"
	"github.com/julianstephens/weekslot/internal/storage"
	"github.com/julianstephens/weekslot/internal/utils"
)

type SeedCmd struct {
	Week string `help:"Any date in the week to seed (YYYY-MM-DD). Defaults to the current week."`
}

func (c *SeedCmd) Run(ctx *cli.Context) error {
	if err := ctx.Ready(); err != nil {
		return err
	}
	seeder, ok := ctx.Store.(storage.Seeder)
	if !ok {
		return fmt.Errorf("%s does not support seeding", ctx.Store.Describe())
	}

	week := calendar.Today(ctx.Location)
	if c.Week != "" {
		ref, err := utils.ParseDateInLocation(c.Week, ctx.Location)
		if err != nil {
			return err
		}
		week = calendar.ComputeWeek(ref)
	}

	n, err := seeder.SeedWeek(ctx.Context(), week)
	if err != nil {
		return fmt.Errorf("failed to seed slots: %w", err)
	}
	if n == 0 {
		ctx.Println("Slots already exist; nothing seeded.")
		return nil
	}
	ctx.Printf("Created %d sample slot(s) for %s\n", n, week.Title())
	return nil
}
