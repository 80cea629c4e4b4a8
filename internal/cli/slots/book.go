package slots

import (
	"github.com/julianstephens/weekslot/internal/cli"
	"github.com/julianstephens/weekslot/internal/models"
)

type BookCmd struct {
	ID string `arg:"" help:"ID of the slot to book."`
}

func (c *BookCmd) Run(ctx *cli.Context) error {
	if err := ctx.Ready(); err != nil {
		return err
	}
	// The outcome notice is printed by the controller.
	_, err := ctx.Controller().Book(ctx.Context(), models.TimeSlot{ID: models.ID(c.ID)})
	return cli.Reported(err)
}

type UnbookCmd struct {
	ID string `arg:"" help:"ID of the slot to release."`
}

func (c *UnbookCmd) Run(ctx *cli.Context) error {
	if err := ctx.Ready(); err != nil {
		return err
	}
	_, err := ctx.Controller().Unbook(ctx.Context(), models.TimeSlot{ID: models.ID(c.ID)})
	return cli.Reported(err)
}
