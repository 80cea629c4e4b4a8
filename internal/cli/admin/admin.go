// Package admin holds staff-only slot management commands.
package admin

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/weekslot/internal/cli"
	"github.com/julianstephens/weekslot/internal/cli/slots"
	"github.com/julianstephens/weekslot/internal/constants"
	wserrors "github.com/julianstephens/weekslot/internal/errors"
	"github.com/julianstephens/weekslot/internal/logger"
	"github.com/julianstephens/weekslot/internal/models"
	"github.com/julianstephens/weekslot/internal/utils"
	"github.com/julianstephens/weekslot/internal/validation"
)

type AdminCmd struct {
	List   ListCmd   `cmd:"" help:"List every slot." default:"1"`
	Create CreateCmd `cmd:"" help:"Create a slot."`
}

type ListCmd struct{}

func (c *ListCmd) Run(ctx *cli.Context) error {
	if err := ctx.Ready(); err != nil {
		return err
	}
	all, err := ctx.Store.ListAllSlots(ctx.Context())
	if err != nil {
		logger.Warn("admin list failed", "error", err)
		return errors.New(wserrors.UserMessage(err, constants.MsgAdminLoadFailed))
	}
	if len(all) == 0 {
		ctx.Println("No slots.")
		return nil
	}

	for _, s := range all {
		day := s.Start.In(ctx.Location).Format(constants.DateFormat)
		booked := "-"
		if s.IsBooked() {
			booked = s.BookedByUsername
			if booked == "" {
				booked = s.BookedBy.String()
			}
		}
		ctx.Printf("%s %s  %-24s %-10s %-10s (id: %s)\n",
			day, utils.FormatSpan(s.Start, s.End, ctx.Location), s.Title, s.CategoryName, booked, s.ID)
	}
	return nil
}

type CreateCmd struct {
	Title    string `help:"Slot title."`
	Category string `help:"Category name or id."`
	Start    string `help:"Start (YYYY-MM-DD HH:MM)."`
	End      string `help:"End (YYYY-MM-DD HH:MM)."`
}

func (c *CreateCmd) Run(ctx *cli.Context) error {
	if err := ctx.Ready(); err != nil {
		return err
	}

	in, err := c.input(ctx)
	if err != nil {
		return err
	}
	if err := validation.ValidateNewSlot(in); err != nil {
		if validation.MissingFields(err) {
			return errors.New(constants.MsgFillAllFields)
		}
		return err
	}

	slot, err := ctx.Store.CreateSlot(ctx.Context(), in)
	if err != nil {
		logger.Warn("create slot failed", "error", err)
		return errors.New(wserrors.UserMessage(err, constants.MsgCreateFailed))
	}
	ctx.Printf("✓ %s %s %s (id: %s)\n", constants.MsgSlotCreated, slot.Title,
		utils.FormatSpan(slot.Start, slot.End, ctx.Location), slot.ID)
	return nil
}

// input converts the flags into a NewSlot. Empty flags stay zero so the
// validator reports them together.
func (c *CreateCmd) input(ctx *cli.Context) (models.NewSlot, error) {
	in := models.NewSlot{Title: strings.TrimSpace(c.Title)}

	if strings.TrimSpace(c.Category) != "" {
		id, err := slots.ResolveCategory(ctx, c.Category)
		if err != nil {
			return in, err
		}
		in.Category = id
	}
	if strings.TrimSpace(c.Start) != "" {
		t, err := utils.ParseDateTimeInLocation(c.Start, ctx.Location)
		if err != nil {
			return in, fmt.Errorf("start: %w", err)
		}
		in.Start = t
	}
	if strings.TrimSpace(c.End) != "" {
		t, err := utils.ParseDateTimeInLocation(c.End, ctx.Location)
		if err != nil {
			return in, fmt.Errorf("end: %w", err)
		}
		in.End = t
	}
	return in, nil
}
