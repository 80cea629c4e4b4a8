// Package prefs manages the viewer's category preferences.
package prefs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/weekslot/internal/cli"
	"github.com/julianstephens/weekslot/internal/cli/slots"
	"github.com/julianstephens/weekslot/internal/constants"
	wserrors "github.com/julianstephens/weekslot/internal/errors"
	"github.com/julianstephens/weekslot/internal/models"
)

type PrefsCmd struct {
	Show  ShowCmd  `cmd:"" help:"Show preferred categories." default:"1"`
	Set   SetCmd   `cmd:"" help:"Replace preferred categories."`
	Clear ClearCmd `cmd:"" help:"Remove all preferred categories."`
}

type ShowCmd struct{}

func (c *ShowCmd) Run(ctx *cli.Context) error {
	if err := ctx.Ready(); err != nil {
		return err
	}
	prefs, err := ctx.Store.GetPreferences(ctx.Context())
	if err != nil {
		return fmt.Errorf("failed to load preferences: %w", err)
	}
	cats, err := ctx.Store.ListCategories(ctx.Context())
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}

	names := categoryNames(cats, prefs.Categories)
	if len(names) == 0 {
		ctx.Println("No preferred categories; the week shows every category.")
		return nil
	}
	ctx.Printf("Preferred categories: %s\n", strings.Join(names, ", "))
	return nil
}

type SetCmd struct {
	Categories []string `arg:"" help:"Category names or ids."`
}

func (c *SetCmd) Run(ctx *cli.Context) error {
	if err := ctx.Ready(); err != nil {
		return err
	}

	ids := make([]models.ID, 0, len(c.Categories))
	for _, v := range c.Categories {
		id, err := slots.ResolveCategory(ctx, v)
		if err != nil {
			return err
		}
		if !id.IsZero() {
			ids = append(ids, id)
		}
	}
	return save(ctx, ids)
}

type ClearCmd struct{}

func (c *ClearCmd) Run(ctx *cli.Context) error {
	if err := ctx.Ready(); err != nil {
		return err
	}
	return save(ctx, []models.ID{})
}

func save(ctx *cli.Context, ids []models.ID) error {
	if _, err := ctx.Store.UpdatePreferences(ctx.Context(), ids); err != nil {
		return errors.New(wserrors.UserMessage(err, constants.MsgPrefsFailed))
	}
	ctx.Printf("✓ %s\n", constants.MsgPrefsSaved)
	return nil
}

func categoryNames(cats []models.Category, ids []models.ID) []string {
	byID := make(map[models.ID]string, len(cats))
	for _, c := range cats {
		byID[c.ID] = c.Name
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := byID[id]; ok {
			names = append(names, name)
		} else {
			names = append(names, id.String())
		}
	}
	return names
}
