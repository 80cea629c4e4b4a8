package slots

import (
	"fmt"

	"github.com/julianstephens/weekslot/internal/cli"
)

type CategoriesCmd struct{}

func (c *CategoriesCmd) Run(ctx *cli.Context) error {
	if err := ctx.Ready(); err != nil {
		return err
	}
	cats, err := ctx.Store.ListCategories(ctx.Context())
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}
	if len(cats) == 0 {
		ctx.Println("No categories.")
		return nil
	}

	prefs, err := ctx.Store.GetPreferences(ctx.Context())
	if err != nil {
		// Anonymous viewers have no preferences
		prefs.Categories = nil
	}
	for _, cat := range cats {
		mark := " "
		if prefs.Has(cat.ID) {
			mark = "*"
		}
		ctx.Printf("%s %-20s %s\n", mark, cat.Name, cat.ID)
	}
	return nil
}
