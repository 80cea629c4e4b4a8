package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/weekslot/internal/models"
	"github.com/julianstephens/weekslot/internal/tui/state"
	"github.com/julianstephens/weekslot/internal/utils"
)

// NewPreferencesForm creates the multi-select used to edit preferred categories
func NewPreferencesForm(fm *state.PrefsFormModel, cats []models.Category) *huh.Form {
	options := make([]huh.Option[models.ID], 0, len(cats))
	for _, c := range cats {
		options = append(options, huh.NewOption(c.Name, c.ID))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[models.ID]().
				Title("Preferred categories").
				Description("Only these categories are shown in the week. Select none to see all.").
				Options(options...).
				Value(&fm.Categories),
		),
	).WithTheme(huh.ThemeDracula())
}

// NewSlotForm creates the admin form for adding a slot. Empty fields are
// allowed here; submit reports them together.
func NewSlotForm(fm *state.SlotFormModel, cats []models.Category, loc *time.Location) *huh.Form {
	options := make([]huh.Option[models.ID], 0, len(cats))
	for _, c := range cats {
		options = append(options, huh.NewOption(c.Name, c.ID))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&fm.Title),
			huh.NewSelect[models.ID]().
				Title("Category").
				Options(options...).
				Value(&fm.Category),
			huh.NewInput().
				Title("Start").
				Description("YYYY-MM-DD HH:MM").
				Value(&fm.Start).
				Validate(dateTimeOrEmpty(loc)),
			huh.NewInput().
				Title("End").
				Description("YYYY-MM-DD HH:MM").
				Value(&fm.End).
				Validate(dateTimeOrEmpty(loc)),
		),
	).WithTheme(huh.ThemeDracula())
}

func dateTimeOrEmpty(loc *time.Location) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return nil
		}
		if _, err := utils.ParseDateTimeInLocation(s, loc); err != nil {
			return fmt.Errorf("use YYYY-MM-DD HH:MM")
		}
		return nil
	}
}
