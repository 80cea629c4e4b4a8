package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/weekslot/internal/booking"
	"github.com/julianstephens/weekslot/internal/cli"
	"github.com/julianstephens/weekslot/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	if err := ctx.Ready(); err != nil {
		return err
	}

	// Notices go to the status line instead of stdout while the TUI owns the screen.
	ctrl := booking.New(ctx.Store, ctx.Session, ctx.Notifier, ctx.Location)
	p := tea.NewProgram(tui.NewModel(ctx.Context(), ctrl, ctx.Store, ctx.Session), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("alas, there's been an error: %w", err)
	}
	return nil
}
