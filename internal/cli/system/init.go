package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/weekslot/internal/calendar"
	"github.com/julianstephens/weekslot/internal/cli"
	"github.com/julianstephens/weekslot/internal/storage"
	"github.com/julianstephens/weekslot/internal/storage/sqlite"
)

type InitCmd struct {
	Force bool `help:"Delete an existing SQLite database before initialization."`
	Seed  bool `help:"Create sample slots for the current week after initialization."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		sqliteStore, ok := ctx.Store.(*sqlite.Store)
		if !ok {
			return fmt.Errorf("--force is only supported for SQLite storage")
		}
		dbPath := sqliteStore.Describe()
		if _, err := os.Stat(dbPath); err == nil {
			// Close first to release the file before deleting it.
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			ctx.Store = sqlite.NewStore(dbPath, sqliteStore.Username())
			ctx.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(ctx.Context()); err != nil {
		return err
	}
	ctx.Printf("Initialized weekslot storage at: %s\n", ctx.Store.Describe())

	if c.Seed {
		seeder, ok := ctx.Store.(storage.Seeder)
		if !ok {
			return fmt.Errorf("%s does not support seeding", ctx.Store.Describe())
		}
		n, err := seeder.SeedWeek(ctx.Context(), calendar.Today(ctx.Location))
		if err != nil {
			return fmt.Errorf("failed to seed slots: %w", err)
		}
		ctx.Printf("Created %d sample slot(s)\n", n)
	}
	return nil
}
