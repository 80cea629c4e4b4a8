package system

import (
	"fmt"
	"time"

	"github.com/julianstephens/weekslot/internal/cli"
	"github.com/julianstephens/weekslot/internal/constants"
	"github.com/julianstephens/weekslot/internal/keyring"
	"github.com/julianstephens/weekslot/internal/notifier"
	"github.com/julianstephens/weekslot/internal/storage"
	"github.com/julianstephens/weekslot/internal/validation"
)

var nowFunc = time.Now

type DoctorCmd struct{}

type check struct {
	name       string
	run        func(*cli.Context) error
	warnOnly   bool // never fails the run
	needsStore bool // skipped when the store is unreachable
}

var doctorChecks = []check{
	{name: "Schema version", run: checkSchemaVersion, needsStore: true},
	{name: "Migrations complete", run: checkMigrationsComplete, needsStore: true},
	{name: "Current user", run: checkCurrentUser, needsStore: true},
	{name: "Categories", run: checkCategories, needsStore: true},
	{name: "Data validation", run: checkValidation, needsStore: true},
	{name: "Clock/timezone", run: checkClockTimezone},
	{name: "OS keyring", run: checkKeyring, warnOnly: true},
	{name: "Tray companion", run: checkTray, warnOnly: true},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	storeReachable := true

	if err := checkStoreReachable(ctx); err != nil {
		ctx.Printf("❌ Store reachable: FAIL\n")
		ctx.Printf("   Error: %v\n", err)
		hasError = true
		storeReachable = false
	} else {
		ctx.Printf("✓ Store reachable: OK (%s)\n", ctx.Store.Describe())
	}

	for _, c := range doctorChecks {
		if c.needsStore && !storeReachable {
			ctx.Printf("⊘ %s: SKIPPED (store not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func checkStoreReachable(ctx *cli.Context) error {
	if ctx.Store == nil {
		return fmt.Errorf("no store configured")
	}
	if err := ctx.Store.Load(ctx.Context()); err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	migrator, ok := ctx.Store.(storage.Migrator)
	if !ok {
		// REST services manage their own schema
		return nil
	}
	current, latest, err := migrator.SchemaVersion(ctx.Context())
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	migrator, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return nil
	}
	current, latest, err := migrator.SchemaVersion(ctx.Context())
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

func checkCurrentUser(ctx *cli.Context) error {
	if err := ctx.Ready(); err != nil {
		return err
	}
	if _, ok := ctx.Session.CurrentUserID(); !ok {
		return fmt.Errorf("not logged in (run '%s login')", constants.AppName)
	}
	return nil
}

func checkCategories(ctx *cli.Context) error {
	cats, err := ctx.Store.ListCategories(ctx.Context())
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}
	if len(cats) == 0 {
		return fmt.Errorf("no categories defined")
	}
	return nil
}

func checkValidation(ctx *cli.Context) error {
	cats, err := ctx.Store.ListCategories(ctx.Context())
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}
	st, err := ctx.Controller().Reload(ctx.Context())
	if err != nil {
		return err
	}
	result := validation.New().ValidateSlots(st.Slots, cats)
	if result.HasConflicts() {
		return fmt.Errorf("%d conflict(s) in the current week (run '%s slots validate')", len(result.Conflicts), constants.AppName)
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := nowFunc()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if ctx.Location == nil {
		return fmt.Errorf("no timezone configured")
	}
	return nil
}

func checkKeyring(*cli.Context) error {
	if !keyring.IsAvailable() {
		return fmt.Errorf("OS keyring is not available; logins will not be remembered")
	}
	return nil
}

func checkTray(*cli.Context) error {
	if !notifier.Available() {
		return fmt.Errorf("tray companion is not running; --notify has no effect")
	}
	return nil
}
