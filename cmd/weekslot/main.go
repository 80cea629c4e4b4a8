package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/julianstephens/weekslot/internal/cli"
	"github.com/julianstephens/weekslot/internal/cli/admin"
	"github.com/julianstephens/weekslot/internal/cli/auth"
	"github.com/julianstephens/weekslot/internal/cli/prefs"
	"github.com/julianstephens/weekslot/internal/cli/slots"
	"github.com/julianstephens/weekslot/internal/cli/system"
	"github.com/julianstephens/weekslot/internal/constants"
	wserrors "github.com/julianstephens/weekslot/internal/errors"
	"github.com/julianstephens/weekslot/internal/logger"
	"github.com/julianstephens/weekslot/internal/notifier"
	"github.com/julianstephens/weekslot/internal/session"
	"github.com/julianstephens/weekslot/internal/utils"
)

var CLI struct {
	Version   kong.VersionFlag
	Store     string `help:"Booking store: an http(s) service URL, a PostgreSQL connection string or a SQLite path. PostgreSQL credentials must NOT be embedded; use the keyring or WEEKSLOT_DB_CONNECTION instead." env:"WEEKSLOT_STORE"`
	User      string `help:"Acting user for local stores." env:"WEEKSLOT_USER" default:"${user}"`
	Timezone  string `help:"IANA timezone the week grid is shown in." env:"WEEKSLOT_TZ" default:"Local"`
	Debug     bool   `help:"Log debug output to stderr." env:"WEEKSLOT_DEBUG"`
	LogLevel  string `help:"Log level override (debug, info, warn, error)." env:"WEEKSLOT_LOG_LEVEL"`
	ConfigDir string `help:"Directory for logs and local state." env:"WEEKSLOT_CONFIG_DIR" type:"path" default:"${config_dir}"`
	Notify    bool   `help:"Forward booking outcomes to the tray companion." env:"WEEKSLOT_NOTIFY"`

	Init       system.InitCmd      `cmd:"" help:"Initialize local weekslot storage."`
	Migrate    system.MigrateCmd   `cmd:"" help:"Run database migrations."`
	Doctor     system.DoctorCmd    `cmd:"" help:"Run health checks and diagnostics."`
	Tui        system.TuiCmd       `cmd:"" help:"Launch the interactive week calendar." default:"1"`
	Seed       system.SeedCmd      `cmd:"" help:"Create sample slots for a week."`
	DebugTools system.DebugCmd     `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
	Keyring    system.KeyringCmd   `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Remind     system.NotifyCmd    `cmd:"" hidden:"" help:"Send reminders for upcoming bookings (used from cron)."`
	Login      auth.LoginCmd       `cmd:"" help:"Log in to a booking service."`
	Logout     auth.LogoutCmd      `cmd:"" help:"Forget the stored login."`
	Register   auth.RegisterCmd    `cmd:"" help:"Create an account on a booking service."`
	Whoami     auth.WhoamiCmd      `cmd:"" help:"Show the current user."`
	Week       slots.WeekCmd       `cmd:"" help:"Show the slots of a week."`
	Book       slots.BookCmd       `cmd:"" help:"Book a slot."`
	Unbook     slots.UnbookCmd     `cmd:"" help:"Release a booked slot."`
	Categories slots.CategoriesCmd `cmd:"" help:"List categories."`
	Validate   slots.ValidateCmd   `cmd:"" help:"Check a week of slots for conflicts."`
	Prefs      prefs.PrefsCmd      `cmd:"" help:"Manage preferred categories."`
	Admin      admin.AdminCmd      `cmd:"" help:"Staff slot management."`
}

func main() {
	// A missing .env file is fine.
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Weekly booking calendar for shared time slots"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Configuration(kong.JSON, constants.DefaultConfigFile),
		kong.Vars{
			"version":    constants.Version,
			"user":       cli.DefaultUsername(),
			"config_dir": constants.DefaultConfigDir,
		},
	)

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: CLI.ConfigDir, Level: CLI.LogLevel}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}

	loc, err := utils.LoadLocation(CLI.Timezone)
	if err != nil {
		wserrors.Fatal(err)
	}

	target, trusted := cli.ResolveTarget(CLI.Store)
	store, err := cli.OpenStore(target, CLI.User, trusted)
	if err != nil {
		if errors.Is(err, cli.ErrEmbeddedCredentials) {
			fmt.Fprintf(os.Stderr, "❌ Error: %v\n", err)
			os.Exit(1)
		}
		wserrors.Fatal(err)
	}

	base, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	appCtx := &cli.Context{
		Store:    store,
		Session:  session.New(),
		Location: loc,
		Base:     base,
	}
	if CLI.Notify {
		appCtx.Notifier = notifier.New()
	}

	logger.Debug("running command", "command", ctx.Command(), "store", store.Describe())
	err = ctx.Run(appCtx)

	stop()
	// init --force may have replaced the store.
	if closeErr := appCtx.Store.Close(); closeErr != nil {
		logger.Warn("failed to close store", "error", closeErr)
	}

	if errors.Is(err, cli.ErrReported) {
		logger.Error("Command execution failed", "error", err)
		os.Exit(1)
	}
	wserrors.Fatal(err)
}
