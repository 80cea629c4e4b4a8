package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/weekslot/internal/constants"
	"github.com/julianstephens/weekslot/internal/logger"
	"github.com/julianstephens/weekslot/internal/migration"
	"github.com/julianstephens/weekslot/internal/storage/sqlstore"
	"github.com/julianstephens/weekslot/migrations"
)

// Store is a booking authority kept in a local SQLite file. All queries run
// as the acting user given to NewStore.
type Store struct {
	*sqlstore.Store
	path     string
	username string
}

func NewStore(path, username string) *Store {
	return &Store{
		path:     path,
		username: username,
	}
}

func (s *Store) open() error {
	// busy_timeout lets concurrent writers wait instead of failing with SQLITE_BUSY.
	dsn := "file:" + s.path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// Transactions must not wait on a second connection held by the same process.
	db.SetMaxOpenConns(1)
	s.Store = sqlstore.New(db, sqlstore.SQLite)
	return nil
}

// Init creates the database, applies migrations and registers the acting
// user as staff.
func (s *Store) Init(ctx context.Context) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := s.open(); err != nil {
		return err
	}
	if _, err := s.Migrate(ctx, func(msg string) { logger.Info(msg) }); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if _, err := s.EnsureUser(ctx, s.username, true); err != nil {
		return err
	}
	return nil
}

// Load opens an initialized database and registers the acting user if new.
func (s *Store) Load(ctx context.Context) error {
	if s.DB() != nil {
		return nil
	}
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run '%s init' first", constants.AppName)
	}
	if err := s.open(); err != nil {
		return err
	}

	pending, err := s.validateSchemaVersion(ctx)
	if err != nil {
		return err
	}
	if pending {
		logger.Warn("database schema is behind, run migrate", "path", s.path)
	}

	if _, err := s.EnsureUser(ctx, s.username, false); err != nil {
		return err
	}
	return nil
}

func (s *Store) Close() error {
	if db := s.DB(); db != nil {
		return db.Close()
	}
	return nil
}

func (s *Store) runner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.DB(), subFS, migration.DriverSQLite)
}

// Migrate applies pending embedded migrations.
func (s *Store) Migrate(ctx context.Context, logFn func(string)) (int, error) {
	if s.DB() == nil {
		if err := s.open(); err != nil {
			return 0, err
		}
	}
	runner, err := s.runner()
	if err != nil {
		return 0, err
	}
	return runner.ApplyMigrations(ctx, logFn)
}

// SchemaVersion reports the applied and the latest embedded schema versions.
func (s *Store) SchemaVersion(ctx context.Context) (current, latest int, err error) {
	runner, err := s.runner()
	if err != nil {
		return 0, 0, err
	}
	if current, err = runner.GetCurrentVersion(ctx); err != nil {
		return 0, 0, err
	}
	if latest, err = runner.GetLatestVersion(); err != nil {
		return 0, 0, err
	}
	return current, latest, nil
}

func (s *Store) validateSchemaVersion(ctx context.Context) (bool, error) {
	runner, err := s.runner()
	if err != nil {
		return false, err
	}
	return runner.ValidateVersion(ctx)
}

func (s *Store) Describe() string {
	return s.path
}

// Username returns the acting user the store was opened for.
func (s *Store) Username() string {
	return s.username
}
