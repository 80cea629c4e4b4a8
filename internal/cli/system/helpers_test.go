package system

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/weekslot/internal/cli"
	"github.com/julianstephens/weekslot/internal/session"
	"github.com/julianstephens/weekslot/internal/storage/sqlite"
)

// newTestContext returns a context over an uninitialized SQLite file.
func newTestContext(t *testing.T) (*cli.Context, string, *bytes.Buffer) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store := sqlite.NewStore(dbPath, "alice")
	out := &bytes.Buffer{}
	ctx := &cli.Context{
		Store:    store,
		Session:  session.New(),
		Location: time.UTC,
		Out:      out,
	}
	t.Cleanup(func() { ctx.Store.Close() })
	return ctx, dbPath, out
}

// setupTestDB returns a context over an initialized SQLite file.
func setupTestDB(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	ctx, _, out := newTestContext(t)
	if err := ctx.Store.Init(context.Background()); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	return ctx, out
}
