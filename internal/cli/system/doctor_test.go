package system

import (
	"strings"
	"testing"
	"time"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/weekslot/internal/storage/sqlite"
)

func TestDoctorCmd_HealthyDB(t *testing.T) {
	gokeyring.MockInit()
	ctx, out := setupTestDB(t)

	// Tray and keyring are warnings only
	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor command failed on healthy database: %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), "✓ Current user: OK") {
		t.Errorf("expected current user check to pass:\n%s", out.String())
	}
}

func TestDoctorCmd_UninitializedStore(t *testing.T) {
	ctx, _, out := newTestContext(t)

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Fatal("doctor should fail when the store is not initialized")
	}
	if !strings.Contains(out.String(), "⊘ Schema version: SKIPPED") {
		t.Errorf("store checks should be skipped:\n%s", out.String())
	}
}

func TestDoctorCmd_BrokenSchema(t *testing.T) {
	ctx, _ := setupTestDB(t)

	db := ctx.Store.(*sqlite.Store).DB()
	if _, err := db.Exec("DELETE FROM schema_version"); err != nil {
		t.Fatalf("failed to delete schema version: %v", err)
	}
	if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (999)"); err != nil {
		t.Fatalf("failed to insert corrupted schema version: %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("doctor command should fail with corrupted schema")
	}
}

func TestCheckMigrationsComplete_Incomplete(t *testing.T) {
	ctx, _ := setupTestDB(t)

	db := ctx.Store.(*sqlite.Store).DB()
	if _, err := db.Exec("DELETE FROM schema_version"); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (1)"); err != nil {
		t.Fatal(err)
	}

	if err := checkMigrationsComplete(ctx); err == nil {
		t.Error("checkMigrationsComplete should fail with incomplete migrations")
	}
	if err := checkSchemaVersion(ctx); err != nil {
		t.Errorf("older schema is not a version error: %v", err)
	}
}

func TestCheckValidation_Overlap(t *testing.T) {
	ctx, _ := setupTestDB(t)
	if err := ctx.Ready(); err != nil {
		t.Fatal(err)
	}

	db := ctx.Store.(*sqlite.Store).DB()
	var category string
	if err := db.QueryRow("SELECT id FROM categories ORDER BY name LIMIT 1").Scan(&category); err != nil {
		t.Fatal(err)
	}
	start := time.Now().UTC().Truncate(time.Hour)
	for i, id := range []string{"a", "b"} {
		s := start.Add(time.Duration(i) * 30 * time.Minute)
		if _, err := db.Exec(`INSERT INTO timeslots (id, title, category_id, start_time, end_time) VALUES (?, ?, ?, ?, ?)`,
			id, "Overlap", category, s.Format("2006-01-02T15:04:05Z"), s.Add(time.Hour).Format("2006-01-02T15:04:05Z")); err != nil {
			t.Fatal(err)
		}
	}

	if err := checkValidation(ctx); err == nil {
		t.Error("checkValidation should report overlapping slots")
	}
}

func TestCheckClockTimezone(t *testing.T) {
	ctx, _ := setupTestDB(t)
	if err := checkClockTimezone(ctx); err != nil {
		t.Errorf("clock/timezone check failed: %v", err)
	}

	old := nowFunc
	nowFunc = func() time.Time { return time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC) }
	defer func() { nowFunc = old }()
	if err := checkClockTimezone(ctx); err == nil {
		t.Error("clock check should fail for a time before 2020")
	}
}
