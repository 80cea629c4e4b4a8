package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/weekslot/internal/calendar"
	"github.com/julianstephens/weekslot/internal/constants"
	"github.com/julianstephens/weekslot/internal/logger"
	"github.com/julianstephens/weekslot/internal/models"
)

// seedPlan is the daily schedule of sample slots: hour and index into
// constants.SeedCategories.
var seedPlan = []struct {
	hour     int
	category int
}{
	{9, 0},
	{11, 1},
	{14, 2},
	{16, 0},
}

// SeedWeek creates one-hour sample slots Monday to Friday of week. Nothing
// happens when any slot already exists.
func (s *Store) SeedWeek(ctx context.Context, week calendar.Window) (int, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var existing int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM timeslots`).Scan(&existing); err != nil {
		return 0, fmt.Errorf("failed to count slots: %w", err)
	}
	if existing > 0 {
		logger.Info("slots already seeded, skipping", "count", existing)
		return 0, nil
	}

	ids := make([]models.ID, len(constants.SeedCategories))
	for i, name := range constants.SeedCategories {
		var id string
		if err := tx.QueryRowContext(ctx, s.q(`SELECT id FROM categories WHERE name = ?`), name).Scan(&id); err != nil {
			return 0, fmt.Errorf("seed category %q missing, run migrations first: %w", name, err)
		}
		ids[i] = models.ID(id)
	}

	created := 0
	for _, day := range week.Days[:5] {
		d := day.Date
		for _, p := range seedPlan {
			start := time.Date(d.Year(), d.Month(), d.Day(), p.hour, 0, 0, 0, d.Location())
			title := constants.SeedCategories[p.category] + " Session"
			if err := s.insertSlot(ctx, tx, models.ID(uuid.NewString()), title, ids[p.category], start, start.Add(time.Hour)); err != nil {
				return 0, err
			}
			created++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit seed: %w", err)
	}
	logger.Info("sample slots created", "count", created, "week", week.ISOStart())
	return created, nil
}
