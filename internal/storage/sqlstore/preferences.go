package sqlstore

import (
	"context"
	"fmt"
	"net/http"

	wserrors "github.com/julianstephens/weekslot/internal/errors"
	"github.com/julianstephens/weekslot/internal/models"
)

func (s *Store) GetPreferences(ctx context.Context) (models.Preferences, error) {
	if err := s.ready(); err != nil {
		return models.Preferences{}, err
	}
	return s.preferences(ctx, s.db)
}

func (s *Store) preferences(ctx context.Context, q queryer) (models.Preferences, error) {
	rows, err := q.QueryContext(ctx, s.q(`
		SELECT p.category_id FROM preferences p
		JOIN categories c ON c.id = p.category_id
		WHERE p.user_id = ? ORDER BY c.name`), string(s.user.ID))
	if err != nil {
		return models.Preferences{}, fmt.Errorf("failed to load preferences: %w", err)
	}
	defer rows.Close()

	prefs := models.Preferences{Categories: []models.ID{}}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return models.Preferences{}, fmt.Errorf("failed to scan preference: %w", err)
		}
		prefs.Categories = append(prefs.Categories, models.ID(id))
	}
	return prefs, rows.Err()
}

// UpdatePreferences replaces the acting user's category set. Unknown
// categories reject the whole update.
func (s *Store) UpdatePreferences(ctx context.Context, categories []models.ID) (models.Preferences, error) {
	if err := s.ready(); err != nil {
		return models.Preferences{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Preferences{}, fmt.Errorf("failed to begin preferences update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM preferences WHERE user_id = ?`), string(s.user.ID)); err != nil {
		return models.Preferences{}, fmt.Errorf("failed to clear preferences: %w", err)
	}

	seen := make(map[models.ID]bool, len(categories))
	for _, id := range categories {
		if seen[id] {
			continue
		}
		seen[id] = true

		ok, err := s.categoryExists(ctx, tx, id)
		if err != nil {
			return models.Preferences{}, err
		}
		if !ok {
			return models.Preferences{}, wserrors.Reject("update preferences", http.StatusBadRequest, "categories: "+invalidCategory(id))
		}
		if _, err := tx.ExecContext(ctx,
			s.q(`INSERT INTO preferences (user_id, category_id) VALUES (?, ?)`),
			string(s.user.ID), string(id)); err != nil {
			return models.Preferences{}, fmt.Errorf("failed to save preference: %w", err)
		}
	}

	prefs, err := s.preferences(ctx, tx)
	if err != nil {
		return models.Preferences{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Preferences{}, fmt.Errorf("failed to commit preferences: %w", err)
	}
	return prefs, nil
}
