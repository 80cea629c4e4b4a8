package sqlstore

import (
	"context"
	"fmt"

	"github.com/julianstephens/weekslot/internal/models"
)

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, models.Category{ID: models.ID(id), Name: name})
	}
	return categories, rows.Err()
}

func (s *Store) categoryExists(ctx context.Context, q queryer, id models.ID) (bool, error) {
	var n int
	if err := q.QueryRowContext(ctx, s.q(`SELECT COUNT(*) FROM categories WHERE id = ?`), string(id)).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check category %s: %w", id, err)
	}
	return n > 0, nil
}

func invalidCategory(id models.ID) string {
	return fmt.Sprintf("Invalid pk %q - object does not exist.", string(id))
}
