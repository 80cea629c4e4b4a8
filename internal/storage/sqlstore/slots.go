package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	wserrors "github.com/julianstephens/weekslot/internal/errors"
	"github.com/julianstephens/weekslot/internal/logger"
	"github.com/julianstephens/weekslot/internal/models"
)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const slotColumns = `
	SELECT t.id, t.title, t.category_id, c.name, t.start_time, t.end_time, t.booked_by, COALESCE(u.username, '')
	FROM timeslots t
	JOIN categories c ON c.id = t.category_id
	LEFT JOIN users u ON u.id = t.booked_by`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSlot(r rowScanner) (models.TimeSlot, error) {
	var slot models.TimeSlot
	var id, category string
	var bookedBy sql.NullString
	err := r.Scan(&id, &slot.Title, &category, &slot.CategoryName,
		timeValue{&slot.Start}, timeValue{&slot.End}, &bookedBy, &slot.BookedByUsername)
	if err != nil {
		return models.TimeSlot{}, err
	}
	slot.ID = models.ID(id)
	slot.Category = models.ID(category)
	if bookedBy.Valid && bookedBy.String != "" {
		b := models.ID(bookedBy.String)
		slot.BookedBy = &b
	}
	return slot, nil
}

func (s *Store) querySlots(ctx context.Context, query string, args ...any) ([]models.TimeSlot, error) {
	rows, err := s.db.QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := []models.TimeSlot{}
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan slot: %w", err)
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}

func (s *Store) ListSlots(ctx context.Context, weekStart time.Time, categoryID models.ID) ([]models.TimeSlot, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	weekEnd := weekStart.AddDate(0, 0, 7)

	query := slotColumns + ` WHERE t.start_time >= ? AND t.start_time < ?`
	args := []any{s.dialect.encodeTime(weekStart), s.dialect.encodeTime(weekEnd)}
	if !categoryID.IsZero() {
		query += ` AND t.category_id = ?`
		args = append(args, string(categoryID))
	} else {
		query += ` AND (NOT EXISTS (SELECT 1 FROM preferences p WHERE p.user_id = ?)
			OR t.category_id IN (SELECT p.category_id FROM preferences p WHERE p.user_id = ?))`
		args = append(args, string(s.user.ID), string(s.user.ID))
	}
	query += ` ORDER BY t.start_time, t.id`

	slots, err := s.querySlots(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	return slots, nil
}

func (s *Store) ListAllSlots(ctx context.Context) ([]models.TimeSlot, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if !s.user.IsStaff {
		return nil, wserrors.Reject("list all slots", http.StatusForbidden, MsgPermissionDenied)
	}
	slots, err := s.querySlots(ctx, slotColumns+` ORDER BY t.start_time, t.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list all slots: %w", err)
	}
	return slots, nil
}

func (s *Store) getSlot(ctx context.Context, q queryer, id models.ID) (models.TimeSlot, error) {
	return scanSlot(q.QueryRowContext(ctx, s.q(slotColumns+` WHERE t.id = ?`), string(id)))
}

func (s *Store) slotExists(ctx context.Context, q queryer, id models.ID) (bool, error) {
	var n int
	if err := q.QueryRowContext(ctx, s.q(`SELECT COUNT(*) FROM timeslots WHERE id = ?`), string(id)).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// BookSlot claims the slot with a conditional update so concurrent bookers
// cannot both succeed.
func (s *Store) BookSlot(ctx context.Context, id models.ID) (models.TimeSlot, error) {
	if err := s.ready(); err != nil {
		return models.TimeSlot{}, err
	}
	return s.transition(ctx, "book", id,
		`UPDATE timeslots SET booked_by = ? WHERE id = ? AND booked_by IS NULL`,
		[]any{string(s.user.ID), string(id)},
		http.StatusBadRequest, MsgAlreadyBooked)
}

// UnbookSlot releases the slot only when the acting user holds it.
func (s *Store) UnbookSlot(ctx context.Context, id models.ID) (models.TimeSlot, error) {
	if err := s.ready(); err != nil {
		return models.TimeSlot{}, err
	}
	return s.transition(ctx, "unbook", id,
		`UPDATE timeslots SET booked_by = NULL WHERE id = ? AND booked_by = ?`,
		[]any{string(id), string(s.user.ID)},
		http.StatusForbidden, MsgNotYourBooking)
}

func (s *Store) transition(ctx context.Context, op string, id models.ID, update string, args []any, conflictStatus int, conflictMsg string) (models.TimeSlot, error) {
	if s.user.ID.IsZero() {
		return models.TimeSlot{}, errors.New("no acting user")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.TimeSlot{}, fmt.Errorf("failed to begin %s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, s.q(update), args...)
	if err != nil {
		return models.TimeSlot{}, fmt.Errorf("failed to %s slot %s: %w", op, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.TimeSlot{}, fmt.Errorf("failed to %s slot %s: %w", op, id, err)
	}
	if n == 0 {
		exists, err := s.slotExists(ctx, tx, id)
		if err != nil {
			return models.TimeSlot{}, fmt.Errorf("failed to %s slot %s: %w", op, id, err)
		}
		if !exists {
			return models.TimeSlot{}, wserrors.Reject(op, http.StatusNotFound, MsgSlotNotFound)
		}
		return models.TimeSlot{}, wserrors.Reject(op, conflictStatus, conflictMsg)
	}

	slot, err := s.getSlot(ctx, tx, id)
	if err != nil {
		return models.TimeSlot{}, fmt.Errorf("failed to reload slot %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return models.TimeSlot{}, fmt.Errorf("failed to commit %s: %w", op, err)
	}
	logger.Debug("slot transition committed", "op", op, "slot", id, "user", s.user.ID)
	return slot, nil
}

// CreateSlot adds a slot. Only staff may create slots.
func (s *Store) CreateSlot(ctx context.Context, in models.NewSlot) (models.TimeSlot, error) {
	if err := s.ready(); err != nil {
		return models.TimeSlot{}, err
	}
	if !s.user.IsStaff {
		return models.TimeSlot{}, wserrors.Reject("create slot", http.StatusForbidden, MsgPermissionDenied)
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return models.TimeSlot{}, wserrors.Reject("create slot", http.StatusBadRequest, "title: This field may not be blank.")
	}
	if !in.Start.Before(in.End) {
		return models.TimeSlot{}, wserrors.Reject("create slot", http.StatusBadRequest, MsgEndBeforeStart)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.TimeSlot{}, fmt.Errorf("failed to begin create: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	ok, err := s.categoryExists(ctx, tx, in.Category)
	if err != nil {
		return models.TimeSlot{}, err
	}
	if !ok {
		return models.TimeSlot{}, wserrors.Reject("create slot", http.StatusBadRequest, "category: "+invalidCategory(in.Category))
	}

	id := models.ID(uuid.NewString())
	if err := s.insertSlot(ctx, tx, id, title, in.Category, in.Start, in.End); err != nil {
		return models.TimeSlot{}, err
	}
	slot, err := s.getSlot(ctx, tx, id)
	if err != nil {
		return models.TimeSlot{}, fmt.Errorf("failed to reload slot %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return models.TimeSlot{}, fmt.Errorf("failed to commit create: %w", err)
	}
	logger.Info("slot created", "slot", id, "title", title, "start", in.Start)
	return slot, nil
}

func (s *Store) insertSlot(ctx context.Context, q queryer, id models.ID, title string, category models.ID, start, end time.Time) error {
	_, err := q.ExecContext(ctx,
		s.q(`INSERT INTO timeslots (id, title, category_id, start_time, end_time) VALUES (?, ?, ?, ?, ?)`),
		string(id), title, string(category), s.dialect.encodeTime(start), s.dialect.encodeTime(end))
	if err != nil {
		return fmt.Errorf("failed to insert slot: %w", err)
	}
	return nil
}
