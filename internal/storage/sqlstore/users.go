package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/julianstephens/weekslot/internal/logger"
	"github.com/julianstephens/weekslot/internal/models"
)

// EnsureUser makes username the acting user, creating the row on first use.
// With promote set the user is also granted staff rights.
func (s *Store) EnsureUser(ctx context.Context, username string, promote bool) (models.User, error) {
	if err := s.ready(); err != nil {
		return models.User{}, err
	}
	if username == "" {
		return models.User{}, errors.New("a username is required for local storage")
	}

	u, err := s.userByName(ctx, username)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		u = models.User{ID: models.ID(uuid.NewString()), Username: username, IsStaff: promote}
		if _, err := s.db.ExecContext(ctx,
			s.q(`INSERT INTO users (id, username, email, is_staff) VALUES (?, ?, '', ?)`),
			string(u.ID), u.Username, u.IsStaff); err != nil {
			return models.User{}, fmt.Errorf("failed to create user %s: %w", username, err)
		}
		logger.Info("local user created", "username", username, "staff", promote)
	case err != nil:
		return models.User{}, fmt.Errorf("failed to look up user %s: %w", username, err)
	case promote && !u.IsStaff:
		if _, err := s.db.ExecContext(ctx, s.q(`UPDATE users SET is_staff = ? WHERE id = ?`), true, string(u.ID)); err != nil {
			return models.User{}, fmt.Errorf("failed to promote user %s: %w", username, err)
		}
		u.IsStaff = true
	}

	s.user = u
	return u, nil
}

// CurrentUser returns the acting user as currently stored.
func (s *Store) CurrentUser(ctx context.Context) (models.User, error) {
	if err := s.ready(); err != nil {
		return models.User{}, err
	}
	if s.user.ID.IsZero() {
		return models.User{}, errors.New("no acting user, call EnsureUser first")
	}
	u, err := s.userByName(ctx, s.user.Username)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to load current user: %w", err)
	}
	s.user = u
	return u, nil
}

func (s *Store) userByName(ctx context.Context, username string) (models.User, error) {
	var u models.User
	var id string
	err := s.db.QueryRowContext(ctx,
		s.q(`SELECT id, username, email, is_staff FROM users WHERE username = ?`), username,
	).Scan(&id, &u.Username, &u.Email, &u.IsStaff)
	if err != nil {
		return models.User{}, err
	}
	u.ID = models.ID(id)
	return u, nil
}
