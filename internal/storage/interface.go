package storage

import (
	"context"
	"time"

	"github.com/julianstephens/weekslot/internal/calendar"
	"github.com/julianstephens/weekslot/internal/models"
)

// Provider is the booking authority. Every implementation is the single
// source of truth for slot occupancy; callers never assume an outcome.
type Provider interface {
	// Lifecycle
	Init(ctx context.Context) error
	Load(ctx context.Context) error
	Close() error

	// Identity
	CurrentUser(ctx context.Context) (models.User, error)

	// Categories
	ListCategories(ctx context.Context) ([]models.Category, error)

	// Slots
	// ListSlots returns slots starting within [weekStart, weekStart+7d),
	// ordered by start. A non-empty categoryID filters to that category;
	// otherwise the viewer's preferences scope the list when set.
	ListSlots(ctx context.Context, weekStart time.Time, categoryID models.ID) ([]models.TimeSlot, error)
	BookSlot(ctx context.Context, id models.ID) (models.TimeSlot, error)
	UnbookSlot(ctx context.Context, id models.ID) (models.TimeSlot, error)

	// Preferences
	GetPreferences(ctx context.Context) (models.Preferences, error)
	UpdatePreferences(ctx context.Context, categories []models.ID) (models.Preferences, error)

	// Admin
	CreateSlot(ctx context.Context, in models.NewSlot) (models.TimeSlot, error)
	ListAllSlots(ctx context.Context) ([]models.TimeSlot, error)

	// Utils
	// Describe returns a non-sensitive label for the authority.
	Describe() string
}

// Authenticator is implemented by authorities that issue credentials.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (models.TokenPair, error)
	Register(ctx context.Context, username, email, password string) error
}

// Seeder is implemented by local authorities that can create sample slots.
type Seeder interface {
	SeedWeek(ctx context.Context, week calendar.Window) (int, error)
}

// Migrator is implemented by SQL authorities with an embedded schema.
type Migrator interface {
	Migrate(ctx context.Context, logFn func(string)) (int, error)
	SchemaVersion(ctx context.Context) (current, latest int, err error)
}
