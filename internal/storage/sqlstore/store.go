// Package sqlstore implements the booking authority on top of database/sql.
// The sqlite and postgres packages own connection setup and migrations and
// hand the open database to New.
package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/weekslot/internal/models"
)

// ErrNotLoaded is returned when a query runs before Init or Load.
var ErrNotLoaded = errors.New("storage not loaded")

// Rejection messages shared with the REST authority.
const (
	MsgSlotNotFound     = "Slot not found"
	MsgAlreadyBooked    = "This slot is already booked"
	MsgNotYourBooking   = "You did not book this slot"
	MsgPermissionDenied = "You do not have permission to perform this action."
	MsgEndBeforeStart   = "End time must be after start time."
)

// TimeLayout is the fixed-width UTC layout used for text time columns so
// that lexical and chronological order agree.
const TimeLayout = "2006-01-02T15:04:05Z"

// Dialect captures the differences between the supported SQL databases.
type Dialect struct {
	Name string
	// Numbered switches ? placeholders to $1, $2, ...
	Numbered bool
	// TimeAsText stores instants as TimeLayout strings instead of native timestamps.
	TimeAsText bool
}

var (
	SQLite   = Dialect{Name: "sqlite", TimeAsText: true}
	Postgres = Dialect{Name: "postgres", Numbered: true}
)

func (d Dialect) rebind(query string) string {
	if !d.Numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (d Dialect) encodeTime(t time.Time) any {
	if d.TimeAsText {
		return t.UTC().Format(TimeLayout)
	}
	return t.UTC()
}

// Store runs booking queries as one acting user.
type Store struct {
	db      *sql.DB
	dialect Dialect
	user    models.User
}

// New wraps an open, migrated database.
func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

// DB returns the underlying connection.
func (s *Store) DB() *sql.DB {
	if s == nil {
		return nil
	}
	return s.db
}

func (s *Store) ready() error {
	if s == nil || s.db == nil {
		return ErrNotLoaded
	}
	return nil
}

func (s *Store) q(query string) string {
	return s.dialect.rebind(query)
}

// timeValue scans both native timestamps and TimeLayout/RFC3339 text.
type timeValue struct {
	t *time.Time
}

func (v timeValue) Scan(src any) error {
	switch x := src.(type) {
	case time.Time:
		*v.t = x.UTC()
		return nil
	case string:
		return v.parse(x)
	case []byte:
		return v.parse(string(x))
	case nil:
		*v.t = time.Time{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into time", src)
	}
}

func (v timeValue) parse(s string) error {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("invalid stored time %q: %w", s, err)
	}
	*v.t = t.UTC()
	return nil
}
