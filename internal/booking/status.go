package booking

import "github.com/julianstephens/weekslot/internal/models"

// Status is the viewer's relation to a slot.
type Status int

const (
	// StatusFree means nobody holds the slot.
	StatusFree Status = iota
	// StatusPending means a book or unbook request for the slot is in flight.
	StatusPending
	// StatusMine means the viewer holds the slot.
	StatusMine
	// StatusTaken means another user holds the slot, or the viewer is unknown.
	StatusTaken
)

func (s Status) String() string {
	switch s {
	case StatusFree:
		return "free"
	case StatusPending:
		return "pending"
	case StatusMine:
		return "mine"
	case StatusTaken:
		return "taken"
	default:
		return "unknown"
	}
}

// CanBook reports whether the book affordance is enabled.
func (s Status) CanBook() bool { return s == StatusFree }

// CanUnbook reports whether the unbook affordance is enabled.
func (s Status) CanUnbook() bool { return s == StatusMine }

// StatusFor derives the status of slot for a viewer. known is false while
// the viewer's identity is not yet resolved.
func StatusFor(slot models.TimeSlot, viewer models.ID, known bool, pending bool) Status {
	switch {
	case pending:
		return StatusPending
	case !slot.IsBooked():
		return StatusFree
	case known && slot.IsBookedBy(viewer):
		return StatusMine
	default:
		return StatusTaken
	}
}
