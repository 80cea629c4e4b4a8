package models

import "time"

// TimeSlot is a bookable interval as last reported by the authority.
// End is exclusive and may fall on a later calendar day than Start.
type TimeSlot struct {
	ID               ID        `json:"id"`
	Title            string    `json:"title"`
	Category         ID        `json:"category"`
	CategoryName     string    `json:"category_name,omitempty"`
	Start            time.Time `json:"start_time"`
	End              time.Time `json:"end_time"`
	BookedBy         *ID       `json:"booked_by"`
	BookedByUsername string    `json:"booked_by_username,omitempty"`
}

// IsBooked reports whether any user holds the slot.
func (s TimeSlot) IsBooked() bool {
	return s.BookedBy != nil && !s.BookedBy.IsZero()
}

// IsBookedBy reports whether the given user holds the slot.
func (s TimeSlot) IsBookedBy(user ID) bool {
	return s.IsBooked() && !user.IsZero() && *s.BookedBy == user
}

// Duration returns End - Start.
func (s TimeSlot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// NewSlot is the admin input for creating a slot.
type NewSlot struct {
	Title    string    `json:"title" validate:"required"`
	Category ID        `json:"category" validate:"required"`
	Start    time.Time `json:"start_time" validate:"required"`
	End      time.Time `json:"end_time" validate:"required,gtfield=Start"`
}
