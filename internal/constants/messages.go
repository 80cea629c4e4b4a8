package constants

// User-facing outcome messages for booking actions.
const (
	MsgBooked          = "Booked!"
	MsgUnbooked        = "Unsubscribed"
	MsgBookFailed      = "Booking failed"
	MsgUnbookFailed    = "Unbook failed"
	MsgLoadFailed      = "Failed to load timeslots"
	MsgAdminLoadFailed = "Access denied or failed to load"
	MsgSlotCreated     = "Timeslot created!"
	MsgCreateFailed    = "Failed to create slot"
	MsgFillAllFields   = "Please fill all fields"
	MsgPrefsSaved      = "Preferences saved!"
	MsgPrefsFailed     = "Failed to save preferences"
	MsgPrefsLoadFailed = "Failed to load preferences"
	MsgInvalidLogin    = "Invalid credentials"
	MsgUnreachable     = "Could not reach the booking service. Please try again."
)
