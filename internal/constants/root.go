package constants

import (
	"time"
)

// SessionState represents the current state of the TUI application
type SessionState int

// SlotAction identifies a viewer action on a slot
type SlotAction string

const (
	AppName           = "weekslot"
	DefaultConfigDir  = "~/.config/weekslot"
	DefaultStorePath  = "~/.config/weekslot/weekslot.db"
	DefaultConfigFile = "~/.config/weekslot/config.json"
	Version           = "v0.2.0"

	// Keyring entries
	KeyringTokensPrefix = "tokens:"
	KeyringDatabaseUser = "database-connection"

	// Remote client constants
	DefaultRequestTimeout = 15 * time.Second
	DefaultRequestsPerSec = 5
	DefaultRequestBurst   = 10

	// Tray notifier constants
	NotifierLockfileName   = "weekslot-tray.lock"
	NotificationDurationMs = 4000
	TrayAppIdentifier      = "com.julianstephens.weekslot"
	TrayExecutablePrefix   = "weekslot-tray"

	// Slot actions
	ActionBook   SlotAction = "book"
	ActionUnbook SlotAction = "unbook"
)

// Session States
const (
	StateCalendar SessionState = iota
	StatePreferences
	StateAdmin
	StateEditPreferences
	StateCreateSlot
)

// DayLabels are the week grid column labels, Monday first.
var DayLabels = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// SeedCategories are the categories created by the local store migrations.
var SeedCategories = []string{"Cat 1", "Cat 2", "Cat 3"}
