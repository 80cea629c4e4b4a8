// Package state holds the form models shared by the TUI and its handlers.
package state

import "github.com/julianstephens/weekslot/internal/models"

// PrefsFormModel backs the preferences editor.
type PrefsFormModel struct {
	Categories []models.ID
}

// SlotFormModel backs the admin create form. Times are kept as typed text
// until submit.
type SlotFormModel struct {
	Title    string
	Category models.ID
	Start    string
	End      string
}
