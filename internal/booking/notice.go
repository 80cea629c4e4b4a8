package booking

import (
	"github.com/julianstephens/weekslot/internal/constants"
	"github.com/julianstephens/weekslot/internal/models"
)

// Notice is a user-facing outcome of a controller action.
type Notice struct {
	Action  constants.SlotAction
	Slot    models.TimeSlot
	Message string
	Err     error
}

// Failed reports whether the notice describes a failure.
func (n Notice) Failed() bool { return n.Err != nil }

// Notifier receives outcome notices. Implementations must not block for long;
// they are called on the goroutine that ran the action.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notice) { f(n) }

type multiNotifier []Notifier

func (m multiNotifier) Notify(n Notice) {
	for _, nt := range m {
		nt.Notify(n)
	}
}

// MultiNotifier fans a notice out to every non-nil notifier in order.
func MultiNotifier(notifiers ...Notifier) Notifier {
	var out multiNotifier
	for _, n := range notifiers {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}
