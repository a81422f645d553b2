package tui

import (
	"time"

	"github.com/Veraticus/smartspend/internal/tracker"
)

// pushMsg relays a finished background push into the program.
type pushMsg tracker.PushResult

// errMsg reports a failed action.
type errMsg struct {
	err error
}

func (e errMsg) Error() string { return e.err.Error() }

// clearStatusMsg clears the status line if it still shows the message set at
// the given time.
type clearStatusMsg struct {
	set time.Time
}
