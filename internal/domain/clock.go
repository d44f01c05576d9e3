package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock is the package-level reference for "today". Due dates and asset ages
// are computed against it so tests can freeze the calendar via SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source used for due dates and asset age.
// Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// today returns the current UTC calendar date at midnight.
func today() time.Time {
	now := clock.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
