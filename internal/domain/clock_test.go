package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

// freezeClock pins the package clock to 2026-10-18 09:30 UTC for the test.
func freezeClock(t *testing.T) *clockwork.FakeClock {
	t.Helper()
	fc := clockwork.NewFakeClockAt(time.Date(2026, time.October, 18, 9, 30, 0, 0, time.UTC))
	SetClock(fc)
	t.Cleanup(func() { SetClock(nil) })
	return fc
}
