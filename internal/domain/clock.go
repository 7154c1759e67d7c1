package domain

import "github.com/jonboulle/clockwork"

// clock is a package-level time source so tests can freeze time via SetClock.
// It only feeds the snapshot's display date; hourly windows use the payload's
// own current.time.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source for snapshot assembly. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
