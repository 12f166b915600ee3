package sequence

import (
	"math"
	"time"
)

// arrival decides when the locomotion has reached its target. The distance
// test is repeated every tick and must hold for the whole settle window; a
// pending or missing path always counts as not arrived, since the remaining
// distance is stale while the path is being (re)computed.
type arrival struct {
	holding bool
	settled time.Duration
}

func (a *arrival) reset() {
	a.holding = false
	a.settled = 0
}

func (a *arrival) update(loco Locomotion, tolerance float64, settle, dt time.Duration) bool {
	if !withinArrival(loco, tolerance) {
		a.reset()
		return false
	}
	if !a.holding {
		a.holding = true
		a.settled = 0
		return settle <= 0
	}
	a.settled += dt
	return a.settled >= settle
}

func withinArrival(loco Locomotion, tolerance float64) bool {
	if !loco.HasPath() || loco.PathPending() {
		return false
	}
	return loco.RemainingDistance() <= math.Max(loco.StoppingDistance(), tolerance)
}
