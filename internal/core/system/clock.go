package system

import "time"

// FrameClock measures the wall time between consecutive frames. The first
// call to Delta returns the nominal frame length.
type FrameClock struct {
	nominal time.Duration
	maxStep time.Duration
	last    time.Time
	now     func() time.Time
}

// NewFrameClock creates a clock for frames of the given nominal length.
// Deltas are capped at four frames so a stalled loop does not teleport NPCs.
func NewFrameClock(nominal time.Duration) *FrameClock {
	return &FrameClock{nominal: nominal, maxStep: 4 * nominal, now: time.Now}
}

func (c *FrameClock) Delta() time.Duration {
	t := c.now()
	if c.last.IsZero() {
		c.last = t
		return c.nominal
	}
	d := t.Sub(c.last)
	c.last = t
	if d < 0 {
		return 0
	}
	if d > c.maxStep {
		return c.maxStep
	}
	return d
}
