package player

import "time"

// Clock is a pausable stopwatch that turns wall time into the playback
// readings Tick expects.
type Clock struct {
	running bool
	since   time.Time
	banked  time.Duration
}

// Start resumes the clock at t. Starting a running clock does nothing.
func (c *Clock) Start(t time.Time) {
	if c.running {
		return
	}
	c.running = true
	c.since = t
}

// Stop pauses the clock at t, keeping the time accumulated so far.
func (c *Clock) Stop(t time.Time) {
	if !c.running {
		return
	}
	c.banked += t.Sub(c.since)
	c.running = false
}

// Running reports whether the clock is advancing.
func (c *Clock) Running() bool { return c.running }

// Elapsed returns the running time as of t.
func (c *Clock) Elapsed(t time.Time) time.Duration {
	if !c.running {
		return c.banked
	}
	return c.banked + t.Sub(c.since)
}

// Reset stops the clock and zeroes it.
func (c *Clock) Reset() {
	*c = Clock{}
}
