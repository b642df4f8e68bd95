package lyrics

import "time"

// Unit is one timed piece of lyric text.
type Unit struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// Scheduler resolves which lyric unit is current for a clock reading.
type Scheduler interface {
	// Current returns the unit active at now, or false when nothing is
	// showing (before the start, past the end, or no units at all).
	Current(now time.Duration) (Unit, bool)

	// Complete reports whether playback has run past the last unit.
	Complete(now time.Duration) bool

	// Restart clears the start anchor.
	Restart()

	// SetStart anchors elapsed time: elapsed = now - anchor.
	SetStart(anchor time.Duration)

	// TotalDuration is the elapsed time at which the schedule completes.
	TotalDuration() time.Duration

	// Units lists every unit in order.
	Units() []Unit
}

// anchor is the start-time bookkeeping shared by both schedulers.
type anchor struct {
	start time.Duration
}

func (a *anchor) SetStart(t time.Duration) { a.start = t }

func (a *anchor) Restart() { a.start = 0 }

func (a *anchor) elapsed(now time.Duration) time.Duration { return now - a.start }

func units(texts []string) []Unit {
	out := make([]Unit, len(texts))
	for i, t := range texts {
		out[i] = Unit{Index: i, Text: t}
	}
	return out
}

var (
	_ Scheduler = (*Paced)(nil)
	_ Scheduler = (*Timed)(nil)
)
