package lyrics

import (
	"slices"
	"time"
)

// Grace is how long the last timed line stays up before the schedule
// completes.
const Grace = 3 * time.Second

// Line is a lyric line with the offset at which it becomes current.
type Line struct {
	Text  string        `json:"text"`
	Onset time.Duration `json:"onset"`
}

// Timed follows externally supplied onsets.
type Timed struct {
	anchor
	lines []Line
	units []Unit
}

// NewTimed creates a scheduler over lines. The lines are copied and sorted
// by onset; lines sharing an onset keep their input order.
func NewTimed(lines []Line) *Timed {
	sorted := slices.Clone(lines)
	slices.SortStableFunc(sorted, func(a, b Line) int {
		switch {
		case a.Onset < b.Onset:
			return -1
		case a.Onset > b.Onset:
			return 1
		}
		return 0
	})
	texts := make([]string, len(sorted))
	for i, l := range sorted {
		texts[i] = l.Text
	}
	return &Timed{lines: sorted, units: units(texts)}
}

// Lines returns the sorted lines.
func (t *Timed) Lines() []Line { return t.lines }

// Units returns every line as a unit, in onset order.
func (t *Timed) Units() []Unit { return t.units }

// Current returns the latest line whose onset is at or before now.
func (t *Timed) Current(now time.Duration) (Unit, bool) {
	e := t.elapsed(now)
	for i := len(t.lines) - 1; i >= 0; i-- {
		if e >= t.lines[i].Onset {
			return t.units[i], true
		}
	}
	return Unit{}, false
}

// Complete reports whether now is past the last onset plus [Grace]. An
// empty schedule is always complete.
func (t *Timed) Complete(now time.Duration) bool {
	if len(t.lines) == 0 {
		return true
	}
	return t.elapsed(now) > t.TotalDuration()
}

// TotalDuration is the last onset plus [Grace], or 0 with no lines.
func (t *Timed) TotalDuration() time.Duration {
	if len(t.lines) == 0 {
		return 0
	}
	return t.lines[len(t.lines)-1].Onset + Grace
}
