// Package player drives a grid from a lyric schedule one frame at a time.
//
// The host (a terminal loop, an HTTP handler, a test) calls [Player.Tick]
// with a monotonically non-decreasing clock reading. Each tick queries the
// scheduler exactly once, swaps the placed lyric when the current unit
// changed, and refreshes the ambient noise on a fixed cadence. Everything
// happens synchronously inside Tick; the Player never blocks and never
// starts goroutines. Stopping playback means the host stops calling Tick.
//
// A Player is not safe for concurrent use.
package player

import (
	"time"

	"github.com/matzehuels/obscura/pkg/grid"
	"github.com/matzehuels/obscura/pkg/lyrics"
	"github.com/matzehuels/obscura/pkg/observability"
)

// DefaultRefreshInterval is how often ambient cells are redrawn.
const DefaultRefreshInterval = 500 * time.Millisecond

// Options configures a Player.
type Options struct {
	// RefreshInterval between ambient redraws. Zero uses
	// DefaultRefreshInterval.
	RefreshInterval time.Duration
}

// Frame describes what one tick did.
type Frame struct {
	Unit     lyrics.Unit   `json:"unit"`
	HasUnit  bool          `json:"has_unit"`
	Changed  bool          `json:"changed"`
	Placed   int           `json:"placed"`
	Complete bool          `json:"complete"`
	Elapsed  time.Duration `json:"elapsed"`
}

// Player couples a grid with a scheduler.
type Player struct {
	grid    *grid.Grid
	sched   lyrics.Scheduler
	refresh time.Duration

	playing     bool
	anchored    bool
	anchor      time.Duration
	lastRefresh time.Duration
	completed   bool

	// last unit seen by the scheduler; lastIndex is -1 for none
	lastIndex int
	lastText  string
}

// New creates a paused Player over g and s.
func New(g *grid.Grid, s lyrics.Scheduler, opts Options) *Player {
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = DefaultRefreshInterval
	}
	return &Player{
		grid:      g,
		sched:     s,
		refresh:   opts.RefreshInterval,
		lastIndex: -1,
	}
}

// Grid returns the driven grid.
func (p *Player) Grid() *grid.Grid { return p.grid }

// Scheduler returns the current scheduler.
func (p *Player) Scheduler() lyrics.Scheduler { return p.sched }

// Playing reports whether ticks advance the lyric.
func (p *Player) Playing() bool { return p.playing }

// Play resumes lyric advancement.
func (p *Player) Play() { p.playing = true }

// Pause stops lyric advancement. Ambient refresh still follows the
// readings passed to Tick, so it stops too if the host's clock stops.
func (p *Player) Pause() { p.playing = false }

// Toggle flips between playing and paused and reports the new state.
func (p *Player) Toggle() bool {
	p.playing = !p.playing
	return p.playing
}

// Restart pauses, rewinds the scheduler and resets the grid to its seed.
// The next Tick re-anchors the schedule at its clock reading.
func (p *Player) Restart() {
	p.playing = false
	p.sched.Restart()
	p.grid.Reset()
	p.anchored = false
	p.lastRefresh = 0
	p.completed = false
	p.lastIndex = -1
	p.lastText = ""
}

// SetScheduler swaps the schedule, for example after a speed change, and
// clears the placed lyric. The new schedule is anchored at the old anchor
// so playback position is preserved.
func (p *Player) SetScheduler(s lyrics.Scheduler) {
	p.sched = s
	if p.anchored {
		s.SetStart(p.anchor)
	}
	p.grid.ClearActive()
	p.completed = false
	p.lastIndex = -1
	p.lastText = ""
}

// Current returns the last unit applied to the grid.
func (p *Player) Current() (lyrics.Unit, bool) {
	if p.lastIndex < 0 {
		return lyrics.Unit{}, false
	}
	return lyrics.Unit{Index: p.lastIndex, Text: p.lastText}, true
}

// Tick advances the player to now.
func (p *Player) Tick(now time.Duration) Frame {
	if !p.anchored {
		p.anchor = now
		p.anchored = true
		p.sched.SetStart(now)
		p.lastRefresh = now
	}

	f := Frame{Elapsed: now - p.anchor, Complete: p.sched.Complete(now)}
	if p.playing {
		u, ok := p.sched.Current(now)
		idx := -1
		if ok {
			idx = u.Index
		}
		if idx != p.lastIndex {
			p.grid.ClearActive()
			if ok {
				f.Placed = len(p.grid.Place(u.Text, grid.Append))
			}
			p.lastIndex, p.lastText = idx, u.Text
			f.Changed = true
			observability.Playback().OnUnitChange(idx, u.Text, p.grid.Placed(), len(grid.Tokenize(u.Text)))
		}
		if f.Complete && !p.completed {
			p.completed = true
			observability.Playback().OnComplete(f.Elapsed)
		}
	}

	if now-p.lastRefresh >= p.refresh {
		p.grid.RefreshAmbient()
		p.lastRefresh = now
	}

	f.Unit, f.HasUnit = p.Current()
	return f
}
