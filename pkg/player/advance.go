package player

import (
	"context"
	"time"
)

// cancelCheckEvery is how many ticks AdvanceContext runs between context
// checks.
const cancelCheckEvery = 256

// Advance ticks p at from, from+step, from+2*step, ... and finally at to,
// returning the last frame. It is how headless callers replay a schedule
// deterministically: the same player state, range and step always yield
// the same grid. A non-positive step ticks only at to. If to is before
// from, p is ticked once at from.
func (p *Player) Advance(from, to, step time.Duration) Frame {
	f, _ := p.AdvanceContext(context.Background(), from, to, step)
	return f
}

// AdvanceContext is Advance that stops early with ctx.Err() once ctx is
// done. The player is then left at an intermediate reading.
func (p *Player) AdvanceContext(ctx context.Context, from, to, step time.Duration) (Frame, error) {
	if to < from {
		to = from
	}
	if step > 0 {
		n := 0
		for t := from; t < to; t += step {
			if n++; n%cancelCheckEvery == 0 {
				if err := ctx.Err(); err != nil {
					return Frame{}, err
				}
			}
			p.Tick(t)
		}
	}
	return p.Tick(to), nil
}

// Replay builds a fresh player with newPlayer, starts it and advances it
// from zero to at in steps of step.
func Replay(newPlayer func() *Player, at, step time.Duration) (*Player, Frame) {
	p, f, _ := ReplayContext(context.Background(), newPlayer, at, step)
	return p, f
}

// ReplayContext is Replay bounded by ctx.
func ReplayContext(ctx context.Context, newPlayer func() *Player, at, step time.Duration) (*Player, Frame, error) {
	p := newPlayer()
	p.Play()
	f, err := p.AdvanceContext(ctx, 0, at, step)
	return p, f, err
}
