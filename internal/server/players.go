package server

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/obscura/pkg/player"
	"github.com/matzehuels/obscura/pkg/session"
)

// live is one session's player. Its mutex keeps every Tick on the player
// serialized, since a Player is single-threaded.
type live struct {
	mu      sync.Mutex
	player  *player.Player
	at      time.Duration // last replayed offset
	expires time.Time
}

// players caches live players by session ID.
type players struct {
	mu      sync.Mutex
	byID    map[string]*live
	step    time.Duration
	refresh time.Duration
}

func newPlayers(step, refresh time.Duration) *players {
	return &players{byID: make(map[string]*live), step: step, refresh: refresh}
}

func (ps *players) get(sess *session.Session) *live {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	l, ok := ps.byID[sess.ID]
	if !ok {
		l = &live{at: -1, expires: sess.ExpiresAt}
		ps.byID[sess.ID] = l
	}
	return l
}

func (ps *players) drop(id string) {
	ps.mu.Lock()
	delete(ps.byID, id)
	ps.mu.Unlock()
}

func (ps *players) prune(now time.Time) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	for id, l := range ps.byID {
		if now.After(l.expires) {
			delete(ps.byID, id)
		}
	}
}

// frame advances the session's player to at and reads the resulting frame
// while the player's lock is held. Requests for an offset earlier than the
// last one replay the session from zero. If ctx ends mid-replay the player
// is dropped so the next request starts over.
func (ps *players) frame(ctx context.Context, sess *session.Session, at time.Duration) (frameResponse, error) {
	l := ps.get(sess)
	l.mu.Lock()
	defer l.mu.Unlock()

	build := func() *player.Player {
		return player.New(sess.Grid(), sess.Scheduler(), player.Options{RefreshInterval: ps.refresh})
	}

	var (
		f   player.Frame
		err error
	)
	if l.player == nil || at < l.at {
		l.player, f, err = player.ReplayContext(ctx, build, at, ps.step)
	} else {
		f, err = l.player.AdvanceContext(ctx, l.at, at, ps.step)
	}
	if err != nil {
		l.player, l.at = nil, -1
		return frameResponse{}, err
	}
	l.at = at

	resp := frameResponse{
		AtMS:     at.Milliseconds(),
		Complete: f.Complete,
		Placed:   l.player.Grid().Placed(),
		Grid:     l.player.Grid().Snapshot(),
	}
	if f.HasUnit {
		u := f.Unit
		resp.Unit = &u
	}
	return resp, nil
}
