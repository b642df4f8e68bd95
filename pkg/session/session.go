// Package session stores playback sessions for the HTTP API.
//
// A session holds everything needed to rebuild its player from scratch:
// the lyric source, pacing, speed and grid seed. Rebuilding is
// deterministic, so any server process holding the session can serve its
// frames. Two backends implement [Store]:
//   - [MemoryStore]: a single process, for development and tests
//   - [RedisStore]: shared by several server instances
//
// Sessions expire; stores treat an expired session as missing.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/obscura/pkg/grid"
	"github.com/matzehuels/obscura/pkg/lyrics"
)

// DefaultTTL is the default session lifetime.
const DefaultTTL = time.Hour

// ErrInvalidID is returned for a session ID that is not a UUID.
var ErrInvalidID = errors.New("invalid session id")

// Session is one playback of one lyric.
type Session struct {
	ID     string        `json:"id"`
	Text   string        `json:"text,omitempty"`  // paced source
	Lines  []lyrics.Line `json:"lines,omitempty"` // timed source; wins over Text
	Pacing lyrics.Pacing `json:"pacing"`
	Speed  float64       `json:"speed"`
	Seed   int64         `json:"seed"`

	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Params are the user-supplied parts of a session.
type Params struct {
	Text   string
	Lines  []lyrics.Line
	Pacing lyrics.Pacing
	Speed  float64
	Seed   int64
}

// New creates a session with a fresh random ID that expires after ttl.
func New(p Params, ttl time.Duration) *Session {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Text:      p.Text,
		Lines:     p.Lines,
		Pacing:    p.Pacing,
		Speed:     p.Speed,
		Seed:      p.Seed,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired reports whether the session has passed its expiry.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Timed reports whether the session follows timestamps.
func (s *Session) Timed() bool { return len(s.Lines) > 0 }

// Scheduler builds a fresh scheduler for the session's lyric source.
func (s *Session) Scheduler() lyrics.Scheduler {
	if s.Timed() {
		return lyrics.NewTimed(s.Lines)
	}
	return lyrics.NewPaced(s.Text, s.Pacing, s.Speed)
}

// Grid builds a fresh grid from the session seed.
func (s *Session) Grid() *grid.Grid { return grid.New(s.Seed) }

// ValidateID checks that id is a UUID as issued by [New].
func ValidateID(id string) error {
	if err := uuid.Validate(id); err != nil {
		return ErrInvalidID
	}
	return nil
}

// Store is the interface for session storage backends.
type Store interface {
	// Get returns the session with id, or nil, nil if it does not exist or
	// has expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session until its expiry.
	Set(ctx context.Context, s *Session) error

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions. It may be a no-op for backends with
	// native expiry.
	Cleanup(ctx context.Context) error
}
