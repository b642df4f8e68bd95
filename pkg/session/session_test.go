package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/obscura/pkg/lyrics"
)

func TestNew(t *testing.T) {
	s := New(Params{Text: "a b", Pacing: lyrics.PaceWord, Speed: 2, Seed: 9}, time.Minute)

	if err := ValidateID(s.ID); err != nil {
		t.Errorf("ValidateID(%q) = %v", s.ID, err)
	}
	if s.IsExpired() {
		t.Error("fresh session is expired")
	}
	if got := s.ExpiresAt.Sub(s.CreatedAt); got != time.Minute {
		t.Errorf("lifetime = %v, want 1m", got)
	}
	if other := New(Params{}, 0); other.ID == s.ID {
		t.Error("two sessions share an ID")
	}
}

func TestNewDefaultTTL(t *testing.T) {
	s := New(Params{}, 0)
	if got := s.ExpiresAt.Sub(s.CreatedAt); got != DefaultTTL {
		t.Errorf("lifetime = %v, want %v", got, DefaultTTL)
	}
}

func TestValidateID(t *testing.T) {
	for _, id := range []string{"", "abc", "../../etc/passwd"} {
		if err := ValidateID(id); err == nil {
			t.Errorf("ValidateID(%q) = nil, want error", id)
		}
	}
}

func TestSessionScheduler(t *testing.T) {
	paced := New(Params{Text: "one two three", Pacing: lyrics.PaceWord, Speed: 1}, 0)
	if paced.Timed() {
		t.Error("paced session reports Timed")
	}
	if n := len(paced.Scheduler().Units()); n != 3 {
		t.Errorf("paced units = %d, want 3", n)
	}

	timed := New(Params{
		Text:  "ignored",
		Lines: []lyrics.Line{{Text: "hi", Onset: time.Second}},
	}, 0)
	if !timed.Timed() {
		t.Error("session with lines does not report Timed")
	}
	sched := timed.Scheduler()
	if _, ok := sched.(*lyrics.Timed); !ok {
		t.Errorf("Scheduler() = %T, want *lyrics.Timed", sched)
	}
	if u, ok := sched.Current(time.Second); !ok || u.Text != "hi" {
		t.Errorf("Current(1s) = (%+v, %v)", u, ok)
	}
}

func TestSessionGridDeterministic(t *testing.T) {
	s := New(Params{Seed: 1234}, 0)
	if s.Grid().Snapshot().String() != s.Grid().Snapshot().String() {
		t.Error("Grid() is not deterministic for a fixed seed")
	}
}

func testStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	got, err := store.Get(ctx, "missing")
	if err != nil || got != nil {
		t.Errorf("Get(missing) = (%v, %v), want (nil, nil)", got, err)
	}

	s := New(Params{Text: "hello", Pacing: lyrics.PaceLine, Speed: 1, Seed: 5}, time.Minute)
	if err := store.Set(ctx, s); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err = store.Get(ctx, s.ID)
	if err != nil || got == nil {
		t.Fatalf("Get() = (%v, %v)", got, err)
	}
	if got.Text != "hello" || got.Seed != 5 || got.Pacing != lyrics.PaceLine {
		t.Errorf("Get() = %+v, want stored session", got)
	}

	if err := store.Delete(ctx, s.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got, _ := store.Get(ctx, s.ID); got != nil {
		t.Error("Get() after Delete returned a session")
	}
	if err := store.Delete(ctx, s.ID); err != nil {
		t.Errorf("Delete(missing) = %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	old := New(Params{}, time.Minute)
	old.ExpiresAt = time.Now().Add(-time.Second)
	m.Set(ctx, old)
	live := New(Params{}, time.Minute)
	m.Set(ctx, live)

	if got, _ := m.Get(ctx, old.ID); got != nil {
		t.Error("expired session returned")
	}
	expired := New(Params{}, time.Minute)
	expired.ExpiresAt = time.Now().Add(-time.Second)
	m.Set(ctx, expired)

	if err := m.Cleanup(ctx); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if m.Len() != 1 {
		t.Errorf("Len() after Cleanup = %d, want 1", m.Len())
	}
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	s := New(Params{Text: "before"}, 0)
	m.Set(ctx, s)

	s.Text = "after"
	got, _ := m.Get(ctx, s.ID)
	if got.Text != "before" {
		t.Errorf("store shares the caller's session: Text = %q", got.Text)
	}
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("OBSCURA_REDIS_ADDR")
	if addr == "" {
		t.Skip("OBSCURA_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("ping redis: %v", err)
	}
	testStore(t, NewRedisStore(client, "obscura:test:session:"))
}
