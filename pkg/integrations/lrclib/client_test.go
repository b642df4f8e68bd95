package lrclib

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matzehuels/obscura/pkg/buildinfo"
	"github.com/matzehuels/obscura/pkg/cache"
	"github.com/matzehuels/obscura/pkg/integrations"
)

func testServer(t *testing.T, results []track) (*httptest.Server, *int) {
	t.Helper()
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Path != "/search" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.URL.Query().Get("q") == "" {
			t.Errorf("request without q: %s", r.URL)
		}
		if ua := r.Header.Get("User-Agent"); ua != buildinfo.UserAgent() {
			t.Errorf("User-Agent = %q", ua)
		}
		json.NewEncoder(w).Encode(results)
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func TestSearchSynced(t *testing.T) {
	server, _ := testServer(t, []track{{
		ID:           7,
		TrackName:    "One More Time",
		ArtistName:   "Daft Punk",
		Duration:     320,
		SyncedLyrics: "[00:01.50] one more time\n[00:03.00]\n[01:02.50]celebration",
		PlainLyrics:  "ignored",
	}})
	c := NewClient(cache.NewNullCache(), Options{BaseURL: server.URL})

	res, err := c.Search(context.Background(), "daft punk one more time", false)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if !res.Synced {
		t.Error("Synced = false, want true")
	}
	if res.Title() != "Daft Punk - One More Time" {
		t.Errorf("Title() = %q", res.Title())
	}
	if res.Duration != 320*time.Second {
		t.Errorf("Duration = %v, want 320s", res.Duration)
	}
	if len(res.Lines) != 2 {
		t.Fatalf("got %d lines, want 2: %+v", len(res.Lines), res.Lines)
	}
	if res.Lines[0].Text != "one more time" || res.Lines[0].Onset != 1500*time.Millisecond {
		t.Errorf("line 0 = %+v", res.Lines[0])
	}
	if res.Lines[1].Onset != 62500*time.Millisecond {
		t.Errorf("line 1 onset = %v, want 62.5s", res.Lines[1].Onset)
	}
}

func TestSearchPlainFallback(t *testing.T) {
	server, _ := testServer(t, []track{{
		TrackName:   "Song",
		PlainLyrics: "[Verse 1]\nfirst\n\nsecond\nthird",
	}})
	c := NewClient(cache.NewNullCache(), Options{BaseURL: server.URL})

	res, err := c.Search(context.Background(), "song", false)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if res.Synced {
		t.Error("Synced = true for plain lyrics")
	}
	want := []time.Duration{0, 2 * time.Second, 4 * time.Second}
	if len(res.Lines) != len(want) {
		t.Fatalf("got %d lines, want %d", len(res.Lines), len(want))
	}
	for i, l := range res.Lines {
		if l.Onset != want[i] {
			t.Errorf("line %d onset = %v, want %v", i, l.Onset, want[i])
		}
	}
	if res.Duration != 6*time.Second {
		t.Errorf("Duration = %v, want 6s", res.Duration)
	}
	if res.Title() != "Song" {
		t.Errorf("Title() = %q", res.Title())
	}
}

func TestSearchNotFound(t *testing.T) {
	tests := []struct {
		name    string
		results []track
	}{
		{name: "no results", results: []track{}},
		{name: "no lyrics", results: []track{{TrackName: "Instrumental"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := testServer(t, tt.results)
			c := NewClient(cache.NewNullCache(), Options{BaseURL: server.URL})

			_, err := c.Search(context.Background(), "nothing", false)
			if !errors.Is(err, integrations.ErrNotFound) {
				t.Errorf("Search() error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	c := NewClient(cache.NewNullCache(), Options{BaseURL: "http://127.0.0.1:0"})
	if _, err := c.Search(context.Background(), "   ", false); !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("Search(blank) error = %v, want ErrEmptyQuery", err)
	}
}

func TestSearchCached(t *testing.T) {
	server, calls := testServer(t, []track{{TrackName: "Song", SyncedLyrics: "[00:00.00]hi"}})
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := NewClient(fc, Options{BaseURL: server.URL, TTL: time.Hour})
	ctx := context.Background()

	if _, err := c.Search(ctx, "Some Song", false); err != nil {
		t.Fatalf("first Search: %v", err)
	}
	res, err := c.Search(ctx, "  some   song ", false)
	if err != nil {
		t.Fatalf("second Search: %v", err)
	}
	if *calls != 1 {
		t.Errorf("server called %d times, want 1", *calls)
	}
	if len(res.Lines) != 1 || res.Lines[0].Text != "hi" {
		t.Errorf("cached result lines = %+v", res.Lines)
	}

	if _, err := c.Search(ctx, "some song", true); err != nil {
		t.Fatalf("refresh Search: %v", err)
	}
	if *calls != 2 {
		t.Errorf("refresh did not hit the server: %d calls", *calls)
	}
}
