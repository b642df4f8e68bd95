package lrclib

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/obscura/pkg/buildinfo"
	"github.com/matzehuels/obscura/pkg/cache"
	"github.com/matzehuels/obscura/pkg/integrations"
	"github.com/matzehuels/obscura/pkg/lyrics"
	"github.com/matzehuels/obscura/pkg/observability"
)

// DefaultBaseURL is the public lrclib API.
const DefaultBaseURL = "https://lrclib.net/api"

// ErrEmptyQuery is returned for a blank search query.
var ErrEmptyQuery = errors.New("empty lyrics query")

// Result is a resolved track and its timed lines.
type Result struct {
	ID       int           `json:"id"`
	Track    string        `json:"track"`
	Artist   string        `json:"artist"`
	Album    string        `json:"album,omitempty"`
	Duration time.Duration `json:"duration"`
	Synced   bool          `json:"synced"`
	Lines    []lyrics.Line `json:"lines"`
}

// Title is "Artist - Track", or just the track when the artist is unknown.
func (r *Result) Title() string {
	if r.Artist == "" {
		return r.Track
	}
	return r.Artist + " - " + r.Track
}

// Options configures a Client.
type Options struct {
	BaseURL string        // defaults to DefaultBaseURL
	Timeout time.Duration // per request; defaults to integrations.DefaultTimeout
	TTL     time.Duration // cache lifetime of a lookup
	Keyer   cache.Keyer   // defaults to cache.DefaultKeyer
}

// Client searches lrclib. It is safe for concurrent use.
type Client struct {
	*integrations.Client
	baseURL string
	keyer   cache.Keyer
}

// NewClient creates a client caching lookups in backend.
func NewClient(backend cache.Cache, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Keyer == nil {
		opts.Keyer = cache.NewDefaultKeyer()
	}
	ic := integrations.NewClient(backend, "lrclib:", opts.TTL, map[string]string{"User-Agent": buildinfo.UserAgent()})
	if opts.Timeout > 0 {
		ic.SetTimeout(opts.Timeout)
	}
	return &Client{
		Client:  ic,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		keyer:   opts.Keyer,
	}
}

// track mirrors one element of the /search response.
type track struct {
	ID           int     `json:"id"`
	TrackName    string  `json:"trackName"`
	ArtistName   string  `json:"artistName"`
	AlbumName    string  `json:"albumName"`
	Duration     float64 `json:"duration"`
	PlainLyrics  string  `json:"plainLyrics"`
	SyncedLyrics string  `json:"syncedLyrics"`
}

// Search looks up query and returns the first matching track.
//
// Returns [integrations.ErrNotFound] when there are no results or the
// first result carries no usable lyrics. If refresh is true the cache is
// bypassed.
func (c *Client) Search(ctx context.Context, query string, refresh bool) (res *Result, err error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	hooks := observability.Lookup()
	hooks.OnLookupStart(ctx, query)
	start := time.Now()
	defer func() {
		n := 0
		if res != nil {
			n = len(res.Lines)
		}
		hooks.OnLookupComplete(ctx, query, n, time.Since(start), err)
	}()

	var t track
	err = c.Cached(ctx, c.keyer.LyricsKey(query), refresh, &t, func() error {
		return c.fetch(ctx, query, &t)
	})
	if err != nil {
		return nil, err
	}
	return toResult(t)
}

func (c *Client) fetch(ctx context.Context, query string, t *track) error {
	var results []track
	url := fmt.Sprintf("%s/search?q=%s", c.baseURL, integrations.URLEncode(query))
	if err := c.Get(ctx, url, &results); err != nil {
		return err
	}
	if len(results) == 0 {
		return fmt.Errorf("%w: no lyrics for %q", integrations.ErrNotFound, query)
	}
	*t = results[0]
	return nil
}

func toResult(t track) (*Result, error) {
	res := &Result{
		ID:       t.ID,
		Track:    t.TrackName,
		Artist:   t.ArtistName,
		Album:    t.AlbumName,
		Duration: time.Duration(t.Duration * float64(time.Second)),
	}
	if t.SyncedLyrics != "" {
		res.Lines = lyrics.ParseLRC(t.SyncedLyrics)
		res.Synced = len(res.Lines) > 0
	}
	if len(res.Lines) == 0 && t.PlainLyrics != "" {
		res.Lines = lyrics.PlainLines(t.PlainLyrics, lyrics.DefaultPlainStep)
	}
	if len(res.Lines) == 0 {
		return nil, fmt.Errorf("%w: %q has no lyrics", integrations.ErrNotFound, t.TrackName)
	}
	if res.Duration == 0 {
		last := res.Lines[len(res.Lines)-1].Onset
		if res.Synced {
			res.Duration = last + lyrics.Grace
		} else {
			res.Duration = last + lyrics.DefaultPlainStep
		}
	}
	return res, nil
}
