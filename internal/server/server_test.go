package server

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/obscura/pkg/errors"
	"github.com/matzehuels/obscura/pkg/integrations"
	"github.com/matzehuels/obscura/pkg/integrations/lrclib"
	"github.com/matzehuels/obscura/pkg/lyrics"
	"github.com/matzehuels/obscura/pkg/session"
)

type fakeLookup struct {
	res *lrclib.Result
	err error
}

func (f *fakeLookup) Search(context.Context, string, bool) (*lrclib.Result, error) {
	return f.res, f.err
}

func newTestServer(t *testing.T, lookup Lookup) *httptest.Server {
	t.Helper()
	s := New(session.NewMemoryStore(), lookup, log.New(io.Discard), Options{})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body any, v any) int {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if v != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("decode %s %s: %v", method, url, err)
		}
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)
	var body map[string]string
	if code := doJSON(t, http.MethodGet, ts.URL+"/healthz", nil, &body); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestSessionLifecycle(t *testing.T) {
	ts := newTestServer(t, nil)

	var created sessionResponse
	code := doJSON(t, http.MethodPost, ts.URL+"/api/v1/sessions", map[string]any{
		"text": "sun rises\nmoon sets\nstars",
		"seed": 42,
	}, &created)
	if code != http.StatusCreated {
		t.Fatalf("create status = %d", code)
	}
	if len(created.Units) != 3 || created.TotalMS != 3*1800 {
		t.Errorf("created = %+v", created)
	}
	if created.Pacing != lyrics.PaceLine || created.Speed != 1 {
		t.Errorf("defaults not applied: pacing=%q speed=%v", created.Pacing, created.Speed)
	}

	base := ts.URL + "/api/v1/sessions/" + created.ID

	var got sessionResponse
	if code := doJSON(t, http.MethodGet, base, nil, &got); code != http.StatusOK {
		t.Fatalf("get status = %d", code)
	}
	if got.ID != created.ID || got.Seed != 42 {
		t.Errorf("got = %+v", got)
	}

	var frame frameResponse
	if code := doJSON(t, http.MethodGet, base+"/frame?at=0", nil, &frame); code != http.StatusOK {
		t.Fatalf("frame status = %d", code)
	}
	if frame.Unit == nil || frame.Unit.Text != "sun rises" {
		t.Fatalf("frame unit = %+v, want \"sun rises\"", frame.Unit)
	}
	if frame.Placed != 2 {
		t.Errorf("placed words = %d, want 2", frame.Placed)
	}
	if got := sortedLetters(activeLetters(frame)); got != sortedLetters("sunrises") {
		t.Errorf("active letters = %q, want the letters of %q", got, "sunrises")
	}

	if code := doJSON(t, http.MethodGet, base+"/frame?at=1900", nil, &frame); code != http.StatusOK {
		t.Fatalf("frame status = %d", code)
	}
	if frame.Unit == nil || frame.Unit.Text != "moon sets" {
		t.Errorf("frame unit at 1.9s = %+v", frame.Unit)
	}

	// past the end: no unit, and complete
	doJSON(t, http.MethodGet, base+"/frame?at=6000", nil, &frame)
	if frame.Unit != nil || !frame.Complete {
		t.Errorf("frame at 6s = unit %+v complete %v", frame.Unit, frame.Complete)
	}

	if code := doJSON(t, http.MethodDelete, base, nil, nil); code != http.StatusNoContent {
		t.Errorf("delete status = %d", code)
	}
	var e errorResponse
	if code := doJSON(t, http.MethodGet, base, nil, &e); code != http.StatusNotFound {
		t.Errorf("get after delete status = %d", code)
	}
	if e.Code != errors.ErrCodeSessionNotFound {
		t.Errorf("code = %q", e.Code)
	}
}

func sortedLetters(s string) string {
	b := []byte(s)
	slices.Sort(b)
	return string(b)
}

// activeLetters reads the active cells row by row.
func activeLetters(f frameResponse) string {
	var b strings.Builder
	for r := range f.Grid.Size {
		for c := range f.Grid.Size {
			if f.Grid.Active[r][c] {
				b.WriteString(f.Grid.Chars[r][c])
			}
		}
	}
	return b.String()
}

func TestFrameIsDeterministicAcrossSessions(t *testing.T) {
	ts := newTestServer(t, nil)
	body := map[string]any{"lrc": "[00:00.00]hello there\n[00:02.00]general", "seed": 9}

	var a, b sessionResponse
	doJSON(t, http.MethodPost, ts.URL+"/api/v1/sessions", body, &a)
	doJSON(t, http.MethodPost, ts.URL+"/api/v1/sessions", body, &b)
	if !a.Timed || a.TotalMS != 5000 {
		t.Errorf("timed session = %+v", a)
	}

	var fa, fb frameResponse
	doJSON(t, http.MethodGet, ts.URL+"/api/v1/sessions/"+a.ID+"/frame?at=2500", nil, &fa)
	doJSON(t, http.MethodGet, ts.URL+"/api/v1/sessions/"+b.ID+"/frame?at=2500", nil, &fb)

	if fa.Unit == nil || fa.Unit.Text != "general" {
		t.Fatalf("unit = %+v", fa.Unit)
	}
	for r := range fa.Grid.Chars {
		for c := range fa.Grid.Chars[r] {
			if fa.Grid.Chars[r][c] != fb.Grid.Chars[r][c] || fa.Grid.Active[r][c] != fb.Grid.Active[r][c] {
				t.Fatalf("grids differ at (%d,%d)", r, c)
			}
		}
	}
}

func TestFrameRewindReplays(t *testing.T) {
	ts := newTestServer(t, nil)
	var s sessionResponse
	doJSON(t, http.MethodPost, ts.URL+"/api/v1/sessions", map[string]any{"text": "alpha\nbeta", "seed": 3}, &s)
	base := ts.URL + "/api/v1/sessions/" + s.ID + "/frame"

	var first, later, again frameResponse
	doJSON(t, http.MethodGet, base+"?at=100", nil, &first)
	doJSON(t, http.MethodGet, base+"?at=2000", nil, &later)
	doJSON(t, http.MethodGet, base+"?at=100", nil, &again)

	if later.Unit == nil || later.Unit.Text != "beta" {
		t.Errorf("unit at 2s = %+v", later.Unit)
	}
	if again.Unit == nil || again.Unit.Text != "alpha" {
		t.Fatalf("unit after rewind = %+v", again.Unit)
	}
	if fmt.Sprint(first.Grid.Chars) != fmt.Sprint(again.Grid.Chars) {
		t.Error("rewound frame should replay to the same grid")
	}
}

func TestCreateSessionErrors(t *testing.T) {
	ts := newTestServer(t, nil)
	tests := []struct {
		name string
		body any
		code errors.Code
	}{
		{name: "empty text", body: map[string]any{"text": "  "}, code: errors.ErrCodeInvalidInput},
		{name: "bad pacing", body: map[string]any{"text": "hi", "pacing": "syllable"}, code: errors.ErrCodeInvalidPacing},
		{name: "bad speed", body: map[string]any{"text": "hi", "speed": -2}, code: errors.ErrCodeInvalidSpeed},
		{name: "lrc without timestamps", body: map[string]any{"lrc": "just words"}, code: errors.ErrCodeInvalidFormat},
		{name: "negative onset", body: map[string]any{"lines": []map[string]any{{"text": "x", "onset_ms": -1}}}, code: errors.ErrCodeInvalidInput},
		{name: "onset too late", body: map[string]any{"lines": []map[string]any{{"text": "x", "onset_ms": 0}, {"text": "y", "onset_ms": int64(1e12)}}}, code: errors.ErrCodeInvalidInput},
		{name: "blank lines", body: map[string]any{"lines": []map[string]any{{"text": " ", "onset_ms": 0}, {"text": "", "onset_ms": 10}}}, code: errors.ErrCodeInvalidInput},
		{name: "too many lines", body: map[string]any{"lines": manyLines(maxLines + 1)}, code: errors.ErrCodeInvalidInput},
		{name: "speed too low", body: map[string]any{"text": "hi", "speed": 1e-9}, code: errors.ErrCodeInvalidSpeed},
		{name: "not json", body: "nope", code: errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e errorResponse
			code := doJSON(t, http.MethodPost, ts.URL+"/api/v1/sessions", tt.body, &e)
			if code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", code)
			}
			if e.Code != tt.code {
				t.Errorf("code = %q, want %q", e.Code, tt.code)
			}
		})
	}
}

func TestSessionBadID(t *testing.T) {
	ts := newTestServer(t, nil)
	var e errorResponse
	if code := doJSON(t, http.MethodGet, ts.URL+"/api/v1/sessions/not-a-uuid/frame", nil, &e); code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", code)
	}
}

func TestLyricsEndpoint(t *testing.T) {
	res := &lrclib.Result{
		Track:  "Song",
		Artist: "Band",
		Synced: true,
		Lines:  []lyrics.Line{{Text: "hello", Onset: time.Second}},
	}
	tests := []struct {
		name   string
		lookup Lookup
		query  string
		status int
	}{
		{name: "found", lookup: &fakeLookup{res: res}, query: "band song", status: http.StatusOK},
		{name: "not found", lookup: &fakeLookup{err: integrations.ErrNotFound}, query: "x", status: http.StatusNotFound},
		{name: "rate limited", lookup: &fakeLookup{err: integrations.ErrRateLimited}, query: "x", status: http.StatusTooManyRequests},
		{name: "network", lookup: &fakeLookup{err: integrations.ErrNetwork}, query: "x", status: http.StatusBadGateway},
		{name: "disabled", lookup: nil, query: "x", status: http.StatusNotFound},
		{name: "empty query", lookup: &fakeLookup{res: res}, query: "", status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, tt.lookup)
			var body json.RawMessage
			code := doJSON(t, http.MethodGet, ts.URL+"/api/v1/lyrics?q="+integrations.URLEncode(tt.query), nil, &body)
			if code != tt.status {
				t.Errorf("status = %d, want %d (%s)", code, tt.status, body)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := map[errors.Code]int{
		errors.ErrCodeInvalidSpeed:    http.StatusBadRequest,
		errors.ErrCodeSessionNotFound: http.StatusNotFound,
		errors.ErrCodeTimeout:         http.StatusGatewayTimeout,
		errors.ErrCodeInternal:        http.StatusInternalServerError,
		"":                            http.StatusInternalServerError,
	}
	for code, want := range tests {
		if got := statusFor(code); got != want {
			t.Errorf("statusFor(%q) = %d, want %d", code, got, want)
		}
	}
}

func manyLines(n int) []map[string]any {
	lines := make([]map[string]any, n)
	for i := range lines {
		lines[i] = map[string]any{"text": "x", "onset_ms": i * 100}
	}
	return lines
}

func TestFrameOffsetIsCapped(t *testing.T) {
	ts := newTestServer(t, nil)
	var s sessionResponse
	code := doJSON(t, http.MethodPost, ts.URL+"/api/v1/sessions", map[string]any{
		"lines": []map[string]any{{"text": "first", "onset_ms": 0}, {"text": "last", "onset_ms": maxReplay.Milliseconds()}},
		"seed":  4,
	}, &s)
	if code != http.StatusCreated {
		t.Fatalf("create status = %d", code)
	}

	var f frameResponse
	if code := doJSON(t, http.MethodGet, ts.URL+"/api/v1/sessions/"+s.ID+"/frame?at=100000000000000000", nil, &f); code != http.StatusOK {
		t.Fatalf("frame status = %d", code)
	}
	if f.AtMS != maxReplay.Milliseconds() {
		t.Errorf("at_ms = %d, want %d", f.AtMS, maxReplay.Milliseconds())
	}
	if f.Unit == nil || f.Unit.Text != "last" {
		t.Errorf("unit = %+v, want \"last\"", f.Unit)
	}
}

func TestConcurrentFramesForOneSession(t *testing.T) {
	ts := newTestServer(t, nil)
	var s sessionResponse
	doJSON(t, http.MethodPost, ts.URL+"/api/v1/sessions", map[string]any{"text": "sun rises\nmoon sets\nstars", "seed": 11}, &s)
	base := ts.URL + "/api/v1/sessions/" + s.ID + "/frame?at="

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := http.Get(fmt.Sprintf("%s%d", base, 600+i*300))
			if err != nil {
				errs <- err
				return
			}
			defer resp.Body.Close()
			var f frameResponse
			if err := json.NewDecoder(resp.Body).Decode(&f); err != nil {
				errs <- err
				return
			}
			if resp.StatusCode != http.StatusOK || f.Grid.Size != 12 {
				errs <- fmt.Errorf("status %d, grid size %d", resp.StatusCode, f.Grid.Size)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestFrameReplayStopsOnCancel(t *testing.T) {
	ps := newPlayers(DefaultFrameStep, 0)
	sess := session.New(session.Params{
		Lines: []lyrics.Line{{Text: "one"}, {Text: "two", Onset: time.Hour}},
		Seed:  2,
	}, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ps.frame(ctx, sess, time.Hour); !stderrors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}

	f, err := ps.frame(context.Background(), sess, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if f.Unit == nil || f.Unit.Text != "one" {
		t.Errorf("unit after interrupted replay = %+v", f.Unit)
	}
}
