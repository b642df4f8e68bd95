package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/obscura/pkg/errors"
	"github.com/matzehuels/obscura/pkg/integrations"
	"github.com/matzehuels/obscura/pkg/lyrics"
)

// lyricSource is lyric text as loaded from a file, stdin or a lookup.
// Text is always set so the player can fall back to manual pacing; Lines
// is set when timestamps are available.
type lyricSource struct {
	Title  string
	Text   string
	Lines  []lyrics.Line
	Synced bool
}

// hasTimestamps reports whether a timed scheduler can be built.
func (s *lyricSource) hasTimestamps() bool { return len(s.Lines) > 0 }

// scheduler builds a timed scheduler when timed is set and timestamps are
// available, and a paced one otherwise.
func (s *lyricSource) scheduler(timed bool, pacing lyrics.Pacing, speed float64) lyrics.Scheduler {
	if timed && s.hasTimestamps() {
		return lyrics.NewTimed(s.Lines)
	}
	return lyrics.NewPaced(s.Text, pacing, speed)
}

// sourceFlags are the input flags shared by play and frame.
type sourceFlags struct {
	song    string
	timed   bool
	noCache bool
	refresh bool
}

// loadSource resolves the lyric input: --song looks the lyric up, a path
// argument reads a file, and "-" reads stdin.
func (c *CLI) loadSource(ctx context.Context, args []string, f sourceFlags, stdin io.Reader) (*lyricSource, error) {
	if f.song != "" {
		return c.lookupSource(ctx, f)
	}
	if len(args) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no lyrics given: pass a file, - for stdin, or --song")
	}

	var (
		data  []byte
		err   error
		title = args[0]
	)
	if args[0] == "-" {
		data, err = io.ReadAll(io.LimitReader(stdin, errors.MaxLyricBytes+1))
		title = "stdin"
	} else {
		data, err = os.ReadFile(args[0])
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "%s not found", args[0])
		}
	}
	if err != nil {
		return nil, fmt.Errorf("read lyrics: %w", err)
	}
	return parseSource(title, string(data), f.timed)
}

// parseSource turns raw text into a source. LRC input keeps its
// timestamps; plain input gets evenly spaced timestamps only when timed is
// requested.
func parseSource(title, raw string, timed bool) (*lyricSource, error) {
	if err := errors.ValidateLyricText(raw); err != nil {
		return nil, err
	}
	src := &lyricSource{Title: title, Text: raw}
	switch {
	case lyrics.IsLRC(raw):
		src.Lines = lyrics.ParseLRC(raw)
		src.Text = joinLines(src.Lines)
		src.Synced = true
	case timed:
		src.Lines = lyrics.PlainLines(raw, lyrics.DefaultPlainStep)
	}
	return src, nil
}

func (c *CLI) lookupSource(ctx context.Context, f sourceFlags) (*lyricSource, error) {
	if err := errors.ValidateQuery(f.song); err != nil {
		return nil, err
	}
	client, closeCache, err := c.newLookup(ctx, f.noCache)
	if err != nil {
		return nil, err
	}
	defer closeCache()

	res, err := client.Search(ctx, f.song, f.refresh)
	if err != nil {
		if stderrors.Is(err, integrations.ErrNotFound) {
			return nil, errors.Wrap(errors.ErrCodeLyricsNotFound, err, "no lyrics found for %q", f.song)
		}
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "lyrics lookup failed")
	}
	return &lyricSource{
		Title:  res.Title(),
		Text:   joinLines(res.Lines),
		Lines:  res.Lines,
		Synced: res.Synced,
	}, nil
}

func joinLines(lines []lyrics.Line) string {
	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.Text
	}
	return strings.Join(texts, "\n")
}
