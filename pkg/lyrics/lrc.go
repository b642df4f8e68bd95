package lyrics

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultPlainStep spaces plain (unsynced) lines when they are turned into
// timed lines.
const DefaultPlainStep = 2 * time.Second

var (
	lrcLineRe = regexp.MustCompile(`\[(\d+):(\d+\.\d+)\](.*)`)
	sectionRe = regexp.MustCompile(`^\[.*\]$`)
)

// IsLRC reports whether text contains at least one LRC timestamped line.
func IsLRC(text string) bool {
	for _, l := range strings.Split(text, "\n") {
		if lrcLineRe.MatchString(l) {
			return true
		}
	}
	return false
}

// ParseLRC extracts timed lines from LRC synced lyrics such as
// "[01:02.50] line text". Lines without a timestamp or with empty text are
// skipped.
func ParseLRC(text string) []Line {
	var lines []Line
	for _, raw := range strings.Split(text, "\n") {
		m := lrcLineRe.FindStringSubmatch(raw)
		if m == nil {
			continue
		}
		body := strings.TrimSpace(m[3])
		if body == "" {
			continue
		}
		minutes, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		seconds, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		onset := time.Duration(minutes)*time.Minute + time.Duration(seconds*float64(time.Second))
		lines = append(lines, Line{Text: body, Onset: onset.Round(time.Millisecond)})
	}
	return lines
}

// PlainLines turns unsynced lyrics into timed lines spaced step apart,
// dropping blank lines and pure section markers like "[Verse 1]". A step
// that is not positive uses [DefaultPlainStep].
func PlainLines(text string, step time.Duration) []Line {
	if step <= 0 {
		step = DefaultPlainStep
	}
	var lines []Line
	for _, raw := range strings.Split(text, "\n") {
		l := strings.TrimSpace(raw)
		if l == "" || sectionRe.MatchString(l) {
			continue
		}
		lines = append(lines, Line{Text: l, Onset: time.Duration(len(lines)) * step})
	}
	return lines
}

// FormatLRC writes lines back out in LRC form.
func FormatLRC(lines []Line) string {
	var b strings.Builder
	for _, l := range lines {
		ms := l.Onset.Milliseconds()
		fmt.Fprintf(&b, "[%02d:%02d.%02d]%s\n", ms/60000, ms%60000/1000, ms%1000/10, l.Text)
	}
	return b.String()
}
