package lyrics

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// Pacing is the granularity used to slice raw text into units.
type Pacing string

// Pacing modes.
const (
	PaceLine  Pacing = "line"
	PaceWord  Pacing = "word"
	PaceToken Pacing = "token"
)

// Pacings lists the supported pacing modes.
var Pacings = []Pacing{PaceLine, PaceWord, PaceToken}

// baseDuration is the per-unit duration at speed 1.
var baseDuration = map[Pacing]time.Duration{
	PaceLine:  1800 * time.Millisecond,
	PaceWord:  750 * time.Millisecond,
	PaceToken: 450 * time.Millisecond,
}

// minTokenLen is the rune count a token must reach before a space ends it.
const minTokenLen = 7

// ParsePacing converts a flag or config value into a Pacing.
func ParsePacing(s string) (Pacing, error) {
	p := Pacing(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := baseDuration[p]; !ok {
		return "", fmt.Errorf("unknown pacing %q (must be line, word or token)", s)
	}
	return p, nil
}

// Paced gives every unit the same fixed duration.
type Paced struct {
	anchor
	units    []Unit
	pacing   Pacing
	duration time.Duration
}

// NewPaced slices raw into units according to pacing. An unknown pacing
// falls back to line pacing, and a speed that is not a positive number is
// treated as 1.
func NewPaced(raw string, pacing Pacing, speed float64) *Paced {
	base, ok := baseDuration[pacing]
	if !ok {
		pacing, base = PaceLine, baseDuration[PaceLine]
	}
	if !(speed > 0) || math.IsInf(speed, 0) {
		speed = 1
	}
	return &Paced{
		units:    units(Split(raw, pacing)),
		pacing:   pacing,
		duration: time.Duration(float64(base) / speed),
	}
}

// Pacing returns the pacing mode in use.
func (p *Paced) Pacing() Pacing { return p.pacing }

// Duration returns how long each unit is shown.
func (p *Paced) Duration() time.Duration { return p.duration }

// Units returns every unit in order.
func (p *Paced) Units() []Unit { return p.units }

// index is floor(elapsed / duration); -1 before the start.
func (p *Paced) index(now time.Duration) int {
	e := p.elapsed(now)
	if e < 0 {
		return -1
	}
	return int(e / p.duration)
}

// Current returns the unit whose slot contains now.
func (p *Paced) Current(now time.Duration) (Unit, bool) {
	i := p.index(now)
	if i < 0 || i >= len(p.units) {
		return Unit{}, false
	}
	return p.units[i], true
}

// Complete reports whether now is at or past the end of the last slot.
func (p *Paced) Complete(now time.Duration) bool {
	i := p.index(now)
	return i >= 0 && i >= len(p.units)
}

// TotalDuration is the unit count times the per-unit duration.
func (p *Paced) TotalDuration() time.Duration {
	return time.Duration(len(p.units)) * p.duration
}

var (
	annotationRe = regexp.MustCompile(`\[.*?\]`)
	blankLinesRe = regexp.MustCompile(`\n\s*\n`)
)

// Clean strips bracketed annotations such as "[Chorus]", collapses blank
// lines and trims the result.
func Clean(raw string) string {
	s := annotationRe.ReplaceAllString(raw, "")
	s = blankLinesRe.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}

// Split cleans raw and slices it into unit texts for pacing.
func Split(raw string, pacing Pacing) []string {
	cleaned := Clean(raw)
	switch pacing {
	case PaceWord:
		return strings.Fields(cleaned)
	case PaceToken:
		return splitTokens(strings.ReplaceAll(cleaned, "\n", " "))
	default:
		var lines []string
		for _, l := range strings.Split(cleaned, "\n") {
			if l = strings.TrimSpace(l); l != "" {
				lines = append(lines, l)
			}
		}
		return lines
	}
}

// splitTokens accumulates text into chunks, ending a chunk at the first
// space once it holds at least minTokenLen runes.
func splitTokens(s string) []string {
	var (
		tokens []string
		cur    strings.Builder
	)
	flush := func() {
		if t := strings.TrimSpace(cur.String()); t != "" {
			tokens = append(tokens, t)
		}
		cur.Reset()
	}
	for _, r := range s {
		if r == ' ' && utf8.RuneCountInString(cur.String()) >= minTokenLen {
			flush()
			continue
		}
		cur.WriteRune(r)
	}
	flush()
	return tokens
}
