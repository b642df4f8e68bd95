package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/obscura/pkg/grid"
)

// ambientShades is how many brightness steps ambient cells are drawn in.
const ambientShades = 4

// palette holds the styles used to draw a grid.
type palette struct {
	lyric   lipgloss.Style
	ambient [ambientShades]lipgloss.Style
	frame   lipgloss.Style
}

// newPalette builds styles from config colours. Ambient cells are drawn
// with the ambient colour at decreasing strength so that low-opacity
// letters recede.
func newPalette(lyricColor, ambientColor string, border bool) palette {
	p := palette{
		lyric: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(lyricColor)),
		frame: lipgloss.NewStyle().Padding(0, 1),
	}
	if border {
		p.frame = p.frame.Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
	}
	for i := range ambientShades {
		s := lipgloss.NewStyle().Foreground(lipgloss.Color(ambientColor))
		if i < ambientShades/2 {
			s = s.Faint(true)
		}
		p.ambient[i] = s
	}
	return p
}

// shade maps an opacity in [0.1, 0.4) to an ambient style.
func (p palette) shade(opacity float64) lipgloss.Style {
	i := int((opacity - 0.1) / 0.3 * ambientShades)
	return p.ambient[min(max(i, 0), ambientShades-1)]
}

// renderGrid draws a snapshot: lyric cells upper-cased in the lyric
// colour, ambient cells shaded by opacity.
func (p palette) renderGrid(s grid.Snapshot) string {
	var b strings.Builder
	for r := range s.Size {
		for c := range s.Size {
			if c > 0 {
				b.WriteByte(' ')
			}
			ch := s.Chars[r][c]
			if s.Active[r][c] {
				b.WriteString(p.lyric.Render(strings.ToUpper(ch)))
			} else {
				b.WriteString(p.shade(s.Opacity[r][c]).Render(ch))
			}
		}
		if r < s.Size-1 {
			b.WriteByte('\n')
		}
	}
	return p.frame.Render(b.String())
}

// render draws the whole player screen.
func (p palette) render(m *playModel) string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render(m.src.Title))
	b.WriteString("  ")
	b.WriteString(lyricKind(m.src.Synced))
	b.WriteString("\n\n")
	b.WriteString(p.renderGrid(m.player.Grid().Snapshot()))
	b.WriteString("\n\n")
	b.WriteString(statusLine(m))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("space play/pause · r restart · +/- speed · p pacing · t timestamps · n seed · q quit"))
	return b.String()
}

func statusLine(m *playModel) string {
	state := StyleWarning.Render("paused")
	switch {
	case m.player.Playing():
		state = StyleSuccess.Render("playing")
	case m.frame.Complete:
		state = StyleDim.Render("done")
	}

	units := len(m.player.Scheduler().Units())
	pos := "-"
	if m.frame.HasUnit {
		pos = fmt.Sprintf("%d", m.frame.Unit.Index+1)
	}

	mode := StyleHighlight.Render(string(m.pacing)) + StyleDim.Render(fmt.Sprintf(" ×%.2f", m.speed))
	if m.timed {
		mode = StyleHighlight.Render("using timestamps")
	}

	parts := []string{
		state,
		StyleValue.Render(fmt.Sprintf("%s/%d", pos, units)),
		StyleDim.Render(fmt.Sprintf("%s / %s", fmtClock(m.frame.Elapsed), fmtClock(m.player.Scheduler().TotalDuration()))),
		mode,
		StyleDim.Render(fmt.Sprintf("seed %d", m.seed)),
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}

// fmtClock formats d as m:ss.s.
func fmtClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(100 * time.Millisecond)
	mins := d / time.Minute
	secs := (d - mins*time.Minute).Seconds()
	return fmt.Sprintf("%d:%04.1f", mins, secs)
}
