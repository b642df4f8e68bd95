package grid

import "strings"

// Snapshot is a copy of the grid suitable for rendering or serialization.
type Snapshot struct {
	Size    int         `json:"size"`
	Chars   [][]string  `json:"chars"`
	Opacity [][]float64 `json:"opacity"`
	Active  [][]bool    `json:"active"`
}

// Snapshot copies the current grid contents.
func (g *Grid) Snapshot() Snapshot {
	s := Snapshot{
		Size:    Size,
		Chars:   make([][]string, Size),
		Opacity: make([][]float64, Size),
		Active:  make([][]bool, Size),
	}
	for r := range Size {
		s.Chars[r] = make([]string, Size)
		s.Opacity[r] = make([]float64, Size)
		s.Active[r] = make([]bool, Size)
		for c := range Size {
			s.Chars[r][c] = string(g.chars[r][c])
			s.Opacity[r][c] = g.opacity[r][c]
			_, s.Active[r][c] = g.active[r*Size+c]
		}
	}
	return s
}

// String renders the snapshot as plain text: one line per row with cells
// separated by spaces, lyric letters upper-cased.
func (s Snapshot) String() string {
	var b strings.Builder
	for r := range s.Chars {
		for c, ch := range s.Chars[r] {
			if c > 0 {
				b.WriteByte(' ')
			}
			if s.Active[r][c] {
				ch = strings.ToUpper(ch)
			}
			b.WriteString(ch)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
