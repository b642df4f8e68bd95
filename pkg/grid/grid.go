package grid

import (
	"github.com/matzehuels/obscura/pkg/noise"
)

// Size is the number of rows and columns in a grid.
const Size = 12

const (
	alphabet  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	vowels    = "AEIOU"
	vowelBias = 0.4

	minOpacity  = 0.1
	opacitySpan = 0.3
)

// Cell is a grid coordinate.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Index returns the row-major linear index of c.
func (c Cell) Index() int { return c.Row*Size + c.Col }

// cellAt is the inverse of Cell.Index.
func cellAt(idx int) Cell { return Cell{Row: idx / Size, Col: idx % Size} }

// ActiveCell is a cell claimed by placed lyric text.
type ActiveCell struct {
	Char  rune
	Lyric bool
}

// Grid is the letter matrix plus the set of cells owned by lyric text.
type Grid struct {
	chars   [Size][Size]rune
	opacity [Size][Size]float64

	// active is keyed by Cell.Index.
	active map[int]ActiveCell

	rng *noise.Source

	// placement cursor
	placed         int
	lastHorizontal bool
}

// New creates a grid seeded with seed and fills it with noise.
func New(seed int64) *Grid {
	g := &Grid{
		rng:    noise.New(seed),
		active: make(map[int]ActiveCell),
	}
	g.initialize()
	return g
}

// Seed returns the noise seed the grid was created with.
func (g *Grid) Seed() int64 { return g.rng.Seed() }

// initialize fills characters for every cell, then opacities for every
// cell, both in row-major order.
func (g *Grid) initialize() {
	for r := range Size {
		for c := range Size {
			g.chars[r][c] = g.randomChar()
		}
	}
	for r := range Size {
		for c := range Size {
			g.opacity[r][c] = g.randomOpacity()
		}
	}
}

func (g *Grid) randomChar() rune {
	src := alphabet
	if g.rng.Next() < vowelBias {
		src = vowels
	}
	return rune(src[g.rng.Intn(len(src))]) + ('a' - 'A')
}

func (g *Grid) randomOpacity() float64 {
	return minOpacity + g.rng.Next()*opacitySpan
}

// RefreshAmbient redraws the character and opacity of every cell that is
// not owned by lyric text.
func (g *Grid) RefreshAmbient() {
	for r := range Size {
		for c := range Size {
			if _, ok := g.active[r*Size+c]; ok {
				continue
			}
			g.chars[r][c] = g.randomChar()
			g.opacity[r][c] = g.randomOpacity()
		}
	}
}

// ClearActive releases every lyric cell back to noise and resets the
// placement cursor.
func (g *Grid) ClearActive() {
	clear(g.active)
	g.RefreshAmbient()
	g.resetCursor()
}

// Reset re-seeds the noise source and rebuilds the grid from scratch, so a
// reset grid is indistinguishable from a freshly created one.
func (g *Grid) Reset() {
	g.rng.Reset()
	clear(g.active)
	g.initialize()
	g.resetCursor()
}

func (g *Grid) resetCursor() {
	g.placed = 0
	g.lastHorizontal = false
}

// IsActive reports whether (row, col) holds a letter of placed lyric text.
func (g *Grid) IsActive(row, col int) bool {
	if !inBounds(row, col) {
		return false
	}
	_, ok := g.active[row*Size+col]
	return ok
}

// Opacity returns the ambient opacity of (row, col), or 0 out of bounds.
func (g *Grid) Opacity(row, col int) float64 {
	if !inBounds(row, col) {
		return 0
	}
	return g.opacity[row][col]
}

// Char returns the letter at (row, col), or 0 out of bounds.
func (g *Grid) Char(row, col int) rune {
	if !inBounds(row, col) {
		return 0
	}
	return g.chars[row][col]
}

// ActiveCount returns the number of lyric-owned cells.
func (g *Grid) ActiveCount() int { return len(g.active) }

// Active returns the lyric-owned cells in reading order.
func (g *Grid) Active() []Cell {
	cells := make([]Cell, 0, len(g.active))
	for idx := range Size * Size {
		if _, ok := g.active[idx]; ok {
			cells = append(cells, cellAt(idx))
		}
	}
	return cells
}

func inBounds(row, col int) bool {
	return row >= 0 && row < Size && col >= 0 && col < Size
}
