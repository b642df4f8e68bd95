package grid

// Mode selects how Place treats lyric text already on the grid.
type Mode int

const (
	// Append places only the words of text that have not been placed yet
	// in the current pass, after the words already on the grid.
	Append Mode = iota

	// Replace clears the grid and places every word of text.
	Replace
)

const (
	maxAttempts    = 700
	horizontalBias = 0.6
	alternateEvery = 5
	preferredHalo  = 1
	noFloor        = -1
)

// halos are tried in order: spaced out first, touching as a fallback.
var halos = [...]int{preferredHalo, max(0, preferredHalo-1)}

// Place tokenizes text and writes its words into the grid in reading order.
// It returns the newly occupied cells, word by word. Placement stops at the
// first word that cannot be fit; the words before it remain placed.
func (g *Grid) Place(text string, mode Mode) []Cell {
	words := Tokenize(text)
	if len(words) == 0 {
		return nil
	}

	if mode == Replace {
		g.ClearActive()
	} else {
		words = words[min(g.placed, len(words)):]
	}

	floor := g.maxActiveIndex()

	var placed []Cell
	for _, w := range words {
		cells, ok := g.placeWord(w, floor)
		if !ok {
			break
		}
		placed = append(placed, cells...)
		floor = cells[0].Index()
		g.placed++
	}
	return placed
}

// Placed returns the number of words placed since the last clear.
func (g *Grid) Placed() int { return g.placed }

// maxActiveIndex is the reading-order floor implied by the active cells.
func (g *Grid) maxActiveIndex() int {
	floor := noFloor
	for idx := range g.active {
		floor = max(floor, idx)
	}
	return floor
}

// placeWord finds a spot for word whose first cell lies strictly after
// floor, commits it and returns its cells.
func (g *Grid) placeWord(word string, floor int) ([]Cell, bool) {
	letters := []rune(word)
	n := len(letters)

	for _, halo := range halos {
		for attempt := range maxAttempts {
			horizontal := g.rng.Next() < horizontalBias
			if attempt%alternateEvery == 0 {
				horizontal = !g.lastHorizontal
			}

			rowMin, rowMax := halo, Size-1-halo
			colMin, colMax := halo, Size-1-halo
			if horizontal {
				colMax -= n - 1
				if colMax < colMin {
					continue
				}
			} else {
				rowMax -= n - 1
				if rowMax < rowMin {
					continue
				}
			}

			start := Cell{
				Row: rowMin + g.rng.Intn(rowMax-rowMin+1),
				Col: colMin + g.rng.Intn(colMax-colMin+1),
			}
			if start.Index() <= floor {
				continue
			}

			cells, ok := g.span(start, n, horizontal, halo)
			if !ok {
				continue
			}

			for i, c := range cells {
				g.active[c.Index()] = ActiveCell{Char: letters[i], Lyric: true}
				g.chars[c.Row][c.Col] = letters[i]
			}
			g.lastHorizontal = horizontal
			return cells, true
		}
	}
	return nil, false
}

// span lists the n cells starting at start, failing if any of them is
// within halo of an active cell.
func (g *Grid) span(start Cell, n int, horizontal bool, halo int) ([]Cell, bool) {
	cells := make([]Cell, 0, n)
	for i := range n {
		c := start
		if horizontal {
			c.Col += i
		} else {
			c.Row += i
		}
		if !g.freeWithin(c, halo) {
			return nil, false
		}
		cells = append(cells, c)
	}
	return cells, true
}

// freeWithin reports whether no active cell lies within Chebyshev distance
// halo of c.
func (g *Grid) freeWithin(c Cell, halo int) bool {
	for r := c.Row - halo; r <= c.Row+halo; r++ {
		for col := c.Col - halo; col <= c.Col+halo; col++ {
			if !inBounds(r, col) {
				continue
			}
			if _, ok := g.active[r*Size+col]; ok {
				return false
			}
		}
	}
	return true
}
