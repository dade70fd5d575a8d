package model

// Pattern is a named set of live cells relative to a top-left origin.
// Height and Width give the bounding box cleared before stamping.
type Pattern struct {
	Name   string
	Height int
	Width  int
	Cells  []Cell
}

var (
	// Glider translates one cell down-right every 4 generations
	Glider = Pattern{
		Name:   "glider",
		Height: 3,
		Width:  3,
		Cells:  []Cell{{0, 1}, {1, 2}, {2, 0}, {2, 1}, {2, 2}},
	}

	// Blinker is a period 2 oscillator, horizontal in this orientation
	Blinker = Pattern{
		Name:   "blinker",
		Height: 1,
		Width:  3,
		Cells:  []Cell{{0, 0}, {0, 1}, {0, 2}},
	}

	// Block is the 2x2 still life
	Block = Pattern{
		Name:   "block",
		Height: 2,
		Width:  2,
		Cells:  []Cell{{0, 0}, {0, 1}, {1, 0}, {1, 1}},
	}
)

// Stamp clears the pattern's bounding box at (originRow, originCol) and then sets
// its live cells. Cells falling outside the grid are skipped; seeding never wraps.
func (g *Grid) Stamp(p Pattern, originRow, originCol int) {
	for r := range p.Height {
		for c := range p.Width {
			g.Set(originRow+r, originCol+c, false)
		}
	}
	for _, cell := range p.Cells {
		g.Set(originRow+cell.Row, originCol+cell.Col, true)
	}
}
