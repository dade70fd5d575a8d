package model

import "github.com/sheikhrachel/go-life/rules"

// Step computes the next generation of g into a brand-new grid. g is not modified.
func Step(g *Grid) *Grid {
	return StepInto(NewGrid(g.rows, g.cols), g)
}

// StepInto computes the next generation of g into next, resizing next to match.
// Every new cell is derived from g alone, so next must not alias g; an aliased or
// nil buffer is replaced by a fresh grid.
func StepInto(next, g *Grid) *Grid {
	if next == nil || next == g {
		next = NewGrid(g.rows, g.cols)
	} else {
		next.Reset(g.rows, g.cols)
	}

	for r := range g.rows {
		for c := range g.cols {
			next.cells[r][c] = rules.ApplyConwayRules(g.CountNeighbors(r, c), g.cells[r][c])
		}
	}
	return next
}
