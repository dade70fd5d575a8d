package model

import (
	"crypto/md5"
	"fmt"
	"math/rand/v2"
	"strings"
)

// Cell addresses a single grid position, row-major and zero-indexed.
type Cell struct {
	Row int
	Col int
}

// Grid represents the game board: rows × cols boolean cells on a torus
type Grid struct {
	rows  int
	cols  int
	cells [][]bool
}

// NewGrid creates an all-dead grid with the specified dimensions.
// Non-positive dimensions are raised to 1; callers that care validate first.
func NewGrid(rows, cols int) *Grid {
	rows, cols = max(rows, 1), max(cols, 1)
	cells := make([][]bool, rows)
	for i := range cells {
		cells[i] = make([]bool, cols)
	}
	return &Grid{
		rows:  rows,
		cols:  cols,
		cells: cells,
	}
}

// Rows returns the number of rows in the grid
func (g *Grid) Rows() int {
	return g.rows
}

// Cols returns the number of columns in the grid
func (g *Grid) Cols() int {
	return g.cols
}

// Reset resets the grid to new dimensions, all cells dead
func (g *Grid) Reset(rows, cols int) {
	rows, cols = max(rows, 1), max(cols, 1)
	g.rows = rows
	g.cols = cols

	// Resize cells if needed
	if len(g.cells) != rows {
		g.cells = make([][]bool, rows)
	}
	for i := range g.cells {
		if len(g.cells[i]) != cols {
			g.cells[i] = make([]bool, cols)
		} else {
			clear(g.cells[i])
		}
	}
}

// Clear kills all cells
func (g *Grid) Clear() {
	for r := range g.rows {
		clear(g.cells[r])
	}
}

// InBounds reports whether (r, c) lies inside the grid
func (g *Grid) InBounds(r, c int) bool {
	return r >= 0 && r < g.rows && c >= 0 && c < g.cols
}

// Set sets a cell to alive (true) or dead (false). Out of bounds writes are dropped.
func (g *Grid) Set(r, c int, alive bool) {
	if g.InBounds(r, c) {
		g.cells[r][c] = alive
	}
}

// Get returns the state of a cell; out of bounds cells read as dead
func (g *Grid) Get(r, c int) bool {
	if !g.InBounds(r, c) {
		return false
	}
	return g.cells[r][c]
}

// Toggle flips a cell and returns its new state
func (g *Grid) Toggle(r, c int) bool {
	if !g.InBounds(r, c) {
		return false
	}
	g.cells[r][c] = !g.cells[r][c]
	return g.cells[r][c]
}

// CountNeighbors counts the live cells among the 8 toroidal neighbors of (r, c).
// Edges wrap, so row 0 neighbors row rows-1 and column 0 neighbors column cols-1.
func (g *Grid) CountNeighbors(r, c int) int {
	count := 0
	for i := -1; i <= 1; i++ {
		for j := -1; j <= 1; j++ {
			if i == 0 && j == 0 {
				continue
			}
			nr := (r + i + g.rows) % g.rows
			nc := (c + j + g.cols) % g.cols
			if g.cells[nr][nc] {
				count++
			}
		}
	}
	return count
}

// CountLivingCells returns the total number of living cells
func (g *Grid) CountLivingCells() (count int) {
	for r := range g.rows {
		for c := range g.cols {
			if g.cells[r][c] {
				count++
			}
		}
	}
	return
}

// LiveCells lists the live cells in row-major order
func (g *Grid) LiveCells() []Cell {
	var live []Cell
	for r := range g.rows {
		for c := range g.cols {
			if g.cells[r][c] {
				live = append(live, Cell{Row: r, Col: c})
			}
		}
	}
	return live
}

// Randomize sets every cell alive independently with probability density
func (g *Grid) Randomize(density float64, rng *rand.Rand) {
	for r := range g.rows {
		for c := range g.cols {
			g.cells[r][c] = rng.Float64() < density
		}
	}
}

// Clone returns a deep copy of the grid
func (g *Grid) Clone() *Grid {
	out := NewGrid(g.rows, g.cols)
	for r := range g.rows {
		copy(out.cells[r], g.cells[r])
	}
	return out
}

// Equal reports whether both grids have the same dimensions and cells
func (g *Grid) Equal(other *Grid) bool {
	if other == nil || g.rows != other.rows || g.cols != other.cols {
		return false
	}
	for r := range g.rows {
		for c := range g.cols {
			if g.cells[r][c] != other.cells[r][c] {
				return false
			}
		}
	}
	return true
}

// Hash returns an MD5 hash of the current grid state
func (g *Grid) Hash() string {
	h := md5.New()
	h.Write([]byte{byte(g.rows >> 8), byte(g.rows), byte(g.cols >> 8), byte(g.cols)})
	for r := range g.rows {
		for c := range g.cols {
			if g.cells[r][c] {
				h.Write([]byte{1})
			} else {
				h.Write([]byte{0})
			}
		}
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// String renders the grid with 'O' for live cells and '.' for dead ones
func (g *Grid) String() string {
	var sb strings.Builder
	sb.Grow(g.rows * (g.cols + 1))
	for r := range g.rows {
		for c := range g.cols {
			if g.cells[r][c] {
				sb.WriteByte('O')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
