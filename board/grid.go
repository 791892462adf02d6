package board

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedGrid is returned by ParseGrid for empty or ragged input.
var ErrMalformedGrid = errors.New("board: malformed grid")

// Cell is the state of one grid square.
type Cell uint8

const (
	Empty Cell = iota
	Filled
)

// Grid is a fixed Rows × Columns field of cells, row 0 at the top. Reads and
// writes outside the field are ignored, so callers never index out of range.
type Grid struct {
	rows, cols int
	cells      []Cell
}

// NewGrid creates an empty grid.
func NewGrid(rows, cols int) *Grid {
	return &Grid{
		rows:  rows,
		cols:  cols,
		cells: make([]Cell, rows*cols),
	}
}

// ParseGrid builds a grid from one string per row, '#' for Filled and '.' for
// Empty. Every row must have the same width.
func ParseGrid(lines ...string) (*Grid, error) {
	if len(lines) == 0 || len(lines[0]) == 0 {
		return nil, ErrMalformedGrid
	}
	g := NewGrid(len(lines), len(lines[0]))
	for r, line := range lines {
		if len(line) != g.cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrMalformedGrid, r, len(line), g.cols)
		}
		for c, ch := range line {
			switch ch {
			case '#':
				g.Set(r, c, Filled)
			case '.':
			default:
				return nil, fmt.Errorf("%w: row %d column %d: unexpected %q", ErrMalformedGrid, r, c, ch)
			}
		}
	}
	return g, nil
}

func (g *Grid) Rows() int { return g.rows }

func (g *Grid) Columns() int { return g.cols }

// InBounds reports whether (row, col) lies inside the field.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

// At returns the cell at (row, col), or Empty outside the field.
func (g *Grid) At(row, col int) Cell {
	if !g.InBounds(row, col) {
		return Empty
	}
	return g.cells[row*g.cols+col]
}

// Set writes c at (row, col). Out-of-range writes are dropped.
func (g *Grid) Set(row, col int, c Cell) {
	if !g.InBounds(row, col) {
		return
	}
	g.cells[row*g.cols+col] = c
}

// RowFull reports whether every column of row is Filled.
func (g *Grid) RowFull(row int) bool {
	if row < 0 || row >= g.rows {
		return false
	}
	for _, c := range g.row(row) {
		if c != Filled {
			return false
		}
	}
	return true
}

// Filled counts the Filled cells in the whole grid.
func (g *Grid) Filled() int {
	n := 0
	for _, c := range g.cells {
		if c == Filled {
			n++
		}
	}
	return n
}

// Clear resets every cell to Empty.
func (g *Grid) Clear() {
	clear(g.cells)
}

// Cells returns a row-major copy of the grid, indexed [row][col].
func (g *Grid) Cells() [][]Cell {
	out := make([][]Cell, g.rows)
	for r := range out {
		out[r] = make([]Cell, g.cols)
		copy(out[r], g.row(r))
	}
	return out
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	c := *g
	c.cells = make([]Cell, len(g.cells))
	copy(c.cells, g.cells)
	return &c
}

// String renders the grid with '#' for Filled and '.' for Empty.
func (g *Grid) String() string {
	var b strings.Builder
	for r := range g.rows {
		if r > 0 {
			b.WriteByte('\n')
		}
		for _, c := range g.row(r) {
			if c == Filled {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
	}
	return b.String()
}

func (g *Grid) row(r int) []Cell {
	return g.cells[r*g.cols : (r+1)*g.cols]
}

// shiftDown overwrites row with the content of every row above it, moving
// them down by one, and empties row 0.
func (g *Grid) shiftDown(row int) {
	for r := row; r > 0; r-- {
		copy(g.row(r), g.row(r-1))
	}
	clear(g.row(0))
}
