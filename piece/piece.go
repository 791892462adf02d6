// Package piece implements the falling polyomino: its occupancy matrix, its
// anchor in grid space and the pure transforms applied to it. A Piece never
// looks at the grid; legality of a move is decided by the board.
package piece

import (
	"iter"
	"strings"
)

// Source is the random source used to pick spawn kinds. *rand.Rand from
// math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
}

// Point is an absolute grid coordinate. X is the column, Y the row.
type Point struct {
	X, Y int
}

// Piece is one active polyomino. X and Y locate the top-left corner of the
// matrix in grid space; Y is negative while the piece is above the field.
type Piece struct {
	X, Y  int
	kind  Kind
	shape [][]bool
}

// New creates a piece of kind k horizontally centred on a field that is
// columns wide and placed entirely above row 0.
func New(k Kind, columns int) *Piece {
	shape := Shape(k)
	return &Piece{
		X:     columns/2 - len(shape[0])/2,
		Y:     -len(shape),
		kind:  k,
		shape: shape,
	}
}

// Random picks a kind uniformly from kinds (the full Catalog when empty).
func Random(src Source, columns int, kinds ...Kind) *Piece {
	if len(kinds) == 0 {
		kinds = Catalog
	}
	return New(kinds[src.IntN(len(kinds))], columns)
}

func (p *Piece) Kind() Kind { return p.kind }

// Width is the number of matrix columns in the current orientation.
func (p *Piece) Width() int {
	if len(p.shape) == 0 {
		return 0
	}
	return len(p.shape[0])
}

// Height is the number of matrix rows in the current orientation.
func (p *Piece) Height() int { return len(p.shape) }

// Occupied reports whether matrix cell (row, col) is part of the piece.
func (p *Piece) Occupied(row, col int) bool {
	if row < 0 || row >= len(p.shape) || col < 0 || col >= len(p.shape[row]) {
		return false
	}
	return p.shape[row][col]
}

// Matrix returns a copy of the occupancy matrix.
func (p *Piece) Matrix() [][]bool {
	return cloneMatrix(p.shape)
}

func (p *Piece) MoveDown()  { p.Y++ }
func (p *Piece) MoveLeft()  { p.X-- }
func (p *Piece) MoveRight() { p.X++ }

// Rotate turns the matrix 90° clockwise around its own top-left corner. The
// anchor is unchanged, so the footprint may shift.
func (p *Piece) Rotate() {
	rows := len(p.shape)
	cols := p.Width()

	rotated := make([][]bool, cols)
	for j := range rotated {
		rotated[j] = make([]bool, rows)
	}

	for i := range rows {
		for j := range cols {
			rotated[j][rows-1-i] = p.shape[i][j]
		}
	}

	p.shape = rotated
}

// Cells yields the absolute coordinates of every occupied cell, offset by
// (dx, dy) from the current anchor.
func (p *Piece) Cells(dx, dy int) iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for i, row := range p.shape {
			for j, filled := range row {
				if !filled {
					continue
				}
				if !yield(Point{X: p.X + j + dx, Y: p.Y + i + dy}) {
					return
				}
			}
		}
	}
}

func (p *Piece) Clone() *Piece {
	c := *p
	c.shape = cloneMatrix(p.shape)
	return &c
}

// String renders the matrix with '#' for occupied and '.' for empty cells,
// one line per row.
func (p *Piece) String() string {
	var b strings.Builder
	for i, row := range p.shape {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, filled := range row {
			if filled {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
	}
	return b.String()
}
