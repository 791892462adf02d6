package board

import (
	"github.com/plus3/blockfall/piece"
)

// Snapshot is a read-only copy of everything a renderer needs. Changing it
// never affects the board it was taken from.
type Snapshot struct {
	Cells [][]Cell
	Piece *piece.Piece
	// GhostY is the anchor row Piece would land on if hard-dropped.
	GhostY int
	State  State
	Stats  Stats
}

// Snapshot copies the grid, the active piece and the lifecycle state.
func (b *Board) Snapshot() Snapshot {
	return Snapshot{
		Cells:  b.grid.Cells(),
		Piece:  b.Active(),
		GhostY: b.Ghost(),
		State:  b.state,
		Stats:  b.stats,
	}
}

// Overlay returns the snapshot's cells with the active piece drawn in as
// Filled, for text renderers and tests.
func (s Snapshot) Overlay() [][]Cell {
	out := make([][]Cell, len(s.Cells))
	for r := range s.Cells {
		out[r] = append([]Cell(nil), s.Cells[r]...)
	}
	if s.Piece == nil {
		return out
	}
	for c := range s.Piece.Cells(0, 0) {
		if c.Y >= 0 && c.Y < len(out) && c.X >= 0 && c.X < len(out[c.Y]) {
			out[c.Y][c.X] = Filled
		}
	}
	return out
}
