package board_test

import (
	"math/rand/v2"
	"testing"

	"github.com/plus3/blockfall/board"
	"github.com/plus3/blockfall/piece"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const emptyRow = ".........."

// field returns a 20×10 grid whose bottom rows are given, top rows empty.
func field(t *testing.T, bottom ...string) *board.Grid {
	t.Helper()
	lines := make([]string, 0, board.DefaultRows)
	for range board.DefaultRows - len(bottom) {
		lines = append(lines, emptyRow)
	}
	lines = append(lines, bottom...)
	g, err := board.ParseGrid(lines...)
	require.NoError(t, err)
	return g
}

func at(k piece.Kind, x, y int) *piece.Piece {
	p := piece.New(k, board.DefaultColumns)
	p.X, p.Y = x, y
	return p
}

func TestNewBoard(t *testing.T) {
	b := board.New(board.WithCatalog(piece.O))

	assert.Equal(t, board.Running, b.State())
	assert.Equal(t, 20, b.Rows())
	assert.Equal(t, 10, b.Columns())
	assert.Equal(t, board.ProbeDescend, b.Probe())

	p := b.Active()
	require.NotNil(t, p)
	assert.Equal(t, piece.O, p.Kind())
	assert.Equal(t, 4, p.X)
	assert.Equal(t, -2, p.Y)
	assert.Equal(t, 0, b.Grid().Filled())
}

func TestWithSize(t *testing.T) {
	b := board.New(board.WithSize(6, 4), board.WithCatalog(piece.O))
	assert.Equal(t, 6, b.Rows())
	assert.Equal(t, 4, b.Columns())
	assert.Equal(t, 1, b.Active().X)
}

func TestCanMoveDown(t *testing.T) {
	g := board.NewGrid(board.DefaultRows, board.DefaultColumns)
	g.Set(10, 4, board.Filled)
	g.Set(0, 7, board.Filled)
	b := board.New(board.WithGrid(g), board.WithCatalog(piece.O))

	tests := []struct {
		name string
		p    *piece.Piece
		want bool
	}{
		{"spawn position", at(piece.O, 4, -2), true},
		{"one above floor", at(piece.O, 4, 17), true},
		{"resting on floor", at(piece.O, 4, 18), false},
		{"past left wall", at(piece.O, -1, 5), false},
		{"past right wall", at(piece.O, 9, 5), false},
		{"against right wall", at(piece.O, 8, 5), true},
		{"above filled cell", at(piece.O, 4, 8), false},
		{"two above filled cell", at(piece.O, 4, 7), true},
		{"beside filled cell", at(piece.O, 5, 8), true},
		{"hidden rows are free", at(piece.O, 7, -3), true},
		{"entering onto filled top row", at(piece.O, 6, -2), false},
		{"vertical I on floor", func() *piece.Piece {
			p := at(piece.I, 0, 16)
			p.Rotate()
			return p
		}(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.CanMoveDown(tt.p))
		})
	}
}

func TestFits(t *testing.T) {
	g := board.NewGrid(board.DefaultRows, board.DefaultColumns)
	g.Set(19, 0, board.Filled)
	b := board.New(board.WithGrid(g), board.WithCatalog(piece.O))

	assert.True(t, b.Fits(at(piece.O, 4, 18)))
	assert.True(t, b.Fits(at(piece.O, 0, -5)))
	assert.False(t, b.Fits(at(piece.O, 0, 18)))
	assert.False(t, b.Fits(at(piece.O, 4, 19)))
	assert.False(t, b.Fits(at(piece.O, -1, 4)))
	assert.False(t, b.Fits(at(piece.O, 9, 4)))
}

func TestOPieceFallsAndLocks(t *testing.T) {
	b := board.New(board.WithCatalog(piece.O))
	require.Equal(t, 4, b.Active().X)
	require.Equal(t, -2, b.Active().Y)

	for i := range 20 {
		require.True(t, b.Tick(), "tick %d", i+1)
	}
	assert.Equal(t, 18, b.Active().Y)
	assert.Equal(t, 0, b.Grid().Filled())

	assert.False(t, b.Tick())

	g := b.Grid()
	assert.Equal(t, 4, g.Filled())
	for _, cell := range [][2]int{{18, 4}, {18, 5}, {19, 4}, {19, 5}} {
		assert.Equal(t, board.Filled, g.At(cell[0], cell[1]), "row %d col %d", cell[0], cell[1])
	}

	next := b.Active()
	assert.Equal(t, 4, next.X)
	assert.Equal(t, -2, next.Y)
	assert.Equal(t, board.Running, b.State())
	assert.Equal(t, board.Stats{Spawned: 2, Locked: 1}, b.Stats())
}

func TestCompletingBottomRowClearsIt(t *testing.T) {
	g := field(t,
		".....#....",
		".#########",
	)
	b := board.New(board.WithGrid(g), board.WithCatalog(piece.I))

	require.True(t, b.Rotate())
	for range 3 {
		require.True(t, b.MoveLeft())
	}
	require.Equal(t, 0, b.Active().X)

	assert.Equal(t, 17, b.HardDrop())

	want := field(t,
		"#.........",
		"#.........",
		"#....#....",
	)
	assert.Equal(t, want.String(), b.Grid().String())
	assert.Equal(t, board.Empty, b.Grid().At(0, 0))
	assert.Equal(t, 1, b.Stats().LinesCleared)
	assert.Equal(t, 1, b.Stats().Locked)
}

func TestLock(t *testing.T) {
	t.Run("writes exactly the piece cells", func(t *testing.T) {
		g := field(t,
			"..#....#..",
			"#.##..####",
		)
		b := board.New(board.WithGrid(g), board.WithCatalog(piece.O))
		before := b.Grid()

		p := at(piece.T, 3, 16)
		b.Lock(p)
		after := b.Grid()

		expected := map[[2]int]bool{}
		for c := range p.Cells(0, 0) {
			expected[[2]int{c.Y, c.X}] = true
		}
		for r := range after.Rows() {
			for c := range after.Columns() {
				if expected[[2]int{r, c}] {
					assert.Equal(t, board.Filled, after.At(r, c))
				} else {
					assert.Equal(t, before.At(r, c), after.At(r, c))
				}
			}
		}
		assert.Equal(t, before.Filled()+4, after.Filled())
	})

	t.Run("drops cells above the field", func(t *testing.T) {
		b := board.New(board.WithCatalog(piece.O))
		b.Lock(at(piece.O, 0, -1))

		g := b.Grid()
		assert.Equal(t, 2, g.Filled())
		assert.Equal(t, board.Filled, g.At(0, 0))
		assert.Equal(t, board.Filled, g.At(0, 1))
	})

	t.Run("ignores cells outside the walls", func(t *testing.T) {
		b := board.New(board.WithCatalog(piece.O))
		b.Lock(at(piece.O, 9, 5))

		g := b.Grid()
		assert.Equal(t, 2, g.Filled())
		assert.Equal(t, board.Filled, g.At(5, 9))
		assert.Equal(t, board.Filled, g.At(6, 9))
	})
}

func TestClearLines(t *testing.T) {
	t.Run("no full rows is a no-op", func(t *testing.T) {
		g := field(t,
			"#.#.#.#.#.",
			"#########.",
		)
		b := board.New(board.WithGrid(g), board.WithCatalog(piece.O))
		before := b.Grid().String()

		assert.Equal(t, 0, b.ClearLines())
		assert.Equal(t, before, b.Grid().String())
		assert.Equal(t, 0, b.ClearLines())
		assert.Equal(t, before, b.Grid().String())
	})

	t.Run("consecutive bottom rows collapse", func(t *testing.T) {
		g := field(t,
			".#........",
			"#.........",
			"##########",
			"##########",
			"##########",
		)
		b := board.New(board.WithGrid(g), board.WithCatalog(piece.O))

		assert.Equal(t, 3, b.ClearLines())
		want := field(t,
			".#........",
			"#.........",
		)
		assert.Equal(t, want.String(), b.Grid().String())
	})

	t.Run("separated rows", func(t *testing.T) {
		g := field(t,
			"##########",
			"#.........",
			"##########",
		)
		b := board.New(board.WithGrid(g), board.WithCatalog(piece.O))

		assert.Equal(t, 2, b.ClearLines())
		assert.Equal(t, field(t, "#.........").String(), b.Grid().String())
	})

	t.Run("full top row", func(t *testing.T) {
		g := board.NewGrid(4, 3)
		for c := range 3 {
			g.Set(0, c, board.Filled)
		}
		g.Set(3, 1, board.Filled)
		b := board.New(board.WithGrid(g), board.WithCatalog(piece.O))

		assert.Equal(t, 1, b.ClearLines())
		assert.Equal(t, "...\n...\n...\n.#.", b.Grid().String())
	})
}

func TestHardDrop(t *testing.T) {
	t.Run("to the floor", func(t *testing.T) {
		b := board.New(board.WithCatalog(piece.O))

		assert.Equal(t, 20, b.HardDrop())
		g := b.Grid()
		assert.Equal(t, board.Filled, g.At(19, 4))
		assert.Equal(t, board.Filled, g.At(18, 5))
		assert.Equal(t, -2, b.Active().Y)
	})

	t.Run("onto the stack without a gap", func(t *testing.T) {
		g := field(t, "....##....")
		b := board.New(board.WithGrid(g), board.WithCatalog(piece.O))

		assert.Equal(t, 19, b.HardDrop())
		want := field(t,
			"....##....",
			"....##....",
			"....##....",
		)
		assert.Equal(t, want.String(), b.Grid().String())
		assert.Equal(t, 1, b.Stats().Locked)
		assert.Equal(t, 2, b.Stats().Spawned)
	})
}

func TestMoveAtWalls(t *testing.T) {
	b := board.New(board.WithCatalog(piece.O))

	for range 4 {
		require.True(t, b.MoveLeft())
	}
	assert.Equal(t, 0, b.Active().X)
	assert.False(t, b.MoveLeft())
	assert.Equal(t, 0, b.Active().X)
	assert.Equal(t, -2, b.Active().Y)

	for range 8 {
		require.True(t, b.MoveRight())
	}
	assert.Equal(t, 8, b.Active().X)
	assert.False(t, b.MoveRight())
	assert.Equal(t, 8, b.Active().X)
}

func TestMoveBlockedBySettledCells(t *testing.T) {
	column := make([]string, 8)
	for i := range column {
		column[i] = "...#......"
	}
	b := board.New(board.WithGrid(field(t, column...)), board.WithCatalog(piece.O))
	for range 12 {
		require.True(t, b.Tick())
	}
	require.Equal(t, 10, b.Active().Y)

	assert.False(t, b.MoveLeft())
	assert.Equal(t, 4, b.Active().X)
	assert.True(t, b.MoveRight())
	assert.Equal(t, 5, b.Active().X)
}

func TestRotate(t *testing.T) {
	t.Run("applies clockwise turn", func(t *testing.T) {
		b := board.New(board.WithCatalog(piece.T))
		assert.True(t, b.Rotate())
		assert.Equal(t, ".#\n##\n.#", b.Active().String())
	})

	t.Run("rejected turn restores orientation", func(t *testing.T) {
		b := board.New(board.WithCatalog(piece.I))
		require.True(t, b.Rotate())
		for range 6 {
			require.True(t, b.MoveRight())
		}
		require.Equal(t, 9, b.Active().X)
		before := b.Active().Matrix()

		assert.False(t, b.Rotate())
		assert.Equal(t, before, b.Active().Matrix())
		assert.Equal(t, 9, b.Active().X)
	})
}

func TestProbeModes(t *testing.T) {
	grounded := func(mode board.ProbeMode) *board.Board {
		b := board.New(board.WithCatalog(piece.O), board.WithProbe(mode))
		for range 20 {
			require.True(t, b.Tick())
		}
		return b
	}

	t.Run("descend freezes a grounded piece", func(t *testing.T) {
		b := grounded(board.ProbeDescend)
		assert.False(t, b.MoveLeft())
		assert.False(t, b.MoveRight())
		assert.Equal(t, 4, b.Active().X)
	})

	t.Run("in-place lets a grounded piece slide", func(t *testing.T) {
		b := grounded(board.ProbeInPlace)
		assert.True(t, b.MoveLeft())
		assert.Equal(t, 3, b.Active().X)
		assert.Equal(t, 18, b.Active().Y)
	})

	t.Run("in-place still respects walls", func(t *testing.T) {
		b := board.New(board.WithCatalog(piece.O), board.WithProbe(board.ProbeInPlace))
		for range 4 {
			require.True(t, b.MoveLeft())
		}
		assert.False(t, b.MoveLeft())
	})
}

func TestGameOver(t *testing.T) {
	g := board.NewGrid(board.DefaultRows, board.DefaultColumns)
	g.Set(2, 4, board.Filled)
	b := board.New(board.WithGrid(g), board.WithCatalog(piece.O))

	var notified []board.Snapshot
	b.OnGameOver(func(s board.Snapshot) {
		notified = append(notified, s)
	})

	require.True(t, b.Tick())
	require.True(t, b.Tick())
	assert.False(t, b.Tick())

	assert.Equal(t, board.GameOver, b.State())
	require.Len(t, notified, 1)
	assert.Equal(t, board.GameOver, notified[0].State)
	assert.Equal(t, board.Filled, notified[0].Cells[0][4])
	assert.Equal(t, 1, b.Stats().GamesOver)

	t.Run("frozen until restart", func(t *testing.T) {
		before := b.Snapshot()
		assert.False(t, b.Tick())
		assert.False(t, b.MoveLeft())
		assert.False(t, b.MoveRight())
		assert.False(t, b.Rotate())
		assert.Equal(t, 0, b.HardDrop())
		assert.Equal(t, before, b.Snapshot())
	})

	t.Run("restart", func(t *testing.T) {
		b.Restart()
		assert.Equal(t, board.Running, b.State())
		assert.Equal(t, 0, b.Grid().Filled())
		assert.Equal(t, -2, b.Active().Y)
		assert.Len(t, notified, 1)
	})
}

func TestSnapshot(t *testing.T) {
	b := board.New(board.WithCatalog(piece.O))
	b.Tick()
	b.Tick()

	s := b.Snapshot()
	assert.Equal(t, board.Running, s.State)
	assert.Equal(t, 18, s.GhostY)
	require.NotNil(t, s.Piece)
	assert.Equal(t, 0, s.Piece.Y)

	overlay := s.Overlay()
	assert.Equal(t, board.Filled, overlay[0][4])
	assert.Equal(t, board.Filled, overlay[0][5])
	assert.Equal(t, board.Empty, s.Cells[0][4])

	s.Cells[19][0] = board.Filled
	s.Piece.MoveDown()
	assert.Equal(t, board.Empty, b.Grid().At(19, 0))
	assert.Equal(t, 0, b.Active().Y)
}

func TestSeededBoardsAreDeterministic(t *testing.T) {
	play := func() board.Snapshot {
		b := board.New(board.WithSource(rand.New(rand.NewPCG(7, 11))))
		for i := range 400 {
			switch i % 5 {
			case 0:
				b.MoveLeft()
			case 1:
				b.Rotate()
			case 2:
				b.Tick()
			case 3:
				b.MoveRight()
			case 4:
				if i%15 == 4 {
					b.HardDrop()
				}
			}
			if b.State() == board.GameOver {
				b.Restart()
			}
		}
		return b.Snapshot()
	}

	assert.Equal(t, play(), play())
}
