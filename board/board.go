// Package board owns the playfield: the grid of settled cells, the active
// piece and the rules that move, lock and clear them.
//
// A Board is not safe for concurrent use. Every operation runs to completion
// (including any lock, line clear and respawn it triggers) before returning,
// so callers always observe a consistent grid and piece between calls.
package board

import (
	"math/rand/v2"

	"github.com/plus3/blockfall/piece"
	"go.uber.org/zap"
)

const (
	DefaultRows    = 20
	DefaultColumns = 10
)

// State is the board's lifecycle state.
type State int

const (
	// Running means a piece is active and falling.
	Running State = iota
	// GameOver means the last spawn was rejected. The board stays frozen
	// until Restart is called.
	GameOver
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case GameOver:
		return "game-over"
	default:
		return "unknown"
	}
}

// ProbeMode selects how lateral moves and rotations are validated.
type ProbeMode int

const (
	// ProbeDescend approves a placement when the piece could still move one
	// row down from it. This is the classic rule; a piece resting on the
	// stack can no longer slide or turn.
	ProbeDescend ProbeMode = iota
	// ProbeInPlace approves a placement when the piece's current cells are
	// inside the walls and free.
	ProbeInPlace
)

func (m ProbeMode) String() string {
	if m == ProbeInPlace {
		return "in-place"
	}
	return "descend"
}

// Stats are running counters since the board was created.
type Stats struct {
	Spawned      int
	Locked       int
	LinesCleared int
	GamesOver    int
}

// Board is the sole owner of the grid and the active piece. Readers get
// copies through Grid, Active and Snapshot.
type Board struct {
	grid   *Grid
	active *piece.Piece
	state  State

	src    piece.Source
	kinds  []piece.Kind
	probe  ProbeMode
	logger *zap.Logger

	gameOverHandlers []func(Snapshot)
	stats            Stats
}

// Option configures a Board in New.
type Option func(*Board)

// WithSize sets the field dimensions.
func WithSize(rows, columns int) Option {
	return func(b *Board) {
		b.grid = NewGrid(rows, columns)
	}
}

// WithGrid starts the board from a copy of g instead of an empty field.
func WithGrid(g *Grid) Option {
	return func(b *Board) {
		b.grid = g.Clone()
	}
}

// WithSource injects the random source used to choose spawned kinds.
func WithSource(src piece.Source) Option {
	return func(b *Board) {
		b.src = src
	}
}

// WithCatalog restricts spawns to the given kinds.
func WithCatalog(kinds ...piece.Kind) Option {
	return func(b *Board) {
		b.kinds = append([]piece.Kind(nil), kinds...)
	}
}

// WithProbe selects the placement rule for lateral moves and rotations.
func WithProbe(mode ProbeMode) Option {
	return func(b *Board) {
		b.probe = mode
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(b *Board) {
		b.logger = logger
	}
}

// New creates a board and spawns its first piece.
func New(opts ...Option) *Board {
	b := &Board{
		grid:   NewGrid(DefaultRows, DefaultColumns),
		kinds:  piece.Catalog,
		probe:  ProbeDescend,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.src == nil {
		b.src = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	b.Spawn()
	return b
}

func (b *Board) State() State { return b.state }

func (b *Board) Stats() Stats { return b.stats }

func (b *Board) Probe() ProbeMode { return b.probe }

func (b *Board) Rows() int { return b.grid.Rows() }

func (b *Board) Columns() int { return b.grid.Columns() }

// Grid returns a copy of the settled cells.
func (b *Board) Grid() *Grid { return b.grid.Clone() }

// Active returns a copy of the falling piece.
func (b *Board) Active() *piece.Piece {
	if b.active == nil {
		return nil
	}
	return b.active.Clone()
}

// OnGameOver registers fn to be called synchronously whenever a spawn is
// rejected. fn receives the board as it looked at that moment.
func (b *Board) OnGameOver(fn func(Snapshot)) {
	b.gameOverHandlers = append(b.gameOverHandlers, fn)
}

// Spawn replaces the active piece with a new random one. If the new piece
// cannot be placed the board moves to GameOver and the handlers fire.
func (b *Board) Spawn() State {
	b.active = piece.Random(b.src, b.grid.Columns(), b.kinds...)
	b.stats.Spawned++

	if !b.CanMoveDown(b.active) {
		b.state = GameOver
		b.stats.GamesOver++
		b.logger.Debug("spawn rejected",
			zap.Stringer("kind", b.active.Kind()),
			zap.Int("filled", b.grid.Filled()),
		)

		snap := b.Snapshot()
		for _, fn := range b.gameOverHandlers {
			fn(snap)
		}
		return b.state
	}

	b.state = Running
	return b.state
}

// Restart clears the field and spawns a fresh piece. On an empty field the
// spawn always succeeds, so the board is Running afterwards.
func (b *Board) Restart() {
	b.grid.Clear()
	b.Spawn()
	b.logger.Debug("board restarted", zap.Stringer("state", b.state))
}

// Tick is one gravity step: the active piece falls one row, or, when it is
// resting, it is locked, full rows are cleared and the next piece spawns.
// It reports whether the piece fell.
func (b *Board) Tick() bool {
	if b.state != Running {
		return false
	}
	if b.CanMoveDown(b.active) {
		b.active.MoveDown()
		return true
	}
	b.settle()
	return false
}

// MoveLeft shifts the active piece one column left unless the result is
// rejected by the probe.
func (b *Board) MoveLeft() bool {
	if b.state != Running {
		return false
	}
	b.active.MoveLeft()
	if !b.canPlace(b.active) {
		b.active.MoveRight()
		return false
	}
	return true
}

// MoveRight mirrors MoveLeft.
func (b *Board) MoveRight() bool {
	if b.state != Running {
		return false
	}
	b.active.MoveRight()
	if !b.canPlace(b.active) {
		b.active.MoveLeft()
		return false
	}
	return true
}

// Rotate turns the active piece clockwise. A rejected rotation is undone by
// completing the cycle with three more turns.
func (b *Board) Rotate() bool {
	if b.state != Running {
		return false
	}
	b.active.Rotate()
	if b.canPlace(b.active) {
		return true
	}
	for range 3 {
		b.active.Rotate()
	}
	return false
}

// HardDrop moves the active piece down as far as it goes, then locks it,
// clears rows and spawns the next piece. It returns the rows travelled.
func (b *Board) HardDrop() int {
	if b.state != Running {
		return 0
	}
	n := 0
	for b.CanMoveDown(b.active) {
		b.active.MoveDown()
		n++
	}
	b.settle()
	return n
}

// CanMoveDown reports whether p could move one row down without leaving the
// field or overlapping a Filled cell. Rows above the field count as free.
func (b *Board) CanMoveDown(p *piece.Piece) bool {
	return !b.collides(p, 0, 1)
}

// Fits reports whether p's current cells are all inside the walls and floor
// and free. Rows above the field count as free.
func (b *Board) Fits(p *piece.Piece) bool {
	return !b.collides(p, 0, 0)
}

// Ghost returns the anchor row the active piece would land on if dropped.
func (b *Board) Ghost() int {
	if b.active == nil {
		return 0
	}
	g := b.active.Clone()
	for b.CanMoveDown(g) {
		g.MoveDown()
	}
	return g.Y
}

// Lock writes every occupied cell of p that lies inside the field as Filled.
// Cells above row 0 are dropped.
func (b *Board) Lock(p *piece.Piece) {
	for c := range p.Cells(0, 0) {
		b.grid.Set(c.Y, c.X, Filled)
	}
}

// ClearLines removes every complete row, bottom to top, shifting the rows
// above down. It returns the number of rows removed.
func (b *Board) ClearLines() int {
	cleared := 0
	for row := b.grid.Rows() - 1; row >= 0; row-- {
		// The row above has shifted into this index, so look at it again.
		for b.grid.RowFull(row) {
			b.grid.shiftDown(row)
			cleared++
		}
	}
	return cleared
}

func (b *Board) settle() {
	b.Lock(b.active)
	b.stats.Locked++

	cleared := b.ClearLines()
	b.stats.LinesCleared += cleared
	if cleared > 0 {
		b.logger.Debug("lines cleared",
			zap.Int("count", cleared),
			zap.Int("total", b.stats.LinesCleared),
		)
	}

	b.Spawn()
}

func (b *Board) canPlace(p *piece.Piece) bool {
	if b.probe == ProbeInPlace {
		return b.Fits(p)
	}
	return b.CanMoveDown(p)
}

func (b *Board) collides(p *piece.Piece, dx, dy int) bool {
	rows, cols := b.grid.Rows(), b.grid.Columns()
	for c := range p.Cells(dx, dy) {
		if c.Y >= rows || c.X < 0 || c.X >= cols {
			return true
		}
		if c.Y >= 0 && b.grid.At(c.Y, c.X) == Filled {
			return true
		}
	}
	return false
}
