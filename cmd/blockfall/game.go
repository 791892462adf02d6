package main

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/blockfall/board"
	"github.com/plus3/blockfall/input"
	"github.com/plus3/blockfall/loop"
	"golang.org/x/image/colornames"
)

// Game adapts a Session to ebiten: keyboard in, one scheduler frame per
// ebiten update, snapshot out.
type Game struct {
	session *loop.Session
	keymap  *input.Keymap
	scale   int

	pressed []ebiten.Key
	codes   []int
}

func NewGame(session *loop.Session, keymap *input.Keymap, scale int) *Game {
	return &Game{
		session: session,
		keymap:  keymap,
		scale:   scale,
	}
}

func (g *Game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyQ) || ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	g.pressed = inpututil.AppendJustPressedKeys(g.pressed[:0])
	g.codes = g.codes[:0]
	for _, k := range g.pressed {
		g.codes = append(g.codes, int(k))
	}
	g.session.Push(g.keymap.Commands(g.codes)...)

	g.session.Update(1.0 / float64(ebiten.TPS()))
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	snap := g.session.Snapshot()
	cell := float32(g.scale)

	screen.Fill(colornames.Black)

	for r, row := range snap.Cells {
		for c, v := range row {
			x, y := float32(c)*cell, float32(r)*cell
			if v == board.Filled {
				vector.DrawFilledRect(screen, x, y, cell, cell, colornames.Lightgray, false)
			}
			vector.StrokeRect(screen, x, y, cell, cell, 1, colornames.Darkslategray, false)
		}
	}

	if p := snap.Piece; p != nil {
		if snap.State == board.Running {
			for pt := range p.Cells(0, snap.GhostY-p.Y) {
				if pt.Y < 0 {
					continue
				}
				vector.StrokeRect(screen, float32(pt.X)*cell+1, float32(pt.Y)*cell+1, cell-2, cell-2, 1, colornames.Dimgray, false)
			}
		}
		for pt := range p.Cells(0, 0) {
			if pt.Y < 0 {
				continue
			}
			x, y := float32(pt.X)*cell, float32(pt.Y)*cell
			vector.DrawFilledRect(screen, x, y, cell, cell, colornames.Tomato, false)
			vector.StrokeRect(screen, x, y, cell, cell, 1, colornames.Black, false)
		}
	}

	w, h := g.Layout(0, 0)
	if snap.State == board.GameOver {
		ebitenutil.DebugPrintAt(screen, "GAME OVER", w/2-27, h/2-8)
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("round %d", g.session.Round()), 4, h-16)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.session.Board.Columns() * g.scale, g.session.Board.Rows() * g.scale
}
