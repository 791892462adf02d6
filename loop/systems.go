package loop

import (
	"time"

	"github.com/plus3/blockfall/board"
)

// DefaultTickPeriod is the gravity interval.
const DefaultTickPeriod = 500 * time.Millisecond

// InputSystem applies the commands buffered since the last frame. Register
// it before GravitySystem so player moves land before the gravity step.
type InputSystem struct {
	Applied int64
}

func (s *InputSystem) Execute(frame *Frame) {
	s.Applied += int64(frame.Commands.Flush(frame.Board))
}

// GravitySystem advances the board by one tick every Period of accumulated
// frame time.
type GravitySystem struct {
	Period      time.Duration
	Accumulator float64
}

func (s *GravitySystem) Execute(frame *Frame) {
	if frame.Board.State() != board.Running {
		s.Accumulator = 0
		return
	}

	period := s.Period
	if period <= 0 {
		period = DefaultTickPeriod
	}

	s.Accumulator += frame.DeltaTime
	for s.Accumulator >= period.Seconds() {
		s.Accumulator -= period.Seconds()
		frame.Board.Tick()
		if frame.Board.State() != board.Running {
			s.Accumulator = 0
			return
		}
	}
}

// RestartSystem leaves a finished game on screen for Delay, then restarts the
// board and calls OnRestart. The wait starts with the frame after the one
// that ended the game.
type RestartSystem struct {
	Delay     time.Duration
	OnRestart func()
	pending   bool
	waited    float64
}

func (s *RestartSystem) Execute(frame *Frame) {
	if frame.Board.State() != board.GameOver {
		s.pending = false
		s.waited = 0
		return
	}
	if !s.pending {
		s.pending = true
		s.waited = 0
		return
	}

	s.waited += frame.DeltaTime
	if s.waited < s.Delay.Seconds() {
		return
	}

	s.pending = false
	s.waited = 0
	frame.Board.Restart()
	if s.OnRestart != nil {
		s.OnRestart()
	}
}
