package loop

import (
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/plus3/blockfall/board"
	"github.com/plus3/blockfall/config"
	"go.uber.org/zap"
)

// Session is one running game: a board, the scheduler that drives it and the
// round bookkeeping around automatic restarts.
type Session struct {
	Board     *board.Board
	Scheduler *Scheduler

	Input   *InputSystem
	Gravity *GravitySystem
	Restart *RestartSystem

	roundID uuid.UUID
	round   int
	logger  *zap.Logger
}

// NewSession builds a board from cfg and registers the input, gravity and
// restart systems, in that order. Extra board options are applied last.
func NewSession(cfg config.Config, logger *zap.Logger, opts ...board.Option) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}

	boardOpts := append(cfg.BoardOptions(), board.WithLogger(logger.Named("board")))
	if cfg.Seed != 0 {
		boardOpts = append(boardOpts, board.WithSource(rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))))
	}
	boardOpts = append(boardOpts, opts...)

	s := &Session{
		Board:   board.New(boardOpts...),
		roundID: uuid.New(),
		round:   1,
		logger:  logger,
	}
	s.Board.OnGameOver(s.gameOver)

	s.Scheduler = NewScheduler(s.Board)
	s.Input = &InputSystem{}
	s.Gravity = &GravitySystem{Period: cfg.TickPeriod()}
	s.Restart = &RestartSystem{Delay: cfg.RestartAfter(), OnRestart: s.nextRound}
	s.Scheduler.Register(s.Input)
	s.Scheduler.Register(s.Gravity)
	s.Scheduler.Register(s.Restart)

	s.logger.Info("round started",
		zap.Stringer("round_id", s.roundID),
		zap.Int("round", s.round),
		zap.Int("rows", s.Board.Rows()),
		zap.Int("columns", s.Board.Columns()),
		zap.Stringer("probe", s.Board.Probe()),
	)
	return s
}

// Push queues player commands for the next frame.
func (s *Session) Push(cmds ...Command) {
	s.Scheduler.Commands().Push(cmds...)
}

// Update runs one frame of dt seconds.
func (s *Session) Update(dt float64) {
	s.Scheduler.Once(dt)
}

func (s *Session) Snapshot() board.Snapshot {
	return s.Board.Snapshot()
}

// RoundID identifies the current game; it changes on every restart.
func (s *Session) RoundID() uuid.UUID {
	return s.roundID
}

// Round counts games played in this session, starting at 1.
func (s *Session) Round() int {
	return s.round
}

func (s *Session) gameOver(snap board.Snapshot) {
	s.logger.Info("game over",
		zap.Stringer("round_id", s.roundID),
		zap.Int("round", s.round),
		zap.Int("locked", snap.Stats.Locked),
		zap.Int("lines_cleared", snap.Stats.LinesCleared),
	)
}

func (s *Session) nextRound() {
	s.roundID = uuid.New()
	s.round++
	s.logger.Info("round started",
		zap.Stringer("round_id", s.roundID),
		zap.Int("round", s.round),
	)
}
