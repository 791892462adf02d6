package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/plus3/blockfall/config"
	"github.com/plus3/blockfall/loop"
	"go.uber.org/zap"
)

// RandomInputSystem plays the game by pushing a random command on a share of
// frames.
type RandomInputSystem struct {
	Rand *rand.Rand
	Rate float64
}

var soakCommands = []loop.Command{
	loop.CommandLeft,
	loop.CommandRight,
	loop.CommandDown,
	loop.CommandRotate,
	loop.CommandDrop,
}

func (s *RandomInputSystem) Execute(frame *loop.Frame) {
	if s.Rand.Float64() >= s.Rate {
		return
	}
	frame.Commands.Push(soakCommands[s.Rand.IntN(len(soakCommands))])
}

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the soak should run for.")
	configPath := flag.String("config", "", "Path to a YAML config file.")
	seed := flag.Uint64("seed", 1, "Seed for both the piece sequence and the random player.")
	frame := flag.Duration("frame", time.Second/60, "Simulated time per frame.")
	rate := flag.Float64("input-rate", 0.3, "Probability of a player command on each frame.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, "create logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg := config.Default()
	if *configPath != "" {
		if cfg, err = config.Load(*configPath); err != nil {
			logger.Fatal("load config", zap.Error(err))
		}
	}
	cfg.Seed = *seed
	cfg.RestartDelay = "0s"

	// Rounds turn over constantly during a soak; keep only warnings from them.
	session := loop.NewSession(cfg, logger.WithOptions(zap.IncreaseLevel(zap.WarnLevel)))
	session.Scheduler.Register(&RandomInputSystem{
		Rand: rand.New(rand.NewPCG(*seed, *seed+1)),
		Rate: *rate,
	})

	report := &Report{
		Duration:       *duration,
		Seed:           *seed,
		Frame:          *frame,
		Rows:           cfg.Rows,
		Columns:        cfg.Columns,
		Probe:          cfg.Probe,
		GCPauseMetrics: *gcPauseMetrics,
		UpdateTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	logger.Info("soak started", zap.Duration("duration", *duration), zap.Uint64("seed", *seed))
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	dt := frame.Seconds()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			updateStart := time.Now()
			session.Update(dt)
			report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))
		}
	}

	report.TotalTime = time.Since(startTime)
	report.UpdateTime.Finalize()
	report.Scheduler = session.Scheduler.GetStats()
	report.Board = session.Board.Stats()
	report.Rounds = session.Round()
	runtime.ReadMemStats(&report.MemStatsEnd)

	if err := report.Generate(os.Stdout); err != nil {
		logger.Fatal("generate report", zap.Error(err))
	}
}
