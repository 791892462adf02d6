package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/blockfall/config"
	"github.com/plus3/blockfall/input"
	"github.com/plus3/blockfall/loop"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file. Built-in defaults are used when empty.")
	seed := flag.Uint64("seed", 0, "Seed for the piece sequence. 0 keeps the config value.")
	debug := flag.Bool("debug", false, "Log at debug level in development format.")
	printConfig := flag.Bool("print-config", false, "Print the effective config as YAML and exit.")
	flag.Parse()

	logger, err := newLogger(*debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, "create logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	if *printConfig {
		data, err := cfg.Marshal()
		if err != nil {
			logger.Fatal("encode config", zap.Error(err))
		}
		os.Stdout.Write(data)
		return
	}

	keymap, err := input.FromNames(cfg.Keys, resolveKey)
	if err != nil {
		logger.Fatal("bind keys", zap.Error(err))
	}

	session := loop.NewSession(cfg, logger)
	game := NewGame(session, keymap, cfg.Scale)

	ebiten.SetWindowSize(game.Layout(0, 0))
	ebiten.SetWindowTitle("blockfall")

	if err := ebiten.RunGame(game); err != nil {
		logger.Fatal("run game", zap.Error(err))
	}
	logger.Info("bye", zap.Int("rounds", session.Round()))
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

var keyCodes = func() map[string]int {
	codes := make(map[string]int)
	for k := ebiten.Key(0); k <= ebiten.KeyMax; k++ {
		codes[k.String()] = int(k)
	}
	return codes
}()

// resolveKey maps ebiten key names such as "ArrowLeft" or "Space" to codes.
func resolveKey(name string) (int, bool) {
	code, ok := keyCodes[name]
	return code, ok
}
