// Package config loads game settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/plus3/blockfall/board"
	"github.com/plus3/blockfall/piece"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// The largest piece spans four cells, so smaller fields cannot spawn it.
const minDimension = 4

type Config struct {
	Rows         int                 `yaml:"rows"`
	Columns      int                 `yaml:"columns"`
	Tick         string              `yaml:"tick"`
	RestartDelay string              `yaml:"restart_delay"`
	Seed         uint64              `yaml:"seed,omitempty"`
	Probe        string              `yaml:"probe"`
	Catalog      []string            `yaml:"catalog,omitempty"`
	Scale        int                 `yaml:"scale"`
	Keys         map[string][]string `yaml:"keys"`
}

// Default returns the classic 20×10 field with a 500ms tick and arrow-key
// controls.
func Default() Config {
	return Config{
		Rows:         board.DefaultRows,
		Columns:      board.DefaultColumns,
		Tick:         "500ms",
		RestartDelay: "1.5s",
		Probe:        board.ProbeDescend.String(),
		Scale:        32,
		Keys:         DefaultKeys(),
	}
}

// DefaultKeys binds the five commands to the arrow keys and space.
func DefaultKeys() map[string][]string {
	return map[string][]string{
		"left":   {"ArrowLeft"},
		"right":  {"ArrowRight"},
		"down":   {"ArrowDown"},
		"rotate": {"ArrowUp"},
		"drop":   {"Space"},
	}
}

// Load reads path and overlays it onto Default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML onto Default and validates the result. Unknown fields
// are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	cfg.Keys = nil

	if err := yaml.UnmarshalWithOptions(data, &cfg, yaml.Strict()); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if len(cfg.Keys) == 0 {
		cfg.Keys = DefaultKeys()
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Marshal encodes cfg as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func (c Config) Validate() error {
	if c.Rows < minDimension || c.Columns < minDimension {
		return fmt.Errorf("%w: field %dx%d is smaller than %dx%d", ErrInvalid, c.Rows, c.Columns, minDimension, minDimension)
	}
	if d, err := time.ParseDuration(c.Tick); err != nil || d <= 0 {
		return fmt.Errorf("%w: tick %q must be a positive duration", ErrInvalid, c.Tick)
	}
	if d, err := time.ParseDuration(c.RestartDelay); err != nil || d < 0 {
		return fmt.Errorf("%w: restart_delay %q must be a duration", ErrInvalid, c.RestartDelay)
	}
	if _, ok := parseProbe(c.Probe); !ok {
		return fmt.Errorf("%w: probe %q must be %q or %q", ErrInvalid, c.Probe, board.ProbeDescend, board.ProbeInPlace)
	}
	for _, name := range c.Catalog {
		if _, ok := piece.ParseKind(name); !ok {
			return fmt.Errorf("%w: unknown piece %q", ErrInvalid, name)
		}
	}
	if c.Scale <= 0 {
		return fmt.Errorf("%w: scale must be positive", ErrInvalid)
	}
	return nil
}

// TickPeriod is the parsed gravity interval. Call only on a validated config.
func (c Config) TickPeriod() time.Duration {
	d, _ := time.ParseDuration(c.Tick)
	return d
}

// RestartAfter is how long a finished game stays on screen.
func (c Config) RestartAfter() time.Duration {
	d, _ := time.ParseDuration(c.RestartDelay)
	return d
}

func (c Config) ProbeMode() board.ProbeMode {
	m, _ := parseProbe(c.Probe)
	return m
}

// Kinds is the spawn catalog; empty means all seven pieces.
func (c Config) Kinds() []piece.Kind {
	kinds := make([]piece.Kind, 0, len(c.Catalog))
	for _, name := range c.Catalog {
		if k, ok := piece.ParseKind(name); ok {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// BoardOptions translates the config into board options. Sources and loggers
// are left to the caller.
func (c Config) BoardOptions() []board.Option {
	opts := []board.Option{
		board.WithSize(c.Rows, c.Columns),
		board.WithProbe(c.ProbeMode()),
	}
	if kinds := c.Kinds(); len(kinds) > 0 {
		opts = append(opts, board.WithCatalog(kinds...))
	}
	return opts
}

func parseProbe(name string) (board.ProbeMode, bool) {
	switch name {
	case board.ProbeDescend.String():
		return board.ProbeDescend, true
	case board.ProbeInPlace.String():
		return board.ProbeInPlace, true
	default:
		return board.ProbeDescend, false
	}
}
