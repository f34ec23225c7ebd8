// Package config loads server settings from the environment and flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/alikri/ws-battleship/internal/engine"
	"github.com/alikri/ws-battleship/internal/game"
)

// Config holds game server configuration.
type Config struct {
	Port           int           `env:"BATTLESHIP_PORT" envDefault:"3000"`
	Addr           string        `env:"BATTLESHIP_ADDR"`
	GridSize       int           `env:"BATTLESHIP_GRID_SIZE" envDefault:"10"`
	ExtraTurnOnHit bool          `env:"BATTLESHIP_EXTRA_TURN_ON_HIT" envDefault:"true"`
	TallyDB        string        `env:"BATTLESHIP_TALLY_DB"`
	BotDelay       time.Duration `env:"BATTLESHIP_BOT_DELAY" envDefault:"800ms"`
	BotFleet       string        `env:"BATTLESHIP_BOT_FLEET" envDefault:"1x4,2x3,3x2,4x1"`
	OTelEndpoint   string        `env:"BATTLESHIP_OTEL_ENDPOINT"`
}

// APIConfig holds the leaderboard API configuration.
type APIConfig struct {
	Port    int    `env:"BATTLESHIP_API_PORT" envDefault:"8080"`
	TallyDB string `env:"BATTLESHIP_TALLY_DB"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if target == nil {
		return errors.New("config target is required")
	}
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Parse reads the environment, then lets flags override it.
func Parse(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The game server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The game server listen address (overrides -port)")
	fs.IntVar(&cfg.GridSize, "grid", cfg.GridSize, "Side of the square battle grid")
	fs.BoolVar(&cfg.ExtraTurnOnHit, "extra-turn", cfg.ExtraTurnOnHit, "Keep the turn after a hit")
	fs.StringVar(&cfg.TallyDB, "tally-db", cfg.TallyDB, "SQLite file for the win tally (empty keeps it in memory)")
	fs.DurationVar(&cfg.BotDelay, "bot-delay", cfg.BotDelay, "Pause before the bot fires")
	fs.StringVar(&cfg.BotFleet, "bot-fleet", cfg.BotFleet, "Bot fleet as COUNTxLENGTH terms")
	fs.StringVar(&cfg.OTelEndpoint, "otel-endpoint", cfg.OTelEndpoint, "OTLP/HTTP endpoint for traces (empty disables tracing)")
	if args == nil {
		args = []string{}
	}
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseAPI reads the leaderboard API configuration.
func ParseAPI(fs *flag.FlagSet, args []string) (APIConfig, error) {
	var cfg APIConfig
	if err := ParseEnv(&cfg); err != nil {
		return APIConfig{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The leaderboard API port")
	fs.StringVar(&cfg.TallyDB, "tally-db", cfg.TallyDB, "SQLite file holding the win tally")
	if args == nil {
		args = []string{}
	}
	if err := fs.Parse(args); err != nil {
		return APIConfig{}, err
	}
	if cfg.TallyDB == "" {
		return APIConfig{}, errors.New("tally db path is required")
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	if c.GridSize < 1 {
		return fmt.Errorf("grid size must be positive, got %d", c.GridSize)
	}
	if c.BotDelay < 0 {
		return fmt.Errorf("bot delay must not be negative, got %s", c.BotDelay)
	}
	if _, err := engine.ParseFleet(c.BotFleet); err != nil {
		return fmt.Errorf("bot fleet: %w", err)
	}
	return nil
}

// ListenAddr is Addr when set, otherwise ":<port>".
func (c Config) ListenAddr() string {
	if c.Addr != "" {
		return c.Addr
	}
	return ":" + strconv.Itoa(c.Port)
}

// Rules derives the per-session rules.
func (c Config) Rules() game.Rules {
	return game.Rules{ExtraTurnOnHit: c.ExtraTurnOnHit, Bounds: c.GridSize}
}
