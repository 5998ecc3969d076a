// Package config loads command configuration from the environment and flags.
package config

import (
	"errors"
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
	"github.com/szqjl/guandan-score/game"
	"github.com/szqjl/guandan-score/meta"
)

// Config holds the settings shared by every subcommand.
type Config struct {
	Rule         string `env:"GUANDAN_RULE" envDefault:"RoundLimited"`
	MaxRounds    int    `env:"GUANDAN_MAX_ROUNDS" envDefault:"10"`
	ArchivePath  string `env:"GUANDAN_ARCHIVE_PATH" envDefault:"guandan.db"`
	ArchiveLimit int    `env:"GUANDAN_ARCHIVE_LIMIT" envDefault:"50"`
	LogLevel     string `env:"GUANDAN_LOG_LEVEL" envDefault:"info"`
}

// ParseConfig reads the environment, then lets flags in args override it.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	if fs == nil {
		return Config{}, errors.New("flag parser is required")
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	fs.StringVar(&cfg.Rule, "rule", cfg.Rule, "Rule mode: RoundLimited or AClearance")
	fs.IntVar(&cfg.MaxRounds, "rounds", cfg.MaxRounds, "Rounds per game under RoundLimited")
	fs.StringVar(&cfg.ArchivePath, "archive", cfg.ArchivePath, "SQLite file for finished games; empty disables the archive")
	fs.IntVar(&cfg.ArchiveLimit, "archive-limit", cfg.ArchiveLimit, "Number of finished games to keep")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level")
	if args == nil {
		args = []string{}
	}
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Validate applies the limits a player can choose from.
func (c Config) Validate() error {
	if _, err := game.ParseRuleMode(c.Rule); err != nil {
		return err
	}
	if c.MaxRounds < meta.MIN_ROUNDS || c.MaxRounds > meta.MAX_ROUNDS {
		return game.Errorf(game.CodeOutOfRange, "rounds must be between %d and %d, got %d", meta.MIN_ROUNDS, meta.MAX_ROUNDS, c.MaxRounds)
	}
	if c.ArchiveLimit < 1 {
		return game.Errorf(game.CodeOutOfRange, "archive limit must be positive, got %d", c.ArchiveLimit)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

// Rules converts the validated settings into session rules.
func (c Config) Rules() (game.Rules, error) {
	mode, err := game.ParseRuleMode(c.Rule)
	if err != nil {
		return game.Rules{}, err
	}
	return game.Rules{Mode: mode, MaxRounds: c.MaxRounds}, nil
}

// Level returns the zerolog level, falling back to info.
func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}
