package config

import (
	"flag"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/szqjl/guandan-score/game"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestParseConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := ParseConfig(newFlagSet(), nil)
		require.NoError(t, err)
		require.Equal(t, Config{
			Rule:         "RoundLimited",
			MaxRounds:    10,
			ArchivePath:  "guandan.db",
			ArchiveLimit: 50,
			LogLevel:     "info",
		}, cfg)
	})

	t.Run("environment then flags", func(t *testing.T) {
		t.Setenv("GUANDAN_RULE", "AClearance")
		t.Setenv("GUANDAN_MAX_ROUNDS", "8")
		t.Setenv("GUANDAN_LOG_LEVEL", "debug")

		cfg, err := ParseConfig(newFlagSet(), []string{"-rounds", "12", "-archive", ""})
		require.NoError(t, err)
		require.Equal(t, "AClearance", cfg.Rule)
		require.Equal(t, 12, cfg.MaxRounds)
		require.Empty(t, cfg.ArchivePath)
		require.Equal(t, zerolog.DebugLevel, cfg.Level())

		rules, err := cfg.Rules()
		require.NoError(t, err)
		require.Equal(t, game.Rules{Mode: game.AClearance, MaxRounds: 12}, rules)
	})

	t.Run("malformed environment", func(t *testing.T) {
		t.Setenv("GUANDAN_MAX_ROUNDS", "ten")
		_, err := ParseConfig(newFlagSet(), nil)
		require.Error(t, err)
	})

	t.Run("unknown flag", func(t *testing.T) {
		_, err := ParseConfig(newFlagSet(), []string{"-players", "4"})
		require.Error(t, err)
	})

	t.Run("nil flag set", func(t *testing.T) {
		_, err := ParseConfig(nil, nil)
		require.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	valid := Config{Rule: "RoundLimited", MaxRounds: 10, ArchiveLimit: 50, LogLevel: "info"}
	require.NoError(t, valid.Validate())

	t.Run("rounds are limited to five through fifteen", func(t *testing.T) {
		for _, n := range []int{5, 15} {
			c := valid
			c.MaxRounds = n
			require.NoError(t, c.Validate())
		}
		for _, n := range []int{0, 4, 16} {
			c := valid
			c.MaxRounds = n
			require.ErrorIs(t, c.Validate(), game.ErrOutOfRange)
		}
	})

	t.Run("unknown rule", func(t *testing.T) {
		c := valid
		c.Rule = "Elimination"
		require.ErrorIs(t, c.Validate(), game.ErrInvalidRuleMode)
	})

	t.Run("archive limit", func(t *testing.T) {
		c := valid
		c.ArchiveLimit = 0
		require.ErrorIs(t, c.Validate(), game.ErrOutOfRange)
	})

	t.Run("log level", func(t *testing.T) {
		c := valid
		c.LogLevel = "chatty"
		require.Error(t, c.Validate())
	})
}
