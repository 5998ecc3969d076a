package experiments

import (
	"fmt"
	"math/rand/v2"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/szqjl/guandan-score/engine"
	"github.com/szqjl/guandan-score/experiments/metrics"
	"github.com/szqjl/guandan-score/game"
	"github.com/szqjl/guandan-score/meta"
)

// DefaultConfigs compares the shortest, default and longest round limits with
// the A clearance rule.
var DefaultConfigs = []metrics.RuleConfig{
	{ID: 1, Mode: game.RoundLimited, MaxRounds: meta.MIN_ROUNDS},
	{ID: 2, Mode: game.RoundLimited, MaxRounds: meta.DEFAULT_MAX_ROUNDS},
	{ID: 3, Mode: game.RoundLimited, MaxRounds: meta.MAX_ROUNDS},
	{ID: 4, Mode: game.AClearance, MaxRounds: meta.DEFAULT_MAX_ROUNDS},
}

// Summary is the per-config tally of a simulation.
type Summary struct {
	Config    metrics.RuleConfig
	Games     int
	WinsA     int
	WinsB     int
	Draws     int
	Rounds    int // total over all games
	Flagged   int // games where the advisory fired before the end
	Reasons   map[game.EndReason]int
	Unstopped int // games cut off at the simulation cap
}

func (s Summary) AvgRounds() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Rounds) / float64(s.Games)
}

type Result struct {
	Summaries []Summary
	Games     []metrics.GameRecord
	Rounds    []metrics.RoundRecord
}

// Simulate plays games random games for every config. Events are drawn
// uniformly: either team, any of the three score increments.
func Simulate(configs []metrics.RuleConfig, games int, rng *rand.Rand, collector metrics.Collector) (Result, error) {
	var res Result
	count := 0

	log.Info().Msgf("simulating %d games for each of %d configs...", games, len(configs))
	for ci, config := range configs {
		sum := Summary{Config: config, Reasons: map[game.EndReason]int{}}
		for range games {
			count++
			gm, rounds, err := runGame(config, rng, collector)
			if err != nil {
				return Result{}, fmt.Errorf("config %d game %d: %w", config.ID, count, err)
			}
			res.Games = append(res.Games, metrics.GameRecord{ID: count, Config: config.ID, GameMetric: gm})
			for _, r := range rounds {
				res.Rounds = append(res.Rounds, metrics.RoundRecord{Game: count, RoundMetric: r})
			}
			sum.add(gm)
		}
		log.Info().Msgf("completed config %d of %d: %s, %d rounds, A %d B %d draw %d, avg %.1f rounds",
			ci+1, len(configs), config.Mode, config.MaxRounds, sum.WinsA, sum.WinsB, sum.Draws, sum.AvgRounds())
		res.Summaries = append(res.Summaries, sum)
	}
	return res, nil
}

func (s *Summary) add(gm metrics.GameMetric) {
	s.Games++
	s.Rounds += gm.Rounds
	if gm.FlaggedAt > 0 {
		s.Flagged++
	}
	switch gm.Winner {
	case game.WinnerA:
		s.WinsA++
	case game.WinnerB:
		s.WinsB++
	case game.Draw:
		s.Draws++
	default:
		s.Unstopped++
		return
	}
	s.Reasons[gm.Reason]++
}

// runGame plays one game through a local engine.
func runGame(config metrics.RuleConfig, rng *rand.Rand, collector metrics.Collector) (metrics.GameMetric, []metrics.RoundMetric, error) {
	e, err := engine.NewLocalEngine(config.Rules(), engine.WithLogger(zerolog.Nop()))
	if err != nil {
		return metrics.GameMetric{}, nil, err
	}
	_, getUpdate := e.Init()
	collector.Start()

	for round := 1; round <= meta.MAX_SIM_ROUNDS; round++ {
		ev := RandomEvent(rng)
		if err := e.Play(ev); err != nil {
			return metrics.GameMetric{}, nil, err
		}
		u := getUpdate()
		if u == nil {
			panic("engine published no update for a played round")
		}
		collector.AddRound(metrics.RoundMetric{
			Round:      round,
			Team:       ev.Team,
			Delta:      ev.Delta,
			Level:      [2]string{u.Session.Text(game.TeamA), u.Session.Text(game.TeamB)},
			Unwinnable: u.Unwinnable.Unwinnable,
		})
		if u.Session.Ended {
			break
		}
	}

	gm, rounds := collector.Complete(e.Session())
	return gm, rounds, nil
}

func RandomEvent(rng *rand.Rand) game.Event {
	return game.Event{
		Team:  game.Teams[rng.IntN(len(game.Teams))],
		Delta: game.OneLast + rng.IntN(game.DoubleUp),
	}
}

// Write stores the configs and records of a simulation as CSV under root.
func Write(root, name string, configs []metrics.RuleConfig, res Result) (string, error) {
	writer, err := metrics.NewWriter(root, name)
	if err != nil {
		return "", err
	}
	if err := writer.WriteRuleConfigs(configs); err != nil {
		return "", err
	}
	log.Info().Msg("stored rule configs")

	if err := writer.WriteGameRecords(res.Games); err != nil {
		return "", err
	}
	log.Info().Msg("stored game records")

	if err := writer.WriteRoundRecords(res.Rounds); err != nil {
		return "", err
	}
	log.Info().Msg("stored round records")
	return writer.Dir(), nil
}
