package metrics

import (
	"time"

	"github.com/szqjl/guandan-score/game"
)

// RuleConfig is one simulated setup.
type RuleConfig struct {
	ID        int
	Mode      game.RuleMode
	MaxRounds int
}

func (c RuleConfig) Rules() game.Rules {
	return game.Rules{Mode: c.Mode, MaxRounds: c.MaxRounds}
}

type RoundMetric struct {
	Round      int
	Team       game.Team
	Delta      int
	Level      [2]string
	Unwinnable bool
}

type GameMetric struct {
	Rounds    int
	Reason    game.EndReason
	Winner    game.Winner
	FlaggedAt int // first round after which the trailing team could not catch up, 0 if never
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

type Collector interface {
	Start()
	AddRound(u RoundMetric)
	Complete(s *game.Session) (GameMetric, []RoundMetric)
}

type collector struct {
	startTime time.Time
	flaggedAt int
	rounds    []RoundMetric
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start() {
	m.startTime = time.Now()
	m.flaggedAt = 0
	m.rounds = nil
}

func (m *collector) AddRound(r RoundMetric) {
	if r.Unwinnable && m.flaggedAt == 0 {
		m.flaggedAt = r.Round
	}
	m.rounds = append(m.rounds, r)
}

func (m *collector) Complete(s *game.Session) (GameMetric, []RoundMetric) {
	end := time.Now()
	return GameMetric{
		Rounds:    s.Rounds(),
		Reason:    s.Reason,
		Winner:    s.Winner,
		FlaggedAt: m.flaggedAt,
		StartTime: m.startTime,
		EndTime:   end,
		Duration:  end.Sub(m.startTime),
	}, m.rounds
}

// dummyCollector keeps game totals but drops per-round detail.
type dummyCollector struct {
	collector
}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) AddRound(r RoundMetric) {
	if r.Unwinnable && m.flaggedAt == 0 {
		m.flaggedAt = r.Round
	}
}
