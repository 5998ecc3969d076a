package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSession(t *testing.T) {
	t.Run("starts at two all with no rounds", func(t *testing.T) {
		s := newTestSession(t, NewStandardRules())

		require.Equal(t, [2]Level{2, 2}, s.Level)
		require.Zero(t, s.Rounds())
		require.Equal(t, "2", s.Text(TeamA))
		require.Equal(t, Outcome{}, s.Outcome())
	})

	t.Run("rejects invalid rules", func(t *testing.T) {
		_, err := NewSession(Rules{Mode: RuleMode(7), MaxRounds: 10})
		require.ErrorIs(t, err, ErrInvalidRuleMode)

		_, err = NewSession(Rules{Mode: RoundLimited})
		require.ErrorIs(t, err, ErrOutOfRange)
	})
}

func TestSessionPlay(t *testing.T) {
	t.Run("does not modify the receiver", func(t *testing.T) {
		s := newTestSession(t, NewStandardRules())
		next, err := s.Play(Event{TeamA, DoubleUp})
		require.NoError(t, err)

		require.Equal(t, Level(2), s.Level[TeamA])
		require.Zero(t, s.Rounds())
		require.Equal(t, Level(5), next.Level[TeamA])
		require.Equal(t, 1, next.Rounds())
	})

	t.Run("rejects deltas outside 1..3", func(t *testing.T) {
		s := newTestSession(t, NewStandardRules())
		for _, d := range []int{0, -1, 4} {
			_, err := s.Play(Event{TeamA, d})
			require.ErrorIs(t, err, ErrInvalidDelta)
		}
	})

	t.Run("rejects unknown teams", func(t *testing.T) {
		s := newTestSession(t, NewStandardRules())
		_, err := s.Play(Event{Team(4), OneLast})
		require.ErrorIs(t, err, ErrInvalidTeam)
	})

	t.Run("levels never decrease under play", func(t *testing.T) {
		events := []Event{
			{TeamA, 1}, {TeamB, 3}, {TeamA, 2}, {TeamB, 3}, {TeamB, 3},
			{TeamA, 3}, {TeamB, 1}, {TeamB, 2}, {TeamA, 3}, {TeamA, 1},
		}
		for _, rules := range []Rules{{Mode: RoundLimited, MaxRounds: 20}, NewAClearanceRules()} {
			s := newTestSession(t, rules)
			for _, ev := range events {
				next, err := s.Play(ev)
				require.NoError(t, err)
				s = next
				if s.Ended {
					break
				}
			}
			for _, team := range Teams {
				levels := levelsOf(t, s.Ledger, team, rules.Mode)
				for i := 1; i < len(levels); i++ {
					require.GreaterOrEqual(t, levels[i], levels[i-1], "team %s round %d under %s", team, i, rules.Mode)
				}
			}
		}
	})

	t.Run("ledger indexes follow position", func(t *testing.T) {
		s := playAll(t, newTestSession(t, NewStandardRules()), Event{TeamA, 1}, Event{TeamB, 2}, Event{TeamA, 3})
		for i, rec := range s.Ledger {
			require.Equal(t, i, rec.Index)
		}
	})
}

func TestSessionUndo(t *testing.T) {
	t.Run("empty ledger reports false without error", func(t *testing.T) {
		s := newTestSession(t, NewStandardRules())
		next, ok, err := s.Undo()

		require.NoError(t, err)
		require.False(t, ok)
		require.Equal(t, s, next)
	})

	t.Run("undo after play restores the prior session", func(t *testing.T) {
		for _, rules := range []Rules{NewStandardRules(), NewAClearanceRules()} {
			prev := playAll(t, newTestSession(t, rules), toA(TeamA)...)
			played := playAll(t, prev, Event{TeamB, OneLast})
			require.Equal(t, 1, played.Ascension[TeamA].Attempts, "the cross-team trigger fired")

			undone, ok, err := played.Undo()
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, prev, undone)
		}
	})

	t.Run("undoing the only round returns to two all", func(t *testing.T) {
		s := playAll(t, newTestSession(t, NewStandardRules()), Event{TeamA, DoubleUp})
		undone, ok, err := s.Undo()

		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, newTestSession(t, NewStandardRules()), undone)
	})

	t.Run("ended sessions cannot be undone", func(t *testing.T) {
		s := playAll(t, newTestSession(t, NewAClearanceRules()), toA(TeamA)...)
		s = playAll(t, s, Event{TeamA, DoubleUp})

		_, _, err := s.Undo()
		require.ErrorIs(t, err, ErrSessionEnded)
	})
}

func TestSessionEdit(t *testing.T) {
	t.Run("current level follows the recomputed last round", func(t *testing.T) {
		s := playAll(t, newTestSession(t, NewStandardRules()),
			Event{TeamA, OneLast}, Event{TeamB, OneThree}, Event{TeamA, OneThree},
		)
		next, err := s.Edit(0, TeamA, "6")
		require.NoError(t, err)

		require.Equal(t, Level(8), next.Level[TeamA])
		require.Equal(t, Level(4), next.Level[TeamB])
		require.Equal(t, s.Rounds(), next.Rounds())
		require.Equal(t, Level(5), s.Level[TeamA], "receiver is untouched")
	})

	t.Run("out of range edits leave the session unchanged", func(t *testing.T) {
		s := playAll(t, newTestSession(t, NewStandardRules()), Event{TeamA, OneLast})
		before := s.Copy()

		_, err := s.Edit(3, TeamA, "6")
		require.ErrorIs(t, err, ErrOutOfRange)
		require.Equal(t, before, s)
	})

	t.Run("ended sessions cannot be edited", func(t *testing.T) {
		s := playAll(t, newTestSession(t, Rules{Mode: RoundLimited, MaxRounds: 1}), Event{TeamA, OneLast})
		require.True(t, s.Ended)

		_, err := s.Edit(0, TeamA, "9")
		require.ErrorIs(t, err, ErrSessionEnded)
	})
}

func TestSessionSwitchRule(t *testing.T) {
	t.Run("allowed before the first round", func(t *testing.T) {
		s := newTestSession(t, NewStandardRules())
		next, err := s.SwitchRule(AClearance)

		require.NoError(t, err)
		require.Equal(t, AClearance, next.Rules.Mode)
		require.Equal(t, RoundLimited, s.Rules.Mode)
	})

	t.Run("rejected once a round is recorded", func(t *testing.T) {
		s := playAll(t, newTestSession(t, NewStandardRules()), Event{TeamA, OneLast})
		_, err := s.SwitchRule(AClearance)
		require.ErrorIs(t, err, ErrIllegalRuleSwitch)

		_, err = s.WithMaxRounds(12)
		require.ErrorIs(t, err, ErrIllegalRuleSwitch)
	})

	t.Run("allowed again after undoing back to zero rounds", func(t *testing.T) {
		s := playAll(t, newTestSession(t, NewStandardRules()), Event{TeamA, OneLast})
		s, _, err := s.Undo()
		require.NoError(t, err)

		_, err = s.SwitchRule(AClearance)
		require.NoError(t, err)
	})

	t.Run("unknown modes are rejected", func(t *testing.T) {
		_, err := newTestSession(t, NewStandardRules()).SwitchRule(RuleMode(3))
		require.ErrorIs(t, err, ErrInvalidRuleMode)
	})
}

func TestSessionStats(t *testing.T) {
	t.Run("counts the leader after each round", func(t *testing.T) {
		s := playAll(t, newTestSession(t, NewStandardRules()),
			Event{TeamA, OneLast},  // 3 2
			Event{TeamB, OneThree}, // 3 4
			Event{TeamA, OneLast},  // 4 4
		)
		st, err := s.Stats()
		require.NoError(t, err)

		require.Equal(t, Stats{Rounds: 3, LedByA: 1, LedByB: 1, Tied: 1, RateA: 33.3, RateB: 33.3}, st)
	})

	t.Run("empty ledger", func(t *testing.T) {
		st, err := newTestSession(t, NewStandardRules()).Stats()
		require.NoError(t, err)
		require.Equal(t, Stats{}, st)
	})
}

func TestParseHelpers(t *testing.T) {
	t.Run("teams", func(t *testing.T) {
		team, err := ParseTeam("b")
		require.NoError(t, err)
		require.Equal(t, TeamB, team)

		_, err = ParseTeam("C")
		require.ErrorIs(t, err, ErrInvalidTeam)
	})

	t.Run("rule modes", func(t *testing.T) {
		for in, want := range map[string]RuleMode{"RoundLimited": RoundLimited, "AClearance": AClearance, "rounds": RoundLimited, "a": AClearance} {
			got, err := ParseRuleMode(in)
			require.NoError(t, err)
			require.Equal(t, want, got)
		}
		_, err := ParseRuleMode("nope")
		require.ErrorIs(t, err, ErrInvalidRuleMode)
	})
}
