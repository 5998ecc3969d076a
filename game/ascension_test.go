package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, rules Rules) *Session {
	t.Helper()
	s, err := NewSession(rules)
	require.NoError(t, err)
	return s
}

func playAll(t *testing.T, s *Session, events ...Event) *Session {
	t.Helper()
	for i, ev := range events {
		next, err := s.Play(ev)
		require.NoError(t, err, "event %d %+v", i, ev)
		s = next
	}
	return s
}

// toA brings team from 2 to bare A in four double-up rounds.
func toA(team Team) []Event {
	return []Event{{team, DoubleUp}, {team, DoubleUp}, {team, DoubleUp}, {team, DoubleUp}}
}

func TestAscensionArrival(t *testing.T) {
	t.Run("a gain past A stops on A with first arrival set", func(t *testing.T) {
		s := playAll(t, newTestSession(t, NewAClearanceRules()), toA(TeamA)...)

		require.Equal(t, LevelA, s.Level[TeamA])
		require.Equal(t, "A", s.Text(TeamA))
		require.Equal(t, Ascension{FirstArrival: true}, s.Ascension[TeamA])
		require.False(t, s.Ended)
	})

	t.Run("attempts stay zero below A", func(t *testing.T) {
		s := playAll(t, newTestSession(t, NewAClearanceRules()), Event{TeamA, DoubleUp}, Event{TeamB, OneLast})
		require.Zero(t, s.Ascension[TeamA].Attempts)
		require.Zero(t, s.Ascension[TeamB].Attempts)
	})
}

func TestAscensionSelfAdvance(t *testing.T) {
	t.Run("three single steps walk through A¹ A² A³ and a fourth fails", func(t *testing.T) {
		s := playAll(t, newTestSession(t, NewAClearanceRules()), toA(TeamA)...)

		for i, want := range []string{"A¹", "A²", "A³"} {
			s = playAll(t, s, Event{TeamA, OneLast})
			require.Equal(t, i+1, s.Ascension[TeamA].Attempts)
			require.Equal(t, want, s.Text(TeamA))
			require.False(t, s.Ended)
		}

		s = playAll(t, s, Event{TeamA, OneLast})
		require.True(t, s.Ended)
		require.Equal(t, ThirdAttemptFailed, s.Reason)
		require.Equal(t, WinnerB, s.Winner)
		require.Equal(t, 8, s.Rounds())
	})

	t.Run("RoundLimited mirrors attempts into the level", func(t *testing.T) {
		s := playAll(t, newTestSession(t, NewStandardRules()), toA(TeamA)...)
		s = playAll(t, s, Event{TeamA, OneLast})

		require.Equal(t, Level(15), s.Level[TeamA])
		require.Equal(t, "A¹", s.Text(TeamA))
	})
}

func TestAscensionClear(t *testing.T) {
	t.Run("a multi-step gain at A clears it", func(t *testing.T) {
		for _, delta := range []int{OneThree, DoubleUp} {
			s := playAll(t, newTestSession(t, NewAClearanceRules()), toA(TeamB)...)
			s = playAll(t, s, Event{TeamB, delta})

			require.True(t, s.Ended)
			require.Equal(t, ClearedA, s.Reason)
			require.Equal(t, WinnerB, s.Winner)
		}
	})

	t.Run("a multi-step gain on the third attempt is still a failure", func(t *testing.T) {
		s := playAll(t, newTestSession(t, NewAClearanceRules()), toA(TeamA)...)
		s = playAll(t, s, Event{TeamA, OneLast}, Event{TeamA, OneLast}, Event{TeamA, OneLast})
		s = playAll(t, s, Event{TeamA, DoubleUp})

		require.True(t, s.Ended)
		require.Equal(t, ThirdAttemptFailed, s.Reason)
		require.Equal(t, WinnerB, s.Winner)
	})

	t.Run("clearing is not terminal under RoundLimited", func(t *testing.T) {
		s := playAll(t, newTestSession(t, NewStandardRules()), toA(TeamA)...)
		s = playAll(t, s, Event{TeamA, DoubleUp})

		require.False(t, s.Ended)
		require.Equal(t, LevelA, s.Level[TeamA])
	})
}

func TestAscensionCrossTeamTrigger(t *testing.T) {
	t.Run("opponent scoring pushes a team stalled on bare A to A¹", func(t *testing.T) {
		s := playAll(t, newTestSession(t, NewAClearanceRules()), toA(TeamA)...)
		require.True(t, s.Ascension[TeamA].FirstArrival)

		s = playAll(t, s, Event{TeamB, OneThree})

		require.Equal(t, 1, s.Ascension[TeamA].Attempts)
		require.False(t, s.Ascension[TeamA].FirstArrival)
		require.Equal(t, "A¹", s.Text(TeamA))
		require.Equal(t, Level(4), s.Level[TeamB])
	})

	t.Run("the trigger fires once only", func(t *testing.T) {
		s := playAll(t, newTestSession(t, NewAClearanceRules()), toA(TeamA)...)
		s = playAll(t, s, Event{TeamB, OneLast}, Event{TeamB, OneLast})

		require.Equal(t, 1, s.Ascension[TeamA].Attempts)
	})

	t.Run("own scoring at A clears first arrival without the trigger", func(t *testing.T) {
		s := playAll(t, newTestSession(t, NewAClearanceRules()), toA(TeamA)...)
		s = playAll(t, s, Event{TeamA, OneLast}, Event{TeamB, DoubleUp})

		require.Equal(t, 1, s.Ascension[TeamA].Attempts, "B's round must not advance A again")
	})

	t.Run("RoundLimited level follows the triggered attempt", func(t *testing.T) {
		s := playAll(t, newTestSession(t, NewStandardRules()), toA(TeamA)...)
		s = playAll(t, s, Event{TeamB, OneLast})

		require.Equal(t, Level(15), s.Level[TeamA])
	})
}

func TestAscensionMutualExhaustion(t *testing.T) {
	s := playAll(t, newTestSession(t, NewAClearanceRules()), toA(TeamA)...)
	s = playAll(t, s,
		Event{TeamB, DoubleUp}, // B 5, triggers A¹
		Event{TeamA, OneLast},  // A²
		Event{TeamA, OneLast},  // A³
		Event{TeamB, DoubleUp}, // B 8
		Event{TeamB, DoubleUp}, // B J
		Event{TeamB, DoubleUp}, // B A
		Event{TeamB, OneLast},  // B A¹
		Event{TeamB, OneLast},  // B A²
	)
	require.False(t, s.Ended)

	s = playAll(t, s, Event{TeamB, OneLast})

	require.True(t, s.Ended)
	require.Equal(t, MutualExhaustion, s.Reason)
	require.Equal(t, Draw, s.Winner)
	require.Equal(t, "A³", s.Text(TeamA))
	require.Equal(t, "A³", s.Text(TeamB))
}
