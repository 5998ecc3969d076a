package game

import "fmt"

// Team is one of the two partnerships at the table.
type Team int

const (
	TeamA Team = iota
	TeamB
)

// Teams lists both partnerships in seating order.
var Teams = [2]Team{TeamA, TeamB}

func (t Team) String() string {
	switch t {
	case TeamA:
		return "A"
	case TeamB:
		return "B"
	default:
		return fmt.Sprintf("Team(%d)", int(t))
	}
}

func (t Team) Valid() bool {
	return t == TeamA || t == TeamB
}

// Other returns the opposing partnership.
func (t Team) Other() Team {
	if t == TeamA {
		return TeamB
	}
	return TeamA
}

// ParseTeam accepts "A" or "B" (case-insensitive).
func ParseTeam(s string) (Team, error) {
	switch s {
	case "A", "a":
		return TeamA, nil
	case "B", "b":
		return TeamB, nil
	}
	return 0, newError(CodeInvalidTeam, "unknown team %q", s)
}

// Winner names the winning team, or a draw. The zero value means no winner yet.
type Winner string

const (
	NoWinner Winner = ""
	WinnerA  Winner = "A"
	WinnerB  Winner = "B"
	Draw     Winner = "draw"
)

func winnerOf(t Team) Winner {
	if t == TeamA {
		return WinnerA
	}
	return WinnerB
}

// ParseWinner accepts the Winner values, including the empty NoWinner.
func ParseWinner(s string) (Winner, error) {
	switch w := Winner(s); w {
	case NoWinner, WinnerA, WinnerB, Draw:
		return w, nil
	}
	return NoWinner, newError(CodeInvalidSnapshot, "unknown winner %q", s)
}

// EndReason explains why a session ended.
type EndReason string

const (
	NotEnded           EndReason = ""
	MaxRoundsReached   EndReason = "MaxRoundsReached"
	ClearedA           EndReason = "ClearedA"
	ThirdAttemptFailed EndReason = "ThirdAttemptFailed"
	MutualExhaustion   EndReason = "MutualExhaustion"
)

// Score increments awarded at the end of a round, named after the finishing order
// of the winning partnership.
const (
	OneLast  = 1 // partners finished first and last
	OneThree = 2 // partners finished first and third
	DoubleUp = 3 // partners finished first and second
)

// Event is one scored round: the winning team and how many levels it gains.
type Event struct {
	Team  Team
	Delta int
}

func (e Event) validate() error {
	if !e.Team.Valid() {
		return newError(CodeInvalidTeam, "unknown team %d", int(e.Team))
	}
	if e.Delta < OneLast || e.Delta > DoubleUp {
		return newError(CodeInvalidDelta, "delta %d is not one of 1, 2, 3", e.Delta)
	}
	return nil
}

// ParseEndReason accepts the EndReason values, including the empty NotEnded.
func ParseEndReason(s string) (EndReason, error) {
	switch r := EndReason(s); r {
	case NotEnded, MaxRoundsReached, ClearedA, ThirdAttemptFailed, MutualExhaustion:
		return r, nil
	}
	return NotEnded, newError(CodeInvalidSnapshot, "unknown end reason %q", s)
}
