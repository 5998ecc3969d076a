package game

// Outcome is the end-of-game verdict for a session.
type Outcome struct {
	Ended  bool
	Reason EndReason
	Winner Winner
}

// Evaluate decides whether the session has reached a terminal condition.
// It reads only the session value.
func Evaluate(s *Session) Outcome {
	switch s.Rules.Mode {
	case RoundLimited:
		if s.Ledger.Len() >= s.Rules.MaxRounds {
			return Outcome{Ended: true, Reason: MaxRoundsReached, Winner: leader(s.Level)}
		}
	case AClearance:
		for _, t := range Teams {
			switch s.Ascension[t].Verdict {
			case Cleared:
				return Outcome{Ended: true, Reason: ClearedA, Winner: winnerOf(t)}
			case Exhausted:
				return Outcome{Ended: true, Reason: ThirdAttemptFailed, Winner: winnerOf(t.Other())}
			}
		}
		if bothExhausted(s.Ascension) {
			return Outcome{Ended: true, Reason: MutualExhaustion, Winner: Draw}
		}
	}
	return Outcome{}
}

func leader(levels [2]Level) Winner {
	switch {
	case levels[TeamA] > levels[TeamB]:
		return WinnerA
	case levels[TeamB] > levels[TeamA]:
		return WinnerB
	default:
		return Draw
	}
}

// UnwinnableReason says which test flagged the trailing team.
type UnwinnableReason string

const (
	Catchable UnwinnableReason = ""
	// Gap: the level difference exceeds what the remaining rounds can make up.
	Gap UnwinnableReason = "Gap"
	// AvsNonA: the leader holds A and the trailer cannot even reach A in time.
	AvsNonA UnwinnableReason = "AvsNonA"
)

// Unwinnable is the advisory result of CheckUnwinnable.
type Unwinnable struct {
	Unwinnable bool
	Reason     UnwinnableReason
	Leading    Team
	Gap        int
	Remaining  int
	MaxGain    int
}

// CheckUnwinnable reports whether the trailing team can still catch up, assuming
// it takes the largest gain in every remaining round. It only applies to
// RoundLimited and never ends the session itself.
func CheckUnwinnable(s *Session) Unwinnable {
	if s.Rules.Mode != RoundLimited {
		return Unwinnable{}
	}
	remaining := max(s.Rules.MaxRounds-s.Ledger.Len(), 0)
	maxGain := remaining * DoubleUp

	lead, trail := TeamA, TeamB
	if s.Level[TeamB] > s.Level[TeamA] {
		lead, trail = TeamB, TeamA
	}
	gap := int(s.Level[lead] - s.Level[trail])
	u := Unwinnable{Leading: lead, Gap: gap, Remaining: remaining, MaxGain: maxGain}
	if gap == 0 {
		return u
	}

	switch {
	case s.Level[lead] >= LevelA && s.Level[trail] < LevelA && int(s.Level[trail])+maxGain < int(LevelA):
		u.Unwinnable, u.Reason = true, AvsNonA
	case int(s.Level[trail])+maxGain < int(s.Level[lead]):
		u.Unwinnable, u.Reason = true, Gap
	}
	return u
}
