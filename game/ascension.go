package game

// Verdict is the tracker's judgement on a team's run at A.
type Verdict int

const (
	Pending Verdict = iota
	Cleared
	Exhausted
)

func (v Verdict) String() string {
	switch v {
	case Cleared:
		return "cleared"
	case Exhausted:
		return "exhausted"
	default:
		return ""
	}
}

// ParseVerdict is the inverse of Verdict.String.
func ParseVerdict(s string) (Verdict, error) {
	switch s {
	case "":
		return Pending, nil
	case "cleared":
		return Cleared, nil
	case "exhausted":
		return Exhausted, nil
	}
	return Pending, newError(CodeInvalidSnapshot, "unknown ascension outcome %q", s)
}

// Ascension tracks a team's attempts to clear A. FirstArrival is set when the
// team lands on A and cleared by the first scored round that resolves while it
// sits there, its own or the opponent's.
type Ascension struct {
	Attempts     int
	FirstArrival bool
	Verdict      Verdict
}

// standing is one team's position: ordinal level plus ascension state.
type standing struct {
	level Level
	asc   Ascension
}

func (s standing) atA() bool {
	return s.level >= LevelA
}

// advance applies one scoring event to both teams and returns the new standings.
// It never fails; the event is validated by the caller.
func advance(mode RuleMode, st [2]standing, ev Event) [2]standing {
	me := st[ev.Team]
	opp := st[ev.Team.Other()]

	if !me.atA() {
		me.level = min(me.level+Level(ev.Delta), LevelA)
		if me.atA() {
			me.asc = Ascension{FirstArrival: true}
		}
	} else {
		me.asc.FirstArrival = false
		switch {
		case me.asc.Attempts >= MaxAttempts:
			me.asc.Verdict = Exhausted
		case ev.Delta == OneLast:
			me.asc.Attempts++
		default:
			me.asc.Verdict = Cleared
		}
	}

	// Sitting on a bare A only shields a team until the next scored round.
	if opp.atA() && opp.asc.FirstArrival && ev.Delta > 0 {
		opp.asc.Attempts++
		opp.asc.FirstArrival = false
	}

	if mode == RoundLimited {
		me.level = mirrorAttempts(me)
		opp.level = mirrorAttempts(opp)
	}

	var out [2]standing
	out[ev.Team] = me
	out[ev.Team.Other()] = opp
	return out
}

// mirrorAttempts encodes the attempt count into the level, as RoundLimited does.
func mirrorAttempts(s standing) Level {
	if !s.atA() {
		return s.level
	}
	return LevelA + Level(s.asc.Attempts)
}

func bothExhausted(asc [2]Ascension) bool {
	return asc[TeamA].Attempts >= MaxAttempts && asc[TeamB].Attempts >= MaxAttempts
}
