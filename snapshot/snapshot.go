package snapshot

import (
	"encoding/json"
	"fmt"

	"github.com/szqjl/guandan-score/game"
	"github.com/szqjl/guandan-score/meta"
)

// Levels holds one rank text per team, keyed by team letter on the wire.
type Levels struct {
	A string `json:"A"`
	B string `json:"B"`
}

type Ascension struct {
	Attempts     int    `json:"attempts"`
	FirstArrival bool   `json:"firstArrival"`
	Outcome      string `json:"outcome,omitempty"`
}

type AscensionPair struct {
	A Ascension `json:"A"`
	B Ascension `json:"B"`
}

type Round struct {
	Index     int            `json:"index"`
	Level     Levels         `json:"level"`
	Ascension *AscensionPair `json:"ascension,omitempty"`
}

// Session is the persisted form of a game.Session.
type Session struct {
	RuleMode  string        `json:"ruleMode"`
	MaxRounds int           `json:"maxRounds,omitempty"`
	Level     Levels        `json:"level"`
	Ledger    []Round       `json:"ledger"`
	Ascension AscensionPair `json:"ascension"`
	Ended     bool          `json:"ended"`
	EndReason string        `json:"endReason,omitempty"`
	Winner    string        `json:"winner,omitempty"`
}

func levelsOf(texts [2]string) Levels {
	return Levels{A: texts[game.TeamA], B: texts[game.TeamB]}
}

func (l Levels) texts() [2]string {
	return [2]string{l.A, l.B}
}

func ascensionOf(a game.Ascension) Ascension {
	return Ascension{Attempts: a.Attempts, FirstArrival: a.FirstArrival, Outcome: a.Verdict.String()}
}

func pairOf(a [2]game.Ascension) AscensionPair {
	return AscensionPair{A: ascensionOf(a[game.TeamA]), B: ascensionOf(a[game.TeamB])}
}

// FromSession converts an engine session into its wire form.
func FromSession(s *game.Session) Session {
	out := Session{
		RuleMode:  s.Rules.Mode.String(),
		Level:     Levels{A: s.Text(game.TeamA), B: s.Text(game.TeamB)},
		Ledger:    make([]Round, 0, s.Ledger.Len()),
		Ascension: pairOf(s.Ascension),
		Ended:     s.Ended,
		EndReason: string(s.Reason),
		Winner:    string(s.Winner),
	}
	// The limit means nothing under AClearance and is frozen once a round is
	// played, so it is dropped there and decodes back to the default.
	if s.Rules.Mode == game.RoundLimited {
		out.MaxRounds = s.Rules.MaxRounds
	}
	for _, rec := range s.Ledger {
		asc := pairOf(rec.Ascension)
		out.Ledger = append(out.Ledger, Round{Index: rec.Index, Level: levelsOf(rec.Level), Ascension: &asc})
	}
	return out
}

// ToSession validates the snapshot and rebuilds the engine session. Every
// failure is reported with game.ErrInvalidSnapshot; the cause is kept for
// errors.Is against the more specific codes.
func (s Session) ToSession() (*game.Session, error) {
	mode, err := game.ParseRuleMode(s.RuleMode)
	if err != nil {
		return nil, invalid("ruleMode", err)
	}
	rules := game.Rules{Mode: mode, MaxRounds: s.MaxRounds}
	if rules.MaxRounds == 0 {
		rules.MaxRounds = meta.DEFAULT_MAX_ROUNDS
	}
	if err := rules.Validate(); err != nil {
		return nil, invalid("maxRounds", err)
	}

	out := &game.Session{Rules: rules, Ended: s.Ended}
	var prev [2]game.Rank
	derived := false
	for i, round := range s.Ledger {
		if round.Index != i {
			return nil, game.Errorf(game.CodeInvalidSnapshot, "ledger entry %d has index %d", i, round.Index)
		}
		rec := game.RoundRecord{Level: round.Level.texts()}
		for _, t := range game.Teams {
			r, err := game.ParseRank(rec.Level[t], mode)
			if err != nil {
				return nil, invalid(fmt.Sprintf("ledger[%d].level.%s", i, t), err)
			}
			if round.Ascension != nil {
				rec.Ascension[t], err = round.Ascension.get(t).decode()
				if err != nil {
					return nil, invalid(fmt.Sprintf("ledger[%d].ascension.%s", i, t), err)
				}
			} else {
				rec.Ascension[t] = derive(r, prev[t], i == 0)
			}
			if err := consistent(r, rec.Ascension[t]); err != nil {
				return nil, invalid(fmt.Sprintf("ledger[%d].%s", i, t), err)
			}
			prev[t] = r
		}
		derived = round.Ascension == nil
		out.Ledger = out.Ledger.Append(rec)
	}

	for _, t := range game.Teams {
		text := s.Level.texts()[t]
		r, err := game.ParseRank(text, mode)
		if err != nil {
			return nil, invalid("level."+t.String(), err)
		}
		asc, err := s.Ascension.get(t).decode()
		if err != nil {
			return nil, invalid("ascension."+t.String(), err)
		}
		if err := consistent(r, asc); err != nil {
			return nil, invalid(t.String(), err)
		}
		out.Level[t] = r.Level
		out.Ascension[t] = asc
	}
	if last, ok := out.Ledger.Last(); ok {
		if last.Level != s.Level.texts() {
			return nil, game.Errorf(game.CodeInvalidSnapshot, "current levels %v do not match last round %v", s.Level.texts(), last.Level)
		}
		// A derived record cannot know the verdict; take it from the session.
		if derived {
			for _, t := range game.Teams {
				last.Ascension[t].Verdict = out.Ascension[t].Verdict
			}
			out.Ledger[out.Ledger.Len()-1] = last
		}
		if last.Ascension != out.Ascension {
			return nil, game.Errorf(game.CodeInvalidSnapshot, "current ascension %+v does not match last round %+v", out.Ascension, last.Ascension)
		}
	}
	if out.Ledger.Len() == 0 && out.Level != [2]game.Level{game.MinLevel, game.MinLevel} {
		return nil, game.Errorf(game.CodeInvalidSnapshot, "a session with no rounds must stand at 2/2")
	}

	if out.Reason, err = game.ParseEndReason(s.EndReason); err != nil {
		return nil, err
	}
	if out.Winner, err = game.ParseWinner(s.Winner); err != nil {
		return nil, err
	}
	if want := game.Evaluate(out); want != out.Outcome() {
		return nil, game.Errorf(game.CodeInvalidSnapshot, "session says %+v but its standings give %+v", out.Outcome(), want)
	}
	return out, nil
}

func (p AscensionPair) get(t game.Team) Ascension {
	if t == game.TeamB {
		return p.B
	}
	return p.A
}

func (a Ascension) decode() (game.Ascension, error) {
	if a.Attempts < 0 || a.Attempts > game.MaxAttempts {
		return game.Ascension{}, game.Errorf(game.CodeOutOfRange, "attempts %d outside 0..%d", a.Attempts, game.MaxAttempts)
	}
	v, err := game.ParseVerdict(a.Outcome)
	if err != nil {
		return game.Ascension{}, err
	}
	return game.Ascension{Attempts: a.Attempts, FirstArrival: a.FirstArrival, Verdict: v}, nil
}

// derive fills in ascension state for ledger entries written without it. A
// team that sits on a bare A and was below A the round before has just arrived.
func derive(r, prev game.Rank, first bool) game.Ascension {
	if r.Level < game.LevelA {
		return game.Ascension{}
	}
	arrived := first || prev.Level < game.LevelA
	return game.Ascension{Attempts: r.Attempt, FirstArrival: r.Attempt == 0 && arrived}
}

// consistent checks that attempts agree with the rank text, that a team below A
// carries no ascension state and that a first arrival has used no attempts.
func consistent(r game.Rank, asc game.Ascension) error {
	if r.Level < game.LevelA {
		if asc != (game.Ascension{}) {
			return game.Errorf(game.CodeInvalidSnapshot, "ascension state below A")
		}
		return nil
	}
	if asc.FirstArrival && asc.Attempts > 0 {
		return game.Errorf(game.CodeInvalidSnapshot, "first arrival with %d attempts already used", asc.Attempts)
	}
	if asc.Attempts != r.Attempt {
		return game.Errorf(game.CodeInvalidSnapshot, "attempts %d disagree with rank suffix %d", asc.Attempts, r.Attempt)
	}
	return nil
}

func invalid(field string, cause error) error {
	return game.WrapError(game.CodeInvalidSnapshot, field, cause)
}

// Marshal encodes a session as snapshot JSON.
func Marshal(s *game.Session) ([]byte, error) {
	data, err := json.Marshal(FromSession(s))
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// Unmarshal decodes and validates snapshot JSON.
func Unmarshal(data []byte) (*game.Session, error) {
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, game.WrapError(game.CodeInvalidSnapshot, "decode", err)
	}
	return s.ToSession()
}
