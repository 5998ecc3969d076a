package game

// Session is the full scoring state of one game. Operations on a Session never
// modify it; they return a new copy, so a caller can keep any earlier value.
type Session struct {
	Rules     Rules
	Level     [2]Level
	Ledger    Ledger
	Ascension [2]Ascension
	Ended     bool
	Reason    EndReason
	Winner    Winner
}

// NewSession creates a zero-round session with both teams on 2.
func NewSession(rules Rules) (*Session, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return &Session{
		Rules: rules,
		Level: [2]Level{MinLevel, MinLevel},
	}, nil
}

func (s Session) Copy() *Session {
	s.Ledger = s.Ledger.clone()
	return &s
}

// Rounds is the number of rounds recorded so far.
func (s Session) Rounds() int {
	return s.Ledger.Len()
}

// Text renders a team's current rank.
func (s Session) Text(t Team) string {
	return LevelToText(s.Level[t], s.Rules.Mode, s.Ascension[t].Attempts)
}

func (s Session) Outcome() Outcome {
	return Outcome{Ended: s.Ended, Reason: s.Reason, Winner: s.Winner}
}

// Play applies one scored round and records it. The returned session carries the
// termination signal in Ended, Reason and Winner.
func (s Session) Play(ev Event) (*Session, error) {
	if s.Ended {
		return nil, newError(CodeSessionEnded, "session ended: %s", s.Reason)
	}
	if err := ev.validate(); err != nil {
		return nil, err
	}

	st := advance(s.Rules.Mode, s.standings(), ev)

	next := s.Copy()
	next.restore(st)
	next.Ledger = next.Ledger.Append(next.record())
	next.conclude()
	return next, nil
}

// Undo removes the last round and reverts both teams to the state recorded before
// it. It reports false when there is no round to remove.
func (s Session) Undo() (*Session, bool, error) {
	if s.Ended {
		return nil, false, newError(CodeSessionEnded, "session ended: %s", s.Reason)
	}
	ledger, ok := s.Ledger.Undo()
	if !ok {
		return s.Copy(), false, nil
	}
	next := s.Copy()
	next.Ledger = ledger
	if err := next.resync(); err != nil {
		return nil, false, err
	}
	return next, true, nil
}

// Edit rewrites a past round's rank for one team; see Ledger.EditAt.
func (s Session) Edit(index int, team Team, text string) (*Session, error) {
	if s.Ended {
		return nil, newError(CodeSessionEnded, "session ended: %s", s.Reason)
	}
	ledger, err := s.Ledger.EditAt(index, team, text, s.Rules)
	if err != nil {
		return nil, err
	}
	next := s.Copy()
	next.Ledger = ledger
	if err := next.resync(); err != nil {
		return nil, err
	}
	next.conclude()
	return next, nil
}

// SwitchRule changes the rule mode. Only allowed before any round is recorded.
func (s Session) SwitchRule(mode RuleMode) (*Session, error) {
	rules := s.Rules
	rules.Mode = mode
	return s.reconfigure(rules)
}

// WithMaxRounds changes the round limit. Only allowed before any round is recorded.
func (s Session) WithMaxRounds(n int) (*Session, error) {
	rules := s.Rules
	rules.MaxRounds = n
	return s.reconfigure(rules)
}

func (s Session) reconfigure(rules Rules) (*Session, error) {
	if s.Ended {
		return nil, newError(CodeSessionEnded, "session ended: %s", s.Reason)
	}
	if s.Ledger.Len() > 0 {
		return nil, newError(CodeIllegalRuleSwitch, "%d rounds already recorded", s.Ledger.Len())
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return NewSession(rules)
}

func (s *Session) standings() [2]standing {
	var st [2]standing
	for _, t := range Teams {
		st[t] = standing{level: s.Level[t], asc: s.Ascension[t]}
	}
	return st
}

func (s *Session) restore(st [2]standing) {
	for _, t := range Teams {
		s.Level[t] = st[t].level
		s.Ascension[t] = st[t].asc
	}
}

func (s *Session) record() RoundRecord {
	return RoundRecord{
		Level:     [2]string{s.Text(TeamA), s.Text(TeamB)},
		Ascension: s.Ascension,
	}
}

// resync reloads the current levels from the last ledger record, or the opening
// position when the ledger is empty.
func (s *Session) resync() error {
	last, ok := s.Ledger.Last()
	if !ok {
		s.Level = [2]Level{MinLevel, MinLevel}
		s.Ascension = [2]Ascension{}
		return nil
	}
	for _, t := range Teams {
		lvl, err := TextToLevel(last.Level[t], s.Rules.Mode)
		if err != nil {
			return WrapError(CodeInvalidSnapshot, "last round team "+t.String(), err)
		}
		s.Level[t] = lvl
	}
	s.Ascension = last.Ascension
	return nil
}

func (s *Session) conclude() {
	out := Evaluate(s)
	s.Ended, s.Reason, s.Winner = out.Ended, out.Reason, out.Winner
}
