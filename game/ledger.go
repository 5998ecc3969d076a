package game

import (
	"fmt"

	"github.com/szqjl/guandan-score/utils"
)

// RoundRecord is the state of both teams after one round. Index equals the
// record's position in the ledger.
type RoundRecord struct {
	Index     int
	Level     [2]string
	Ascension [2]Ascension
}

// Ledger is the ordered record of rounds. Its methods never modify the receiver's
// backing array; they return a new ledger.
type Ledger []RoundRecord

func (l Ledger) Len() int {
	return len(l)
}

func (l Ledger) clone() Ledger {
	if len(l) == 0 {
		return nil
	}
	out := make(Ledger, len(l))
	copy(out, l)
	return out
}

// Last returns the most recent record, if any.
func (l Ledger) Last() (RoundRecord, bool) {
	if len(l) == 0 {
		return RoundRecord{}, false
	}
	return l[len(l)-1], true
}

// Append adds rec as the next round; its Index is overwritten with the position.
func (l Ledger) Append(rec RoundRecord) Ledger {
	rec.Index = len(l)
	out := make(Ledger, len(l), len(l)+1)
	copy(out, l)
	return append(out, rec)
}

// Undo drops the last round. It reports false, and returns the ledger unchanged,
// when there is nothing to drop.
func (l Ledger) Undo() (Ledger, bool) {
	if len(l) == 0 {
		return nil, false
	}
	return l[:len(l)-1].clone(), true
}

// Ranks parses one team's rank at every round.
func (l Ledger) Ranks(team Team, mode RuleMode) ([]Rank, error) {
	if !team.Valid() {
		return nil, newError(CodeInvalidTeam, "unknown team %d", int(team))
	}
	ranks := make([]Rank, len(l))
	for i, rec := range l {
		r, err := ParseRank(rec.Level[team], mode)
		if err != nil {
			return nil, WrapError(CodeInvalidSnapshot, fmt.Sprintf("round %d team %s", i, team), err)
		}
		ranks[i] = r
	}
	return ranks, nil
}

// EditAt rewrites one team's rank at index and replays every later round with the
// per-round change it originally had, so the shape of play after the edit is kept.
// A replayed level is clipped to the rank floor and ceiling; attempts are carried
// the same way and only exist at A.
func (l Ledger) EditAt(index int, team Team, text string, rules Rules) (Ledger, error) {
	if index < 0 || index >= len(l) {
		return l, newError(CodeOutOfRange, "round %d outside ledger of %d rounds", index, len(l))
	}
	edited, err := ParseRank(text, rules.Mode)
	if err != nil {
		return l, err
	}
	old, err := l.Ranks(team, rules.Mode)
	if err != nil {
		return l, err
	}

	next := make([]Rank, len(old))
	copy(next, old[:index])
	next[index] = edited
	for i := index + 1; i < len(old); i++ {
		next[i] = replay(next[i-1], old[i-1], old[i], rules)
	}

	out := l.clone()
	for i := index; i < len(out); i++ {
		rec := out[i]
		rec.Level[team] = next[i].Text(rules.Mode)
		rec.Ascension[team] = reconcile(rec.Ascension[team], old[i], next[i])
		out[i] = rec
	}
	return out, nil
}

// replay applies the original step prev->cur on top of base.
func replay(base, prev, cur Rank, rules Rules) Rank {
	level := utils.Clamp(base.Level+cur.Level-prev.Level, MinLevel, rules.ceiling())
	if level < LevelA {
		return Rank{Level: level}
	}
	if rules.Mode == RoundLimited {
		return Rank{Level: level, Attempt: int(level - LevelA)}
	}
	attempt := utils.Clamp(base.Attempt+cur.Attempt-prev.Attempt, 0, MaxAttempts)
	return Rank{Level: level, Attempt: attempt}
}

// reconcile rebuilds a record's ascension state after its rank moved from old to
// next.
func reconcile(asc Ascension, old, next Rank) Ascension {
	if next.Level < LevelA {
		return Ascension{}
	}
	arrived := old.Level < LevelA
	return Ascension{
		Attempts:     next.Attempt,
		FirstArrival: next.Attempt == 0 && (asc.FirstArrival || arrived),
		Verdict:      asc.Verdict,
	}
}
