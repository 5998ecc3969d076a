package game

import (
	"fmt"

	"github.com/szqjl/guandan-score/utils"
)

// RuleMode selects how a session ends.
type RuleMode int

const (
	// RoundLimited plays a fixed number of rounds; the higher level wins.
	RoundLimited RuleMode = iota
	// AClearance ends when a team clears A, or fails to within three attempts.
	AClearance
)

var ruleModeNames = []string{"RoundLimited", "AClearance"}

func (m RuleMode) String() string {
	if m.Valid() {
		return ruleModeNames[m]
	}
	return fmt.Sprintf("RuleMode(%d)", int(m))
}

func (m RuleMode) Valid() bool {
	return m == RoundLimited || m == AClearance
}

// ParseRuleMode accepts the canonical names plus the short forms used on the
// command line ("rounds", "a").
func ParseRuleMode(s string) (RuleMode, error) {
	if i := utils.FindIndex(ruleModeNames, s); i >= 0 {
		return RuleMode(i), nil
	}
	switch s {
	case "rounds", "by-rounds":
		return RoundLimited, nil
	case "a", "by-A", "aclear":
		return AClearance, nil
	}
	return 0, newError(CodeInvalidRuleMode, "unknown rule mode %q", s)
}

// Rules is the per-session configuration. MaxRounds only applies to RoundLimited.
type Rules struct {
	Mode      RuleMode
	MaxRounds int
}

func (r Rules) Validate() error {
	if !r.Mode.Valid() {
		return newError(CodeInvalidRuleMode, "unknown rule mode %d", int(r.Mode))
	}
	if r.Mode == RoundLimited && r.MaxRounds < 1 {
		return newError(CodeOutOfRange, "max rounds must be positive, got %d", r.MaxRounds)
	}
	return nil
}

// ceiling is the highest ordinal a team can hold under these rules.
func (r Rules) ceiling() Level {
	if r.Mode == RoundLimited {
		return MaxLevel
	}
	return LevelA
}
