package game

import (
	"strconv"
	"strings"

	"github.com/szqjl/guandan-score/utils"
	"golang.org/x/text/unicode/norm"
)

// Level is a team's ordinal rank. 2..10 are the number ranks, 11..13 the face
// ranks and 14 is A. Under RoundLimited, 15..17 encode the attempts beyond A.
type Level int

const (
	MinLevel Level = 2
	LevelJ   Level = 11
	LevelQ   Level = 12
	LevelK   Level = 13
	LevelA   Level = 14
	MaxLevel Level = 17
)

// MaxAttempts is the number of tries a team gets to clear A.
const MaxAttempts = 3

var attemptSuffix = [MaxAttempts + 1]string{"", "¹", "²", "³"}

// Rank is a parsed rank text: its ordinal and, for A¹..A³, the attempt suffix.
type Rank struct {
	Level   Level
	Attempt int
}

// Text renders the rank under the given rule mode.
func (r Rank) Text(mode RuleMode) string {
	return LevelToText(r.Level, mode, r.Attempt)
}

// ParseRank parses rank text such as "7", "Q", "A" or "A²". Superscript and
// plain digits are both accepted after "A" ("A2" == "A²").
func ParseRank(text string, mode RuleMode) (Rank, error) {
	if !mode.Valid() {
		return Rank{}, newError(CodeInvalidRuleMode, "unknown rule mode %d", int(mode))
	}
	s := strings.ToUpper(strings.TrimSpace(norm.NFKC.String(text)))
	switch s {
	case "J":
		return Rank{Level: LevelJ}, nil
	case "Q":
		return Rank{Level: LevelQ}, nil
	case "K":
		return Rank{Level: LevelK}, nil
	case "A":
		return Rank{Level: LevelA}, nil
	}

	if rest, ok := strings.CutPrefix(s, "A"); ok {
		k, ok := canonicalInt(rest)
		if !ok || k < 1 || k > MaxAttempts {
			return Rank{}, newError(CodeParse, "invalid attempt suffix in %q", text)
		}
		if mode == RoundLimited {
			return Rank{Level: LevelA + Level(k), Attempt: k}, nil
		}
		return Rank{Level: LevelA, Attempt: k}, nil
	}

	// Plain digits are taken at face value up to the mode's ceiling; "11" reads
	// as J and, under RoundLimited, "15" as A¹.
	n, ok := canonicalInt(s)
	if !ok || n < int(MinLevel) || n > int(Rules{Mode: mode}.ceiling()) {
		return Rank{}, newError(CodeParse, "unrecognized rank %q", text)
	}
	return Rank{Level: Level(n), Attempt: max(n-int(LevelA), 0)}, nil
}

// TextToLevel parses rank text to its ordinal. Under AClearance every A variant
// is 14; use ParseRank to recover the attempt.
func TextToLevel(text string, mode RuleMode) (Level, error) {
	r, err := ParseRank(text, mode)
	if err != nil {
		return 0, err
	}
	return r.Level, nil
}

// LevelToText renders an ordinal. At A the integer alone does not say how many
// attempts were used under AClearance, so the caller passes the attempt count.
func LevelToText(level Level, mode RuleMode, attempt int) string {
	switch {
	case level >= LevelA:
		k := attempt
		if mode == RoundLimited && level > LevelA {
			k = int(level - LevelA)
		}
		return "A" + attemptSuffix[utils.Clamp(k, 0, MaxAttempts)]
	case level == LevelK:
		return "K"
	case level == LevelQ:
		return "Q"
	case level == LevelJ:
		return "J"
	default:
		return strconv.Itoa(int(level))
	}
}

// canonicalInt parses s only if it is written the way strconv.Itoa would write it,
// so "+3", "03" and "" are rejected.
func canonicalInt(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || strconv.Itoa(n) != s {
		return 0, false
	}
	return n, true
}
