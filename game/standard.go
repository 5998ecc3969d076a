package game

import "github.com/szqjl/guandan-score/meta"

// NewStandardRules returns the default table rules: ten rounds, highest level wins.
func NewStandardRules() Rules {
	return Rules{
		Mode:      RoundLimited,
		MaxRounds: meta.DEFAULT_MAX_ROUNDS,
	}
}

// NewAClearanceRules returns rules for a first-to-clear-A game.
func NewAClearanceRules() Rules {
	return Rules{
		Mode:      AClearance,
		MaxRounds: meta.DEFAULT_MAX_ROUNDS,
	}
}
