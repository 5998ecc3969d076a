package game

import "math"

// Stats summarises who led after each recorded round.
type Stats struct {
	Rounds int
	LedByA int
	LedByB int
	Tied   int
	RateA  float64 // percent of rounds led by A, one decimal
	RateB  float64
}

// Stats tallies the ledger round by round.
func (s Session) Stats() (Stats, error) {
	a, err := s.Ledger.Ranks(TeamA, s.Rules.Mode)
	if err != nil {
		return Stats{}, err
	}
	b, err := s.Ledger.Ranks(TeamB, s.Rules.Mode)
	if err != nil {
		return Stats{}, err
	}

	st := Stats{Rounds: len(a)}
	for i := range a {
		switch {
		case a[i].Level > b[i].Level:
			st.LedByA++
		case b[i].Level > a[i].Level:
			st.LedByB++
		default:
			st.Tied++
		}
	}
	if st.Rounds > 0 {
		st.RateA = percent(st.LedByA, st.Rounds)
		st.RateB = percent(st.LedByB, st.Rounds)
	}
	return st, nil
}

func percent(n, total int) float64 {
	return math.Round(float64(n)/float64(total)*1000) / 10
}
