package results

// RankValue is a 1-based rank that is Missing for competitors with no time
// at the control being ranked.
type RankValue struct {
	rank  int
	known bool
}

// Rank returns a known rank value.
func Rank(rank int) RankValue {
	return RankValue{rank: rank, known: true}
}

// MissingRank returns the rank of a competitor with no time.
func MissingRank() RankValue {
	return RankValue{}
}

// IsKnown reports whether the rank exists.
func (r RankValue) IsKnown() bool { return r.known }

// Value returns the 1-based rank. It panics if the rank is not known.
func (r RankValue) Value() int {
	if !r.known {
		panic("results: Value called on missing RankValue")
	}
	return r.rank
}

// Ranks assigns each value its 1-based rank among the known values, with
// minimum-rank ties: equal values share the lowest eligible rank, so
// [10, 5, 5, 20] ranks to [3, 1, 1, 4]. Missing values rank to Missing and
// consume no rank slot.
func Ranks(values []TimeValue) []RankValue {
	ranks := make([]RankValue, len(values))
	for i, v := range values {
		if !v.IsKnown() {
			ranks[i] = MissingRank()
			continue
		}
		rank := 1
		for _, other := range values {
			if other.IsKnown() && other.Value() < v.Value() {
				rank++
			}
		}
		ranks[i] = Rank(rank)
	}
	return ranks
}
