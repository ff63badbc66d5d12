package results

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRanksMinimumRankTies(t *testing.T) {
	ranks := Ranks(times(10, 5, 5, 20))
	assert.Equal(t, []RankValue{Rank(3), Rank(1), Rank(1), Rank(4)}, ranks)
}

func TestRanksMissingValues(t *testing.T) {
	ranks := Ranks([]TimeValue{Seconds(5), MissingTime(), Seconds(5)})
	assert.Equal(t, []RankValue{Rank(1), MissingRank(), Rank(1)}, ranks)
}

func TestRanksAllMissing(t *testing.T) {
	ranks := Ranks([]TimeValue{MissingTime(), MissingTime()})
	assert.Equal(t, []RankValue{MissingRank(), MissingRank()}, ranks)
}

func TestRanksEmpty(t *testing.T) {
	assert.Empty(t, Ranks(nil))
}

func TestRanksSingleValue(t *testing.T) {
	assert.Equal(t, []RankValue{Rank(1)}, Ranks(times(42)))
}
