package results

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixtureSet builds the standard three-competitor test field. By total time
// the merged order is john (301), bill (381), fred (561).
func fixtureSet(t *testing.T) (*CompetitorSet, *Competitor, *Competitor, *Competitor) {
	t.Helper()
	john := mustCompetitor(CompetitorFromCumTimes(1, "John", "Smith", "ABC", 36000, times(0, 65, 184, 229, 301)))
	fred := mustCompetitor(CompetitorFromCumTimes(2, "Fred", "Baker", "DEF", 39600, times(0, 77, 191, 482, 561)))
	bill := mustCompetitor(CompetitorFromCumTimes(3, "Bill", "Jones", "GHI", 39720, times(0, 72, 200, 277, 381)))

	class, err := NewClass("Test", 3, []*Competitor{john, fred, bill})
	require.NoError(t, err)
	set, err := NewCompetitorSet([]*Class{class})
	require.NoError(t, err)
	return set, john, fred, bill
}

func TestNewCompetitorSetErrors(t *testing.T) {
	_, err := NewCompetitorSet(nil)
	assert.ErrorIs(t, err, ErrMissingArgument)

	_, err = NewCompetitorSet([]*Class{})
	assert.True(t, IsInvalidData(err))

	classA, err := NewClass("A", 3, nil)
	require.NoError(t, err)
	classB, err := NewClass("B", 5, nil)
	require.NoError(t, err)
	_, err = NewCompetitorSet([]*Class{classA, classB})
	assert.True(t, IsInvalidData(err), "mismatched control counts must be invalid data")
}

func TestNewClassRejectsWrongControlCount(t *testing.T) {
	comp := mustCompetitor(CompetitorFromCumTimes(1, "a", "a", "c", 0, times(0, 65, 184)))
	_, err := NewClass("Test", 3, []*Competitor{comp})
	assert.True(t, IsInvalidData(err))
}

func TestCompetitorSetMergeOrder(t *testing.T) {
	set, john, fred, bill := fixtureSet(t)
	assert.Equal(t, []*Competitor{john, bill, fred}, set.Competitors())
	assert.Equal(t, 3, set.NumControls())
}

func TestCompetitorSetMergesMultipleClasses(t *testing.T) {
	john := mustCompetitor(CompetitorFromCumTimes(1, "John", "Smith", "ABC", 36000, times(0, 65, 184, 229, 301)))
	bill := mustCompetitor(CompetitorFromCumTimes(1, "Bill", "Jones", "GHI", 39720, times(0, 72, 200, 277, 381)))

	classA, err := NewClass("A", 3, []*Competitor{bill})
	require.NoError(t, err)
	classB, err := NewClass("B", 3, []*Competitor{john})
	require.NoError(t, err)
	set, err := NewCompetitorSet([]*Class{classA, classB})
	require.NoError(t, err)

	assert.Equal(t, []*Competitor{john, bill}, set.Competitors())
	assert.Equal(t, []string{"A", "B"}, set.ClassNames())
}

func TestComputeRanks(t *testing.T) {
	_, john, fred, bill := fixtureSet(t)

	// Splits: john 65,119,45,72; fred 77,114,291,79; bill 72,128,77,104.
	assert.Equal(t, Rank(1), john.SplitRankTo(1))
	assert.Equal(t, Rank(3), fred.SplitRankTo(1))
	assert.Equal(t, Rank(2), bill.SplitRankTo(1))

	assert.Equal(t, Rank(2), john.SplitRankTo(2))
	assert.Equal(t, Rank(1), fred.SplitRankTo(2))
	assert.Equal(t, Rank(3), bill.SplitRankTo(2))

	assert.Equal(t, Rank(1), john.SplitRankTo(3))
	assert.Equal(t, Rank(3), fred.SplitRankTo(3))
	assert.Equal(t, Rank(2), bill.SplitRankTo(3))

	assert.Equal(t, Rank(1), john.CumulativeRankTo(2))
	assert.Equal(t, Rank(2), fred.CumulativeRankTo(2))
	assert.Equal(t, Rank(3), bill.CumulativeRankTo(2))

	assert.Equal(t, Rank(1), john.CumulativeRankTo(4))
	assert.Equal(t, Rank(3), fred.CumulativeRankTo(4))
	assert.Equal(t, Rank(2), bill.CumulativeRankTo(4))
}

func TestComputeRanksCumulativePropagation(t *testing.T) {
	john := mustCompetitor(CompetitorFromCumTimes(1, "John", "Smith", "ABC", 36000, times(0, 65, 184, 229, 301)))
	fred := mustCompetitor(CompetitorFromCumTimes(2, "Fred", "Baker", "DEF", 39600, []TimeValue{
		Seconds(0), Seconds(77), MissingTime(), MissingTime(), MissingTime(),
	}))

	class, err := NewClass("Test", 3, []*Competitor{john, fred})
	require.NoError(t, err)
	_, err = NewCompetitorSet([]*Class{class})
	require.NoError(t, err)

	assert.Equal(t, Rank(2), fred.CumulativeRankTo(1))
	assert.False(t, fred.CumulativeRankTo(2).IsKnown())
	assert.False(t, fred.CumulativeRankTo(3).IsKnown())
	assert.False(t, fred.CumulativeRankTo(4).IsKnown())
	assert.Equal(t, Rank(1), john.CumulativeRankTo(4))
}

func TestTimeLossAt(t *testing.T) {
	_, john, fred, bill := fixtureSet(t)

	// Fastest splits per leg: 65, 114, 45, 72.
	assert.Equal(t, Seconds(0), john.TimeLossAt(1))
	assert.Equal(t, Seconds(12), fred.TimeLossAt(1))
	assert.Equal(t, Seconds(246), fred.TimeLossAt(3))
	assert.Equal(t, Seconds(32), bill.TimeLossAt(4))
}

func TestWinnerCumTimes(t *testing.T) {
	set, _, _, _ := fixtureSet(t)
	assert.Equal(t, times(0, 65, 184, 229, 301), set.WinnerCumTimes())
}

func TestWinnerCumTimesNilWhenWinnerMispunched(t *testing.T) {
	fred := mustCompetitor(CompetitorFromCumTimes(1, "Fred", "Baker", "DEF", 39600, []TimeValue{
		Seconds(0), Seconds(77), MissingTime(),
	}))
	class, err := NewClass("Test", 1, []*Competitor{fred})
	require.NoError(t, err)
	set, err := NewCompetitorSet([]*Class{class})
	require.NoError(t, err)

	assert.Nil(t, set.WinnerCumTimes())
}

func TestWinnerCumTimesNilForEmptySet(t *testing.T) {
	class, err := NewClass("Test", 3, nil)
	require.NoError(t, err)
	set, err := NewCompetitorSet([]*Class{class})
	require.NoError(t, err)
	assert.Nil(t, set.WinnerCumTimes())
}

func TestFastestCumTimes(t *testing.T) {
	set, _, _, _ := fixtureSet(t)
	assert.Equal(t, times(0, 65, 179, 224, 296), set.FastestCumTimes())
}

func TestFastestCumTimesPlusPercentage(t *testing.T) {
	set, _, _, _ := fixtureSet(t)
	fastest := set.FastestCumTimesPlusPercentage(5)
	require.Len(t, fastest, 5)
	expected := []float64{0, 68.25, 187.95, 235.2, 310.8}
	for i, want := range expected {
		assert.InDelta(t, want, fastest[i].Value(), 1e-9, "control %d", i)
	}
}

func TestFastestCumTimesNilWhenLegHasNoTimes(t *testing.T) {
	a := mustCompetitor(CompetitorFromCumTimes(1, "a", "a", "c", 0, []TimeValue{
		Seconds(0), Seconds(65), MissingTime(), MissingTime(),
	}))
	b := mustCompetitor(CompetitorFromCumTimes(2, "b", "b", "c", 0, []TimeValue{
		Seconds(0), Seconds(72), MissingTime(), MissingTime(),
	}))
	class, err := NewClass("Test", 2, []*Competitor{a, b})
	require.NoError(t, err)
	set, err := NewCompetitorSet([]*Class{class})
	require.NoError(t, err)

	assert.Nil(t, set.FastestCumTimes(), "a leg nobody completed leaves no composite")
}

func TestFastestSplitsTo(t *testing.T) {
	set, _, _, _ := fixtureSet(t)

	splits, err := set.FastestSplitsTo(2, 3)
	require.NoError(t, err)
	require.Len(t, splits, 2)
	assert.Equal(t, FastestSplit{Name: "John Smith", Split: Seconds(45)}, splits[0])
	assert.Equal(t, FastestSplit{Name: "Bill Jones", Split: Seconds(77)}, splits[1])

	// Asking for more entries than competitors returns what there is.
	splits, err = set.FastestSplitsTo(10, 3)
	require.NoError(t, err)
	assert.Len(t, splits, 3)
}

func TestFastestSplitsToExcludesNonFinishers(t *testing.T) {
	finisher := mustCompetitor(CompetitorFromCumTimes(1, "a", "a", "c", 0, times(0, 65, 184)))
	mispunched := mustCompetitor(CompetitorFromCumTimes(2, "b", "b", "c", 0, []TimeValue{
		Seconds(0), Seconds(30), MissingTime(),
	}))
	class, err := NewClass("Test", 1, []*Competitor{finisher, mispunched})
	require.NoError(t, err)
	set, err := NewCompetitorSet([]*Class{class})
	require.NoError(t, err)

	splits, err := set.FastestSplitsTo(5, 1)
	require.NoError(t, err)
	require.Len(t, splits, 1, "a non-finisher has no fastest-split entry even with a faster leg")
	assert.Equal(t, "a a", splits[0].Name)
}

func TestFastestSplitsToErrors(t *testing.T) {
	set, _, _, _ := fixtureSet(t)

	_, err := set.FastestSplitsTo(0, 2)
	assert.True(t, IsInvalidData(err))
	_, err = set.FastestSplitsTo(-1, 2)
	assert.True(t, IsInvalidData(err))
	_, err = set.FastestSplitsTo(2, 0)
	assert.True(t, IsInvalidData(err))
	_, err = set.FastestSplitsTo(2, 5)
	assert.True(t, IsInvalidData(err))
}

func TestChartDataSplitsGraph(t *testing.T) {
	set, _, _, _ := fixtureSet(t)
	ref := set.FastestCumTimes()

	// Index 1 in merged order is Bill.
	data, err := set.ChartData(ref, []int{1}, SplitsGraph)
	require.NoError(t, err)

	assert.Equal(t, 3, data.NumControls)
	assert.Equal(t, []string{"Bill Jones"}, data.CompetitorNames)
	assert.Equal(t, [2]float64{0, 296}, data.XExtent)
	assert.Equal(t, [2]float64{0, 85}, data.YExtent)
	require.Len(t, data.DataColumns, 5)
	assert.Equal(t, 65.0, data.DataColumns[1].X)
	assert.Equal(t, []TimeValue{Seconds(7)}, data.DataColumns[1].Ys)
	assert.Equal(t, []TimeValue{Seconds(85)}, data.DataColumns[4].Ys)
}

func TestChartDataRaceGraphAddsStartTime(t *testing.T) {
	set, _, _, _ := fixtureSet(t)
	ref := set.FastestCumTimes()

	data, err := set.ChartData(ref, []int{0}, RaceGraph)
	require.NoError(t, err)
	assert.Equal(t, []TimeValue{Seconds(36000)}, data.DataColumns[0].Ys)
}

func TestChartDataEmptySelectionFallsBackToFirstCompetitor(t *testing.T) {
	set, _, _, _ := fixtureSet(t)
	ref := set.FastestCumTimes()

	data, err := set.ChartData(ref, []int{}, SplitsGraph)
	require.NoError(t, err)
	assert.Empty(t, data.CompetitorNames)
	// John adjusted against the fastest composite: 0, 0, 5, 5, 5.
	assert.Equal(t, [2]float64{0, 5}, data.YExtent)
}

func TestChartDataExpandsDegenerateYExtent(t *testing.T) {
	set, john, _, _ := fixtureSet(t)

	// Using John's own times as the reference flattens his line to zero.
	data, err := set.ChartData(john.AllCumulativeTimes(), []int{0}, SplitsGraph)
	require.NoError(t, err)
	assert.Equal(t, [2]float64{0, 1}, data.YExtent)
}

func TestChartDataErrors(t *testing.T) {
	set, _, _, _ := fixtureSet(t)
	ref := set.FastestCumTimes()

	_, err := set.ChartData(nil, []int{0}, SplitsGraph)
	assert.ErrorIs(t, err, ErrMissingArgument)
	_, err = set.ChartData(ref, nil, SplitsGraph)
	assert.ErrorIs(t, err, ErrMissingArgument)
	_, err = set.ChartData(ref, []int{0}, nil)
	assert.ErrorIs(t, err, ErrMissingArgument)
	_, err = set.ChartData(ref, []int{7}, SplitsGraph)
	assert.True(t, IsInvalidData(err))
}

func TestChartTypeByName(t *testing.T) {
	for _, name := range []string{"splits-graph", "race-graph", "percent-behind"} {
		ct, ok := ChartTypeByName(name)
		assert.True(t, ok, name)
		assert.Equal(t, name, ct.Name)
	}
	_, ok := ChartTypeByName("bogus")
	assert.False(t, ok)
}
