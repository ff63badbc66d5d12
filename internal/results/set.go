package results

import "sort"

// Class is a group of competitors sharing one control layout.
type Class struct {
	Name        string
	NumControls int
	Competitors []*Competitor
}

// NewClass creates a class, checking every competitor against the class's
// control count.
func NewClass(name string, numControls int, competitors []*Competitor) (*Class, error) {
	for _, comp := range competitors {
		if comp.NumControls() != numControls {
			return nil, invalidDataf("competitor %q has %d controls, class %q has %d", comp.Name(), comp.NumControls(), name, numControls)
		}
	}
	return &Class{Name: name, NumControls: numControls, Competitors: competitors}, nil
}

// CompetitorSet merges the competitors of one or more classes sharing a
// control count, keeps them ordered by CompareCompetitors and carries the
// ranks computed across the whole merged field.
type CompetitorSet struct {
	classes     []*Class
	competitors []*Competitor
	numControls int
}

// NewCompetitorSet merges the given classes. Construction fails on an empty
// class list or on classes that disagree on control count; ranks and time
// losses are computed across the merged field before the set is returned.
func NewCompetitorSet(classes []*Class) (*CompetitorSet, error) {
	if classes == nil {
		return nil, ErrMissingArgument
	}
	if len(classes) == 0 {
		return nil, invalidDataf("cannot create a competitor set from an empty list of classes")
	}

	numControls := classes[0].NumControls
	var merged []*Competitor
	for _, class := range classes {
		if class.NumControls != numControls {
			return nil, invalidDataf("class %q has %d controls, class %q has %d", class.Name, class.NumControls, classes[0].Name, numControls)
		}
		merged = append(merged, class.Competitors...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return CompareCompetitors(merged[i], merged[j]) < 0
	})

	set := &CompetitorSet{
		classes:     classes,
		competitors: merged,
		numControls: numControls,
	}
	set.computeRanks()
	return set, nil
}

// NumControls returns the control count shared by all member classes.
func (s *CompetitorSet) NumControls() int {
	return s.numControls
}

// NumCompetitors returns the size of the merged field.
func (s *CompetitorSet) NumCompetitors() int {
	return len(s.competitors)
}

// Competitors returns a copy of the merged, comparator-ordered competitor
// list.
func (s *CompetitorSet) Competitors() []*Competitor {
	comps := make([]*Competitor, len(s.competitors))
	copy(comps, s.competitors)
	return comps
}

// ClassNames returns the names of the member classes in order.
func (s *CompetitorSet) ClassNames() []string {
	names := make([]string, len(s.classes))
	for i, class := range s.classes {
		names[i] = class.Name
	}
	return names
}

// computeRanks attaches split and cumulative ranks, and time losses against
// the fastest splits, onto every competitor. Cumulative ranking propagates:
// once a competitor's cumulative rank is missing at a control it stays
// missing at every later control, whatever the raw cumulative times say.
func (s *CompetitorSet) computeRanks() {
	numLegs := s.numControls + 1
	splitRanks := make([][]RankValue, len(s.competitors))
	cumRanks := make([][]RankValue, len(s.competitors))
	for i := range s.competitors {
		splitRanks[i] = make([]RankValue, 0, numLegs)
		cumRanks[i] = make([]RankValue, 0, numLegs)
	}

	fastestSplits := make([]TimeValue, numLegs)
	for control := 1; control <= numLegs; control++ {
		splits := make([]TimeValue, len(s.competitors))
		for i, comp := range s.competitors {
			splits[i] = comp.SplitTimeTo(control)
		}
		for i, rank := range Ranks(splits) {
			splitRanks[i] = append(splitRanks[i], rank)
		}
		fastestSplits[control-1] = fastestOf(splits)
	}

	lostRank := make([]bool, len(s.competitors))
	for control := 1; control <= numLegs; control++ {
		cums := make([]TimeValue, len(s.competitors))
		for i, comp := range s.competitors {
			if lostRank[i] {
				cums[i] = MissingTime()
			} else {
				cums[i] = comp.CumulativeTimeTo(control)
			}
		}
		for i, rank := range Ranks(cums) {
			cumRanks[i] = append(cumRanks[i], rank)
			if !rank.IsKnown() {
				lostRank[i] = true
			}
		}
	}

	for i, comp := range s.competitors {
		comp.setSplitAndCumulativeRanks(splitRanks[i], cumRanks[i])
		comp.determineTimeLosses(fastestSplits)
	}
}

func fastestOf(values []TimeValue) TimeValue {
	fastest := MissingTime()
	for _, v := range values {
		if !v.IsKnown() {
			continue
		}
		if !fastest.IsKnown() || v.Value() < fastest.Value() {
			fastest = v
		}
	}
	return fastest
}

// WinnerCumTimes returns the cumulative times of the best-ranked competitor,
// or nil if the set is empty or its first competitor did not complete.
func (s *CompetitorSet) WinnerCumTimes() []TimeValue {
	if len(s.competitors) == 0 || !s.competitors[0].Completed() {
		return nil
	}
	return s.competitors[0].AllCumulativeTimes()
}

// FastestCumTimes returns the cumulative times of the imaginary competitor
// built from the fastest split on every leg, or nil if some leg has no
// recorded split at all.
func (s *CompetitorSet) FastestCumTimes() []TimeValue {
	return s.FastestCumTimesPlusPercentage(0)
}

// FastestCumTimesPlusPercentage is FastestCumTimes with every fastest split
// inflated by the given percentage before accumulating.
func (s *CompetitorSet) FastestCumTimesPlusPercentage(percent float64) []TimeValue {
	ratio := 1 + percent/100
	cumTimes := make([]TimeValue, s.numControls+2)
	cumTimes[0] = Seconds(0)
	for control := 1; control <= s.numControls+1; control++ {
		fastest := MissingTime()
		for _, comp := range s.competitors {
			split := comp.SplitTimeTo(control)
			if !split.IsKnown() {
				continue
			}
			if !fastest.IsKnown() || split.Value() < fastest.Value() {
				fastest = split
			}
		}
		if !fastest.IsKnown() {
			// No-one recorded this leg, so no composite is possible.
			return nil
		}
		cumTimes[control] = cumTimes[control-1].AddSeconds(fastest.Value() * ratio)
	}
	return cumTimes
}

// FastestSplit is one entry of a fastest-splits leaderboard for a single
// leg.
type FastestSplit struct {
	Name  string    `json:"name"`
	Split TimeValue `json:"split"`
}

// FastestSplitsTo returns up to numSplits (split, name) pairs for completed
// competitors on the leg ending at the given control, ascending by split
// time with total time as the tie-break.
func (s *CompetitorSet) FastestSplitsTo(numSplits, controlIdx int) ([]FastestSplit, error) {
	if numSplits <= 0 {
		return nil, invalidDataf("number of splits must be positive, got %d", numSplits)
	}
	if controlIdx < 1 || controlIdx > s.numControls+1 {
		return nil, invalidDataf("control index %d out of range [1, %d]", controlIdx, s.numControls+1)
	}

	var entries []*Competitor
	for _, comp := range s.competitors {
		if comp.Completed() && comp.SplitTimeTo(controlIdx).IsKnown() {
			entries = append(entries, comp)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].SplitTimeTo(controlIdx), entries[j].SplitTimeTo(controlIdx)
		if a.Value() != b.Value() {
			return a.Value() < b.Value()
		}
		return entries[i].TotalTime().Value() < entries[j].TotalTime().Value()
	})

	if len(entries) > numSplits {
		entries = entries[:numSplits]
	}
	splits := make([]FastestSplit, len(entries))
	for i, comp := range entries {
		splits[i] = FastestSplit{Name: comp.Name(), Split: comp.SplitTimeTo(controlIdx)}
	}
	return splits, nil
}
