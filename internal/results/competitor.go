package results

// Control indexes run from 0 (the start) through NumControls+1 (the finish).
// Cumulative times are indexed by control, split times by the leg that ends
// at the control.

// Competitor holds one competitor's raw and derived timing data, together
// with the rank annotations attached by the CompetitorSet that owns it.
type Competitor struct {
	// Order is the competitor's position in the original input, used as the
	// final comparison tie-break.
	Order     int
	FirstName string
	LastName  string
	Club      string

	// StartTime is in seconds since the event reference epoch.
	StartTime float64

	NonStarter     bool
	NonFinisher    bool
	Disqualified   bool
	OverMaxTime    bool
	NonCompetitive bool

	cumTimes   []TimeValue
	splitTimes []TimeValue
	totalTime  TimeValue

	splitRanks []RankValue
	cumRanks   []RankValue
	timeLosses []TimeValue
}

// CompetitorFromCumTimes constructs a competitor from cumulative times and
// derives the split times. The sequence must be non-empty, start at a known
// zero and be non-decreasing where defined. A missing entry makes every
// later entry missing: a competitor cannot recover a known cumulative time
// after an unknown control.
func CompetitorFromCumTimes(order int, firstName, lastName, club string, startTime float64, cumTimes []TimeValue) (*Competitor, error) {
	if cumTimes == nil {
		return nil, ErrMissingArgument
	}
	if len(cumTimes) < 2 {
		return nil, invalidDataf("cumulative times must cover at least the start and the finish, got %d entries", len(cumTimes))
	}
	if !cumTimes[0].IsKnown() || cumTimes[0].Value() != 0 {
		return nil, invalidDataf("first cumulative time must be zero, got %v", cumTimes[0])
	}

	normalized := make([]TimeValue, len(cumTimes))
	seenMissing := false
	for i, cum := range cumTimes {
		if cum.IsInvalid() {
			return nil, invalidDataf("cumulative time to control %d is invalid", i)
		}
		if seenMissing || cum.IsMissing() {
			seenMissing = true
			normalized[i] = MissingTime()
			continue
		}
		if i > 0 && normalized[i-1].IsKnown() && cum.Value() < normalized[i-1].Value() {
			return nil, invalidDataf("cumulative time to control %d (%v) is before the previous control (%v)", i, cum, normalized[i-1])
		}
		normalized[i] = cum
	}

	splits := make([]TimeValue, len(normalized)-1)
	for i := range splits {
		splits[i] = normalized[i+1].Sub(normalized[i])
	}

	return newCompetitor(order, firstName, lastName, club, startTime, normalized, splits), nil
}

// CompetitorFromSplitTimes constructs a competitor from per-leg split times
// and derives the cumulative times. A missing split propagates: every
// cumulative time from that control onwards is missing even when later raw
// splits are present.
func CompetitorFromSplitTimes(order int, firstName, lastName, club string, startTime float64, splitTimes []TimeValue) (*Competitor, error) {
	if splitTimes == nil {
		return nil, ErrMissingArgument
	}
	if len(splitTimes) == 0 {
		return nil, invalidDataf("split times must not be empty")
	}

	cumTimes := make([]TimeValue, len(splitTimes)+1)
	cumTimes[0] = Seconds(0)
	for i, split := range splitTimes {
		if split.IsInvalid() {
			return nil, invalidDataf("split time to control %d is invalid", i+1)
		}
		if split.IsKnown() && split.Value() < 0 {
			return nil, invalidDataf("split time to control %d is negative (%v)", i+1, split)
		}
		cumTimes[i+1] = cumTimes[i].Add(split)
	}

	// Re-derive the splits so that splits following a mispunch read as
	// missing, matching the cumulative sequence.
	splits := make([]TimeValue, len(splitTimes))
	for i := range splits {
		splits[i] = cumTimes[i+1].Sub(cumTimes[i])
	}

	return newCompetitor(order, firstName, lastName, club, startTime, cumTimes, splits), nil
}

func newCompetitor(order int, firstName, lastName, club string, startTime float64, cumTimes, splitTimes []TimeValue) *Competitor {
	return &Competitor{
		Order:      order,
		FirstName:  firstName,
		LastName:   lastName,
		Club:       club,
		StartTime:  startTime,
		cumTimes:   cumTimes,
		splitTimes: splitTimes,
		totalTime:  cumTimes[len(cumTimes)-1],
	}
}

// Name returns the competitor's full name.
func (c *Competitor) Name() string {
	if c.FirstName == "" {
		return c.LastName
	}
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// NumControls returns the number of controls on the course, excluding the
// start and the finish.
func (c *Competitor) NumControls() int {
	return len(c.cumTimes) - 2
}

// TotalTime returns the cumulative time to the finish, or Missing for a
// competitor that mispunched or did not finish.
func (c *Competitor) TotalTime() TimeValue {
	return c.totalTime
}

// Completed reports whether the competitor has a known finish time.
func (c *Competitor) Completed() bool {
	return c.totalTime.IsKnown()
}

// SplitTimeTo returns the split time on the leg ending at the given control.
// Control 0 is the start and always has a zero split. Out-of-range controls
// yield Missing.
func (c *Competitor) SplitTimeTo(controlIdx int) TimeValue {
	if controlIdx == 0 {
		return Seconds(0)
	}
	if controlIdx < 0 || controlIdx > len(c.splitTimes) {
		return MissingTime()
	}
	return c.splitTimes[controlIdx-1]
}

// CumulativeTimeTo returns the cumulative time to the given control, or
// Missing for an out-of-range control.
func (c *Competitor) CumulativeTimeTo(controlIdx int) TimeValue {
	if controlIdx < 0 || controlIdx >= len(c.cumTimes) {
		return MissingTime()
	}
	return c.cumTimes[controlIdx]
}

// AllCumulativeTimes returns a copy of the full cumulative-time sequence.
func (c *Competitor) AllCumulativeTimes() []TimeValue {
	times := make([]TimeValue, len(c.cumTimes))
	copy(times, c.cumTimes)
	return times
}

// AllSplitTimes returns a copy of the full split-time sequence.
func (c *Competitor) AllSplitTimes() []TimeValue {
	times := make([]TimeValue, len(c.splitTimes))
	copy(times, c.splitTimes)
	return times
}

func (c *Competitor) validateReference(referenceCumTimes []TimeValue) error {
	if referenceCumTimes == nil {
		return ErrMissingArgument
	}
	if len(referenceCumTimes) != len(c.cumTimes) {
		return invalidDataf("reference has %d cumulative times, competitor has %d", len(referenceCumTimes), len(c.cumTimes))
	}
	for i, ref := range referenceCumTimes {
		if !ref.IsKnown() {
			return invalidDataf("reference cumulative time to control %d is %v", i, ref)
		}
	}
	return nil
}

// CumTimesAdjustedToReference returns, for each control, the competitor's
// cumulative time minus the reference's. The reference must be fully known;
// the competitor's own mispunches propagate into the result.
func (c *Competitor) CumTimesAdjustedToReference(referenceCumTimes []TimeValue) ([]TimeValue, error) {
	if err := c.validateReference(referenceCumTimes); err != nil {
		return nil, err
	}
	adjusted := make([]TimeValue, len(c.cumTimes))
	for i, cum := range c.cumTimes {
		adjusted[i] = cum.Sub(referenceCumTimes[i])
	}
	return adjusted, nil
}

// CumTimesAdjustedToReferenceWithStartAdded is CumTimesAdjustedToReference
// with the competitor's start time added onto every known entry, as used by
// the race graph.
func (c *Competitor) CumTimesAdjustedToReferenceWithStartAdded(referenceCumTimes []TimeValue) ([]TimeValue, error) {
	adjusted, err := c.CumTimesAdjustedToReference(referenceCumTimes)
	if err != nil {
		return nil, err
	}
	for i, t := range adjusted {
		adjusted[i] = t.AddSeconds(c.StartTime)
	}
	return adjusted, nil
}

// SplitPercentsBehindReferenceCumTimes returns, per control, the
// competitor's split as a percentage behind the reference's split on the
// same leg. A zero reference split makes the percentage Invalid rather than
// letting the division produce NaN.
func (c *Competitor) SplitPercentsBehindReferenceCumTimes(referenceCumTimes []TimeValue) ([]TimeValue, error) {
	if err := c.validateReference(referenceCumTimes); err != nil {
		return nil, err
	}
	percents := make([]TimeValue, len(c.cumTimes))
	percents[0] = Seconds(0)
	for i, split := range c.splitTimes {
		if !split.IsKnown() {
			percents[i+1] = split
			continue
		}
		refSplit := referenceCumTimes[i+1].Value() - referenceCumTimes[i].Value()
		if refSplit == 0 {
			percents[i+1] = InvalidTime()
			continue
		}
		percents[i+1] = Seconds(100 * (split.Value() - refSplit) / refSplit)
	}
	return percents, nil
}

// setSplitAndCumulativeRanks attaches the ranks computed across the whole
// set. Called once per CompetitorSet construction.
func (c *Competitor) setSplitAndCumulativeRanks(splitRanks, cumRanks []RankValue) {
	c.splitRanks = splitRanks
	c.cumRanks = cumRanks
}

// SplitRankTo returns the competitor's rank on the leg ending at the given
// control, among all competitors in the set.
func (c *Competitor) SplitRankTo(controlIdx int) RankValue {
	if c.splitRanks == nil || controlIdx < 1 || controlIdx > len(c.splitRanks) {
		return MissingRank()
	}
	return c.splitRanks[controlIdx-1]
}

// CumulativeRankTo returns the competitor's rank on cumulative time to the
// given control, among all competitors in the set.
func (c *Competitor) CumulativeRankTo(controlIdx int) RankValue {
	if c.cumRanks == nil || controlIdx < 1 || controlIdx > len(c.cumRanks) {
		return MissingRank()
	}
	return c.cumRanks[controlIdx-1]
}

// determineTimeLosses computes, per leg, how far the competitor's split is
// behind the fastest split recorded by anyone in the set.
func (c *Competitor) determineTimeLosses(fastestSplits []TimeValue) {
	losses := make([]TimeValue, len(c.splitTimes))
	for i, split := range c.splitTimes {
		losses[i] = split.Sub(fastestSplits[i])
	}
	c.timeLosses = losses
}

// TimeLossAt returns the competitor's time loss on the leg ending at the
// given control, or Missing if the losses have not been computed, the split
// is unknown, or the control is out of range.
func (c *Competitor) TimeLossAt(controlIdx int) TimeValue {
	if c.timeLosses == nil || controlIdx < 1 || controlIdx > len(c.timeLosses) {
		return MissingTime()
	}
	return c.timeLosses[controlIdx-1]
}

// CompareCompetitors orders two competitors: completed before non-completed,
// then ascending total time, then ascending input order. It returns a
// negative number, zero or a positive number as a sorts before, equal to or
// after b.
func CompareCompetitors(a, b *Competitor) int {
	switch {
	case a.Completed() && b.Completed():
		if a.totalTime.Value() != b.totalTime.Value() {
			if a.totalTime.Value() < b.totalTime.Value() {
				return -1
			}
			return 1
		}
		return a.Order - b.Order
	case a.Completed():
		return -1
	case b.Completed():
		return 1
	default:
		return a.Order - b.Order
	}
}

// Crosses reports whether two competitors' race-graph lines cross: whether
// their start-time-adjusted cumulative times change relative order at some
// pair of controls where both times are known.
func Crosses(a, b *Competitor) bool {
	if len(a.cumTimes) != len(b.cumTimes) {
		return false
	}
	anyAhead, anyBehind := false, false
	for i := range a.cumTimes {
		if !a.cumTimes[i].IsKnown() || !b.cumTimes[i].IsKnown() {
			continue
		}
		diff := (a.StartTime + a.cumTimes[i].Value()) - (b.StartTime + b.cumTimes[i].Value())
		if diff < 0 {
			anyAhead = true
		} else if diff > 0 {
			anyBehind = true
		}
	}
	return anyAhead && anyBehind
}
