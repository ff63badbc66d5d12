package results

// ChartType supplies the per-competitor transform a chart draws from. The
// race graph adds each competitor's start time onto the adjusted series; the
// splits graph does not.
type ChartType struct {
	Name      string
	transform func(c *Competitor, referenceCumTimes []TimeValue) ([]TimeValue, error)
}

var (
	// SplitsGraph plots cumulative times adjusted to the reference.
	SplitsGraph = &ChartType{
		Name: "splits-graph",
		transform: func(c *Competitor, ref []TimeValue) ([]TimeValue, error) {
			return c.CumTimesAdjustedToReference(ref)
		},
	}

	// RaceGraph plots adjusted cumulative times on the absolute race clock.
	RaceGraph = &ChartType{
		Name: "race-graph",
		transform: func(c *Competitor, ref []TimeValue) ([]TimeValue, error) {
			return c.CumTimesAdjustedToReferenceWithStartAdded(ref)
		},
	}

	// PercentBehindGraph plots split percentages behind the reference.
	PercentBehindGraph = &ChartType{
		Name: "percent-behind",
		transform: func(c *Competitor, ref []TimeValue) ([]TimeValue, error) {
			return c.SplitPercentsBehindReferenceCumTimes(ref)
		},
	}
)

// ChartTypeByName resolves a chart type from its wire name.
func ChartTypeByName(name string) (*ChartType, bool) {
	switch name {
	case SplitsGraph.Name:
		return SplitsGraph, true
	case RaceGraph.Name:
		return RaceGraph, true
	case PercentBehindGraph.Name:
		return PercentBehindGraph, true
	default:
		return nil, false
	}
}

// ChartColumn is the data at one control: the reference time on the X axis
// and one transformed value per selected competitor.
type ChartColumn struct {
	X  float64     `json:"x"`
	Ys []TimeValue `json:"ys"`
}

// ChartData is everything a chart needs to draw the selected competitors.
type ChartData struct {
	DataColumns     []ChartColumn `json:"dataColumns"`
	XExtent         [2]float64    `json:"xExtent"`
	YExtent         [2]float64    `json:"yExtent"`
	NumControls     int           `json:"numControls"`
	CompetitorNames []string      `json:"competitorNames"`
}

// ChartData transforms every competitor against the reference and assembles
// the columns for the selected indexes. The Y extent covers selected
// competitors only, falling back to the first competitor when the selection
// is empty; a degenerate zero-height extent is expanded by 1.
func (s *CompetitorSet) ChartData(referenceCumTimes []TimeValue, currentIndexes []int, chartType *ChartType) (*ChartData, error) {
	if referenceCumTimes == nil || currentIndexes == nil || chartType == nil {
		return nil, ErrMissingArgument
	}
	if len(s.competitors) == 0 {
		return nil, invalidDataf("cannot compute chart data for an empty competitor set")
	}
	for _, idx := range currentIndexes {
		if idx < 0 || idx >= len(s.competitors) {
			return nil, invalidDataf("competitor index %d out of range [0, %d)", idx, len(s.competitors))
		}
	}

	competitorData := make([][]TimeValue, len(s.competitors))
	for i, comp := range s.competitors {
		data, err := chartType.transform(comp, referenceCumTimes)
		if err != nil {
			return nil, err
		}
		competitorData[i] = data
	}

	selectedData := make([][]TimeValue, len(currentIndexes))
	names := make([]string, len(currentIndexes))
	for i, idx := range currentIndexes {
		selectedData[i] = competitorData[idx]
		names[i] = s.competitors[idx].Name()
	}

	columns := make([]ChartColumn, len(referenceCumTimes))
	for controlIdx, ref := range referenceCumTimes {
		ys := make([]TimeValue, len(selectedData))
		for i, data := range selectedData {
			ys[i] = data[controlIdx]
		}
		columns[controlIdx] = ChartColumn{X: ref.Value(), Ys: ys}
	}

	extentData := selectedData
	if len(extentData) == 0 {
		extentData = competitorData[:1]
	}
	yExtent := extentOf(extentData)
	if yExtent[0] == yExtent[1] {
		yExtent[1]++
	}

	return &ChartData{
		DataColumns:     columns,
		XExtent:         [2]float64{referenceCumTimes[0].Value(), referenceCumTimes[len(referenceCumTimes)-1].Value()},
		YExtent:         yExtent,
		NumControls:     s.numControls,
		CompetitorNames: names,
	}, nil
}

func extentOf(series [][]TimeValue) [2]float64 {
	var extent [2]float64
	found := false
	for _, data := range series {
		for _, v := range data {
			if !v.IsKnown() {
				continue
			}
			if !found {
				extent = [2]float64{v.Value(), v.Value()}
				found = true
				continue
			}
			if v.Value() < extent[0] {
				extent[0] = v.Value()
			}
			if v.Value() > extent[1] {
				extent[1] = v.Value()
			}
		}
	}
	return extent
}
