// Package results implements the competitor timing model and ranking engine:
// competitors with cumulative and split times, tied ranks across a merged
// field, fastest-composite times, chart-ready series and the selection model
// that drives which competitors are visualized.
package results

import (
	"encoding/json"
	"fmt"
	"math"
)

type valueState uint8

const (
	stateKnown valueState = iota
	stateMissing
	stateInvalid
)

// TimeValue is a time in seconds that may also be Missing (an expected
// mispunch, which propagates through arithmetic) or Invalid (an unrankable
// numeric computation, which must be surfaced rather than folded into NaN).
type TimeValue struct {
	state valueState
	secs  float64
}

// Seconds returns a known time value.
func Seconds(secs float64) TimeValue {
	if math.IsNaN(secs) || math.IsInf(secs, 0) {
		return TimeValue{state: stateInvalid}
	}
	return TimeValue{state: stateKnown, secs: secs}
}

// MissingTime returns the value for a mispunched control.
func MissingTime() TimeValue {
	return TimeValue{state: stateMissing}
}

// InvalidTime returns the value for a failed numeric computation.
func InvalidTime() TimeValue {
	return TimeValue{state: stateInvalid}
}

// IsKnown reports whether the value holds an actual time.
func (t TimeValue) IsKnown() bool { return t.state == stateKnown }

// IsMissing reports whether the value represents a mispunch.
func (t TimeValue) IsMissing() bool { return t.state == stateMissing }

// IsInvalid reports whether the value came from an invalid computation.
func (t TimeValue) IsInvalid() bool { return t.state == stateInvalid }

// Value returns the time in seconds. It panics if the value is not known;
// callers check IsKnown first.
func (t TimeValue) Value() float64 {
	if t.state != stateKnown {
		panic("results: Value called on non-known TimeValue")
	}
	return t.secs
}

// Add returns t + other, propagating Missing and Invalid.
func (t TimeValue) Add(other TimeValue) TimeValue {
	if s, ok := combineStates(t, other); !ok {
		return TimeValue{state: s}
	}
	return Seconds(t.secs + other.secs)
}

// Sub returns t - other, propagating Missing and Invalid.
func (t TimeValue) Sub(other TimeValue) TimeValue {
	if s, ok := combineStates(t, other); !ok {
		return TimeValue{state: s}
	}
	return Seconds(t.secs - other.secs)
}

// AddSeconds returns t shifted by a known offset, propagating Missing and
// Invalid.
func (t TimeValue) AddSeconds(secs float64) TimeValue {
	if t.state != stateKnown {
		return t
	}
	return Seconds(t.secs + secs)
}

func combineStates(a, b TimeValue) (valueState, bool) {
	// Invalid dominates: it marks a computation failure that must not be
	// masked by a later mispunch.
	if a.state == stateInvalid || b.state == stateInvalid {
		return stateInvalid, false
	}
	if a.state == stateMissing || b.state == stateMissing {
		return stateMissing, false
	}
	return stateKnown, true
}

// String implements fmt.Stringer.
func (t TimeValue) String() string {
	switch t.state {
	case stateMissing:
		return "missing"
	case stateInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("%gs", t.secs)
	}
}

// MarshalJSON encodes a known value as a number and a missing value as null.
// Invalid values are a core-internal signal and refuse to serialize.
func (t TimeValue) MarshalJSON() ([]byte, error) {
	switch t.state {
	case stateMissing:
		return []byte("null"), nil
	case stateInvalid:
		return nil, fmt.Errorf("results: cannot serialize invalid time value")
	default:
		return json.Marshal(t.secs)
	}
}

// UnmarshalJSON decodes null as Missing and a number as Known.
func (t *TimeValue) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = MissingTime()
		return nil
	}
	var secs float64
	if err := json.Unmarshal(data, &secs); err != nil {
		return err
	}
	*t = Seconds(secs)
	return nil
}

// TimesFromPointers converts a nullable slice, as carried by storage and
// transport records, into time values.
func TimesFromPointers(values []*float64) []TimeValue {
	times := make([]TimeValue, len(values))
	for i, v := range values {
		if v == nil {
			times[i] = MissingTime()
		} else {
			times[i] = Seconds(*v)
		}
	}
	return times
}

// TimesToPointers converts time values back to the nullable-slice form.
// Invalid values have no pointer representation and map to nil as well.
func TimesToPointers(times []TimeValue) []*float64 {
	values := make([]*float64, len(times))
	for i, t := range times {
		if t.IsKnown() {
			secs := t.Value()
			values[i] = &secs
		}
	}
	return values
}
