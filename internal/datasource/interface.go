package datasource

import (
	"context"
	"fmt"
	"time"
)

// ResultsSource defines the interface for fetching event results from a
// remote provider serving the canonical results-document format.
type ResultsSource interface {
	// FetchEvent retrieves the full results document for one event
	FetchEvent(ctx context.Context, eventRef string) (*EventDocument, error)

	// Name returns the name of the results source
	Name() string

	// IsEnabled returns whether this source is currently enabled
	IsEnabled() bool
}

// EventDocument is the canonical wire format for one event's results
type EventDocument struct {
	Name    string          `json:"name"`
	Date    time.Time       `json:"date"`
	Venue   string          `json:"venue"`
	Status  string          `json:"status"`
	Classes []ClassDocument `json:"classes"`
}

// ClassDocument is one class within a results document
type ClassDocument struct {
	Name        string               `json:"name"`
	NumControls int                  `json:"num_controls"`
	Competitors []CompetitorDocument `json:"competitors"`
}

// CompetitorDocument is one competitor row within a results document.
// Cumulative times are seconds with null for a mispunched control.
type CompetitorDocument struct {
	Order           int        `json:"order"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	Club            string     `json:"club"`
	StartTime       float64    `json:"start_time"`
	CumulativeTimes []*float64 `json:"cumulative_times"`
	NonStarter      bool       `json:"non_starter,omitempty"`
	NonFinisher     bool       `json:"non_finisher,omitempty"`
	Disqualified    bool       `json:"disqualified,omitempty"`
	OverMaxTime     bool       `json:"over_max_time,omitempty"`
	NonCompetitive  bool       `json:"non_competitive,omitempty"`
}

// Error codes for data source failures
const (
	ErrCodeNetworkError = "network_error"
	ErrCodeBadPayload   = "bad_payload"
	ErrCodeDisabled     = "source_disabled"
)

// SourceError wraps a failure talking to a results source
type SourceError struct {
	Source string
	Code   string
	Msg    string
	Err    error
}

// NewSourceError creates a new source error
func NewSourceError(source, code, msg string, err error) *SourceError {
	return &SourceError{Source: source, Code: code, Msg: msg, Err: err}
}

func (e *SourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Source, e.Code, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Source, e.Code, e.Msg)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}
