package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/splitsight/internal/results"
)

// CompetitorRecord represents one competitor's raw result row as stored and
// transported: cumulative times in seconds with null for a mispunched
// control. It is converted into a results.Competitor before any timing
// computation happens.
type CompetitorRecord struct {
	ID             uuid.UUID  `db:"id" json:"id" validate:"required,uuid4"`
	ClassID        uuid.UUID  `db:"class_id" json:"class_id" validate:"required,uuid4"`
	Order          int        `db:"start_order" json:"order" validate:"gte=0"`
	FirstName      string     `db:"first_name" json:"first_name"`
	LastName       string     `db:"last_name" json:"last_name" validate:"required"`
	Club           string     `db:"club" json:"club"`
	StartTime      float64    `db:"start_time" json:"start_time" validate:"gte=0"`
	CumTimes       []*float64 `db:"cum_times" json:"cumulative_times" validate:"required,min=2"`
	NonStarter     bool       `db:"non_starter" json:"non_starter"`
	NonFinisher    bool       `db:"non_finisher" json:"non_finisher"`
	Disqualified   bool       `db:"disqualified" json:"disqualified"`
	OverMaxTime    bool       `db:"over_max_time" json:"over_max_time"`
	NonCompetitive bool       `db:"non_competitive" json:"non_competitive"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// ToResults converts the record into the timing model's competitor form.
func (r *CompetitorRecord) ToResults() (*results.Competitor, error) {
	comp, err := results.CompetitorFromCumTimes(
		r.Order, r.FirstName, r.LastName, r.Club, r.StartTime,
		results.TimesFromPointers(r.CumTimes),
	)
	if err != nil {
		return nil, err
	}
	comp.NonStarter = r.NonStarter
	comp.NonFinisher = r.NonFinisher
	comp.Disqualified = r.Disqualified
	comp.OverMaxTime = r.OverMaxTime
	comp.NonCompetitive = r.NonCompetitive
	return comp, nil
}

// ToResultsClass converts a class and its competitor records into the timing
// model's class form.
func (c *EventClass) ToResultsClass() (*results.Class, error) {
	comps := make([]*results.Competitor, 0, len(c.Competitors))
	for i := range c.Competitors {
		comp, err := c.Competitors[i].ToResults()
		if err != nil {
			return nil, err
		}
		comps = append(comps, comp)
	}
	return results.NewClass(c.Name, c.NumControls, comps)
}
