package models

import (
	"time"

	"github.com/google/uuid"
)

// EventStatus represents the lifecycle state of an event's results
type EventStatus string

const (
	EventStatusScheduled   EventStatus = "scheduled"
	EventStatusLive        EventStatus = "live"
	EventStatusProvisional EventStatus = "provisional"
	EventStatusFinal       EventStatus = "final"
)

// Event represents one orienteering event whose results are served
type Event struct {
	ID        uuid.UUID    `db:"id" json:"id" validate:"required,uuid4"`
	Name      string       `db:"name" json:"name" validate:"required"`
	Date      time.Time    `db:"date" json:"date" validate:"required"`
	Venue     string       `db:"venue" json:"venue"`
	Source    string       `db:"source_name" json:"source,omitempty"`
	SourceRef string       `db:"source_ref" json:"source_ref,omitempty"`
	Status    EventStatus  `db:"status" json:"status" validate:"required,oneof=scheduled live provisional final"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt time.Time    `db:"updated_at" json:"updated_at"`
	Classes   []EventClass `db:"-" json:"classes,omitempty"`
}

// IsLive checks if the event's results may still change
func (e *Event) IsLive() bool {
	return e.Status == EventStatusLive || e.Status == EventStatusProvisional
}

// EventClass represents an age class / course grouping within an event.
// Every competitor in the class runs the same control layout.
type EventClass struct {
	ID          uuid.UUID          `db:"id" json:"id" validate:"required,uuid4"`
	EventID     uuid.UUID          `db:"event_id" json:"event_id" validate:"required,uuid4"`
	Name        string             `db:"name" json:"name" validate:"required"`
	NumControls int                `db:"num_controls" json:"num_controls" validate:"gte=0"`
	CreatedAt   time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `db:"updated_at" json:"updated_at"`
	Competitors []CompetitorRecord `db:"-" json:"competitors,omitempty"`
}
