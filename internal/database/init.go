package database

import (
	"context"
	"fmt"

	"github.com/yourusername/splitsight/internal/config"
)

// Schema creates the results tables if they do not exist yet. Cumulative
// times are stored as JSON so that null punches survive the round trip.
const Schema = `
CREATE TABLE IF NOT EXISTS events (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	date TIMESTAMPTZ NOT NULL,
	venue TEXT NOT NULL DEFAULT '',
	source_name TEXT NOT NULL DEFAULT '',
	source_ref TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'scheduled',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS event_classes (
	id UUID PRIMARY KEY,
	event_id UUID NOT NULL REFERENCES events(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	num_controls INT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (event_id, name)
);

CREATE TABLE IF NOT EXISTS competitors (
	id UUID PRIMARY KEY,
	class_id UUID NOT NULL REFERENCES event_classes(id) ON DELETE CASCADE,
	start_order INT NOT NULL,
	first_name TEXT NOT NULL DEFAULT '',
	last_name TEXT NOT NULL,
	club TEXT NOT NULL DEFAULT '',
	start_time DOUBLE PRECISION NOT NULL,
	cum_times JSONB NOT NULL,
	non_starter BOOLEAN NOT NULL DEFAULT FALSE,
	non_finisher BOOLEAN NOT NULL DEFAULT FALSE,
	disqualified BOOLEAN NOT NULL DEFAULT FALSE,
	over_max_time BOOLEAN NOT NULL DEFAULT FALSE,
	non_competitive BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_event_classes_event ON event_classes(event_id);
CREATE INDEX IF NOT EXISTS idx_competitors_class ON competitors(class_id);
`

// Initialize creates a database connection pool and ensures the schema exists
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if _, err := db.pool.Exec(ctx, Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return db, nil
}
