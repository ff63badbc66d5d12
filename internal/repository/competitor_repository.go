package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/splitsight/internal/database"
	"github.com/yourusername/splitsight/internal/models"
)

const errScanCompetitor = "failed to scan competitor: %w"

// PostgresCompetitorRepository implements CompetitorRepository for PostgreSQL
type PostgresCompetitorRepository struct {
	db *database.DB
}

// NewPostgresCompetitorRepository creates a new competitor repository
func NewPostgresCompetitorRepository(db *database.DB) CompetitorRepository {
	return &PostgresCompetitorRepository{db: db}
}

// CreateClass inserts a new class
func (r *PostgresCompetitorRepository) CreateClass(ctx context.Context, class *models.EventClass) error {
	query := `
		INSERT INTO event_classes (id, event_id, name, num_controls)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.GetPool().Exec(ctx, query, class.ID, class.EventID, class.Name, class.NumControls)
	if err != nil {
		return fmt.Errorf("failed to create class: %w", err)
	}

	return nil
}

// GetClassesByEvent retrieves all classes of an event
func (r *PostgresCompetitorRepository) GetClassesByEvent(ctx context.Context, eventID uuid.UUID) ([]models.EventClass, error) {
	query := `
		SELECT id, event_id, name, num_controls, created_at, updated_at
		FROM event_classes
		WHERE event_id = $1
		ORDER BY name ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query classes: %w", err)
	}
	defer rows.Close()

	var classes []models.EventClass
	for rows.Next() {
		var class models.EventClass
		err := rows.Scan(&class.ID, &class.EventID, &class.Name, &class.NumControls, &class.CreatedAt, &class.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan class: %w", err)
		}
		classes = append(classes, class)
	}

	return classes, rows.Err()
}

// CreateCompetitors inserts a batch of competitor rows
func (r *PostgresCompetitorRepository) CreateCompetitors(ctx context.Context, competitors []models.CompetitorRecord) error {
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		return insertCompetitors(ctx, tx, competitors)
	})
}

func insertCompetitors(ctx context.Context, tx pgx.Tx, competitors []models.CompetitorRecord) error {
	query := `
		INSERT INTO competitors (
			id, class_id, start_order, first_name, last_name, club, start_time,
			cum_times, non_starter, non_finisher, disqualified, over_max_time, non_competitive
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	for i := range competitors {
		comp := &competitors[i]
		cumTimes, err := json.Marshal(comp.CumTimes)
		if err != nil {
			return fmt.Errorf("failed to encode cumulative times: %w", err)
		}

		_, err = tx.Exec(ctx, query,
			comp.ID, comp.ClassID, comp.Order, comp.FirstName, comp.LastName,
			comp.Club, comp.StartTime, cumTimes,
			comp.NonStarter, comp.NonFinisher, comp.Disqualified, comp.OverMaxTime, comp.NonCompetitive,
		)
		if err != nil {
			return fmt.Errorf("failed to create competitor %s: %w", comp.LastName, err)
		}
	}

	return nil
}

// GetCompetitorsByClass retrieves all competitor rows of a class in start order
func (r *PostgresCompetitorRepository) GetCompetitorsByClass(ctx context.Context, classID uuid.UUID) ([]models.CompetitorRecord, error) {
	query := `
		SELECT id, class_id, start_order, first_name, last_name, club, start_time,
		       cum_times, non_starter, non_finisher, disqualified, over_max_time,
		       non_competitive, created_at, updated_at
		FROM competitors
		WHERE class_id = $1
		ORDER BY start_order ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, classID)
	if err != nil {
		return nil, fmt.Errorf("failed to query competitors: %w", err)
	}
	defer rows.Close()

	var competitors []models.CompetitorRecord
	for rows.Next() {
		var comp models.CompetitorRecord
		var cumTimes []byte
		err := rows.Scan(
			&comp.ID, &comp.ClassID, &comp.Order, &comp.FirstName, &comp.LastName,
			&comp.Club, &comp.StartTime, &cumTimes,
			&comp.NonStarter, &comp.NonFinisher, &comp.Disqualified, &comp.OverMaxTime,
			&comp.NonCompetitive, &comp.CreatedAt, &comp.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanCompetitor, err)
		}
		if err := json.Unmarshal(cumTimes, &comp.CumTimes); err != nil {
			return nil, fmt.Errorf("failed to decode cumulative times: %w", err)
		}
		competitors = append(competitors, comp)
	}

	return competitors, rows.Err()
}

// ReplaceEventResults atomically replaces all classes and competitors of an
// event, as happens when a live event is re-fetched.
func (r *PostgresCompetitorRepository) ReplaceEventResults(ctx context.Context, eventID uuid.UUID, classes []models.EventClass) error {
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "DELETE FROM event_classes WHERE event_id = $1", eventID); err != nil {
			return fmt.Errorf("failed to clear previous results: %w", err)
		}

		classQuery := `
			INSERT INTO event_classes (id, event_id, name, num_controls)
			VALUES ($1, $2, $3, $4)
		`
		for i := range classes {
			class := &classes[i]
			if _, err := tx.Exec(ctx, classQuery, class.ID, eventID, class.Name, class.NumControls); err != nil {
				return fmt.Errorf("failed to create class %s: %w", class.Name, err)
			}
			if err := insertCompetitors(ctx, tx, class.Competitors); err != nil {
				return err
			}
		}

		if _, err := tx.Exec(ctx, "UPDATE events SET updated_at = NOW() WHERE id = $1", eventID); err != nil {
			return fmt.Errorf("failed to touch event: %w", err)
		}

		return nil
	})
}
