// Package repository provides persistence for events, classes and competitor
// result rows.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/splitsight/internal/models"
)

// EventRepository defines operations on events and their classes
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.Event, error)
	GetLive(ctx context.Context) ([]*models.Event, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.EventStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CompetitorRepository defines operations on per-class competitor rows
type CompetitorRepository interface {
	CreateClass(ctx context.Context, class *models.EventClass) error
	GetClassesByEvent(ctx context.Context, eventID uuid.UUID) ([]models.EventClass, error)
	CreateCompetitors(ctx context.Context, competitors []models.CompetitorRecord) error
	GetCompetitorsByClass(ctx context.Context, classID uuid.UUID) ([]models.CompetitorRecord, error)
	ReplaceEventResults(ctx context.Context, eventID uuid.UUID, classes []models.EventClass) error
}
