package service

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/splitsight/internal/datasource"
	"github.com/yourusername/splitsight/internal/metrics"
	"github.com/yourusername/splitsight/internal/models"
	"github.com/yourusername/splitsight/internal/repository"
)

// UpdateNotifier is told when an event's stored results have changed
type UpdateNotifier interface {
	NotifyEventUpdated(eventID uuid.UUID)
}

// IngestionService pulls results documents from sources and stores them
type IngestionService struct {
	sources     map[string]datasource.ResultsSource
	events      repository.EventRepository
	competitors repository.CompetitorRepository
	resultsSvc  *ResultsService
	validate    *validator.Validate
	logger      *logrus.Logger
	notifier    UpdateNotifier
}

// NewIngestionService creates an ingestion service over the given sources
func NewIngestionService(
	sources map[string]datasource.ResultsSource,
	events repository.EventRepository,
	competitors repository.CompetitorRepository,
	resultsSvc *ResultsService,
	logger *logrus.Logger,
	notifier UpdateNotifier,
) *IngestionService {
	validate := validator.New()
	// Let the uuid4 tags on model structs see uuid.UUID fields as strings
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if id, ok := field.Interface().(uuid.UUID); ok {
			return id.String()
		}
		return nil
	}, uuid.UUID{})

	return &IngestionService{
		sources:     sources,
		events:      events,
		competitors: competitors,
		resultsSvc:  resultsSvc,
		validate:    validate,
		logger:      logger,
		notifier:    notifier,
	}
}

// IngestEvent fetches one event from a source and stores it as a new event
func (s *IngestionService) IngestEvent(ctx context.Context, sourceName, eventRef string) (*models.Event, error) {
	doc, err := s.fetch(ctx, sourceName, eventRef)
	if err != nil {
		return nil, err
	}
	return s.IngestDocument(ctx, doc, sourceName, eventRef)
}

// IngestDocument stores an already-fetched results document as a new event.
// Used directly when loading a document from a file.
func (s *IngestionService) IngestDocument(ctx context.Context, doc *datasource.EventDocument, sourceName, eventRef string) (*models.Event, error) {
	start := time.Now()

	event, classes, err := s.toModels(doc, sourceName, eventRef)
	if err != nil {
		metrics.IngestionFailuresTotal.WithLabelValues(sourceName).Inc()
		return nil, err
	}

	if err := s.events.Create(ctx, event); err != nil {
		metrics.IngestionFailuresTotal.WithLabelValues(sourceName).Inc()
		return nil, err
	}
	if err := s.competitors.ReplaceEventResults(ctx, event.ID, classes); err != nil {
		metrics.IngestionFailuresTotal.WithLabelValues(sourceName).Inc()
		return nil, err
	}

	metrics.EventsIngestedTotal.Inc()
	metrics.IngestionDuration.Observe(time.Since(start).Seconds())
	s.logger.WithFields(logrus.Fields{
		"event_id": event.ID,
		"source":   sourceName,
		"classes":  len(classes),
	}).Info("Ingested event")

	if s.notifier != nil {
		s.notifier.NotifyEventUpdated(event.ID)
	}
	return event, nil
}

// RefreshEvent re-fetches a stored event from its source and replaces its
// results
func (s *IngestionService) RefreshEvent(ctx context.Context, event *models.Event) error {
	if event.Source == "" || event.SourceRef == "" {
		return fmt.Errorf("event %s has no source to refresh from", event.ID)
	}

	doc, err := s.fetch(ctx, event.Source, event.SourceRef)
	if err != nil {
		metrics.IngestionFailuresTotal.WithLabelValues(event.Source).Inc()
		return err
	}

	_, classes, err := s.toModels(doc, event.Source, event.SourceRef)
	if err != nil {
		metrics.IngestionFailuresTotal.WithLabelValues(event.Source).Inc()
		return err
	}

	if err := s.competitors.ReplaceEventResults(ctx, event.ID, classes); err != nil {
		return err
	}
	if doc.Status != "" && models.EventStatus(doc.Status) != event.Status {
		if err := s.events.UpdateStatus(ctx, event.ID, models.EventStatus(doc.Status)); err != nil {
			return err
		}
	}

	metrics.EventRefreshesTotal.Inc()
	if s.resultsSvc != nil {
		s.resultsSvc.InvalidateEvent(event.ID)
	}
	if s.notifier != nil {
		s.notifier.NotifyEventUpdated(event.ID)
	}

	s.logger.WithField("event_id", event.ID).Info("Refreshed event results")
	return nil
}

// RefreshLiveEvents re-fetches every event whose results may still change
func (s *IngestionService) RefreshLiveEvents(ctx context.Context) error {
	events, err := s.events.GetLive(ctx)
	if err != nil {
		return err
	}
	metrics.LiveEvents.Set(float64(len(events)))

	var firstErr error
	for _, event := range events {
		if err := s.RefreshEvent(ctx, event); err != nil {
			s.logger.WithError(err).WithField("event_id", event.ID).Warn("Failed to refresh event")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (s *IngestionService) fetch(ctx context.Context, sourceName, eventRef string) (*datasource.EventDocument, error) {
	source, ok := s.sources[sourceName]
	if !ok {
		return nil, fmt.Errorf("unknown results source %q", sourceName)
	}
	return source.FetchEvent(ctx, eventRef)
}

// toModels converts a results document into storable rows, validating every
// row both structurally and against the timing model.
func (s *IngestionService) toModels(doc *datasource.EventDocument, sourceName, eventRef string) (*models.Event, []models.EventClass, error) {
	status := models.EventStatus(doc.Status)
	if status == "" {
		status = models.EventStatusFinal
	}

	event := &models.Event{
		ID:        uuid.New(),
		Name:      doc.Name,
		Date:      doc.Date,
		Venue:     doc.Venue,
		Source:    sourceName,
		SourceRef: eventRef,
		Status:    status,
	}

	classes := make([]models.EventClass, 0, len(doc.Classes))
	for _, classDoc := range doc.Classes {
		class := models.EventClass{
			ID:          uuid.New(),
			EventID:     event.ID,
			Name:        classDoc.Name,
			NumControls: classDoc.NumControls,
		}
		for _, compDoc := range classDoc.Competitors {
			record := models.CompetitorRecord{
				ID:             uuid.New(),
				ClassID:        class.ID,
				Order:          compDoc.Order,
				FirstName:      compDoc.FirstName,
				LastName:       compDoc.LastName,
				Club:           compDoc.Club,
				StartTime:      compDoc.StartTime,
				CumTimes:       compDoc.CumulativeTimes,
				NonStarter:     compDoc.NonStarter,
				NonFinisher:    compDoc.NonFinisher,
				Disqualified:   compDoc.Disqualified,
				OverMaxTime:    compDoc.OverMaxTime,
				NonCompetitive: compDoc.NonCompetitive,
			}
			if err := s.validate.Struct(&record); err != nil {
				return nil, nil, fmt.Errorf("competitor %q in class %q: %w", record.LastName, class.Name, err)
			}
			class.Competitors = append(class.Competitors, record)
		}

		// The timing model is the authority on what a valid result row is;
		// reject documents it would refuse to load later.
		if _, err := class.ToResultsClass(); err != nil {
			return nil, nil, fmt.Errorf("class %q: %w", class.Name, err)
		}
		classes = append(classes, class)
	}

	return event, classes, nil
}
