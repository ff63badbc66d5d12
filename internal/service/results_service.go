// Package service composes the timing model, repositories and caches into
// the operations the API exposes.
package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/splitsight/internal/metrics"
	"github.com/yourusername/splitsight/internal/models"
	"github.com/yourusername/splitsight/internal/repository"
	"github.com/yourusername/splitsight/internal/results"
)

// ResultsService answers result, ranking and chart queries for stored events
type ResultsService struct {
	events       repository.EventRepository
	competitors  repository.CompetitorRepository
	cache        *cache.Cache
	logger       *logrus.Logger
	fastestPct   float64
	defaultChart string
}

// NewResultsService creates a results service with a TTL cache for computed
// competitor sets
func NewResultsService(
	events repository.EventRepository,
	competitors repository.CompetitorRepository,
	cacheTTL time.Duration,
	fastestPct float64,
	defaultChart string,
	logger *logrus.Logger,
) *ResultsService {
	return &ResultsService{
		events:       events,
		competitors:  competitors,
		cache:        cache.New(cacheTTL, 2*cacheTTL),
		logger:       logger,
		fastestPct:   fastestPct,
		defaultChart: defaultChart,
	}
}

// GetEvent loads an event with all its classes and competitor rows
func (s *ResultsService) GetEvent(ctx context.Context, eventID uuid.UUID) (*models.Event, error) {
	cacheKey := "event:" + eventID.String()
	if cached, found := s.cache.Get(cacheKey); found {
		metrics.ResultCacheHitsTotal.Inc()
		return cached.(*models.Event), nil
	}
	metrics.ResultCacheMissesTotal.Inc()

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	classes, err := s.competitors.GetClassesByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	total := 0
	for i := range classes {
		comps, err := s.competitors.GetCompetitorsByClass(ctx, classes[i].ID)
		if err != nil {
			return nil, err
		}
		classes[i].Competitors = comps
		total += len(comps)
	}
	event.Classes = classes

	metrics.CompetitorsLoaded.WithLabelValues(eventID.String()).Set(float64(total))
	s.cache.Set(cacheKey, event, cache.DefaultExpiration)
	return event, nil
}

// InvalidateEvent drops cached data for an event after its results changed
func (s *ResultsService) InvalidateEvent(eventID uuid.UUID) {
	prefix := "event:" + eventID.String()
	setPrefix := "set:" + eventID.String()
	for key := range s.cache.Items() {
		if strings.HasPrefix(key, prefix) || strings.HasPrefix(key, setPrefix) {
			s.cache.Delete(key)
		}
	}
}

// CompetitorSet builds the merged competitor set for the named classes of an
// event. An empty class list selects every class sharing the control count
// of the event's first class.
func (s *ResultsService) CompetitorSet(ctx context.Context, eventID uuid.UUID, classNames []string) (*results.CompetitorSet, error) {
	cacheKey := setCacheKey(eventID, classNames)
	if cached, found := s.cache.Get(cacheKey); found {
		metrics.ResultCacheHitsTotal.Inc()
		return cached.(*results.CompetitorSet), nil
	}
	metrics.ResultCacheMissesTotal.Inc()

	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	selected, err := selectClasses(event, classNames)
	if err != nil {
		return nil, err
	}

	classes := make([]*results.Class, 0, len(selected))
	for i := range selected {
		class, err := selected[i].ToResultsClass()
		if err != nil {
			return nil, fmt.Errorf("class %q: %w", selected[i].Name, err)
		}
		classes = append(classes, class)
	}

	set, err := results.NewCompetitorSet(classes)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"event_id":    eventID,
		"classes":     len(classes),
		"competitors": set.NumCompetitors(),
	}).Debug("Built competitor set")

	s.cache.Set(cacheKey, set, cache.DefaultExpiration)
	return set, nil
}

func setCacheKey(eventID uuid.UUID, classNames []string) string {
	names := make([]string, len(classNames))
	copy(names, classNames)
	sort.Strings(names)
	return "set:" + eventID.String() + ":" + strings.Join(names, ",")
}

func selectClasses(event *models.Event, classNames []string) ([]models.EventClass, error) {
	if len(event.Classes) == 0 {
		return nil, models.ErrInvalidEvent
	}

	if len(classNames) == 0 {
		numControls := event.Classes[0].NumControls
		var selected []models.EventClass
		for _, class := range event.Classes {
			if class.NumControls == numControls {
				selected = append(selected, class)
			}
		}
		return selected, nil
	}

	byName := make(map[string]models.EventClass, len(event.Classes))
	for _, class := range event.Classes {
		byName[class.Name] = class
	}

	selected := make([]models.EventClass, 0, len(classNames))
	for _, name := range classNames {
		class, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: class %q", models.ErrNotFound, name)
		}
		selected = append(selected, class)
	}
	return selected, nil
}

// ChartData computes a chart-ready data set for the named classes, using the
// fastest composite (winner as fallback) as the reference.
func (s *ResultsService) ChartData(ctx context.Context, eventID uuid.UUID, classNames []string, chartTypeName string, selectedIndexes []int) (*results.ChartData, error) {
	if chartTypeName == "" {
		chartTypeName = s.defaultChart
	}
	chartType, ok := results.ChartTypeByName(chartTypeName)
	if !ok {
		return nil, &results.InvalidDataError{Message: fmt.Sprintf("unknown chart type %q", chartTypeName)}
	}
	metrics.ChartDataRequestsTotal.WithLabelValues(chartType.Name).Inc()

	set, err := s.CompetitorSet(ctx, eventID, classNames)
	if err != nil {
		return nil, err
	}

	reference := set.FastestCumTimes()
	if reference == nil {
		reference = set.WinnerCumTimes()
	}
	if reference == nil {
		return nil, fmt.Errorf("%w: no competitor completed every leg", models.ErrInvalidEvent)
	}

	if selectedIndexes == nil {
		selectedIndexes = []int{}
	}

	start := time.Now()
	data, err := set.ChartData(reference, selectedIndexes, chartType)
	metrics.ChartDataDuration.Observe(time.Since(start).Seconds())
	return data, err
}

// FastestSplits returns the fastest-splits leaderboard for one leg
func (s *ResultsService) FastestSplits(ctx context.Context, eventID uuid.UUID, classNames []string, numSplits, controlIdx int) ([]results.FastestSplit, error) {
	set, err := s.CompetitorSet(ctx, eventID, classNames)
	if err != nil {
		return nil, err
	}
	return set.FastestSplitsTo(numSplits, controlIdx)
}

// FastestCumTimesPlusPercentage exposes the configured "fastest plus N%"
// composite for the named classes
func (s *ResultsService) FastestCumTimesPlusPercentage(ctx context.Context, eventID uuid.UUID, classNames []string) ([]results.TimeValue, error) {
	set, err := s.CompetitorSet(ctx, eventID, classNames)
	if err != nil {
		return nil, err
	}
	return set.FastestCumTimesPlusPercentage(s.fastestPct), nil
}
