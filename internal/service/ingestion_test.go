package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/splitsight/internal/datasource"
	"github.com/yourusername/splitsight/internal/models"
)

// fakeSource serves canned documents without any HTTP
type fakeSource struct {
	name string
	docs map[string]*datasource.EventDocument
}

func (f *fakeSource) FetchEvent(ctx context.Context, eventRef string) (*datasource.EventDocument, error) {
	doc, ok := f.docs[eventRef]
	if !ok {
		return nil, datasource.NewSourceError(f.name, datasource.ErrCodeBadPayload, "no such event", nil)
	}
	return doc, nil
}

func (f *fakeSource) Name() string    { return f.name }
func (f *fakeSource) IsEnabled() bool { return true }

type recordingNotifier struct {
	updated []uuid.UUID
}

func (n *recordingNotifier) NotifyEventUpdated(eventID uuid.UUID) {
	n.updated = append(n.updated, eventID)
}

func testDocument() *datasource.EventDocument {
	return &datasource.EventDocument{
		Name:   "Night Sprint",
		Date:   time.Date(2024, 10, 5, 0, 0, 0, 0, time.UTC),
		Venue:  "Hollow Wood",
		Status: "final",
		Classes: []datasource.ClassDocument{
			{
				Name:        "Open",
				NumControls: 1,
				Competitors: []datasource.CompetitorDocument{
					{
						Order:           1,
						FirstName:       "Ann",
						LastName:        "Holm",
						Club:            "OK Nord",
						StartTime:       36000,
						CumulativeTimes: cumTimes(0, 72, 158),
					},
				},
			},
		},
	}
}

func newIngestionUnderTest(
	source *fakeSource,
	events *MockEventRepository,
	competitors *MockCompetitorRepository,
	notifier UpdateNotifier,
) *IngestionService {
	sources := map[string]datasource.ResultsSource{source.name: source}
	return NewIngestionService(sources, events, competitors, nil, newTestLogger(), notifier)
}

func TestIngestEventStoresDocument(t *testing.T) {
	source := &fakeSource{name: "sportident", docs: map[string]*datasource.EventDocument{
		"evt-42": testDocument(),
	}}
	events := new(MockEventRepository)
	competitors := new(MockCompetitorRepository)
	notifier := new(recordingNotifier)

	events.On("Create", mock.Anything, mock.AnythingOfType("*models.Event")).Return(nil).Once()
	competitors.On("ReplaceEventResults", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	svc := newIngestionUnderTest(source, events, competitors, notifier)

	event, err := svc.IngestEvent(context.Background(), "sportident", "evt-42")
	require.NoError(t, err)
	assert.Equal(t, "Night Sprint", event.Name)
	assert.Equal(t, "sportident", event.Source)
	assert.Equal(t, "evt-42", event.SourceRef)
	assert.Equal(t, models.EventStatusFinal, event.Status)

	require.Len(t, notifier.updated, 1)
	assert.Equal(t, event.ID, notifier.updated[0])
	events.AssertExpectations(t)
	competitors.AssertExpectations(t)
}

func TestIngestEventUnknownSource(t *testing.T) {
	source := &fakeSource{name: "sportident"}
	svc := newIngestionUnderTest(source, new(MockEventRepository), new(MockCompetitorRepository), nil)

	_, err := svc.IngestEvent(context.Background(), "emit", "evt-42")
	assert.Error(t, err)
}

func TestIngestEventRejectsDecreasingTimes(t *testing.T) {
	doc := testDocument()
	doc.Classes[0].Competitors[0].CumulativeTimes = cumTimes(0, 120, 90)

	source := &fakeSource{name: "sportident", docs: map[string]*datasource.EventDocument{
		"evt-42": doc,
	}}
	events := new(MockEventRepository)
	competitors := new(MockCompetitorRepository)

	svc := newIngestionUnderTest(source, events, competitors, nil)

	_, err := svc.IngestEvent(context.Background(), "sportident", "evt-42")
	require.Error(t, err)
	events.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	competitors.AssertNotCalled(t, "ReplaceEventResults", mock.Anything, mock.Anything, mock.Anything)
}

func TestRefreshEventReplacesResults(t *testing.T) {
	source := &fakeSource{name: "sportident", docs: map[string]*datasource.EventDocument{
		"evt-42": testDocument(),
	}}
	events := new(MockEventRepository)
	competitors := new(MockCompetitorRepository)
	notifier := new(recordingNotifier)

	stored := &models.Event{
		ID:        uuid.New(),
		Name:      "Night Sprint",
		Source:    "sportident",
		SourceRef: "evt-42",
		Status:    models.EventStatusLive,
	}

	competitors.On("ReplaceEventResults", mock.Anything, stored.ID, mock.Anything).Return(nil).Once()
	events.On("UpdateStatus", mock.Anything, stored.ID, models.EventStatusFinal).Return(nil).Once()

	svc := newIngestionUnderTest(source, events, competitors, notifier)

	require.NoError(t, svc.RefreshEvent(context.Background(), stored))
	require.Len(t, notifier.updated, 1)
	assert.Equal(t, stored.ID, notifier.updated[0])
	events.AssertExpectations(t)
	competitors.AssertExpectations(t)
}

func TestRefreshEventWithoutSource(t *testing.T) {
	svc := newIngestionUnderTest(&fakeSource{name: "sportident"}, new(MockEventRepository), new(MockCompetitorRepository), nil)

	err := svc.RefreshEvent(context.Background(), &models.Event{ID: uuid.New()})
	assert.Error(t, err)
}

func TestRefreshLiveEventsContinuesPastFailures(t *testing.T) {
	source := &fakeSource{name: "sportident", docs: map[string]*datasource.EventDocument{
		"evt-ok": testDocument(),
	}}
	events := new(MockEventRepository)
	competitors := new(MockCompetitorRepository)

	broken := &models.Event{ID: uuid.New(), Source: "sportident", SourceRef: "evt-gone", Status: models.EventStatusLive}
	healthy := &models.Event{ID: uuid.New(), Source: "sportident", SourceRef: "evt-ok", Status: models.EventStatusFinal}

	events.On("GetLive", mock.Anything).Return([]*models.Event{broken, healthy}, nil).Once()
	competitors.On("ReplaceEventResults", mock.Anything, healthy.ID, mock.Anything).Return(nil).Once()

	svc := newIngestionUnderTest(source, events, competitors, nil)

	err := svc.RefreshLiveEvents(context.Background())
	assert.Error(t, err)

	// The healthy event was still refreshed
	competitors.AssertExpectations(t)
}
