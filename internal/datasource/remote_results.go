package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
)

// RemoteResultsSource fetches canonical results documents over HTTP
type RemoteResultsSource struct {
	httpClient *RateLimitedHTTPClient
	name       string
	baseURL    string
	apiKey     string
	enabled    bool
	logger     *log.Logger
}

// NewRemoteResultsSource creates a results source against a base URL. Event
// documents are served at <baseURL>/<eventRef>.json.
func NewRemoteResultsSource(httpClient *RateLimitedHTTPClient, name, baseURL, apiKey string, enabled bool, logger *log.Logger) *RemoteResultsSource {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &RemoteResultsSource{
		httpClient: httpClient,
		name:       name,
		baseURL:    baseURL,
		apiKey:     apiKey,
		enabled:    enabled,
		logger:     logger,
	}
}

// Name returns the name of the results source
func (s *RemoteResultsSource) Name() string { return s.name }

// IsEnabled returns whether this source is currently enabled
func (s *RemoteResultsSource) IsEnabled() bool { return s.enabled }

// FetchEvent retrieves the full results document for one event
func (s *RemoteResultsSource) FetchEvent(ctx context.Context, eventRef string) (*EventDocument, error) {
	if !s.enabled {
		return nil, NewSourceError(s.name, ErrCodeDisabled, "results source is disabled", nil)
	}

	endpoint := fmt.Sprintf("%s/%s.json", s.baseURL, url.PathEscape(eventRef))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, NewSourceError(s.name, ErrCodeNetworkError, "failed to build request", err)
	}
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(ctx, req)
	if err != nil {
		return nil, NewSourceError(s.name, ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, NewSourceError(s.name, ErrCodeNetworkError,
			fmt.Sprintf("unexpected status %d for event %s", resp.StatusCode, eventRef), nil)
	}

	doc, err := DecodeEventDocument(resp.Body)
	if err != nil {
		return nil, NewSourceError(s.name, ErrCodeBadPayload, "failed to decode results document", err)
	}

	s.logger.Printf("Fetched event %s from %s: %d classes", eventRef, s.name, len(doc.Classes))
	return doc, nil
}

// DecodeEventDocument decodes and structurally validates a results document
func DecodeEventDocument(r io.Reader) (*EventDocument, error) {
	var doc EventDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}
	if doc.Name == "" {
		return nil, fmt.Errorf("results document has no event name")
	}
	for _, class := range doc.Classes {
		for _, comp := range class.Competitors {
			if len(comp.CumulativeTimes) != class.NumControls+2 {
				return nil, fmt.Errorf(
					"competitor %q in class %q has %d cumulative times, expected %d",
					comp.LastName, class.Name, len(comp.CumulativeTimes), class.NumControls+2,
				)
			}
		}
	}
	return &doc, nil
}
