package datasource

import (
	"context"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `{
	"name": "Autumn Classic",
	"date": "2024-10-05T00:00:00Z",
	"venue": "Birch Hill",
	"status": "live",
	"classes": [
		{
			"name": "Open",
			"num_controls": 2,
			"competitors": [
				{
					"order": 1,
					"first_name": "Kai",
					"last_name": "Berg",
					"club": "OK Syd",
					"start_time": 36000,
					"cumulative_times": [0, 81, null, 290]
				}
			]
		}
	]
}`

func testSource(t *testing.T, handler http.HandlerFunc) (*RemoteResultsSource, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewRateLimitedHTTPClient(DefaultHTTPClientConfig(), log.Default())
	return NewRemoteResultsSource(client, "test-source", server.URL, "secret", true, nil), server
}

func TestFetchEventDecodesDocument(t *testing.T) {
	var gotPath, gotAuth string
	source, _ := testSource(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(sampleDocument))
	})

	doc, err := source.FetchEvent(context.Background(), "autumn-24")
	require.NoError(t, err)

	assert.Equal(t, "/autumn-24.json", gotPath)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "Autumn Classic", doc.Name)
	require.Len(t, doc.Classes, 1)
	require.Len(t, doc.Classes[0].Competitors, 1)

	times := doc.Classes[0].Competitors[0].CumulativeTimes
	require.Len(t, times, 4)
	assert.Nil(t, times[2], "mispunched control should decode as nil")
	assert.Equal(t, 290.0, *times[3])
}

func TestFetchEventDisabledSource(t *testing.T) {
	client := NewRateLimitedHTTPClient(DefaultHTTPClientConfig(), nil)
	source := NewRemoteResultsSource(client, "off", "http://localhost:1", "", false, nil)

	_, err := source.FetchEvent(context.Background(), "x")
	require.Error(t, err)

	var srcErr *SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, ErrCodeDisabled, srcErr.Code)
}

func TestFetchEventNotFound(t *testing.T) {
	source, _ := testSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := source.FetchEvent(context.Background(), "missing")
	var srcErr *SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, ErrCodeNetworkError, srcErr.Code)
}

func TestDecodeEventDocumentRejectsBadShape(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"classes": []}`},
		{"wrong time count", `{
			"name": "X",
			"classes": [{"name": "A", "num_controls": 3, "competitors": [
				{"last_name": "Berg", "cumulative_times": [0, 60]}
			]}]
		}`},
		{"not json", `<html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeEventDocument(strings.NewReader(tt.body))
			assert.Error(t, err)
		})
	}
}
