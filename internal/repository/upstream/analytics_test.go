package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/svce-events/attendance-report/internal/domain/analytics"
)

const samplePayload = `{
	"event": "Viz-A-Thon 2025",
	"totalTeamsCount": 2,
	"presentTeamsCount": 1,
	"absentTeamsCount": 1,
	"totalTeams": [
		{"_id": "65f1", "teamName": "Team Alpha", "leaderName": "Meena", "email": "meena@svce.ac.in", "department": "CSE", "year": 3, "isPresent": true},
		{"_id": "65f2", "teamName": "Byte Busters", "leaderName": "Arun", "email": "arun@svce.ac.in", "department": "IT", "year": "II", "isPresent": false}
	]
}`

func TestAnalyticsClient_GetDataset(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(samplePayload))
	}))
	defer srv.Close()

	dataset, err := NewAnalyticsClient(srv.URL, time.Second).GetDataset(context.Background(), "evt-1")
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/analytics/evt-1", gotPath)
	assert.Equal(t, "evt-1", dataset.EventID)
	assert.Equal(t, "Viz-A-Thon 2025", dataset.Summary.EventName)
	assert.Equal(t, 2, dataset.Summary.TotalTeamsCount)
	require.Len(t, dataset.Records, 2)
	assert.Equal(t, "65f1", dataset.Records[0].ID)
	assert.Equal(t, analytics.Year("3"), dataset.Records[0].Year)
	assert.Equal(t, analytics.Year("II"), dataset.Records[1].Year)
	assert.True(t, dataset.Records[0].IsPresent)
	assert.False(t, dataset.Records[1].IsPresent)
}

func TestAnalyticsClient_MissingEventName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"totalTeamsCount":0,"presentTeamsCount":0,"absentTeamsCount":0,"totalTeams":[]}`))
	}))
	defer srv.Close()

	dataset, err := NewAnalyticsClient(srv.URL, time.Second).GetDataset(context.Background(), "evt-1")
	require.NoError(t, err)
	assert.Equal(t, analytics.DefaultEventName, dataset.Summary.DisplayName())
	assert.Empty(t, dataset.Records)
}

func TestAnalyticsClient_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"not found", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "no such event", http.StatusNotFound)
		}},
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}},
		{"bad json", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"totalTeams": "nope"`))
		}},
		{"timeout", func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			w.Write([]byte(samplePayload))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			dataset, err := NewAnalyticsClient(srv.URL, 50*time.Millisecond).GetDataset(context.Background(), "evt-1")
			assert.Nil(t, dataset)
			assert.ErrorIs(t, err, analytics.ErrDataUnavailable)
		})
	}
}

func TestAnalyticsClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewAnalyticsClient(url, time.Second).GetDataset(context.Background(), "evt-1")
	assert.ErrorIs(t, err, analytics.ErrDataUnavailable)
}
