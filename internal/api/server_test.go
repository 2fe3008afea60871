package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/scrapework/harvester/internal/crawl"
	"github.com/scrapework/harvester/internal/progress"
)

func TestHealthz(t *testing.T) {
	s := NewServer("127.0.0.1:0", progress.NewTracker(), zap.NewNop())

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok\n", rec.Body.String())
}

func TestProgressEmpty(t *testing.T) {
	s := NewServer("127.0.0.1:0", progress.NewTracker(), zap.NewNop())

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/progress", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "[]", rec.Body.String())
}

func TestProgressSnapshot(t *testing.T) {
	tracker := progress.NewTracker()
	tracker.StageStarted("directory", 1)
	tracker.TaskResolved(crawl.TaskOutcome{
		Task:     crawl.Task{Stage: "directory"},
		State:    crawl.StateSucceeded,
		Attempts: 2,
	})

	s := NewServer("127.0.0.1:0", tracker, zap.NewNop())
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/progress", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var snap []progress.StageSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	require.Len(t, snap, 1)
	require.Equal(t, "directory", snap[0].Stage)
	require.Equal(t, 1, snap[0].Total)
	require.Equal(t, 1, snap[0].Succeeded)
	require.Equal(t, 1, snap[0].Retries)
}

func TestMetricsEndpoint(t *testing.T) {
	s := NewServer("127.0.0.1:0", progress.NewTracker(), zap.NewNop())

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "go_goroutines")
}
