package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anthonyi7/minecraft-dashboard/internal/app"
	"github.com/anthonyi7/minecraft-dashboard/internal/cache"
	"github.com/anthonyi7/minecraft-dashboard/internal/event"
	"github.com/anthonyi7/minecraft-dashboard/internal/presence"
	"github.com/anthonyi7/minecraft-dashboard/internal/stats"
)

type stubStatus struct {
	snap cache.Snapshot
}

func (s stubStatus) GetStatus(ctx context.Context) cache.Snapshot {
	return s.snap
}

func (s stubStatus) GetPlayers(ctx context.Context) app.PlayersResult {
	return app.PlayersResult{Players: s.snap.Players, Stale: s.snap.Stale}
}

type stubPresence struct {
	report presence.Report
}

func (s stubPresence) Today(ctx context.Context) presence.Report     { return s.report }
func (s stubPresence) Yesterday(ctx context.Context) presence.Report { return s.report }

type stubLeaderboards struct {
	lb stats.Leaderboards
}

func (s stubLeaderboards) GetLeaderboards(ctx context.Context) stats.Leaderboards {
	return s.lb
}

type stubEvents struct {
	result app.PlayerEventsResult
	err    error
}

func (s stubEvents) PlayerEvents(ctx context.Context, name string) (app.PlayerEventsResult, error) {
	if s.err != nil {
		return app.PlayerEventsResult{}, s.err
	}
	r := s.result
	r.PlayerName = name
	return r, nil
}

func TestHealthEndpoint(t *testing.T) {
	server := NewServer(":8080", app.HealthService{Version: "test-version"})

	req := httptest.NewRequest(http.MethodGet, "/api/healthz", nil)
	rec := httptest.NewRecorder()
	server.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", ct)
	}

	var resp app.HealthResult
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "ok" || resp.Version != "test-version" {
		t.Errorf("unexpected health result: %+v", resp)
	}
}

func TestHealthEndpointMethodNotAllowed(t *testing.T) {
	server := NewServer(":8080", app.HealthService{Version: "test-version"})

	req := httptest.NewRequest(http.MethodPost, "/api/healthz", nil)
	rec := httptest.NewRecorder()
	server.mux.ServeHTTP(rec, req)

	// Go 1.22's ServeMux returns 405 for wrong method
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}

func TestStatusEndpoint(t *testing.T) {
	ts := "2024-02-15T12:00:00Z"
	server := NewServer(":8080", app.HealthService{Version: "v"},
		WithStatusUsecase(stubStatus{snap: cache.Snapshot{
			Online:      true,
			Players:     cache.Players{Current: []string{"Steve"}, Count: 1, Max: 20},
			LastUpdated: &ts,
		}}),
	)

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rec := httptest.NewRecorder()
	server.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var snap cache.Snapshot
	if err := json.NewDecoder(rec.Body).Decode(&snap); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !snap.Online || snap.Players.Count != 1 {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
}

func TestStatusEndpointNotRegisteredWithoutUsecase(t *testing.T) {
	server := NewServer(":8080", app.HealthService{Version: "v"})

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rec := httptest.NewRecorder()
	server.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
}

func TestTodayEndpointDegradedReport(t *testing.T) {
	report := presence.Report{
		Date:     "2024-02-15",
		Timezone: "America/Los_Angeles",
		Players:  []presence.PlayerReport{},
		Error:    "query events: database is locked",
	}
	server := NewServer(":8080", app.HealthService{Version: "v"},
		WithPresenceUsecase(stubPresence{report: report}),
	)

	req := httptest.NewRequest(http.MethodGet, "/api/today", nil)
	rec := httptest.NewRecorder()
	server.mux.ServeHTTP(rec, req)

	// Degraded reports still answer 200 with the error embedded.
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var got presence.Report
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.Error == "" {
		t.Error("expected error field in degraded report")
	}
	if got.Players == nil {
		t.Error("players should encode as [] not null")
	}
}

func TestLeaderboardsEndpoint(t *testing.T) {
	ts := time.Date(2024, 2, 15, 12, 0, 0, 0, time.UTC).Format(time.RFC3339)
	server := NewServer(":8080", app.HealthService{Version: "v"},
		WithLeaderboardUsecase(stubLeaderboards{lb: stats.Leaderboards{
			Playtime:    []stats.Entry{{Name: "Steve", Value: 3600, Formatted: "1h"}},
			Blocks:      []stats.Entry{},
			Distance:    []stats.Entry{},
			LastUpdated: &ts,
		}}),
	)

	req := httptest.NewRequest(http.MethodGet, "/api/leaderboards", nil)
	rec := httptest.NewRecorder()
	server.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var lb stats.Leaderboards
	if err := json.NewDecoder(rec.Body).Decode(&lb); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(lb.Playtime) != 1 || lb.Playtime[0].Name != "Steve" {
		t.Errorf("unexpected leaderboards: %+v", lb)
	}
}

func TestPlayerEventsEndpoint(t *testing.T) {
	server := NewServer(":8080", app.HealthService{Version: "v"},
		WithEventsUsecase(stubEvents{result: app.PlayerEventsResult{
			EventCount: 1,
			Events: []event.Event{{
				ID:         7,
				PlayerName: "Steve",
				Kind:       event.KindJoin,
				At:         time.Date(2024, 2, 15, 12, 0, 0, 0, time.UTC),
			}},
		}}),
	)

	req := httptest.NewRequest(http.MethodGet, "/api/debug/events/Steve", nil)
	rec := httptest.NewRecorder()
	server.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var result app.PlayerEventsResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.PlayerName != "Steve" || result.EventCount != 1 {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestPlayerEventsEndpointStoreError(t *testing.T) {
	server := NewServer(":8080", app.HealthService{Version: "v"},
		WithEventsUsecase(stubEvents{err: errors.New("database is locked")}),
	)

	req := httptest.NewRequest(http.MethodGet, "/api/debug/events/Steve", nil)
	rec := httptest.NewRecorder()
	server.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}

	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error != "internal error" {
		t.Errorf("error = %q, want generic message", resp.Error)
	}
}

func TestCORSHeaders(t *testing.T) {
	server := NewServer(":8080", app.HealthService{Version: "v"})

	req := httptest.NewRequest(http.MethodOptions, "/api/healthz", nil)
	req.Header.Set("Origin", "http://dashboard.example")
	rec := httptest.NewRecorder()
	server.httpServer.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected status 204 for preflight, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}
