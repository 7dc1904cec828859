// Package presence produces the per-day player activity reports served by
// the API. It computes day boundaries in a named time zone, queries the
// event store, and runs the derivation in internal/derive.
package presence

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/anthonyi7/minecraft-dashboard/internal/derive"
	"github.com/anthonyi7/minecraft-dashboard/internal/event"
)

// DefaultTimezone is the zone day boundaries are computed in when the
// configuration does not override it.
const DefaultTimezone = "America/Los_Angeles"

// Store defines the event queries the service needs.
type Store interface {
	EventsSince(ctx context.Context, from time.Time) ([]event.Event, error)
	LatestEvents(ctx context.Context) (map[string]event.Event, error)
}

// Clock provides time for deterministic testing.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// PlayerReport is one player's row in a day report.
type PlayerReport struct {
	Name                   string `json:"name"`
	TotalPlaytimeSeconds   int64  `json:"total_playtime_seconds"`
	TotalPlaytimeFormatted string `json:"total_playtime_formatted"`
	SessionCount           int    `json:"session_count"`
	CurrentlyOnline        bool   `json:"currently_online"`
}

// Summary aggregates a day report.
type Summary struct {
	UniquePlayers        int   `json:"unique_players"`
	TotalPlaytimeSeconds int64 `json:"total_playtime_seconds"`
	TotalSessions        int   `json:"total_sessions"`
}

// Report is the payload for the today/yesterday endpoints.
// Error is set when the store was unavailable; the remaining fields then hold
// best-effort defaults so dashboards degrade instead of breaking.
type Report struct {
	Date     string         `json:"date"`
	Timezone string         `json:"timezone"`
	Players  []PlayerReport `json:"players"`
	Summary  Summary        `json:"summary"`
	Error    string         `json:"error,omitempty"`
}

// Service derives day reports from the event store.
type Service struct {
	store  Store
	loc    *time.Location
	logger *slog.Logger
	clock  Clock
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the logger for the Service.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock sets the clock for the Service (for testing).
func WithClock(clock Clock) ServiceOption {
	return func(s *Service) { s.clock = clock }
}

// NewService creates a presence Service. timezone must be an IANA zone name;
// day boundaries are local midnights in that zone, converted to UTC before
// touching the store (event timestamps are stored in UTC).
func NewService(store Store, timezone string, opts ...ServiceOption) (*Service, error) {
	if timezone == "" {
		timezone = DefaultTimezone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}

	s := &Service{
		store:  store,
		loc:    loc,
		logger: slog.Default(),
		clock:  realClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Today reports activity from local midnight to now.
func (s *Service) Today(ctx context.Context) Report {
	return s.report(ctx, 0)
}

// Yesterday reports activity for the previous local calendar day.
func (s *Service) Yesterday(ctx context.Context) Report {
	return s.report(ctx, -1)
}

// report builds the day report for today shifted by dayOffset days.
func (s *Service) report(ctx context.Context, dayOffset int) Report {
	now := s.clock.Now()
	local := now.In(s.loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)

	from := midnight.AddDate(0, 0, dayOffset)
	w := derive.Window{
		From:  from.UTC(),
		Until: from.AddDate(0, 0, 1).UTC(),
	}

	rep := Report{
		Date:     from.Format("2006-01-02"),
		Timezone: s.loc.String(),
		Players:  []PlayerReport{},
	}

	events, err := s.store.EventsSince(ctx, w.From)
	if err != nil {
		s.logger.Error("query events for day report", "date", rep.Date, "error", err)
		rep.Error = err.Error()
		return rep
	}
	latest, err := s.store.LatestEvents(ctx)
	if err != nil {
		s.logger.Error("query latest events", "error", err)
		rep.Error = err.Error()
		return rep
	}

	for _, d := range derive.DayStats(events, latest, w, now.UTC()) {
		rep.Players = append(rep.Players, PlayerReport{
			Name:                   d.Name,
			TotalPlaytimeSeconds:   d.TotalSeconds,
			TotalPlaytimeFormatted: derive.FormatDuration(d.TotalSeconds),
			SessionCount:           d.SessionCount,
			CurrentlyOnline:        d.CurrentlyOnline,
		})
		rep.Summary.UniquePlayers++
		rep.Summary.TotalPlaytimeSeconds += d.TotalSeconds
		rep.Summary.TotalSessions += d.SessionCount
	}
	return rep
}
