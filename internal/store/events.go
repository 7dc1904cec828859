package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/anthonyi7/minecraft-dashboard/internal/event"
)

// DebugEventLimit is the number of rows returned by PlayerEvents.
const DebugEventLimit = 100

// InsertEvents appends a batch of events, ignoring duplicates.
// Deduplication is enforced by the UNIQUE(player_name, event_type, event_time)
// index via ON CONFLICT DO NOTHING, so replaying the same log bytes (full
// re-read after rotation, process restart backfill) is safe. The returned
// count covers only genuinely new rows.
func (s *Store) InsertEvents(ctx context.Context, events []event.Event) (int, error) {
	const query = `
	INSERT INTO player_events (player_name, event_type, event_time)
	VALUES (?, ?, ?)
	ON CONFLICT(player_name, event_type, event_time) DO NOTHING
	`

	inserted := 0
	for _, e := range events {
		if err := validateEvent(e); err != nil {
			return inserted, err
		}
		result, err := s.db.ExecContext(ctx, query,
			e.PlayerName, e.Kind, e.At.UTC().Format(TimeFormat))
		if err != nil {
			return inserted, fmt.Errorf("insert event: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return inserted, fmt.Errorf("rows affected: %w", err)
		}
		inserted += int(n)
	}
	return inserted, nil
}

func validateEvent(e event.Event) error {
	if e.PlayerName == "" {
		return fmt.Errorf("%w: player_name is required", ErrInvalidEvent)
	}
	if e.Kind != event.KindJoin && e.Kind != event.KindLeave {
		return fmt.Errorf("%w: event_type %q", ErrInvalidEvent, e.Kind)
	}
	if e.At.IsZero() {
		return fmt.Errorf("%w: event_time is required", ErrInvalidEvent)
	}
	return nil
}

// EventsSince returns all events with event_time >= from, ordered by
// (event_time, id) ascending. This is the input to session derivation: every
// join in a reporting window plus every leave that could close one of those
// sessions is at or after the window start.
func (s *Store) EventsSince(ctx context.Context, from time.Time) ([]event.Event, error) {
	const query = `
	SELECT id, player_name, event_type, event_time
	FROM player_events
	WHERE event_time >= ?
	ORDER BY event_time ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, from.UTC().Format(TimeFormat))
	if err != nil {
		return nil, fmt.Errorf("query events since: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// LatestEvents returns the most recent event per player across all time,
// with ties on event_time broken by insertion id. A player whose latest
// event is a join is currently online; this is a point-in-time fact and is
// deliberately not bounded by any reporting window.
func (s *Store) LatestEvents(ctx context.Context) (map[string]event.Event, error) {
	const query = `
	SELECT id, player_name, event_type, event_time
	FROM player_events
	WHERE id IN (SELECT MAX(id) FROM player_events GROUP BY player_name)
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query latest events: %w", err)
	}
	defer rows.Close()

	events, err := scanEvents(rows)
	if err != nil {
		return nil, err
	}

	latest := make(map[string]event.Event, len(events))
	for _, e := range events {
		latest[e.PlayerName] = e
	}
	return latest, nil
}

// PlayerEvents returns the most recent events for a player, newest first.
// The name match is case-insensitive so the debug endpoint works with
// however the caller remembers the capitalization.
func (s *Store) PlayerEvents(ctx context.Context, name string, limit int) ([]event.Event, error) {
	if limit <= 0 || limit > DebugEventLimit {
		limit = DebugEventLimit
	}

	const query = `
	SELECT id, player_name, event_type, event_time
	FROM player_events
	WHERE LOWER(player_name) = LOWER(?)
	ORDER BY event_time DESC, id DESC
	LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, name, limit)
	if err != nil {
		return nil, fmt.Errorf("query player events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// LastEventTime returns the timestamp of the most recent event.
// Returns zero time if no events exist.
func (s *Store) LastEventTime(ctx context.Context) (time.Time, error) {
	const query = `SELECT event_time FROM player_events ORDER BY event_time DESC, id DESC LIMIT 1`

	var ts string
	err := s.db.QueryRowContext(ctx, query).Scan(&ts)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("last event time: %w", err)
	}

	t, err := time.Parse(TimeFormat, ts)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", ts, err)
	}
	return t, nil
}

// CountEvents returns the total number of events in the database.
func (s *Store) CountEvents(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM player_events`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return count, nil
}

func scanEvents(rows *sql.Rows) ([]event.Event, error) {
	var events []event.Event
	for rows.Next() {
		var (
			e  event.Event
			ts string
		)
		if err := rows.Scan(&e.ID, &e.PlayerName, &e.Kind, &ts); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		at, err := time.Parse(TimeFormat, ts)
		if err != nil {
			return nil, fmt.Errorf("parse event_time %q: %w", ts, err)
		}
		e.At = at
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return events, nil
}
