// Package event provides the shared join/leave event model.
// This package is used by the ingest, derive, presence, app, and store packages.
package event

import "time"

// Event kind constants. These are the values stored in the event_type column.
const (
	KindJoin  = "join"
	KindLeave = "leave"
)

// Event represents a single player join or leave fact extracted from the
// server log. Events are immutable and append-only; presence and playtime
// are always derived from them at query time, never stored.
//
// (PlayerName, Kind, At) is unique in the store, which makes re-ingesting
// the same log bytes a no-op.
type Event struct {
	ID         int64     `json:"id"`
	PlayerName string    `json:"player_name"`
	Kind       string    `json:"event_type"`
	At         time.Time `json:"event_time"`
}

// IsJoin reports whether the event is a join.
func (e Event) IsJoin() bool { return e.Kind == KindJoin }
