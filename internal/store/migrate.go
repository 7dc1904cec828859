package store

import (
	"context"
	"fmt"
)

// migrate runs database migrations.
func (s *Store) migrate(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS player_events (
		id          INTEGER PRIMARY KEY,
		player_name TEXT NOT NULL,
		event_type  TEXT NOT NULL,
		event_time  TEXT NOT NULL,
		UNIQUE(player_name, event_type, event_time)
	);

	CREATE INDEX IF NOT EXISTS idx_events_player_time ON player_events(player_name, event_time);
	CREATE INDEX IF NOT EXISTS idx_events_time ON player_events(event_time);
	`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create player_events table: %w", err)
	}
	return nil
}
