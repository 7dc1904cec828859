package app

import (
	"context"

	"github.com/anthonyi7/minecraft-dashboard/internal/event"
)

// EventsUsecase defines the raw event inspection use case.
type EventsUsecase interface {
	// PlayerEvents returns the most recent stored events for one player.
	PlayerEvents(ctx context.Context, name string) (PlayerEventsResult, error)
}

// PlayerEventsResult represents the per-player event listing response.
type PlayerEventsResult struct {
	PlayerName string        `json:"player_name"`
	EventCount int           `json:"event_count"`
	Events     []event.Event `json:"events"`
}

// EventStore defines store operations needed by EventsService.
type EventStore interface {
	PlayerEvents(ctx context.Context, name string, limit int) ([]event.Event, error)
}

// EventsService implements EventsUsecase.
type EventsService struct {
	Store EventStore
	Limit int
}

// PlayerEvents returns up to Limit recent events for name, newest first.
func (s *EventsService) PlayerEvents(ctx context.Context, name string) (PlayerEventsResult, error) {
	events, err := s.Store.PlayerEvents(ctx, name, s.Limit)
	if err != nil {
		return PlayerEventsResult{}, err
	}
	if events == nil {
		events = []event.Event{}
	}
	return PlayerEventsResult{
		PlayerName: name,
		EventCount: len(events),
		Events:     events,
	}, nil
}
