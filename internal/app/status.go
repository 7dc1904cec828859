package app

import (
	"context"

	"github.com/anthonyi7/minecraft-dashboard/internal/cache"
)

// StatusUsecase defines the live status use cases.
type StatusUsecase interface {
	// GetStatus returns the full cached status snapshot.
	GetStatus(ctx context.Context) cache.Snapshot

	// GetPlayers returns just the current player list.
	GetPlayers(ctx context.Context) PlayersResult
}

// PlayersResult represents the current players response.
type PlayersResult struct {
	Players cache.Players `json:"players"`
	Stale   bool          `json:"stale"`
}

// StatusService implements StatusUsecase by reading the status cache.
type StatusService struct {
	Cache *cache.Cache
}

// GetStatus returns the cached status snapshot.
func (s StatusService) GetStatus(ctx context.Context) cache.Snapshot {
	return s.Cache.Get()
}

// GetPlayers returns the cached player list.
func (s StatusService) GetPlayers(ctx context.Context) PlayersResult {
	players, stale := s.Cache.GetPlayers()
	return PlayersResult{Players: players, Stale: stale}
}
