package app

import (
	"context"

	"github.com/anthonyi7/minecraft-dashboard/internal/stats"
)

// LeaderboardUsecase defines the leaderboards use case.
type LeaderboardUsecase interface {
	GetLeaderboards(ctx context.Context) stats.Leaderboards
}

// LeaderboardService implements LeaderboardUsecase.
type LeaderboardService struct {
	Stats *stats.Aggregator
}

// GetLeaderboards returns the current leaderboard snapshot.
func (s LeaderboardService) GetLeaderboards(ctx context.Context) stats.Leaderboards {
	return s.Stats.Leaderboards()
}
