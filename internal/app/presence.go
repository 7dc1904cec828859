package app

import (
	"context"

	"github.com/anthonyi7/minecraft-dashboard/internal/presence"
)

// PresenceUsecase defines the daily playtime report use cases.
type PresenceUsecase interface {
	// Today returns the report for the current local day.
	Today(ctx context.Context) presence.Report

	// Yesterday returns the report for the previous local day.
	Yesterday(ctx context.Context) presence.Report
}

// PresenceService implements PresenceUsecase by wrapping presence.Service.
type PresenceService struct {
	Presence *presence.Service
}

// Today returns the current day's playtime report.
func (s PresenceService) Today(ctx context.Context) presence.Report {
	return s.Presence.Today(ctx)
}

// Yesterday returns the previous day's playtime report.
func (s PresenceService) Yesterday(ctx context.Context) presence.Report {
	return s.Presence.Yesterday(ctx)
}
