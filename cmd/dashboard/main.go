// Package main provides the entry point for the Minecraft dashboard backend.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anthonyi7/minecraft-dashboard/internal/api"
	"github.com/anthonyi7/minecraft-dashboard/internal/app"
	"github.com/anthonyi7/minecraft-dashboard/internal/cache"
	"github.com/anthonyi7/minecraft-dashboard/internal/config"
	"github.com/anthonyi7/minecraft-dashboard/internal/ingest"
	"github.com/anthonyi7/minecraft-dashboard/internal/metrics"
	"github.com/anthonyi7/minecraft-dashboard/internal/poll"
	"github.com/anthonyi7/minecraft-dashboard/internal/presence"
	"github.com/anthonyi7/minecraft-dashboard/internal/rcon"
	"github.com/anthonyi7/minecraft-dashboard/internal/remote"
	"github.com/anthonyi7/minecraft-dashboard/internal/stats"
	"github.com/anthonyi7/minecraft-dashboard/internal/status"
	"github.com/anthonyi7/minecraft-dashboard/internal/store"
	"github.com/anthonyi7/minecraft-dashboard/internal/version"
)

// statsInitialDelay gives the status and log pollers a head start before the
// first heavy stats sweep of the world directory.
const statsInitialDelay = 10 * time.Second

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	// 1. Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	// 2. Open SQLite event store
	db, err := store.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3. Remote access: SSH for files and metrics, RCON for live status
	runner, err := remote.NewSSHRunner(cfg.SSHHost, cfg.SSHPort, cfg.SSHUser, cfg.SSHKeyPath)
	if err != nil {
		logger.Error("failed to set up ssh", "error", err)
		os.Exit(1)
	}
	rconClient := rcon.New(cfg.ServerHost, cfg.RCONPort, cfg.RCONPassword)

	// 4. Domain services
	statusCache := cache.New()
	collector := metrics.NewCollector(runner, cfg.ServerDir,
		metrics.WithDiskPath(cfg.DiskPath),
		metrics.WithLogger(logger))
	statusPoller := status.NewPoller(rconClient, collector, statusCache,
		status.WithLogger(logger))

	tailer := ingest.NewTailer(runner, cfg.LogPath(),
		ingest.WithTailerLogger(logger))
	ingester := ingest.New(tailer, db, ingest.WithLogger(logger))

	aggregator := stats.NewAggregator(runner, cfg.ServerDir,
		stats.WithLogger(logger))

	presenceService, err := presence.NewService(db, cfg.Timezone,
		presence.WithLogger(logger))
	if err != nil {
		logger.Error("failed to set up presence service", "error", err)
		os.Exit(1)
	}

	// 5. Background polling loops
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loops := []*poll.Loop{
		{Name: "status", Interval: cfg.StatusInterval, Task: statusPoller.Tick, Logger: logger},
		{Name: "logs", Interval: cfg.LogsInterval, Task: ingester.Tick, Logger: logger},
		{Name: "stats", Interval: cfg.StatsInterval, InitialDelay: statsInitialDelay, Task: aggregator.Refresh, Logger: logger},
	}
	for _, l := range loops {
		go l.Run(ctx)
	}

	// 6. HTTP API
	health := app.HealthService{Version: version.String()}
	server := api.NewServer(cfg.Addr(), health,
		api.WithStatusUsecase(app.StatusService{Cache: statusCache}),
		api.WithPresenceUsecase(app.PresenceService{Presence: presenceService}),
		api.WithLeaderboardUsecase(app.LeaderboardService{Stats: aggregator}),
		api.WithEventsUsecase(&app.EventsService{Store: db, Limit: store.DebugEventLimit}),
	)

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting minecraft dashboard", "version", version.String(), "addr", cfg.Addr())
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-done:
		logger.Info("shutting down")
	case err := <-errCh:
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	// Stop the pollers before the HTTP server so no tick writes during teardown.
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("server stopped")
}
