// Package poll runs named background tasks on fixed intervals.
package poll

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Loop runs Task every Interval until its context is cancelled.
type Loop struct {
	Name         string
	Interval     time.Duration
	InitialDelay time.Duration
	Task         func(ctx context.Context) error
	Logger       *slog.Logger
}

// Run blocks running the loop. After InitialDelay the task runs immediately,
// then once per Interval. A failing or panicking tick is logged and the loop
// keeps going; only context cancellation stops it.
func (l *Loop) Run(ctx context.Context) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("loop", l.Name)

	if l.InitialDelay > 0 {
		select {
		case <-ctx.Done():
			return
		case <-time.After(l.InitialDelay):
		}
	}

	ticker := time.NewTicker(l.Interval)
	defer ticker.Stop()

	logger.Info("poll loop started", "interval", l.Interval)
	l.tick(ctx, logger)
	for {
		select {
		case <-ctx.Done():
			logger.Info("poll loop stopped")
			return
		case <-ticker.C:
			l.tick(ctx, logger)
		}
	}
}

func (l *Loop) tick(ctx context.Context, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("poll tick panicked", "panic", fmt.Sprint(r))
		}
	}()
	if err := l.Task(ctx); err != nil {
		logger.Warn("poll tick failed", "error", err)
	}
}
