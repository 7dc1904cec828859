package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthonyi7/minecraft-dashboard/internal/event"
)

// EventStore defines the store operations needed by the Ingester.
type EventStore interface {
	InsertEvents(ctx context.Context, events []event.Event) (int, error)
}

// Ingester drives one poll-parse-insert cycle per tick: new log bytes from
// the Tailer, events from ParseLines, rows into the store. It holds no state
// of its own beyond its collaborators, so a failed tick changes nothing.
type Ingester struct {
	tailer *Tailer
	store  EventStore
	logger *slog.Logger
	clock  Clock
}

// Option configures an Ingester.
type Option func(*Ingester)

// WithLogger sets the logger for the Ingester.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Ingester) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithClock sets the clock for the Ingester (for testing).
func WithClock(clock Clock) Option {
	return func(i *Ingester) { i.clock = clock }
}

// New creates a new Ingester.
func New(tailer *Tailer, store EventStore, opts ...Option) *Ingester {
	i := &Ingester{
		tailer: tailer,
		store:  store,
		logger: slog.Default(),
		clock:  DefaultClock,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Tick runs one ingestion cycle. A remote failure skips the tick with tail
// state unchanged; the next tick re-attempts the same byte range.
func (i *Ingester) Tick(ctx context.Context) error {
	content, err := i.tailer.Poll(ctx)
	if err != nil {
		return fmt.Errorf("poll log: %w", err)
	}
	if content == "" {
		return nil
	}

	events := ParseLines(strings.Split(content, "\n"), i.clock.Now().UTC())
	if len(events) == 0 {
		return nil
	}

	inserted, err := i.store.InsertEvents(ctx, events)
	if err != nil {
		return fmt.Errorf("insert events: %w", err)
	}

	if inserted > 0 {
		i.logger.Info("log events ingested",
			"parsed", len(events),
			"inserted", inserted,
		)
	}
	return nil
}
