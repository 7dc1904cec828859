// Package status combines the RCON player list and host metrics into the
// live snapshot served by the API.
package status

import (
	"context"
	"log/slog"

	"github.com/anthonyi7/minecraft-dashboard/internal/cache"
	"github.com/anthonyi7/minecraft-dashboard/internal/metrics"
	"github.com/anthonyi7/minecraft-dashboard/internal/rcon"
)

// MetricsCollector gathers host resource usage.
type MetricsCollector interface {
	Collect(ctx context.Context) (metrics.Metrics, error)
}

// Poller refreshes the status cache from RCON and the remote host.
type Poller struct {
	rcon    rcon.Client
	metrics MetricsCollector
	cache   *cache.Cache
	logger  *slog.Logger
}

// Option configures a Poller.
type Option func(*Poller)

// WithLogger sets the logger for the Poller.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Poller) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPoller creates a Poller writing into c.
func NewPoller(client rcon.Client, collector MetricsCollector, c *cache.Cache, opts ...Option) *Poller {
	p := &Poller{
		rcon:    client,
		metrics: collector,
		cache:   c,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Tick takes one status snapshot and stores it in the cache.
//
// An RCON failure means the server is down or unreachable: the cache gets an
// offline snapshot carrying the error so the API can show why. A metrics
// failure is softer; the server answered RCON, so the snapshot stays online
// with performance data missing. Tick itself never returns an error because
// an unreachable server is a state to report, not a fault in the poller.
func (p *Poller) Tick(ctx context.Context) error {
	list, err := rcon.List(ctx, p.rcon)
	if err != nil {
		p.logger.Warn("rcon list failed", "error", err)
		p.cache.Set(cache.Snapshot{
			Online:    false,
			Players:   cache.Players{Current: []string{}},
			LastError: err.Error(),
		})
		return nil
	}

	snap := cache.Snapshot{
		Online: true,
		Players: cache.Players{
			Current: list.Players,
			Count:   len(list.Players),
			Max:     list.Max,
		},
	}

	m, err := p.metrics.Collect(ctx)
	if err != nil {
		p.logger.Warn("metrics collection failed", "error", err)
		snap.LastError = err.Error()
	} else {
		snap.Performance = &m
		snap.UptimeSeconds = m.UptimeSeconds
	}

	p.cache.Set(snap)
	return nil
}
