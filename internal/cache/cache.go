// Package cache holds the most recent live-status snapshot of the server.
// Pollers write into it on their own cadence; HTTP reads are served from
// memory and stamped stale once the snapshot outlives its freshness window.
package cache

import (
	"sync"
	"time"

	"github.com/anthonyi7/minecraft-dashboard/internal/metrics"
)

// Staleness is how old a snapshot may be before reads flag it stale.
const Staleness = 30 * time.Second

// Clock provides time for deterministic testing.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Players is the live player-count portion of a snapshot.
type Players struct {
	Current []string `json:"current"`
	Count   int      `json:"count"`
	Max     int      `json:"max"`
}

// Snapshot is the cached live status of the server.
type Snapshot struct {
	Online        bool             `json:"online"`
	Players       Players          `json:"players"`
	Performance   *metrics.Metrics `json:"performance"`
	UptimeSeconds int64            `json:"uptime_seconds"`
	LastUpdated   *string          `json:"last_updated"`
	LastError     string           `json:"last_error,omitempty"`
	Stale         bool             `json:"stale"`
}

// Cache is a single-slot snapshot store safe for concurrent use.
type Cache struct {
	clock Clock

	mu        sync.RWMutex
	snap      Snapshot
	updatedAt time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock sets the clock for the Cache (for testing).
func WithClock(clock Clock) Option {
	return func(c *Cache) { c.clock = clock }
}

// New creates an empty Cache. Until the first Set, reads report a stale
// snapshot with the server offline.
func New(opts ...Option) *Cache {
	c := &Cache{clock: realClock{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Set replaces the snapshot and stamps the update time. The caller passes
// the snapshot without LastUpdated or Stale; the cache owns both.
func (c *Cache) Set(snap Snapshot) {
	now := c.clock.Now().UTC()
	ts := now.Format(time.RFC3339)
	snap.LastUpdated = &ts
	snap.Stale = false
	if snap.Players.Current == nil {
		snap.Players.Current = []string{}
	}

	c.mu.Lock()
	c.snap = snap
	c.updatedAt = now
	c.mu.Unlock()
}

// Get returns the current snapshot, marking it stale when it has never been
// set or is older than Staleness.
func (c *Cache) Get() Snapshot {
	c.mu.RLock()
	snap := c.snap
	updatedAt := c.updatedAt
	c.mu.RUnlock()

	if updatedAt.IsZero() || c.clock.Now().UTC().Sub(updatedAt) > Staleness {
		snap.Stale = true
	}
	if snap.Players.Current == nil {
		snap.Players.Current = []string{}
	}
	return snap
}

// GetPlayers returns just the player portion with the snapshot's staleness.
func (c *Cache) GetPlayers() (Players, bool) {
	snap := c.Get()
	return snap.Players, snap.Stale
}
