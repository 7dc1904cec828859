package stats

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/anthonyi7/minecraft-dashboard/internal/derive"
	"github.com/anthonyi7/minecraft-dashboard/internal/remote"
)

// LeaderboardSize is the number of entries per leaderboard.
const LeaderboardSize = 10

// Clock provides time for deterministic testing.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Entry is one row of a leaderboard.
type Entry struct {
	Name      string `json:"name"`
	Value     int64  `json:"value"`
	Formatted string `json:"formatted"`
}

// Leaderboards holds the three independently ranked top-N lists.
// The boards are independent: a player missing from one source simply does
// not appear on that board, with no zero-filling from the others.
type Leaderboards struct {
	Playtime    []Entry `json:"playtime"`
	Blocks      []Entry `json:"blocks"`
	Distance    []Entry `json:"distance"`
	LastUpdated *string `json:"last_updated"`
	Stale       bool    `json:"stale"`
}

// Aggregator refreshes per-player stats from the remote world directory and
// serves leaderboards from the latest snapshot. Refresh runs on a slow
// cadence (stats files only change on save); reads never touch the network.
type Aggregator struct {
	runner    remote.Runner
	serverDir string
	logger    *slog.Logger
	clock     Clock

	mu          sync.RWMutex
	players     map[string]PlayerStats
	lastUpdated time.Time
	stale       bool
}

// AggregatorOption configures an Aggregator.
type AggregatorOption func(*Aggregator)

// WithLogger sets the logger for the Aggregator.
func WithLogger(logger *slog.Logger) AggregatorOption {
	return func(a *Aggregator) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithClock sets the clock for the Aggregator (for testing).
func WithClock(clock Clock) AggregatorOption {
	return func(a *Aggregator) { a.clock = clock }
}

// NewAggregator creates an Aggregator reading below serverDir.
func NewAggregator(runner remote.Runner, serverDir string, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		runner:    runner,
		serverDir: serverDir,
		logger:    slog.Default(),
		clock:     realClock{},
		players:   make(map[string]PlayerStats),
		stale:     true,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Refresh re-reads usercache.json and every per-player stats file.
// Players whose stats file is missing (never actually played) or corrupt are
// skipped with a warning; one bad file never aborts the refresh. On
// connectivity failure the previous snapshot is kept and marked stale.
func (a *Aggregator) Refresh(ctx context.Context) error {
	raw, err := remote.ReadFile(ctx, a.runner, a.serverDir+"/usercache.json")
	if err != nil {
		a.markStale()
		return fmt.Errorf("read usercache.json: %w", err)
	}
	if raw == "" {
		a.logger.Warn("usercache.json is empty")
		a.markStale()
		return nil
	}

	mapping, err := ParseUserCache([]byte(raw))
	if err != nil {
		a.markStale()
		return err
	}

	players := make(map[string]PlayerStats, len(mapping))
	for name, uuid := range mapping {
		raw, err := remote.ReadFile(ctx, a.runner, fmt.Sprintf("%s/world/stats/%s.json", a.serverDir, uuid))
		if err != nil {
			a.markStale()
			return fmt.Errorf("read stats for %s: %w", name, err)
		}
		if raw == "" {
			continue
		}
		ps, err := ParsePlayerStats([]byte(raw))
		if err != nil {
			a.logger.Warn("skipping corrupt stats file", "player", name, "uuid", uuid, "error", err)
			continue
		}
		players[name] = ps
	}

	a.mu.Lock()
	a.players = players
	a.lastUpdated = a.clock.Now().UTC()
	a.stale = false
	a.mu.Unlock()

	a.logger.Info("player stats refreshed", "players", len(players), "uuids", len(mapping))
	return nil
}

func (a *Aggregator) markStale() {
	a.mu.Lock()
	a.stale = true
	a.mu.Unlock()
}

// Leaderboards returns the current top-N boards from the snapshot.
func (a *Aggregator) Leaderboards() Leaderboards {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var playtime, blocks, distance []Entry
	for _, name := range sortedNames(a.players) {
		ps := a.players[name]
		if ps.PlaytimeSeconds > 0 {
			playtime = append(playtime, Entry{
				Name:      name,
				Value:     ps.PlaytimeSeconds,
				Formatted: derive.FormatDuration(ps.PlaytimeSeconds),
			})
		}
		blocks = append(blocks, Entry{
			Name:      name,
			Value:     ps.BlocksMined,
			Formatted: groupThousands(ps.BlocksMined),
		})
		distance = append(distance, Entry{
			Name:      name,
			Value:     ps.DistanceCM,
			Formatted: formatDistance(ps.DistanceCM),
		})
	}

	lb := Leaderboards{
		Playtime: top(playtime),
		Blocks:   top(blocks),
		Distance: top(distance),
		Stale:    a.stale,
	}
	if !a.lastUpdated.IsZero() {
		ts := a.lastUpdated.Format(time.RFC3339)
		lb.LastUpdated = &ts
	}
	return lb
}

// sortedNames gives boards a stable tie order independent of map iteration.
func sortedNames(players map[string]PlayerStats) []string {
	names := make([]string, 0, len(players))
	for name := range players {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func top(entries []Entry) []Entry {
	sort.SliceStable(entries, func(i, k int) bool {
		return entries[i].Value > entries[k].Value
	})
	if len(entries) > LeaderboardSize {
		entries = entries[:LeaderboardSize]
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries
}

// groupThousands formats n with comma separators, e.g. 1234567 -> "1,234,567".
func groupThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var out []byte
	lead := len(s) % 3
	if lead > 0 {
		out = append(out, s[:lead]...)
	}
	for i := lead; i < len(s); i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, s[i:i+3]...)
	}
	return string(out)
}

// formatDistance renders centimeters as kilometers with one decimal.
func formatDistance(cm int64) string {
	return fmt.Sprintf("%.1f km", float64(cm)/100000)
}
