// Package derive reconstructs sessions, playtime, and online status from the
// raw event stream. Everything here is a pure function over events already
// fetched from the store; nothing derived is ever written back, so the event
// table stays the single source of truth and re-deriving always agrees with it.
package derive

import (
	"fmt"
	"sort"
	"time"

	"github.com/anthonyi7/minecraft-dashboard/internal/event"
)

// Window is a UTC time interval [From, Until). Callers build it from a named
// time zone's local midnight before querying.
type Window struct {
	From  time.Time
	Until time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && t.Before(w.Until)
}

// Session is a derived interval between a join and its paired leave.
// Open sessions have no leave yet; End is the reference instant.
type Session struct {
	PlayerName string
	JoinedAt   time.Time
	End        time.Time
	Open       bool
}

// Duration returns the session length.
func (s Session) Duration() time.Duration {
	return s.End.Sub(s.JoinedAt)
}

// Sessions pairs joins inside the window with leaves.
//
// Each join whose timestamp falls in w is paired with the earliest leave for
// the same player strictly after it; a leave is consumed by at most one join.
// A join with no remaining leave is an open session ending at now (the player
// is still online), clamped to w.Until when the window is already in the past
// so a closed day's totals cannot keep growing. Leaves without a prior join
// in the window contribute nothing. Sessions are anchored to joins inside the
// window: time played before w.From under an earlier join is not counted.
//
// events must be ordered by (event_time, insertion id) ascending and include
// at least every event at or after w.From.
func Sessions(events []event.Event, w Window, now time.Time) []Session {
	joins := make(map[string][]event.Event)
	leaves := make(map[string][]event.Event)
	for _, e := range events {
		switch {
		case e.IsJoin() && w.Contains(e.At):
			joins[e.PlayerName] = append(joins[e.PlayerName], e)
		case e.Kind == event.KindLeave:
			leaves[e.PlayerName] = append(leaves[e.PlayerName], e)
		}
	}

	openEnd := now
	if w.Until.Before(now) {
		openEnd = w.Until
	}

	var sessions []Session
	for player, js := range joins {
		ls := leaves[player]
		next := 0
		for _, j := range js {
			// Earliest leave strictly after this join that hasn't already
			// closed an earlier join. Doubled joins with no interleaved
			// leave (crash recovery, malformed logs) each pair with the
			// nearest remaining leave or stay open.
			for next < len(ls) && !ls[next].At.After(j.At) {
				next++
			}
			if next < len(ls) {
				sessions = append(sessions, Session{
					PlayerName: player,
					JoinedAt:   j.At,
					End:        ls[next].At,
				})
				next++
				continue
			}
			sessions = append(sessions, Session{
				PlayerName: player,
				JoinedAt:   j.At,
				End:        openEnd,
				Open:       true,
			})
		}
	}

	sort.Slice(sessions, func(i, k int) bool {
		if !sessions[i].JoinedAt.Equal(sessions[k].JoinedAt) {
			return sessions[i].JoinedAt.Before(sessions[k].JoinedAt)
		}
		return sessions[i].PlayerName < sessions[k].PlayerName
	})
	return sessions
}

// PlayerDay is one player's derived totals for a reporting window.
type PlayerDay struct {
	Name            string
	TotalSeconds    int64
	SessionCount    int
	CurrentlyOnline bool
}

// DayStats folds sessions into per-player totals for the window.
//
// latest holds the globally most recent event per player (insertion-order
// tie-break); a latest join means currently online. Online status is a
// point-in-time fact, so it is read from the global map and not from the
// window. Results are sorted by total playtime descending, ties by name so
// output is deterministic.
func DayStats(events []event.Event, latest map[string]event.Event, w Window, now time.Time) []PlayerDay {
	totals := make(map[string]*PlayerDay)
	for _, s := range Sessions(events, w, now) {
		d, ok := totals[s.PlayerName]
		if !ok {
			d = &PlayerDay{Name: s.PlayerName}
			totals[s.PlayerName] = d
		}
		secs := int64(s.Duration() / time.Second)
		if secs < 0 {
			secs = 0
		}
		d.TotalSeconds += secs
		d.SessionCount++
	}

	days := make([]PlayerDay, 0, len(totals))
	for name, d := range totals {
		if e, ok := latest[name]; ok && e.IsJoin() {
			d.CurrentlyOnline = true
		}
		days = append(days, *d)
	}

	sort.Slice(days, func(i, k int) bool {
		if days[i].TotalSeconds != days[k].TotalSeconds {
			return days[i].TotalSeconds > days[k].TotalSeconds
		}
		return days[i].Name < days[k].Name
	})
	return days
}

// FormatDuration renders seconds as "42s", "5m", "2h", or "2h 5m".
func FormatDuration(seconds int64) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	hours := minutes / 60
	remaining := minutes % 60
	if remaining == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, remaining)
}
