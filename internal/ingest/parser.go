// Package ingest turns remote server log text into deduplicated join/leave
// events. It tracks a byte offset per log file so each poll only transfers
// new content, detects rotation, and resolves the log's time-only timestamps
// to absolute instants.
package ingest

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/anthonyi7/minecraft-dashboard/internal/event"
)

// Log line shapes handled, vanilla and modded:
//
//	[23:45:12] [Server thread/INFO]: PlayerName joined the game
//	[23:45:12] [Server thread/INFO] [minecraft/DedicatedServer]: PlayerName left the game
//	[18Feb2026 19:25:22.581] [Server thread/INFO] [net.minecraft.server.MinecraftServer/]: PlayerName joined the game
//
// The first capture is the HH:MM:SS portion of whatever timestamp bracket the
// server writes; the second is the player name (Minecraft username charset).
var (
	joinRE  = regexp.MustCompile(`^\[.*?(\d{2}:\d{2}:\d{2})[^\]]*\] \[.*?/INFO\].*?: ([A-Za-z0-9_]{3,16}) joined the game`)
	leaveRE = regexp.MustCompile(`^\[.*?(\d{2}:\d{2}:\d{2})[^\]]*\] \[.*?/INFO\].*?: ([A-Za-z0-9_]{3,16}) left the game`)
)

// ParseLines extracts join/leave events from raw log lines.
// now is the reference instant (UTC) used to resolve time-only timestamps.
// Lines that match neither pattern are skipped; a chat message or stack trace
// in the middle of a batch is not an error.
func ParseLines(lines []string, now time.Time) []event.Event {
	var events []event.Event
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := joinRE.FindStringSubmatch(line); m != nil {
			events = append(events, event.Event{
				PlayerName: m[2],
				Kind:       event.KindJoin,
				At:         ResolveTime(m[1], now),
			})
			continue
		}
		if m := leaveRE.FindStringSubmatch(line); m != nil {
			events = append(events, event.Event{
				PlayerName: m[2],
				Kind:       event.KindLeave,
				At:         ResolveTime(m[1], now),
			})
		}
	}
	return events
}

// ResolveTime combines a bare HH:MM:SS with the date of the reference
// instant. If the candidate lands more than one hour after the reference,
// the line was written before a midnight the reference has already crossed,
// so one day is subtracted.
//
// The heuristic assumes polling runs at least daily and only sees recent log
// tails; events older than ~24h would be assigned the wrong day. Revisit
// before using this for longer backfills.
func ResolveTime(hhmmss string, ref time.Time) time.Time {
	parts := strings.SplitN(hhmmss, ":", 3)
	if len(parts) != 3 {
		return ref
	}
	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	s, _ := strconv.Atoi(parts[2])

	ref = ref.UTC()
	at := time.Date(ref.Year(), ref.Month(), ref.Day(), h, m, s, 0, time.UTC)
	if at.After(ref.Add(time.Hour)) {
		at = at.AddDate(0, 0, -1)
	}
	return at
}
